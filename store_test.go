// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package zpcwallet

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matryer/is"
)

func testRecord() WalletRecord {
	return WalletRecord{
		ID:           "0b6f3f1e-8d7a-4b7e-9d43-7b1c4b1f5a10",
		Name:         "Savings",
		Network:      Mainnet,
		CoinType:     CoinType,
		CreatedAt:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		AccountCount: 2,
		Seed: EncryptedSeedBlob{
			EncryptedSeed: "AQ==",
			Salt:          "00",
			IV:            "11",
		},
	}
}

// TestFileStore_RoundTrip tests saving and loading a record
func TestFileStore_RoundTrip(t *testing.T) {
	is := is.New(t)

	path := filepath.Join(t.TempDir(), "nested", "wallet.json")
	store := NewFileStore(path)
	is.Equal(store.Path(), path)

	rec := testRecord()
	is.NoErr(store.SaveRecord(rec))

	got, err := store.LoadRecord()
	is.NoErr(err)
	is.Equal(got, rec)

	info, err := os.Stat(path)
	is.NoErr(err)
	is.Equal(info.Mode().Perm(), os.FileMode(0o600))

	// Overwrite leaves no temp files behind.
	rec.AccountCount = 3
	is.NoErr(store.SaveRecord(rec))
	entries, err := os.ReadDir(filepath.Dir(path))
	is.NoErr(err)
	is.Equal(len(entries), 1)

	got, err = store.LoadRecord()
	is.NoErr(err)
	is.Equal(got.AccountCount, 3)
}

// TestFileStore_Missing tests that a missing or empty file means no wallet
func TestFileStore_Missing(t *testing.T) {
	is := is.New(t)
	dir := t.TempDir()

	_, err := NewFileStore(filepath.Join(dir, "none.json")).LoadRecord()
	is.True(errors.Is(err, ErrNoWallet))

	empty := filepath.Join(dir, "empty.json")
	is.NoErr(os.WriteFile(empty, nil, 0o600))
	_, err = NewFileStore(empty).LoadRecord()
	is.True(errors.Is(err, ErrNoWallet))

	garbage := filepath.Join(dir, "garbage.json")
	is.NoErr(os.WriteFile(garbage, []byte("{not json"), 0o600))
	_, err = NewFileStore(garbage).LoadRecord()
	is.True(err != nil)
	is.True(!errors.Is(err, ErrNoWallet))
}

// TestMemoryStore tests the in-memory store
func TestMemoryStore(t *testing.T) {
	is := is.New(t)
	store := NewMemoryStore()

	_, err := store.LoadRecord()
	is.True(errors.Is(err, ErrNoWallet))

	rec := testRecord()
	is.NoErr(store.SaveRecord(rec))

	got, err := store.LoadRecord()
	is.NoErr(err)
	is.Equal(got, rec)
}
