// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package zpcwallet

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// WalletRecord is the persisted description of a wallet. The seed is only
// present in encrypted form.
type WalletRecord struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Network      Network           `json:"network"`
	CoinType     uint32            `json:"coinType"`
	CreatedAt    time.Time         `json:"createdAt"`
	AccountCount int               `json:"accountCount"`
	Seed         EncryptedSeedBlob `json:"seed"`
}

// Store persists a single wallet record.
type Store interface {
	// SaveRecord stores rec, replacing any previous record.
	SaveRecord(rec WalletRecord) error

	// LoadRecord returns the stored record, or an error wrapping
	// ErrNoWallet if there is none.
	LoadRecord() (WalletRecord, error)
}

// FileStore keeps the wallet record as a JSON file.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore returns a FileStore backed by the file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// SaveRecord implements Store. The file is written atomically with mode 0600.
func (s *FileStore) SaveRecord(rec WalletRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal wallet record: %w", err)
	}
	if err := writeFile(s.path, b, 0o600); err != nil {
		return fmt.Errorf("failed to write wallet record: %w", err)
	}
	return nil
}

// LoadRecord implements Store.
func (s *FileStore) LoadRecord() (WalletRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return WalletRecord{}, fmt.Errorf("%w: %s", ErrNoWallet, s.path)
	case err != nil:
		return WalletRecord{}, fmt.Errorf("failed to read wallet record: %w", err)
	case len(b) == 0:
		return WalletRecord{}, fmt.Errorf("%w: %s is empty", ErrNoWallet, s.path)
	}

	var rec WalletRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return WalletRecord{}, fmt.Errorf("failed to unmarshal wallet record: %w", err)
	}
	return rec, nil
}

// writeFile writes bytes via a temp file, then atomically replaces the target.
func writeFile(path string, b []byte, mode os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()

	// Best-effort cleanup if anything fails before rename.
	defer func() { _ = os.Remove(tmp) }()

	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Chmod(mode); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	return os.Rename(tmp, path)
}

// MemoryStore keeps the wallet record in memory.
type MemoryStore struct {
	mu  sync.Mutex
	rec *WalletRecord
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// SaveRecord implements Store.
func (s *MemoryStore) SaveRecord(rec WalletRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rec = &rec
	return nil
}

// LoadRecord implements Store.
func (s *MemoryStore) LoadRecord() (WalletRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rec == nil {
		return WalletRecord{}, ErrNoWallet
	}
	return *s.rec, nil
}

// Compile-time assertions that the stores implement Store.
var (
	_ Store = (*FileStore)(nil)
	_ Store = (*MemoryStore)(nil)
)
