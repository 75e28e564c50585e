package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matryer/is"
)

// swapStdin replaces os.Stdin for the duration of the test.
func swapStdin(t *testing.T, f *os.File) {
	t.Helper()
	old := os.Stdin
	os.Stdin = f
	t.Cleanup(func() { os.Stdin = old })
}

// TestStdinIsPiped_ClosedStdin tests that a stdin that cannot be inspected
// is treated as a terminal
func TestStdinIsPiped_ClosedStdin(t *testing.T) {
	is := is.New(t)

	f, err := os.CreateTemp(t.TempDir(), "stdin")
	is.NoErr(err)
	is.NoErr(f.Close())
	swapStdin(t, f)

	_, err = os.Stdin.Stat()
	is.True(err != nil)
	is.True(!stdinIsPiped())

	_, err = readPayload("", false)
	is.True(err != nil)

	payload, err := readPayload("hello", true)
	is.NoErr(err)
	is.Equal(string(payload), "hello")
}

// TestReadPayload_File tests reading a payload redirected from a file
func TestReadPayload_File(t *testing.T) {
	is := is.New(t)

	path := filepath.Join(t.TempDir(), "payload")
	is.NoErr(os.WriteFile(path, []byte("transfer 5 zpc"), 0o600))
	f, err := os.Open(path)
	is.NoErr(err)
	t.Cleanup(func() { _ = f.Close() })
	swapStdin(t, f)

	is.True(stdinIsPiped())
	payload, err := readPayload("", false)
	is.NoErr(err)
	is.Equal(string(payload), "transfer 5 zpc")
}
