// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package zpcwallet

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"io"

	"github.com/tyler-smith/go-bip39"
	"golang.org/x/text/unicode/norm"
)

// SeedSize is the length of a root seed in bytes (512 bits).
const SeedSize = 64

// RootSeed is the single secret every account key is derived from.
//
// Its formatting and marshalling methods are redacted so the seed cannot leak
// through logs, fmt verbs or an accidental json.Marshal. The only persisted
// form of a RootSeed is the ciphertext inside an EncryptedSeedBlob.
type RootSeed [SeedSize]byte

// DeriveSeed converts a recovery phrase and an optional passphrase into a
// root seed using BIP39 (PBKDF2-HMAC-SHA512, 2048 rounds, salted with
// "mnemonic" followed by the passphrase).
//
// Parameters:
//   - mnemonic: A BIP39 phrase (12, 15, 18, 21, or 24 words)
//   - passphrase: Optional BIP39 passphrase (empty string if not used)
//
// Returns:
//   - RootSeed: The 64-byte seed, owned by the caller
//   - error: An error wrapping ErrInvalidMnemonic if the phrase is invalid
//
// The phrase is validated first and no seed is derived from an invalid one.
// Both inputs are NFKD normalized before stretching, so a passphrase typed
// in composed or decomposed form gives the same wallet. The stretching is
// slow and the result is never memoized.
func DeriveSeed(mnemonic, passphrase string) (RootSeed, error) {
	var seed RootSeed

	if err := ValidateMnemonic(mnemonic); err != nil {
		return seed, err
	}

	raw := bip39.NewSeed(
		norm.NFKD.String(NormalizeMnemonic(mnemonic)),
		norm.NFKD.String(passphrase),
	)
	defer wipe(raw)

	if len(raw) != SeedSize {
		return seed, fmt.Errorf("unexpected seed length %d", len(raw))
	}
	copy(seed[:], raw)

	return seed, nil
}

// Zero overwrites the seed in place.
func (s *RootSeed) Zero() {
	wipe(s[:])
}

// Equal reports whether two seeds are identical, in constant time.
func (s *RootSeed) Equal(other *RootSeed) bool {
	return subtle.ConstantTimeCompare(s[:], other[:]) == 1
}

// IsZero reports whether the seed is all zeros.
func (s *RootSeed) IsZero() bool {
	var zero RootSeed
	return s.Equal(&zero)
}

const redacted = "RootSeed(redacted)"

// String implements fmt.Stringer without revealing the seed.
func (s RootSeed) String() string { return redacted }

// GoString implements fmt.GoStringer without revealing the seed.
func (s RootSeed) GoString() string { return redacted }

// Format implements fmt.Formatter so that no verb, %x and %d included, can
// print the seed bytes.
func (s RootSeed) Format(f fmt.State, _ rune) {
	_, _ = io.WriteString(f, redacted)
}

var errSeedMarshal = errors.New("root seed cannot be marshalled; use EncryptSeed")

// MarshalText refuses to encode the seed.
func (s RootSeed) MarshalText() ([]byte, error) { return nil, errSeedMarshal }

// MarshalJSON refuses to encode the seed.
func (s RootSeed) MarshalJSON() ([]byte, error) { return nil, errSeedMarshal }

// wipe zeroes b in a constant-time friendly way.
func wipe(b []byte) {
	if len(b) == 0 {
		return
	}
	zero := make([]byte, len(b))
	subtle.ConstantTimeCopy(1, b, zero)
}
