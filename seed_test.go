// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package zpcwallet

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/matryer/is"
	"golang.org/x/text/unicode/norm"
)

// zeroEntropySeedHex is the BIP39 seed of zeroEntropyMnemonic with an empty
// passphrase.
const zeroEntropySeedHex = "408b285c123836004f4b8842c89324c1f01382450c0d439af345ba7fc49acf70" +
	"5489c6fc77dbd4e3dc1dd8cc6bc9f043db8ada1e243c4a0eafb290d399480840"

// TestDeriveSeed_Golden verifies the zero-entropy seed
func TestDeriveSeed_Golden(t *testing.T) {
	is := is.New(t)

	seed, err := DeriveSeed(zeroEntropyMnemonic, "")
	is.NoErr(err)
	is.Equal(hex.EncodeToString(seed[:]), zeroEntropySeedHex)
}

// TestDeriveSeed_TrezorVector verifies the BIP39 reference vector with the
// "TREZOR" passphrase
// See: https://github.com/trezor/python-mnemonic/blob/master/vectors.json
func TestDeriveSeed_TrezorVector(t *testing.T) {
	is := is.New(t)

	seed, err := DeriveSeed(zeroEntropyMnemonic, "TREZOR")
	is.NoErr(err)

	expected := "bda85446c68413707090a52022edd26a1c9462295029f2e60cd7c4f2bbd30971" +
		"70af7a4d73245cafa9c3cca8d561a7c3de6f5d4a10be8ed2a5e608d68f92fcc8"
	is.Equal(hex.EncodeToString(seed[:]), expected)
}

// TestDeriveSeed_NonASCIIPassphrase verifies that the passphrase is NFKD
// normalized before stretching, as BIP39 requires
func TestDeriveSeed_NonASCIIPassphrase(t *testing.T) {
	is := is.New(t)

	composed := norm.NFC.String("caf\u00e9")
	decomposed := norm.NFKD.String(composed)
	is.True(composed != decomposed)

	s1, err := DeriveSeed(zeroEntropyMnemonic, composed)
	is.NoErr(err)
	s2, err := DeriveSeed(zeroEntropyMnemonic, decomposed)
	is.NoErr(err)
	is.True(s1.Equal(&s2))

	expected := "5473db1e091268961306abc6ec40fa37dde0a3941bfcd1dc51ec8dba85b1808f" +
		"677044cbd09379624b76078694a6ec1d665edd442911d5e054fca1495234a4a1"
	is.Equal(hex.EncodeToString(s1[:]), expected)
}

// TestDeriveSeed_CompatibilityCharacters verifies that fullwidth characters
// fold to their ASCII forms
func TestDeriveSeed_CompatibilityCharacters(t *testing.T) {
	is := is.New(t)

	fullwidth, err := DeriveSeed(zeroEntropyMnemonic, "\uff34\uff32\uff25\uff3a\uff2f\uff32")
	is.NoErr(err)
	ascii, err := DeriveSeed(zeroEntropyMnemonic, "TREZOR")
	is.NoErr(err)
	is.True(fullwidth.Equal(&ascii))
}

// TestDeriveSeed_Deterministic verifies that the same phrase and passphrase
// always produce the same seed
func TestDeriveSeed_Deterministic(t *testing.T) {
	is := is.New(t)

	mnemonic, err := GenerateMnemonic()
	is.NoErr(err)

	s1, err := DeriveSeed(mnemonic, "test-passphrase")
	is.NoErr(err)
	s2, err := DeriveSeed(mnemonic, "test-passphrase")
	is.NoErr(err)
	is.True(s1.Equal(&s2))

	// A different passphrase is a different wallet.
	s3, err := DeriveSeed(mnemonic, "other-passphrase")
	is.NoErr(err)
	is.True(!s1.Equal(&s3))
}

// TestDeriveSeed_InvalidMnemonic tests that no seed comes out of a bad phrase
func TestDeriveSeed_InvalidMnemonic(t *testing.T) {
	is := is.New(t)

	seed, err := DeriveSeed("invalid mnemonic phrase", "")
	is.True(errors.Is(err, ErrInvalidMnemonic))
	is.True(seed.IsZero())
}

// TestRootSeed_Redacted verifies the seed bytes never reach fmt or json
func TestRootSeed_Redacted(t *testing.T) {
	is := is.New(t)

	seed, err := DeriveSeed(zeroEntropyMnemonic, "")
	is.NoErr(err)

	for _, verb := range []string{"%v", "%+v", "%#v", "%s", "%x", "%X", "%d", "%q"} {
		out := fmt.Sprintf(verb, seed)
		is.True(!strings.Contains(strings.ToLower(out), "408b285c"))
		is.True(!strings.Contains(out, "64"))
	}

	_, err = json.Marshal(seed)
	is.True(err != nil)

	_, err = json.Marshal(struct{ Seed RootSeed }{seed})
	is.True(err != nil)
}

// TestRootSeed_Zero tests that Zero wipes the seed
func TestRootSeed_Zero(t *testing.T) {
	is := is.New(t)

	seed, err := DeriveSeed(zeroEntropyMnemonic, "")
	is.NoErr(err)
	is.True(!seed.IsZero())

	seed.Zero()
	is.True(seed.IsZero())
}
