// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package zpcwallet

import (
	"errors"
	"strings"
	"testing"

	"github.com/matryer/is"
	"pgregory.net/rapid"
)

// zeroEntropyMnemonic is the phrase for 32 zero bytes of entropy.
const zeroEntropyMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon " +
	"abandon abandon abandon abandon abandon abandon abandon abandon " +
	"abandon abandon abandon abandon abandon abandon abandon art"

// TestGenerateMnemonic_WordCount tests that new phrases always have 24 words
// and validate
func TestGenerateMnemonic_WordCount(t *testing.T) {
	is := is.New(t)

	mnemonic, err := GenerateMnemonic()
	is.NoErr(err)

	words := strings.Fields(mnemonic)
	is.Equal(len(words), MnemonicWords)
	is.NoErr(ValidateMnemonic(mnemonic))
}

// TestGenerateMnemonic_Unpredictable verifies that two calls produce
// different phrases
func TestGenerateMnemonic_Unpredictable(t *testing.T) {
	is := is.New(t)

	m1, err := GenerateMnemonic()
	is.NoErr(err)
	m2, err := GenerateMnemonic()
	is.NoErr(err)

	is.True(m1 != m2)
}

// TestMnemonicFromEntropy_Golden checks the all-zero entropy vector
func TestMnemonicFromEntropy_Golden(t *testing.T) {
	is := is.New(t)

	mnemonic, err := MnemonicFromEntropy(make([]byte, 32))
	is.NoErr(err)
	is.Equal(mnemonic, zeroEntropyMnemonic)

	// Same input, same phrase, every time.
	again, err := MnemonicFromEntropy(make([]byte, 32))
	is.NoErr(err)
	is.Equal(again, mnemonic)
}

// TestMnemonicFromEntropy_InvalidSize tests entropy sizes BIP39 does not allow
func TestMnemonicFromEntropy_InvalidSize(t *testing.T) {
	for _, size := range []int{0, 8, 15, 17, 31, 33, 64} {
		is := is.New(t)
		_, err := MnemonicFromEntropy(make([]byte, size))
		is.True(err != nil)
	}
}

// TestValidateMnemonic_AllWordCounts tests every supported phrase length
func TestValidateMnemonic_AllWordCounts(t *testing.T) {
	for words, size := range validWordCounts {
		is := is.New(t)

		mnemonic, err := MnemonicFromEntropy(make([]byte, size))
		is.NoErr(err)
		is.Equal(len(strings.Fields(mnemonic)), words)
		is.NoErr(ValidateMnemonic(mnemonic))
	}
}

// TestValidateMnemonic_Invalid tests the failure modes of ValidateMnemonic
func TestValidateMnemonic_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		mnemonic string
	}{
		{"empty", ""},
		{"too short", "abandon abandon abandon"},
		{"unsupported count", strings.Repeat("abandon ", 13) + "about"},
		{"unknown word", strings.Replace(zeroEntropyMnemonic, "abandon", "zippycoin", 1)},
		{"checksum", strings.Repeat("abandon ", 23) + "abandon"},
		{"twelve bad checksum", "zoo zoo zoo zoo zoo zoo zoo zoo zoo zoo zoo zoo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			err := ValidateMnemonic(tt.mnemonic)
			is.True(errors.Is(err, ErrInvalidMnemonic))
		})
	}
}

// TestValidateMnemonic_ErrorHidesWords verifies the error does not echo a
// word from the phrase
func TestValidateMnemonic_ErrorHidesWords(t *testing.T) {
	is := is.New(t)

	phrase := strings.Replace(zeroEntropyMnemonic, "art", "secretword", 1)
	err := ValidateMnemonic(phrase)
	is.True(errors.Is(err, ErrInvalidMnemonic))
	is.True(!strings.Contains(err.Error(), "secretword"))
	is.True(strings.Contains(err.Error(), "word 24"))
}

// TestValidateMnemonic_Whitespace tests that spacing is ignored
func TestValidateMnemonic_Whitespace(t *testing.T) {
	is := is.New(t)

	messy := "  abandon\tabandon  " + strings.TrimPrefix(zeroEntropyMnemonic, "abandon abandon") + "\n"
	is.NoErr(ValidateMnemonic(messy))
	is.Equal(NormalizeMnemonic(messy), zeroEntropyMnemonic)
}

// TestValidateMnemonic_CaseSensitive tests that uppercase words are not
// wordlist words
func TestValidateMnemonic_CaseSensitive(t *testing.T) {
	is := is.New(t)

	err := ValidateMnemonic(strings.ToUpper(zeroEntropyMnemonic))
	is.True(errors.Is(err, ErrInvalidMnemonic))
	is.True(strings.Contains(err.Error(), "word 1"))

	err = ValidateMnemonic(strings.Replace(zeroEntropyMnemonic, "art", "Art", 1))
	is.True(errors.Is(err, ErrInvalidMnemonic))

	is.Equal(NormalizeMnemonic("ABANDON  Art"), "ABANDON Art")
}

// TestMnemonic_RoundTripProperty checks that every 256-bit entropy value
// encodes to a valid phrase and that distinct entropy gives distinct phrases
func TestMnemonic_RoundTripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		e1 := rapid.SliceOfN(rapid.Byte(), 32, 32).Draw(t, "e1")
		e2 := rapid.SliceOfN(rapid.Byte(), 32, 32).Draw(t, "e2")

		m1, err := MnemonicFromEntropy(e1)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		if err := ValidateMnemonic(m1); err != nil {
			t.Fatalf("validate: %v", err)
		}

		m2, err := MnemonicFromEntropy(e2)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		if (string(e1) == string(e2)) != (m1 == m2) {
			t.Fatalf("entropy equality and phrase equality disagree")
		}
	})
}
