// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

// Package zpcwallet is the cryptographic core of the ZippyCoin self-custody
// wallet. It turns a single root secret into any number of unlinkable
// account keys, renders their addresses, signs payloads and keeps the root
// secret encrypted while the device is at rest.
//
// The pieces, leaf first:
//
//   - recovery phrases (BIP39, 24 words for new wallets)
//   - seed derivation from a phrase and optional passphrase
//   - the BIP32 key tree along m/44'/2187'/account'/0/0
//   - the "zpc1" address codec
//   - classical and quantum-resistant signing behind one Algorithm interface
//   - the passphrase vault that wraps the root seed for storage
//
// A Wallet ties them together as a caller-owned handle that is either
// locked or unlocked.
package zpcwallet

import (
	"fmt"
	"strings"

	"github.com/tyler-smith/go-bip39"
	"golang.org/x/text/unicode/norm"
)

// EntropyBits is the entropy size used for newly generated phrases.
const EntropyBits = 256

// MnemonicWords is the word count of a newly generated phrase.
const MnemonicWords = 24

// validWordCounts maps each accepted phrase length to its entropy size in
// bytes.
var validWordCounts = map[int]int{
	12: 16, // 128 bits
	15: 20, // 160 bits
	18: 24, // 192 bits
	21: 28, // 224 bits
	24: 32, // 256 bits
}

// GenerateMnemonic draws 256 bits from the operating system's secure random
// source and encodes them, together with their checksum, as a 24-word
// recovery phrase. Every call yields an independent phrase.
func GenerateMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(EntropyBits)
	if err != nil {
		return "", fmt.Errorf("could not generate entropy: %w", err)
	}
	defer wipe(entropy)

	return MnemonicFromEntropy(entropy)
}

// MnemonicFromEntropy deterministically encodes entropy as a recovery phrase.
// The entropy must be 16, 20, 24, 28 or 32 bytes long.
//
// This is the encoding half of GenerateMnemonic, exposed so that a known
// entropy value always maps to the same phrase.
func MnemonicFromEntropy(entropy []byte) (string, error) {
	words, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("could not create a mnemonic set of words: %w", err)
	}
	return words, nil
}

// NormalizeMnemonic collapses any run of whitespace into a single space.
// Case is kept: wordlist words are lowercase and an uppercase word is not a
// wordlist word.
func NormalizeMnemonic(phrase string) string {
	return strings.Join(strings.Fields(phrase), " ")
}

// ValidateMnemonic checks a recovery phrase and returns an error wrapping
// ErrInvalidMnemonic when:
//   - the word count is not one of 12, 15, 18, 21 or 24
//   - a word is not in the active wordlist
//   - the checksum recomputed from the word indices does not match
//
// Words must match the wordlist exactly, in lowercase. Accented words are
// accepted in either composed or decomposed Unicode form. The error names
// the offending position, never the word itself. The function has no side
// effects.
func ValidateMnemonic(phrase string) error {
	words := strings.Fields(NormalizeMnemonic(phrase))

	if _, ok := validWordCounts[len(words)]; !ok {
		return fmt.Errorf("%w: unsupported word count %d (must be 12, 15, 18, 21 or 24)",
			ErrInvalidMnemonic, len(words))
	}

	for i, word := range words {
		listed, ok := wordlistForm(word)
		if !ok {
			return fmt.Errorf("%w: word %d is not in the wordlist", ErrInvalidMnemonic, i+1)
		}
		words[i] = listed
	}

	// Word count and words are fine, so a failure here is the checksum.
	entropy, err := bip39.EntropyFromMnemonic(strings.Join(words, " "))
	if err != nil {
		return fmt.Errorf("%w: checksum mismatch", ErrInvalidMnemonic)
	}
	wipe(entropy)

	return nil
}

// wordlistForm returns word in the Unicode form the active wordlist stores
// it in.
func wordlistForm(word string) (string, bool) {
	for _, form := range []norm.Form{norm.NFC, norm.NFKD, norm.NFD, norm.NFKC} {
		w := form.String(word)
		if _, ok := bip39.GetWordIndex(w); ok {
			return w, true
		}
	}
	return "", false
}
