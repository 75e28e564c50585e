// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package zpcwallet

import "errors"

// Errors returned by the wallet core. They are compared with errors.Is; the
// wrapping context added around them never includes seeds, keys, mnemonic
// words or passphrases.
var (
	// ErrInvalidMnemonic is returned when a recovery phrase fails the word
	// count, wordlist or checksum checks. A restore must stop here.
	ErrInvalidMnemonic = errors.New("invalid mnemonic")

	// ErrWalletNotInitialized is returned by any operation that needs the
	// root seed while the wallet is locked or was never loaded.
	ErrWalletNotInitialized = errors.New("wallet not initialized")

	// ErrInvalidAddress is returned for a malformed recipient address.
	ErrInvalidAddress = errors.New("invalid address")

	// ErrDecryptionFailed is returned when an encrypted seed blob cannot be
	// opened. It deliberately does not say whether the passphrase, the salt,
	// the iv or the ciphertext was at fault.
	ErrDecryptionFailed = errors.New("decryption failed")

	ErrInvalidConfig      = errors.New("invalid wallet config")
	ErrInvalidPath        = errors.New("invalid derivation path")
	ErrHardenedFromPublic = errors.New("cannot derive a hardened child from a public key")
	ErrUnsupportedVault   = errors.New("unsupported vault version")
	ErrUnknownAlgorithm   = errors.New("unknown signature algorithm")
	ErrInvalidSignature   = errors.New("invalid signature")
	ErrNoWallet           = errors.New("no wallet found")
	ErrConfigMismatch     = errors.New("wallet record does not match config")
	ErrEmptyPassphrase    = errors.New("passphrase cannot be empty")
)
