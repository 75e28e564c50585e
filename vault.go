// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package zpcwallet

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/scrypt"
)

// EncryptedSeedBlob is the only persisted form of a RootSeed.
//
// EncryptedSeed is base64 of a one-byte vault version followed by the
// AES-256-GCM ciphertext and tag. Salt and IV are hex encoded.
type EncryptedSeedBlob struct {
	EncryptedSeed string `json:"encryptedSeed"`
	Salt          string `json:"salt"`
	IV            string `json:"iv"`
}

// VaultVersion selects the fixed key-stretching parameters of a blob.
type VaultVersion uint8

const (
	// VaultV1 stretches with PBKDF2-HMAC-SHA256, 100000 iterations. Kept to
	// open blobs written with the original parameters.
	VaultV1 VaultVersion = 1

	// VaultV2 stretches with scrypt N=2^18, r=8, p=1 (~256MB, 0.5-2s).
	VaultV2 VaultVersion = 2

	// CurrentVaultVersion is used for every new blob.
	CurrentVaultVersion = VaultV2
)

const (
	vaultSaltLen  = 32
	vaultNonceLen = 12
	vaultKeyLen   = 32

	pbkdf2Iterations = 100_000

	scryptN = 1 << 18
	scryptR = 8
	scryptP = 1
)

// vaultDomain separates vault keys from BIP39 seed stretching, which salts
// with "mnemonic".
const vaultDomain = "zpcwallet/vault"

// vaultKDFs holds the stretching function of every known version. Entries
// are never changed once released; stronger parameters get a new version.
var vaultKDFs = map[VaultVersion]func(passphrase, salt []byte) ([]byte, error){
	VaultV1: func(passphrase, salt []byte) ([]byte, error) {
		return pbkdf2.Key(passphrase, salt, pbkdf2Iterations, vaultKeyLen, sha256.New), nil
	},
	VaultV2: func(passphrase, salt []byte) ([]byte, error) {
		return scrypt.Key(passphrase, salt, scryptN, scryptR, scryptP, vaultKeyLen)
	},
}

// EncryptSeed encrypts seed under passphrase with the current vault version.
func EncryptSeed(seed *RootSeed, passphrase string) (EncryptedSeedBlob, error) {
	return EncryptSeedVersion(seed, passphrase, CurrentVaultVersion)
}

// EncryptSeedVersion encrypts seed under passphrase with the given vault
// version.
//
// Parameters:
//   - seed: The root seed to protect (must not be all zeros)
//   - passphrase: The vault passphrase (must not be empty)
//   - version: One of the released vault versions
//
// Returns:
//   - EncryptedSeedBlob: base64 payload plus hex salt and iv
//   - error: ErrWalletNotInitialized, ErrEmptyPassphrase or ErrUnsupportedVault
//
// A fresh random 32-byte salt and 12-byte nonce are drawn on every call, so
// encrypting the same seed twice never gives the same blob.
func EncryptSeedVersion(seed *RootSeed, passphrase string, version VaultVersion) (EncryptedSeedBlob, error) {
	if seed == nil || seed.IsZero() {
		return EncryptedSeedBlob{}, ErrWalletNotInitialized
	}
	if passphrase == "" {
		return EncryptedSeedBlob{}, ErrEmptyPassphrase
	}
	if _, ok := vaultKDFs[version]; !ok {
		return EncryptedSeedBlob{}, fmt.Errorf("%w: %d", ErrUnsupportedVault, version)
	}

	// Generate salt and nonce
	salt := make([]byte, vaultSaltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return EncryptedSeedBlob{}, fmt.Errorf("failed to generate salt: %w", err)
	}
	nonce := make([]byte, vaultNonceLen)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return EncryptedSeedBlob{}, fmt.Errorf("failed to generate nonce: %w", err)
	}

	aead, err := vaultCipher(version, []byte(passphrase), salt)
	if err != nil {
		return EncryptedSeedBlob{}, err
	}

	header := []byte{byte(version)}
	sealed := aead.Seal(header, nonce, seed[:], vaultAAD(version))

	return EncryptedSeedBlob{
		EncryptedSeed: base64.StdEncoding.EncodeToString(sealed),
		Salt:          hex.EncodeToString(salt),
		IV:            hex.EncodeToString(nonce),
	}, nil
}

// DecryptSeed re-derives the key from passphrase and the stored salt and
// opens the blob. A wrong passphrase and any damage to the blob both return
// ErrDecryptionFailed. A version newer than this build understands returns
// ErrUnsupportedVault.
func DecryptSeed(blob EncryptedSeedBlob, passphrase string) (RootSeed, error) {
	var seed RootSeed

	version, sealed, err := splitVaultPayload(blob)
	if err != nil {
		return seed, err
	}

	salt, err := hex.DecodeString(blob.Salt)
	if err != nil || len(salt) != vaultSaltLen {
		return seed, ErrDecryptionFailed
	}
	nonce, err := hex.DecodeString(blob.IV)
	if err != nil || len(nonce) != vaultNonceLen {
		return seed, ErrDecryptionFailed
	}

	aead, err := vaultCipher(version, []byte(passphrase), salt)
	if err != nil {
		return seed, err
	}

	plaintext, err := aead.Open(nil, nonce, sealed, vaultAAD(version))
	if err != nil {
		return seed, ErrDecryptionFailed
	}
	defer wipe(plaintext)

	if len(plaintext) != SeedSize {
		return seed, ErrDecryptionFailed
	}
	copy(seed[:], plaintext)

	return seed, nil
}

// BlobVersion reports the vault version a blob was written with.
func BlobVersion(blob EncryptedSeedBlob) (VaultVersion, error) {
	version, _, err := splitVaultPayload(blob)
	return version, err
}

// NeedsUpgrade reports whether blob uses weaker stretching than the current
// vault version.
func NeedsUpgrade(blob EncryptedSeedBlob) (bool, error) {
	version, err := BlobVersion(blob)
	if err != nil {
		return false, err
	}
	return version < CurrentVaultVersion, nil
}

func splitVaultPayload(blob EncryptedSeedBlob) (VaultVersion, []byte, error) {
	payload, err := base64.StdEncoding.DecodeString(blob.EncryptedSeed)
	if err != nil || len(payload) < 2 {
		return 0, nil, ErrDecryptionFailed
	}

	version := VaultVersion(payload[0])
	if _, ok := vaultKDFs[version]; !ok {
		return 0, nil, fmt.Errorf("%w: %d", ErrUnsupportedVault, version)
	}

	return version, payload[1:], nil
}

func vaultCipher(version VaultVersion, passphrase, salt []byte) (cipher.AEAD, error) {
	kdfSalt := make([]byte, 0, len(vaultDomain)+len(salt))
	kdfSalt = append(kdfSalt, vaultDomain...)
	kdfSalt = append(kdfSalt, salt...)

	key, err := vaultKDFs[version](passphrase, kdfSalt)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	defer wipe(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return aead, nil
}

func vaultAAD(version VaultVersion) []byte {
	return append([]byte(vaultDomain), byte(version))
}
