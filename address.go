// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package zpcwallet

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	// AddressPrefix starts every ZippyCoin address.
	AddressPrefix = "zpc1"

	// addressBodyLen is the number of hex characters kept from the digest.
	addressBodyLen = 39

	// AddressLen is the full address length.
	AddressLen = len(AddressPrefix) + addressBodyLen
)

// EncodeAddress maps a public key to its address: "zpc1" followed by the
// first 39 hex characters of SHA-256(pubKey).
//
// The scheme carries no checksum character and keeps only ~19.5 bytes of the
// digest. It is kept because addresses issued by earlier wallets use it; it
// is not a format to extend.
func EncodeAddress(pubKey []byte) string {
	sum := sha256.Sum256(pubKey)
	return AddressPrefix + hex.EncodeToString(sum[:])[:addressBodyLen]
}

// ValidateAddress returns an error wrapping ErrInvalidAddress unless addr is
// "zpc1" followed by exactly 39 hex digits (either case).
func ValidateAddress(addr string) error {
	body, ok := strings.CutPrefix(addr, AddressPrefix)
	if !ok {
		return fmt.Errorf("%w: missing %q prefix", ErrInvalidAddress, AddressPrefix)
	}
	if len(body) != addressBodyLen {
		return fmt.Errorf("%w: expected %d characters after prefix, got %d",
			ErrInvalidAddress, addressBodyLen, len(body))
	}
	for i := 0; i < len(body); i++ {
		if !isHexDigit(body[i]) {
			return fmt.Errorf("%w: non-hex character at position %d",
				ErrInvalidAddress, len(AddressPrefix)+i+1)
		}
	}
	return nil
}

// IsValidAddress is the boolean form of ValidateAddress.
func IsValidAddress(addr string) bool {
	return ValidateAddress(addr) == nil
}

func isHexDigit(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
