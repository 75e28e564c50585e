// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package zpcwallet

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/ethereum/go-ethereum/accounts"
	hdwallet "github.com/stephenlacy/go-ethereum-hdwallet"
)

// Chain indices below an account node.
const (
	ExternalChain uint32 = 0
	InternalChain uint32 = 1
)

// DerivationPath is a sequence of BIP32 child indices from the master node.
// Indices at or above hdkeychain.HardenedKeyStart are hardened.
type DerivationPath []uint32

// ParseDerivationPath parses an absolute path such as "m/44'/2187'/0'/0/0".
// Relative paths are rejected: every path in this wallet is anchored at the
// master node.
func ParseDerivationPath(s string) (DerivationPath, error) {
	s = strings.TrimSpace(s)
	if s != "m" && !strings.HasPrefix(s, "m/") {
		return nil, fmt.Errorf("%w: %q must start with \"m/\"", ErrInvalidPath, s)
	}
	if s == "m" {
		return DerivationPath{}, nil
	}

	parsed, err := hdwallet.ParseDerivationPath(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPath, err)
	}

	return DerivationPath(parsed), nil
}

// String renders the path in the "m/44'/2187'/0'/0/0" form.
func (p DerivationPath) String() string {
	if len(p) == 0 {
		return "m"
	}
	return accounts.DerivationPath(p).String()
}

// Append returns a new path with the given indices added after p.
func (p DerivationPath) Append(indices ...uint32) DerivationPath {
	out := make(DerivationPath, 0, len(p)+len(indices))
	out = append(out, p...)
	return append(out, indices...)
}

// Hardened returns the hardened form of index i.
func Hardened(i uint32) uint32 {
	return i + hdkeychain.HardenedKeyStart
}

// IsHardened reports whether i is a hardened index.
func IsHardened(i uint32) bool {
	return i >= hdkeychain.HardenedKeyStart
}

// AccountPath returns m/44'/coinType'/account'.
func AccountPath(coinType, account uint32) DerivationPath {
	return DerivationPath{
		Hardened(Purpose),
		Hardened(coinType),
		Hardened(account),
	}
}

// ReceivingPath returns the single receiving key path of an account,
// m/44'/coinType'/account'/0/0. The wallet does not rotate receiving keys.
func ReceivingPath(coinType, account uint32) DerivationPath {
	return AccountPath(coinType, account).Append(ExternalChain, 0)
}
