// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package zpcwallet

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/chaincfg"
)

// ZippyCoin constants for BIP44 derivation.
const (
	// Purpose is the BIP44 purpose level, always hardened.
	Purpose uint32 = 44

	// CoinType is the registered ZippyCoin coin type.
	CoinType uint32 = 2187

	// TestCoinType is the SLIP-44 coin type shared by all test networks.
	TestCoinType uint32 = 1
)

// Network identifies the ZippyCoin network a wallet operates on.
type Network string

// Supported networks.
const (
	Mainnet Network = "mainnet"
	Testnet Network = "testnet"
	Devnet  Network = "devnet"
)

// ParseNetwork maps a case-insensitive network name to a Network.
func ParseNetwork(s string) (Network, error) {
	switch n := Network(strings.ToLower(strings.TrimSpace(s))); n {
	case Mainnet, Testnet, Devnet:
		return n, nil
	default:
		return "", fmt.Errorf("%w: unknown network %q", ErrInvalidConfig, s)
	}
}

// supportedCoinTypes lists the coin types each network accepts.
var supportedCoinTypes = map[Network][]uint32{
	Mainnet: {CoinType},
	Testnet: {CoinType, TestCoinType},
	Devnet:  {CoinType, TestCoinType},
}

// Config is the immutable wallet configuration. The zero value is not
// usable; build one with NewConfig or DefaultConfig.
type Config struct {
	network  Network
	coinType uint32
}

// NewConfig validates the network and coin type combination and returns an
// immutable Config. Unsupported combinations are rejected with
// ErrInvalidConfig.
func NewConfig(network Network, coinType uint32) (Config, error) {
	allowed, ok := supportedCoinTypes[network]
	if !ok {
		return Config{}, fmt.Errorf("%w: unknown network %q", ErrInvalidConfig, network)
	}

	for _, ct := range allowed {
		if ct == coinType {
			return Config{network: network, coinType: coinType}, nil
		}
	}

	return Config{}, fmt.Errorf("%w: coin type %d is not supported on %s", ErrInvalidConfig, coinType, network)
}

// DefaultConfig returns the mainnet configuration with the ZippyCoin coin type.
func DefaultConfig() Config {
	return Config{network: Mainnet, coinType: CoinType}
}

// Network returns the configured network.
func (c Config) Network() Network { return c.network }

// CoinType returns the configured BIP44 coin type.
func (c Config) CoinType() uint32 { return c.coinType }

// DerivationPathTemplate returns the account path template, for example
// "m/44'/2187'/{account}'".
func (c Config) DerivationPathTemplate() string {
	return fmt.Sprintf("m/%d'/%d'/{account}'", Purpose, c.coinType)
}

func (c Config) valid() bool {
	return c.network != ""
}

// hdParams returns the chain parameters whose HD version bytes are used when
// serializing extended keys. ZippyCoin has no registered SLIP-132 versions,
// so mainnet reuses xprv/xpub and the test networks tprv/tpub.
func (c Config) hdParams() *chaincfg.Params {
	if c.network == Mainnet {
		return &chaincfg.MainNetParams
	}
	return &chaincfg.TestNet3Params
}
