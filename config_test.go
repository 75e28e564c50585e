// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package zpcwallet

import (
	"errors"
	"testing"

	"github.com/matryer/is"
)

// TestNewConfig tests the accepted network and coin type combinations
func TestNewConfig(t *testing.T) {
	tests := []struct {
		network  Network
		coinType uint32
		ok       bool
	}{
		{Mainnet, CoinType, true},
		{Mainnet, TestCoinType, false},
		{Mainnet, 0, false},
		{Testnet, CoinType, true},
		{Testnet, TestCoinType, true},
		{Devnet, TestCoinType, true},
		{Devnet, 60, false},
		{Network("regtest"), CoinType, false},
		{Network(""), CoinType, false},
	}

	for _, tt := range tests {
		is := is.New(t)

		cfg, err := NewConfig(tt.network, tt.coinType)
		if !tt.ok {
			is.True(errors.Is(err, ErrInvalidConfig))
			continue
		}
		is.NoErr(err)
		is.Equal(cfg.Network(), tt.network)
		is.Equal(cfg.CoinType(), tt.coinType)
	}
}

// TestDefaultConfig tests the mainnet defaults
func TestDefaultConfig(t *testing.T) {
	is := is.New(t)

	cfg := DefaultConfig()
	is.Equal(cfg.Network(), Mainnet)
	is.Equal(cfg.CoinType(), uint32(2187))
	is.Equal(cfg.DerivationPathTemplate(), "m/44'/2187'/{account}'")
}

// TestParseNetwork tests network name parsing
func TestParseNetwork(t *testing.T) {
	is := is.New(t)

	n, err := ParseNetwork(" TestNet ")
	is.NoErr(err)
	is.Equal(n, Testnet)

	_, err = ParseNetwork("moonnet")
	is.True(errors.Is(err, ErrInvalidConfig))
}
