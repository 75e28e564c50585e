// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package zpcwallet

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
)

// KeyNode is one node of the BIP32 key tree: a key pair (or only the public
// half) plus the chain code needed to derive its children.
//
// A KeyNode is owned by whoever derived it. The wallet never caches nodes;
// callers that keep one should Zero it when done.
type KeyNode struct {
	key *hdkeychain.ExtendedKey
}

// DeriveMaster expands the seed with HMAC-SHA512 into the master key and
// chain code. The config selects the version bytes used when the node is
// serialized as an extended key.
func DeriveMaster(seed *RootSeed, cfg Config) (*KeyNode, error) {
	if seed == nil || seed.IsZero() {
		return nil, ErrWalletNotInitialized
	}

	master, err := hdkeychain.NewMaster(seed[:], cfg.hdParams())
	if err != nil {
		return nil, fmt.Errorf("could not derive master key: %w", err)
	}

	// The extended key computes its public key lazily on first use. Do it
	// now so concurrent derivations from the master only read.
	if _, err := master.ECPubKey(); err != nil {
		master.Zero()
		return nil, fmt.Errorf("could not derive master key: %w", err)
	}

	return &KeyNode{key: master}, nil
}

// DerivePath walks path from n, one child at a time. Hardened segments need
// the private key and fail with ErrHardenedFromPublic on a public-only node.
//
// Derivation is associative: deriving m/a/b equals deriving m/a and then /b.
func (n *KeyNode) DerivePath(path DerivationPath) (*KeyNode, error) {
	if n == nil || n.key == nil {
		return nil, ErrWalletNotInitialized
	}

	cur := n.key
	for depth, idx := range path {
		child, err := cur.Derive(idx)
		if cur != n.key {
			// Intermediate nodes are ours alone.
			cur.Zero()
		}
		switch {
		case errors.Is(err, hdkeychain.ErrDeriveHardFromPublic):
			return nil, fmt.Errorf("%w: segment %d", ErrHardenedFromPublic, depth)
		case err != nil:
			return nil, fmt.Errorf("could not derive segment %d: %w", depth, err)
		}
		cur = child
	}

	if cur == n.key {
		// Empty path: hand back a copy so the caller can Zero it freely.
		return n.clone()
	}
	return &KeyNode{key: cur}, nil
}

func (n *KeyNode) clone() (*KeyNode, error) {
	k, err := hdkeychain.NewKeyFromString(n.key.String())
	if err != nil {
		return nil, fmt.Errorf("could not copy key node: %w", err)
	}
	return &KeyNode{key: k}, nil
}

// Neuter returns the public-only form of the node.
func (n *KeyNode) Neuter() (*KeyNode, error) {
	pub, err := n.key.Neuter()
	if err != nil {
		return nil, fmt.Errorf("could not neuter key: %w", err)
	}
	return &KeyNode{key: pub}, nil
}

// IsPrivate reports whether the node holds a private key.
func (n *KeyNode) IsPrivate() bool {
	return n.key.IsPrivate()
}

// Depth returns the number of derivation steps from the master node.
func (n *KeyNode) Depth() uint8 {
	return n.key.Depth()
}

// ChainCode returns a copy of the node's chain code.
func (n *KeyNode) ChainCode() []byte {
	return append([]byte(nil), n.key.ChainCode()...)
}

// PublicKey returns the 33-byte compressed secp256k1 public key.
func (n *KeyNode) PublicKey() ([]byte, error) {
	pub, err := n.key.ECPubKey()
	if err != nil {
		return nil, fmt.Errorf("could not get public key: %w", err)
	}
	return pub.SerializeCompressed(), nil
}

// PublicKeyHex returns PublicKey hex encoded.
func (n *KeyNode) PublicKeyHex() (string, error) {
	pub, err := n.PublicKey()
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(pub), nil
}

// Fingerprint returns the first four bytes of HASH160 of the public key, the
// value children record as their parent fingerprint.
func (n *KeyNode) Fingerprint() (uint32, error) {
	pub, err := n.PublicKey()
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(btcutil.Hash160(pub)[:4]), nil
}

// ExtendedPublicKey serializes the public half of the node (xpub on
// mainnet, tpub on the test networks).
func (n *KeyNode) ExtendedPublicKey() (string, error) {
	pub, err := n.Neuter()
	if err != nil {
		return "", err
	}
	return pub.key.String(), nil
}

// privateKey exposes the secp256k1 private key to the signers in this
// package. The caller must Zero the returned key.
func (n *KeyNode) privateKey() (*btcec.PrivateKey, error) {
	priv, err := n.key.ECPrivKey()
	if err != nil {
		return nil, fmt.Errorf("could not get private key: %w", err)
	}
	return priv, nil
}

// Zero wipes the node's key material. The node is unusable afterwards.
func (n *KeyNode) Zero() {
	if n != nil && n.key != nil {
		n.key.Zero()
	}
}
