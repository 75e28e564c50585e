// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package zpcwallet

import (
	"crypto/ed25519"
	"crypto/sha256"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
)

// Algorithm tags. They are versioned so the primitive behind a tag family
// can be replaced without changing the signing contract.
const (
	// AlgorithmQuantumResistant is the quantum-resistant slot. It is filled
	// by Ed25519 until a lattice-based scheme replaces it; Ed25519 itself is
	// not quantum resistant.
	AlgorithmQuantumResistant = "qr-ed25519-standin/v1"

	// AlgorithmClassical is ECDSA over secp256k1 on SHA-256(payload).
	AlgorithmClassical = "secp256k1-ecdsa-sha256/v1"
)

// Algorithm is a signature scheme keyed by a node of the key tree.
type Algorithm interface {
	// ID returns the versioned algorithm tag.
	ID() string

	// Sign signs payload with the private key of node.
	Sign(node *KeyNode, payload []byte) ([]byte, error)

	// PublicKey returns the verification key this algorithm uses for node.
	PublicKey(node *KeyNode) ([]byte, error)

	// Verify checks sig over payload against pubKey.
	Verify(pubKey, payload, sig []byte) bool
}

// Signature is the result of signing a payload.
type Signature struct {
	SignatureHex string `json:"signature"`
	Algorithm    string `json:"algorithm"`
}

// Classical signs SHA-256(payload) with secp256k1 ECDSA. Signatures are
// RFC 6979 deterministic, low-S and DER encoded (70-72 bytes).
type Classical struct{}

// QuantumResistant signs the raw payload with Ed25519, seeded by the node's
// 32-byte private scalar. Signatures are 64 bytes.
type QuantumResistant struct{}

var (
	_ Algorithm = Classical{}
	_ Algorithm = QuantumResistant{}
)

// AlgorithmByID returns the Algorithm for a tag produced by ID.
func AlgorithmByID(id string) (Algorithm, error) {
	switch id {
	case AlgorithmClassical:
		return Classical{}, nil
	case AlgorithmQuantumResistant:
		return QuantumResistant{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, id)
	}
}

// ID implements Algorithm.
func (Classical) ID() string { return AlgorithmClassical }

// Sign implements Algorithm.
func (Classical) Sign(node *KeyNode, payload []byte) ([]byte, error) {
	priv, err := node.privateKey()
	if err != nil {
		return nil, err
	}
	defer priv.Zero()

	digest := sha256.Sum256(payload)
	return ecdsa.Sign(priv, digest[:]).Serialize(), nil
}

// PublicKey implements Algorithm.
func (Classical) PublicKey(node *KeyNode) ([]byte, error) {
	return node.PublicKey()
}

// Verify implements Algorithm.
func (Classical) Verify(pubKey, payload, sig []byte) bool {
	pub, err := btcec.ParsePubKey(pubKey)
	if err != nil {
		return false
	}
	parsed, err := ecdsa.ParseDERSignature(sig)
	if err != nil {
		return false
	}
	digest := sha256.Sum256(payload)
	return parsed.Verify(digest[:], pub)
}

// ID implements Algorithm.
func (QuantumResistant) ID() string { return AlgorithmQuantumResistant }

// Sign implements Algorithm.
func (q QuantumResistant) Sign(node *KeyNode, payload []byte) ([]byte, error) {
	key, err := q.signingKey(node)
	if err != nil {
		return nil, err
	}
	defer wipe(key)

	return ed25519.Sign(key, payload), nil
}

// PublicKey implements Algorithm. The Ed25519 key is derived from the
// private scalar, so a public-only node cannot produce it.
func (q QuantumResistant) PublicKey(node *KeyNode) ([]byte, error) {
	key, err := q.signingKey(node)
	if err != nil {
		return nil, err
	}
	defer wipe(key)

	pub := key.Public().(ed25519.PublicKey)
	return append([]byte(nil), pub...), nil
}

// Verify implements Algorithm.
func (QuantumResistant) Verify(pubKey, payload, sig []byte) bool {
	if len(pubKey) != ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(pubKey), payload, sig)
}

func (QuantumResistant) signingKey(node *KeyNode) (ed25519.PrivateKey, error) {
	priv, err := node.privateKey()
	if err != nil {
		return nil, err
	}
	defer priv.Zero()

	scalar := priv.Serialize()
	defer wipe(scalar)

	return ed25519.NewKeyFromSeed(scalar), nil
}
