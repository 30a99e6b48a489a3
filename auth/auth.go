// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/danielhkuo/quickly-vote/models"
)

var (
	ErrInvalidSignature = errors.New("invalid signature")
	ErrInvalidKeypair   = errors.New("invalid keypair")
)

// Keypair is an ed25519 signing identity. Its public key is its address.
type Keypair struct {
	private ed25519.PrivateKey
}

// GenerateKeypair creates a new random keypair
func GenerateKeypair() (*Keypair, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate keypair: %w", err)
	}
	return &Keypair{private: priv}, nil
}

// KeypairFromSeed derives a keypair from a 32-byte seed.
// The same seed always produces the same keypair.
func KeypairFromSeed(seed []byte) (*Keypair, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("%w: seed must be %d bytes, got %d", ErrInvalidKeypair, ed25519.SeedSize, len(seed))
	}
	return &Keypair{private: ed25519.NewKeyFromSeed(seed)}, nil
}

// Address returns the public key as a ledger address
func (k *Keypair) Address() models.Address {
	var a models.Address
	copy(a[:], k.private.Public().(ed25519.PublicKey))
	return a
}

func (k *Keypair) Sign(message []byte) []byte {
	return ed25519.Sign(k.private, message)
}

// Verify checks that sig is signer's signature over message
func Verify(signer models.Address, message, sig []byte) error {
	if len(sig) != ed25519.SignatureSize {
		return ErrInvalidSignature
	}
	if !ed25519.Verify(ed25519.PublicKey(signer[:]), message, sig) {
		return ErrInvalidSignature
	}
	return nil
}

// LoadKeypair reads a hex-encoded seed from path
func LoadKeypair(path string) (*Keypair, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read keypair: %w", err)
	}
	seed, err := hex.DecodeString(strings.TrimSpace(string(raw)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKeypair, err)
	}
	return KeypairFromSeed(seed)
}

// Save writes the seed to path, readable only by the owner
func (k *Keypair) Save(path string) error {
	seed := hex.EncodeToString(k.private.Seed())
	if err := os.WriteFile(path, []byte(seed+"\n"), 0o600); err != nil {
		return fmt.Errorf("failed to save keypair: %w", err)
	}
	return nil
}
