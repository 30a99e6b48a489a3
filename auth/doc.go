// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides the ed25519 identities that sign ledger transactions.

# Keypairs

A keypair's public key doubles as its ledger address:

	kp, err := auth.GenerateKeypair()
	addr := kp.Address()

Deterministic keypairs come from a 32-byte seed:

	kp, err := auth.KeypairFromSeed(seed)

# Signing

	sig := kp.Sign(message)
	err := auth.Verify(kp.Address(), message, sig)

Verify returns ErrInvalidSignature for malformed or non-matching signatures.

# Storage

Keypairs are stored as a hex-encoded seed in a file with 0600 permissions:

	err := kp.Save("id.key")
	kp, err := auth.LoadKeypair("id.key")
*/
package auth
