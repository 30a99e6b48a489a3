// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pda

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"

	"filippo.io/edwards25519"

	"github.com/danielhkuo/quickly-vote/models"
)

const (
	MaxSeeds      = 16
	MaxSeedLength = 128
)

// Seed prefixes for the two record kinds
var (
	PollSeed = []byte("poll")
	VoteSeed = []byte("vote")
)

const marker = "ProgramDerivedAddress"

var (
	ErrMaxSeedLengthExceeded = errors.New("max seed length exceeded")
	ErrTooManySeeds          = errors.New("too many seeds")
	ErrInvalidSeeds          = errors.New("seeds produce an address on the ed25519 curve")
	ErrNoViableBump          = errors.New("no viable bump seed")
)

// CreateProgramAddress hashes seeds under programID. The last seed is
// normally the bump. Addresses that are valid ed25519 public keys are
// rejected: someone could hold the private key for them.
func CreateProgramAddress(seeds [][]byte, programID models.Address) (models.Address, error) {
	if len(seeds) > MaxSeeds {
		return models.Address{}, ErrTooManySeeds
	}

	h := sha256.New()
	var prefix [4]byte
	for _, seed := range seeds {
		if len(seed) > MaxSeedLength {
			return models.Address{}, fmt.Errorf("%w: %d bytes", ErrMaxSeedLengthExceeded, len(seed))
		}
		binary.LittleEndian.PutUint32(prefix[:], uint32(len(seed)))
		h.Write(prefix[:])
		h.Write(seed)
	}
	h.Write(programID[:])
	h.Write([]byte(marker))

	var addr models.Address
	copy(addr[:], h.Sum(nil))
	if IsOnCurve(addr) {
		return models.Address{}, ErrInvalidSeeds
	}
	return addr, nil
}

// FindProgramAddress searches bumps from 255 down and returns the first
// off-curve address together with its bump.
func FindProgramAddress(seeds [][]byte, programID models.Address) (models.Address, uint8, error) {
	withBump := make([][]byte, len(seeds)+1)
	copy(withBump, seeds)
	for bump := 255; bump >= 0; bump-- {
		withBump[len(seeds)] = []byte{uint8(bump)}
		addr, err := CreateProgramAddress(withBump, programID)
		if err == nil {
			return addr, uint8(bump), nil
		}
		if !errors.Is(err, ErrInvalidSeeds) {
			return models.Address{}, 0, err
		}
	}
	return models.Address{}, 0, ErrNoViableBump
}

// Verify reports whether candidate is the canonical address for seeds
func Verify(candidate models.Address, seeds [][]byte, programID models.Address) (uint8, bool) {
	addr, bump, err := FindProgramAddress(seeds, programID)
	if err != nil || addr != candidate {
		return 0, false
	}
	return bump, true
}

// IsOnCurve reports whether addr decodes as an edwards25519 point
func IsOnCurve(addr models.Address) bool {
	_, err := new(edwards25519.Point).SetBytes(addr[:])
	return err == nil
}

// PollSeeds returns the seed tuple of a poll: ("poll", creator, title)
func PollSeeds(creator models.Address, title string) [][]byte {
	return [][]byte{PollSeed, creator.Bytes(), []byte(title)}
}

// VoteSeeds returns the seed tuple of a vote: ("vote", voter, poll)
func VoteSeeds(voter, poll models.Address) [][]byte {
	return [][]byte{VoteSeed, voter.Bytes(), poll.Bytes()}
}

func PollAddress(programID, creator models.Address, title string) (models.Address, uint8, error) {
	return FindProgramAddress(PollSeeds(creator, title), programID)
}

func VoteAddress(programID, voter, poll models.Address) (models.Address, uint8, error) {
	return FindProgramAddress(VoteSeeds(voter, poll), programID)
}

// WithBump appends the bump to seeds, producing the signer seeds the
// allocator checks
func WithBump(seeds [][]byte, bump uint8) [][]byte {
	out := make([][]byte, len(seeds), len(seeds)+1)
	copy(out, seeds)
	return append(out, []byte{bump})
}
