// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package pda derives program-controlled storage addresses from seed tuples.

# Derivation

An address is the SHA-256 of the length-prefixed seeds, a one-byte bump,
the program id, and a fixed marker. Results that are valid ed25519 points
are rejected, so no keypair can sign for a derived address; only the
program, by presenting the seeds, can authorize its allocation.

	addr, bump, err := pda.PollAddress(programID, creator, "Lunch?")

FindProgramAddress tries bumps from 255 downward and returns the first
off-curve hash. Any party holding the seeds can reproduce the result.

# Uniqueness

Poll addresses are seeded by ("poll", creator, title) and vote addresses by
("vote", voter, poll). Because the vote address is a function of the voter
and the poll, a voter can only ever occupy one vote record per poll: the
address itself is the uniqueness key.
*/
package pda
