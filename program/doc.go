// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package program implements the state transitions of the voting program:
creating a poll, casting a vote, and closing a poll.

# Execution

The host decodes nothing itself. It hands Process the raw instruction data
and the ordered accounts, with signer flags it has already verified:

	prog := program.New(programID)
	err := prog.Process(env, accounts, data)

Process is synchronous and keeps no state between calls. It reads the clock
and storage pricing from Env and allocates accounts through
Env.CreateAccount. When Process returns an error the host discards every
change made to the accounts, so a failed operation leaves no trace.

# Operations

CreatePoll checks, in order: creator signature, allocator account, title
length, option count, option lengths, start before end, start not in the
past, poll address unused, and poll address derived from (creator, title).
It then allocates a fixed-size poll record with zeroed counters.

CastVote checks the voter signature, poll ownership and initialization, the
voting window (inclusive on both ends), and the option index. An occupied
vote address holding this voter's vote for this poll fails with
ErrUserAlreadyVoted. The vote address must be derived from (voter, poll).
The poll counter and the new vote record are written together.

ClosePoll requires the poll authority's signature and moves the poll's
entire balance to it. Vote records are not touched.

# Errors

Every failure is an Error with a stable numeric code:

	code, ok := program.CodeOf(err)

Allocation failures reported by the host are wrapped and returned as-is.
*/
package program
