// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package instruction defines the binary instruction envelope of the voting
program and client-side builders for it.

# Envelope

A one-byte discriminant followed by the operation's fields:

	0 CreatePoll  title: string, options: []string, start_time: i64, end_time: i64
	1 CastVote    option_index: u32
	2 ClosePoll   (no fields)

Field encoding follows package codec. Decode rejects unknown
discriminants and trailing bytes.

# Accounts

Each builder lays out the accounts the program expects, in order:

	CreatePoll  [creator (signer, writable), poll (writable), system allocator]
	CastVote    [voter (signer, writable), poll (writable), vote (writable), system allocator]
	ClosePoll   [authority (signer, writable), poll (writable)]

Payers and the closing authority are writable because their balances change.

	pollAddr, _, _ := pda.PollAddress(programID, creator, title)
	ix := instruction.NewCreatePoll(programID, creator, pollAddr, title, options, start, end)
*/
package instruction
