// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines ledger, domain, and API types shared across packages.

# Ledger Types

  - Address: 32-byte identity or storage address, base58 in text form
  - Account: balance, owner program, and data buffer at an address
  - AccountMeta: how an instruction uses an account (signer, writable)

SystemProgramID is the all-zero address of the account allocator.

# Domain Types

  - Poll: title, options, authority, voting window, per-option counters
  - Vote: one voter's choice on one poll

Record sizes are fixed:

	PollAccountSize = 741 bytes
	VoteAccountSize = 69 bytes

The poll size covers the maximum title (100 bytes), option count (10), and
option length (50 bytes) regardless of actual content.

# Request and Response Types

  - SubmitTransactionRequest: id, program_id, accounts, data, signatures
  - AirdropRequest: address, lamports
  - ReceiptResponse: id, status, code, error, logs
  - AccountResponse, PollResponse, VoteResponse, ProgramResponse
  - ErrorResponse: error, message, code

Program failures carry the numeric error code in ErrorResponse.Code.
*/
package models
