// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Quickly Vote ledger server.

Quickly Vote hosts an on-ledger poll program. Anyone can create a poll
with up to ten options and a voting window, every wallet can vote once
per poll, and the poll's creator can close it to reclaim its deposit.
All state lives in accounts; every change is a signed transaction.

# Starting the Server

The server reads flags, environment variables, or a .env file:

	DATABASE_URL=file:ledger.db go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..."

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite file or PostgreSQL connection string

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - PROGRAM_ID (-program): Program address (default: cliparse.DefaultProgramID)
  - ENABLE_FAUCET (-faucet): Serve POST /airdrop

Logs are text on a terminal and JSON otherwise.

# Architecture

  - program: Poll and vote state transitions and error codes
  - codec, pda, instruction: Record layout, address derivation, instruction envelope
  - ledger: Accounts, signatures, atomic execution, receipts
  - handlers, router, middleware: HTTP API
  - models: Shared types
  - auth: ed25519 keypairs
  - db: Connection and schema
  - cliparse: Configuration parsing
  - client, cmd/pollctl: API client and command-line wallet

See package documentation for each component.
*/
package main
