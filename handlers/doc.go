// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Quickly Vote API.

# Handler Types

Each handler is a struct with ledger runtime and config dependencies:

  - TransactionHandler: Signed transaction submission and receipts
  - PollHandler: Decoded poll and vote records
  - AccountHandler: Raw accounts, program info, and the dev faucet

Handlers are created via constructor functions that accept the runtime
and Config:

	txHandler := handlers.NewTransactionHandler(rt, cfg)

# Transactions

Every state change is a signed transaction carrying one instruction:

	POST /transactions → SubmitTransaction (returns the receipt)
	GET  /transactions/{id} → GetReceipt

Outcomes map to status codes:

  - 200: executed; the body is the receipt
  - 400: malformed body, unknown program, or too many accounts
  - 401: missing or invalid signature
  - 409: transaction ID already used
  - 422: execution failed; "code" holds the program error code, if any

Failed executions still leave a receipt, so their ID cannot be reused.

# Reads

	GET /polls/{address}               → GetPoll (live tallies and status)
	GET /polls/{address}/votes/{voter} → GetVote (derives the vote address)
	GET /accounts/{address}            → GetAccount
	GET /program                       → GetProgram (sizes and rent)

Poll status is pending before the start time, active through the end time
inclusive, and ended afterwards. Relative times and balances are rendered
with go-humanize.

# Faucet

POST /airdrop credits lamports to an address. It answers 404 unless
Config.EnableFaucet is set.
*/
package handlers
