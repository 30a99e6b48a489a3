// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Quickly Vote API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(rt, cfg)

# Endpoints

Health and program info:

	GET /health
	GET /program - Program ID, record sizes, rent minimums

Transactions (create poll, cast vote, close poll):

	POST /transactions      - Submit a signed transaction
	GET  /transactions/{id} - Receipt of an executed transaction

Reads:

	GET /polls/{address}               - Decoded poll with tallies
	GET /polls/{address}/votes/{voter} - A voter's vote on a poll
	GET /accounts/{address}            - Raw account

Development (only with Config.EnableFaucet):

	POST /airdrop - Credit lamports to an address

# Handler Initialization

The router creates handler instances with dependency injection:

	txHandler := handlers.NewTransactionHandler(rt, cfg)
	pollHandler := handlers.NewPollHandler(rt, cfg)
	accountHandler := handlers.NewAccountHandler(rt, cfg)

All handlers receive the ledger runtime and configuration.
*/
package router
