// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/quickly-vote/cliparse"
	"github.com/danielhkuo/quickly-vote/handlers"
	"github.com/danielhkuo/quickly-vote/ledger"
	"github.com/danielhkuo/quickly-vote/middleware"
)

func NewRouter(rt *ledger.Runtime, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	txHandler := handlers.NewTransactionHandler(rt, cfg)
	pollHandler := handlers.NewPollHandler(rt, cfg)
	accountHandler := handlers.NewAccountHandler(rt, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Program info
	mux.HandleFunc("GET /program", middleware.WithLogging(accountHandler.GetProgram))

	// Transactions (every state change)
	mux.HandleFunc("POST /transactions", middleware.WithLogging(txHandler.SubmitTransaction))
	mux.HandleFunc("GET /transactions/{id}", middleware.WithLogging(txHandler.GetReceipt))

	// Decoded records
	mux.HandleFunc("GET /polls/{address}", middleware.WithLogging(pollHandler.GetPoll))
	mux.HandleFunc("GET /polls/{address}/votes/{voter}", middleware.WithLogging(pollHandler.GetVote))

	// Raw accounts
	mux.HandleFunc("GET /accounts/{address}", middleware.WithLogging(accountHandler.GetAccount))

	// Development faucet
	if cfg.EnableFaucet {
		mux.HandleFunc("POST /airdrop", middleware.WithLogging(accountHandler.Airdrop))
	}

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("quickly-vote API v1"))
	})

	return mux
}
