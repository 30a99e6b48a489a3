// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-vote/cliparse"
	"github.com/danielhkuo/quickly-vote/ledger"
	"github.com/danielhkuo/quickly-vote/middleware"
	"github.com/danielhkuo/quickly-vote/models"
)

// MaxAirdropLamports caps a single faucet request
const MaxAirdropLamports = 100_000_000_000

type AccountHandler struct {
	rt  *ledger.Runtime
	cfg cliparse.Config
}

func NewAccountHandler(rt *ledger.Runtime, cfg cliparse.Config) *AccountHandler {
	return &AccountHandler{rt: rt, cfg: cfg}
}

// GetProgram handles GET /program
func (h *AccountHandler) GetProgram(w http.ResponseWriter, r *http.Request) {
	rent := h.rt.Rent()
	middleware.JSONResponse(w, http.StatusOK, models.ProgramResponse{
		ProgramID:       h.rt.ProgramID(),
		PollAccountSize: models.PollAccountSize,
		VoteAccountSize: models.VoteAccountSize,
		PollMinBalance:  rent.MinimumBalance(models.PollAccountSize),
		VoteMinBalance:  rent.MinimumBalance(models.VoteAccountSize),
	})
}

// GetAccount handles GET /accounts/{address}
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	addr, ok := pathAddress(w, r, "address")
	if !ok {
		return
	}

	acct, err := h.rt.Account(r.Context(), addr)
	if errors.Is(err, ledger.ErrAccountNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Account not found")
		return
	}
	if err != nil {
		slog.Error("failed to query account", "error", err, "address", addr.String())
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.AccountResponse{
		Address:  addr,
		Owner:    acct.Owner,
		Lamports: acct.Lamports,
		Balance:  formatLamports(acct.Lamports),
		DataLen:  len(acct.Data),
		Kind:     h.accountKind(acct),
	})
}

func (h *AccountHandler) accountKind(acct *models.Account) string {
	switch {
	case acct.Owner == models.SystemProgramID:
		return models.KindWallet
	case acct.Owner != h.rt.ProgramID():
		return models.KindUnknown
	case len(acct.Data) == models.PollAccountSize:
		return models.KindPoll
	case len(acct.Data) == models.VoteAccountSize:
		return models.KindVote
	default:
		return models.KindUnknown
	}
}

// Airdrop handles POST /airdrop (development faucet)
func (h *AccountHandler) Airdrop(w http.ResponseWriter, r *http.Request) {
	if !h.cfg.EnableFaucet {
		middleware.ErrorResponse(w, http.StatusNotFound, "Faucet is disabled")
		return
	}

	var req models.AirdropRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Lamports == 0 || req.Lamports > MaxAirdropLamports {
		middleware.ErrorResponse(w, http.StatusBadRequest, "lamports must be between 1 and 100000000000")
		return
	}

	balance, err := h.rt.Airdrop(r.Context(), req.Address, req.Lamports)
	if errors.Is(err, ledger.ErrInvalidAmount) {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		slog.Error("failed to airdrop", "error", err, "address", req.Address.String())
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to airdrop")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.AirdropResponse{
		Address:  req.Address,
		Lamports: req.Lamports,
		Balance:  balance,
	})
}
