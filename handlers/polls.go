// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-vote/cliparse"
	"github.com/danielhkuo/quickly-vote/codec"
	"github.com/danielhkuo/quickly-vote/ledger"
	"github.com/danielhkuo/quickly-vote/middleware"
	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/pda"
)

// PollHandler serves decoded poll and vote records
type PollHandler struct {
	rt  *ledger.Runtime
	cfg cliparse.Config
}

func NewPollHandler(rt *ledger.Runtime, cfg cliparse.Config) *PollHandler {
	return &PollHandler{rt: rt, cfg: cfg}
}

// GetPoll handles GET /polls/{address}
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	addr, ok := pathAddress(w, r, "address")
	if !ok {
		return
	}

	acct, poll, err := h.loadPoll(r, addr)
	if errors.Is(err, ledger.ErrAccountNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}
	if err != nil {
		slog.Error("failed to load poll", "error", err, "poll", addr.String())
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, pollResponse(addr, acct, poll, h.rt.Now()))
}

// GetVote handles GET /polls/{address}/votes/{voter}
func (h *PollHandler) GetVote(w http.ResponseWriter, r *http.Request) {
	pollAddr, ok := pathAddress(w, r, "address")
	if !ok {
		return
	}
	voter, ok := pathAddress(w, r, "voter")
	if !ok {
		return
	}

	voteAddr, _, err := pda.VoteAddress(h.rt.ProgramID(), voter, pollAddr)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	acct, err := h.rt.Account(r.Context(), voteAddr)
	if errors.Is(err, ledger.ErrAccountNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Vote not found")
		return
	}
	if err != nil {
		slog.Error("failed to query vote", "error", err, "vote", voteAddr.String())
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	vote, err := codec.DecodeVote(acct.Data)
	if acct.Owner != h.rt.ProgramID() || err != nil || !vote.Initialized {
		middleware.ErrorResponse(w, http.StatusNotFound, "Vote not found")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.VoteResponse{
		Address:     voteAddr,
		Voter:       vote.Voter,
		Poll:        vote.Poll,
		OptionIndex: vote.OptionIndex,
	})
}

// loadPoll returns ErrAccountNotFound for anything that is not an
// initialized poll owned by the program
func (h *PollHandler) loadPoll(r *http.Request, addr models.Address) (*models.Account, *models.Poll, error) {
	acct, err := h.rt.Account(r.Context(), addr)
	if err != nil {
		return nil, nil, err
	}
	if acct.Owner != h.rt.ProgramID() {
		return nil, nil, ledger.ErrAccountNotFound
	}
	poll, err := codec.DecodePoll(acct.Data)
	if err != nil || !poll.Initialized {
		return nil, nil, ledger.ErrAccountNotFound
	}
	return acct, poll, nil
}

// pathAddress parses a base58 path value, writing a 400 on failure
func pathAddress(w http.ResponseWriter, r *http.Request, name string) (models.Address, bool) {
	raw := r.PathValue(name)
	if raw == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, name+" is required")
		return models.Address{}, false
	}
	addr, err := models.ParseAddress(raw)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid "+name)
		return models.Address{}, false
	}
	return addr, true
}
