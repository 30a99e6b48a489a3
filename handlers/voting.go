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
	"github.com/danielhkuo/quickly-vote/program"
)

// TransactionHandler accepts signed transactions (poll creation, votes,
// closes) and serves their receipts
type TransactionHandler struct {
	rt  *ledger.Runtime
	cfg cliparse.Config
}

func NewTransactionHandler(rt *ledger.Runtime, cfg cliparse.Config) *TransactionHandler {
	return &TransactionHandler{rt: rt, cfg: cfg}
}

// SubmitTransaction handles POST /transactions
func (h *TransactionHandler) SubmitTransaction(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitTransactionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	tx, err := ledger.TransactionFromRequest(req)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	receipt, err := h.rt.Execute(r.Context(), tx)
	if err == nil {
		middleware.JSONResponse(w, http.StatusOK, receipt.Response())
		return
	}

	// Rejected before execution
	if receipt == nil {
		switch {
		case errors.Is(err, ledger.ErrMissingSignature), errors.Is(err, ledger.ErrInvalidSignature):
			middleware.ErrorResponse(w, http.StatusUnauthorized, err.Error())
		case errors.Is(err, ledger.ErrDuplicateTransaction):
			middleware.ErrorResponse(w, http.StatusConflict, err.Error())
		case errors.Is(err, ledger.ErrUnknownProgram), errors.Is(err, ledger.ErrTooManyAccounts):
			middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		default:
			slog.Error("failed to execute transaction", "error", err, "id", tx.ID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to execute transaction")
		}
		return
	}

	if code, ok := program.CodeOf(err); ok {
		middleware.ProgramErrorResponse(w, http.StatusUnprocessableEntity, err.Error(), code)
		return
	}
	if ledger.IsExecutionFailure(err) {
		middleware.ErrorResponse(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	slog.Error("failed to execute transaction", "error", err, "id", tx.ID)
	middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to execute transaction")
}

// GetReceipt handles GET /transactions/{id}
func (h *TransactionHandler) GetReceipt(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	receipt, err := h.rt.Receipt(r.Context(), id)
	if errors.Is(err, ledger.ErrReceiptNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Transaction not found")
		return
	}
	if err != nil {
		slog.Error("failed to query receipt", "error", err, "id", id)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, receipt.Response())
}
