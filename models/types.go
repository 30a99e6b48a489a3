// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Poll status constants, derived from the ledger clock
const (
	StatusPending = "pending"
	StatusActive  = "active"
	StatusEnded   = "ended"
)

// Transaction status constants
const (
	TxStatusOK     = "ok"
	TxStatusFailed = "failed"
)

// Account kinds reported by the account endpoint
const (
	KindWallet  = "wallet"
	KindPoll    = "poll"
	KindVote    = "vote"
	KindUnknown = "unknown"
)

// Request types

type TransactionSignature struct {
	Signer    Address `json:"signer"`
	Signature []byte  `json:"signature"`
}

// Data and signatures are base64 in JSON
type SubmitTransactionRequest struct {
	ID         string                 `json:"id"`
	ProgramID  Address                `json:"program_id"`
	Accounts   []AccountMeta          `json:"accounts"`
	Data       []byte                 `json:"data"`
	Signatures []TransactionSignature `json:"signatures"`
}

type AirdropRequest struct {
	Address  Address `json:"address"`
	Lamports uint64  `json:"lamports"`
}

// Response types

type ReceiptResponse struct {
	ID          string    `json:"id"`
	Status      string    `json:"status"`
	Code        *uint32   `json:"code,omitempty"`
	Error       string    `json:"error,omitempty"`
	Logs        []string  `json:"logs"`
	ProcessedAt time.Time `json:"processed_at"`
}

type AirdropResponse struct {
	Address  Address `json:"address"`
	Lamports uint64  `json:"lamports"`
	Balance  uint64  `json:"balance"`
}

type ProgramResponse struct {
	ProgramID       Address `json:"program_id"`
	PollAccountSize int     `json:"poll_account_size"`
	VoteAccountSize int     `json:"vote_account_size"`
	PollMinBalance  uint64  `json:"poll_min_balance"`
	VoteMinBalance  uint64  `json:"vote_min_balance"`
}

type AccountResponse struct {
	Address  Address `json:"address"`
	Owner    Address `json:"owner"`
	Lamports uint64  `json:"lamports"`
	Balance  string  `json:"balance"`
	DataLen  int     `json:"data_len"`
	Kind     string  `json:"kind"`
}

type OptionResult struct {
	Index uint32 `json:"index"`
	Label string `json:"label"`
	Votes uint32 `json:"votes"`
}

type PollResponse struct {
	Address    Address        `json:"address"`
	Title      string         `json:"title"`
	Authority  Address        `json:"authority"`
	Options    []OptionResult `json:"options"`
	TotalVotes uint64         `json:"total_votes"`
	StartTime  int64          `json:"start_time"`
	EndTime    int64          `json:"end_time"`
	Starts     string         `json:"starts"`
	Ends       string         `json:"ends"`
	Status     string         `json:"status"`
	Lamports   uint64         `json:"lamports"`
}

type VoteResponse struct {
	Address     Address `json:"address"`
	Voter       Address `json:"voter"`
	Poll        Address `json:"poll"`
	OptionIndex uint32  `json:"option_index"`
}

// Error response

type ErrorResponse struct {
	Error   string  `json:"error"`
	Message string  `json:"message,omitempty"`
	Code    *uint32 `json:"code,omitempty"`
}
