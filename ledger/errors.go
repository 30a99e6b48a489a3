// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"errors"

	"github.com/danielhkuo/quickly-vote/auth"
	"github.com/danielhkuo/quickly-vote/program"
)

// Rejections: the transaction never reaches the program and leaves no receipt
var (
	ErrUnknownProgram       = errors.New("unknown program")
	ErrTooManyAccounts      = errors.New("too many accounts")
	ErrMissingSignature     = errors.New("missing required signature")
	ErrInvalidSignature     = auth.ErrInvalidSignature
	ErrDuplicateTransaction = errors.New("transaction already processed")
)

// Execution failures: every write is rolled back and a failed receipt is kept
var (
	ErrAccountInUse            = errors.New("account already in use")
	ErrInsufficientFunds       = errors.New("insufficient funds")
	ErrReadonlyAccount         = errors.New("account is not writable")
	ErrReadonlyModified        = errors.New("read-only account modified")
	ErrExternalAccountModified = errors.New("account modified by a program that does not own it")
	ErrUnbalancedTransaction   = errors.New("sum of account balances changed")
	ErrInvalidAllocation       = errors.New("invalid account allocation")
	ErrBalanceOverflow         = errors.New("account balance exceeds the ledger maximum")
)

// IsExecutionFailure reports whether err is a rule the transaction broke
// while executing, as opposed to a storage fault
func IsExecutionFailure(err error) bool {
	if _, ok := program.CodeOf(err); ok {
		return true
	}
	for _, target := range []error{
		ErrAccountInUse, ErrInsufficientFunds, ErrReadonlyAccount, ErrReadonlyModified,
		ErrExternalAccountModified, ErrUnbalancedTransaction, ErrInvalidAllocation, ErrBalanceOverflow, ErrMissingSignature,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrReceiptNotFound = errors.New("receipt not found")
	ErrInvalidAmount   = errors.New("invalid amount")
)
