// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package program

import "github.com/danielhkuo/quickly-vote/models"

// AccountInfo is an account as presented to the program for one
// invocation. IsSigner is set only for accounts whose signature the host
// has verified.
type AccountInfo struct {
	*models.Account
	IsSigner   bool
	IsWritable bool
}

// Env is the host ledger as seen by the program: its clock, its storage
// pricing, its allocator, and its log sink.
type Env interface {
	// UnixTimestamp is the current ledger time in seconds
	UnixTimestamp() int64

	// MinimumBalance is the balance an account of space bytes must hold
	// to persist
	MinimumBalance(space uint64) uint64

	// CreateAccount moves lamports from payer to target, sizes target's
	// data to space zero bytes, and assigns it to owner. signerSeeds
	// authorize target when it is an address derived by the calling program.
	CreateAccount(payer, target *AccountInfo, lamports, space uint64, owner models.Address, signerSeeds [][]byte) error

	Log(msg string, args ...any)
}
