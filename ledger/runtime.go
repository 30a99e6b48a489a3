// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/bits"
	"time"

	"github.com/danielhkuo/quickly-vote/auth"
	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/program"
)

// MaxAccountsPerTransaction bounds the account list of one instruction
const MaxAccountsPerTransaction = 64

// MaxLamports is the largest balance one account may hold. SQL stores keep
// balances in a signed 64-bit column.
const MaxLamports = math.MaxInt64

// Runtime executes transactions against a Store: it verifies signatures,
// loads accounts, runs the program, enforces account ownership rules, and
// commits or discards the result as a unit.
type Runtime struct {
	store   Store
	program *program.Program
	clock   Clock
	rent    Rent
	logger  *slog.Logger
}

type Option func(*Runtime)

func WithClock(c Clock) Option {
	return func(r *Runtime) { r.clock = c }
}

func WithRent(rent Rent) Option {
	return func(r *Runtime) { r.rent = rent }
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Runtime) { r.logger = l }
}

func NewRuntime(store Store, prog *program.Program, opts ...Option) *Runtime {
	r := &Runtime{
		store:   store,
		program: prog,
		clock:   time.Now,
		rent:    DefaultRent,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Runtime) ProgramID() models.Address {
	return r.program.ID
}

func (r *Runtime) Rent() Rent {
	return r.rent
}

// Now is the current ledger time
func (r *Runtime) Now() time.Time {
	return r.clock()
}

func (r *Runtime) Account(ctx context.Context, addr models.Address) (*models.Account, error) {
	return r.store.Account(ctx, addr)
}

func (r *Runtime) Receipt(ctx context.Context, id string) (*Receipt, error) {
	parsed, err := parseID(id)
	if err != nil {
		return nil, ErrReceiptNotFound
	}
	return r.store.Receipt(ctx, parsed)
}

// Airdrop credits lamports to addr and returns the new balance
func (r *Runtime) Airdrop(ctx context.Context, addr models.Address, lamports uint64) (uint64, error) {
	if lamports == 0 {
		return 0, ErrInvalidAmount
	}

	var balance uint64
	err := r.store.Update(ctx, func(tx Tx) error {
		acct, err := tx.Account(ctx, addr)
		if err != nil {
			return err
		}
		sum, carry := bits.Add64(acct.Lamports, lamports, 0)
		if carry != 0 || sum > MaxLamports {
			return ErrInvalidAmount
		}
		acct.Lamports = sum
		balance = sum
		return tx.PutAccount(ctx, acct)
	})
	if err != nil {
		return 0, err
	}

	r.logger.Info("airdrop", "address", addr.String(), "lamports", lamports, "balance", balance)
	return balance, nil
}

// Execute runs tx. Rejected transactions (bad program, missing or invalid
// signatures, reused ID) return an error and no receipt. Otherwise a
// receipt is returned; if the program or the ownership checks fail, the
// error is returned with a failed receipt and no account changes.
// Storage faults return an error and no receipt, leaving the ID unused so
// the same signed transaction can be resubmitted.
func (r *Runtime) Execute(ctx context.Context, tx *Transaction) (*Receipt, error) {
	if err := r.verify(tx); err != nil {
		r.logger.Warn("transaction rejected", "id", tx.ID, "error", err)
		return nil, err
	}

	var inv *invocation
	err := r.store.Update(ctx, func(stx Tx) error {
		// Update may run this more than once
		inv = newInvocation(r, tx)

		seen, err := stx.HasReceipt(ctx, tx.ID)
		if err != nil {
			return err
		}
		if seen {
			return ErrDuplicateTransaction
		}

		if err := inv.load(ctx, stx); err != nil {
			return err
		}
		if err := r.program.Process(inv, inv.infos, tx.Instruction.Data); err != nil {
			return err
		}
		if err := inv.check(); err != nil {
			return err
		}
		if err := inv.persist(ctx, stx); err != nil {
			return err
		}
		return stx.PutReceipt(ctx, inv.receipt(nil))
	})

	if errors.Is(err, ErrDuplicateTransaction) {
		r.logger.Warn("transaction rejected", "id", tx.ID, "error", err)
		return nil, err
	}

	if err != nil && !IsExecutionFailure(err) {
		r.logger.Error("transaction not executed", "id", tx.ID, "error", err)
		return nil, err
	}

	receipt := inv.receipt(err)
	if err != nil {
		// The failed attempt still consumes the ID
		if rerr := r.store.Update(ctx, func(stx Tx) error {
			return stx.PutReceipt(ctx, receipt)
		}); rerr != nil {
			r.logger.Error("failed to record receipt", "id", tx.ID, "error", rerr)
		}
		r.logger.Info("transaction failed", "id", tx.ID, "error", err)
		return receipt, err
	}

	r.logger.Info("transaction processed", "id", tx.ID, "accounts", len(inv.order))
	return receipt, nil
}

func (r *Runtime) verify(tx *Transaction) error {
	ix := tx.Instruction
	if ix.ProgramID != r.program.ID {
		return fmt.Errorf("%w: %s", ErrUnknownProgram, ix.ProgramID)
	}
	if len(ix.Accounts) > MaxAccountsPerTransaction {
		return ErrTooManyAccounts
	}

	msg := tx.Message()
	for _, meta := range ix.Accounts {
		if !meta.IsSigner {
			continue
		}
		sig, ok := tx.signature(meta.Address)
		if !ok {
			return fmt.Errorf("%w: %s", ErrMissingSignature, meta.Address)
		}
		if err := auth.Verify(meta.Address, msg, sig); err != nil {
			return fmt.Errorf("%w: %s", err, meta.Address)
		}
	}
	return nil
}
