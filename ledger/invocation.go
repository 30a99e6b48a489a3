// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"bytes"
	"context"
	"fmt"
	"math/bits"
	"strings"

	"github.com/google/uuid"

	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/pda"
	"github.com/danielhkuo/quickly-vote/program"
)

// invocation is the working state of one Execute call and the program's
// view of the host (it implements program.Env)
type invocation struct {
	rt  *Runtime
	tx  *Transaction
	now int64

	order    []models.Address
	accounts map[models.Address]*models.Account
	// baseline is the state each account may legitimately differ from:
	// its loaded state, advanced by allocator changes
	baseline map[models.Address]*models.Account
	signer   map[models.Address]bool
	writable map[models.Address]bool
	infos    []*program.AccountInfo

	logs []string
}

var _ program.Env = (*invocation)(nil)

func newInvocation(rt *Runtime, tx *Transaction) *invocation {
	inv := &invocation{
		rt:       rt,
		tx:       tx,
		now:      rt.clock().Unix(),
		accounts: make(map[models.Address]*models.Account),
		baseline: make(map[models.Address]*models.Account),
		signer:   make(map[models.Address]bool),
		writable: make(map[models.Address]bool),
	}
	// An address listed twice gets the union of its flags
	for _, meta := range tx.Instruction.Accounts {
		inv.signer[meta.Address] = inv.signer[meta.Address] || meta.IsSigner
		inv.writable[meta.Address] = inv.writable[meta.Address] || meta.IsWritable
	}
	return inv
}

func (inv *invocation) load(ctx context.Context, stx Tx) error {
	for _, meta := range inv.tx.Instruction.Accounts {
		acct, ok := inv.accounts[meta.Address]
		if !ok {
			loaded, err := stx.Account(ctx, meta.Address)
			if err != nil {
				return err
			}
			acct = loaded
			inv.accounts[meta.Address] = acct
			inv.baseline[meta.Address] = acct.Clone()
			inv.order = append(inv.order, meta.Address)
		}
		inv.infos = append(inv.infos, &program.AccountInfo{
			Account:    acct,
			IsSigner:   inv.signer[meta.Address],
			IsWritable: inv.writable[meta.Address],
		})
	}
	return nil
}

func (inv *invocation) UnixTimestamp() int64 {
	return inv.now
}

func (inv *invocation) MinimumBalance(space uint64) uint64 {
	return inv.rt.rent.MinimumBalance(space)
}

// CreateAccount is the ledger's allocator
func (inv *invocation) CreateAccount(payer, target *program.AccountInfo, lamports, space uint64, owner models.Address, signerSeeds [][]byte) error {
	if space > MaxAccountDataSize {
		return fmt.Errorf("%w: %d bytes", ErrInvalidAllocation, space)
	}
	if !payer.IsSigner {
		return fmt.Errorf("%w: payer %s", ErrMissingSignature, payer.Address)
	}
	if !payer.IsWritable || !target.IsWritable {
		return ErrReadonlyAccount
	}
	if payer.Address == target.Address || !target.IsUnused() {
		return fmt.Errorf("%w: %s", ErrAccountInUse, target.Address)
	}
	if !target.IsSigner {
		derived, err := pda.CreateProgramAddress(signerSeeds, inv.rt.program.ID)
		if err != nil || derived != target.Address {
			return fmt.Errorf("%w: %s", ErrMissingSignature, target.Address)
		}
	}
	if payer.Lamports < lamports {
		return fmt.Errorf("%w: need %d, have %d", ErrInsufficientFunds, lamports, payer.Lamports)
	}

	payer.Lamports -= lamports
	target.Lamports += lamports
	target.Data = make([]byte, space)
	target.Owner = owner

	inv.baseline[payer.Address] = payer.Account.Clone()
	inv.baseline[target.Address] = target.Account.Clone()
	return nil
}

func (inv *invocation) Log(msg string, args ...any) {
	var b strings.Builder
	b.WriteString(msg)
	for i := 0; i+1 < len(args); i += 2 {
		fmt.Fprintf(&b, " %v=%v", args[i], args[i+1])
	}
	inv.logs = append(inv.logs, b.String())
	inv.rt.logger.Debug(msg, append([]any{"tx", inv.tx.ID}, args...)...)
}

// check enforces what the program may do to each account: read-only
// accounts stay untouched, only owned accounts have their data rewritten or
// balance reduced, sizes and owners change only through the allocator, and
// the total balance is conserved
func (inv *invocation) check() error {
	programID := inv.rt.program.ID
	var before, after [2]uint64

	for _, addr := range inv.order {
		cur, base := inv.accounts[addr], inv.baseline[addr]
		dataChanged := !bytes.Equal(cur.Data, base.Data)
		changed := dataChanged || cur.Lamports != base.Lamports || cur.Owner != base.Owner

		if changed && !inv.writable[addr] {
			return fmt.Errorf("%w: %s", ErrReadonlyModified, addr)
		}
		if cur.Owner != base.Owner || len(cur.Data) != len(base.Data) {
			return fmt.Errorf("%w: %s", ErrExternalAccountModified, addr)
		}
		if base.Owner != programID && (dataChanged || cur.Lamports < base.Lamports) {
			return fmt.Errorf("%w: %s", ErrExternalAccountModified, addr)
		}
		if cur.Lamports > MaxLamports {
			return fmt.Errorf("%w: %s", ErrBalanceOverflow, addr)
		}

		before = add128(before, base.Lamports)
		after = add128(after, cur.Lamports)
	}

	if before != after {
		return ErrUnbalancedTransaction
	}
	return nil
}

func (inv *invocation) persist(ctx context.Context, stx Tx) error {
	for _, addr := range inv.order {
		if !inv.writable[addr] {
			continue
		}
		if err := stx.PutAccount(ctx, inv.accounts[addr]); err != nil {
			return err
		}
	}
	return nil
}

func (inv *invocation) receipt(err error) *Receipt {
	r := &Receipt{
		ID:          inv.tx.ID,
		Status:      models.TxStatusOK,
		Logs:        inv.logs,
		ProcessedAt: inv.rt.clock().UTC(),
	}
	if err != nil {
		r.Status = models.TxStatusFailed
		r.Error = err.Error()
		if code, ok := program.CodeOf(err); ok {
			r.Code = &code
		}
	}
	return r
}

// add128 adds v to the 128-bit value {hi, lo}
func add128(sum [2]uint64, v uint64) [2]uint64 {
	lo, carry := bits.Add64(sum[1], v, 0)
	return [2]uint64{sum[0] + carry, lo}
}

func parseID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}
