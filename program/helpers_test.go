// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package program

import (
	"errors"
	"fmt"
	"testing"

	"github.com/danielhkuo/quickly-vote/codec"
	"github.com/danielhkuo/quickly-vote/instruction"
	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/pda"
)

var testProgramID = models.Address{0x50, 0x11}

const (
	testNow       = int64(1_700_000_000)
	testFunding   = uint64(1_000_000_000)
	lamportsPerKB = uint64(1000)
)

// testEnv is a minimal host: accounts by address, a fixed clock, and an
// allocator that checks signer seeds the same way the ledger does
type testEnv struct {
	now      int64
	accounts map[models.Address]*models.Account
	logs     []string
}

func newTestEnv() *testEnv {
	return &testEnv{now: testNow, accounts: make(map[models.Address]*models.Account)}
}

func (e *testEnv) UnixTimestamp() int64 { return e.now }

func (e *testEnv) MinimumBalance(space uint64) uint64 { return (space + 128) * lamportsPerKB }

func (e *testEnv) CreateAccount(payer, target *AccountInfo, lamports, space uint64, owner models.Address, seeds [][]byte) error {
	if !payer.IsSigner {
		return errors.New("payer must sign")
	}
	if !target.IsUnused() {
		return errors.New("account in use")
	}
	derived, err := pda.CreateProgramAddress(seeds, owner)
	if err != nil || derived != target.Address {
		return errors.New("target not authorized")
	}
	if payer.Lamports < lamports {
		return errors.New("insufficient funds")
	}
	payer.Lamports -= lamports
	target.Lamports += lamports
	target.Data = make([]byte, space)
	target.Owner = owner
	return nil
}

func (e *testEnv) Log(msg string, args ...any) {
	e.logs = append(e.logs, fmt.Sprint(append([]any{msg}, args...)...))
}

func (e *testEnv) account(addr models.Address) *models.Account {
	acct, ok := e.accounts[addr]
	if !ok {
		acct = &models.Account{Address: addr}
		e.accounts[addr] = acct
	}
	return acct
}

func (e *testEnv) fund(addr models.Address) {
	e.account(addr).Lamports = testFunding
}

// run executes ix, marking the given signers, against a copy of the
// accounts; changes are kept only on success, as a host would
func (e *testEnv) run(t *testing.T, ix instruction.Instruction, signers ...models.Address) error {
	t.Helper()

	signed := make(map[models.Address]bool)
	for _, s := range signers {
		signed[s] = true
	}

	working := make(map[models.Address]*models.Account)
	infos := make([]*AccountInfo, 0, len(ix.Accounts))
	for _, meta := range ix.Accounts {
		acct, ok := working[meta.Address]
		if !ok {
			acct = e.account(meta.Address).Clone()
			working[meta.Address] = acct
		}
		infos = append(infos, &AccountInfo{
			Account:    acct,
			IsSigner:   meta.IsSigner && signed[meta.Address],
			IsWritable: meta.IsWritable,
		})
	}

	if err := New(ix.ProgramID).Process(e, infos, ix.Data); err != nil {
		return err
	}
	for addr, acct := range working {
		e.accounts[addr] = acct
	}
	return nil
}

func (e *testEnv) poll(t *testing.T, addr models.Address) *models.Poll {
	t.Helper()
	poll, err := codec.DecodePoll(e.account(addr).Data)
	if err != nil {
		t.Fatalf("DecodePoll() error = %v", err)
	}
	return poll
}

func pollAddress(t *testing.T, creator models.Address, title string) models.Address {
	t.Helper()
	addr, _, err := pda.PollAddress(testProgramID, creator, title)
	if err != nil {
		t.Fatalf("PollAddress() error = %v", err)
	}
	return addr
}

func voteAddress(t *testing.T, voter, poll models.Address) models.Address {
	t.Helper()
	addr, _, err := pda.VoteAddress(testProgramID, voter, poll)
	if err != nil {
		t.Fatalf("VoteAddress() error = %v", err)
	}
	return addr
}

// createPoll creates a funded creator's poll that opens at now+10
func createPoll(t *testing.T, env *testEnv, creator models.Address, title string, options ...string) models.Address {
	t.Helper()
	env.fund(creator)
	addr := pollAddress(t, creator, title)
	ix := instruction.NewCreatePoll(testProgramID, creator, addr, title, options, env.now+10, env.now+1000)
	if err := env.run(t, ix, creator); err != nil {
		t.Fatalf("CreatePoll() error = %v", err)
	}
	return addr
}

func castVote(t *testing.T, env *testEnv, voter, poll models.Address, index uint32) error {
	t.Helper()
	ix := instruction.NewCastVote(testProgramID, voter, poll, voteAddress(t, voter, poll), index)
	return env.run(t, ix, voter)
}
