// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/danielhkuo/quickly-vote/auth"
	"github.com/danielhkuo/quickly-vote/db"
	"github.com/danielhkuo/quickly-vote/instruction"
	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/pda"
	"github.com/danielhkuo/quickly-vote/program"
)

var testProgramID = models.Address{0x50, 0x11}

const testFunding = uint64(1_000_000_000)

var testStart = time.Unix(1_700_000_000, 0).UTC()

type testLedger struct {
	rt  *Runtime
	now time.Time
}

// storeFactories lists every Store implementation under test
var storeFactories = []struct {
	name string
	new  func(t *testing.T) Store
}{
	{"memory", func(t *testing.T) Store { return NewMemoryStore() }},
	{"sqlite", newSQLiteStore},
}

func newSQLiteStore(t *testing.T) Store {
	t.Helper()
	conn, err := db.Open(db.SQLite, "file::memory:")
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := db.CreateSchema(conn, db.SQLite); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return NewSQLStore(conn, db.SQLite)
}

func newTestLedger(t *testing.T, store Store) *testLedger {
	t.Helper()
	l := &testLedger{now: testStart}
	l.rt = NewRuntime(store, program.New(testProgramID),
		WithClock(func() time.Time { return l.now }),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	return l
}

func (l *testLedger) advance(d time.Duration) {
	l.now = l.now.Add(d)
}

func keypair(t *testing.T, n byte) *auth.Keypair {
	t.Helper()
	kp, err := auth.KeypairFromSeed(bytes.Repeat([]byte{n}, 32))
	if err != nil {
		t.Fatalf("KeypairFromSeed() error = %v", err)
	}
	return kp
}

// fundedKeypair returns a keypair holding testFunding lamports
func (l *testLedger) fundedKeypair(t *testing.T, n byte) *auth.Keypair {
	t.Helper()
	kp := keypair(t, n)
	if _, err := l.rt.Airdrop(context.Background(), kp.Address(), testFunding); err != nil {
		t.Fatalf("Airdrop() error = %v", err)
	}
	return kp
}

func (l *testLedger) execute(ix instruction.Instruction, signers ...*auth.Keypair) (*Receipt, error) {
	tx := NewTransaction(ix)
	tx.Sign(signers...)
	return l.rt.Execute(context.Background(), tx)
}

func (l *testLedger) balance(t *testing.T, addr models.Address) uint64 {
	t.Helper()
	acct, err := l.rt.Account(context.Background(), addr)
	if errors.Is(err, ErrAccountNotFound) {
		return 0
	}
	if err != nil {
		t.Fatalf("Account() error = %v", err)
	}
	return acct.Lamports
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

// createPoll creates a poll opening 10s from now and closing an hour later
func (l *testLedger) createPoll(t *testing.T, creator *auth.Keypair, title string, options ...string) models.Address {
	t.Helper()
	addr := pollAddress(t, creator.Address(), title)
	start := l.now.Unix() + 10
	ix := instruction.NewCreatePoll(testProgramID, creator.Address(), addr, title, options, start, start+3600)
	if _, err := l.execute(ix, creator); err != nil {
		t.Fatalf("CreatePoll error = %v", err)
	}
	return addr
}

func (l *testLedger) castVote(t *testing.T, voter *auth.Keypair, poll models.Address, index uint32) (*Receipt, error) {
	t.Helper()
	ix := instruction.NewCastVote(testProgramID, voter.Address(), poll, voteAddress(t, voter.Address(), poll), index)
	return l.execute(ix, voter)
}
