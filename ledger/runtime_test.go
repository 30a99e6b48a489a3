// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/lib/pq"

	"github.com/danielhkuo/quickly-vote/auth"
	"github.com/danielhkuo/quickly-vote/codec"
	"github.com/danielhkuo/quickly-vote/instruction"
	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/program"
)

func TestExecuteLunchScenario(t *testing.T) {
	for _, sf := range storeFactories {
		t.Run(sf.name, func(t *testing.T) {
			l := newTestLedger(t, sf.new(t))
			ctx := context.Background()

			creator := l.fundedKeypair(t, 1)
			alice := l.fundedKeypair(t, 2)
			bob := l.fundedKeypair(t, 3)
			carol := l.fundedKeypair(t, 4)

			poll := l.createPoll(t, creator, "Lunch?", "Pizza", "Tacos", "Salad")

			pollRent := DefaultRent.MinimumBalance(models.PollAccountSize)
			if got := l.balance(t, poll); got != pollRent {
				t.Errorf("poll balance = %d, want %d", got, pollRent)
			}
			if got := l.balance(t, creator.Address()); got != testFunding-pollRent {
				t.Errorf("creator balance = %d, want %d", got, testFunding-pollRent)
			}

			// Not open yet
			if _, err := l.castVote(t, alice, poll, 0); !errors.Is(err, program.ErrPollClosed) {
				t.Fatalf("early vote error = %v, want ErrPollClosed", err)
			}

			l.advance(20 * time.Second)
			for _, v := range []struct {
				name  string
				voter *auth.Keypair
				index uint32
			}{
				{"alice", alice, 1},
				{"bob", bob, 1},
				{"carol", carol, 0},
			} {
				receipt, err := l.castVote(t, v.voter, poll, v.index)
				if err != nil {
					t.Fatalf("%s vote error = %v", v.name, err)
				}
				if !receipt.Succeeded() {
					t.Fatalf("%s vote receipt = %+v", v.name, receipt)
				}
			}

			acct, err := l.rt.Account(ctx, poll)
			if err != nil {
				t.Fatalf("Account() error = %v", err)
			}
			decoded, err := codec.DecodePoll(acct.Data)
			if err != nil {
				t.Fatalf("DecodePoll() error = %v", err)
			}
			want := []uint32{1, 2, 0}
			for i, c := range want {
				if decoded.VoteCounts[i] != c {
					t.Errorf("VoteCounts = %v, want %v", decoded.VoteCounts, want)
					break
				}
			}

			// A second vote fails, keeps a receipt, and changes nothing
			receipt, err := l.castVote(t, alice, poll, 0)
			if !errors.Is(err, program.ErrUserAlreadyVoted) {
				t.Fatalf("second vote error = %v, want ErrUserAlreadyVoted", err)
			}
			if receipt == nil || receipt.Succeeded() || receipt.Code == nil || *receipt.Code != 9 {
				t.Errorf("second vote receipt = %+v, want failed with code 9", receipt)
			}
			stored, err := l.rt.Receipt(ctx, receipt.ID.String())
			if err != nil {
				t.Fatalf("Receipt() error = %v", err)
			}
			if stored.Status != models.TxStatusFailed {
				t.Errorf("stored receipt status = %q", stored.Status)
			}

			// Only the authority may close
			if _, err := l.execute(instruction.NewClosePoll(testProgramID, alice.Address(), poll), alice); !errors.Is(err, program.ErrUnauthorizedAccess) {
				t.Errorf("close by voter error = %v, want ErrUnauthorizedAccess", err)
			}

			if _, err := l.execute(instruction.NewClosePoll(testProgramID, creator.Address(), poll), creator); err != nil {
				t.Fatalf("close error = %v", err)
			}
			if _, err := l.rt.Account(ctx, poll); !errors.Is(err, ErrAccountNotFound) {
				t.Errorf("poll account after close: error = %v, want ErrAccountNotFound", err)
			}
			if got := l.balance(t, creator.Address()); got != testFunding {
				t.Errorf("creator balance after close = %d, want %d", got, testFunding)
			}

			// Votes outlive the poll
			voteRent := DefaultRent.MinimumBalance(models.VoteAccountSize)
			if got := l.balance(t, voteAddress(t, bob.Address(), poll)); got != voteRent {
				t.Errorf("vote balance = %d, want %d", got, voteRent)
			}

			if _, err := l.castVote(t, keypair(t, 9), poll, 0); !errors.Is(err, program.ErrInvalidAccountOwner) {
				t.Errorf("vote on closed poll error = %v, want ErrInvalidAccountOwner", err)
			}
		})
	}
}

func TestExecuteRejects(t *testing.T) {
	l := newTestLedger(t, NewMemoryStore())
	creator := l.fundedKeypair(t, 1)
	other := l.fundedKeypair(t, 2)
	addr := pollAddress(t, creator.Address(), "Lunch?")
	start := l.now.Unix() + 10
	ix := instruction.NewCreatePoll(testProgramID, creator.Address(), addr, "Lunch?", []string{"a", "b"}, start, start+60)

	tests := []struct {
		name    string
		tx      func() *Transaction
		wantErr error
	}{
		{
			name: "wrong program",
			tx: func() *Transaction {
				bad := ix
				bad.ProgramID = models.Address{9}
				tx := NewTransaction(bad)
				tx.Sign(creator)
				return tx
			},
			wantErr: ErrUnknownProgram,
		},
		{
			name:    "unsigned",
			tx:      func() *Transaction { return NewTransaction(ix) },
			wantErr: ErrMissingSignature,
		},
		{
			name: "signed by someone else",
			tx: func() *Transaction {
				tx := NewTransaction(ix)
				tx.Signatures = []Signature{{Signer: creator.Address(), Bytes: other.Sign(tx.Message())}}
				return tx
			},
			wantErr: ErrInvalidSignature,
		},
		{
			name: "signature over another ID",
			tx: func() *Transaction {
				tx := NewTransaction(ix)
				tx.Sign(creator)
				tx.ID = NewTransaction(ix).ID
				return tx
			},
			wantErr: ErrInvalidSignature,
		},
		{
			name: "too many accounts",
			tx: func() *Transaction {
				bad := ix
				bad.Accounts = make([]models.AccountMeta, MaxAccountsPerTransaction+1)
				return NewTransaction(bad)
			},
			wantErr: ErrTooManyAccounts,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := tt.tx()
			receipt, err := l.rt.Execute(context.Background(), tx)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Execute() error = %v, want %v", err, tt.wantErr)
			}
			if receipt != nil {
				t.Errorf("rejected transaction returned receipt %+v", receipt)
			}
			if _, err := l.rt.Receipt(context.Background(), tx.ID.String()); !errors.Is(err, ErrReceiptNotFound) {
				t.Errorf("Receipt() error = %v, want ErrReceiptNotFound", err)
			}
		})
	}

	if got := l.balance(t, addr); got != 0 {
		t.Errorf("poll balance = %d after rejected transactions", got)
	}
}

func TestExecuteDuplicateID(t *testing.T) {
	for _, sf := range storeFactories {
		t.Run(sf.name, func(t *testing.T) {
			l := newTestLedger(t, sf.new(t))
			creator := l.fundedKeypair(t, 1)
			addr := pollAddress(t, creator.Address(), "Lunch?")
			start := l.now.Unix() + 10

			tx := NewTransaction(instruction.NewCreatePoll(testProgramID, creator.Address(), addr, "Lunch?", []string{"a", "b"}, start, start+60))
			tx.Sign(creator)
			if _, err := l.rt.Execute(context.Background(), tx); err != nil {
				t.Fatalf("first Execute() error = %v", err)
			}
			if _, err := l.rt.Execute(context.Background(), tx); !errors.Is(err, ErrDuplicateTransaction) {
				t.Fatalf("replayed Execute() error = %v, want ErrDuplicateTransaction", err)
			}

			// A failed transaction also consumes its ID
			closeTx := NewTransaction(instruction.NewClosePoll(testProgramID, creator.Address(), models.Address{7}))
			closeTx.Sign(creator)
			if _, err := l.rt.Execute(context.Background(), closeTx); err == nil {
				t.Fatal("closing a missing poll should fail")
			}
			if _, err := l.rt.Execute(context.Background(), closeTx); !errors.Is(err, ErrDuplicateTransaction) {
				t.Errorf("replayed failed Execute() error = %v, want ErrDuplicateTransaction", err)
			}
		})
	}
}

func TestExecuteFailureRollsBack(t *testing.T) {
	for _, sf := range storeFactories {
		t.Run(sf.name, func(t *testing.T) {
			l := newTestLedger(t, sf.new(t))
			creator := l.fundedKeypair(t, 1)
			voter := l.fundedKeypair(t, 2)
			poll := l.createPoll(t, creator, "Lunch?", "Pizza", "Tacos")
			l.advance(20 * time.Second)

			receipt, err := l.castVote(t, voter, poll, 5)
			if !errors.Is(err, program.ErrInvalidVoteOption) {
				t.Fatalf("castVote() error = %v, want ErrInvalidVoteOption", err)
			}
			if receipt.Code == nil || *receipt.Code != program.ErrInvalidVoteOption.Code() {
				t.Errorf("receipt code = %v, want %d", receipt.Code, program.ErrInvalidVoteOption.Code())
			}

			if got := l.balance(t, voter.Address()); got != testFunding {
				t.Errorf("voter balance = %d, want %d", got, testFunding)
			}
			if got := l.balance(t, voteAddress(t, voter.Address(), poll)); got != 0 {
				t.Errorf("vote balance = %d, want 0", got)
			}
		})
	}
}

// flakyStore fails its next failures updates before reaching the wrapped store
type flakyStore struct {
	Store
	failures int
}

func (s *flakyStore) Update(ctx context.Context, fn func(tx Tx) error) error {
	if s.failures > 0 {
		s.failures--
		return &pq.Error{Code: "40001", Message: "could not serialize access due to concurrent update"}
	}
	return s.Store.Update(ctx, fn)
}

func TestExecuteStoreFault(t *testing.T) {
	store := &flakyStore{Store: NewMemoryStore()}
	l := newTestLedger(t, store)
	ctx := context.Background()
	creator := l.fundedKeypair(t, 1)

	addr := pollAddress(t, creator.Address(), "Lunch?")
	start := l.now.Unix() + 10
	tx := NewTransaction(instruction.NewCreatePoll(testProgramID, creator.Address(), addr, "Lunch?", []string{"a", "b"}, start, start+60))
	tx.Sign(creator)

	store.failures = 1
	receipt, err := l.rt.Execute(ctx, tx)
	if err == nil {
		t.Fatal("Execute() succeeded through a store fault")
	}
	if IsExecutionFailure(err) {
		t.Errorf("store fault %v reported as an execution failure", err)
	}
	if receipt != nil {
		t.Errorf("store fault produced receipt %+v", receipt)
	}
	if _, err := l.rt.Receipt(ctx, tx.ID.String()); !errors.Is(err, ErrReceiptNotFound) {
		t.Errorf("Receipt() error = %v, want ErrReceiptNotFound", err)
	}

	// The same signed transaction goes through once the store recovers
	receipt, err = l.rt.Execute(ctx, tx)
	if err != nil {
		t.Fatalf("resubmitted Execute() error = %v", err)
	}
	if !receipt.Succeeded() {
		t.Errorf("receipt status = %s, want ok", receipt.Status)
	}
	if got := l.balance(t, addr); got != DefaultRent.MinimumBalance(models.PollAccountSize) {
		t.Errorf("poll balance = %d", got)
	}
}

func TestExecuteInsufficientFunds(t *testing.T) {
	l := newTestLedger(t, NewMemoryStore())
	creator := keypair(t, 1)
	if _, err := l.rt.Airdrop(context.Background(), creator.Address(), 1000); err != nil {
		t.Fatalf("Airdrop() error = %v", err)
	}

	addr := pollAddress(t, creator.Address(), "Lunch?")
	start := l.now.Unix() + 10
	receipt, err := l.execute(instruction.NewCreatePoll(testProgramID, creator.Address(), addr, "Lunch?", []string{"a"}, start, start+60), creator)
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("Execute() error = %v, want ErrInsufficientFunds", err)
	}
	if receipt.Code != nil {
		t.Errorf("allocator failure carried program code %d", *receipt.Code)
	}
	if got := l.balance(t, creator.Address()); got != 1000 {
		t.Errorf("creator balance = %d, want 1000", got)
	}
}

func TestReceiptLogs(t *testing.T) {
	l := newTestLedger(t, NewMemoryStore())
	creator := l.fundedKeypair(t, 1)
	addr := pollAddress(t, creator.Address(), "Lunch?")
	start := l.now.Unix() + 10

	receipt, err := l.execute(instruction.NewCreatePoll(testProgramID, creator.Address(), addr, "Lunch?", []string{"a", "b"}, start, start+60), creator)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(receipt.Logs) != 1 || !strings.HasPrefix(receipt.Logs[0], "poll created") {
		t.Errorf("Logs = %q", receipt.Logs)
	}
	if !receipt.ProcessedAt.Equal(l.now) {
		t.Errorf("ProcessedAt = %v, want %v", receipt.ProcessedAt, l.now)
	}

	if _, err := l.rt.Receipt(context.Background(), "not-a-uuid"); !errors.Is(err, ErrReceiptNotFound) {
		t.Errorf("Receipt(bad id) error = %v, want ErrReceiptNotFound", err)
	}
}

func TestAirdrop(t *testing.T) {
	l := newTestLedger(t, NewMemoryStore())
	ctx := context.Background()
	addr := keypair(t, 1).Address()

	if _, err := l.rt.Airdrop(ctx, addr, 0); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("Airdrop(0) error = %v, want ErrInvalidAmount", err)
	}

	balance, err := l.rt.Airdrop(ctx, addr, 500)
	if err != nil || balance != 500 {
		t.Fatalf("Airdrop() = %d, %v", balance, err)
	}
	balance, err = l.rt.Airdrop(ctx, addr, 250)
	if err != nil || balance != 750 {
		t.Fatalf("Airdrop() = %d, %v", balance, err)
	}

	if _, err := l.rt.Airdrop(ctx, addr, math.MaxUint64); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("overflowing Airdrop() error = %v, want ErrInvalidAmount", err)
	}
	if got := l.balance(t, addr); got != 750 {
		t.Errorf("balance = %d, want 750", got)
	}
}

func TestTransactionRequestRoundTrip(t *testing.T) {
	kp := keypair(t, 1)
	ix := instruction.NewClosePoll(testProgramID, kp.Address(), models.Address{7})
	tx := NewTransaction(ix)
	tx.Sign(kp)

	got, err := TransactionFromRequest(tx.Request())
	if err != nil {
		t.Fatalf("TransactionFromRequest() error = %v", err)
	}
	if got.ID != tx.ID || string(got.Message()) != string(tx.Message()) {
		t.Error("converted transaction signs a different message")
	}
	if len(got.Signatures) != 1 || string(got.Signatures[0].Bytes) != string(tx.Signatures[0].Bytes) {
		t.Errorf("Signatures = %+v", got.Signatures)
	}

	for _, id := range []string{"", "nope", "00000000-0000-0000-0000-000000000000"} {
		req := tx.Request()
		req.ID = id
		if _, err := TransactionFromRequest(req); !errors.Is(err, ErrMalformedTransaction) {
			t.Errorf("TransactionFromRequest(id %q) error = %v, want ErrMalformedTransaction", id, err)
		}
	}
}

func TestIsExecutionFailure(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{program.ErrPollClosed, true},
		{ErrInsufficientFunds, true},
		{ErrUnbalancedTransaction, true},
		{ErrBalanceOverflow, true},
		{ErrDuplicateTransaction, false},
		{errors.New("disk full"), false},
		{&pq.Error{Code: "40001"}, false},
	}
	for _, tt := range tests {
		if got := IsExecutionFailure(tt.err); got != tt.want {
			t.Errorf("IsExecutionFailure(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestBalanceCap(t *testing.T) {
	for _, sf := range storeFactories {
		t.Run(sf.name, func(t *testing.T) {
			l := newTestLedger(t, sf.new(t))
			ctx := context.Background()

			if _, err := l.rt.Airdrop(ctx, keypair(t, 9).Address(), MaxLamports+1); !errors.Is(err, ErrInvalidAmount) {
				t.Errorf("Airdrop(MaxLamports+1) error = %v, want ErrInvalidAmount", err)
			}

			creator := keypair(t, 1)
			if _, err := l.rt.Airdrop(ctx, creator.Address(), MaxLamports); err != nil {
				t.Fatalf("Airdrop(MaxLamports) error = %v", err)
			}
			poll := l.createPoll(t, creator, "Lunch?", "Pizza", "Tacos")
			rent := DefaultRent.MinimumBalance(models.PollAccountSize)

			// Refill so reclaiming the deposit would pass the cap
			if _, err := l.rt.Airdrop(ctx, creator.Address(), rent); err != nil {
				t.Fatalf("Airdrop(rent) error = %v", err)
			}
			if _, err := l.rt.Airdrop(ctx, creator.Address(), 1); !errors.Is(err, ErrInvalidAmount) {
				t.Errorf("Airdrop past the cap error = %v, want ErrInvalidAmount", err)
			}

			receipt, err := l.execute(instruction.NewClosePoll(testProgramID, creator.Address(), poll), creator)
			if !errors.Is(err, ErrBalanceOverflow) {
				t.Fatalf("ClosePoll error = %v, want ErrBalanceOverflow", err)
			}
			if receipt == nil || receipt.Succeeded() {
				t.Errorf("receipt = %+v, want a failed receipt", receipt)
			}
			if got := l.balance(t, creator.Address()); got != MaxLamports {
				t.Errorf("creator balance = %d, want %d", got, uint64(MaxLamports))
			}
			if got := l.balance(t, poll); got != rent {
				t.Errorf("poll balance = %d, want %d", got, rent)
			}
		})
	}
}
