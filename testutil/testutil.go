// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/danielhkuo/quickly-vote/auth"
	"github.com/danielhkuo/quickly-vote/cliparse"
	"github.com/danielhkuo/quickly-vote/db"
	"github.com/danielhkuo/quickly-vote/instruction"
	"github.com/danielhkuo/quickly-vote/ledger"
	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/pda"
	"github.com/danielhkuo/quickly-vote/program"
)

// TestFunding is the balance given to every keypair from FundedKeypair
const TestFunding = uint64(1_000_000_000)

// TestStart is the initial ledger time in tests
var TestStart = time.Unix(1_700_000_000, 0).UTC()

// SetupTestDB creates a fresh in-memory SQLite database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.SQLite, "file::memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn, db.SQLite); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseURL:  "file::memory:",
		DatabaseType: db.SQLite,
		ProgramID:    models.MustParseAddress(cliparse.DefaultProgramID),
		EnableFaucet: true,
	}
}

// Clock is a settable ledger clock
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// NewTestRuntime returns a runtime over a fresh SQLite database hosting the
// program at cfg.ProgramID, with its clock at TestStart
func NewTestRuntime(t *testing.T, cfg cliparse.Config) (*ledger.Runtime, *Clock) {
	t.Helper()

	clock := &Clock{now: TestStart}
	store := ledger.NewSQLStore(SetupTestDB(t), db.SQLite)
	rt := ledger.NewRuntime(store, program.New(cfg.ProgramID),
		ledger.WithClock(clock.Now),
		ledger.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	return rt, clock
}

// TestKeypair returns a deterministic keypair for n
func TestKeypair(t *testing.T, n byte) *auth.Keypair {
	t.Helper()
	kp, err := auth.KeypairFromSeed(bytes.Repeat([]byte{n}, 32))
	if err != nil {
		t.Fatalf("Failed to create keypair: %v", err)
	}
	return kp
}

// FundedKeypair returns TestKeypair(n) holding TestFunding lamports
func FundedKeypair(t *testing.T, rt *ledger.Runtime, n byte) *auth.Keypair {
	t.Helper()
	kp := TestKeypair(t, n)
	if _, err := rt.Airdrop(context.Background(), kp.Address(), TestFunding); err != nil {
		t.Fatalf("Failed to fund keypair: %v", err)
	}
	return kp
}

// SignedTransaction wraps ix in a new transaction signed by signers
func SignedTransaction(ix instruction.Instruction, signers ...*auth.Keypair) *ledger.Transaction {
	tx := ledger.NewTransaction(ix)
	tx.Sign(signers...)
	return tx
}

// CreateTestPoll creates a poll that opens 10 seconds after the current
// ledger time and stays open for an hour. Returns the poll address.
func CreateTestPoll(t *testing.T, rt *ledger.Runtime, creator *auth.Keypair, title string, options ...string) models.Address {
	t.Helper()

	addr, _, err := pda.PollAddress(rt.ProgramID(), creator.Address(), title)
	if err != nil {
		t.Fatalf("Failed to derive poll address: %v", err)
	}
	start := rt.Now().Unix() + 10
	ix := instruction.NewCreatePoll(rt.ProgramID(), creator.Address(), addr, title, options, start, start+3600)
	if _, err := rt.Execute(context.Background(), SignedTransaction(ix, creator)); err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}

	return addr
}

// CastTestVote votes for option index on poll and returns the vote address
func CastTestVote(t *testing.T, rt *ledger.Runtime, voter *auth.Keypair, poll models.Address, index uint32) models.Address {
	t.Helper()

	voteAddr, _, err := pda.VoteAddress(rt.ProgramID(), voter.Address(), poll)
	if err != nil {
		t.Fatalf("Failed to derive vote address: %v", err)
	}
	ix := instruction.NewCastVote(rt.ProgramID(), voter.Address(), poll, voteAddr, index)
	if _, err := rt.Execute(context.Background(), SignedTransaction(ix, voter)); err != nil {
		t.Fatalf("Failed to cast test vote: %v", err)
	}

	return voteAddr
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
