// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/quickly-vote/cliparse"
	"github.com/danielhkuo/quickly-vote/ledger"
	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/testutil"
)

type testServer struct {
	rt           *ledger.Runtime
	clock        *testutil.Clock
	cfg          cliparse.Config
	transactions *TransactionHandler
	polls        *PollHandler
	accounts     *AccountHandler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := testutil.GetTestConfig()
	rt, clock := testutil.NewTestRuntime(t, cfg)
	return &testServer{
		rt:           rt,
		clock:        clock,
		cfg:          cfg,
		transactions: NewTransactionHandler(rt, cfg),
		polls:        NewPollHandler(rt, cfg),
		accounts:     NewAccountHandler(rt, cfg),
	}
}

// submit posts tx to SubmitTransaction
func (s *testServer) submit(t *testing.T, tx *ledger.Transaction) *httptest.ResponseRecorder {
	t.Helper()
	req := testutil.MakeRequest("POST", "/transactions", tx.Request(), nil)
	w := httptest.NewRecorder()
	s.transactions.SubmitTransaction(w, req)
	return w
}

func (s *testServer) getPoll(t *testing.T, addr models.Address) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("GET", "/polls/"+addr.String(), nil)
	req.SetPathValue("address", addr.String())
	w := httptest.NewRecorder()
	s.polls.GetPoll(w, req)
	return w
}

func decodePoll(t *testing.T, w *httptest.ResponseRecorder) models.PollResponse {
	t.Helper()
	testutil.AssertStatus(t, w, http.StatusOK)
	var resp models.PollResponse
	testutil.AssertJSON(t, w, &resp)
	return resp
}
