// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/danielhkuo/quickly-vote/auth"
	"github.com/danielhkuo/quickly-vote/instruction"
	"github.com/danielhkuo/quickly-vote/pda"
	"github.com/danielhkuo/quickly-vote/testutil"
)

// TestConcurrentVoteSubmission tests that many voters can submit at once
func TestConcurrentVoteSubmission(t *testing.T) {
	s := newTestServer(t)
	creator := testutil.FundedKeypair(t, s.rt, 1)
	poll := testutil.CreateTestPoll(t, s.rt, creator, "Concurrent Test Poll", "Option A", "Option B", "Option C")
	s.clock.Advance(20 * time.Second)

	const numVoters = 10
	voters := make([]*auth.Keypair, numVoters)
	for i := range voters {
		voters[i] = testutil.FundedKeypair(t, s.rt, byte(10+i))
	}

	var successCount atomic.Int32
	var wg sync.WaitGroup

	// Submit all votes concurrently
	for i := 0; i < numVoters; i++ {
		wg.Add(1)
		go func(voterIdx int) {
			defer wg.Done()

			voter := voters[voterIdx]
			voteAddr, _, _ := pda.VoteAddress(s.rt.ProgramID(), voter.Address(), poll)
			tx := testutil.SignedTransaction(instruction.NewCastVote(s.rt.ProgramID(), voter.Address(), poll, voteAddr, uint32(voterIdx%3)), voter)

			if w := s.submit(t, tx); w.Code == http.StatusOK {
				successCount.Add(1)
			}
		}(i)
	}

	wg.Wait()

	if successCount.Load() != numVoters {
		t.Errorf("Expected %d successful submissions, got %d", numVoters, successCount.Load())
	}

	if resp := decodePoll(t, s.getPoll(t, poll)); resp.TotalVotes != numVoters {
		t.Errorf("Expected %d votes, got %d", numVoters, resp.TotalVotes)
	}
}

// TestConcurrentPollClose tests that only one close succeeds
func TestConcurrentPollClose(t *testing.T) {
	s := newTestServer(t)
	creator := testutil.FundedKeypair(t, s.rt, 1)
	poll := testutil.CreateTestPoll(t, s.rt, creator, "Close Race", "A", "B")

	const numAttempts = 5
	var successCount atomic.Int32
	var wg sync.WaitGroup

	// All goroutines try to close simultaneously, each with its own ID
	for i := 0; i < numAttempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			tx := testutil.SignedTransaction(instruction.NewClosePoll(s.rt.ProgramID(), creator.Address(), poll), creator)
			if w := s.submit(t, tx); w.Code == http.StatusOK {
				successCount.Add(1)
			}
		}()
	}

	wg.Wait()

	if successCount.Load() != 1 {
		t.Errorf("Expected exactly 1 successful close, got %d", successCount.Load())
	}
}
