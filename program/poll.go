// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package program

import (
	"fmt"
	"math/bits"

	"github.com/danielhkuo/quickly-vote/codec"
	"github.com/danielhkuo/quickly-vote/instruction"
	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/pda"
)

// createPoll expects [creator, poll, system allocator]
func (p *Program) createPoll(env Env, accounts []*AccountInfo, ix instruction.CreatePoll) error {
	if len(accounts) < 3 {
		return ErrInvalidInstruction
	}
	creator, pollAcct, system := accounts[0], accounts[1], accounts[2]

	if !creator.IsSigner {
		return ErrUnauthorizedAccess
	}
	if system.Address != models.SystemProgramID {
		return ErrInvalidInstruction
	}

	// Input bounds, each with its own error
	if len(ix.Title) > models.MaxPollTitleLength {
		return ErrInvalidPollTitleLength
	}
	if len(ix.Options) == 0 || len(ix.Options) > models.MaxPollOptions {
		return ErrTooManyPollOptions
	}
	for _, option := range ix.Options {
		if len(option) > models.MaxPollOptionLength {
			return ErrInvalidPollOptionLength
		}
	}
	if ix.StartTime >= ix.EndTime {
		return ErrPollTimeConstraint
	}
	if ix.StartTime < env.UnixTimestamp() {
		return ErrPollTimeConstraint
	}

	if pollAcct.Lamports != 0 {
		return ErrPollAlreadyExists
	}

	seeds := pda.PollSeeds(creator.Address, ix.Title)
	bump, ok := pda.Verify(pollAcct.Address, seeds, p.ID)
	if !ok {
		return ErrInvalidInstruction
	}

	rent := env.MinimumBalance(models.PollAccountSize)
	if err := env.CreateAccount(creator, pollAcct, rent, models.PollAccountSize, p.ID, pda.WithBump(seeds, bump)); err != nil {
		return fmt.Errorf("allocate poll: %w", err)
	}

	poll := models.NewPoll(ix.Title, ix.Options, creator.Address, ix.StartTime, ix.EndTime)
	if err := codec.WritePoll(pollAcct.Data, poll); err != nil {
		return fmt.Errorf("write poll: %w", err)
	}

	env.Log("poll created",
		"poll", pollAcct.Address.String(),
		"authority", creator.Address.String(),
		"options", len(ix.Options),
	)
	return nil
}

// closePoll expects [authority, poll]. The poll's whole balance moves to
// the authority; a zero-balance account is reclaimed by the host. Vote
// records for the poll are left in place.
func (p *Program) closePoll(env Env, accounts []*AccountInfo) error {
	if len(accounts) < 2 {
		return ErrInvalidInstruction
	}
	authority, pollAcct := accounts[0], accounts[1]

	if !authority.IsSigner {
		return ErrUnauthorizedAccess
	}

	poll, err := p.loadPoll(env, pollAcct)
	if err != nil {
		return err
	}
	if poll.Authority != authority.Address {
		return ErrUnauthorizedAccess
	}

	total, carry := bits.Add64(authority.Lamports, pollAcct.Lamports, 0)
	if carry != 0 {
		return ErrInvalidInstruction
	}
	reclaimed := pollAcct.Lamports
	authority.Lamports = total
	pollAcct.Lamports = 0

	env.Log("poll closed",
		"poll", pollAcct.Address.String(),
		"reclaimed", reclaimed,
		"total_votes", poll.TotalVotes(),
	)
	return nil
}
