// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package program

import (
	"fmt"

	"github.com/danielhkuo/quickly-vote/codec"
	"github.com/danielhkuo/quickly-vote/instruction"
	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/pda"
)

// castVote expects [voter, poll, vote, system allocator]. The vote record
// lives at an address derived from (voter, poll), so a second vote by the
// same voter always lands on an occupied account.
func (p *Program) castVote(env Env, accounts []*AccountInfo, ix instruction.CastVote) error {
	if len(accounts) < 4 {
		return ErrInvalidInstruction
	}
	voter, pollAcct, voteAcct, system := accounts[0], accounts[1], accounts[2], accounts[3]

	if !voter.IsSigner {
		return ErrUnauthorizedAccess
	}

	poll, err := p.loadPoll(env, pollAcct)
	if err != nil {
		return err
	}
	if !poll.IsActive(env.UnixTimestamp()) {
		return ErrPollClosed
	}
	if int(ix.OptionIndex) >= len(poll.Options) {
		return ErrInvalidVoteOption
	}

	if voteAcct.Lamports != 0 {
		existing, err := codec.DecodeVote(voteAcct.Data)
		if err != nil {
			env.Log("vote account unreadable", "address", voteAcct.Address.String(), "error", err)
		} else if existing.Initialized && existing.Voter == voter.Address && existing.Poll == pollAcct.Address {
			return ErrUserAlreadyVoted
		}
	}

	seeds := pda.VoteSeeds(voter.Address, pollAcct.Address)
	bump, ok := pda.Verify(voteAcct.Address, seeds, p.ID)
	if !ok {
		return ErrInvalidInstruction
	}
	if system.Address != models.SystemProgramID {
		return ErrInvalidInstruction
	}

	rent := env.MinimumBalance(models.VoteAccountSize)
	if err := env.CreateAccount(voter, voteAcct, rent, models.VoteAccountSize, p.ID, pda.WithBump(seeds, bump)); err != nil {
		return fmt.Errorf("allocate vote: %w", err)
	}

	if err := poll.CastVote(ix.OptionIndex); err != nil {
		return ErrInvalidVoteOption
	}
	if err := codec.WritePoll(pollAcct.Data, poll); err != nil {
		return fmt.Errorf("write poll: %w", err)
	}
	if err := codec.WriteVote(voteAcct.Data, models.NewVote(voter.Address, pollAcct.Address, ix.OptionIndex)); err != nil {
		return fmt.Errorf("write vote: %w", err)
	}

	env.Log("vote cast",
		"poll", pollAcct.Address.String(),
		"voter", voter.Address.String(),
		"option", ix.OptionIndex,
	)
	return nil
}
