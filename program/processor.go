// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package program

import (
	"github.com/danielhkuo/quickly-vote/codec"
	"github.com/danielhkuo/quickly-vote/instruction"
	"github.com/danielhkuo/quickly-vote/models"
)

// Program validates and applies voting instructions. It holds no state of
// its own: everything lives in the accounts passed to Process.
type Program struct {
	ID models.Address
}

func New(id models.Address) *Program {
	return &Program{ID: id}
}

// Process decodes data and runs the selected operation against accounts.
// On error the host must discard every change made to accounts.
func (p *Program) Process(env Env, accounts []*AccountInfo, data []byte) error {
	payload, err := instruction.Decode(data)
	if err != nil {
		env.Log("instruction rejected", "error", err)
		return ErrInvalidInstruction
	}

	switch ix := payload.(type) {
	case instruction.CreatePoll:
		return p.createPoll(env, accounts, ix)
	case instruction.CastVote:
		return p.castVote(env, accounts, ix)
	case instruction.ClosePoll:
		return p.closePoll(env, accounts)
	default:
		return ErrInvalidInstruction
	}
}

// loadPoll checks ownership and decodes an initialized poll
func (p *Program) loadPoll(env Env, acct *AccountInfo) (*models.Poll, error) {
	if acct.Owner != p.ID {
		return nil, ErrInvalidAccountOwner
	}
	poll, err := codec.DecodePoll(acct.Data)
	if err != nil {
		env.Log("poll account unreadable", "address", acct.Address.String(), "error", err)
		return nil, ErrPollDoesNotExist
	}
	if !poll.Initialized {
		return nil, ErrPollDoesNotExist
	}
	return poll, nil
}
