// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package instruction

import (
	"errors"
	"fmt"

	"github.com/danielhkuo/quickly-vote/codec"
	"github.com/danielhkuo/quickly-vote/models"
)

// Kind is the envelope discriminant
type Kind uint8

const (
	KindCreatePoll Kind = iota
	KindCastVote
	KindClosePoll
)

func (k Kind) String() string {
	switch k {
	case KindCreatePoll:
		return "CreatePoll"
	case KindCastVote:
		return "CastVote"
	case KindClosePoll:
		return "ClosePoll"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

var ErrUnknownInstruction = errors.New("unknown instruction")

// Instruction is a program invocation: the target program, the ordered
// accounts it touches, and the encoded payload
type Instruction struct {
	ProgramID models.Address
	Accounts  []models.AccountMeta
	Data      []byte
}

// Payload is one decoded operation
type Payload interface {
	Kind() Kind
	MarshalBinary() ([]byte, error)
}

type CreatePoll struct {
	Title     string
	Options   []string
	StartTime int64
	EndTime   int64
}

func (CreatePoll) Kind() Kind { return KindCreatePoll }

func (p CreatePoll) MarshalBinary() ([]byte, error) {
	w := codec.NewWriter(64)
	w.WriteU8(uint8(KindCreatePoll))
	w.WriteString(p.Title)
	w.WriteStrings(p.Options)
	w.WriteI64(p.StartTime)
	w.WriteI64(p.EndTime)
	return w.Bytes(), nil
}

type CastVote struct {
	OptionIndex uint32
}

func (CastVote) Kind() Kind { return KindCastVote }

func (p CastVote) MarshalBinary() ([]byte, error) {
	w := codec.NewWriter(5)
	w.WriteU8(uint8(KindCastVote))
	w.WriteU32(p.OptionIndex)
	return w.Bytes(), nil
}

type ClosePoll struct{}

func (ClosePoll) Kind() Kind { return KindClosePoll }

func (ClosePoll) MarshalBinary() ([]byte, error) {
	return []byte{uint8(KindClosePoll)}, nil
}

// Decode parses an instruction payload. The whole buffer must be consumed.
func Decode(data []byte) (Payload, error) {
	r := codec.NewReader(data)
	kind := Kind(r.ReadU8())
	if err := r.Err(); err != nil {
		return nil, err
	}

	var p Payload
	switch kind {
	case KindCreatePoll:
		p = CreatePoll{
			Title:     r.ReadString(),
			Options:   r.ReadStrings(),
			StartTime: r.ReadI64(),
			EndTime:   r.ReadI64(),
		}
	case KindCastVote:
		p = CastVote{OptionIndex: r.ReadU32()}
	case KindClosePoll:
		p = ClosePoll{}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownInstruction, kind)
	}

	if err := r.Finish(); err != nil {
		return nil, fmt.Errorf("%s: %w", kind, err)
	}
	return p, nil
}

func build(programID models.Address, payload Payload, accounts ...models.AccountMeta) Instruction {
	// Payload encoding cannot fail
	data, _ := payload.MarshalBinary()
	return Instruction{
		ProgramID: programID,
		Accounts:  accounts,
		Data:      data,
	}
}

// NewCreatePoll builds a CreatePoll instruction. The creator signs and
// funds the poll account at pollAddr.
func NewCreatePoll(programID, creator, pollAddr models.Address, title string, options []string, startTime, endTime int64) Instruction {
	return build(programID,
		CreatePoll{Title: title, Options: options, StartTime: startTime, EndTime: endTime},
		models.NewAccountMeta(creator, true),
		models.NewAccountMeta(pollAddr, false),
		models.NewReadonlyAccountMeta(models.SystemProgramID, false),
	)
}

// NewCastVote builds a CastVote instruction. The voter signs and funds
// the vote account at voteAddr.
func NewCastVote(programID, voter, pollAddr, voteAddr models.Address, optionIndex uint32) Instruction {
	return build(programID,
		CastVote{OptionIndex: optionIndex},
		models.NewAccountMeta(voter, true),
		models.NewAccountMeta(pollAddr, false),
		models.NewAccountMeta(voteAddr, false),
		models.NewReadonlyAccountMeta(models.SystemProgramID, false),
	)
}

// NewClosePoll builds a ClosePoll instruction. The authority signs and
// receives the poll account's balance.
func NewClosePoll(programID, authority, pollAddr models.Address) Instruction {
	return build(programID,
		ClosePoll{},
		models.NewAccountMeta(authority, true),
		models.NewAccountMeta(pollAddr, false),
	)
}
