// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package codec

import (
	"fmt"

	"github.com/danielhkuo/quickly-vote/models"
)

// EncodePoll returns the packed encoding of p. The result is shorter than
// PollAccountSize unless every field is at its maximum.
func EncodePoll(p *models.Poll) []byte {
	w := NewWriter(models.PollAccountSize)
	w.WriteBool(p.Initialized)
	w.WriteString(p.Title)
	w.WriteStrings(p.Options)
	w.WriteAddress(p.Authority)
	w.WriteI64(p.StartTime)
	w.WriteI64(p.EndTime)
	w.WriteU32s(p.VoteCounts)
	return w.Bytes()
}

// DecodePoll reads a poll from the front of data. Trailing bytes are the
// unused tail of the fixed-size record and are ignored. An all-zero buffer
// decodes to a poll with Initialized == false.
func DecodePoll(data []byte) (*models.Poll, error) {
	r := NewReader(data)
	p := &models.Poll{
		Initialized: r.ReadBool(),
		Title:       r.ReadString(),
		Options:     r.ReadStrings(),
		Authority:   r.ReadAddress(),
		StartTime:   r.ReadI64(),
		EndTime:     r.ReadI64(),
		VoteCounts:  r.ReadU32s(),
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("poll: %w", err)
	}
	if p.Initialized && len(p.VoteCounts) != len(p.Options) {
		return nil, fmt.Errorf("poll: %w: %d counters for %d options", ErrDecode, len(p.VoteCounts), len(p.Options))
	}
	if err := checkPollBounds(p); err != nil {
		return nil, fmt.Errorf("poll: %w", err)
	}
	return p, nil
}

func checkPollBounds(p *models.Poll) error {
	if len(p.Title) > models.MaxPollTitleLength {
		return fmt.Errorf("%w: title is %d bytes", ErrDecode, len(p.Title))
	}
	if len(p.Options) > models.MaxPollOptions || len(p.VoteCounts) > models.MaxPollOptions {
		return fmt.Errorf("%w: %d options", ErrDecode, len(p.Options))
	}
	for i, option := range p.Options {
		if len(option) > models.MaxPollOptionLength {
			return fmt.Errorf("%w: option %d is %d bytes", ErrDecode, i, len(option))
		}
	}
	return nil
}

// WritePoll encodes p into the front of dst and zeroes the rest
func WritePoll(dst []byte, p *models.Poll) error {
	return writeRecord(dst, EncodePoll(p))
}

func EncodeVote(v *models.Vote) []byte {
	w := NewWriter(models.VoteAccountSize)
	w.WriteBool(v.Initialized)
	w.WriteAddress(v.Voter)
	w.WriteAddress(v.Poll)
	w.WriteU32(v.OptionIndex)
	return w.Bytes()
}

func DecodeVote(data []byte) (*models.Vote, error) {
	r := NewReader(data)
	v := &models.Vote{
		Initialized: r.ReadBool(),
		Voter:       r.ReadAddress(),
		Poll:        r.ReadAddress(),
		OptionIndex: r.ReadU32(),
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("vote: %w", err)
	}
	return v, nil
}

func WriteVote(dst []byte, v *models.Vote) error {
	return writeRecord(dst, EncodeVote(v))
}

func writeRecord(dst, encoded []byte) error {
	if len(encoded) > len(dst) {
		return fmt.Errorf("%w: record needs %d bytes, account holds %d", ErrBufferTooSmall, len(encoded), len(dst))
	}
	n := copy(dst, encoded)
	clear(dst[n:])
	return nil
}
