// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "errors"

// Poll bounds
const (
	MaxPollTitleLength  = 100
	MaxPollOptionLength = 50
	MaxPollOptions      = 10
)

// Record sizes are fixed at allocation time. The poll record is sized for
// the largest title and option set so its layout never changes.
const (
	PollAccountSize = 1 + // initialized
		4 + MaxPollTitleLength + // title
		4 + MaxPollOptions*(4+MaxPollOptionLength) + // options
		AddressSize + // authority
		8 + 8 + // start_time, end_time
		4 + MaxPollOptions*4 // vote_counts

	VoteAccountSize = 1 + AddressSize + AddressSize + 4
)

var ErrInvalidOptionIndex = errors.New("invalid option index")

// Poll is the persisted state of a single poll
type Poll struct {
	Initialized bool
	Title       string
	Options     []string
	Authority   Address
	StartTime   int64
	EndTime     int64
	VoteCounts  []uint32
}

// NewPoll returns an initialized poll with a zero counter per option
func NewPoll(title string, options []string, authority Address, startTime, endTime int64) *Poll {
	return &Poll{
		Initialized: true,
		Title:       title,
		Options:     options,
		Authority:   authority,
		StartTime:   startTime,
		EndTime:     endTime,
		VoteCounts:  make([]uint32, len(options)),
	}
}

// IsActive reports whether now falls inside the voting window (both ends inclusive)
func (p *Poll) IsActive(now int64) bool {
	return now >= p.StartTime && now <= p.EndTime
}

// CastVote increments the counter for option index
func (p *Poll) CastVote(index uint32) error {
	if int(index) >= len(p.Options) || int(index) >= len(p.VoteCounts) {
		return ErrInvalidOptionIndex
	}
	p.VoteCounts[index]++
	return nil
}

// TotalVotes sums all counters
func (p *Poll) TotalVotes() uint64 {
	var total uint64
	for _, c := range p.VoteCounts {
		total += uint64(c)
	}
	return total
}

// Vote records that Voter has voted on Poll. At most one exists per
// (voter, poll) pair because its address is derived from both.
type Vote struct {
	Initialized bool
	Voter       Address
	Poll        Address
	OptionIndex uint32
}

func NewVote(voter, poll Address, optionIndex uint32) *Vote {
	return &Vote{
		Initialized: true,
		Voter:       voter,
		Poll:        poll,
		OptionIndex: optionIndex,
	}
}
