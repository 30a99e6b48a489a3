// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package program

import (
	"errors"
	"fmt"
)

// Error is a program failure with a stable numeric code. Codes are the
// constant's position in the list below and must never be reordered.
type Error uint32

const (
	ErrInvalidInstruction Error = iota
	ErrNotRentExempt            // reserved, no flow raises it
	ErrPollAlreadyExists
	ErrPollDoesNotExist
	ErrPollClosed
	ErrUnauthorizedAccess
	ErrInvalidPollTitleLength
	ErrInvalidPollOptionLength
	ErrTooManyPollOptions
	ErrUserAlreadyVoted
	ErrInvalidVoteOption
	ErrPollTimeConstraint
	ErrInvalidAccountOwner
)

var errorText = [...]string{
	ErrInvalidInstruction:      "invalid instruction",
	ErrNotRentExempt:           "not rent exempt",
	ErrPollAlreadyExists:       "poll already exists",
	ErrPollDoesNotExist:        "poll does not exist",
	ErrPollClosed:              "poll is closed",
	ErrUnauthorizedAccess:      "unauthorized access",
	ErrInvalidPollTitleLength:  "invalid poll title length",
	ErrInvalidPollOptionLength: "invalid poll option length",
	ErrTooManyPollOptions:      "too many poll options",
	ErrUserAlreadyVoted:        "user has already voted",
	ErrInvalidVoteOption:       "invalid vote option",
	ErrPollTimeConstraint:      "poll time constraints error",
	ErrInvalidAccountOwner:     "invalid account owner",
}

func (e Error) Error() string {
	if int(e) < len(errorText) {
		return errorText[e]
	}
	return fmt.Sprintf("program error %d", uint32(e))
}

func (e Error) Code() uint32 {
	return uint32(e)
}

// CodeOf extracts the program error code from err, if any
func CodeOf(err error) (uint32, bool) {
	var perr Error
	if errors.As(err, &perr) {
		return perr.Code(), true
	}
	return 0, false
}
