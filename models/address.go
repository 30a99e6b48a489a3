// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
)

// AddressSize is the size of an identity or storage address in bytes
const AddressSize = 32

var ErrInvalidAddress = errors.New("invalid address")

// Address identifies an account on the ledger. Identities (creator, voter,
// authority) are ed25519 public keys; poll and vote records live at
// program-derived addresses.
type Address [AddressSize]byte

// SystemProgramID is the address of the ledger's account allocator
var SystemProgramID = Address{}

// AddressFromBytes copies b into an Address
func AddressFromBytes(b []byte) (Address, error) {
	var a Address
	if len(b) != AddressSize {
		return a, fmt.Errorf("%w: want %d bytes, got %d", ErrInvalidAddress, AddressSize, len(b))
	}
	copy(a[:], b)
	return a, nil
}

// ParseAddress decodes a base58 address string
func ParseAddress(s string) (Address, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return Address{}, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	return AddressFromBytes(b)
}

// MustParseAddress panics if s is not a valid address.
// Use only for compile-time constants.
func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Address) String() string {
	return base58.Encode(a[:])
}

func (a Address) Bytes() []byte {
	return a[:]
}

func (a Address) IsZero() bool {
	return a == Address{}
}

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
