// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "bytes"

// Account is the ledger's unit of storage: a balance, an owning program,
// and a fixed-size data buffer only the owner may write.
type Account struct {
	Address  Address
	Owner    Address
	Lamports uint64
	Data     []byte
}

// IsUnused reports whether the account was never allocated
// (or was reclaimed): no balance, no data, owned by the allocator.
func (a *Account) IsUnused() bool {
	return a.Lamports == 0 && len(a.Data) == 0 && a.Owner == SystemProgramID
}

// Clone returns a deep copy of the account
func (a *Account) Clone() *Account {
	c := *a
	c.Data = bytes.Clone(a.Data)
	return &c
}

// AccountMeta describes how an instruction uses an account
type AccountMeta struct {
	Address    Address `json:"address"`
	IsSigner   bool    `json:"is_signer"`
	IsWritable bool    `json:"is_writable"`
}

// NewAccountMeta returns a writable account reference
func NewAccountMeta(addr Address, isSigner bool) AccountMeta {
	return AccountMeta{Address: addr, IsSigner: isSigner, IsWritable: true}
}

// NewReadonlyAccountMeta returns a read-only account reference
func NewReadonlyAccountMeta(addr Address, isSigner bool) AccountMeta {
	return AccountMeta{Address: addr, IsSigner: isSigner}
}
