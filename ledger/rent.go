// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import "time"

// AccountStorageOverhead is charged on top of every account's data size
const AccountStorageOverhead = 128

// MaxAccountDataSize bounds a single allocation
const MaxAccountDataSize = 10 * 1024 * 1024

// Rent prices persistent storage. An account must hold
// (overhead + size) × LamportsPerByteYear × ExemptionYears to persist.
type Rent struct {
	LamportsPerByteYear uint64
	ExemptionYears      uint64
}

var DefaultRent = Rent{
	LamportsPerByteYear: 3480,
	ExemptionYears:      2,
}

func (r Rent) MinimumBalance(space uint64) uint64 {
	return (AccountStorageOverhead + space) * r.LamportsPerByteYear * r.ExemptionYears
}

// Clock supplies ledger time
type Clock func() time.Time

// FixedClock always reports t
func FixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}
