// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"math/big"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/quickly-vote/models"
)

// pollStatus places now relative to the poll's inclusive voting window
func pollStatus(p *models.Poll, now time.Time) string {
	switch ts := now.Unix(); {
	case ts < p.StartTime:
		return models.StatusPending
	case ts > p.EndTime:
		return models.StatusEnded
	default:
		return models.StatusActive
	}
}

// pollResponse builds the public view of a decoded poll. Counts are live:
// there is no sealing, every tally is on the ledger.
func pollResponse(addr models.Address, acct *models.Account, p *models.Poll, now time.Time) models.PollResponse {
	options := make([]models.OptionResult, len(p.Options))
	for i, label := range p.Options {
		options[i] = models.OptionResult{
			Index: uint32(i),
			Label: label,
			Votes: p.VoteCounts[i],
		}
	}

	return models.PollResponse{
		Address:    addr,
		Title:      p.Title,
		Authority:  p.Authority,
		Options:    options,
		TotalVotes: p.TotalVotes(),
		StartTime:  p.StartTime,
		EndTime:    p.EndTime,
		Starts:     relativeTime(p.StartTime, now),
		Ends:       relativeTime(p.EndTime, now),
		Status:     pollStatus(p, now),
		Lamports:   acct.Lamports,
	}
}

func relativeTime(unix int64, now time.Time) string {
	return humanize.RelTime(time.Unix(unix, 0), now, "ago", "from now")
}

// formatLamports renders a balance with thousands separators
func formatLamports(lamports uint64) string {
	return humanize.BigComma(new(big.Int).SetUint64(lamports)) + " lamports"
}
