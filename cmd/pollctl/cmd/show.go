// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cmd

import (
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/danielhkuo/quickly-vote/models"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Inspect ledger state",
}

var showPollCmd = &cobra.Command{
	Use:   "poll <address>",
	Short: "Show a poll and its tallies",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := parseAddressArg("poll", args[0])
		if err != nil {
			return err
		}
		poll, err := newClient().Poll(cmd.Context(), addr)
		if err != nil {
			return err
		}
		printPoll(cmd.OutOrStdout(), poll)
		return nil
	},
}

var showAccountCmd = &cobra.Command{
	Use:   "account [address]",
	Short: "Show an account (defaults to your keypair)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := addressOrSelf(args)
		if err != nil {
			return err
		}
		acct, err := newClient().Account(cmd.Context(), addr)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Address: %s\n", acct.Address)
		fmt.Fprintf(out, "Kind:    %s\n", acct.Kind)
		fmt.Fprintf(out, "Owner:   %s\n", acct.Owner)
		fmt.Fprintf(out, "Balance: %s\n", acct.Balance)
		fmt.Fprintf(out, "Data:    %s\n", humanize.Bytes(uint64(acct.DataLen)))
		return nil
	},
}

var showVoteCmd = &cobra.Command{
	Use:   "vote <poll> [voter]",
	Short: "Show a vote (defaults to your own)",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		poll, err := parseAddressArg("poll", args[0])
		if err != nil {
			return err
		}
		voter, err := addressOrSelf(args[1:])
		if err != nil {
			return err
		}
		vote, err := newClient().Vote(cmd.Context(), poll, voter)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s voted for option %d (record %s)\n", vote.Voter, vote.OptionIndex, vote.Address)
		return nil
	},
}

var showTxCmd = &cobra.Command{
	Use:   "tx <id>",
	Short: "Show a transaction receipt",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		receipt, err := newClient().Receipt(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printReceipt(cmd.OutOrStdout(), receipt)
		fmt.Fprintf(cmd.OutOrStdout(), "  processed: %s\n", humanize.Time(receipt.ProcessedAt))
		return nil
	},
}

var airdropCmd = &cobra.Command{
	Use:   "airdrop <lamports> [address]",
	Short: "Request lamports from a server with the faucet enabled",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := strconv.ParseUint(strings.ReplaceAll(args[0], "_", ""), 10, 64)
		if err != nil || amount == 0 {
			return fmt.Errorf("invalid amount %q", args[0])
		}
		addr, err := addressOrSelf(args[1:])
		if err != nil {
			return err
		}
		resp, err := newClient().Airdrop(cmd.Context(), addr, amount)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s now holds %s lamports\n", resp.Address, humanize.BigComma(new(big.Int).SetUint64(resp.Balance)))
		return nil
	},
}

// addressOrSelf parses args[0], or falls back to the keypair's address
func addressOrSelf(args []string) (models.Address, error) {
	if len(args) > 0 {
		return parseAddressArg("address", args[0])
	}
	kp, err := loadKeypair()
	if err != nil {
		return models.Address{}, err
	}
	return kp.Address(), nil
}

func printPoll(w io.Writer, p *models.PollResponse) {
	fmt.Fprintf(w, "%s [%s]\n", p.Title, p.Status)
	fmt.Fprintf(w, "  address:   %s\n", p.Address)
	fmt.Fprintf(w, "  authority: %s\n", p.Authority)
	fmt.Fprintf(w, "  opens %s, closes %s\n", p.Starts, p.Ends)

	for _, opt := range p.Options {
		share := 0.0
		if p.TotalVotes > 0 {
			share = float64(opt.Votes) / float64(p.TotalVotes)
		}
		bar := strings.Repeat("#", int(share*20))
		fmt.Fprintf(w, "  [%d] %-20s %-20s %s (%s%%)\n", opt.Index, opt.Label, bar,
			humanize.Comma(int64(opt.Votes)), humanize.FtoaWithDigits(share*100, 1))
	}
	fmt.Fprintf(w, "  %s votes total\n", humanize.Comma(int64(p.TotalVotes)))
}

func init() {
	showCmd.AddCommand(showPollCmd, showAccountCmd, showVoteCmd, showTxCmd)
	rootCmd.AddCommand(showCmd, airdropCmd)
}
