// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cmd

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/danielhkuo/quickly-vote/auth"
	"github.com/danielhkuo/quickly-vote/instruction"
	"github.com/danielhkuo/quickly-vote/ledger"
	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/pda"
)

var (
	createOptions  []string
	createStartsIn time.Duration
	createDuration time.Duration
)

var createPollCmd = &cobra.Command{
	Use:   "create-poll <title>",
	Short: "Create a poll owned by your keypair",
	Example: `  pollctl create-poll "Lunch?" -o Pizza -o Tacos -o Salad --starts-in 1m --duration 2h`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kp, program, err := signerAndProgram()
		if err != nil {
			return err
		}
		title := args[0]
		pollAddr, _, err := pda.PollAddress(program, kp.Address(), title)
		if err != nil {
			return err
		}

		start := time.Now().Add(createStartsIn)
		end := start.Add(createDuration)
		ix := instruction.NewCreatePoll(program, kp.Address(), pollAddr, title, createOptions, start.Unix(), end.Unix())
		if err := submit(cmd, ix, kp); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Poll: %s\n", pollAddr)
		return nil
	},
}

var voteCmd = &cobra.Command{
	Use:   "vote <poll> <option-index>",
	Short: "Vote for an option on a poll",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kp, program, err := signerAndProgram()
		if err != nil {
			return err
		}
		pollAddr, err := parseAddressArg("poll", args[0])
		if err != nil {
			return err
		}
		index, err := strconv.ParseUint(args[1], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid option index: %w", err)
		}
		voteAddr, _, err := pda.VoteAddress(program, kp.Address(), pollAddr)
		if err != nil {
			return err
		}

		ix := instruction.NewCastVote(program, kp.Address(), pollAddr, voteAddr, uint32(index))
		if err := submit(cmd, ix, kp); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Vote: %s\n", voteAddr)
		return nil
	},
}

var closePollCmd = &cobra.Command{
	Use:   "close-poll <poll>",
	Short: "Close a poll you created and reclaim its balance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kp, program, err := signerAndProgram()
		if err != nil {
			return err
		}
		pollAddr, err := parseAddressArg("poll", args[0])
		if err != nil {
			return err
		}
		return submit(cmd, instruction.NewClosePoll(program, kp.Address(), pollAddr), kp)
	},
}

func signerAndProgram() (*auth.Keypair, models.Address, error) {
	kp, err := loadKeypair()
	if err != nil {
		return nil, models.Address{}, err
	}
	program, err := programID()
	if err != nil {
		return nil, models.Address{}, err
	}
	return kp, program, nil
}

// submit signs ix as a new transaction and prints its receipt
func submit(cmd *cobra.Command, ix instruction.Instruction, signers ...*auth.Keypair) error {
	tx := ledger.NewTransaction(ix)
	tx.Sign(signers...)

	receipt, err := newClient().Submit(cmd.Context(), tx)
	if err != nil {
		return fmt.Errorf("transaction %s: %w", tx.ID, err)
	}
	printReceipt(cmd.OutOrStdout(), receipt)
	return nil
}

func printReceipt(w io.Writer, r *models.ReceiptResponse) {
	fmt.Fprintf(w, "Transaction %s: %s\n", r.ID, r.Status)
	if r.Error != "" {
		fmt.Fprintf(w, "  error: %s\n", r.Error)
	}
	if r.Code != nil {
		fmt.Fprintf(w, "  code:  %d\n", *r.Code)
	}
	for _, line := range r.Logs {
		fmt.Fprintf(w, "  log: %s\n", line)
	}
}

func init() {
	createPollCmd.Flags().StringArrayVarP(&createOptions, "option", "o", nil, "option label (repeat for each option)")
	createPollCmd.Flags().DurationVar(&createStartsIn, "starts-in", time.Minute, "delay before voting opens")
	createPollCmd.Flags().DurationVar(&createDuration, "duration", 24*time.Hour, "how long voting stays open")
	if err := createPollCmd.MarkFlagRequired("option"); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(createPollCmd, voteCmd, closePollCmd)
}
