// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/danielhkuo/quickly-vote/auth"
	"github.com/danielhkuo/quickly-vote/pda"
)

var keygenForce bool

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate a new keypair",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := keypairPath()
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); err == nil && !keygenForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}

		kp, err := auth.GenerateKeypair()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return err
		}
		if err := kp.Save(path); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\nAddress: %s\n", path, kp.Address())
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Print the keypair's address",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		kp, err := loadKeypair()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), kp.Address())
		return nil
	},
}

var addressCmd = &cobra.Command{
	Use:   "address",
	Short: "Derive program addresses",
}

var addressPollCmd = &cobra.Command{
	Use:   "poll <creator> <title>",
	Short: "Derive the address of a creator's poll",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		program, err := programID()
		if err != nil {
			return err
		}
		creator, err := parseAddressArg("creator", args[0])
		if err != nil {
			return err
		}
		addr, bump, err := pda.PollAddress(program, creator, args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (bump %d)\n", addr, bump)
		return nil
	},
}

var addressVoteCmd = &cobra.Command{
	Use:   "vote <voter> <poll>",
	Short: "Derive the address of a voter's vote on a poll",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		program, err := programID()
		if err != nil {
			return err
		}
		voter, err := parseAddressArg("voter", args[0])
		if err != nil {
			return err
		}
		poll, err := parseAddressArg("poll", args[1])
		if err != nil {
			return err
		}
		addr, bump, err := pda.VoteAddress(program, voter, poll)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (bump %d)\n", addr, bump)
		return nil
	},
}

func init() {
	keygenCmd.Flags().BoolVar(&keygenForce, "force", false, "overwrite an existing keypair")

	addressCmd.AddCommand(addressPollCmd, addressVoteCmd)
	rootCmd.AddCommand(keygenCmd, whoamiCmd, addressCmd)
}
