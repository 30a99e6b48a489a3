// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/danielhkuo/quickly-vote/auth"
	"github.com/danielhkuo/quickly-vote/client"
	"github.com/danielhkuo/quickly-vote/cliparse"
	"github.com/danielhkuo/quickly-vote/models"
)

// Config keys, also settable as POLLCTL_<KEY>
const (
	keyURL     = "url"
	keyKeypair = "keypair"
	keyProgram = "program"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pollctl",
	Short: "Create polls and vote on a quickly-vote ledger",
	Long: `pollctl signs poll transactions with a local ed25519 keypair and
submits them to a quickly-vote server.

Settings come from flags, POLLCTL_* environment variables, or
$HOME/.pollctl.yaml, in that order of precedence.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.pollctl.yaml)")
	flags.String(keyURL, "http://localhost:3318", "server URL")
	flags.String(keyKeypair, "", "keypair file (default is $HOME/.pollctl/id.key)")
	flags.String(keyProgram, cliparse.DefaultProgramID, "program ID")

	for _, key := range []string{keyURL, keyKeypair, keyProgram} {
		if err := viper.BindPFlag(key, flags.Lookup(key)); err != nil {
			panic(err)
		}
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		// Search config in home directory with name ".pollctl" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".pollctl")
	}

	viper.SetEnvPrefix("pollctl")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func newClient() *client.Client {
	return client.New(viper.GetString(keyURL))
}

func programID() (models.Address, error) {
	id, err := models.ParseAddress(viper.GetString(keyProgram))
	if err != nil {
		return models.Address{}, fmt.Errorf("invalid program ID: %w", err)
	}
	return id, nil
}

func keypairPath() (string, error) {
	if path := viper.GetString(keyKeypair); path != "" {
		return homedir.Expand(path)
	}
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".pollctl", "id.key"), nil
}

func loadKeypair() (*auth.Keypair, error) {
	path, err := keypairPath()
	if err != nil {
		return nil, err
	}
	kp, err := auth.LoadKeypair(path)
	if err != nil {
		return nil, fmt.Errorf("%w (run 'pollctl keygen' first)", err)
	}
	return kp, nil
}

// parseAddressArg parses a positional or flag address value
func parseAddressArg(name, value string) (models.Address, error) {
	addr, err := models.ParseAddress(value)
	if err != nil {
		return models.Address{}, fmt.Errorf("invalid %s: %w", name, err)
	}
	return addr, nil
}
