// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Command pollctl is a wallet for the quickly-vote ledger: it keeps an
// ed25519 keypair, derives poll and vote addresses, and signs and submits
// poll transactions.
package main

import "github.com/danielhkuo/quickly-vote/cmd/pollctl/cmd"

func main() {
	cmd.Execute()
}
