// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: PostgreSQL or SQLite connection string (required)
  - DatabaseType: "sqlite" (default) or "postgres"
  - ProgramID: Address the voting program is hosted at (default: DefaultProgramID)
  - EnableFaucet: Whether POST /airdrop is served (default: false)

# CLI Flags

	-p        Server port
	-d        Database URL
	-t        Database type
	-program  Program ID (base58)
	-faucet   Enable the airdrop endpoint

# Environment Variables

Flags fall back to environment variables:

	PORT          → -p
	DATABASE_URL  → -d
	DATABASE_TYPE → -t
	PROGRAM_ID    → -program
	ENABLE_FAUCET → -faucet

CLI flags take precedence over environment variables. LoadEnvFile reads a
.env file into the environment first; variables that are already set are
left alone.

# Example

	// In main.go
	if err := cliparse.LoadEnvFile(".env"); err != nil {
		log.Fatal(err)
	}
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	// ...
	mux := router.NewRouter(rt, cfg)
*/
package cliparse
