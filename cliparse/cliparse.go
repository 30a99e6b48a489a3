package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/danielhkuo/quickly-vote/models"
)

// DefaultProgramID is the address the voting program is hosted at unless
// configured otherwise
const DefaultProgramID = "VoteyXbxtVh4TbNu4KxGQQXyYgkEzQ9EJThJC4NdKH5"

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	ProgramID    models.Address
	EnableFaucet bool
}

// LoadEnvFile loads variables from path (typically ".env") into the
// environment. A missing file is not an error; variables already set win.
func LoadEnvFile(path string) error {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ParseFlags validates flags and sets port number
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var programID string
	var faucet string

	fs := flag.NewFlagSet("quickly-vote", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Ledger config
	fs.StringVar(&programID, "program", "", "Program ID (base58)")
	fs.StringVar(&faucet, "faucet", "", "Enable the airdrop endpoint (true/false)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if programID == "" {
		programID = os.Getenv("PROGRAM_ID")
		if programID == "" {
			programID = DefaultProgramID
		}
	}
	id, err := models.ParseAddress(programID)
	if err != nil {
		return Config{}, fmt.Errorf("invalid program ID: %w", err)
	}
	cfg.ProgramID = id

	if faucet == "" {
		faucet = os.Getenv("ENABLE_FAUCET")
	}
	if faucet != "" {
		enabled, err := strconv.ParseBool(faucet)
		if err != nil {
			return Config{}, errors.New("invalid ENABLE_FAUCET value")
		}
		cfg.EnableFaucet = enabled
	}

	return cfg, nil
}
