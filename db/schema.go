// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported database types
const (
	Postgres = "postgres"
	SQLite   = "sqlite"
)

// Open connects to the database and verifies the connection.
// SQLite is limited to a single connection so that every transaction
// runs alone.
func Open(dbType, url string) (*sql.DB, error) {
	switch dbType {
	case Postgres, SQLite:
	default:
		return nil, fmt.Errorf("unsupported database type %q", dbType)
	}

	conn, err := sql.Open(dbType, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbType == SQLite {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return conn, nil
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB, dbType string) error {
	blob := "BYTEA"
	if dbType == SQLite {
		blob = "BLOB"
	}

	_, err := db.Exec(strings.ReplaceAll(schema, "{{blob}}", blob))
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Accounts
CREATE TABLE IF NOT EXISTS account (
    address TEXT PRIMARY KEY,
    owner TEXT NOT NULL,
    lamports BIGINT NOT NULL CHECK (lamports > 0),
    data {{blob}} NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_account_owner ON account(owner);

-- Transaction Receipts
CREATE TABLE IF NOT EXISTS transaction_receipt (
    id TEXT PRIMARY KEY,
    status TEXT NOT NULL CHECK (status IN ('ok', 'failed')),
    code BIGINT,
    error TEXT NOT NULL DEFAULT '',
    logs TEXT NOT NULL DEFAULT '[]',
    processed_at BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_transaction_receipt_processed_at ON transaction_receipt(processed_at);
`
