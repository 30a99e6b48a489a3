// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the ledger database and creates its schema.

# Connecting

Open accepts "postgres" (lib/pq) or "sqlite" (modernc.org/sqlite):

	conn, err := db.Open(db.SQLite, "file:ledger.db")
	if err != nil {
		log.Fatal(err)
	}

SQLite connections are capped at one, which serializes ledger updates.

# Schema Creation

	if err := db.CreateSchema(conn, db.SQLite); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - account: address, owner program, balance, and raw data of every
    live account. Accounts whose balance reaches zero are deleted.
  - transaction_receipt: outcome, error code, and program log lines of
    every executed transaction, keyed by the client-chosen ID.
*/
package db
