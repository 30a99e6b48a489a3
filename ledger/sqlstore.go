// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/multierr"

	"github.com/danielhkuo/quickly-vote/models"
)

// SQLStore keeps state in the account and transaction_receipt tables
// created by db.CreateSchema. On postgres each update runs serializable
// and locks the rows it reads; sqlite connections are expected to be
// limited to one, which serializes updates outright.
type SQLStore struct {
	db       *sql.DB
	postgres bool
}

func NewSQLStore(db *sql.DB, dialect string) *SQLStore {
	return &SQLStore{db: db, postgres: dialect == "postgres"}
}

// maxUpdateAttempts bounds retries of an update that lost a serialization
// conflict to a concurrent one
const maxUpdateAttempts = 5

// Update runs fn in one database transaction. On postgres, an attempt that
// loses a serialization conflict is rolled back and fn runs again against
// the state the winner committed, so racing creations of the same address
// see the account that won instead of a storage error.
func (s *SQLStore) Update(ctx context.Context, fn func(tx Tx) error) error {
	var err error
	for attempt := 1; attempt <= maxUpdateAttempts; attempt++ {
		err = s.update(ctx, fn)
		if !s.postgres || !isSerializationFailure(err) {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return multierr.Append(err, ctxErr)
		}
	}
	return fmt.Errorf("gave up after %d attempts: %w", maxUpdateAttempts, err)
}

func (s *SQLStore) update(ctx context.Context, fn func(tx Tx) error) (err error) {
	var opts *sql.TxOptions
	if s.postgres {
		opts = &sql.TxOptions{Isolation: sql.LevelSerializable}
	}

	tx, err := s.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				err = multierr.Append(err, fmt.Errorf("failed to roll back: %w", rbErr))
			}
		}
	}()

	if err = fn(&sqlTx{tx: tx, postgres: s.postgres}); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// isSerializationFailure reports a postgres serialization_failure or
// deadlock_detected error, both of which are safe to retry
func isSerializationFailure(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == "40001" || pqErr.Code == "40P01"
}

func (s *SQLStore) Account(ctx context.Context, addr models.Address) (*models.Account, error) {
	acct, err := scanAccount(s.db.QueryRowContext(ctx, selectAccount, addr.String()), addr)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	return acct, err
}

func (s *SQLStore) Receipt(ctx context.Context, id uuid.UUID) (*Receipt, error) {
	var (
		r         = Receipt{ID: id}
		code      sql.NullInt64
		logs      string
		processed int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT status, code, error, logs, processed_at
		FROM transaction_receipt WHERE id = $1
	`, id.String()).Scan(&r.Status, &code, &r.Error, &logs, &processed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReceiptNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query receipt: %w", err)
	}

	if code.Valid {
		c := uint32(code.Int64)
		r.Code = &c
	}
	if err := json.Unmarshal([]byte(logs), &r.Logs); err != nil {
		return nil, fmt.Errorf("failed to decode receipt logs: %w", err)
	}
	r.ProcessedAt = time.UnixMilli(processed).UTC()
	return &r, nil
}

const selectAccount = `SELECT owner, lamports, data FROM account WHERE address = $1`

func scanAccount(row *sql.Row, addr models.Address) (*models.Account, error) {
	var (
		owner    string
		lamports int64
		data     []byte
	)
	if err := row.Scan(&owner, &lamports, &data); err != nil {
		return nil, err
	}
	ownerAddr, err := models.ParseAddress(owner)
	if err != nil {
		return nil, fmt.Errorf("account %s has corrupt owner: %w", addr, err)
	}
	return &models.Account{
		Address:  addr,
		Owner:    ownerAddr,
		Lamports: uint64(lamports),
		Data:     data,
	}, nil
}

type sqlTx struct {
	tx       *sql.Tx
	postgres bool
}

func (t *sqlTx) Account(ctx context.Context, addr models.Address) (*models.Account, error) {
	query := selectAccount
	if t.postgres {
		query += " FOR UPDATE"
	}
	acct, err := scanAccount(t.tx.QueryRowContext(ctx, query, addr.String()), addr)
	if errors.Is(err, sql.ErrNoRows) {
		return &models.Account{Address: addr}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query account: %w", err)
	}
	return acct, nil
}

func (t *sqlTx) PutAccount(ctx context.Context, acct *models.Account) error {
	if acct.Lamports == 0 {
		_, err := t.tx.ExecContext(ctx, `DELETE FROM account WHERE address = $1`, acct.Address.String())
		if err != nil {
			return fmt.Errorf("failed to delete account: %w", err)
		}
		return nil
	}

	data := acct.Data
	if data == nil {
		data = []byte{}
	}
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO account (address, owner, lamports, data)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (address) DO UPDATE
		SET owner = excluded.owner, lamports = excluded.lamports, data = excluded.data
	`, acct.Address.String(), acct.Owner.String(), int64(acct.Lamports), data)
	if err != nil {
		return fmt.Errorf("failed to store account: %w", err)
	}
	return nil
}

func (t *sqlTx) HasReceipt(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := t.tx.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM transaction_receipt WHERE id = $1)
	`, id.String()).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to query receipt: %w", err)
	}
	return exists, nil
}

func (t *sqlTx) PutReceipt(ctx context.Context, r *Receipt) error {
	logs := r.Logs
	if logs == nil {
		logs = []string{}
	}
	encoded, err := json.Marshal(logs)
	if err != nil {
		return fmt.Errorf("failed to encode receipt logs: %w", err)
	}

	var code sql.NullInt64
	if r.Code != nil {
		code = sql.NullInt64{Int64: int64(*r.Code), Valid: true}
	}

	_, err = t.tx.ExecContext(ctx, `
		INSERT INTO transaction_receipt (id, status, code, error, logs, processed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, r.ID.String(), r.Status, code, r.Error, string(encoded), r.ProcessedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to store receipt: %w", err)
	}
	return nil
}
