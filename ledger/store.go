// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/danielhkuo/quickly-vote/models"
)

// Store holds accounts and receipts. Update runs fn as one atomic unit:
// its writes all land if fn returns nil and none land otherwise.
// Conflicting updates to the same address are serialized.
type Store interface {
	Update(ctx context.Context, fn func(tx Tx) error) error
	Account(ctx context.Context, addr models.Address) (*models.Account, error)
	Receipt(ctx context.Context, id uuid.UUID) (*Receipt, error)
}

// Tx is the view of a Store inside Update
type Tx interface {
	// Account returns a copy of the account at addr, or an unused
	// account if nothing is stored there
	Account(ctx context.Context, addr models.Address) (*models.Account, error)

	// PutAccount stores acct. Accounts with a zero balance are removed.
	PutAccount(ctx context.Context, acct *models.Account) error

	HasReceipt(ctx context.Context, id uuid.UUID) (bool, error)
	PutReceipt(ctx context.Context, r *Receipt) error
}

// MemoryStore keeps state in process memory. Updates are fully serialized.
type MemoryStore struct {
	mu       sync.Mutex
	accounts map[models.Address]*models.Account
	receipts map[uuid.UUID]*Receipt
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts: make(map[models.Address]*models.Account),
		receipts: make(map[uuid.UUID]*Receipt),
	}
}

func (s *MemoryStore) Update(ctx context.Context, fn func(tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	tx := &memoryTx{
		store:    s,
		accounts: make(map[models.Address]*models.Account),
		receipts: make(map[uuid.UUID]*Receipt),
	}
	if err := fn(tx); err != nil {
		return err
	}

	for addr, acct := range tx.accounts {
		if acct == nil {
			delete(s.accounts, addr)
		} else {
			s.accounts[addr] = acct
		}
	}
	for id, r := range tx.receipts {
		s.receipts[id] = r
	}
	return nil
}

func (s *MemoryStore) Account(ctx context.Context, addr models.Address) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[addr]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return acct.Clone(), nil
}

func (s *MemoryStore) Receipt(ctx context.Context, id uuid.UUID) (*Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.receipts[id]
	if !ok {
		return nil, ErrReceiptNotFound
	}
	c := *r
	return &c, nil
}

// memoryTx buffers writes until Update commits them. A nil account marks
// a deletion.
type memoryTx struct {
	store    *MemoryStore
	accounts map[models.Address]*models.Account
	receipts map[uuid.UUID]*Receipt
}

func (tx *memoryTx) Account(ctx context.Context, addr models.Address) (*models.Account, error) {
	if acct, ok := tx.accounts[addr]; ok {
		if acct == nil {
			return &models.Account{Address: addr}, nil
		}
		return acct.Clone(), nil
	}
	if acct, ok := tx.store.accounts[addr]; ok {
		return acct.Clone(), nil
	}
	return &models.Account{Address: addr}, nil
}

func (tx *memoryTx) PutAccount(ctx context.Context, acct *models.Account) error {
	if acct.Lamports == 0 {
		tx.accounts[acct.Address] = nil
		return nil
	}
	tx.accounts[acct.Address] = acct.Clone()
	return nil
}

func (tx *memoryTx) HasReceipt(ctx context.Context, id uuid.UUID) (bool, error) {
	if _, ok := tx.receipts[id]; ok {
		return true, nil
	}
	_, ok := tx.store.receipts[id]
	return ok, nil
}

func (tx *memoryTx) PutReceipt(ctx context.Context, r *Receipt) error {
	if ok, _ := tx.HasReceipt(ctx, r.ID); ok {
		return ErrDuplicateTransaction
	}
	c := *r
	tx.receipts[r.ID] = &c
	return nil
}
