// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ledger hosts the voting program: it stores accounts, verifies and
executes transactions, and keeps a receipt for each one.

# Executing Transactions

A transaction is one instruction plus the signatures of its signer
accounts, identified by a client-chosen UUID:

	tx := ledger.NewTransaction(instruction.NewClosePoll(programID, authority.Address(), poll))
	tx.Sign(authority)
	receipt, err := rt.Execute(ctx, tx)

Execute rejects a transaction outright, with no receipt, when it targets
another program, lacks a valid signature, or reuses an ID. Otherwise it
runs the program inside a single Store.Update. The program sees cloned
accounts; after it returns the runtime checks that

  - read-only accounts are unchanged
  - only accounts owned by the program had their data rewritten or their
    balance reduced, apart from changes made through the allocator
  - no account changed owner or size outside the allocator
  - the total balance of the touched accounts is unchanged

and only then writes the writable accounts back. Any failure discards every
change and stores a failed receipt carrying the program error code.

# Storage

MemoryStore serializes updates behind a mutex. SQLStore uses the tables
from db.CreateSchema; on postgres updates run serializable with row locks,
on sqlite the single connection serializes them. Accounts left with a zero
balance are deleted.

# Rent

An allocation must carry Rent.MinimumBalance(space) lamports, which with
DefaultRent is (128 + space) × 3480 × 2.
*/
package ledger
