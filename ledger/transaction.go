// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/quickly-vote/auth"
	"github.com/danielhkuo/quickly-vote/codec"
	"github.com/danielhkuo/quickly-vote/instruction"
	"github.com/danielhkuo/quickly-vote/models"
)

// Signature is one signer's signature over a transaction message
type Signature struct {
	Signer models.Address
	Bytes  []byte
}

// Transaction wraps one instruction with the signatures authorizing it.
// The ID is chosen by the client and may be used only once.
type Transaction struct {
	ID          uuid.UUID
	Instruction instruction.Instruction
	Signatures  []Signature
}

// NewTransaction assigns a fresh ID to ix
func NewTransaction(ix instruction.Instruction) *Transaction {
	return &Transaction{ID: uuid.New(), Instruction: ix}
}

const (
	metaSigner   = 1 << 0
	metaWritable = 1 << 1
)

// Message returns the bytes every signer signs: the ID, the program, the
// account list with its flags, and the instruction data
func (tx *Transaction) Message() []byte {
	ix := tx.Instruction
	w := codec.NewWriter(16 + models.AddressSize + 4 + len(ix.Accounts)*(models.AddressSize+1) + 4 + len(ix.Data))
	w.WriteFixed(tx.ID[:])
	w.WriteAddress(ix.ProgramID)
	w.WriteU32(uint32(len(ix.Accounts)))
	for _, meta := range ix.Accounts {
		w.WriteAddress(meta.Address)
		var flags uint8
		if meta.IsSigner {
			flags |= metaSigner
		}
		if meta.IsWritable {
			flags |= metaWritable
		}
		w.WriteU8(flags)
	}
	w.WriteBytes(ix.Data)
	return w.Bytes()
}

// Sign appends a signature from each keypair
func (tx *Transaction) Sign(signers ...*auth.Keypair) {
	msg := tx.Message()
	for _, kp := range signers {
		tx.Signatures = append(tx.Signatures, Signature{
			Signer: kp.Address(),
			Bytes:  kp.Sign(msg),
		})
	}
}

func (tx *Transaction) signature(signer models.Address) ([]byte, bool) {
	for _, s := range tx.Signatures {
		if s.Signer == signer {
			return s.Bytes, true
		}
	}
	return nil, false
}

// ErrMalformedTransaction reports a request that cannot be turned into a
// transaction
var ErrMalformedTransaction = errors.New("malformed transaction")

// TransactionFromRequest converts the wire form of a transaction
func TransactionFromRequest(req models.SubmitTransactionRequest) (*Transaction, error) {
	id, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid id: %v", ErrMalformedTransaction, err)
	}
	if id == uuid.Nil {
		return nil, fmt.Errorf("%w: nil id", ErrMalformedTransaction)
	}

	tx := &Transaction{
		ID: id,
		Instruction: instruction.Instruction{
			ProgramID: req.ProgramID,
			Accounts:  req.Accounts,
			Data:      req.Data,
		},
	}
	for _, s := range req.Signatures {
		tx.Signatures = append(tx.Signatures, Signature{Signer: s.Signer, Bytes: s.Signature})
	}
	return tx, nil
}

// Request returns the wire form of tx
func (tx *Transaction) Request() models.SubmitTransactionRequest {
	req := models.SubmitTransactionRequest{
		ID:        tx.ID.String(),
		ProgramID: tx.Instruction.ProgramID,
		Accounts:  tx.Instruction.Accounts,
		Data:      tx.Instruction.Data,
	}
	for _, s := range tx.Signatures {
		req.Signatures = append(req.Signatures, models.TransactionSignature{Signer: s.Signer, Signature: s.Bytes})
	}
	return req
}

// Receipt records the outcome of an executed transaction
type Receipt struct {
	ID          uuid.UUID
	Status      string
	Code        *uint32
	Error       string
	Logs        []string
	ProcessedAt time.Time
}

func (r *Receipt) Succeeded() bool {
	return r.Status == models.TxStatusOK
}

// Response returns the wire form of r
func (r *Receipt) Response() models.ReceiptResponse {
	logs := r.Logs
	if logs == nil {
		logs = []string{}
	}
	return models.ReceiptResponse{
		ID:          r.ID.String(),
		Status:      r.Status,
		Code:        r.Code,
		Error:       r.Error,
		Logs:        logs,
		ProcessedAt: r.ProcessedAt,
	}
}
