// Package signer defines the transaction-signing capability the ledger
// client depends on. Two interchangeable backends exist in production (a
// delegated-custody smart account and a user-approved in-app wallet); the
// core only ever consumes this interface and never branches on which backend
// is active. Backend selection is the caller's concern.
package signer

import (
	"context"
)

// Call is an unsigned write intent against a contract.
type Call struct {
	// To is the contract address, hex-encoded.
	To string
	// Data is the ABI-encoded function call.
	Data []byte
}

// Submission reports a submitted — not necessarily confirmed — transaction.
type Submission struct {
	TxId string
}

type Signer interface {
	Submit(ctx context.Context, call Call) (Submission, error)
}
