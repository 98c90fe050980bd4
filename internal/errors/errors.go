package errors

import (
	"errors"
)

// Failure taxonomy for the dual-write pipeline. Callers match with
// errors.Is; lower layers wrap these with %w and attach the cause.
var (
	// Blob store
	ErrNotFound           = errors.New("blob not found")
	ErrStorageUnavailable = errors.New("blob store unavailable")

	// Ledger writes. ErrWriteRejected means the signer declined or the
	// contract reverted; ErrWriteUnavailable is a transport failure.
	ErrWriteRejected    = errors.New("ledger write rejected")
	ErrWriteUnavailable = errors.New("ledger write unavailable")

	// Ledger reads. An empty result set is success, never this error.
	ErrReadUnavailable = errors.New("ledger read unavailable")

	// Orchestrator-level outcomes of send. ErrIndexWriteFailed implies the
	// blob write already succeeded: the message is stored but invisible
	// until the caller retries indexing with the retained blob id.
	ErrContentWriteFailed = errors.New("content write failed")
	ErrIndexWriteFailed   = errors.New("index write failed")
)

// default error is internal service error at handler level
// if error has different status code use ErrorWithStatusCode
type ErrorWithStatusCode struct {
	Message    string
	StatusCode int
}

func (e *ErrorWithStatusCode) Error() string {
	return e.Message
}
