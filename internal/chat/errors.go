package chat

import (
	"errors"
	"fmt"
)

// Failure taxonomy for the storage side of the pipeline. Upstream-call
// failures are classified in the ai package; this package adds the one
// outcome only the coordinator can produce: ResultLost.
var (
	// ErrNotFound means a referenced chat (or job) does not exist.
	ErrNotFound = errors.New("chat: not found")

	// ErrConstraintViolation means the storage layer rejected a write for
	// integrity reasons (foreign key, uniqueness).
	ErrConstraintViolation = errors.New("chat: constraint violation")
)

// BackendError wraps a storage failure that is neither a missing row nor a
// constraint violation (connection loss, malformed SQL, driver errors).
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("chat: backend failure in %s: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// ResultLostError means the upstream call succeeded but the generated result
// could not be persisted. The raw upstream body travels with the error so the
// caller can retry ingestion later.
type ResultLostError struct {
	ChatID  uint64
	RawBody []byte
	Cause   error
}

func (e *ResultLostError) Error() string {
	return fmt.Sprintf("chat: result lost for chat %d: %v", e.ChatID, e.Cause)
}

func (e *ResultLostError) Unwrap() error { return e.Cause }
