package ai

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthRejected means the upstream rejected the bearer credential.
	// Kept separate from RejectedError so operators can alert on it.
	ErrAuthRejected = errors.New("ai: credential rejected by upstream")

	// ErrMalformedResponse means a 2xx body did not carry the expected
	// content field. Nothing is persisted for such a response.
	ErrMalformedResponse = errors.New("ai: malformed upstream response")
)

// RejectedError is a non-auth 4xx/5xx from the provider.
type RejectedError struct {
	StatusCode int
	Body       string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("ai: upstream rejected request: status %d: %s", e.StatusCode, e.Body)
}

// TransportError is a failure to complete the HTTP exchange at all:
// connection refused, DNS, timeout, cancelled context.
type TransportError struct {
	Cause error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("ai: transport failure: %v", e.Cause)
}

func (e *TransportError) Unwrap() error { return e.Cause }
