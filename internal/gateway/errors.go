package gateway

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by resource services when an update or delete names
// an id that does not exist in the current collection. The policy is uniform
// across every resource type: missing entities fail loudly, never no-op.
var ErrNotFound = errors.New("record not found")

// AuthenticationError indicates the session is missing, expired, or could not
// be refreshed. Raising it is always paired with a forced sign-out.
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.Message)
}

// NetworkError wraps a transport-level failure where no HTTP response was
// received at all.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network failure during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ServerError covers non-2xx responses and malformed response bodies.
// StatusCode is zero when the failure was a body the client could not parse.
type ServerError struct {
	StatusCode int
	Message    string
	Body       string
}

func (e *ServerError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("server error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("server error: %s", e.Message)
}

// ValidationError is raised client-side before anything reaches the network
// layer.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}
