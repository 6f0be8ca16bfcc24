package questionbank

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates the question bank answered 404.
var ErrNotFound = errors.New("not found")

// ServiceError indicates the question bank was reachable but the call
// failed: an HTTP error status, a timeout, or a malformed body.
type ServiceError struct {
	Op     string
	Status int // 0 when no HTTP response was received
	Err    error
}

func (e *ServiceError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("question bank %s: status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("question bank %s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }
