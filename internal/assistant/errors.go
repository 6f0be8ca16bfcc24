package assistant

import (
	"errors"
	"fmt"
)

var (
	// ErrOffline is returned when an answer needs the network and there is
	// none. It is distinct from a failing AI service.
	ErrOffline = errors.New("you are offline; AI assistance requires an internet connection")

	// ErrNotConfigured is returned when no AI provider is set up.
	ErrNotConfigured = errors.New("AI service is not configured")
)

// ServiceError wraps a failure reported by the AI provider.
type ServiceError struct {
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("AI service error: %v", e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }
