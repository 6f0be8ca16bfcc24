package cache

import "fmt"

// Source identifies which tier produced a value.
type Source int

const (
	SourceNone Source = iota
	SourceMemory
	SourceDurable
	SourceNetwork
)

func (s Source) String() string {
	switch s {
	case SourceMemory:
		return "memory"
	case SourceDurable:
		return "durable"
	case SourceNetwork:
		return "network"
	default:
		return "none"
	}
}

// Status is the outcome of a single stage.
type Status int

const (
	StatusMiss Status = iota
	StatusHit
	StatusFailed
)

// Result is what a stage hands back to the pipeline.
type Result[T any] struct {
	Value  T
	Status Status
	Source Source

	// Stale is set on durable hits older than the tier's TTL.
	Stale bool

	// Err is set when Status is StatusFailed.
	Err error
}

func miss[T any]() Result[T] {
	return Result[T]{Status: StatusMiss}
}

func failed[T any](err error) Result[T] {
	return Result[T]{Status: StatusFailed, Err: err}
}

// FallbackError is returned when the network failed and no durable copy
// exists. It unwraps to the network error.
type FallbackError struct {
	Key string
	Err error
}

func (e *FallbackError) Error() string {
	return fmt.Sprintf("fetch %q failed and no cached copy exists: %v", e.Key, e.Err)
}

func (e *FallbackError) Unwrap() error { return e.Err }
