package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport matches every *TransportError through errors.Is.
	ErrTransport        = errors.New("cache transport error")
	ErrUnsupportedValue = errors.New("unsupported cache value type")
)

// TransportError is returned when a round-trip to the store fails.
type TransportError struct {
	Op  string
	Key string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Key, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// ConnectionError is reported asynchronously by the transport. It is logged
// and recorded in the liveness flag, never returned to a caller.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("cache connection error: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}
