package common

import (
	"errors"
	"fmt"
)

var ErrUnsupportedOperation = errors.New("unsupported operation")

// Returned when a named operation forwarded to the wrapped client is missing or fails
type DelegationError struct {
	Method string
	Err    error
}

func (e *DelegationError) Error() string {
	if e.Err == nil || errors.Is(e.Err, ErrUnsupportedOperation) {
		return fmt.Sprintf("unable to call method %q", e.Method)
	}
	return fmt.Sprintf("unable to call method %q: %v", e.Method, e.Err)
}

func (e *DelegationError) Unwrap() error {
	return e.Err
}
