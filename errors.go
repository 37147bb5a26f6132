package jsonadm

import (
	"errors"

	"github.com/RassulYunussov/jsonadm/common"
	"github.com/RassulYunussov/jsonadm/internal/resilient"
	"github.com/sony/gobreaker/v2"
)

var ErrInvalidDecorator = errors.New("invalid decorator")

// Reports whether a named operation was not found on the wrapped client
func IsUnsupportedOperation(err error) bool {
	return errors.Is(err, common.ErrUnsupportedOperation)
}

// Reports whether the retry decorator gave up
func IsRetriesExhausted(err error) bool {
	return errors.Is(err, resilient.ErrRetriesExhausted)
}

// Reports whether a circuit breaker rejected the call
func IsCircuitOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
