package cb

import (
	"time"

	local_errors "github.com/RassulYunussov/jsonadm/internal/errors"
)

type CircuitBreakerParameters struct {
	MaxRequests         uint32
	ConsecutiveFailures uint32
	Interval            time.Duration
	Timeout             time.Duration
}

// carries a http-5xx response through the breaker so it counts as a failure
type circuitBreakerErrorWrapper[V any] struct {
	wrapped V
}

func (e *circuitBreakerErrorWrapper[V]) Error() string {
	return local_errors.ErrHttp5xxStatus.Error()
}

func (e *circuitBreakerErrorWrapper[V]) Unwrap() error {
	return local_errors.ErrHttp5xxStatus
}
