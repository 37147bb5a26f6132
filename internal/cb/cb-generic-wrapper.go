package cb

import (
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
)

type circuitBreaker[T any, V any] struct {
	*gobreaker.CircuitBreaker[*V]
}

func (cb *circuitBreaker[T, V]) execute(f func(request *T) (*V, error), request *T) (*V, error) {
	res, err := cb.CircuitBreaker.Execute(func() (*V, error) {
		return f(request)
	})
	if err != nil {
		return nil, err
	}
	return res, err
}

func newCircuitBreaker[T any, V any](parameters *CircuitBreakerParameters, resource string, logger zerolog.Logger) *circuitBreaker[T, V] {
	consecutiveFailures := parameters.ConsecutiveFailures
	return &circuitBreaker[T, V]{
		CircuitBreaker: gobreaker.NewCircuitBreaker[*V](gobreaker.Settings{
			Name:        resource,
			MaxRequests: parameters.MaxRequests,
			Interval:    parameters.Interval,
			Timeout:     parameters.Timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= consecutiveFailures
			},
			OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
				logger.Warn().
					Str("resource", name).
					Str("from", from.String()).
					Str("to", to.String()).
					Msg("circuit breaker state changed")
			},
		}),
	}
}
