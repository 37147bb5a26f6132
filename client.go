package jsonadm

import (
	"time"

	"github.com/RassulYunussov/jsonadm/common"
	"github.com/RassulYunussov/jsonadm/internal/cache"
	"github.com/RassulYunussov/jsonadm/internal/cb"
	"github.com/RassulYunussov/jsonadm/internal/decorator"
	"github.com/RassulYunussov/jsonadm/internal/logging"
	"github.com/RassulYunussov/jsonadm/internal/metrics"
	"github.com/RassulYunussov/jsonadm/internal/remote"
	"github.com/RassulYunussov/jsonadm/internal/resilient"
	"github.com/RassulYunussov/jsonadm/internal/validation"
)

// Circuit breakers of every stack built by Create and CreateFromConfig, so
// breaker state survives the per-request decorator stacks
var breakers = cb.NewRegistry()

// JSON admin client for a single resource path.
// Every verb takes the inbound request and the response to fill, and returns
// the (possibly replaced) response.
type Client = common.Client

// Wrap client with the decorators selected by opts.
// Decorators are stacked in a fixed order, inner to outer:
// retry, circuit breaker, cache, validation, metrics, logging.
// Without options the client is wrapped in a plain pass-through decorator.
func Create(client Client, context *common.Context, view common.View, templatePaths []string, path string, opts ...func(*clientCreationParameters) *clientCreationParameters) Client {
	clientCreationParameters := new(clientCreationParameters)
	for _, o := range opts {
		clientCreationParameters = o(clientCreationParameters)
	}
	if context == nil {
		context = common.NewContext(nil)
	}
	var decorated Client = decorator.New(client, context, view, templatePaths, path)
	if p := clientCreationParameters.retryParameters; p != nil {
		decorated = resilient.CreateResilientClient(decorated, context, view, templatePaths, path, &resilient.RetryParameters{
			MaxRetry:       p.maxRetry,
			BackoffTimeout: p.backoffTimeout,
		})
	}
	if p := clientCreationParameters.circuitBreakerParameters; p != nil {
		decorated = cb.CreateCircuitBreakerClient(decorated, context, view, templatePaths, path, &cb.CircuitBreakerParameters{
			MaxRequests:         p.maxRequests,
			ConsecutiveFailures: p.consecutiveFailures,
			Interval:            p.interval,
			Timeout:             p.timeout,
		}, breakers)
	}
	if p := clientCreationParameters.cacheParameters; p != nil {
		decorated = cache.CreateCachingClient(decorated, context, view, templatePaths, path, p.ttl)
	}
	if clientCreationParameters.validation {
		decorated = validation.CreateValidatingClient(decorated, context, view, templatePaths, path)
	}
	if clientCreationParameters.metrics {
		decorated = metrics.CreateMetricsClient(decorated, context, view, templatePaths, path)
	}
	if clientCreationParameters.logging {
		decorated = logging.CreateLoggingClient(decorated, context, view, templatePaths, path)
	}
	return decorated
}

// Client proxying the resource path to an upstream JSON admin endpoint at baseURL
func CreateRemote(baseURL string, timeout time.Duration, context *common.Context, view common.View, templatePaths []string, path string) Client {
	if context == nil {
		context = common.NewContext(nil)
	}
	return remote.CreateRemoteClient(baseURL, timeout, context, view, templatePaths, path)
}

// Invoke a named operation of client, failing with *common.DelegationError
// when it is missing or returns an error
func Call(client Client, name string, args ...any) (any, error) {
	return decorator.Call(client, name, args...)
}

// Reject write requests that are not JSON:API documents
func WithValidation() func(h *clientCreationParameters) *clientCreationParameters {
	return func(h *clientCreationParameters) *clientCreationParameters {
		h.validation = true
		return h
	}
}

// Log every verb and named operation with the context logger
func WithLogging() func(h *clientCreationParameters) *clientCreationParameters {
	return func(h *clientCreationParameters) *clientCreationParameters {
		h.logging = true
		return h
	}
}

// Record prometheus request counters and latencies
func WithMetrics() func(h *clientCreationParameters) *clientCreationParameters {
	return func(h *clientCreationParameters) *clientCreationParameters {
		h.metrics = true
		return h
	}
}

// Cache GET responses in the context cache for ttl
func WithCache(ttl time.Duration) func(h *clientCreationParameters) *clientCreationParameters {
	return func(h *clientCreationParameters) *clientCreationParameters {
		h.cacheParameters = &cacheParameters{ttl: ttl}
		return h
	}
}

// Apply retry policy to idempotent verbs
func WithRetry(maxRetry uint8,
	backoffTimeout time.Duration) func(h *clientCreationParameters) *clientCreationParameters {
	return func(h *clientCreationParameters) *clientCreationParameters {
		h.retryParameters = &retryParameters{maxRetry: maxRetry, backoffTimeout: backoffTimeout}
		return h
	}
}

// Apply circuit breaker policy, one breaker per verb.
// Breakers are shared by every client of the same path and settings.
// https://github.com/sony/gobreaker
func WithCircuitBreaker(maxRequests uint32,
	consecutiveFailures uint32,
	interval time.Duration,
	timeout time.Duration) func(h *clientCreationParameters) *clientCreationParameters {
	return func(h *clientCreationParameters) *clientCreationParameters {
		h.circuitBreakerParameters = &circuitBreakerParameters{
			maxRequests:         maxRequests,
			consecutiveFailures: consecutiveFailures,
			interval:            interval,
			timeout:             timeout,
		}
		return h
	}
}
