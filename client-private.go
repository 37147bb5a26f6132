package jsonadm

import "time"

type clientCreationParameters struct {
	validation               bool
	logging                  bool
	metrics                  bool
	cacheParameters          *cacheParameters
	retryParameters          *retryParameters
	circuitBreakerParameters *circuitBreakerParameters
}

type cacheParameters struct {
	ttl time.Duration
}

type retryParameters struct {
	maxRetry       uint8
	backoffTimeout time.Duration
}

type circuitBreakerParameters struct {
	maxRequests         uint32
	consecutiveFailures uint32
	interval            time.Duration
	timeout             time.Duration
}
