package config

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// DefaultLogLevel is used when no level is configured.
const DefaultLogLevel = "info"

// Config holds the settings shared by the JSON admin clients and their decorators.
type Config struct {
	LogLevel string `env:"LOG_LEVEL"`

	// Decorators wrapped around every client, innermost first.
	Decorators []string `env:"DECORATORS" envSeparator:","`

	// Resources holds per resource path decorator settings, e.g. "product/property".
	Resources map[string]ResourceConfig

	Retry          RetryConfig          `envPrefix:"RETRY_"`
	CircuitBreaker CircuitBreakerConfig `envPrefix:"CIRCUIT_BREAKER_"`
	Cache          CacheConfig          `envPrefix:"CACHE_"`
	Remote         RemoteConfig         `envPrefix:"REMOTE_"`
}

// ResourceConfig tunes the decorator stack of a single resource path.
type ResourceConfig struct {
	// Excludes removes names from the default decorator list.
	Excludes []string
	// Global adds shared decorators after the defaults.
	Global []string
	// Local adds decorators registered for this path only.
	Local []string
}

type RetryConfig struct {
	MaxRetry uint8         `env:"MAX_RETRY"`
	Backoff  time.Duration `env:"BACKOFF"`
}

type CircuitBreakerConfig struct {
	MaxRequests         uint32        `env:"MAX_REQUESTS"`
	ConsecutiveFailures uint32        `env:"CONSECUTIVE_FAILURES"`
	Interval            time.Duration `env:"INTERVAL"`
	Timeout             time.Duration `env:"TIMEOUT"`
}

type CacheConfig struct {
	RedisAddr string        `env:"REDIS_ADDR"`
	TTL       time.Duration `env:"TTL"`
	Prefix    string        `env:"PREFIX"`
}

type RemoteConfig struct {
	BaseURL string        `env:"BASE_URL"`
	Timeout time.Duration `env:"TIMEOUT"`
}

// Default returns a Config with default values.
func Default() Config {
	return Config{
		LogLevel:  DefaultLogLevel,
		Resources: map[string]ResourceConfig{},
		Retry: RetryConfig{
			MaxRetry: 2,
			Backoff:  100 * time.Millisecond,
		},
		CircuitBreaker: CircuitBreakerConfig{
			MaxRequests:         1,
			ConsecutiveFailures: 5,
			Timeout:             time.Minute,
		},
		Cache: CacheConfig{
			TTL:    5 * time.Minute,
			Prefix: "jsonadm",
		},
		Remote: RemoteConfig{
			Timeout: 15 * time.Second,
		},
	}
}

// Resource returns the settings of the given resource path, empty if not configured.
func (c *Config) Resource(path string) ResourceConfig {
	return c.Resources[path]
}

// Validate checks the configuration for errors and sets derived defaults.
func (c *Config) Validate() error {
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	if c.Retry.Backoff < 0 {
		return fmt.Errorf("retry backoff must not be negative")
	}
	if c.CircuitBreaker.ConsecutiveFailures == 0 {
		return fmt.Errorf("circuit breaker consecutive failures must be positive")
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache ttl must not be negative")
	}
	if c.Cache.Prefix == "" {
		c.Cache.Prefix = "jsonadm"
	}
	if c.Remote.Timeout <= 0 {
		return fmt.Errorf("remote timeout must be positive")
	}
	// Ensure no trailing slash
	for len(c.Remote.BaseURL) > 0 && c.Remote.BaseURL[len(c.Remote.BaseURL)-1] == '/' {
		c.Remote.BaseURL = c.Remote.BaseURL[:len(c.Remote.BaseURL)-1]
	}
	if c.Resources == nil {
		c.Resources = map[string]ResourceConfig{}
	}
	return nil
}
