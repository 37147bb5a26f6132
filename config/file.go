package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	LogLevel       string                        `toml:"log_level"`
	Decorators     []string                      `toml:"decorators"`
	Resources      map[string]FileResourceConfig `toml:"resources"`
	Retry          FileRetryConfig               `toml:"retry"`
	CircuitBreaker FileCircuitBreakerConfig      `toml:"circuit_breaker"`
	Cache          FileCacheConfig               `toml:"cache"`
	Remote         FileRemoteConfig              `toml:"remote"`
}

type FileResourceConfig struct {
	Excludes []string `toml:"excludes"`
	Global   []string `toml:"global"`
	Local    []string `toml:"local"`
}

type FileRetryConfig struct {
	MaxRetry *uint8 `toml:"max_retry"`
	Backoff  string `toml:"backoff"`
}

type FileCircuitBreakerConfig struct {
	MaxRequests         uint32 `toml:"max_requests"`
	ConsecutiveFailures uint32 `toml:"consecutive_failures"`
	Interval            string `toml:"interval"`
	Timeout             string `toml:"timeout"`
}

type FileCacheConfig struct {
	RedisAddr string `toml:"redis_addr"`
	TTL       string `toml:"ttl"`
	Prefix    string `toml:"prefix"`
}

type FileRemoteConfig struct {
	BaseURL string `toml:"base_url"`
	Timeout string `toml:"timeout"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.jsonadm/config.toml if the user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".jsonadm", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies the values present in fc on top of cfg.
func ApplyFileConfig(cfg *Config, fc FileConfig) error {
	if fc.LogLevel != "" {
		cfg.LogLevel = fc.LogLevel
	}
	if fc.Decorators != nil {
		cfg.Decorators = fc.Decorators
	}
	if len(fc.Resources) > 0 && cfg.Resources == nil {
		cfg.Resources = make(map[string]ResourceConfig, len(fc.Resources))
	}
	for path, rc := range fc.Resources {
		cfg.Resources[path] = ResourceConfig{
			Excludes: rc.Excludes,
			Global:   rc.Global,
			Local:    rc.Local,
		}
	}

	if fc.Retry.MaxRetry != nil {
		cfg.Retry.MaxRetry = *fc.Retry.MaxRetry
	}
	if err := setDuration("retry.backoff", fc.Retry.Backoff, &cfg.Retry.Backoff); err != nil {
		return err
	}

	if fc.CircuitBreaker.MaxRequests > 0 {
		cfg.CircuitBreaker.MaxRequests = fc.CircuitBreaker.MaxRequests
	}
	if fc.CircuitBreaker.ConsecutiveFailures > 0 {
		cfg.CircuitBreaker.ConsecutiveFailures = fc.CircuitBreaker.ConsecutiveFailures
	}
	if err := setDuration("circuit_breaker.interval", fc.CircuitBreaker.Interval, &cfg.CircuitBreaker.Interval); err != nil {
		return err
	}
	if err := setDuration("circuit_breaker.timeout", fc.CircuitBreaker.Timeout, &cfg.CircuitBreaker.Timeout); err != nil {
		return err
	}

	if fc.Cache.RedisAddr != "" {
		cfg.Cache.RedisAddr = fc.Cache.RedisAddr
	}
	if fc.Cache.Prefix != "" {
		cfg.Cache.Prefix = fc.Cache.Prefix
	}
	if err := setDuration("cache.ttl", fc.Cache.TTL, &cfg.Cache.TTL); err != nil {
		return err
	}

	if fc.Remote.BaseURL != "" {
		cfg.Remote.BaseURL = fc.Remote.BaseURL
	}
	return setDuration("remote.timeout", fc.Remote.Timeout, &cfg.Remote.Timeout)
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

func setDuration(key, value string, dst *time.Duration) error {
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", key, err)
	}
	*dst = d
	return nil
}
