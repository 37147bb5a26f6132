package common

import (
	"context"
	"time"

	"github.com/RassulYunussov/jsonadm/config"
	"github.com/rs/zerolog"
)

// Shared configuration and environment passed through the construction chain
type Context struct {
	Config *config.Config
	Logger zerolog.Logger
	Cache  Cache
}

// Tagged key/value cache used by the cache decorator
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration, tags ...string) error
	DeleteByTags(ctx context.Context, tags ...string) error
}

// NewContext returns a context with a disabled logger and no cache
func NewContext(cfg *config.Config) *Context {
	if cfg == nil {
		d := config.Default()
		cfg = &d
	}
	return &Context{Config: cfg, Logger: zerolog.Nop()}
}
