package cache

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/RassulYunussov/jsonadm/common"
	"github.com/RassulYunussov/jsonadm/internal/decorator"
	"github.com/rs/zerolog"
)

// Header added to responses served from the cache
const HeaderCache = "X-Cache"

type entry struct {
	StatusCode int         `json:"status"`
	Header     http.Header `json:"header"`
	Body       []byte      `json:"body"`
}

// Caches successful GET responses and drops them on successful writes to the same resource path
type cachingClient struct {
	*decorator.Decorator
	cache  common.Cache
	ttl    time.Duration
	prefix string
	logger zerolog.Logger
}

func CreateCachingClient(client common.Client, context *common.Context, view common.View, templatePaths []string, path string, ttl time.Duration) common.Client {
	prefix := "jsonadm"
	if context.Config != nil && context.Config.Cache.Prefix != "" {
		prefix = context.Config.Cache.Prefix
	}
	return &cachingClient{
		Decorator: decorator.New(client, context, view, templatePaths, path),
		cache:     context.Cache,
		ttl:       ttl,
		prefix:    prefix,
		logger:    context.Logger,
	}
}

func (c *cachingClient) Get(r *http.Request, w *common.Response) (*common.Response, error) {
	if c.cache == nil {
		return c.Decorator.Get(r, w)
	}
	key := c.key(r)
	if b, ok, err := c.cache.Get(r.Context(), key); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
	} else if ok {
		var e entry
		if err := json.Unmarshal(b, &e); err == nil {
			w.StatusCode = e.StatusCode
			w.Header = e.Header
			if w.Header == nil {
				w.Header = make(http.Header)
			}
			w.Header.Set(HeaderCache, "HIT")
			w.Body = e.Body
			return w, nil
		}
		c.logger.Warn().Str("key", key).Msg("cache entry corrupt")
	}

	resp, err := c.Decorator.Get(r, w)
	if err != nil || resp == nil || resp.StatusCode != http.StatusOK {
		return resp, err
	}
	b, merr := json.Marshal(entry{StatusCode: resp.StatusCode, Header: resp.Header, Body: resp.Body})
	if merr == nil {
		merr = c.cache.Set(r.Context(), key, b, c.ttl, c.tag())
	}
	if merr != nil {
		c.logger.Warn().Err(merr).Str("key", key).Msg("cache write failed")
	}
	return resp, nil
}

func (c *cachingClient) Delete(r *http.Request, w *common.Response) (*common.Response, error) {
	return c.invalidate(c.Decorator.Delete, r, w)
}

func (c *cachingClient) Patch(r *http.Request, w *common.Response) (*common.Response, error) {
	return c.invalidate(c.Decorator.Patch, r, w)
}

func (c *cachingClient) Post(r *http.Request, w *common.Response) (*common.Response, error) {
	return c.invalidate(c.Decorator.Post, r, w)
}

func (c *cachingClient) Put(r *http.Request, w *common.Response) (*common.Response, error) {
	return c.invalidate(c.Decorator.Put, r, w)
}

func (c *cachingClient) invalidate(next func(*http.Request, *common.Response) (*common.Response, error), r *http.Request, w *common.Response) (*common.Response, error) {
	resp, err := next(r, w)
	if err != nil || c.cache == nil || resp == nil || resp.StatusCode >= http.StatusBadRequest {
		return resp, err
	}
	if derr := c.cache.DeleteByTags(r.Context(), c.tag()); derr != nil {
		c.logger.Warn().Err(derr).Str("tag", c.tag()).Msg("cache invalidation failed")
	}
	return resp, nil
}

func (c *cachingClient) tag() string {
	return fmt.Sprintf("%s:%s", c.prefix, c.Path())
}

func (c *cachingClient) key(r *http.Request) string {
	return fmt.Sprintf("%s:%s:%s", c.prefix, c.Path(), r.URL.RequestURI())
}
