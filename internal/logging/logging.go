package logging

import (
	"net/http"
	"time"

	"github.com/RassulYunussov/jsonadm/common"
	"github.com/RassulYunussov/jsonadm/internal/decorator"
	"github.com/rs/zerolog"
)

// Logs every verb and named operation passing through to the wrapped client
type loggingClient struct {
	*decorator.Decorator
	logger zerolog.Logger
}

func CreateLoggingClient(client common.Client, context *common.Context, view common.View, templatePaths []string, path string) common.Client {
	d := decorator.New(client, context, view, templatePaths, path)
	return &loggingClient{
		Decorator: d,
		logger:    context.Logger.With().Str("path", path).Logger(),
	}
}

func (c *loggingClient) Delete(r *http.Request, w *common.Response) (*common.Response, error) {
	return c.log(http.MethodDelete, c.Decorator.Delete, r, w)
}

func (c *loggingClient) Get(r *http.Request, w *common.Response) (*common.Response, error) {
	return c.log(http.MethodGet, c.Decorator.Get, r, w)
}

func (c *loggingClient) Patch(r *http.Request, w *common.Response) (*common.Response, error) {
	return c.log(http.MethodPatch, c.Decorator.Patch, r, w)
}

func (c *loggingClient) Post(r *http.Request, w *common.Response) (*common.Response, error) {
	return c.log(http.MethodPost, c.Decorator.Post, r, w)
}

func (c *loggingClient) Put(r *http.Request, w *common.Response) (*common.Response, error) {
	return c.log(http.MethodPut, c.Decorator.Put, r, w)
}

func (c *loggingClient) Options(r *http.Request, w *common.Response) (*common.Response, error) {
	return c.log(http.MethodOptions, c.Decorator.Options, r, w)
}

func (c *loggingClient) Operation(name string) (common.OperationFunc, bool) {
	f, ok := c.Decorator.Operation(name)
	if !ok {
		c.logger.Warn().Str("operation", name).Msg("operation not supported")
		return nil, false
	}
	return func(args ...any) (any, error) {
		start := time.Now()
		res, err := f(args...)
		if err != nil {
			c.logger.Error().Err(err).Str("operation", name).Dur("duration", time.Since(start)).Msg("operation failed")
			return res, err
		}
		c.logger.Debug().Str("operation", name).Dur("duration", time.Since(start)).Msg("operation")
		return res, nil
	}, true
}

func (c *loggingClient) Call(name string, args ...any) (any, error) {
	return decorator.Call(c, name, args...)
}

func (c *loggingClient) log(verb string, next func(*http.Request, *common.Response) (*common.Response, error), r *http.Request, w *common.Response) (*common.Response, error) {
	start := time.Now()
	resp, err := next(r, w)
	if err != nil {
		c.logger.Error().Err(err).
			Str("verb", verb).
			Str("url", r.URL.String()).
			Dur("duration", time.Since(start)).
			Msg("request failed")
		return resp, err
	}
	event := c.logger.Debug().
		Str("verb", verb).
		Str("url", r.URL.String()).
		Dur("duration", time.Since(start))
	if resp != nil {
		event = event.Int("status", resp.StatusCode)
	}
	event.Msg("request")
	return resp, err
}
