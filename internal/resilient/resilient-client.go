package resilient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"github.com/RassulYunussov/jsonadm/common"
	"github.com/RassulYunussov/jsonadm/internal/decorator"
	local_errors "github.com/RassulYunussov/jsonadm/internal/errors"
)

type RetryParameters struct {
	MaxRetry       uint8
	BackoffTimeout time.Duration
}

type verbFunc func(*http.Request, *common.Response) (*common.Response, error)

// Retries idempotent verbs on errors and http-5xx responses
type resilientClient struct {
	*decorator.Decorator
	maxRetry uint8
	backoffs []int64
}

func CreateResilientClient(client common.Client, context *common.Context, view common.View, templatePaths []string, path string, retryParameters *RetryParameters) common.Client {
	c := resilientClient{Decorator: decorator.New(client, context, view, templatePaths, path)} // default to not retry
	if retryParameters != nil {
		c.maxRetry = retryParameters.MaxRetry
		c.backoffs = make([]int64, uint16(retryParameters.MaxRetry))
		int64BackoffTimeout := int64(retryParameters.BackoffTimeout)
		for i := int64(0); i < int64(retryParameters.MaxRetry); i++ {
			c.backoffs[i] = (i + 1) * int64BackoffTimeout
		}
	}
	return &c
}

func (c *resilientClient) Delete(r *http.Request, w *common.Response) (*common.Response, error) {
	return c.doWithRetry(c.Decorator.Delete, r, w)
}

func (c *resilientClient) Get(r *http.Request, w *common.Response) (*common.Response, error) {
	return c.doWithRetry(c.Decorator.Get, r, w)
}

func (c *resilientClient) Put(r *http.Request, w *common.Response) (*common.Response, error) {
	return c.doWithRetry(c.Decorator.Put, r, w)
}

func (c *resilientClient) Options(r *http.Request, w *common.Response) (*common.Response, error) {
	return c.doWithRetry(c.Decorator.Options, r, w)
}

func (c *resilientClient) do(f verbFunc, r *http.Request, w *common.Response) (*common.Response, error) {
	resp, err := f(r, w)
	if err != nil {
		return nil, err
	}
	if resp == nil || resp.StatusCode < http.StatusInternalServerError {
		return resp, nil
	}
	return resp, local_errors.ErrHttp5xxStatus
}

// waits before the next attempt, returns early when the request context is done
func (c *resilientClient) backoff(ctx context.Context, step uint16) error {
	if step == uint16(c.maxRetry) || c.backoffs[step] <= 0 {
		return ctx.Err()
	}
	delay := c.backoffs[step]
	if half := delay >> 1; half > 0 {
		delay += rand.Int63n(half)
	}
	timer := time.NewTimer(time.Duration(delay))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *resilientClient) doWithRetry(f verbFunc, r *http.Request, w *common.Response) (*common.Response, error) {
	if c.maxRetry == 0 {
		return f(r, w)
	}
	var body []byte
	if r.Body != nil && r.Body != http.NoBody {
		b, err := io.ReadAll(r.Body)
		r.Body.Close()
		if err != nil {
			return nil, err
		}
		body = b
	}

	ctx := r.Context()
	var err error
	for i := uint16(0); i <= uint16(c.maxRetry); i++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if body != nil {
			r.Body = io.NopCloser(bytes.NewReader(body))
		}
		var resp *common.Response
		resp, err = c.do(f, r, w.Clone())
		if err == nil {
			return resp, nil
		}
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, err
		}
		if berr := c.backoff(ctx, i); berr != nil {
			return nil, berr
		}
	}
	return nil, fmt.Errorf("%w: %w", ErrRetriesExhausted, err)
}
