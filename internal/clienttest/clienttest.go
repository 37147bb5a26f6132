// Package clienttest provides a recording inner client for decorator tests.
package clienttest

import (
	"net/http"
	"sync"

	"github.com/RassulYunussov/jsonadm/common"
)

type HandlerFunc func(r *http.Request, w *common.Response) (*common.Response, error)

// Call is a single verb invocation seen by the client
type Call struct {
	Verb     string
	Request  *http.Request
	Response *common.Response
}

// Client answers every verb with its registered handler, or returns the
// given response unchanged, and records each call.
type Client struct {
	common.OperationRegistry
	mu       sync.Mutex
	handlers map[string]HandlerFunc
	calls    []Call
}

func New() *Client {
	return &Client{handlers: make(map[string]HandlerFunc)}
}

// Handle sets the handler of an HTTP method, e.g. http.MethodGet
func (c *Client) Handle(verb string, f HandlerFunc) *Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[verb] = f
	return c
}

// Status makes the verb answer with the given status code and body
func (c *Client) Status(verb string, status int, body string) *Client {
	return c.Handle(verb, func(_ *http.Request, w *common.Response) (*common.Response, error) {
		w.StatusCode = status
		w.Body = []byte(body)
		return w, nil
	})
}

// Fail makes the verb return err
func (c *Client) Fail(verb string, err error) *Client {
	return c.Handle(verb, func(*http.Request, *common.Response) (*common.Response, error) {
		return nil, err
	})
}

func (c *Client) Calls() []Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Call(nil), c.calls...)
}

// Count returns how often the verb was called
func (c *Client) Count(verb string) int {
	n := 0
	for _, call := range c.Calls() {
		if call.Verb == verb {
			n++
		}
	}
	return n
}

func (c *Client) Delete(r *http.Request, w *common.Response) (*common.Response, error) {
	return c.do(http.MethodDelete, r, w)
}

func (c *Client) Get(r *http.Request, w *common.Response) (*common.Response, error) {
	return c.do(http.MethodGet, r, w)
}

func (c *Client) Patch(r *http.Request, w *common.Response) (*common.Response, error) {
	return c.do(http.MethodPatch, r, w)
}

func (c *Client) Post(r *http.Request, w *common.Response) (*common.Response, error) {
	return c.do(http.MethodPost, r, w)
}

func (c *Client) Put(r *http.Request, w *common.Response) (*common.Response, error) {
	return c.do(http.MethodPut, r, w)
}

func (c *Client) Options(r *http.Request, w *common.Response) (*common.Response, error) {
	return c.do(http.MethodOptions, r, w)
}

func (c *Client) do(verb string, r *http.Request, w *common.Response) (*common.Response, error) {
	c.mu.Lock()
	c.calls = append(c.calls, Call{Verb: verb, Request: r, Response: w})
	h := c.handlers[verb]
	c.mu.Unlock()
	if h == nil {
		return w, nil
	}
	return h(r, w)
}
