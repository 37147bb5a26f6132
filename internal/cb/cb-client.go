package cb

import (
	"errors"
	"net/http"
	"sync"

	"github.com/RassulYunussov/jsonadm/common"
	"github.com/RassulYunussov/jsonadm/internal/decorator"
)

type call struct {
	r *http.Request
	w *common.Response
	f func(*http.Request, *common.Response) (*common.Response, error)
}

// Guards every verb of a resource with its own circuit breaker
type circuitBreakerBackedClient struct {
	*decorator.Decorator
	parameters      CircuitBreakerParameters
	circuitBreakers *Registry
}

// Holds circuit breakers by resource and settings so their state outlives a
// single client. Clients with different settings for the same resource get
// separate breakers.
type Registry struct {
	circuitBreakers sync.Map
}

type registryKey struct {
	resource   string
	parameters CircuitBreakerParameters
}

func NewRegistry() *Registry {
	return &Registry{}
}

// registry may be nil, the client then keeps its own breakers
func CreateCircuitBreakerClient(client common.Client, context *common.Context, view common.View, templatePaths []string, path string, circuitBreakerParameters *CircuitBreakerParameters, registry *Registry) common.Client {
	if registry == nil {
		registry = NewRegistry()
	}
	return &circuitBreakerBackedClient{
		Decorator:       decorator.New(client, context, view, templatePaths, path),
		parameters:      *circuitBreakerParameters,
		circuitBreakers: registry,
	}
}

func (c *circuitBreakerBackedClient) Delete(r *http.Request, w *common.Response) (*common.Response, error) {
	return c.doResourceRequest(http.MethodDelete, &call{r: r, w: w, f: c.Decorator.Delete})
}

func (c *circuitBreakerBackedClient) Get(r *http.Request, w *common.Response) (*common.Response, error) {
	return c.doResourceRequest(http.MethodGet, &call{r: r, w: w, f: c.Decorator.Get})
}

func (c *circuitBreakerBackedClient) Patch(r *http.Request, w *common.Response) (*common.Response, error) {
	return c.doResourceRequest(http.MethodPatch, &call{r: r, w: w, f: c.Decorator.Patch})
}

func (c *circuitBreakerBackedClient) Post(r *http.Request, w *common.Response) (*common.Response, error) {
	return c.doResourceRequest(http.MethodPost, &call{r: r, w: w, f: c.Decorator.Post})
}

func (c *circuitBreakerBackedClient) Put(r *http.Request, w *common.Response) (*common.Response, error) {
	return c.doResourceRequest(http.MethodPut, &call{r: r, w: w, f: c.Decorator.Put})
}

func (c *circuitBreakerBackedClient) Options(r *http.Request, w *common.Response) (*common.Response, error) {
	return c.doResourceRequest(http.MethodOptions, &call{r: r, w: w, f: c.Decorator.Options})
}

func (c *circuitBreakerBackedClient) doResourceRequest(verb string, req *call) (*common.Response, error) {
	cb := c.getCircuitBreaker(getResource(verb, c.Path()))
	resp, err := cb.execute(do, req)
	var e *circuitBreakerErrorWrapper[*common.Response]
	if errors.As(err, &e) {
		return e.wrapped, nil
	}
	return resp, err
}

func (c *circuitBreakerBackedClient) getCircuitBreaker(resource string) *circuitBreaker[call, common.Response] {
	key := registryKey{resource: resource, parameters: c.parameters}
	if cb, ok := c.circuitBreakers.circuitBreakers.Load(key); ok {
		return cb.(*circuitBreaker[call, common.Response])
	}
	cb, _ := c.circuitBreakers.circuitBreakers.LoadOrStore(key, newCircuitBreaker[call, common.Response](&c.parameters, resource, c.Context().Logger))
	return cb.(*circuitBreaker[call, common.Response])
}

func getResource(verb, path string) string {
	return verb + "_" + path
}

func do(req *call) (*common.Response, error) {
	resp, err := req.f(req.r, req.w)
	if err != nil {
		return nil, err
	}
	if resp == nil || resp.StatusCode < http.StatusInternalServerError {
		return resp, nil
	}
	return nil, &circuitBreakerErrorWrapper[*common.Response]{
		wrapped: resp,
	}
}
