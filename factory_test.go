package jsonadm

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/RassulYunussov/jsonadm/common"
	"github.com/RassulYunussov/jsonadm/config"
	"github.com/RassulYunussov/jsonadm/internal/clienttest"
	"github.com/RassulYunussov/jsonadm/internal/decorator"
	"gotest.tools/v3/assert"
)

// records its name into the shared trace when a verb passes through
type tracingClient struct {
	*decorator.Decorator
	name  string
	trace *[]string
}

func (c *tracingClient) Get(r *http.Request, w *common.Response) (*common.Response, error) {
	*c.trace = append(*c.trace, c.name)
	return c.Decorator.Get(r, w)
}

func tracing(name string, trace *[]string) Factory {
	return func(client Client, context *common.Context, view common.View, templatePaths []string, path string) (Client, error) {
		return &tracingClient{Decorator: decorator.New(client, context, view, templatePaths, path), name: name, trace: trace}, nil
	}
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Decorators = []string{"TraceA", "TraceB", "TraceC"}
	cfg.Resources = map[string]config.ResourceConfig{
		"product/property": {
			Excludes: []string{"TraceB"},
			Global:   []string{"TraceD"},
			Local:    []string{"TraceLocal"},
		},
	}
	return &cfg
}

func TestDecoratorNames(t *testing.T) {
	cfg := testConfig()
	assert.DeepEqual(t, []string{"TraceA", "TraceC", "TraceD", "TraceLocal"}, DecoratorNames(cfg, "product/property"))
	assert.DeepEqual(t, []string{"TraceA", "TraceB", "TraceC"}, DecoratorNames(cfg, "order"))

	empty := config.Default()
	assert.DeepEqual(t, []string{}, DecoratorNames(&empty, "order"))
}

func TestCreateFromConfigOrder(t *testing.T) {
	var trace []string
	for _, name := range []string{"TraceA", "TraceB", "TraceC", "TraceD"} {
		assert.NilError(t, Register(name, tracing(name, &trace)))
	}
	assert.NilError(t, RegisterLocal("product/property", "TraceLocal", tracing("TraceLocal", &trace)))

	ctx := common.NewContext(testConfig())
	inner := clienttest.New()
	client, err := CreateFromConfig(inner, ctx, nil, nil, "product/property")
	assert.NilError(t, err)

	_, err = client.Get(httptest.NewRequest(http.MethodGet, "/", nil), common.NewResponse())
	assert.NilError(t, err)
	// outermost decorator sees the call first
	assert.DeepEqual(t, []string{"TraceLocal", "TraceD", "TraceC", "TraceA"}, trace)
	assert.Equal(t, 1, inner.Count(http.MethodGet))
}

func TestCreateFromConfigLocalIsPathScoped(t *testing.T) {
	var trace []string
	assert.NilError(t, RegisterLocal("product/property", "Scoped", tracing("Scoped", &trace)))

	cfg := config.Default()
	cfg.Resources = map[string]config.ResourceConfig{"order": {Local: []string{"Scoped"}}}
	_, err := CreateFromConfig(clienttest.New(), common.NewContext(&cfg), nil, nil, "order")
	assert.ErrorIs(t, err, ErrInvalidDecorator)
	assert.ErrorContains(t, err, `"Scoped" is not registered for "order"`)
}

func TestCreateFromConfigUnknownDecorator(t *testing.T) {
	cfg := config.Default()
	cfg.Decorators = []string{"Missing"}
	_, err := CreateFromConfig(clienttest.New(), common.NewContext(&cfg), nil, nil, "order")
	assert.ErrorIs(t, err, ErrInvalidDecorator)
	assert.ErrorContains(t, err, `"Missing" is not registered`)
}

func TestCreateFromConfigInvalidName(t *testing.T) {
	cfg := config.Default()
	cfg.Decorators = []string{"../Logging"}
	_, err := CreateFromConfig(clienttest.New(), common.NewContext(&cfg), nil, nil, "order")
	assert.ErrorIs(t, err, ErrInvalidDecorator)
}

func TestRegisterInvalidName(t *testing.T) {
	assert.ErrorIs(t, Register("", nil), ErrInvalidDecorator)
	assert.ErrorIs(t, Register("with space", nil), ErrInvalidDecorator)
	assert.ErrorIs(t, RegisterLocal("order", "a-b", nil), ErrInvalidDecorator)
}

func TestCreateFromConfigBuiltins(t *testing.T) {
	cfg := config.Default()
	cfg.Decorators = []string{"Retry", "CircuitBreaker", "Cache", "Validation", "Metrics", "Logging"}
	inner := clienttest.New()
	inner.Register("customMethod", func(...any) (any, error) { return "V", nil })

	client, err := CreateFromConfig(inner, common.NewContext(&cfg), nil, []string{"/tmpl"}, "factory/builtins")
	assert.NilError(t, err)

	resp, err := client.Get(httptest.NewRequest(http.MethodGet, "/", nil), common.NewResponse())
	assert.NilError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, inner.Count(http.MethodGet))

	res, err := Call(client, "customMethod")
	assert.NilError(t, err)
	assert.Equal(t, "V", res)
}

func TestCreateFromConfigNoDecorators(t *testing.T) {
	inner := clienttest.New()
	client, err := CreateFromConfig(inner, nil, nil, nil, "order")
	assert.NilError(t, err)
	assert.Assert(t, client == Client(inner))
}
