package cb

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/RassulYunussov/jsonadm/common"
	"github.com/RassulYunussov/jsonadm/internal/clienttest"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func createClient(inner common.Client, maxRequests, consecutiveFailures uint32, timeout time.Duration, registry *Registry) common.Client {
	return CreateCircuitBreakerClient(inner, common.NewContext(nil), nil, nil, "product", &CircuitBreakerParameters{
		MaxRequests:         maxRequests,
		ConsecutiveFailures: consecutiveFailures,
		Interval:            time.Second,
		Timeout:             timeout,
	}, registry)
}

func get(c common.Client) (*common.Response, error) {
	return c.Get(httptest.NewRequest(http.MethodGet, "/admin/product", nil), common.NewResponse())
}

func TestOk(t *testing.T) {
	inner := clienttest.New().Status(http.MethodGet, http.StatusOK, "ok")
	resp, err := get(createClient(inner, 1, 1, time.Second, nil))
	assert.NilError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, inner.Count(http.MethodGet))
}

func TestCircuitBreaker(t *testing.T) {
	inner := clienttest.New().Status(http.MethodGet, http.StatusInternalServerError, "")
	client := createClient(inner, 1, 1, time.Second, nil)
	resp, err1 := get(client)
	assert.NilError(t, err1)
	assert.Equal(t, 500, resp.StatusCode, "expected http-500")
	for i := 0; i < 10; i++ {
		_, err := get(client)
		assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	}
	assert.Equal(t, 1, inner.Count(http.MethodGet), "expected only 1 request to reach inner client")
}

func TestErrorsCountAsFailures(t *testing.T) {
	e := errors.New("unreachable")
	inner := clienttest.New().Fail(http.MethodGet, e)
	client := createClient(inner, 1, 2, time.Second, nil)
	_, err1 := get(client)
	_, err2 := get(client)
	_, err3 := get(client)
	assert.Assert(t, err1 == e)
	assert.Assert(t, err2 == e)
	assert.ErrorIs(t, err3, gobreaker.ErrOpenState)
	assert.Equal(t, 2, inner.Count(http.MethodGet))
}

func TestBreakersArePerVerb(t *testing.T) {
	inner := clienttest.New().Status(http.MethodGet, http.StatusInternalServerError, "")
	client := createClient(inner, 1, 1, time.Second, nil)
	_, _ = get(client)
	_, err := get(client)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)

	_, err = client.Options(httptest.NewRequest(http.MethodOptions, "/admin/product", nil), common.NewResponse())
	assert.NilError(t, err)
	assert.Equal(t, 1, inner.Count(http.MethodOptions))
}

func TestRegistrySharesState(t *testing.T) {
	inner := clienttest.New().Status(http.MethodGet, http.StatusInternalServerError, "")
	registry := NewRegistry()
	_, _ = get(createClient(inner, 1, 1, time.Second, registry))
	_, err := get(createClient(inner, 1, 1, time.Second, registry))
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)

	_, err = get(createClient(inner, 1, 1, time.Second, nil))
	assert.NilError(t, err, "a client without registry starts closed")
}

func TestCircuitBreakerTransitionToClosed(t *testing.T) {
	inner := clienttest.New().Status(http.MethodGet, http.StatusInternalServerError, "")
	client := createClient(inner, 1, 2, 100*time.Millisecond, nil)
	resp1, err1 := get(client)
	resp2, err2 := get(client)
	_, err3 := get(client)
	assert.NilError(t, err1)
	assert.NilError(t, err2)
	assert.Equal(t, 500, resp1.StatusCode, "expected http-500")
	assert.Equal(t, 500, resp2.StatusCode, "expected http-500")
	assert.ErrorIs(t, err3, gobreaker.ErrOpenState)
	time.Sleep(time.Millisecond * 110)
	_, err4 := get(client)
	assert.NilError(t, err4)
	assert.Equal(t, 3, inner.Count(http.MethodGet), "expected half-open breaker to let the 4th request through")
}

func TestOperationsPassThrough(t *testing.T) {
	inner := clienttest.New()
	inner.Register("customMethod", func(...any) (any, error) { return "V", nil })
	f, ok := createClient(inner, 1, 1, time.Second, nil).Operation("customMethod")
	assert.Assert(t, ok)
	res, err := f()
	assert.NilError(t, err)
	assert.Equal(t, "V", res)
}

func TestStateChangesAreLogged(t *testing.T) {
	var buf bytes.Buffer
	ctx := common.NewContext(nil)
	ctx.Logger = zerolog.New(&buf)
	inner := clienttest.New().Status(http.MethodGet, http.StatusServiceUnavailable, "")
	client := CreateCircuitBreakerClient(inner, ctx, nil, nil, "order", &CircuitBreakerParameters{MaxRequests: 1, ConsecutiveFailures: 1, Timeout: time.Second}, nil)

	_, err := get(client)
	assert.NilError(t, err)
	assert.Assert(t, is.Contains(buf.String(), `"resource":"GET_order"`))
	assert.Assert(t, is.Contains(buf.String(), `"to":"open"`))
}

func TestRegistrySeparatesSettings(t *testing.T) {
	inner := clienttest.New().Status(http.MethodGet, http.StatusInternalServerError, "")
	registry := NewRegistry()
	_, _ = get(createClient(inner, 1, 1, time.Second, registry))
	_, err := get(createClient(inner, 1, 1, time.Second, registry))
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)

	_, err = get(createClient(inner, 1, 3, time.Second, registry))
	assert.NilError(t, err, "other settings use their own breaker")
	assert.Equal(t, 2, inner.Count(http.MethodGet))
}
