package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/RassulYunussov/jsonadm/common"
	"github.com/RassulYunussov/jsonadm/internal/decorator"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var requestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "jsonadm_requests_total",
		Help: "Number of JSON admin requests by resource path, verb and response status.",
	},
	[]string{"path", "verb", "status"},
)

var requestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "jsonadm_request_duration_seconds",
		Help:    "Duration of JSON admin requests by resource path and verb.",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"path", "verb"},
)

// RequestsTotal exposes the request counter for tests and dashboards.
func RequestsTotal() *prometheus.CounterVec {
	return requestsTotal
}

// RequestDuration exposes the latency histogram for tests and dashboards.
func RequestDuration() *prometheus.HistogramVec {
	return requestDuration
}

type metricsClient struct {
	*decorator.Decorator
}

func CreateMetricsClient(client common.Client, context *common.Context, view common.View, templatePaths []string, path string) common.Client {
	return &metricsClient{Decorator: decorator.New(client, context, view, templatePaths, path)}
}

func (c *metricsClient) Delete(r *http.Request, w *common.Response) (*common.Response, error) {
	return c.observe(http.MethodDelete, c.Decorator.Delete, r, w)
}

func (c *metricsClient) Get(r *http.Request, w *common.Response) (*common.Response, error) {
	return c.observe(http.MethodGet, c.Decorator.Get, r, w)
}

func (c *metricsClient) Patch(r *http.Request, w *common.Response) (*common.Response, error) {
	return c.observe(http.MethodPatch, c.Decorator.Patch, r, w)
}

func (c *metricsClient) Post(r *http.Request, w *common.Response) (*common.Response, error) {
	return c.observe(http.MethodPost, c.Decorator.Post, r, w)
}

func (c *metricsClient) Put(r *http.Request, w *common.Response) (*common.Response, error) {
	return c.observe(http.MethodPut, c.Decorator.Put, r, w)
}

func (c *metricsClient) Options(r *http.Request, w *common.Response) (*common.Response, error) {
	return c.observe(http.MethodOptions, c.Decorator.Options, r, w)
}

func (c *metricsClient) observe(verb string, next func(*http.Request, *common.Response) (*common.Response, error), r *http.Request, w *common.Response) (*common.Response, error) {
	start := time.Now()
	resp, err := next(r, w)
	requestDuration.WithLabelValues(c.Path(), verb).Observe(time.Since(start).Seconds())

	status := "error"
	if err == nil && resp != nil {
		status = strconv.Itoa(resp.StatusCode)
	}
	requestsTotal.WithLabelValues(c.Path(), verb, status).Inc()
	return resp, err
}
