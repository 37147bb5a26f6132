package remote

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/RassulYunussov/jsonadm/common"
	"github.com/RassulYunussov/jsonadm/internal/base"
)

var forwardedHeaders = []string{"Accept", "Authorization", "Content-Type"}

// Proxies the verbs of a resource to an upstream JSON admin endpoint
type remoteClient struct {
	*base.Base
	client *http.Client
	url    string
}

func CreateRemoteClient(baseURL string, timeout time.Duration, context *common.Context, view common.View, templatePaths []string, path string) common.Client {
	c := &remoteClient{
		Base:   base.New(context, view, templatePaths, path),
		client: &http.Client{Timeout: timeout},
		url:    strings.TrimRight(baseURL, "/") + "/" + strings.Trim(path, "/"),
	}
	c.Register("url", func(...any) (any, error) {
		return c.url, nil
	})
	return c
}

func (c *remoteClient) Delete(r *http.Request, w *common.Response) (*common.Response, error) {
	return c.do(http.MethodDelete, r, w)
}

func (c *remoteClient) Get(r *http.Request, w *common.Response) (*common.Response, error) {
	return c.do(http.MethodGet, r, w)
}

func (c *remoteClient) Patch(r *http.Request, w *common.Response) (*common.Response, error) {
	return c.do(http.MethodPatch, r, w)
}

func (c *remoteClient) Post(r *http.Request, w *common.Response) (*common.Response, error) {
	return c.do(http.MethodPost, r, w)
}

func (c *remoteClient) Put(r *http.Request, w *common.Response) (*common.Response, error) {
	return c.do(http.MethodPut, r, w)
}

func (c *remoteClient) Options(r *http.Request, w *common.Response) (*common.Response, error) {
	return c.do(http.MethodOptions, r, w)
}

func (c *remoteClient) do(verb string, r *http.Request, w *common.Response) (*common.Response, error) {
	var body io.Reader
	if r.Body != nil && r.Body != http.NoBody {
		b, err := io.ReadAll(r.Body)
		r.Body.Close()
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(b)
	}
	target := c.url
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	out, err := http.NewRequestWithContext(r.Context(), verb, target, body)
	if err != nil {
		return nil, err
	}
	for _, h := range forwardedHeaders {
		if v := r.Header.Get(h); v != "" {
			out.Header.Set(h, v)
		}
	}

	resp, err := c.client.Do(out)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if w.Header == nil {
		w.Header = make(http.Header)
	}
	for k, v := range resp.Header {
		w.Header[k] = v
	}
	w.StatusCode = resp.StatusCode
	w.Body = b
	return w, nil
}
