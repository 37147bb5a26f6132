package validation

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/RassulYunussov/jsonadm/common"
	"github.com/RassulYunussov/jsonadm/internal/decorator"
	"github.com/xeipuuv/gojsonschema"
)

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

func loadSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(requestSchema))
	})
	return schema, schemaErr
}

// Single entry of a JSON:API error document
type ErrorObject struct {
	Status string       `json:"status"`
	Title  string       `json:"title"`
	Detail string       `json:"detail,omitempty"`
	Source *ErrorSource `json:"source,omitempty"`
}

type ErrorSource struct {
	Pointer string `json:"pointer"`
}

type errorDocument struct {
	Errors []ErrorObject `json:"errors"`
}

// Rejects write requests whose body is not a JSON:API document
type validatingClient struct {
	*decorator.Decorator
}

func CreateValidatingClient(client common.Client, context *common.Context, view common.View, templatePaths []string, path string) common.Client {
	return &validatingClient{Decorator: decorator.New(client, context, view, templatePaths, path)}
}

func (c *validatingClient) Patch(r *http.Request, w *common.Response) (*common.Response, error) {
	return c.validate(c.Decorator.Patch, r, w)
}

func (c *validatingClient) Post(r *http.Request, w *common.Response) (*common.Response, error) {
	return c.validate(c.Decorator.Post, r, w)
}

func (c *validatingClient) Put(r *http.Request, w *common.Response) (*common.Response, error) {
	return c.validate(c.Decorator.Put, r, w)
}

func (c *validatingClient) validate(next func(*http.Request, *common.Response) (*common.Response, error), r *http.Request, w *common.Response) (*common.Response, error) {
	var body []byte
	if r.Body != nil {
		b, err := io.ReadAll(r.Body)
		r.Body.Close()
		if err != nil {
			return nil, err
		}
		body = b
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return reject(w, []ErrorObject{{Status: "400", Title: "No request body"}})
	}

	s, err := loadSchema()
	if err != nil {
		return nil, err
	}
	result, err := s.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return reject(w, []ErrorObject{{Status: "400", Title: "Invalid JSON in request body", Detail: err.Error()}})
	}
	if !result.Valid() {
		errs := make([]ErrorObject, 0, len(result.Errors()))
		for _, re := range result.Errors() {
			errs = append(errs, ErrorObject{
				Status: "400",
				Title:  "Invalid request document",
				Detail: re.String(),
				Source: &ErrorSource{Pointer: pointer(re.Field())},
			})
		}
		return reject(w, errs)
	}

	r.Body = io.NopCloser(bytes.NewReader(body))
	r.ContentLength = int64(len(body))
	return next(r, w)
}

func reject(w *common.Response, errs []ErrorObject) (*common.Response, error) {
	if err := w.SetJSON(http.StatusBadRequest, errorDocument{Errors: errs}); err != nil {
		return nil, err
	}
	return w, nil
}

// converts gojsonschema field paths ("data.0.type") into JSON pointers ("/data/0/type")
func pointer(field string) string {
	if field == "" || field == "(root)" {
		return "/"
	}
	return "/" + strings.ReplaceAll(field, ".", "/")
}
