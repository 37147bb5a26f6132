package common

import (
	"io"
	"net/http"
)

// Common interface for all JSON admin clients and their decorators
type Client interface {
	// deletes the resource or the resource list
	Delete(r *http.Request, w *Response) (*Response, error)
	// returns the requested resource or the resource list
	Get(r *http.Request, w *Response) (*Response, error)
	// updates the resource or the resource list partially
	Patch(r *http.Request, w *Response) (*Response, error)
	// creates or updates the resource or the resource list
	Post(r *http.Request, w *Response) (*Response, error)
	// creates or updates the resource or the resource list
	Put(r *http.Request, w *Response) (*Response, error)
	// returns the available REST verbs
	Options(r *http.Request, w *Response) (*Response, error)
	// looks up a named operation beyond the REST verbs
	Operation(name string) (OperationFunc, bool)
}

// Rendering handle passed through the construction chain
type View interface {
	Render(w io.Writer, name string, data any) error
}
