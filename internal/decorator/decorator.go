package decorator

import (
	"net/http"

	"github.com/RassulYunussov/jsonadm/common"
	"github.com/RassulYunussov/jsonadm/internal/base"
)

// Decorator forwards every call to the wrapped client. Concrete decorators
// embed it and override only the verbs they intercept.
type Decorator struct {
	*base.Base
	client common.Client
}

func New(client common.Client, context *common.Context, view common.View, templatePaths []string, path string) *Decorator {
	return &Decorator{
		Base:   base.New(context, view, templatePaths, path),
		client: client,
	}
}

// Client returns the wrapped client
func (d *Decorator) Client() common.Client {
	return d.client
}

func (d *Decorator) Delete(r *http.Request, w *common.Response) (*common.Response, error) {
	return d.client.Delete(r, w)
}

func (d *Decorator) Get(r *http.Request, w *common.Response) (*common.Response, error) {
	return d.client.Get(r, w)
}

func (d *Decorator) Patch(r *http.Request, w *common.Response) (*common.Response, error) {
	return d.client.Patch(r, w)
}

func (d *Decorator) Post(r *http.Request, w *common.Response) (*common.Response, error) {
	return d.client.Post(r, w)
}

func (d *Decorator) Put(r *http.Request, w *common.Response) (*common.Response, error) {
	return d.client.Put(r, w)
}

func (d *Decorator) Options(r *http.Request, w *common.Response) (*common.Response, error) {
	return d.client.Options(r, w)
}

// Operation returns an operation registered on the decorator itself, otherwise
// the one of the wrapped client
func (d *Decorator) Operation(name string) (common.OperationFunc, bool) {
	if f, ok := d.Base.Operation(name); ok {
		return f, true
	}
	return d.client.Operation(name)
}

// Call invokes the named operation and returns its result unchanged.
// A missing or failing operation yields *common.DelegationError.
func (d *Decorator) Call(name string, args ...any) (any, error) {
	return Call(d, name, args...)
}

// Call invokes a named operation on any client
func Call(client common.Client, name string, args ...any) (any, error) {
	f, ok := client.Operation(name)
	if !ok {
		return nil, &common.DelegationError{Method: name, Err: common.ErrUnsupportedOperation}
	}
	res, err := f(args...)
	if err != nil {
		return nil, &common.DelegationError{Method: name, Err: err}
	}
	return res, nil
}
