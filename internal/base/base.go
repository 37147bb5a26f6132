package base

import "github.com/RassulYunussov/jsonadm/common"

// Behavior shared by JSON admin clients and decorators: the construction
// values and the named operations a client exposes.
type Base struct {
	common.OperationRegistry
	context       *common.Context
	view          common.View
	templatePaths []string
	path          string
}

// path is the name of the client separated by slashes, e.g. "product/property"
func New(context *common.Context, view common.View, templatePaths []string, path string) *Base {
	return &Base{
		context:       context,
		view:          view,
		templatePaths: templatePaths,
		path:          path,
	}
}

func (b *Base) Context() *common.Context {
	return b.context
}

func (b *Base) View() common.View {
	return b.view
}

func (b *Base) TemplatePaths() []string {
	return b.templatePaths
}

func (b *Base) Path() string {
	return b.path
}
