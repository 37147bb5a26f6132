package common

// Named operation exposed by a client in addition to the REST verbs
type OperationFunc func(args ...any) (any, error)

// Maps operation names to their implementation, the zero value is ready to use
type OperationRegistry struct {
	operations map[string]OperationFunc
}

func (o *OperationRegistry) Register(name string, f OperationFunc) {
	if o.operations == nil {
		o.operations = make(map[string]OperationFunc)
	}
	o.operations[name] = f
}

func (o *OperationRegistry) Operation(name string) (OperationFunc, bool) {
	f, ok := o.operations[name]
	return f, ok && f != nil
}
