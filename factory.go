package jsonadm

import (
	"fmt"
	"sync"

	"github.com/RassulYunussov/jsonadm/common"
	"github.com/RassulYunussov/jsonadm/config"
	"github.com/RassulYunussov/jsonadm/internal/cache"
	"github.com/RassulYunussov/jsonadm/internal/cb"
	"github.com/RassulYunussov/jsonadm/internal/logging"
	"github.com/RassulYunussov/jsonadm/internal/metrics"
	"github.com/RassulYunussov/jsonadm/internal/resilient"
	"github.com/RassulYunussov/jsonadm/internal/validation"
)

// Creates a decorator around client, same arguments as the decorator constructors
type Factory func(client Client, context *common.Context, view common.View, templatePaths []string, path string) (Client, error)

var (
	factoriesMu sync.RWMutex
	factories   = map[string]Factory{}
	locals      = map[string]map[string]Factory{}
)

func init() {
	mustRegister("Logging", func(client Client, context *common.Context, view common.View, templatePaths []string, path string) (Client, error) {
		return logging.CreateLoggingClient(client, context, view, templatePaths, path), nil
	})
	mustRegister("Validation", func(client Client, context *common.Context, view common.View, templatePaths []string, path string) (Client, error) {
		return validation.CreateValidatingClient(client, context, view, templatePaths, path), nil
	})
	mustRegister("Metrics", func(client Client, context *common.Context, view common.View, templatePaths []string, path string) (Client, error) {
		return metrics.CreateMetricsClient(client, context, view, templatePaths, path), nil
	})
	mustRegister("Cache", func(client Client, context *common.Context, view common.View, templatePaths []string, path string) (Client, error) {
		return cache.CreateCachingClient(client, context, view, templatePaths, path, contextConfig(context).Cache.TTL), nil
	})
	mustRegister("Retry", func(client Client, context *common.Context, view common.View, templatePaths []string, path string) (Client, error) {
		rc := contextConfig(context).Retry
		return resilient.CreateResilientClient(client, context, view, templatePaths, path, &resilient.RetryParameters{
			MaxRetry:       rc.MaxRetry,
			BackoffTimeout: rc.Backoff,
		}), nil
	})
	mustRegister("CircuitBreaker", func(client Client, context *common.Context, view common.View, templatePaths []string, path string) (Client, error) {
		cc := contextConfig(context).CircuitBreaker
		return cb.CreateCircuitBreakerClient(client, context, view, templatePaths, path, &cb.CircuitBreakerParameters{
			MaxRequests:         cc.MaxRequests,
			ConsecutiveFailures: cc.ConsecutiveFailures,
			Interval:            cc.Interval,
			Timeout:             cc.Timeout,
		}, breakers), nil
	})
}

func mustRegister(name string, f Factory) {
	if err := Register(name, f); err != nil {
		panic(err)
	}
}

// Register makes a decorator available to every resource path under name.
// Registering an existing name replaces it.
func Register(name string, f Factory) error {
	if err := checkName(name); err != nil {
		return err
	}
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	factories[name] = f
	return nil
}

// RegisterLocal makes a decorator available to the given resource path only.
func RegisterLocal(path, name string, f Factory) error {
	if err := checkName(name); err != nil {
		return err
	}
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	if locals[path] == nil {
		locals[path] = map[string]Factory{}
	}
	locals[path][name] = f
	return nil
}

type stackEntry struct {
	name  string
	local bool
}

func decoratorStack(cfg *config.Config, path string) []stackEntry {
	rc := cfg.Resource(path)
	excluded := make(map[string]bool, len(rc.Excludes))
	for _, name := range rc.Excludes {
		excluded[name] = true
	}
	var stack []stackEntry
	for _, name := range cfg.Decorators {
		if !excluded[name] {
			stack = append(stack, stackEntry{name: name})
		}
	}
	for _, name := range rc.Global {
		stack = append(stack, stackEntry{name: name})
	}
	for _, name := range rc.Local {
		stack = append(stack, stackEntry{name: name, local: true})
	}
	return stack
}

// DecoratorNames returns the decorators configured for path, innermost first:
// the default list without the path's excludes, then the path's global and
// local decorators.
func DecoratorNames(cfg *config.Config, path string) []string {
	stack := decoratorStack(cfg, path)
	names := make([]string, 0, len(stack))
	for _, e := range stack {
		names = append(names, e.name)
	}
	return names
}

// CreateFromConfig wraps client with the decorators configured for path in the context configuration.
func CreateFromConfig(client Client, context *common.Context, view common.View, templatePaths []string, path string) (Client, error) {
	if context == nil {
		context = common.NewContext(nil)
	}
	for _, e := range decoratorStack(contextConfig(context), path) {
		f, err := lookup(e, path)
		if err != nil {
			return nil, err
		}
		if client, err = f(client, context, view, templatePaths, path); err != nil {
			return nil, fmt.Errorf("decorator %q: %w", e.name, err)
		}
	}
	return client, nil
}

func lookup(e stackEntry, path string) (Factory, error) {
	if err := checkName(e.name); err != nil {
		return nil, err
	}
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()
	if e.local {
		if f, ok := locals[path][e.name]; ok {
			return f, nil
		}
		return nil, fmt.Errorf("%w: %q is not registered for %q", ErrInvalidDecorator, e.name, path)
	}
	if f, ok := factories[e.name]; ok {
		return f, nil
	}
	return nil, fmt.Errorf("%w: %q is not registered", ErrInvalidDecorator, e.name)
}

func checkName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidDecorator)
	}
	for _, r := range name {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return fmt.Errorf("%w: %q", ErrInvalidDecorator, name)
		}
	}
	return nil
}

func contextConfig(context *common.Context) *config.Config {
	if context.Config != nil {
		return context.Config
	}
	cfg := config.Default()
	return &cfg
}
