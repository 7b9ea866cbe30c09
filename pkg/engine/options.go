package engine

import (
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-formengine/pkg/state"
	"github.com/goliatone/go-formengine/pkg/widgets"
)

// Option configures a Form.
type Option func(*config)

type config struct {
	prefix    string
	listField string
	registry  *widgets.Registry
	logger    *zap.Logger
	initial   map[string]any
}

// WithPrefix nests every field under a dotted path prefix (for example
// "agent.settings").
func WithPrefix(prefix string) Option {
	return func(cfg *config) {
		cfg.prefix = strings.Trim(strings.TrimSpace(prefix), ".")
	}
}

// WithOptionalListField names the list-valued key that stores optional field
// entries.
func WithOptionalListField(name string) Option {
	return func(cfg *config) {
		cfg.listField = strings.TrimSpace(name)
	}
}

// WithRegistry swaps the widget handler table.
func WithRegistry(registry *widgets.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.registry = registry
		}
	}
}

// WithLogger attaches a logger for degraded-input events. The default logger
// discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithValues carries over prior state (for example a value object loaded from
// the backend). The map is deep-copied.
func WithValues(values map[string]any) Option {
	return func(cfg *config) {
		cfg.initial = state.Clone(values)
	}
}

func defaultConfig() config {
	return config{
		registry: widgets.NewRegistry(),
		logger:   zap.NewNop(),
	}
}
