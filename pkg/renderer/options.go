package renderer

import (
	"io"
	"log/slog"

	"github.com/goliatone/go-view/pkg/render"
	"github.com/goliatone/go-view/pkg/render/template"
)

// Option configures a Renderer before the layout is validated.
type Option func(*config)

type config struct {
	engine   template.Engine
	registry *render.Registry
	logger   *slog.Logger
}

// WithEngine executes every template with engine, ignoring extensions.
func WithEngine(engine template.Engine) Option {
	return func(cfg *config) {
		if engine != nil {
			cfg.engine = engine
		}
	}
}

// WithRegistry selects engines by template extension. Defaults to
// render.DefaultRegistry.
func WithRegistry(registry *render.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.registry = registry
		}
	}
}

// WithLogger sets the logger used for debug records. Renders are silent
// unless a logger is supplied.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
