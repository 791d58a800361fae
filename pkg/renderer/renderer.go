package renderer

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/goliatone/go-view/pkg/render"
	"github.com/goliatone/go-view/pkg/render/template"
)

const (
	// ContentKey carries the rendered template into the layout pass.
	ContentKey = "content"
	// TemplateKey is reserved and may not appear in render data.
	TemplateKey = "template"
)

// Renderer executes templates found under a root directory. Each call renders
// into its own buffer, so one Renderer may serve concurrent requests.
type Renderer struct {
	mu sync.RWMutex

	templatePath string
	attributes   map[string]any
	layout       string

	registry *render.Registry
	logger   *slog.Logger
}

// New builds a Renderer rooted at root. attributes are visible to every render
// and layout, when not empty, must name a file under root.
func New(root string, attributes map[string]any, layout string, options ...Option) (*Renderer, error) {
	cfg := &config{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	registry := cfg.registry
	switch {
	case cfg.engine != nil:
		registry = render.NewRegistry(cfg.engine)
	case registry == nil:
		var err error
		if registry, err = render.DefaultRegistry(); err != nil {
			return nil, fmt.Errorf("view: default engines: %w", err)
		}
	}

	logger := cfg.logger
	if logger == nil {
		logger = discardLogger()
	}

	r := &Renderer{
		templatePath: normalizeRoot(root),
		attributes:   maps.Clone(attributes),
		registry:     registry,
		logger:       logger,
	}
	if r.attributes == nil {
		r.attributes = make(map[string]any)
	}
	if err := r.SetLayout(layout); err != nil {
		return nil, err
	}
	return r, nil
}

// Render executes name and wraps the result in the layout when one is set.
func (r *Renderer) Render(name string, data map[string]any) (string, error) {
	return r.Fetch(name, data, true)
}

// RenderTo renders like Render and writes the result to w. Nothing is written
// when rendering fails.
func (r *Renderer) RenderTo(w io.Writer, name string, data map[string]any) error {
	out, err := r.Render(name, data)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

// Fetch executes name. With useLayout set and a layout configured, the output
// is bound to ContentKey in a copy of data and the layout is executed with it.
// Both passes see the renderer state as it was when Fetch was called.
func (r *Renderer) Fetch(name string, data map[string]any, useLayout bool) (string, error) {
	start := time.Now()
	st := r.snapshot()

	output, err := r.fetch(st, name, data)
	if err != nil {
		return "", err
	}

	if st.layout == "" || !useLayout {
		r.logger.Debug("rendered template", "template", name, "duration", time.Since(start))
		return output, nil
	}

	layoutData := make(map[string]any, len(data)+1)
	maps.Copy(layoutData, data)
	layoutData[ContentKey] = output

	output, err = r.fetch(st, st.layout, layoutData)
	if err != nil {
		return "", err
	}
	r.logger.Debug("rendered template", "template", name, "layout", st.layout, "duration", time.Since(start))
	return output, nil
}

// FetchTemplate executes a single template without a layout and returns its
// output. Execution errors are returned as the engine produced them and any
// partial output is dropped.
func (r *Renderer) FetchTemplate(name string, data map[string]any) (string, error) {
	return r.fetch(r.snapshot(), name, data)
}

// state is the renderer configuration one render works against.
type state struct {
	root       string
	attributes map[string]any
	layout     string
	registry   *render.Registry
}

func (r *Renderer) snapshot() state {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return state{
		root:       r.templatePath,
		attributes: maps.Clone(r.attributes),
		layout:     r.layout,
		registry:   r.registry,
	}
}

func (r *Renderer) fetch(st state, name string, data map[string]any) (string, error) {
	if _, reserved := data[TemplateKey]; reserved {
		return "", duplicateTemplateKey(name)
	}

	path := st.root + name
	if !isFile(path) {
		return "", templateNotFound(name, path)
	}

	scope := make(map[string]any, len(st.attributes)+len(data))
	maps.Copy(scope, st.attributes)
	maps.Copy(scope, data)

	engine, err := st.registry.Resolve(name)
	if err != nil {
		return "", err
	}
	return capture(engine, st.root, name, scope)
}

// capture executes the template into a buffer owned by this call only.
func capture(engine template.Engine, root, name string, scope map[string]any) (string, error) {
	var buf bytes.Buffer
	if err := engine.Execute(&buf, root, name, scope); err != nil {
		buf.Reset()
		return "", err
	}
	return buf.String(), nil
}

// Layout returns the configured layout, or "" when none is set.
func (r *Renderer) Layout() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.layout
}

// SetLayout sets the layout used by Render. An empty name clears it; any
// other name must be a regular file under the template path right now.
func (r *Renderer) SetLayout(layout string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if layout == "" {
		r.layout = ""
		return nil
	}

	path := r.templatePath + layout
	if !isFile(path) {
		return layoutNotFound(layout, path)
	}
	r.layout = layout
	r.logger.Debug("layout set", "layout", layout)
	return nil
}
