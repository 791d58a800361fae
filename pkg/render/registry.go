package render

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-view/pkg/render/template"
	"github.com/goliatone/go-view/pkg/render/template/gotemplate"
	"github.com/goliatone/go-view/pkg/render/template/textengine"
)

// Registry maps template file extensions to the engine that executes them.
// Names with an unregistered extension fall back to the default engine.
type Registry struct {
	mu       sync.RWMutex
	engines  map[string]template.Engine
	fallback template.Engine
}

// NewRegistry creates a registry with fallback as its default engine.
func NewRegistry(fallback template.Engine) *Registry {
	return &Registry{
		engines:  make(map[string]template.Engine),
		fallback: fallback,
	}
}

// DefaultRegistry executes .tmpl and .gotmpl files with text/template and
// everything else with pongo2.
func DefaultRegistry() (*Registry, error) {
	pongo, err := gotemplate.New()
	if err != nil {
		return nil, err
	}
	registry := NewRegistry(pongo)
	text := textengine.New()
	for _, ext := range []string{".tmpl", ".gotmpl"} {
		if err := registry.Register(ext, text); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// Register binds engine to ext. Duplicate extensions return an error.
func (r *Registry) Register(ext string, engine template.Engine) error {
	if engine == nil {
		return fmt.Errorf("render: engine is required")
	}
	ext = normalizeExt(ext)
	if ext == "" {
		return fmt.Errorf("render: extension is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.engines[ext]; exists {
		return fmt.Errorf("render: engine for %q already registered", ext)
	}

	r.engines[ext] = engine
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(ext string, engine template.Engine) {
	if err := r.Register(ext, engine); err != nil {
		panic(err)
	}
}

// Get retrieves the engine registered for ext.
func (r *Registry) Get(ext string) (template.Engine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	engine, ok := r.engines[normalizeExt(ext)]
	if !ok {
		return nil, fmt.Errorf("render: no engine registered for %q", ext)
	}
	return engine, nil
}

// Resolve picks the engine for a template name by its extension.
func (r *Registry) Resolve(name string) (template.Engine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if engine, ok := r.engines[normalizeExt(filepath.Ext(name))]; ok {
		return engine, nil
	}
	if r.fallback == nil {
		return nil, fmt.Errorf("render: no engine for template %q", name)
	}
	return r.fallback, nil
}

// SetDefault replaces the fallback engine.
func (r *Registry) SetDefault(engine template.Engine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = engine
}

// List returns the sorted registered extensions.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	exts := make([]string, 0, len(r.engines))
	for ext := range r.engines {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Has reports whether an engine is registered for ext.
func (r *Registry) Has(ext string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.engines[normalizeExt(ext)]
	return ok
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
