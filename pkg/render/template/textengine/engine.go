// Package textengine executes Go text/template files with the sprig function
// library, for callers that prefer Go template syntax over pongo2.
package textengine

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	texttemplate "text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/goliatone/go-view/pkg/render/template"
)

// Option configures the text/template engine.
type Option func(*Engine)

// WithFuncs adds functions on top of the sprig function map. Later entries
// override sprig helpers of the same name.
func WithFuncs(funcs texttemplate.FuncMap) Option {
	return func(e *Engine) {
		for name, fn := range funcs {
			name = strings.TrimSpace(name)
			if name == "" || !isFunc(fn) {
				continue
			}
			e.funcs[name] = fn
		}
	}
}

// WithMissingKey sets the text/template missingkey option ("default",
// "zero" or "error").
func WithMissingKey(mode string) Option {
	return func(e *Engine) {
		mode = strings.TrimSpace(mode)
		if mode != "" {
			e.missingKey = mode
		}
	}
}

// Engine parses and executes a template file on every call.
type Engine struct {
	mu         sync.RWMutex
	funcs      texttemplate.FuncMap
	missingKey string
}

var _ template.Engine = (*Engine)(nil)

// New returns an engine seeded with sprig.TxtFuncMap.
func New(options ...Option) *Engine {
	e := &Engine{
		funcs:      sprig.TxtFuncMap(),
		missingKey: "default",
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	return e
}

// Execute parses root/name and executes it with data as the dot value, so
// bindings are reached as {{ .key }}. text/template writes as it goes; a
// failing template may leave partial output in w.
func (e *Engine) Execute(w io.Writer, root, name string, data map[string]any) error {
	if e == nil {
		return errors.New("textengine: engine is nil")
	}

	path := filepath.Join(root, filepath.FromSlash(name))
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("textengine: read template %q: %w", name, err)
	}

	e.mu.RLock()
	tmpl, err := texttemplate.New(filepath.Base(name)).
		Funcs(e.funcs).
		Option("missingkey=" + e.missingKey).
		Parse(string(src))
	e.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("textengine: parse template %q: %w", name, err)
	}

	if data == nil {
		data = map[string]any{}
	}
	return tmpl.Execute(w, data)
}

// AddFunc registers fn under name for subsequent executions.
func (e *Engine) AddFunc(name string, fn any) error {
	name = strings.TrimSpace(name)
	if name == "" || fn == nil {
		return errors.New("textengine: function name and value required")
	}
	if !isFunc(fn) {
		return fmt.Errorf("textengine: %T is not a function", fn)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.funcs[name] = fn
	return nil
}

func isFunc(v any) bool {
	return v != nil && reflect.ValueOf(v).Kind() == reflect.Func
}
