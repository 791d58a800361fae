package gotemplate

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"reflect"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-view/pkg/render/template"
)

// Option configures the pongo2 engine before construction.
type Option func(*config)

type config struct {
	templateFn map[string]any
	filters    map[string]func(input any, param any) (any, error)
	globalData map[string]any
	sanitizer  *bluemonday.Policy
	safeKeys   []string
}

// WithTemplateFunc registers helper functions or filters when the engine loads.
// pongo2.FilterFunction values become filters, any other func becomes a
// global callable from templates.
func WithTemplateFunc(funcs map[string]any) Option {
	return func(cfg *config) {
		if len(funcs) == 0 {
			return
		}
		if cfg.templateFn == nil {
			cfg.templateFn = make(map[string]any, len(funcs))
		}
		for name, fn := range funcs {
			cfg.templateFn[strings.TrimSpace(name)] = fn
		}
	}
}

// WithFilters registers plain Go filters, see Engine.RegisterFilter.
func WithFilters(filters map[string]func(input any, param any) (any, error)) Option {
	return func(cfg *config) {
		if len(filters) == 0 {
			return
		}
		if cfg.filters == nil {
			cfg.filters = make(map[string]func(input any, param any) (any, error), len(filters))
		}
		for name, fn := range filters {
			cfg.filters[strings.TrimSpace(name)] = fn
		}
	}
}

// WithGlobalData seeds values visible to every template executed by the
// engine. Render data shadows globals of the same name.
func WithGlobalData(data map[string]any) Option {
	return func(cfg *config) {
		if len(data) == 0 {
			return
		}
		if cfg.globalData == nil {
			cfg.globalData = make(map[string]any, len(data))
		}
		for key, value := range data {
			cfg.globalData[strings.TrimSpace(key)] = value
		}
	}
}

// WithSanitizePolicy replaces the bluemonday policy behind this engine's
// sanitize function. The default is bluemonday.UGCPolicy.
func WithSanitizePolicy(policy *bluemonday.Policy) Option {
	return func(cfg *config) {
		if policy != nil {
			cfg.sanitizer = policy
		}
	}
}

// WithSafeKeys lists render data keys whose string values are bound as
// already escaped markup. It replaces the default, DefaultSafeKeys.
func WithSafeKeys(keys ...string) Option {
	return func(cfg *config) {
		cfg.safeKeys = make([]string, 0, len(keys))
		for _, key := range keys {
			if key = strings.TrimSpace(key); key != "" {
				cfg.safeKeys = append(cfg.safeKeys, key)
			}
		}
	}
}

// DefaultSafeKeys holds the key a renderer binds a captured template to
// before it executes the layout.
var DefaultSafeKeys = []string{"content"}

// Engine executes pongo2 templates from disk. It keeps one template set per
// root directory so include and extends tags resolve against that root.
type Engine struct {
	mu sync.RWMutex

	sets     map[string]*pongo2.TemplateSet
	globals  pongo2.Context
	safeKeys map[string]struct{}
}

// Ensure Engine implements the template.Engine interface.
var _ template.Engine = (*Engine)(nil)

// New constructs an Engine using the provided configuration options.
func New(options ...Option) (*Engine, error) {
	cfg := &config{safeKeys: DefaultSafeKeys}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	engine := &Engine{
		sets:     make(map[string]*pongo2.TemplateSet),
		globals:  make(pongo2.Context),
		safeKeys: make(map[string]struct{}, len(cfg.safeKeys)),
	}
	for _, key := range cfg.safeKeys {
		engine.safeKeys[key] = struct{}{}
	}
	registerDefaultFilters()

	policy := cfg.sanitizer
	if policy == nil {
		policy = bluemonday.UGCPolicy()
	}
	engine.globals["sanitize"] = sanitizeFunc(policy)

	if err := engine.GlobalContext(cfg.globalData); err != nil {
		return nil, fmt.Errorf("gotemplate: apply global data: %w", err)
	}
	for name, fn := range cfg.templateFn {
		if err := engine.registerTemplateFunc(name, fn); err != nil {
			return nil, fmt.Errorf("gotemplate: register template func %q: %w", name, err)
		}
	}
	for name, fn := range cfg.filters {
		if err := engine.RegisterFilter(name, fn); err != nil {
			return nil, err
		}
	}

	return engine, nil
}

// Execute loads name from root and executes it with the engine globals and
// data bound as template variables; data shadows globals. String values under
// the safe keys are not escaped again. Output is streamed to w as it is
// produced.
//
// Load failures are wrapped. Errors raised while executing the body are
// returned as pongo2 reported them, usually a *pongo2.Error. pongo2 keeps only
// the message of an error returned by a template function, so errors.Is does
// not match it; (*pongo2.Error).OrigError carries that message.
func (e *Engine) Execute(w io.Writer, root, name string, data map[string]any) error {
	if e == nil {
		return errors.New("gotemplate: engine is nil")
	}

	set, err := e.templateSet(root)
	if err != nil {
		return err
	}

	// FromFile bypasses the set cache so edits on disk show up on the next call.
	tmpl, err := set.FromFile(filepath.ToSlash(name))
	if err != nil {
		return fmt.Errorf("gotemplate: load template %q: %w", name, err)
	}

	// Template functions may call back into the engine, so no lock is held
	// while the body runs.
	return tmpl.ExecuteWriterUnbuffered(e.executionContext(data), w)
}

func (e *Engine) executionContext(data map[string]any) pongo2.Context {
	e.mu.RLock()
	ctx := make(pongo2.Context, len(e.globals)+len(data))
	ctx.Update(e.globals)
	e.mu.RUnlock()

	for key, value := range convertToContext(data) {
		if s, ok := value.(string); ok && e.isSafeKey(key) {
			ctx[key] = pongo2.AsSafeValue(s)
			continue
		}
		ctx[key] = value
	}
	return ctx
}

func (e *Engine) isSafeKey(key string) bool {
	_, ok := e.safeKeys[key]
	return ok
}

// RegisterFilter registers a template filter. pongo2 filters are process
// global, so registering a name twice fails.
func (e *Engine) RegisterFilter(name string, fn func(input any, param any) (any, error)) error {
	if strings.TrimSpace(name) == "" || fn == nil {
		return errors.New("gotemplate: filter name and function required")
	}

	filter := func(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		var paramVal any
		if param != nil {
			paramVal = param.Interface()
		}
		result, err := fn(in.Interface(), paramVal)
		if err != nil {
			return nil, &pongo2.Error{Sender: "filter:" + name, OrigError: err}
		}
		return pongo2.AsValue(result), nil
	}

	if pongo2.FilterExists(name) {
		return fmt.Errorf("gotemplate: filter %q already exists", name)
	}
	return pongo2.RegisterFilter(name, filter)
}

// GlobalContext merges data into the values visible to every template the
// engine executes. It is safe to call while templates run; executions that
// already started keep the globals they began with.
func (e *Engine) GlobalContext(data map[string]any) error {
	if e == nil {
		return errors.New("gotemplate: engine is nil")
	}
	if len(data) == 0 {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.globals.Update(convertToContext(data))
	return nil
}

func (e *Engine) registerTemplateFunc(name string, fn any) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || fn == nil {
		return nil
	}

	if filter, ok := fn.(pongo2.FilterFunction); ok {
		if pongo2.FilterExists(trimmed) {
			return nil
		}
		return pongo2.RegisterFilter(trimmed, filter)
	}

	if !isCallable(fn) {
		return fmt.Errorf("gotemplate: %T is not a function", fn)
	}
	return e.GlobalContext(map[string]any{trimmed: fn})
}

func (e *Engine) templateSet(root string) (*pongo2.TemplateSet, error) {
	key := filepath.Clean(root)

	e.mu.RLock()
	if set, ok := e.sets[key]; ok {
		e.mu.RUnlock()
		return set, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	if set, ok := e.sets[key]; ok {
		return set, nil
	}

	loader, err := pongo2.NewLocalFileSystemLoader(key)
	if err != nil {
		return nil, fmt.Errorf("gotemplate: create local loader for %q: %w", root, err)
	}

	set := pongo2.NewSet("view:"+key, loader)
	e.sets[key] = set
	return set, nil
}

func isCallable(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	return rv.IsValid() && rv.Kind() == reflect.Func
}

func convertToContext(in map[string]any) pongo2.Context {
	out := make(pongo2.Context, len(in))
	for key, value := range in {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		out[key] = value
	}
	return out
}
