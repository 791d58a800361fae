package template

import (
	"io"
)

// Engine executes a single template file and writes its output to w.
//
// name is relative to root. Every key in data must be visible to the template
// body as a named binding. Engines re-read the file on every call; nothing is
// cached between executions.
type Engine interface {
	Execute(w io.Writer, root, name string, data map[string]any) error
}

// EngineFunc adapts a plain function to the Engine interface.
type EngineFunc func(w io.Writer, root, name string, data map[string]any) error

// Execute calls f(w, root, name, data).
func (f EngineFunc) Execute(w io.Writer, root, name string, data map[string]any) error {
	return f(w, root, name, data)
}
