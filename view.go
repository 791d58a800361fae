// Package view renders template files from a root directory with a shared
// attribute context and an optional layout. See pkg/renderer for details.
package view

import (
	"github.com/goliatone/go-view/pkg/renderer"
)

// Renderer aliases renderer.Renderer for callers importing the module root.
type Renderer = renderer.Renderer

// Option aliases renderer.Option.
type Option = renderer.Option

// Error aliases renderer.Error.
type Error = renderer.Error

var (
	// ErrLayoutNotFound is returned when a layout file does not exist.
	ErrLayoutNotFound = renderer.ErrLayoutNotFound
	// ErrTemplateNotFound is returned when a template file does not exist.
	ErrTemplateNotFound = renderer.ErrTemplateNotFound
	// ErrInvalidInput is returned when render data uses the reserved
	// "template" key.
	ErrInvalidInput = renderer.ErrInvalidInput
)

// Option constructors re-exported from the renderer package.
var (
	WithEngine   = renderer.WithEngine
	WithRegistry = renderer.WithRegistry
	WithLogger   = renderer.WithLogger
)

// New builds a Renderer rooted at root, see renderer.New.
func New(root string, attributes map[string]any, layout string, options ...Option) (*Renderer, error) {
	return renderer.New(root, attributes, layout, options...)
}
