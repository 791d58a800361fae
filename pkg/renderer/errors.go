package renderer

import (
	"errors"
	"fmt"
)

var (
	// ErrLayoutNotFound is returned when a layout does not name a regular
	// file under the template path.
	ErrLayoutNotFound = errors.New("view: layout not found")
	// ErrTemplateNotFound is returned when a template to execute does not
	// exist.
	ErrTemplateNotFound = errors.New("view: template not found")
	// ErrInvalidInput is returned when render data carries a reserved key.
	ErrInvalidInput = errors.New("view: invalid input")
)

// Error describes a renderer failure. Kind is one of the package sentinels,
// so callers match with errors.Is.
type Error struct {
	Kind error
	Name string
	Path string
	msg  string
}

func (e *Error) Error() string {
	return "view: " + e.msg
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func layoutNotFound(name, path string) error {
	return &Error{
		Kind: ErrLayoutNotFound,
		Name: name,
		Path: path,
		msg:  fmt.Sprintf("layout template %q does not exist", name),
	}
}

func templateNotFound(name, path string) error {
	return &Error{
		Kind: ErrTemplateNotFound,
		Name: name,
		Path: path,
		msg:  fmt.Sprintf("cannot render %q because the template does not exist", name),
	}
}

func duplicateTemplateKey(name string) error {
	return &Error{
		Kind: ErrInvalidInput,
		Name: name,
		msg:  fmt.Sprintf("duplicate %q key found in data for %q", TemplateKey, name),
	}
}
