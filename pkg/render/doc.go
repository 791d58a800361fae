// Package render wires template engines to file extensions. The renderer
// package consults a Registry to decide which engine executes a template.
package render
