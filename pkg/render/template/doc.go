// Package template defines the engine contract the renderer executes template
// files through. Engines own the template language; the renderer owns path
// resolution, context merging and output capture.
package template
