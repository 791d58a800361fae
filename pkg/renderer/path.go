package renderer

import (
	"os"
	"strings"
)

// normalizeRoot strips trailing slashes and backslashes, then appends one "/".
func normalizeRoot(root string) string {
	return strings.TrimRight(root, `/\`) + "/"
}

// TemplatePath returns the root directory, always ending in a single "/".
func (r *Renderer) TemplatePath() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.templatePath
}

// SetTemplatePath replaces the root directory. The configured layout is not
// checked again; if it is missing under the new root, renders fail with
// ErrTemplateNotFound.
func (r *Renderer) SetTemplatePath(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.templatePath = normalizeRoot(path)
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
