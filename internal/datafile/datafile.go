// Package datafile loads render data from YAML or JSON files and parses
// key=value assignments given on the command line.
package datafile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads path and decodes its top-level mapping. The format follows the
// extension: .json is JSON, anything else is YAML.
func Load(path string) (map[string]any, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("datafile: path is required")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("datafile: read %s: %w", path, err)
	}
	return Decode(raw, filepath.Ext(path))
}

// Decode parses raw as JSON when ext is ".json" and as YAML otherwise.
// An empty document yields an empty map.
func Decode(raw []byte, ext string) (map[string]any, error) {
	out := map[string]any{}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return out, nil
	}

	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, fmt.Errorf("datafile: decode json: %w", err)
		}
	default:
		var doc any
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("datafile: decode yaml: %w", err)
		}
		mapping, ok := doc.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("datafile: top level must be a mapping, got %T", doc)
		}
		out = mapping
	}
	return out, nil
}

// ParseAssignments turns "key=value" pairs into a map. Values are decoded as
// YAML scalars, so "count=3" yields an int and "draft=false" a bool; quote a
// value to keep it a string.
func ParseAssignments(pairs []string) (map[string]any, error) {
	out := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("datafile: invalid assignment %q, want key=value", pair)
		}
		out[key] = scalar(value)
	}
	return out, nil
}

func scalar(value string) any {
	var decoded any
	if err := yaml.Unmarshal([]byte(value), &decoded); err != nil {
		return value
	}
	switch decoded.(type) {
	case string, bool, int, float64:
		return decoded
	default:
		return value
	}
}
