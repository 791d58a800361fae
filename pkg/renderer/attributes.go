package renderer

import "maps"

// Attributes returns a copy of the global attributes.
func (r *Renderer) Attributes() map[string]any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return maps.Clone(r.attributes)
}

// SetAttributes replaces every global attribute.
func (r *Renderer) SetAttributes(attributes map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attributes = maps.Clone(attributes)
	if r.attributes == nil {
		r.attributes = make(map[string]any)
	}
}

// AddAttribute sets a single global attribute.
func (r *Renderer) AddAttribute(key string, value any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attributes[key] = value
}

// Attribute returns the global attribute stored under key, or false when the
// key is absent or holds nil. An attribute explicitly set to false reads the
// same as a missing one; use LookupAttribute to tell them apart.
func (r *Renderer) Attribute(key string) any {
	value, ok := r.LookupAttribute(key)
	if !ok || value == nil {
		return false
	}
	return value
}

// LookupAttribute returns the attribute stored under key and whether the key
// is present.
func (r *Renderer) LookupAttribute(key string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	value, ok := r.attributes[key]
	return value, ok
}
