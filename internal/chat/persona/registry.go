package persona

import (
	"fmt"
	"sort"
	"strings"
)

// Registry provides access to persona documents by slug.
type Registry struct {
	docs map[string]*Document
}

// NewRegistry builds a registry from documents.
func NewRegistry(docs []*Document) (*Registry, error) {
	reg := &Registry{docs: make(map[string]*Document)}
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		slug := strings.TrimSpace(doc.Config.Slug)
		if _, ok := reg.docs[slug]; ok {
			return nil, fmt.Errorf("duplicate persona slug: %s", slug)
		}
		reg.docs[slug] = doc
	}
	return reg, nil
}

// Get returns the persona for the slug.
func (r *Registry) Get(slug string) (*Document, error) {
	if r == nil {
		return nil, fmt.Errorf("persona registry not configured")
	}
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, fmt.Errorf("persona slug is required")
	}
	doc, ok := r.docs[slug]
	if !ok {
		return nil, fmt.Errorf("persona %q not found", slug)
	}
	return doc, nil
}

// List returns documents sorted by slug.
func (r *Registry) List() []*Document {
	if r == nil {
		return nil
	}
	keys := make([]string, 0, len(r.docs))
	for slug := range r.docs {
		keys = append(keys, slug)
	}
	sort.Strings(keys)
	result := make([]*Document, 0, len(keys))
	for _, slug := range keys {
		result = append(result, r.docs[slug])
	}
	return result
}
