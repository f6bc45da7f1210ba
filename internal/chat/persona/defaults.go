package persona

import (
	"embed"
	"fmt"
)

//go:embed personas/*.md
var defaultPersonasFS embed.FS

// DefaultSlug is the persona used when no override is configured.
const DefaultSlug = "portfolio-assistant"

// LoadDefaults loads the embedded persona set.
func LoadDefaults() ([]*Document, error) {
	entries, err := defaultPersonasFS.ReadDir("personas")
	if err != nil {
		return nil, fmt.Errorf("read embedded personas: %w", err)
	}
	results := make([]*Document, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		data, err := defaultPersonasFS.ReadFile("personas/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read embedded persona %s: %w", entry.Name(), err)
		}
		doc, err := Load(entry.Name(), data)
		if err != nil {
			return nil, err
		}
		results = append(results, doc)
	}
	return results, nil
}

// DefaultRegistry builds a registry from the embedded personas.
func DefaultRegistry() (*Registry, error) {
	docs, err := LoadDefaults()
	if err != nil {
		return nil, err
	}
	return NewRegistry(docs)
}
