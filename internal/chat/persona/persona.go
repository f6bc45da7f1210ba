// Package persona loads the fixed system persona documents sent to the
// language model. Persona text is server-side only and is never exposed to
// HTTP clients.
package persona

// Config describes a persona definition loaded from YAML frontmatter.
type Config struct {
	Slug        string   `yaml:"slug"`
	Name        string   `yaml:"name,omitempty"`
	Description string   `yaml:"description,omitempty"`
	Model       string   `yaml:"model,omitempty"`
	Temperature *float64 `yaml:"temperature,omitempty"`
	MaxTokens   *int     `yaml:"max_tokens,omitempty"`
}

// Document wraps a validated persona with its source.
type Document struct {
	Config Config
	// System is the full system-role instruction text, including the
	// embedded knowledge base.
	System string
	Source string
}
