package persona

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load parses and validates a persona definition from a Markdown document
// with YAML frontmatter. The body after the frontmatter is the system text.
func Load(source string, data []byte) (*Document, error) {
	config, body, err := parseFrontmatter(data)
	if err != nil {
		return nil, fmt.Errorf("parse persona %s: %w", source, err)
	}

	system := strings.TrimSpace(body)
	if system == "" {
		return nil, fmt.Errorf("persona %s missing system text", source)
	}
	if strings.TrimSpace(config.Slug) == "" {
		return nil, fmt.Errorf("persona %s missing slug", source)
	}
	if config.Temperature != nil && (*config.Temperature < 0 || *config.Temperature > 2) {
		return nil, fmt.Errorf("persona %s temperature out of range", source)
	}
	if config.MaxTokens != nil && *config.MaxTokens <= 0 {
		return nil, fmt.Errorf("persona %s max_tokens must be positive", source)
	}

	return &Document{Config: config, System: system, Source: source}, nil
}

// LoadFromDir reads all persona files (.md with YAML frontmatter) from a directory.
func LoadFromDir(dir string) ([]*Document, error) {
	entries, err := filepath.Glob(filepath.Join(dir, "*.md"))
	if err != nil {
		return nil, fmt.Errorf("scan personas: %w", err)
	}
	results := make([]*Document, 0, len(entries))
	for _, path := range entries {
		data, err := os.ReadFile(path) // #nosec G304 -- persona path is operator-provided
		if err != nil {
			return nil, fmt.Errorf("read persona %s: %w", path, err)
		}
		doc, err := Load(path, data)
		if err != nil {
			return nil, err
		}
		results = append(results, doc)
	}
	return results, nil
}

func parseFrontmatter(data []byte) (Config, string, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return Config{}, "", fmt.Errorf("empty persona")
	}

	lines := bufio.NewScanner(bytes.NewReader(trimmed))
	lines.Split(bufio.ScanLines)

	var (
		frontmatter []string
		body        []string
		inFront     bool
		headerSeen  bool
	)

	for lines.Scan() {
		line := lines.Text()
		switch {
		case !headerSeen && strings.TrimSpace(line) == "---":
			headerSeen = true
			inFront = true
		case headerSeen && inFront && strings.TrimSpace(line) == "---":
			inFront = false
		default:
			if inFront {
				frontmatter = append(frontmatter, line)
			} else {
				body = append(body, line)
			}
		}
	}
	if err := lines.Err(); err != nil {
		return Config{}, "", err
	}

	if !headerSeen {
		return Config{}, "", fmt.Errorf("missing frontmatter")
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(strings.Join(frontmatter, "\n")), &cfg); err != nil {
		return Config{}, "", fmt.Errorf("invalid frontmatter: %w", err)
	}

	return cfg, strings.Join(body, "\n"), nil
}
