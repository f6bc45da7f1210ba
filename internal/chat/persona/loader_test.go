package persona

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleDoc = `---
slug: test-persona
name: Test Persona
model: gpt-4o-mini
temperature: 0.6
max_tokens: 400
---
You answer questions about the portfolio owner only.
`

func TestLoadParsesFrontmatterAndBody(t *testing.T) {
	doc, err := Load("test.md", []byte(sampleDoc))
	require.NoError(t, err)
	require.Equal(t, "test-persona", doc.Config.Slug)
	require.Equal(t, "gpt-4o-mini", doc.Config.Model)
	require.NotNil(t, doc.Config.Temperature)
	require.InDelta(t, 0.6, *doc.Config.Temperature, 0.001)
	require.NotNil(t, doc.Config.MaxTokens)
	require.Equal(t, 400, *doc.Config.MaxTokens)
	require.Equal(t, "You answer questions about the portfolio owner only.", doc.System)
}

func TestLoadRejectsMissingSystemText(t *testing.T) {
	_, err := Load("test.md", []byte("---\nslug: empty\n---\n"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "missing system text")
}

func TestLoadRejectsMissingSlug(t *testing.T) {
	_, err := Load("test.md", []byte("---\nname: no slug\n---\nbody text"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "missing slug")
}

func TestLoadRejectsMissingFrontmatter(t *testing.T) {
	_, err := Load("test.md", []byte("just a body with no header"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "frontmatter")
}

func TestLoadFromDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "one.md"), []byte(sampleDoc), 0o600))

	docs, err := LoadFromDir(dir)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.Equal(t, "test-persona", docs[0].Config.Slug)
}

func TestDefaultRegistryContainsPortfolioAssistant(t *testing.T) {
	reg, err := DefaultRegistry()
	require.NoError(t, err)

	doc, err := reg.Get(DefaultSlug)
	require.NoError(t, err)
	require.Contains(t, doc.System, "Christian")
	require.Contains(t, doc.System, "EgoDex")
	require.Equal(t, "gpt-4o-mini", doc.Config.Model)
}

func TestRegistryRejectsDuplicateSlugs(t *testing.T) {
	doc, err := Load("a.md", []byte(sampleDoc))
	require.NoError(t, err)
	dup, err := Load("b.md", []byte(sampleDoc))
	require.NoError(t, err)

	_, err = NewRegistry([]*Document{doc, dup})
	require.Error(t, err)
	require.Contains(t, err.Error(), "duplicate")
}
