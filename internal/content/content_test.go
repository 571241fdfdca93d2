package content

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbedded(t *testing.T) {
	p, err := Load("")
	require.NoError(t, err)

	require.NotEmpty(t, p.Sections)
	assert.Equal(t, "hero", p.Sections[0].ID)
	assert.Len(t, p.Roles, 4)
	assert.NotEmpty(t, p.Skills)
	assert.Len(t, p.FeaturedProjects(), 4)
	assert.Len(t, p.OtherProjects(), len(p.Projects)-4)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sections:\n  - {id: hero, label: Home}\n"), 0o644))

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Home", p.Sections[0].Label)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		err  string
	}{
		{"no sections", "personal: {name: x}\n", "no sections"},
		{"duplicate ids", "sections:\n  - {id: a}\n  - {id: a}\n", "duplicate section id"},
		{"empty id", "sections:\n  - {label: Home}\n", "has no id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.err)
		})
	}
}

func TestRenderSanitizes(t *testing.T) {
	r := NewRenderer()

	h, err := r.Render("Hello **world** <script>alert(1)</script>")
	require.NoError(t, err)
	assert.Contains(t, string(h), "<strong>world</strong>")
	assert.False(t, strings.Contains(string(h), "<script>"))
}
