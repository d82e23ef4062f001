package scaffold

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/inkwell"
	"github.com/eringen/inkwell/content"
)

func TestGenerateLoadsCleanly(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "my-notes")
	data := NewData(dir, "https://notes.example/")
	assert.Equal(t, "My Notes", data.SiteName)
	assert.Equal(t, "https://notes.example", data.SiteURL)
	assert.Len(t, data.APIKey, 32)

	created, err := Generate(dir, data)
	require.NoError(t, err)
	assert.Contains(t, created, "inkwell.toml")
	assert.Contains(t, created, ".env.example")
	assert.Contains(t, created, "content/posts/hello-world.md")
	assert.Contains(t, created, "public/images/.gitkeep")

	cfg, err := inkwell.LoadConfig(filepath.Join(dir, "inkwell.toml"))
	require.NoError(t, err)
	assert.Equal(t, data.APIKey, cfg.API.Key)
	assert.Equal(t, "https://notes.example", cfg.Site.URL)
	require.NoError(t, cfg.Validate())

	snap, err := content.Load(context.Background(), content.NewDirSource(filepath.Join(dir, "content")))
	require.NoError(t, err)
	assert.Equal(t, "My Notes", snap.Settings.SiteName)
	require.Len(t, snap.PublishedPosts(), 1)
	assert.Empty(t, snap.Index().DanglingRefs(snap.Posts), "sample references resolve")
	require.Len(t, snap.Pages, 1)
	assert.Equal(t, content.StatusPublished, snap.Pages[0].Status)
	require.Len(t, snap.AffiliateProducts, 1)
	assert.Equal(t, []content.Ref{"welcome"}, snap.Posts[0].Tags)

	env, err := os.ReadFile(filepath.Join(dir, ".env.example"))
	require.NoError(t, err)
	assert.Contains(t, string(env), "INKWELL_API_KEY="+data.APIKey)
}

func TestGenerateRefusesExistingDir(t *testing.T) {
	_, err := Generate(t.TempDir(), NewData("x", ""))
	assert.ErrorIs(t, err, ErrExists)
}

func TestToTitle(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"my-blog", "My Blog"},
		{"myblog", "Myblog"},
		{"field_notes", "Field Notes"},
		{"--x--", "X"},
	}
	for _, tt := range tests {
		if got := toTitle(tt.input); got != tt.expected {
			t.Errorf("toTitle(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
