package inkwell

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "inkwell.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
[server]
addr = ":8080"

[site]
url = "https://example.com"

[content]
driver = "sqlite"
cache_ttl = "30s"

[api]
key = "from-file"
max_per_page = 50
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "https://example.com", cfg.Site.URL)
	assert.Equal(t, DriverSQLite, cfg.Content.Driver)
	assert.Equal(t, "content", cfg.Content.Dir)
	assert.Equal(t, 30*time.Second, cfg.Content.CacheTTL)
	assert.True(t, cfg.Content.Watch)
	assert.Equal(t, "from-file", cfg.API.Key)
	assert.Equal(t, 50, cfg.API.MaxPerPage)
	assert.Equal(t, 20, cfg.API.AuthFailuresPerMinute)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("INKWELL_API_KEY", "from-env")
	t.Setenv("INKWELL_ADDR", ":9000")
	t.Setenv("INKWELL_CONTENT_DIR", "/srv/content")

	cfg, err := LoadConfig(writeConfig(t, "[api]\nkey = \"from-file\"\n"))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.API.Key)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "/srv/content", cfg.Content.Dir)

	cfg, err = LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.API.Key, "no file still reads the environment")
}

func TestLoadConfigZeroTTL(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "[content]\ncache_ttl = \"0s\"\n"))
	require.NoError(t, err)
	assert.Zero(t, cfg.Content.CacheTTL)
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "[api]\nkey = \"k\"\napi_secret = \"typo\"\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api.api_secret")
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Content.Driver = "postgres"
	cfg.Log.Format = "xml"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api.key")
	assert.Contains(t, err.Error(), `"postgres"`)
	assert.Contains(t, err.Error(), `"xml"`)

	cfg = DefaultConfig()
	cfg.API.Key = "k"
	assert.NoError(t, cfg.Validate())
}

func TestInitRejectsInvalidConfig(t *testing.T) {
	a := New(DefaultConfig())
	assert.Error(t, a.Init(t.Context()))
}
