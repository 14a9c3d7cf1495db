package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_CreatesDefaults(t *testing.T) {
	t.Setenv("SCRAPI_BASE_URL", "")
	t.Setenv("SCRAPI_TOKEN", "")
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig(), cfg)
	_, err = os.Stat(path)
	require.NoError(t, err, "default config file should be written")
}

func TestLoadFrom_MergesMissingValues(t *testing.T) {
	t.Setenv("SCRAPI_BASE_URL", "")
	t.Setenv("SCRAPI_TOKEN", "")
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[api]
base_url = "https://scrapi.example.com"
token = "secret"

[ui]
page_size = 50
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "https://scrapi.example.com", cfg.API.BaseURL)
	assert.Equal(t, "secret", cfg.API.Token)
	assert.Equal(t, 50, cfg.UI.PageSize)
	assert.Equal(t, 5, cfg.UI.PollIntervalSeconds)
	assert.Equal(t, 50, cfg.UI.HistoryLimit)
	assert.Equal(t, 30, cfg.API.TimeoutSeconds)
	assert.Equal(t, "tmp", cfg.Log.Dir)
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	t.Setenv("SCRAPI_BASE_URL", "http://env.example.com")
	t.Setenv("SCRAPI_TOKEN", "env-token")
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "http://env.example.com", cfg.API.BaseURL)
	assert.Equal(t, "env-token", cfg.API.Token)
}

func TestLoadFrom_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[api\nbase_url ="), 0600))

	_, err := LoadFrom(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestSaveTo_RoundTrip(t *testing.T) {
	t.Setenv("SCRAPI_BASE_URL", "")
	t.Setenv("SCRAPI_TOKEN", "")
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := DefaultConfig()
	cfg.UI.LastPath = "/runs"
	cfg.API.Token = "abc"

	require.NoError(t, SaveTo(cfg, path))
	loaded, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "/runs", loaded.UI.LastPath)
	assert.Equal(t, "abc", loaded.API.Token)
}

func TestConfigPath_EnvOverride(t *testing.T) {
	t.Setenv("SCRAPI_CONFIG", "/tmp/scrapi-test/config.toml")
	p, err := ConfigPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/scrapi-test/config.toml", p)
}
