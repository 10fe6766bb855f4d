package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "write", cfg.Flickr.Perms)
	assert.Equal(t, MaxPerPage, cfg.Search.PerPage)
	assert.Equal(t, "machine_tags", cfg.Search.Extras)
	assert.Equal(t, "fixed", cfg.RateLimit.Strategy)
	assert.Equal(t, time.Second, cfg.RateLimit.SearchDelay)
	assert.Equal(t, 500*time.Millisecond, cfg.RateLimit.AddDelay)
	assert.Equal(t, "info", cfg.Logging.Level)

	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("FLICKR_API_KEY", "env-key")
	t.Setenv("FLICKR_API_SECRET", "env-secret")
	t.Setenv("CAMSET_PER_PAGE", "100")
	t.Setenv("CAMSET_SEARCH_DELAY", "2s")
	t.Setenv("CAMSET_LOG_LEVEL", "debug")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, "env-key", cfg.Flickr.APIKey)
	assert.Equal(t, "env-secret", cfg.Flickr.APISecret)
	assert.Equal(t, 100, cfg.Search.PerPage)
	assert.Equal(t, 2*time.Second, cfg.RateLimit.SearchDelay)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadFromEnvIgnoresInvalidValues(t *testing.T) {
	t.Setenv("CAMSET_PER_PAGE", "not-a-number")
	t.Setenv("CAMSET_SEARCH_DELAY", "soon")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, MaxPerPage, cfg.Search.PerPage)
	assert.Equal(t, time.Second, cfg.RateLimit.SearchDelay)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
flickr:
  api_key: file-key
  api_secret: file-secret
  perms: write
search:
  per_page: 250
rate_limit:
  strategy: token_bucket
  requests_per_minute: 30
logging:
  level: warn
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromFile(path))

	assert.Equal(t, "file-key", cfg.Flickr.APIKey)
	assert.Equal(t, 250, cfg.Search.PerPage)
	assert.Equal(t, "token_bucket", cfg.RateLimit.Strategy)
	assert.Equal(t, 30, cfg.RateLimit.RequestsPerMinute)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadFromFileMissingIsFatal(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		valid  bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"no credentials is still valid", func(c *Config) {
			c.Flickr.APIKey = ""
			c.Flickr.APISecret = ""
		}, true},
		{"bad perms", func(c *Config) { c.Flickr.Perms = "admin" }, false},
		{"per_page zero", func(c *Config) { c.Search.PerPage = 0 }, false},
		{"per_page over max", func(c *Config) { c.Search.PerPage = 501 }, false},
		{"bad strategy", func(c *Config) { c.RateLimit.Strategy = "exponential" }, false},
		{"negative delay", func(c *Config) { c.RateLimit.SearchDelay = -time.Second }, false},
		{"zero rpm", func(c *Config) { c.RateLimit.RequestsPerMinute = 0 }, false},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestMergeCommandLineFlags(t *testing.T) {
	cfg := DefaultConfig()

	cfg.MergeCommandLineFlags(map[string]interface{}{
		"api-key":    "flag-key",
		"api-secret": "flag-secret",
		"per-page":   50,
		"log-level":  "debug",
	})

	assert.Equal(t, "flag-key", cfg.Flickr.APIKey)
	assert.Equal(t, "flag-secret", cfg.Flickr.APISecret)
	assert.Equal(t, 50, cfg.Search.PerPage)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("flickr:\n  api_key: file-key\n"), 0600))

	t.Setenv("FLICKR_API_KEY", "env-key")

	// env beats file
	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.Flickr.APIKey)

	// flags beat env
	cfg, err = Load(path, map[string]interface{}{"api-key": "flag-key"})
	require.NoError(t, err)
	assert.Equal(t, "flag-key", cfg.Flickr.APIKey)
}

func TestHasCredentials(t *testing.T) {
	cfg := DefaultConfig()
	assert.False(t, cfg.HasCredentials())

	cfg.Flickr.APIKey = "k"
	assert.False(t, cfg.HasCredentials())

	cfg.Flickr.APISecret = "s"
	assert.True(t, cfg.HasCredentials())
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Flickr.APIKey = "saved-key"
	require.NoError(t, cfg.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded := DefaultConfig()
	require.NoError(t, loaded.LoadFromFile(path))
	assert.Equal(t, "saved-key", loaded.Flickr.APIKey)
}
