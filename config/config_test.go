package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "", cfg.Data.Dir)
	assert.Equal(t, EngineBleve, cfg.Search.Engine)
	assert.Equal(t, "", cfg.Search.IndexPath)
	assert.Equal(t, 50, cfg.Search.MaxResults)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
}

func TestDefaultIgnoresEnvironment(t *testing.T) {
	t.Setenv("DELTAVALUE_SERVER_PORT", "0")
	t.Setenv("DELTAVALUE_LOGGING_FORMAT", "xml")

	var cfg *Config
	require.NotPanics(t, func() { cfg = Default() })
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  read_timeout: 5s
  cors_origins:
    - http://localhost:5173
data:
  dir: /srv/catalog
search:
  engine: substring
  index_path: /var/lib/deltavalue/stocks.bleve
  max_results: 10
logging:
  level: debug
  format: json
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "/srv/catalog", cfg.Data.Dir)
	assert.Equal(t, EngineSubstring, cfg.Search.Engine)
	assert.Equal(t, "/var/lib/deltavalue/stocks.bleve", cfg.Search.IndexPath)
	assert.Equal(t, 10, cfg.Search.MaxResults)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9090\n")
	t.Setenv("DELTAVALUE_SERVER_PORT", "7070")
	t.Setenv("DELTAVALUE_LOGGING_LEVEL", "warn")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadFromFileInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"port out of range", "server:\n  port: 70000\n"},
		{"unknown log format", "logging:\n  format: xml\n"},
		{"unknown log level", "logging:\n  level: loud\n"},
		{"unknown search engine", "search:\n  engine: solr\n"},
		{"zero max results", "search:\n  max_results: 0\n"},
		{"negative timeout", "server:\n  write_timeout: -1s\n"},
		{"file without size", "logging:\n  file: /tmp/d.log\n  max_size_mb: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.content))
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}
