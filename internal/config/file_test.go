package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParseFile_YAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
app:
  log_level: debug
adapter:
  http_address: http://remote:8080
  request_timeout: 3s
storage:
  db:
    dsn: lists.db
sync:
  max_replay_attempts: 2
workers:
  probe_interval: 1000000000
`)

	cfg, err := parseFile(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, "http://remote:8080", cfg.Adapter.HTTPAddress)
	assert.Equal(t, 3*time.Second, cfg.Adapter.RequestTimeout)
	assert.Equal(t, "lists.db", cfg.Storage.DB.DSN)
	assert.Equal(t, 2, cfg.Sync.MaxReplayAttempts)
	assert.Equal(t, time.Second, cfg.Workers.ProbeInterval)
}

func TestParseFile_JSON(t *testing.T) {
	path := writeFile(t, "config.json", `{"server":{"http_address":"localhost:9000","request_timeout":"1m"},"workers":{"probe_interval":5000000000}}`)

	cfg, err := parseFile(path)
	require.NoError(t, err)

	assert.Equal(t, "localhost:9000", cfg.Server.HTTPAddress)
	assert.Equal(t, time.Minute, cfg.Server.RequestTimeout)
	assert.Equal(t, 5*time.Second, cfg.Workers.ProbeInterval)
}

func TestParseFile_Errors(t *testing.T) {
	t.Run("bad duration", func(t *testing.T) {
		path := writeFile(t, "config.json", `{"adapter":{"request_timeout":"soon"}}`)
		_, err := parseFile(path)
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeFile(t, "config.yml", "adapter: [")
		_, err := parseFile(path)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := parseFile(filepath.Join(t.TempDir(), "nope.json"))
		assert.Error(t, err)
	})
}

func TestDuration_MarshalJSON(t *testing.T) {
	b, err := Duration(90 * time.Second).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"1m30s"`, string(b))
}
