package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, DefaultSource, cfg.Data.Source)
	assert.Equal(t, 30*time.Second, cfg.Data.FetchTimeout)
	assert.Zero(t, cfg.Data.ReloadInterval)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("COT_SERVER_PORT", "9090")
	t.Setenv("COT_DATA_SOURCE", "file:///tmp/cot.csv")
	t.Setenv("COT_DATA_RELOAD_INTERVAL", "1h")
	t.Setenv("COT_LOGGING_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "file:///tmp/cot.csv", cfg.Data.Source)
	assert.Equal(t, time.Hour, cfg.Data.ReloadInterval)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadInvalidPort(t *testing.T) {
	t.Setenv("COT_SERVER_PORT", "99999")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadInvalidLogLevel(t *testing.T) {
	t.Setenv("COT_LOGGING_LEVEL", "verbose")

	_, err := Load()
	assert.Error(t, err)
}

func TestConfigFileMerge(t *testing.T) {
	dir := t.TempDir()
	content := "server:\n  port: 7070\ndata:\n  source: /data/cot.csv\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0644))

	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(cwd) })

	t.Run("file values used when env unset", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 7070, cfg.Server.Port)
		assert.Equal(t, "/data/cot.csv", cfg.Data.Source)
	})

	t.Run("environment wins over file", func(t *testing.T) {
		t.Setenv("COT_SERVER_PORT", "9090")
		t.Setenv("COT_DATA_SOURCE", "file:///env/cot.csv")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, "file:///env/cot.csv", cfg.Data.Source)
	})
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.Logging.Format = "xml"
	assert.Error(t, cfg.Validate())
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.True(t, cfg.Security.EnableCORS)
	assert.True(t, cfg.Security.RateLimit.Enabled)
	assert.Equal(t, DefaultSource, cfg.Data.Source)
}
