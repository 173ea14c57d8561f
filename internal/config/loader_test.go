package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoader(t *testing.T) {
	loader := NewLoader("/path/to/config.json")
	assert.Equal(t, "/path/to/config.json", loader.GetConfigPath())

	assert.Contains(t, NewLoader("").GetConfigPath(), filepath.Join(".batai", "batai.yaml"))
}

func TestLoaderLoad(t *testing.T) {
	t.Run("defaults when file doesn't exist", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.json"))

		require.NoError(t, err)
		defaults := DefaultConfig()
		assert.Equal(t, defaults.Logging, cfg.Logging)
		assert.Equal(t, defaults.Tools.Allow, cfg.Tools.Allow)
		assert.Empty(t, cfg.Tools.Deny)
		assert.Equal(t, defaults.Tools.TimeoutSeconds, cfg.Tools.TimeoutSeconds)
		assert.Equal(t, defaults.Server, cfg.Server)
		assert.Equal(t, defaults.Metrics, cfg.Metrics)
	})

	t.Run("json file", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "batai.json")
		err := os.WriteFile(configPath, []byte(`{
			"logging": {"level": "debug"},
			"tools": {"deny": ["textStats"], "timeout_seconds": 5},
			"server": {"port": 9090}
		}`), 0644)
		require.NoError(t, err)

		cfg, err := Load(configPath)
		require.NoError(t, err)

		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.True(t, cfg.Logging.Redaction, "unset keys keep defaults")
		assert.Equal(t, []string{"*"}, cfg.Tools.Allow)
		assert.Equal(t, []string{"textStats"}, cfg.Tools.Deny)
		assert.Equal(t, 5, cfg.Tools.TimeoutSeconds)
		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	})

	t.Run("yaml file", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "batai.yaml")
		err := os.WriteFile(configPath, []byte(`
tools:
  allow:
    - "text*"
  max_output_size: 2048
metrics:
  enabled: false
`), 0644)
		require.NoError(t, err)

		cfg, err := Load(configPath)
		require.NoError(t, err)

		assert.Equal(t, []string{"text*"}, cfg.Tools.Allow)
		assert.Equal(t, 2048, cfg.Tools.MaxOutputSize)
		assert.False(t, cfg.Metrics.Enabled)
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("BATAI_SERVER_PORT", "9999")
		t.Setenv("BATAI_LOGGING_LEVEL", "warn")

		cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		require.NoError(t, err)

		assert.Equal(t, 9999, cfg.Server.Port)
		assert.Equal(t, "warn", cfg.Logging.Level)
	})

	t.Run("malformed file", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "batai.json")
		require.NoError(t, os.WriteFile(configPath, []byte(`{"logging":`), 0644))

		_, err := Load(configPath)
		assert.Error(t, err)
	})
}

func TestLoaderSave(t *testing.T) {
	for _, name := range []string{"batai.json", "batai.yaml"} {
		t.Run(name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "nested", name)
			loader := NewLoader(configPath)

			cfg := DefaultConfig()
			cfg.Tools.Deny = []string{"textJoin"}
			cfg.Server.Port = 7070

			require.NoError(t, loader.Save(cfg))

			loaded, err := loader.Load()
			require.NoError(t, err)
			assert.Equal(t, []string{"textJoin"}, loaded.Tools.Deny)
			assert.Equal(t, 7070, loaded.Server.Port)
		})
	}
}
