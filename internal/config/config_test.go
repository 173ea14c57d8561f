package config

import (
	"testing"
	"time"

	"github.com/harun/batai/pkg/toolexecutor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.NotNil(t, cfg)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Redaction)
	assert.Equal(t, []string{"*"}, cfg.Tools.Allow)
	assert.Equal(t, 30, cfg.Tools.TimeoutSeconds)
	assert.Equal(t, toolexecutor.DefaultMaxOutputSize, cfg.Tools.MaxOutputSize)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.True(t, cfg.Metrics.Enabled)
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{
			name:   "invalid log level",
			mutate: func(c *Config) { c.Logging.Level = "loud" },
			errMsg: "invalid log level",
		},
		{
			name:   "negative timeout",
			mutate: func(c *Config) { c.Tools.TimeoutSeconds = -1 },
			errMsg: "timeout_seconds",
		},
		{
			name:   "negative output size",
			mutate: func(c *Config) { c.Tools.MaxOutputSize = -1 },
			errMsg: "max_output_size",
		},
		{
			name:   "empty pattern",
			mutate: func(c *Config) { c.Tools.Deny = []string{" "} },
			errMsg: "cannot be empty",
		},
		{
			name:   "malformed pattern",
			mutate: func(c *Config) { c.Tools.Allow = []string{"[a-"} },
			errMsg: "invalid tool policy",
		},
		{
			name:   "port out of range",
			mutate: func(c *Config) { c.Server.Port = 70000 },
			errMsg: "invalid server port",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestValidator_ValidateConfig_CollectsAll(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Level = "loud"
	cfg.Server.Port = -1

	errs := NewValidator().ValidateConfig(cfg)
	assert.Len(t, errs, 2)
}

func TestToolsConfig_Apply(t *testing.T) {
	cfg := DefaultConfig().Tools
	cfg.Deny = []string{"textStats"}
	cfg.TimeoutSeconds = 5

	assert.Equal(t, 5*time.Second, cfg.Timeout())

	executor := toolexecutor.New()
	cfg.Apply(executor)

	policy := executor.Policy()
	require.NotNil(t, policy)
	assert.True(t, policy.IsToolAllowed("textJoin"))
	assert.False(t, policy.IsToolAllowed("textStats"))

	// The policy does not alias the config slices.
	cfg.Deny[0] = "other"
	assert.False(t, policy.IsToolAllowed("textStats"))
}

func TestLoggingConfig_LoggerConfig(t *testing.T) {
	lc := LoggingConfig{Level: "debug", File: "/tmp/x.log", Pretty: false, Redaction: true}.LoggerConfig()

	assert.Equal(t, "debug", lc.Level)
	assert.Equal(t, "/tmp/x.log", lc.File)
	assert.True(t, lc.Console)
	assert.True(t, lc.Redaction)
}

func TestConfigString(t *testing.T) {
	assert.Contains(t, DefaultConfig().String(), `"timeout_seconds": 30`)
}

func TestPluginsConfig_RuntimeConfig(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	cfg := DefaultConfig().Plugins
	assert.True(t, cfg.Enabled)

	rc := cfg.RuntimeConfig("0.1.0")
	assert.Equal(t, "/home/tester/.batai/plugins", rc.UserDir)
	assert.Equal(t, ".batai/plugins", rc.WorkspaceDir)
	assert.Equal(t, "0.1.0", rc.HostVersion)

	cfg.Dir = "/opt/batai/plugins"
	cfg.ExtraDirs = []string{"/srv/plugins"}
	cfg.Settings = map[string]map[string]any{"text-extras": {"mode": "fast"}}

	rc = cfg.RuntimeConfig("0.1.0")
	assert.Equal(t, "/opt/batai/plugins", rc.UserDir)
	assert.Equal(t, []string{"/srv/plugins"}, rc.ExtraDirs)
	assert.Equal(t, "fast", rc.PluginConfigs["text-extras"]["mode"])
}
