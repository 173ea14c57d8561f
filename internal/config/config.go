package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/harun/batai/internal/logger"
	"github.com/harun/batai/pkg/plugin"
	"github.com/harun/batai/pkg/toolexecutor"
)

// Config represents the main batai configuration
type Config struct {
	Logging LoggingConfig `json:"logging" mapstructure:"logging" yaml:"logging"`
	Tools   ToolsConfig   `json:"tools" mapstructure:"tools" yaml:"tools"`
	Server  ServerConfig  `json:"server" mapstructure:"server" yaml:"server"`
	Metrics MetricsConfig `json:"metrics" mapstructure:"metrics" yaml:"metrics"`
	Plugins PluginsConfig `json:"plugins" mapstructure:"plugins" yaml:"plugins"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level     string `json:"level" mapstructure:"level" yaml:"level"`
	File      string `json:"file" mapstructure:"file" yaml:"file"`
	Pretty    bool   `json:"pretty" mapstructure:"pretty" yaml:"pretty"`
	Redaction bool   `json:"redaction" mapstructure:"redaction" yaml:"redaction"`
	AuditFile string `json:"audit_file" mapstructure:"audit_file" yaml:"audit_file"` // empty disables the audit log
}

// ToolsConfig holds tool execution settings
type ToolsConfig struct {
	Allow          []string `json:"allow" mapstructure:"allow" yaml:"allow"`
	Deny           []string `json:"deny" mapstructure:"deny" yaml:"deny"`
	TimeoutSeconds int      `json:"timeout_seconds" mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	MaxOutputSize  int      `json:"max_output_size" mapstructure:"max_output_size" yaml:"max_output_size"` // bytes
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `json:"host" mapstructure:"host" yaml:"host"`
	Port int    `json:"port" mapstructure:"port" yaml:"port"`
}

// MetricsConfig toggles the Prometheus endpoint
type MetricsConfig struct {
	Enabled bool `json:"enabled" mapstructure:"enabled" yaml:"enabled"`
}

// PluginsConfig controls external tool plugins
type PluginsConfig struct {
	Enabled      bool                      `json:"enabled" mapstructure:"enabled" yaml:"enabled"`
	Dir          string                    `json:"dir" mapstructure:"dir" yaml:"dir"` // default ~/.batai/plugins
	WorkspaceDir string                    `json:"workspace_dir" mapstructure:"workspace_dir" yaml:"workspace_dir"`
	ExtraDirs    []string                  `json:"extra_dirs" mapstructure:"extra_dirs" yaml:"extra_dirs"`
	Settings     map[string]map[string]any `json:"settings" mapstructure:"settings" yaml:"settings"` // per plugin ID, overrides manifest config
}

// DefaultConfig returns a config with default values
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:     "info",
			Pretty:    true,
			Redaction: true,
		},
		Tools: ToolsConfig{
			Allow:          []string{"*"},
			Deny:           []string{},
			TimeoutSeconds: int(toolexecutor.DefaultTimeout / time.Second),
			MaxOutputSize:  toolexecutor.DefaultMaxOutputSize,
		},
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
		Plugins: PluginsConfig{
			Enabled:      true,
			WorkspaceDir: filepath.Join(".batai", "plugins"),
			ExtraDirs:    []string{},
		},
	}
}

// LoggerConfig converts the logging section for logger.New
func (c LoggingConfig) LoggerConfig() logger.Config {
	return logger.Config{
		Level:     c.Level,
		File:      c.File,
		Console:   true,
		Pretty:    c.Pretty,
		Redaction: c.Redaction,
	}
}

// Policy returns the tool policy described by the allow and deny lists
func (c ToolsConfig) Policy() *toolexecutor.ToolPolicy {
	return &toolexecutor.ToolPolicy{
		Allow: append([]string(nil), c.Allow...),
		Deny:  append([]string(nil), c.Deny...),
	}
}

// Timeout returns the execution timeout as a duration
func (c ToolsConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Apply configures an executor from the tools section
func (c ToolsConfig) Apply(executor *toolexecutor.ToolExecutor) {
	executor.SetPolicy(c.Policy())
	executor.SetTimeout(c.Timeout())
	executor.SetMaxOutputSize(c.MaxOutputSize)
}

// RuntimeConfig builds the plugin runtime settings for a host version
func (c PluginsConfig) RuntimeConfig(hostVersion string) plugin.RuntimeConfig {
	dir := c.Dir
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, ".batai", "plugins")
		}
	}

	return plugin.RuntimeConfig{
		DiscoveryConfig: plugin.DiscoveryConfig{
			UserDir:      dir,
			WorkspaceDir: c.WorkspaceDir,
			ExtraDirs:    append([]string(nil), c.ExtraDirs...),
		},
		HostVersion:   hostVersion,
		PluginConfigs: c.Settings,
	}
}

// String returns a JSON representation of the config
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if errs := NewValidator().ValidateConfig(c); len(errs) > 0 {
		return errs[0]
	}
	return nil
}
