package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. BATAI_SERVER_PORT
const EnvPrefix = "BATAI"

// Loader handles configuration loading
type Loader struct {
	configPath string
}

// NewLoader creates a new config loader
func NewLoader(configPath string) *Loader {
	return &Loader{
		configPath: configPath,
	}
}

// Load reads the config file, if present, over the defaults and applies
// environment overrides. A missing file is not an error.
func (l *Loader) Load() (*Config, error) {
	configPath := l.GetConfigPath()

	v := newViper(configPath)

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to stat config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// Save saves the configuration to file
func (l *Loader) Save(cfg *Config) error {
	configPath := l.GetConfigPath()
	if configPath == "" {
		return fmt.Errorf("failed to determine config path")
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType(configType(configPath))

	v.Set("logging", cfg.Logging)
	v.Set("tools", cfg.Tools)
	v.Set("server", cfg.Server)
	v.Set("metrics", cfg.Metrics)
	v.Set("plugins", cfg.Plugins)

	if err := v.WriteConfig(); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetConfigPath returns the config file path
func (l *Loader) GetConfigPath() string {
	if l.configPath != "" {
		return l.configPath
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".batai", "batai.yaml")
}

// Load is a convenience function that creates a loader and loads the config
func Load(configPath string) (*Config, error) {
	return NewLoader(configPath).Load()
}

func newViper(configPath string) *viper.Viper {
	v := viper.New()
	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType(configType(configPath))
	}

	defaults := DefaultConfig()
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.file", defaults.Logging.File)
	v.SetDefault("logging.pretty", defaults.Logging.Pretty)
	v.SetDefault("logging.redaction", defaults.Logging.Redaction)
	v.SetDefault("logging.audit_file", defaults.Logging.AuditFile)
	v.SetDefault("tools.allow", defaults.Tools.Allow)
	v.SetDefault("tools.deny", defaults.Tools.Deny)
	v.SetDefault("tools.timeout_seconds", defaults.Tools.TimeoutSeconds)
	v.SetDefault("tools.max_output_size", defaults.Tools.MaxOutputSize)
	v.SetDefault("server.host", defaults.Server.Host)
	v.SetDefault("server.port", defaults.Server.Port)
	v.SetDefault("metrics.enabled", defaults.Metrics.Enabled)
	v.SetDefault("plugins.enabled", defaults.Plugins.Enabled)
	v.SetDefault("plugins.dir", defaults.Plugins.Dir)
	v.SetDefault("plugins.workspace_dir", defaults.Plugins.WorkspaceDir)
	v.SetDefault("plugins.extra_dirs", defaults.Plugins.ExtraDirs)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

func configType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}
