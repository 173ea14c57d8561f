package config

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Validator validates configuration values
type Validator struct{}

// NewValidator creates a new validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateLogLevel validates a zerolog level name
func (v *Validator) ValidateLogLevel(level string) error {
	if level == "" {
		return nil
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(level)); err != nil {
		return fmt.Errorf("invalid log level: %s (must be: trace, debug, info, warn, error)", level)
	}
	return nil
}

// ValidatePort validates a TCP port
func (v *Validator) ValidatePort(port int) error {
	if port < 0 || port > 65535 {
		return fmt.Errorf("invalid server port: %d", port)
	}
	return nil
}

// ValidateTools validates execution limits and policy patterns
func (v *Validator) ValidateTools(tools ToolsConfig) error {
	if tools.TimeoutSeconds < 0 {
		return fmt.Errorf("tools.timeout_seconds cannot be negative")
	}
	if tools.MaxOutputSize < 0 {
		return fmt.Errorf("tools.max_output_size cannot be negative")
	}
	for _, pattern := range append(append([]string{}, tools.Allow...), tools.Deny...) {
		if strings.TrimSpace(pattern) == "" {
			return fmt.Errorf("tool policy pattern cannot be empty")
		}
	}
	if err := tools.Policy().Validate(); err != nil {
		return fmt.Errorf("invalid tool policy: %w", err)
	}
	return nil
}

// ValidateConfig validates an entire configuration and returns all errors
func (v *Validator) ValidateConfig(cfg *Config) []error {
	var errs []error

	if err := v.ValidateLogLevel(cfg.Logging.Level); err != nil {
		errs = append(errs, err)
	}
	if err := v.ValidateTools(cfg.Tools); err != nil {
		errs = append(errs, err)
	}
	if err := v.ValidatePort(cfg.Server.Port); err != nil {
		errs = append(errs, err)
	}

	return errs
}
