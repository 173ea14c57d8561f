package plugin

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/rs/zerolog"
	"github.com/xeipuuv/gojsonschema"
)

// ManifestLoader loads and validates plugin manifests
type ManifestLoader struct {
	logger       zerolog.Logger
	schemaLoader gojsonschema.JSONLoader
}

// NewManifestLoader creates a new manifest loader
func NewManifestLoader(logger zerolog.Logger) *ManifestLoader {
	return &ManifestLoader{
		logger:       logger.With().Str("component", "manifest-loader").Logger(),
		schemaLoader: gojsonschema.NewStringLoader(ManifestSchema),
	}
}

// LoadManifest loads and validates a plugin manifest from a file
func (m *ManifestLoader) LoadManifest(path string) (*PluginManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest file: %w", err)
	}

	manifest, err := m.ParseManifest(data)
	if err != nil {
		return nil, err
	}

	m.logger.Debug().
		Str("id", manifest.ID).
		Str("version", manifest.Version).
		Msg("Loaded manifest")

	return manifest, nil
}

// ParseManifest validates manifest JSON against the manifest schema and
// the semantic rules the schema cannot express
func (m *ManifestLoader) ParseManifest(data []byte) (*PluginManifest, error) {
	var manifest PluginManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse manifest JSON: %w", err)
	}

	if err := m.validateSchema(data); err != nil {
		return nil, fmt.Errorf("manifest schema validation failed: %w", err)
	}

	if err := validateManifest(&manifest); err != nil {
		return nil, fmt.Errorf("manifest validation failed: %w", err)
	}

	return &manifest, nil
}

func (m *ManifestLoader) validateSchema(data []byte) error {
	result, err := gojsonschema.Validate(m.schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return fmt.Errorf("schema validation errors: %s", strings.Join(msgs, "; "))
	}

	return nil
}

func validateManifest(manifest *PluginManifest) error {
	if _, err := semver.StrictNewVersion(manifest.Version); err != nil {
		return fmt.Errorf("invalid version format: %s (must be semver: X.Y.Z)", manifest.Version)
	}

	if filepath.IsAbs(manifest.Main) || strings.HasPrefix(filepath.Clean(manifest.Main), "..") {
		return fmt.Errorf("main must stay inside the plugin directory: %s", manifest.Main)
	}

	if manifest.Host != "" {
		if _, err := semver.NewConstraint(manifest.Host); err != nil {
			return fmt.Errorf("invalid host constraint %s: %w", manifest.Host, err)
		}
	}

	for i, dep := range manifest.Dependencies {
		if dep.PluginID == manifest.ID {
			return fmt.Errorf("dependency %d: plugin cannot depend on itself", i)
		}
		if dep.Version != "" {
			if _, err := semver.NewConstraint(dep.Version); err != nil {
				return fmt.Errorf("dependency %d: invalid version constraint %s: %w", i, dep.Version, err)
			}
		}
	}

	return nil
}

// CheckHost reports whether the manifest accepts the given host version
func (m *PluginManifest) CheckHost(hostVersion string) error {
	if m.Host == "" || hostVersion == "" {
		return nil
	}
	return checkVersion(hostVersion, m.Host)
}

// exports reports whether the manifest allows the plugin to register toolName
func (m *PluginManifest) exports(toolName string) bool {
	if len(m.Tools) == 0 {
		return true
	}
	for _, name := range m.Tools {
		if name == toolName {
			return true
		}
	}
	return false
}

func checkVersion(version, constraint string) error {
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("invalid version %s: %w", version, err)
	}

	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("invalid version constraint %s: %w", constraint, err)
	}

	if !c.Check(v) {
		return fmt.Errorf("version %s does not satisfy constraint %s", version, constraint)
	}
	return nil
}
