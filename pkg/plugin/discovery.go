package plugin

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// ManifestFile is the manifest name looked up in every plugin directory
const ManifestFile = "plugin.json"

// PluginDiscovery scans directories to find plugins
type PluginDiscovery struct {
	logger zerolog.Logger
}

// NewPluginDiscovery creates a new plugin discovery instance
func NewPluginDiscovery(logger zerolog.Logger) *PluginDiscovery {
	return &PluginDiscovery{
		logger: logger.With().Str("component", "plugin-discovery").Logger(),
	}
}

// DiscoverPlugins scans the configured directories in order. When the same
// plugin ID appears twice, the later directory wins.
func (d *PluginDiscovery) DiscoverPlugins(config DiscoveryConfig) []DiscoveredPlugin {
	type root struct {
		dir    string
		source PluginSource
	}
	roots := []root{
		{config.UserDir, SourceUser},
		{config.WorkspaceDir, SourceWorkspace},
	}
	for _, dir := range config.ExtraDirs {
		roots = append(roots, root{dir, SourceExtra})
	}

	index := map[string]int{}
	var discovered []DiscoveredPlugin
	for _, r := range roots {
		if r.dir == "" {
			continue
		}
		plugins, err := d.scanDirectory(r.dir, r.source)
		if err != nil {
			d.logger.Warn().Err(err).Str("dir", r.dir).Msg("Failed to scan plugin directory")
			continue
		}
		for _, p := range plugins {
			if i, ok := index[p.ID]; ok {
				d.logger.Debug().
					Str("id", p.ID).
					Str("previous", discovered[i].Path).
					Str("path", p.Path).
					Msg("Plugin overridden")
				discovered[i] = p
				continue
			}
			index[p.ID] = len(discovered)
			discovered = append(discovered, p)
		}
	}

	d.logger.Info().Int("count", len(discovered)).Msg("Plugin discovery completed")
	return discovered
}

// scanDirectory returns every subdirectory of dir holding a manifest
func (d *PluginDiscovery) scanDirectory(dir string, source PluginSource) ([]DiscoveredPlugin, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to stat directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var discovered []DiscoveredPlugin
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		pluginDir := filepath.Join(dir, entry.Name())
		manifestPath := filepath.Join(pluginDir, ManifestFile)
		if _, err := os.Stat(manifestPath); err != nil {
			if !os.IsNotExist(err) {
				d.logger.Warn().Err(err).Str("dir", pluginDir).Msg("Failed to check for manifest")
			}
			continue
		}

		discovered = append(discovered, DiscoveredPlugin{
			ID:           entry.Name(),
			Path:         pluginDir,
			Source:       source,
			ManifestPath: manifestPath,
		})
	}

	return discovered, nil
}
