package plugin

import (
	"fmt"
	"sort"
	"sync"
)

// PluginRegistry tracks loaded plugins
type PluginRegistry struct {
	plugins map[string]*LoadedPlugin
	sources map[string]PluginSource
	mu      sync.RWMutex
}

// NewPluginRegistry creates a new plugin registry
func NewPluginRegistry() *PluginRegistry {
	return &PluginRegistry{
		plugins: make(map[string]*LoadedPlugin),
		sources: make(map[string]PluginSource),
	}
}

// Register registers a plugin
func (r *PluginRegistry) Register(plugin *LoadedPlugin, source PluginSource) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.plugins[plugin.ID]; exists {
		return fmt.Errorf("plugin %s already registered", plugin.ID)
	}
	r.plugins[plugin.ID] = plugin
	r.sources[plugin.ID] = source
	return nil
}

// Get retrieves a plugin by ID
func (r *PluginRegistry) Get(pluginID string) (*LoadedPlugin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	plugin, exists := r.plugins[pluginID]
	return plugin, exists
}

// Remove removes a plugin from the registry
func (r *PluginRegistry) Remove(pluginID string) (*LoadedPlugin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	plugin, exists := r.plugins[pluginID]
	if !exists {
		return nil, fmt.Errorf("plugin %s not found", pluginID)
	}
	delete(r.plugins, pluginID)
	delete(r.sources, pluginID)
	return plugin, nil
}

// List returns info on every plugin, sorted by ID
func (r *PluginRegistry) List() []PluginInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]PluginInfo, 0, len(r.plugins))
	for id, p := range r.plugins {
		infos = append(infos, PluginInfo{
			ID:       id,
			Name:     p.Manifest.Name,
			Version:  p.Manifest.Version,
			Source:   string(r.sources[id]),
			State:    p.State,
			Tools:    append([]string(nil), p.Tools...),
			LoadedAt: p.LoadedAt,
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}
