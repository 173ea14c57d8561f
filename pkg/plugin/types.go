package plugin

import (
	"time"
)

// PluginState represents the current state of a plugin
type PluginState string

const (
	StateLoading  PluginState = "loading"
	StateEnabled  PluginState = "enabled"
	StateFailed   PluginState = "failed"
	StateUnloaded PluginState = "unloaded"
)

// PluginManifest represents the plugin.json file structure
type PluginManifest struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Version      string             `json:"version"`
	Description  string             `json:"description,omitempty"`
	Author       string             `json:"author,omitempty"`
	Main         string             `json:"main"`
	Host         string             `json:"host,omitempty"` // semver constraint on the batai version
	Dependencies []PluginDependency `json:"dependencies,omitempty"`
	Tools        []string           `json:"tools,omitempty"` // tool names the plugin may register; empty allows any
	Config       map[string]any     `json:"config,omitempty"`
}

// PluginDependency represents a dependency on another plugin
type PluginDependency struct {
	PluginID string `json:"pluginId"`
	Version  string `json:"version,omitempty"` // Semver constraint
}

// PluginSource indicates where a plugin was discovered
type PluginSource string

const (
	SourceUser      PluginSource = "user"
	SourceWorkspace PluginSource = "workspace"
	SourceExtra     PluginSource = "extra"
)

// DiscoveredPlugin represents a plugin found during discovery
type DiscoveredPlugin struct {
	ID           string
	Path         string
	Source       PluginSource
	ManifestPath string
}

// LoadedPlugin represents a running plugin process and the tools it registered
type LoadedPlugin struct {
	ID       string
	Manifest PluginManifest
	State    PluginState
	Tools    []string
	Provider ToolProvider
	LoadedAt time.Time

	kill func()
}

// PluginInfo is a read-only view of a loaded plugin
type PluginInfo struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Version  string      `json:"version"`
	Source   string      `json:"source,omitempty"`
	State    PluginState `json:"state"`
	Tools    []string    `json:"tools"`
	LoadedAt time.Time   `json:"loadedAt"`
}

// LoadResult contains the results of loading plugins
type LoadResult struct {
	Loaded []string         // Successfully loaded plugin IDs
	Failed []string         // Failed plugin IDs
	Errors map[string]error // Errors by plugin ID
}

// DiscoveryConfig lists the directories scanned for plugins
type DiscoveryConfig struct {
	UserDir      string
	WorkspaceDir string
	ExtraDirs    []string
}

// RuntimeConfig configures the plugin runtime
type RuntimeConfig struct {
	DiscoveryConfig
	HostVersion   string
	PluginConfigs map[string]map[string]any
}

// DependencyGraph represents plugin dependencies
type DependencyGraph struct {
	Nodes map[string]*PluginManifest
	Edges map[string][]string // pluginId -> dependencies
}
