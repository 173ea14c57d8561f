package plugin

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/harun/batai/pkg/toolexecutor"
	"github.com/rs/zerolog"
)

// PluginRuntime discovers plugins, loads them in dependency order and
// keeps their tools registered with the executor
type PluginRuntime struct {
	logger             zerolog.Logger
	discovery          *PluginDiscovery
	manifestLoader     *ManifestLoader
	dependencyResolver *DependencyResolver
	loader             *PluginLoader
	registry           *PluginRegistry
	config             RuntimeConfig

	mu    sync.Mutex
	graph *DependencyGraph
}

// NewPluginRuntime creates a new plugin runtime
func NewPluginRuntime(logger zerolog.Logger, executor *toolexecutor.ToolExecutor, config RuntimeConfig) *PluginRuntime {
	return &PluginRuntime{
		logger:             logger.With().Str("component", "plugin-runtime").Logger(),
		discovery:          NewPluginDiscovery(logger),
		manifestLoader:     NewManifestLoader(logger),
		dependencyResolver: NewDependencyResolver(logger),
		loader:             NewPluginLoader(logger, executor),
		registry:           NewPluginRegistry(),
		config:             config,
		graph:              &DependencyGraph{Nodes: map[string]*PluginManifest{}, Edges: map[string][]string{}},
	}
}

// SetLauncher replaces the process launcher
func (r *PluginRuntime) SetLauncher(launch Launcher) {
	r.loader.launch = launch
}

// Initialize discovers and loads every plugin. A plugin that fails never
// prevents the others from loading, except the plugins depending on it.
func (r *PluginRuntime) Initialize() *LoadResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := &LoadResult{
		Loaded: []string{},
		Failed: []string{},
		Errors: make(map[string]error),
	}
	fail := func(id string, err error) {
		r.logger.Error().Err(err).Str("plugin", id).Msg("Failed to load plugin")
		result.Failed = append(result.Failed, id)
		result.Errors[id] = err
	}

	discovered := r.discovery.DiscoverPlugins(r.config.DiscoveryConfig)
	if len(discovered) == 0 {
		return result
	}

	byID := make(map[string]DiscoveredPlugin, len(discovered))
	manifests := make(map[string]*PluginManifest, len(discovered))
	for _, d := range discovered {
		manifest, err := r.manifestLoader.LoadManifest(d.ManifestPath)
		if err == nil && manifest.ID != d.ID {
			err = fmt.Errorf("manifest id %s does not match directory %s", manifest.ID, d.ID)
		}
		if err == nil {
			err = manifest.CheckHost(r.config.HostVersion)
		}
		if err != nil {
			fail(d.ID, err)
			continue
		}
		byID[d.ID] = d
		manifests[d.ID] = manifest
	}

	r.graph = r.dependencyResolver.BuildDependencyGraph(manifests)
	for id, err := range r.dependencyResolver.ValidateDependencies(r.graph) {
		fail(id, err)
	}

	order, cycles := r.dependencyResolver.LoadOrder(r.graph)
	for id, cycle := range cycles {
		if _, failed := result.Errors[id]; !failed {
			fail(id, fmt.Errorf("plugin is part of dependency cycle: %s", strings.Join(cycle, " -> ")))
		}
	}

	inOrder := make(map[string]bool, len(order))
	for _, id := range order {
		inOrder[id] = true
		if _, failed := result.Errors[id]; failed {
			continue
		}

		if dep := r.failedDependency(id, result.Errors); dep != "" {
			fail(id, fmt.Errorf("dependency %s failed to load", dep))
			continue
		}

		loaded, err := r.loader.LoadPlugin(byID[id], manifests[id], r.config.PluginConfigs[id])
		if err != nil {
			fail(id, err)
			continue
		}
		if err := r.registry.Register(loaded, byID[id].Source); err != nil {
			r.loader.UnloadPlugin(loaded)
			fail(id, err)
			continue
		}
		result.Loaded = append(result.Loaded, id)
	}

	for _, id := range sortedIDs(r.graph) {
		if _, failed := result.Errors[id]; !failed && !inOrder[id] {
			fail(id, fmt.Errorf("plugin depends on a dependency cycle"))
		}
	}

	sort.Strings(result.Failed)

	r.logger.Info().
		Int("loaded", len(result.Loaded)).
		Int("failed", len(result.Failed)).
		Msg("Plugin runtime initialization complete")

	return result
}

func (r *PluginRuntime) failedDependency(id string, errs map[string]error) string {
	for _, dep := range r.graph.Edges[id] {
		if _, failed := errs[dep]; failed {
			return dep
		}
	}
	return ""
}

// Plugins lists loaded plugins
func (r *PluginRuntime) Plugins() []PluginInfo {
	return r.registry.List()
}

// UnloadPlugin stops a plugin and unregisters its tools. Plugins that other
// loaded plugins depend on cannot be unloaded.
func (r *PluginRuntime) UnloadPlugin(pluginID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, dependent := range r.dependencyResolver.Dependents(r.graph, pluginID) {
		if _, loaded := r.registry.Get(dependent); loaded {
			return fmt.Errorf("plugin %s is required by %s", pluginID, dependent)
		}
	}

	loaded, err := r.registry.Remove(pluginID)
	if err != nil {
		return err
	}
	r.loader.UnloadPlugin(loaded)
	return nil
}

// Shutdown unloads every plugin, dependents first
func (r *PluginRuntime) Shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, _ := r.dependencyResolver.LoadOrder(r.graph)
	for i := len(order) - 1; i >= 0; i-- {
		if loaded, err := r.registry.Remove(order[i]); err == nil {
			r.loader.UnloadPlugin(loaded)
		}
	}

	r.logger.Info().Msg("Plugin runtime shutdown complete")
}
