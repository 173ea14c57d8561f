package plugin

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog"
)

// DependencyResolver resolves plugin dependencies and determines load order
type DependencyResolver struct {
	logger zerolog.Logger
}

// NewDependencyResolver creates a new dependency resolver
func NewDependencyResolver(logger zerolog.Logger) *DependencyResolver {
	return &DependencyResolver{
		logger: logger.With().Str("component", "dependency-resolver").Logger(),
	}
}

// BuildDependencyGraph builds a dependency graph keyed by manifest ID
func (r *DependencyResolver) BuildDependencyGraph(manifests map[string]*PluginManifest) *DependencyGraph {
	graph := &DependencyGraph{
		Nodes: make(map[string]*PluginManifest, len(manifests)),
		Edges: make(map[string][]string, len(manifests)),
	}

	for id, manifest := range manifests {
		graph.Nodes[id] = manifest
		deps := make([]string, 0, len(manifest.Dependencies))
		for _, dep := range manifest.Dependencies {
			deps = append(deps, dep.PluginID)
		}
		graph.Edges[id] = deps
	}

	return graph
}

// ValidateDependencies reports, per plugin, the first missing or
// incompatible dependency
func (r *DependencyResolver) ValidateDependencies(graph *DependencyGraph) map[string]error {
	errs := make(map[string]error)

	for _, id := range sortedIDs(graph) {
		for _, dep := range graph.Nodes[id].Dependencies {
			depManifest, ok := graph.Nodes[dep.PluginID]
			if !ok {
				errs[id] = fmt.Errorf("missing dependency: %s", dep.PluginID)
				break
			}
			if dep.Version == "" {
				continue
			}
			if err := checkVersion(depManifest.Version, dep.Version); err != nil {
				errs[id] = fmt.Errorf("incompatible dependency version for %s: %w", dep.PluginID, err)
				break
			}
		}
	}

	for id, err := range errs {
		r.logger.Error().Err(err).Str("plugin", id).Msg("Dependency validation failed")
	}
	return errs
}

// LoadOrder returns plugin IDs with dependencies before dependents. Plugins
// on a cycle are left out and reported in cycles.
func (r *DependencyResolver) LoadOrder(graph *DependencyGraph) (order []string, cycles map[string][]string) {
	const (
		visiting = iota + 1
		done
	)
	state := make(map[string]int, len(graph.Nodes))
	ordered := make(map[string]bool, len(graph.Nodes))
	cycles = map[string][]string{}
	var path []string

	var visit func(id string) bool
	visit = func(id string) bool {
		switch state[id] {
		case done:
			return ordered[id]
		case visiting:
			start := 0
			for i, p := range path {
				if p == id {
					start = i
					break
				}
			}
			cycle := append([]string(nil), path[start:]...)
			for _, member := range cycle {
				cycles[member] = cycle
			}
			return false
		}

		state[id] = visiting
		path = append(path, id)
		ok := true
		for _, dep := range graph.Edges[id] {
			if _, known := graph.Nodes[dep]; !known {
				continue
			}
			if !visit(dep) {
				ok = false
			}
		}
		path = path[:len(path)-1]
		state[id] = done

		if ok && cycles[id] == nil {
			order = append(order, id)
			ordered[id] = true
			return true
		}
		return false
	}

	for _, id := range sortedIDs(graph) {
		visit(id)
	}

	if len(cycles) > 0 {
		r.logger.Warn().Int("plugins", len(cycles)).Msg("Detected dependency cycles")
	}
	r.logger.Debug().Strs("order", order).Msg("Computed load order")
	return order, cycles
}

// Dependents returns the plugins that depend directly on pluginID
func (r *DependencyResolver) Dependents(graph *DependencyGraph, pluginID string) []string {
	var dependents []string
	for _, id := range sortedIDs(graph) {
		for _, dep := range graph.Edges[id] {
			if dep == pluginID {
				dependents = append(dependents, id)
				break
			}
		}
	}
	return dependents
}

func sortedIDs(graph *DependencyGraph) []string {
	ids := make([]string, 0, len(graph.Nodes))
	for id := range graph.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
