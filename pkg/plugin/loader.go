package plugin

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/harun/batai/pkg/toolexecutor"
	"github.com/hashicorp/go-hclog"
	goplugin "github.com/hashicorp/go-plugin"
	"github.com/rs/zerolog"
)

// Launcher starts the plugin executable at path and returns its provider
// together with a function that stops it
type Launcher func(path string) (ToolProvider, func(), error)

// PluginLoader starts plugin processes and registers their tools
type PluginLoader struct {
	logger   zerolog.Logger
	executor *toolexecutor.ToolExecutor
	launch   Launcher
}

// NewPluginLoader creates a loader registering tools with executor
func NewPluginLoader(logger zerolog.Logger, executor *toolexecutor.ToolExecutor) *PluginLoader {
	l := &PluginLoader{
		logger:   logger.With().Str("component", "plugin-loader").Logger(),
		executor: executor,
	}
	l.launch = l.launchProcess
	return l
}

// launchProcess runs the executable under go-plugin and dispenses its provider
func (l *PluginLoader) launchProcess(path string) (ToolProvider, func(), error) {
	client := goplugin.NewClient(&goplugin.ClientConfig{
		HandshakeConfig:  Handshake,
		Plugins:          PluginMap,
		Cmd:              exec.Command(path),
		AllowedProtocols: []goplugin.Protocol{goplugin.ProtocolNetRPC},
		Logger: hclog.New(&hclog.LoggerOptions{
			Name:   "plugin",
			Output: l.logger,
			Level:  hclog.Warn,
		}),
	})

	rpcClient, err := client.Client()
	if err != nil {
		client.Kill()
		return nil, nil, fmt.Errorf("failed to connect to plugin: %w", err)
	}

	raw, err := rpcClient.Dispense(PluginName)
	if err != nil {
		client.Kill()
		return nil, nil, fmt.Errorf("failed to dispense plugin: %w", err)
	}

	provider, ok := raw.(ToolProvider)
	if !ok {
		client.Kill()
		return nil, nil, fmt.Errorf("unexpected plugin type %T", raw)
	}

	return provider, client.Kill, nil
}

// LoadPlugin starts a plugin, activates it and registers every tool it
// exports. Nothing stays registered or running when loading fails.
func (l *PluginLoader) LoadPlugin(discovered DiscoveredPlugin, manifest *PluginManifest, config map[string]any) (*LoadedPlugin, error) {
	pluginPath := filepath.Join(discovered.Path, manifest.Main)
	if _, err := os.Stat(pluginPath); err != nil {
		return nil, fmt.Errorf("plugin executable not found: %s", pluginPath)
	}

	provider, kill, err := l.launch(pluginPath)
	if err != nil {
		return nil, err
	}

	if config == nil {
		config = manifest.Config
	}
	if err := provider.Activate(config); err != nil {
		kill()
		return nil, fmt.Errorf("failed to activate plugin: %w", err)
	}

	schemas, err := provider.Schemas()
	if err != nil {
		kill()
		return nil, fmt.Errorf("failed to list plugin tools: %w", err)
	}

	loaded := &LoadedPlugin{
		ID:       manifest.ID,
		Manifest: *manifest,
		State:    StateLoading,
		Provider: provider,
		LoadedAt: time.Now(),
		kill:     kill,
	}

	for _, s := range schemas {
		if s == nil {
			continue
		}
		if !manifest.exports(s.Name) {
			l.rollback(loaded)
			return nil, fmt.Errorf("plugin %s does not export tool %s", manifest.ID, s.Name)
		}
		if s.Category == "" {
			s.Category = manifest.Name
		}

		tool := &remoteTool{pluginID: manifest.ID, schema: s, provider: provider}
		if err := l.executor.RegisterTool(tool); err != nil {
			l.rollback(loaded)
			return nil, fmt.Errorf("failed to register tool %s: %w", s.Name, err)
		}
		loaded.Tools = append(loaded.Tools, s.Name)
	}

	loaded.State = StateEnabled

	l.logger.Info().
		Str("id", manifest.ID).
		Str("version", manifest.Version).
		Strs("tools", loaded.Tools).
		Msg("Plugin loaded successfully")

	return loaded, nil
}

// UnloadPlugin removes the plugin's tools and stops its process
func (l *PluginLoader) UnloadPlugin(loaded *LoadedPlugin) {
	l.rollback(loaded)
	loaded.State = StateUnloaded
	l.logger.Info().Str("id", loaded.ID).Msg("Plugin unloaded")
}

func (l *PluginLoader) rollback(loaded *LoadedPlugin) {
	for _, name := range loaded.Tools {
		l.executor.UnregisterTool(name)
	}
	loaded.Tools = nil
	if loaded.kill != nil {
		loaded.kill()
		loaded.kill = nil
	}
}
