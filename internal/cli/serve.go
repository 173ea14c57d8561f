package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/harun/batai/internal/config"
	"github.com/harun/batai/internal/metrics"
	"github.com/harun/batai/internal/observability"
	"github.com/harun/batai/internal/server"
	"github.com/harun/batai/pkg/toolexecutor"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	serveHost  string
	servePort  int
	serveWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve tools over HTTP",
	Long: `Serve the registered tools over HTTP: listing, validation, execution,
an MCP endpoint at /mcp and Prometheus metrics at /metrics. The tool policy
is reloaded when the config file changes.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "listen host (overrides config)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (overrides config)")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", true, "reload the tool policy when the config file changes")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := appConfig
	executor, cleanup, err := newExecutor(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.NewMetrics()
		m.SetToolsRegistered(executor.GetToolCount())
		executor.SetRecorder(m)
	}

	host, port := cfg.Server.Host, cfg.Server.Port
	if serveHost != "" {
		host = serveHost
	}
	if servePort != 0 {
		port = servePort
	}

	srv, err := server.New(server.Options{
		Host:     host,
		Port:     port,
		Name:     "batai",
		Version:  version,
		Metrics:  m,
		Redactor: appLogger.Redactor(),
	}, executor, appLogger.GetZerolog())
	if err != nil {
		return err
	}

	if serveWatch {
		if watcher := startWatcher(config.NewLoader(cfgFile).GetConfigPath(), reloadPolicy(executor, m)); watcher != nil {
			defer watcher.Stop()
		}
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Stop(ctx)
}

// startWatcher returns a running config watcher, or nil when the config
// file cannot be watched. Serving continues without hot reload.
func startWatcher(path string, onChange config.ChangeCallback) *config.Watcher {
	if path == "" {
		log.Warn().Msg("Config watcher disabled: no config path")
		return nil
	}

	watcher, err := config.NewWatcher(config.WatcherConfig{Path: path, OnChange: onChange})
	if err != nil {
		log.Warn().Err(err).Msg("Config watcher disabled")
		return nil
	}
	if err := watcher.Start(); err != nil {
		_ = watcher.Stop()
		log.Warn().Err(err).Msg("Config watcher disabled")
		return nil
	}
	return watcher
}

// reloadPolicy applies the tools section of a reloaded config
func reloadPolicy(executor *toolexecutor.ToolExecutor, m *metrics.Metrics) config.ChangeCallback {
	return func(cfg *config.Config) {
		cfg.Tools.Apply(executor)
		if m != nil {
			m.RecordPolicyReload()
		}
		observability.RecordConfigAudit(context.Background(), "policy:reload", "watcher", map[string]any{
			"allow": cfg.Tools.Allow,
			"deny":  cfg.Tools.Deny,
		})
		log.Info().
			Strs("allow", cfg.Tools.Allow).
			Strs("deny", cfg.Tools.Deny).
			Msg("Tool policy reloaded")
	}
}
