package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/harun/batai/internal/config"
	"github.com/harun/batai/internal/logger"
	"github.com/harun/batai/internal/observability"
	"github.com/harun/batai/internal/tracing"
	"github.com/harun/batai/pkg/plugin"
	"github.com/harun/batai/pkg/toolexecutor"
	"github.com/harun/batai/pkg/tools/text"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

var (
	cfgFile  string
	logLevel string

	appConfig *config.Config
	appLogger *logger.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "batai",
	Short: "batai - self-describing tool runner",
	Long: `batai registers schema-described tools, validates their parameters
and executes them from the command line, over HTTP or over MCP.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: teardown,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.batai/batai.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
`)
}

// setup loads the config and installs the logger before any subcommand runs
func setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	l, err := logger.New(cfg.Logging.LoggerConfig())
	if err != nil {
		return err
	}

	if cfg.Logging.AuditFile != "" {
		if err := observability.InitAuditLogger(cfg.Logging.AuditFile); err != nil {
			return fmt.Errorf("failed to open audit log: %w", err)
		}
	} else {
		observability.SetAuditLogger(observability.NewAuditLogger(io.Discard))
	}

	if err := tracing.InitOpenTelemetry("batai", version); err != nil {
		l.Warn().Err(err).Msg("Tracing disabled")
	}

	appConfig = cfg
	appLogger = l
	return nil
}

func teardown(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := tracing.ShutdownOpenTelemetry(ctx); err != nil {
		appLogger.Warn().Err(err).Msg("Failed to flush traces")
	}
	_ = observability.GetAuditLogger().Close()
	_ = appLogger.Close()
}

// newExecutor builds an executor with the configured limits and policy,
// the built-in tools and the tools of every plugin that loads. The returned
// function stops the plugin processes.
func newExecutor(cfg *config.Config) (*toolexecutor.ToolExecutor, func(), error) {
	executor := toolexecutor.New()
	cfg.Tools.Apply(executor)

	if err := text.Register(executor); err != nil {
		return nil, nil, err
	}

	if !cfg.Plugins.Enabled {
		return executor, func() {}, nil
	}

	runtime, _ := loadPlugins(cfg, executor)
	return executor, runtime.Shutdown, nil
}

func loadPlugins(cfg *config.Config, executor *toolexecutor.ToolExecutor) (*plugin.PluginRuntime, *plugin.LoadResult) {
	runtime := plugin.NewPluginRuntime(appLogger.GetZerolog(), executor, cfg.Plugins.RuntimeConfig(version))
	result := runtime.Initialize()
	for _, id := range result.Failed {
		appLogger.Warn().Err(result.Errors[id]).Str("plugin", id).Msg("Plugin not loaded")
	}
	return runtime, result
}

// GetRootCmd returns the root command for testing
func GetRootCmd() *cobra.Command {
	return rootCmd
}

// GetVersion returns the current version
func GetVersion() string {
	return version
}
