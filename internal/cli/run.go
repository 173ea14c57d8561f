package cli

import (
	"errors"
	"os"

	"github.com/harun/batai/internal/observability"
	"github.com/harun/batai/internal/tracing"
	"github.com/harun/batai/pkg/toolexecutor"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <tool>",
	Short: "Execute a tool",
	Long: `Execute a tool and print its result as JSON. The command fails when
validation or the tool itself fails.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	addParamsFlags(runCmd)
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	executor, cleanup, err := newExecutor(appConfig)
	if err != nil {
		return err
	}
	defer cleanup()

	params, err := loadParams()
	if err != nil {
		return err
	}

	callerID := "cli:" + currentUser()
	ctx := tracing.WithCallerID(tracing.NewRequestContext(cmd.Context()), callerID)

	tracing.LoggerFromContext(ctx, appLogger.GetZerolog()).Debug().
		Str("tool", args[0]).
		Interface("params", appLogger.Redactor().Params(params)).
		Msg("Running tool")

	result := executor.Execute(ctx, args[0], params, &toolexecutor.ExecutionContext{
		CallerID: callerID,
	})
	observability.RecordToolResult(ctx, callerID, result)

	if err := printJSON(cmd, result); err != nil {
		return err
	}
	if !result.Success {
		return errors.New(result.Error)
	}
	return nil
}

func currentUser() string {
	if user := os.Getenv("USER"); user != "" {
		return user
	}
	return "unknown"
}
