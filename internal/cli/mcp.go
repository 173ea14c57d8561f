package cli

import (
	"github.com/harun/batai/pkg/toolexport"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve tools over MCP on stdio",
	Long: `Serve the registered tools as a Model Context Protocol server on
stdin and stdout. Logs go to stderr.`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	executor, cleanup, err := newExecutor(appConfig)
	if err != nil {
		return err
	}
	defer cleanup()

	return server.ServeStdio(toolexport.NewMCPServer(executor, "batai", version))
}
