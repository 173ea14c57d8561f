package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/harun/batai/pkg/toolexecutor"
	"github.com/spf13/cobra"
)

var pluginsCmd = &cobra.Command{
	Use:   "plugins",
	Short: "Inspect tool plugins",
}

var pluginsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Load plugins and report which loaded",
	Long: `Discover plugins in the configured directories, load them and report
the tools each one registered. Plugins that failed are listed with the reason.`,
	Args: cobra.NoArgs,
	RunE: runPluginsList,
}

func init() {
	pluginsCmd.AddCommand(pluginsListCmd)
	rootCmd.AddCommand(pluginsCmd)
}

func runPluginsList(cmd *cobra.Command, args []string) error {
	if !appConfig.Plugins.Enabled {
		fmt.Fprintln(cmd.OutOrStdout(), "plugins are disabled")
		return nil
	}

	executor := toolexecutor.New()
	runtime, result := loadPlugins(appConfig, executor)
	defer runtime.Shutdown()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tVERSION\tSOURCE\tSTATE\tTOOLS")
	for _, info := range runtime.Plugins() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", info.ID, info.Version, info.Source, info.State, strings.Join(info.Tools, ","))
	}
	for _, id := range result.Failed {
		fmt.Fprintf(w, "%s\t-\t-\tfailed\t%v\n", id, result.Errors[id])
	}
	return w.Flush()
}
