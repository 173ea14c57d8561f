package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/harun/batai/pkg/schema"
	"github.com/harun/batai/pkg/toolexport"
	"github.com/spf13/cobra"
)

var (
	listCategory string
	schemaFormat string
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Inspect registered tools",
}

var toolsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered tools",
	Args:  cobra.NoArgs,
	RunE:  runToolsList,
}

var toolsSchemaCmd = &cobra.Command{
	Use:   "schema <tool>",
	Short: "Print a tool declaration",
	Long: `Print the declaration of a tool as a JSON Schema document, or in the
shape the Anthropic or OpenAI APIs expect.`,
	Args: cobra.ExactArgs(1),
	RunE: runToolsSchema,
}

func init() {
	toolsListCmd.Flags().StringVar(&listCategory, "category", "", "only list tools of this category")
	toolsSchemaCmd.Flags().StringVar(&schemaFormat, "format", string(toolexport.FormatJSON), "declaration format (json, anthropic, openai)")

	toolsCmd.AddCommand(toolsListCmd, toolsSchemaCmd)
	rootCmd.AddCommand(toolsCmd)
}

func runToolsList(cmd *cobra.Command, args []string) error {
	executor, cleanup, err := newExecutor(appConfig)
	if err != nil {
		return err
	}
	defer cleanup()

	names := executor.ListTools()
	if listCategory != "" {
		names = executor.ToolsByCategory(listCategory)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCATEGORY\tALLOWED\tDESCRIPTION")
	policy := executor.Policy()
	for _, name := range names {
		s := executor.GetTool(name).Schema()
		category := s.Category
		if category == "" {
			category = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%t\t%s\n", name, category, policy.IsToolAllowed(name), s.Description)
	}
	return w.Flush()
}

func runToolsSchema(cmd *cobra.Command, args []string) error {
	executor, cleanup, err := newExecutor(appConfig)
	if err != nil {
		return err
	}
	defer cleanup()

	tool := executor.GetTool(args[0])
	if tool == nil {
		return fmt.Errorf("tool not found: %s", args[0])
	}

	declarations, ok := toolexport.Declarations(toolexport.Format(schemaFormat), []*schema.ToolSchema{tool.Schema()})
	if !ok {
		return fmt.Errorf("unsupported format: %s (must be: json, anthropic, openai)", schemaFormat)
	}

	return printJSON(cmd, firstDeclaration(declarations))
}

func firstDeclaration(declarations any) any {
	data, err := json.Marshal(declarations)
	if err != nil {
		return declarations
	}
	var list []json.RawMessage
	if err := json.Unmarshal(data, &list); err != nil || len(list) != 1 {
		return declarations
	}
	return list[0]
}

func printJSON(cmd *cobra.Command, v any) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
