package cli

import (
	"errors"
	"fmt"

	"github.com/harun/batai/pkg/validator"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <tool>",
	Short: "Validate parameters against a tool schema",
	Long: `Validate parameters against a tool schema without executing the tool.
The first violation is reported together with its kind and path.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	addParamsFlags(validateCmd)
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	executor, cleanup, err := newExecutor(appConfig)
	if err != nil {
		return err
	}
	defer cleanup()

	params, err := loadParams()
	if err != nil {
		return err
	}

	if err := executor.Validate(args[0], params); err != nil {
		var verr *validator.ValidationError
		if errors.As(err, &verr) {
			return fmt.Errorf("%s (%s at %s)", verr.Message, verr.Kind, verr.Path)
		}
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "valid")
	return nil
}
