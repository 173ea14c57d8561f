package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harun/batai/pkg/toolexport"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	paramsJSON string
	paramsFile string
)

func addParamsFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&paramsJSON, "params", "", "tool parameters as a JSON object")
	cmd.Flags().StringVar(&paramsFile, "params-file", "", "file holding tool parameters (JSON or YAML)")
	cmd.MarkFlagsMutuallyExclusive("params", "params-file")
}

// loadParams reads params from --params or --params-file; neither means no params
func loadParams() (map[string]any, error) {
	if paramsFile == "" {
		return toolexport.DecodeArguments([]byte(paramsJSON))
	}

	data, err := os.ReadFile(paramsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read params file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(paramsFile)) {
	case ".yaml", ".yml":
		params := map[string]any{}
		if err := yaml.Unmarshal(data, &params); err != nil {
			return nil, fmt.Errorf("failed to parse params file: %w", err)
		}
		return params, nil
	default:
		return toolexport.DecodeArguments(data)
	}
}
