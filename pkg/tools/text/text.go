// Package text provides example text tools built on the tool framework.
package text

import (
	"errors"
	"fmt"

	"github.com/harun/batai/pkg/toolexecutor"
)

// Category groups the text tools
const Category = "Data Processing"

// Version is reported in the text tool schemas
const Version = "1.0.0"

// Register registers every text tool with the executor
func Register(executor *toolexecutor.ToolExecutor) error {
	if executor == nil {
		return errors.New("tool executor is required")
	}

	for _, tool := range []toolexecutor.Tool{NewProcessor(), NewJoin()} {
		if err := executor.RegisterTool(tool); err != nil {
			return fmt.Errorf("failed to register tool %s: %w", tool.Schema().Name, err)
		}
	}

	stats := NewStats()
	if err := executor.RegisterFlatTool(stats); err != nil {
		return fmt.Errorf("failed to register tool %s: %w", stats.Name, err)
	}
	return nil
}
