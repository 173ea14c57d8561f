package plugin

import (
	"context"

	"github.com/harun/batai/pkg/schema"
	"github.com/harun/batai/pkg/toolexecutor"
)

// remoteTool is a plugin tool registered with the host executor. Params
// are validated on the host before they cross the process boundary.
type remoteTool struct {
	pluginID string
	schema   *schema.ToolSchema
	provider ToolProvider
}

func (t *remoteTool) Schema() *schema.ToolSchema {
	return t.schema
}

func (t *remoteTool) Execute(ctx context.Context, params map[string]any) (any, error) {
	return toolexecutor.Run(ctx, t.schema, params, func(ctx context.Context, params map[string]any) (any, error) {
		return t.provider.Call(t.schema.Name, params)
	})
}
