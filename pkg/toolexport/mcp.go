package toolexport

import (
	"context"
	"encoding/json"

	"github.com/harun/batai/pkg/schema"
	"github.com/harun/batai/pkg/toolexecutor"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"
)

// MCPCallerID identifies executions that arrive over MCP
const MCPCallerID = "mcp"

// MCPTool declares a tool for the Model Context Protocol
func MCPTool(s *schema.ToolSchema) mcp.Tool {
	raw, err := json.Marshal(s.JSONSchema())
	if err != nil {
		// The document is built from plain maps, slices and strings.
		raw = []byte(`{"type":"object"}`)
	}
	return mcp.NewToolWithRawSchema(s.Name, s.Description, raw)
}

// NewMCPServer exposes the executor's tools over MCP. Tools denied by the
// executor policy at construction time are not listed; calls still go
// through the executor and its current policy.
func NewMCPServer(executor *toolexecutor.ToolExecutor, name, version string) *server.MCPServer {
	s := server.NewMCPServer(
		name,
		version,
		server.WithToolCapabilities(true),
	)

	policy := executor.Policy()
	for _, ts := range executor.Schemas() {
		if !policy.IsToolAllowed(ts.Name) {
			continue
		}
		s.AddTool(MCPTool(ts), MCPHandler(executor, ts.Name))
	}

	log.Debug().
		Str("name", name).
		Int("tools", executor.GetToolCount()).
		Msg("MCP server initialized")

	return s
}

// MCPHandler executes one tool for an MCP tools/call request. Tool
// failures are reported as error results, never as protocol errors.
func MCPHandler(executor *toolexecutor.ToolExecutor, toolName string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		params := request.GetArguments()
		if params == nil {
			params = map[string]any{}
		}

		result := executor.Execute(ctx, toolName, params, &toolexecutor.ExecutionContext{
			CallerID: MCPCallerID,
		})

		content, isError := Render(result)
		return &mcp.CallToolResult{
			Content: []mcp.Content{mcp.NewTextContent(content)},
			IsError: isError,
		}, nil
	}
}
