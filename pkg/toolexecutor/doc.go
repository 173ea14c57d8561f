// Package toolexecutor defines tools and executes them by name.
//
// Invariants:
// - Tool names are unique and schemas pass schema.ToolSchema.Check at registration.
// - Parameters are validated before any tool logic runs.
// - Execute reports every failure (validation, handler error, panic, timeout,
//   policy denial) in the ToolResult instead of returning it.
//
// Usage:
//
//	exec := toolexecutor.New()
//	_ = exec.RegisterTool(toolexecutor.NewDefinition(&schema.ToolSchema{
//		Name:        "echo",
//		Description: "Echo input",
//		Parameters:  map[string]schema.ParameterDefinition{"text": {Type: schema.TypeString, Description: "text"}},
//		Required:    []string{"text"},
//	}, func(ctx context.Context, params map[string]any) (any, error) { return params["text"], nil }))
//	result := exec.Execute(ctx, "echo", map[string]any{"text": "hi"}, nil)
package toolexecutor
