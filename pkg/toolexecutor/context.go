package toolexecutor

import (
	"context"
	"time"
)

// ExecutionContext provides runtime information for a tool execution
type ExecutionContext struct {
	ExecutionID string
	CallerID    string // identifies the caller in logs and policy violations
	Timeout     time.Duration
	ToolPolicy  *ToolPolicy // overrides the executor policy when set
}

type execContextKey struct{}

// ContextWithExecContext attaches the execution context to a context.Context for tool handlers.
func ContextWithExecContext(ctx context.Context, execCtx *ExecutionContext) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if execCtx == nil {
		return ctx
	}
	return context.WithValue(ctx, execContextKey{}, execCtx)
}

// ExecContextFromContext extracts the execution context from a context.Context.
func ExecContextFromContext(ctx context.Context) *ExecutionContext {
	if ctx == nil {
		return nil
	}
	if v := ctx.Value(execContextKey{}); v != nil {
		if execCtx, ok := v.(*ExecutionContext); ok {
			return execCtx
		}
	}
	return nil
}
