package toolexecutor

import (
	"context"
	"errors"

	"github.com/harun/batai/pkg/schema"
	"github.com/harun/batai/pkg/validator"
)

// Tool is a named unit exposing a schema and an execution function.
// Execute validates params against Schema before any tool logic runs and
// returns the validation error unchanged on failure.
type Tool interface {
	Schema() *schema.ToolSchema
	Execute(ctx context.Context, params map[string]any) (any, error)
}

// Handler is tool-specific logic, called only with validated params
type Handler func(ctx context.Context, params map[string]any) (any, error)

// Run validates params against s and, on success, invokes h with the
// original params.
func Run(ctx context.Context, s *schema.ToolSchema, params map[string]any, h Handler) (any, error) {
	if err := validator.Validate(s, params); err != nil {
		return nil, err
	}
	if h == nil {
		return nil, errors.New("tool handler cannot be nil")
	}
	return h(ctx, params)
}

// Definition pairs a schema with a handler to form a Tool
type Definition struct {
	ToolSchema *schema.ToolSchema
	Handler    Handler
}

// NewDefinition creates a Tool from a schema and its handler
func NewDefinition(s *schema.ToolSchema, h Handler) *Definition {
	return &Definition{ToolSchema: s, Handler: h}
}

func (d *Definition) Schema() *schema.ToolSchema {
	return d.ToolSchema
}

func (d *Definition) Execute(ctx context.Context, params map[string]any) (any, error) {
	return Run(ctx, d.ToolSchema, params, d.Handler)
}
