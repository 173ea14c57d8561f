package toolexecutor

import (
	"context"
	"errors"
	"fmt"

	"github.com/harun/batai/pkg/schema"
	"github.com/harun/batai/pkg/validator"
)

// Output is the outcome of a result-wrapped execution
type Output struct {
	Success bool   `json:"success"`
	Result  any    `json:"result"`
	Error   string `json:"error,omitempty"`
}

// FlatTool is the result-wrapped tool variant. Params are checked against
// a flat table (required presence and primitive kind only) and every
// failure, including handler errors and panics, is reported in Output
// instead of being returned.
type FlatTool struct {
	Name        string
	Description string
	Parameters  validator.FlatTable
	Handler     Handler
}

// Execute validates params and runs the handler inside a failure boundary
func (t *FlatTool) Execute(ctx context.Context, params map[string]any) Output {
	result, err := t.Call(ctx, params)
	if err != nil {
		return Output{Success: false, Result: nil, Error: err.Error()}
	}
	return Output{Success: true, Result: result}
}

// Call is Execute with failures returned as errors. Validation failures
// are *validator.ValidationError; handler panics are recovered.
func (t *FlatTool) Call(ctx context.Context, params map[string]any) (result any, err error) {
	if err := validator.ValidateFlat(t.Parameters, params); err != nil {
		return nil, err
	}
	if t.Handler == nil {
		return nil, errors.New("tool handler cannot be nil")
	}

	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = panicError(r)
		}
	}()

	return t.Handler(ctx, params)
}

// Schema describes the flat table as a ToolSchema
func (t *FlatTool) Schema() *schema.ToolSchema {
	return t.Parameters.ToolSchema(t.Name, t.Description)
}

// Strategy returns the flat validation strategy of this tool
func (t *FlatTool) Strategy() validator.Strategy {
	return validator.NewFlat(t.Parameters)
}

func panicError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	if msg, ok := r.(string); ok {
		return errors.New(msg)
	}
	return fmt.Errorf("unknown error occurred: %v", r)
}

// flatAdapter lets a FlatTool be registered next to schema-declared tools
type flatAdapter struct {
	flat   *FlatTool
	schema *schema.ToolSchema
}

func (a *flatAdapter) Schema() *schema.ToolSchema {
	return a.schema
}

func (a *flatAdapter) Execute(ctx context.Context, params map[string]any) (any, error) {
	return a.flat.Call(ctx, params)
}
