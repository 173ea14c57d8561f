package toolexecutor

import (
	"context"
	"errors"
	"testing"

	"github.com/harun/batai/pkg/schema"
	"github.com/harun/batai/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	s := echoSchema("echo")

	t.Run("validation failure skips handler", func(t *testing.T) {
		called := false
		_, err := Run(context.Background(), s, map[string]any{}, func(ctx context.Context, params map[string]any) (any, error) {
			called = true
			return nil, nil
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, validator.ErrMissingRequiredParameter)
		assert.False(t, called)
	})

	t.Run("handler receives original params", func(t *testing.T) {
		params := map[string]any{"message": "hi"}
		result, err := Run(context.Background(), s, params, func(ctx context.Context, got map[string]any) (any, error) {
			assert.Equal(t, params, got)
			return "ok", nil
		})

		require.NoError(t, err)
		assert.Equal(t, "ok", result)
	})

	t.Run("handler error propagates", func(t *testing.T) {
		_, err := Run(context.Background(), s, map[string]any{"message": "hi"}, func(ctx context.Context, params map[string]any) (any, error) {
			return nil, errors.New("broken")
		})
		assert.EqualError(t, err, "broken")
	})

	t.Run("nil handler", func(t *testing.T) {
		_, err := Run(context.Background(), s, map[string]any{"message": "hi"}, nil)
		assert.Error(t, err)
	})
}

func statsTool(handler Handler) *FlatTool {
	return &FlatTool{
		Name:        "stats",
		Description: "Counts things",
		Parameters: validator.FlatTable{
			"text":  {Type: schema.TypeString, Description: "Text", Required: true},
			"words": {Type: schema.TypeBoolean, Description: "Count words"},
		},
		Handler: handler,
	}
}

func TestFlatTool_Execute(t *testing.T) {
	ok := func(ctx context.Context, params map[string]any) (any, error) {
		return len(params["text"].(string)), nil
	}

	t.Run("success", func(t *testing.T) {
		out := statsTool(ok).Execute(context.Background(), map[string]any{"text": "abc"})
		assert.Equal(t, Output{Success: true, Result: 3}, out)
	})

	t.Run("missing required", func(t *testing.T) {
		out := statsTool(ok).Execute(context.Background(), map[string]any{})
		assert.Equal(t, Output{Success: false, Result: nil, Error: "Missing required parameter: text"}, out)
	})

	t.Run("wrong type", func(t *testing.T) {
		out := statsTool(ok).Execute(context.Background(), map[string]any{"text": "a", "words": "yes"})
		assert.False(t, out.Success)
		assert.Equal(t, "Invalid type for parameter words. Expected boolean, got string", out.Error)
	})

	t.Run("handler error is captured", func(t *testing.T) {
		out := statsTool(func(ctx context.Context, params map[string]any) (any, error) {
			return nil, errors.New("disk full")
		}).Execute(context.Background(), map[string]any{"text": "a"})
		assert.Equal(t, Output{Success: false, Result: nil, Error: "disk full"}, out)
	})

	t.Run("handler panic is captured", func(t *testing.T) {
		out := statsTool(func(ctx context.Context, params map[string]any) (any, error) {
			panic(errors.New("nil dereference"))
		}).Execute(context.Background(), map[string]any{"text": "a"})
		assert.False(t, out.Success)
		assert.Equal(t, "nil dereference", out.Error)
	})

	t.Run("non-error panic value", func(t *testing.T) {
		out := statsTool(func(ctx context.Context, params map[string]any) (any, error) {
			panic(42)
		}).Execute(context.Background(), map[string]any{"text": "a"})
		assert.Equal(t, "unknown error occurred: 42", out.Error)
	})

	t.Run("nil handler", func(t *testing.T) {
		out := statsTool(nil).Execute(context.Background(), map[string]any{"text": "a"})
		assert.False(t, out.Success)
	})
}

func TestFlatTool_ThroughExecutor(t *testing.T) {
	te := New()
	tool := statsTool(func(ctx context.Context, params map[string]any) (any, error) {
		return "counted", nil
	})
	require.NoError(t, te.RegisterFlatTool(tool))

	registered := te.GetTool("stats")
	require.NotNil(t, registered)
	assert.Equal(t, []string{"text"}, registered.Schema().Required)

	result := te.Execute(context.Background(), "stats", map[string]any{"text": "abc"}, nil)
	assert.True(t, result.Success)
	assert.Equal(t, "counted", result.Output)

	// The flat strategy ignores unknown parameters.
	assert.NoError(t, te.Validate("stats", map[string]any{"text": "a", "extra": 1}))

	result = te.Execute(context.Background(), "stats", map[string]any{"text": 1}, nil)
	assert.False(t, result.Success)
	assert.Equal(t, string(validator.TypeMismatch), result.ErrorKind)
}

func TestToolPolicy(t *testing.T) {
	tests := []struct {
		name    string
		policy  *ToolPolicy
		tool    string
		allowed bool
	}{
		{"nil policy allows all", nil, "anything", true},
		{"exact allow", &ToolPolicy{Allow: []string{"echo"}}, "echo", true},
		{"not in allow list", &ToolPolicy{Allow: []string{"echo"}}, "shell", false},
		{"wildcard allow", &ToolPolicy{Allow: []string{"*"}}, "shell", true},
		{"deny overrides allow", &ToolPolicy{Allow: []string{"*"}, Deny: []string{"shell"}}, "shell", false},
		{"glob allow", &ToolPolicy{Allow: []string{"text*"}}, "textJoin", true},
		{"glob deny", &ToolPolicy{Allow: []string{"*"}, Deny: []string{"text*"}}, "textStats", false},
		{"empty allow list", &ToolPolicy{}, "echo", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.policy.IsToolAllowed(tt.tool))
		})
	}
}

func TestToolPolicy_Filter(t *testing.T) {
	policy := &ToolPolicy{Allow: []string{"text*"}, Deny: []string{"textStats"}}

	assert.Equal(t, []string{"textJoin", "textProcessor"},
		policy.Filter([]string{"shell", "textJoin", "textProcessor", "textStats"}))

	var none *ToolPolicy
	assert.Equal(t, []string{"a"}, none.Filter([]string{"a"}))
}

func TestToolPolicy_Validate(t *testing.T) {
	assert.NoError(t, (&ToolPolicy{Allow: []string{"*"}, Deny: []string{"*"}}).Validate())
	assert.NoError(t, (*ToolPolicy)(nil).Validate())
	assert.Error(t, (&ToolPolicy{Allow: []string{"[a-"}}).Validate())
}

func TestExecContextFromContext(t *testing.T) {
	assert.Nil(t, ExecContextFromContext(context.Background()))

	execCtx := &ExecutionContext{ExecutionID: "x"}
	ctx := ContextWithExecContext(context.Background(), execCtx)
	assert.Same(t, execCtx, ExecContextFromContext(ctx))

	assert.NotNil(t, ContextWithExecContext(context.Background(), nil))
}
