package text

import (
	"context"
	"testing"

	"github.com/harun/batai/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessor_ParameterValidation(t *testing.T) {
	processor := NewProcessor()
	ctx := context.Background()

	_, err := processor.Execute(ctx, map[string]any{})
	assert.EqualError(t, err, "Missing required parameter: text")

	_, err = processor.Execute(ctx, map[string]any{"text": "hello"})
	assert.EqualError(t, err, "Missing required parameter: operation")

	_, err = processor.Execute(ctx, map[string]any{"text": "hello", "operation": "invalid"})
	assert.EqualError(t, err, "Parameter operation must be one of: uppercase, lowercase, trim, capitalize")
	assert.ErrorIs(t, err, validator.ErrEnumViolation)

	_, err = processor.Execute(ctx, map[string]any{"text": 5, "operation": "trim"})
	assert.ErrorIs(t, err, validator.ErrTypeMismatch)

	_, err = processor.Execute(ctx, map[string]any{"text": "a", "operation": "trim", "mode": "x"})
	assert.EqualError(t, err, "Unknown parameter: mode")
}

func TestProcessor_Operations(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		operation string
		expected  string
	}{
		{"uppercase", "hello world", OpUppercase, "HELLO WORLD"},
		{"lowercase", "HELLO WORLD", OpLowercase, "hello world"},
		{"trim", "  hello world  ", OpTrim, "hello world"},
		{"capitalize", "hello WORLD", OpCapitalize, "Hello world"},
		{"capitalize empty", "", OpCapitalize, ""},
		{"capitalize unicode", "éCOLE", OpCapitalize, "École"},
		{"capitalize expands first letter", "ßTRASSE", OpCapitalize, "SStrasse"},
		{"uppercase sharp s", "straße", OpUppercase, "STRASSE"},
	}

	processor := NewProcessor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := processor.Execute(context.Background(), map[string]any{
				"text":      tt.text,
				"operation": tt.operation,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestProcessor_Schema(t *testing.T) {
	s := NewProcessor().Schema()

	assert.Equal(t, "textProcessor", s.Name)
	assert.Equal(t, Category, s.Category)
	assert.Equal(t, Version, s.Version)
	assert.Equal(t, []string{"text", "operation"}, s.Required)
	assert.NoError(t, s.Check())
}

func TestProcess_UnsupportedOperation(t *testing.T) {
	_, err := process(context.Background(), map[string]any{"text": "x", "operation": "reverse"})
	assert.EqualError(t, err, "unsupported operation: reverse")
}
