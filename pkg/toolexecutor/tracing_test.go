package toolexecutor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func spanAttr(span sdktrace.ReadOnlySpan, key string) string {
	for _, kv := range span.Attributes() {
		if kv.Key == attribute.Key(key) {
			return kv.Value.Emit()
		}
	}
	return ""
}

func TestToolExecutor_Execute_Spans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	defer otel.SetTracerProvider(previous)

	te := New()
	require.NoError(t, te.RegisterTool(echoTool("echo")))
	require.NoError(t, te.RegisterTool(emptyTool("broken", func(ctx context.Context, params map[string]any) (any, error) {
		return nil, errors.New("boom")
	})))

	ok := te.Execute(context.Background(), "echo", map[string]any{"message": "hi"}, &ExecutionContext{CallerID: "test"})
	require.True(t, ok.Success)
	failed := te.Execute(context.Background(), "broken", map[string]any{}, nil)
	require.False(t, failed.Success)

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	assert.Equal(t, "tool.execute", spans[0].Name())
	assert.Equal(t, "echo", spanAttr(spans[0], "tool.name"))
	assert.Equal(t, "test", spanAttr(spans[0], "tool.caller_id"))
	assert.Equal(t, ok.ID, spanAttr(spans[0], "tool.execution_id"))
	assert.Equal(t, StatusSuccess, spanAttr(spans[0], "tool.status"))
	assert.Equal(t, codes.Unset, spans[0].Status().Code)

	assert.Equal(t, StatusError, spanAttr(spans[1], "tool.status"))
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Equal(t, "boom", spans[1].Status().Description)
}
