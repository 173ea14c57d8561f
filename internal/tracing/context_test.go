package tracing

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewTraceID(t *testing.T) {
	id1 := NewTraceID()
	id2 := NewTraceID()

	if id1 == "" {
		t.Error("NewTraceID returned empty string")
	}

	if id1 == id2 {
		t.Error("NewTraceID returned duplicate IDs")
	}
}

func TestContextValues(t *testing.T) {
	ctx := context.Background()

	if GetTraceID(ctx) != "" || GetRequestID(ctx) != "" || GetCallerID(ctx) != "" {
		t.Fatal("empty context should carry no tracing values")
	}

	ctx = WithTraceID(ctx, "trace-1")
	ctx = WithRequestID(ctx, "req-1")
	ctx = WithCallerID(ctx, "cli:alice")

	if got := GetTraceID(ctx); got != "trace-1" {
		t.Errorf("Expected trace ID trace-1, got %s", got)
	}
	if got := GetRequestID(ctx); got != "req-1" {
		t.Errorf("Expected request ID req-1, got %s", got)
	}
	if got := GetCallerID(ctx); got != "cli:alice" {
		t.Errorf("Expected caller ID cli:alice, got %s", got)
	}
}

func TestFromContextAndNewContext(t *testing.T) {
	tc := &TraceContext{TraceID: "t", RequestID: "r"}
	ctx := NewContext(context.Background(), tc)

	got := FromContext(ctx)
	if got.TraceID != "t" || got.RequestID != "r" || got.CallerID != "" {
		t.Errorf("Unexpected trace context: %+v", got)
	}
}

func TestNewRequestContext(t *testing.T) {
	ctx := NewRequestContext(context.Background())
	if GetTraceID(ctx) == "" {
		t.Error("NewRequestContext did not set a trace ID")
	}
}

func TestLoggerFromContext(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf)

	ctx := WithTraceID(context.Background(), "trace-xyz")
	ctx = WithCallerID(ctx, "mcp")

	logger := LoggerFromContext(ctx, base)
	logger.Info().Msg("hello")

	out := buf.String()
	if !strings.Contains(out, `"trace_id":"trace-xyz"`) {
		t.Errorf("trace_id missing from log line: %s", out)
	}
	if !strings.Contains(out, `"caller_id":"mcp"`) {
		t.Errorf("caller_id missing from log line: %s", out)
	}
	if strings.Contains(out, "request_id") {
		t.Errorf("unset request_id should be omitted: %s", out)
	}
}

func TestStartSpan(t *testing.T) {
	if err := InitOpenTelemetry("batai-test", "0.0.0"); err != nil {
		t.Fatalf("InitOpenTelemetry failed: %v", err)
	}

	ctx, span := StartSpan(context.Background(), "unit")
	defer span.End()

	if !span.SpanContext().IsValid() {
		t.Fatal("expected a recording span once the provider is installed")
	}
	if GetTraceID(ctx) != span.SpanContext().TraceID().String() {
		t.Error("trace ID in context should match the span")
	}

	// An existing trace ID is kept.
	ctx = WithTraceID(context.Background(), "given")
	ctx, child := StartSpan(ctx, "child")
	defer child.End()
	if GetTraceID(ctx) != "given" {
		t.Errorf("Expected trace ID given, got %s", GetTraceID(ctx))
	}
}
