package observability

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/harun/batai/internal/tracing"
	"github.com/harun/batai/pkg/toolexecutor"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Audit event types
const (
	EventTool     = "tool"
	EventSecurity = "security"
	EventConfig   = "config"
)

// AuditEvent represents a structured event for the audit log
type AuditEvent struct {
	Type      string         `json:"event_type"`
	Timestamp time.Time      `json:"timestamp"`
	Actor     string         `json:"actor,omitempty"` // caller ID
	Action    string         `json:"action"`          // e.g. "execute:textJoin", "policy:reload"
	Status    string         `json:"status"`          // executor status or "success"
	Metadata  map[string]any `json:"metadata,omitempty"`
	TraceID   string         `json:"trace_id,omitempty"`
}

// AuditLogger writes one JSON line per audit event
type AuditLogger struct {
	logger zerolog.Logger
	mu     sync.Mutex
	file   *os.File
}

var (
	auditMu   sync.RWMutex
	auditInst = NewAuditLogger(io.Discard)
)

// NewAuditLogger creates an audit logger writing to w
func NewAuditLogger(w io.Writer) *AuditLogger {
	return &AuditLogger{
		logger: zerolog.New(w).With().Timestamp().Logger(),
	}
}

// GetAuditLogger returns the global audit logger instance. Events are
// discarded until InitAuditLogger is called.
func GetAuditLogger() *AuditLogger {
	auditMu.RLock()
	defer auditMu.RUnlock()
	return auditInst
}

// SetAuditLogger replaces the global audit logger
func SetAuditLogger(a *AuditLogger) {
	auditMu.Lock()
	auditInst = a
	auditMu.Unlock()
}

// InitAuditLogger points the global audit logger at an append-only file
func InitAuditLogger(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}

	a := NewAuditLogger(file)
	a.file = file
	SetAuditLogger(a)
	return nil
}

// Record emits an audit event, adding it to the active span when there is one
func (a *AuditLogger) Record(ctx context.Context, event AuditEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.Actor == "" {
		event.Actor = tracing.GetCallerID(ctx)
	}

	event.TraceID = tracing.GetTraceID(ctx)
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		if event.TraceID == "" {
			event.TraceID = span.SpanContext().TraceID().String()
		}

		span.AddEvent(event.Action, trace.WithAttributes(
			attribute.String("audit.type", event.Type),
			attribute.String("audit.status", event.Status),
			attribute.String("audit.actor", event.Actor),
		))
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	entry := a.logger.Log().
		Time("event_time", event.Timestamp).
		Str("type", event.Type).
		Str("actor", event.Actor).
		Str("action", event.Action).
		Str("status", event.Status).
		Str("trace_id", event.TraceID)

	if event.Metadata != nil {
		entry.Interface("metadata", event.Metadata)
	}

	entry.Msg("")
}

// Close closes the audit logger's file handle
func (a *AuditLogger) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.file != nil {
		err := a.file.Close()
		a.file = nil
		return err
	}
	return nil
}

func RecordToolAudit(ctx context.Context, toolName, actor, status string, metadata map[string]any) {
	GetAuditLogger().Record(ctx, AuditEvent{
		Type:     EventTool,
		Actor:    actor,
		Action:   "execute:" + toolName,
		Status:   status,
		Metadata: metadata,
	})
}

func RecordSecurityAudit(ctx context.Context, action, actor, status string, metadata map[string]any) {
	GetAuditLogger().Record(ctx, AuditEvent{
		Type:     EventSecurity,
		Actor:    actor,
		Action:   action,
		Status:   status,
		Metadata: metadata,
	})
}

func RecordConfigAudit(ctx context.Context, action, actor string, metadata map[string]any) {
	GetAuditLogger().Record(ctx, AuditEvent{
		Type:     EventConfig,
		Actor:    actor,
		Action:   action,
		Status:   "success",
		Metadata: metadata,
	})
}

// RecordToolResult audits a finished execution. Policy denials are also
// recorded as security events.
func RecordToolResult(ctx context.Context, actor string, result toolexecutor.ToolResult) {
	status := toolexecutor.StatusError
	switch {
	case result.Success:
		status = toolexecutor.StatusSuccess
	case result.Metadata["policy_violation"] == true:
		status = toolexecutor.StatusDenied
		RecordSecurityAudit(ctx, "deny:"+result.Tool, actor, status, nil)
	case result.ErrorKind != "":
		status = toolexecutor.StatusValidationError
	}

	metadata := map[string]any{"execution_id": result.ID}
	if d, ok := result.Metadata["duration"]; ok {
		metadata["duration_ms"] = d
	}
	if result.ErrorKind != "" {
		metadata["error_kind"] = result.ErrorKind
	}
	RecordToolAudit(ctx, result.Tool, actor, status, metadata)
}
