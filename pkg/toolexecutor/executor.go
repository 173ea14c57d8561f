package toolexecutor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/harun/batai/pkg/schema"
	"github.com/harun/batai/pkg/validator"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/harun/batai/pkg/toolexecutor"

const (
	// DefaultTimeout bounds a single tool execution
	DefaultTimeout = 30 * time.Second
	// DefaultMaxOutputSize is the rendered output size above which output is truncated
	DefaultMaxOutputSize = 10 * 1024
)

// Execution statuses reported to the Recorder
const (
	StatusSuccess         = "success"
	StatusError           = "error"
	StatusValidationError = "validation_error"
	StatusTimeout         = "timeout"
	StatusDenied          = "denied"
	StatusNotFound        = "not_found"
)

var (
	ErrToolNotFound      = errors.New("tool not found")
	ErrToolAlreadyExists = errors.New("tool already registered")
)

// Recorder receives execution measurements
type Recorder interface {
	RecordExecution(tool, status string, duration time.Duration)
	RecordValidationFailure(tool string, kind validator.ErrorKind)
}

// ToolResult represents the result of a tool execution
type ToolResult struct {
	ID        string         `json:"id"`
	Tool      string         `json:"tool"`
	Success   bool           `json:"success"`
	Output    any            `json:"output,omitempty"`
	Error     string         `json:"error,omitempty"`
	ErrorKind string         `json:"error_kind,omitempty"`
	Truncated bool           `json:"truncated,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

type registeredTool struct {
	tool     Tool
	strategy validator.Strategy
}

// ToolExecutor registers tools and executes them by name
type ToolExecutor struct {
	tools         map[string]Tool
	strategies    map[string]validator.Strategy
	policy        *ToolPolicy
	recorder      Recorder
	timeout       time.Duration
	maxOutputSize int
	mu            sync.RWMutex
}

// New creates a new ToolExecutor
func New() *ToolExecutor {
	te := &ToolExecutor{
		tools:         make(map[string]Tool),
		strategies:    make(map[string]validator.Strategy),
		policy:        nil, // Policy is optional
		recorder:      nil, // Metrics are optional
		timeout:       DefaultTimeout,
		maxOutputSize: DefaultMaxOutputSize,
	}

	log.Debug().Msg("Tool executor initialized")

	return te
}

// SetPolicy replaces the default tool policy. A nil policy allows every tool.
func (te *ToolExecutor) SetPolicy(policy *ToolPolicy) {
	te.mu.Lock()
	defer te.mu.Unlock()
	te.policy = policy
	log.Info().
		Bool("enabled", policy != nil).
		Msg("Tool policy configured")
}

// Policy returns the current default tool policy
func (te *ToolExecutor) Policy() *ToolPolicy {
	te.mu.RLock()
	defer te.mu.RUnlock()
	return te.policy
}

// SetRecorder sets the metrics recorder
func (te *ToolExecutor) SetRecorder(recorder Recorder) {
	te.mu.Lock()
	defer te.mu.Unlock()
	te.recorder = recorder
}

// SetTimeout sets the default execution timeout
func (te *ToolExecutor) SetTimeout(timeout time.Duration) {
	te.mu.Lock()
	defer te.mu.Unlock()
	if timeout > 0 {
		te.timeout = timeout
	}
}

// SetMaxOutputSize sets the truncation limit for rendered output
func (te *ToolExecutor) SetMaxOutputSize(size int) {
	te.mu.Lock()
	defer te.mu.Unlock()
	if size > 0 {
		te.maxOutputSize = size
	}
}

// RegisterTool registers a schema-declared tool
func (te *ToolExecutor) RegisterTool(tool Tool) error {
	if tool == nil {
		return fmt.Errorf("invalid tool definition: tool cannot be nil")
	}
	s := tool.Schema()
	return te.register(registeredTool{tool: tool, strategy: validator.NewRecursive(s)}, s)
}

// RegisterFlatTool registers a result-wrapped tool. Through the executor
// it is validated with the flat strategy and reported like any other tool.
func (te *ToolExecutor) RegisterFlatTool(tool *FlatTool) error {
	if tool == nil {
		return fmt.Errorf("invalid tool definition: tool cannot be nil")
	}
	s := tool.Schema()
	adapter := &flatAdapter{flat: tool, schema: s}
	return te.register(registeredTool{tool: adapter, strategy: tool.Strategy()}, s)
}

func (te *ToolExecutor) register(rt registeredTool, s *schema.ToolSchema) error {
	if err := s.Check(); err != nil {
		return fmt.Errorf("invalid tool definition: %w", err)
	}

	te.mu.Lock()
	defer te.mu.Unlock()

	if _, exists := te.tools[s.Name]; exists {
		return fmt.Errorf("%w: %s", ErrToolAlreadyExists, s.Name)
	}

	te.tools[s.Name] = rt.tool
	te.strategies[s.Name] = rt.strategy

	log.Info().
		Str("tool", s.Name).
		Str("strategy", rt.strategy.Name()).
		Str("category", categoryOf(rt.tool)).
		Msg("Tool registered")

	return nil
}

// UnregisterTool removes a tool
func (te *ToolExecutor) UnregisterTool(name string) {
	te.mu.Lock()
	defer te.mu.Unlock()

	delete(te.tools, name)
	delete(te.strategies, name)

	log.Info().Str("tool", name).Msg("Tool unregistered")
}

// GetTool returns a registered tool, or nil
func (te *ToolExecutor) GetTool(name string) Tool {
	te.mu.RLock()
	defer te.mu.RUnlock()

	return te.tools[name]
}

// ListTools returns all registered tool names, sorted
func (te *ToolExecutor) ListTools() []string {
	te.mu.RLock()
	defer te.mu.RUnlock()

	tools := make([]string, 0, len(te.tools))
	for name := range te.tools {
		tools = append(tools, name)
	}
	sort.Strings(tools)

	return tools
}

// GetToolCount returns the number of registered tools
func (te *ToolExecutor) GetToolCount() int {
	te.mu.RLock()
	defer te.mu.RUnlock()

	return len(te.tools)
}

// Schemas returns the schemas of all registered tools, sorted by name
func (te *ToolExecutor) Schemas() []*schema.ToolSchema {
	names := te.ListTools()

	te.mu.RLock()
	defer te.mu.RUnlock()

	schemas := make([]*schema.ToolSchema, 0, len(names))
	for _, name := range names {
		if tool, ok := te.tools[name]; ok {
			schemas = append(schemas, tool.Schema())
		}
	}
	return schemas
}

// Validate checks params with the tool's validation strategy without executing it
func (te *ToolExecutor) Validate(toolName string, params map[string]any) error {
	te.mu.RLock()
	strategy := te.strategies[toolName]
	te.mu.RUnlock()

	if strategy == nil {
		return fmt.Errorf("%w: %s", ErrToolNotFound, toolName)
	}
	return strategy.Validate(params)
}

// Execute executes a tool with the given parameters. Failures of any
// kind are reported in the result, never returned or panicked.
func (te *ToolExecutor) Execute(ctx context.Context, toolName string, params map[string]any, execCtx *ExecutionContext) ToolResult {
	startTime := time.Now()

	te.mu.RLock()
	tool := te.tools[toolName]
	policy := te.policy
	recorder := te.recorder
	timeout := te.timeout
	te.mu.RUnlock()

	callCtx := ExecutionContext{}
	if execCtx != nil {
		callCtx = *execCtx
	}
	execCtx = &callCtx
	if execCtx.ExecutionID == "" {
		execCtx.ExecutionID = uuid.NewString()
	}
	if execCtx.ToolPolicy != nil {
		policy = execCtx.ToolPolicy
	}
	if execCtx.Timeout > 0 {
		timeout = execCtx.Timeout
	}

	result := ToolResult{ID: execCtx.ExecutionID, Tool: toolName}
	logger := log.With().
		Str("tool", toolName).
		Str("execution_id", execCtx.ExecutionID).
		Logger()

	ctx, span := otel.Tracer(tracerName).Start(ctx, "tool.execute", trace.WithAttributes(
		attribute.String("tool.name", toolName),
		attribute.String("tool.execution_id", execCtx.ExecutionID),
		attribute.String("tool.caller_id", execCtx.CallerID),
	))
	defer span.End()

	finish := func(status string) ToolResult {
		duration := time.Since(startTime)
		span.SetAttributes(attribute.String("tool.status", status))
		if status != StatusSuccess {
			span.SetStatus(codes.Error, result.Error)
		}
		if result.Metadata == nil {
			result.Metadata = map[string]any{}
		}
		result.Metadata["duration"] = duration.Milliseconds()
		if recorder != nil {
			recorder.RecordExecution(toolName, status, duration)
		}
		return result
	}

	if !policy.IsToolAllowed(toolName) {
		logger.Warn().
			Str("caller_id", execCtx.CallerID).
			Msg("Tool execution blocked by policy")
		result.Error = fmt.Sprintf("tool '%s' is not allowed by policy", toolName)
		result.Metadata = map[string]any{"policy_violation": true}
		return finish(StatusDenied)
	}

	if tool == nil {
		logger.Error().Msg("Tool not found")
		result.Error = fmt.Sprintf("%v: %s", ErrToolNotFound, toolName)
		return finish(StatusNotFound)
	}

	logger.Debug().Msg("Executing tool")

	timeoutCtx, cancel := context.WithTimeout(ContextWithExecContext(ctx, execCtx), timeout)
	defer cancel()

	type outcome struct {
		value any
		err   error
	}
	done := make(chan outcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("tool panicked: %v", r)}
			}
		}()
		value, err := tool.Execute(timeoutCtx, params)
		done <- outcome{value: value, err: err}
	}()

	select {
	case out := <-done:
		if out.err != nil {
			result.Error = out.err.Error()

			if kind, ok := validator.KindOf(out.err); ok {
				result.ErrorKind = string(kind)
				logger.Warn().
					Str("kind", string(kind)).
					Err(out.err).
					Msg("Parameter validation failed")
				if recorder != nil {
					recorder.RecordValidationFailure(toolName, kind)
				}
				return finish(StatusValidationError)
			}

			logger.Error().
				Dur("duration", time.Since(startTime)).
				Err(out.err).
				Msg("Tool execution failed")
			return finish(StatusError)
		}

		output, truncated := te.truncateOutput(out.value)
		result.Success = true
		result.Output = output
		result.Truncated = truncated

		logger.Debug().
			Dur("duration", time.Since(startTime)).
			Bool("truncated", truncated).
			Msg("Tool execution completed")
		return finish(StatusSuccess)

	case <-timeoutCtx.Done():
		if errors.Is(timeoutCtx.Err(), context.DeadlineExceeded) {
			logger.Error().
				Dur("duration", time.Since(startTime)).
				Msg("Tool execution timeout")
			result.Error = fmt.Sprintf("tool execution timeout after %v", timeout)
			return finish(StatusTimeout)
		}

		logger.Warn().Msg("Tool execution cancelled")
		result.Error = fmt.Sprintf("tool execution cancelled: %v", timeoutCtx.Err())
		return finish(StatusError)
	}
}

// truncateOutput truncates output if it exceeds the size limit. Strings are
// measured as-is, anything else by its JSON encoding. The cut never splits
// a UTF-8 sequence.
func (te *ToolExecutor) truncateOutput(output any) (any, bool) {
	te.mu.RLock()
	maxSize := te.maxOutputSize
	te.mu.RUnlock()

	str := renderOutput(output)
	if len(str) <= maxSize {
		return output, false
	}

	cut := maxSize
	for cut > 0 && !utf8.RuneStart(str[cut]) {
		cut--
	}

	truncated := str[:cut] + "\n... [output truncated]"
	log.Warn().
		Int("original", len(str)).
		Int("truncated", cut).
		Msg("Output truncated")

	return truncated, true
}

func renderOutput(output any) string {
	if str, ok := output.(string); ok {
		return str
	}
	data, err := json.Marshal(output)
	if err != nil {
		return fmt.Sprintf("%v", output)
	}
	return string(data)
}
