// Package server exposes the tool executor over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/harun/batai/internal/logger"
	"github.com/harun/batai/internal/metrics"
	"github.com/harun/batai/internal/observability"
	"github.com/harun/batai/internal/tracing"
	"github.com/harun/batai/pkg/toolexecutor"
	"github.com/harun/batai/pkg/toolexport"
	"github.com/harun/batai/pkg/validator"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
)

// maxBodySize bounds request bodies carrying tool params
const maxBodySize = 1 << 20

// Options configures the HTTP server
type Options struct {
	Host     string
	Port     int
	Name     string
	Version  string
	Metrics  *metrics.Metrics  // nil disables /metrics
	Redactor *logger.Redactor // masks params in debug logs
}

// Server is the tool HTTP server
type Server struct {
	options   Options
	executor  *toolexecutor.ToolExecutor
	server    *http.Server
	logger    zerolog.Logger
	startTime time.Time
}

// New creates a server for the executor
func New(options Options, executor *toolexecutor.ToolExecutor, logger zerolog.Logger) (*Server, error) {
	if executor == nil {
		return nil, fmt.Errorf("tool executor is required")
	}
	if options.Host == "" {
		options.Host = "127.0.0.1"
	}
	if options.Port == 0 {
		options.Port = 8080
	}
	if options.Name == "" {
		options.Name = "batai"
	}

	return &Server{
		options:   options,
		executor:  executor,
		logger:    logger,
		startTime: time.Now(),
	}, nil
}

// Handler returns the HTTP routes of the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /tools", s.handleListTools)
	mux.HandleFunc("GET /tools/{name}", s.handleGetTool)
	mux.HandleFunc("POST /tools/{name}/validate", s.handleValidate)
	mux.HandleFunc("POST /tools/{name}/execute", s.handleExecute)

	mcp := toolexport.NewMCPServer(s.executor, s.options.Name, s.options.Version)
	mux.Handle("/mcp", mcpserver.NewStreamableHTTPServer(mcp, mcpserver.WithStateLess(true)))

	if s.options.Metrics != nil {
		mux.Handle("GET /metrics", s.options.Metrics.Handler())
	}

	return tracing.Middleware(mux)
}

// Start serves until Stop is called
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.options.Host, s.options.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info().
		Str("host", s.options.Host).
		Int("port", s.options.Port).
		Msg("Starting tool server")

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start tool server: %w", err)
	}
	return nil
}

// Stop gracefully stops the server
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}

	s.logger.Info().Msg("Shutting down tool server")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown tool server: %w", err)
	}
	s.logger.Info().Msg("Tool server stopped")
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"uptime":    time.Since(s.startTime).Seconds(),
		"toolCount": s.executor.GetToolCount(),
		"timestamp": time.Now().UnixMilli(),
	})
}

func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	format := toolexport.Format(r.URL.Query().Get("format"))
	category := r.URL.Query().Get("category")

	schemas := s.executor.Schemas()
	if category != "" {
		names := map[string]bool{}
		for _, name := range s.executor.ToolsByCategory(category) {
			names[name] = true
		}
		filtered := schemas[:0]
		for _, ts := range schemas {
			if names[ts.Name] {
				filtered = append(filtered, ts)
			}
		}
		schemas = filtered
	}

	if format == "" {
		writeJSON(w, http.StatusOK, map[string]any{"tools": schemas})
		return
	}

	declarations, ok := toolexport.Declarations(format, schemas)
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported format: %s", format))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tools": declarations})
}

func (s *Server) handleGetTool(w http.ResponseWriter, r *http.Request) {
	tool := s.executor.GetTool(r.PathValue("name"))
	if tool == nil {
		writeError(w, http.StatusNotFound, "tool not found")
		return
	}
	writeJSON(w, http.StatusOK, tool.Schema())
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	params, ok := s.readParams(w, r)
	if !ok {
		return
	}

	err := s.executor.Validate(name, params)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]any{"valid": true})
	case errors.Is(err, toolexecutor.ErrToolNotFound):
		writeError(w, http.StatusNotFound, "tool not found")
	default:
		response := map[string]any{"valid": false, "error": err.Error()}
		var verr *validator.ValidationError
		if errors.As(err, &verr) {
			response["kind"] = verr.Kind
			response["path"] = verr.Path
		}
		writeJSON(w, http.StatusUnprocessableEntity, response)
	}
}

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if s.executor.GetTool(name) == nil {
		writeError(w, http.StatusNotFound, "tool not found")
		return
	}

	params, ok := s.readParams(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	callerID := tracing.GetCallerID(ctx)
	if callerID == "" {
		callerID = "http:" + r.RemoteAddr
	}

	tracing.LoggerFromContext(ctx, s.logger).Debug().
		Str("tool", name).
		Interface("params", s.options.Redactor.Params(params)).
		Msg("Execute request")

	result := s.executor.Execute(ctx, name, params, &toolexecutor.ExecutionContext{
		CallerID: callerID,
	})
	observability.RecordToolResult(ctx, callerID, result)

	status := http.StatusOK
	switch {
	case result.Success:
	case result.ErrorKind != "":
		status = http.StatusUnprocessableEntity
	case result.Metadata["policy_violation"] == true:
		status = http.StatusForbidden
	}
	writeJSON(w, status, result)
}

// readParams decodes a JSON object body; an empty body means no params
func (s *Server) readParams(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return nil, false
	}

	params, err := toolexport.DecodeArguments(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return params, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}
