package tracing

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMiddleware(t *testing.T) {
	var seen *TraceContext
	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	t.Run("propagates headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/tools", nil)
		req.Header.Set(HeaderTraceID, "trace-abc")
		req.Header.Set(HeaderRequestID, "req-1")
		req.Header.Set(HeaderCallerID, "agent-7")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusTeapot {
			t.Errorf("Expected status %d, got %d", http.StatusTeapot, rec.Code)
		}
		if got := rec.Header().Get(HeaderTraceID); got != "trace-abc" {
			t.Errorf("Expected echoed trace ID trace-abc, got %s", got)
		}
		if seen.TraceID != "trace-abc" || seen.RequestID != "req-1" || seen.CallerID != "agent-7" {
			t.Errorf("Unexpected trace context: %+v", seen)
		}
	})

	t.Run("generates trace ID", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		if rec.Header().Get(HeaderTraceID) == "" {
			t.Error("Expected a generated trace ID header")
		}
		if seen.TraceID != rec.Header().Get(HeaderTraceID) {
			t.Error("handler and response should see the same trace ID")
		}
	})
}
