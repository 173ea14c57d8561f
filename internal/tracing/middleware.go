package tracing

import (
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Headers carrying tracing information in and out of the HTTP server
const (
	HeaderTraceID   = "X-Trace-ID"
	HeaderRequestID = "X-Request-ID"
	HeaderCallerID  = "X-Caller-ID"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Middleware wraps every request in a span. Incoming trace, request and
// caller headers are carried into the request context; the trace ID is
// echoed back in the response.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := NewContext(r.Context(), &TraceContext{
			TraceID:   r.Header.Get(HeaderTraceID),
			RequestID: r.Header.Get(HeaderRequestID),
			CallerID:  r.Header.Get(HeaderCallerID),
		})

		ctx, span := StartSpan(ctx, r.Method+" "+r.URL.Path,
			attribute.String("http.request.method", r.Method),
			attribute.String("url.path", r.URL.Path),
		)
		defer span.End()

		if GetTraceID(ctx) == "" {
			ctx = NewRequestContext(ctx)
		}
		w.Header().Set(HeaderTraceID, GetTraceID(ctx))

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		span.SetAttributes(attribute.Int("http.response.status_code", rec.status))
		if rec.status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(rec.status))
		}
	})
}
