package logger

import (
	"io"
	"regexp"
	"strings"
)

// Redacted replaces masked values
const Redacted = "[REDACTED]"

// Redactor masks credentials in log lines and tool parameters
type Redactor struct {
	patterns  []*regexp.Regexp
	sensitive []string
}

// NewRedactor creates a redactor for provider keys, bearer tokens and
// key=value secrets
func NewRedactor() *Redactor {
	return &Redactor{
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`sk-(ant-)?[a-zA-Z0-9_-]{20,}`),
			regexp.MustCompile(`Bearer\s+[a-zA-Z0-9._-]+`),
			regexp.MustCompile(`AKIA[0-9A-Z]{16}`),
			regexp.MustCompile(`(?i)(password|secret|api_key)["\s:=]+[^\s",}]+`),
		},
		sensitive: []string{"password", "secret", "token", "api_key", "apikey", "credential"},
	}
}

// AddPattern adds a custom redaction pattern
func (r *Redactor) AddPattern(pattern string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return err
	}
	r.patterns = append(r.patterns, re)
	return nil
}

// Redact masks sensitive substrings
func (r *Redactor) Redact(s string) string {
	for _, pattern := range r.patterns {
		s = pattern.ReplaceAllString(s, Redacted)
	}
	return s
}

// Params returns a copy of tool params safe to log: values under
// sensitive-looking keys are masked at any depth, strings are redacted.
// A nil redactor returns params unchanged.
func (r *Redactor) Params(params map[string]any) map[string]any {
	if r == nil || params == nil {
		return params
	}

	masked := make(map[string]any, len(params))
	for key, value := range params {
		if r.isSensitive(key) {
			masked[key] = Redacted
			continue
		}
		masked[key] = r.value(value)
	}
	return masked
}

func (r *Redactor) value(v any) any {
	switch t := v.(type) {
	case string:
		return r.Redact(t)
	case map[string]any:
		return r.Params(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = r.value(item)
		}
		return out
	}
	return v
}

func (r *Redactor) isSensitive(key string) bool {
	key = strings.ToLower(key)
	for _, name := range r.sensitive {
		if strings.Contains(key, name) {
			return true
		}
	}
	return false
}

// Wrap wraps an io.Writer so every write is redacted
func (r *Redactor) Wrap(w io.Writer) io.Writer {
	return &redactingWriter{writer: w, redactor: r}
}

type redactingWriter struct {
	writer   io.Writer
	redactor *Redactor
}

func (w *redactingWriter) Write(p []byte) (int, error) {
	if _, err := w.writer.Write([]byte(w.redactor.Redact(string(p)))); err != nil {
		return 0, err
	}
	return len(p), nil
}
