package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestScrubQuery(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"empty", "", ""},
		{"plain", "input=PLabc&limit=5", "input=PLabc&limit=5"},
		{"api key", "apikey=abc123", "apikey=REDACTED"},
		{"token mixed case", "Token=xyz&q=hi", "Token=REDACTED&q=hi"},
		{"no value", "flag", "flag"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scrubQuery(tt.raw); got != tt.want {
				t.Errorf("scrubQuery(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

type captureRecorder struct {
	method string
	status int
	calls  int
}

func (c *captureRecorder) RecordRequest(method string, status int, seconds float64) {
	c.method = method
	c.status = status
	c.calls++
}

func TestLoggingRecordsRequests(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rec := &captureRecorder{}

	handler := Logging(logger, rec)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/resolve?input=PLabc", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if rec.calls != 1 {
		t.Fatalf("recorder calls = %d, want 1", rec.calls)
	}
	if rec.method != http.MethodGet || rec.status != http.StatusTeapot {
		t.Errorf("recorded %s %d, want GET 418", rec.method, rec.status)
	}
}

func TestLoggingDefaultsStatusOK(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rec := &captureRecorder{}

	handler := Logging(logger, rec)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.status != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.status)
	}
}
