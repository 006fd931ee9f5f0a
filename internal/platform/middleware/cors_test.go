package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func containsHeader(headerValue, target string) bool {
	for part := range strings.SplitSeq(headerValue, ",") {
		if strings.EqualFold(strings.TrimSpace(part), target) {
			return true
		}
	}
	return false
}

func TestCORSAllowsGETFromAnyOrigin(t *testing.T) {
	called := false
	h := CORS()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "http://localhost/health", nil)
	req.Header.Set("Origin", "http://example.com")
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)

	if !called {
		t.Fatal("expected downstream handler to be called for GET request")
	}
	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected Access-Control-Allow-Origin '*', got %q", got)
	}
	exposed := resp.Header().Get("Access-Control-Expose-Headers")
	for _, want := range []string{"Link", "X-Request-Id", "Retry-After"} {
		if !containsHeader(exposed, want) {
			t.Fatalf("expected Access-Control-Expose-Headers to contain %q, got %q", want, exposed)
		}
	}
}

func TestCORSHandlesPreflightWithoutCallingNext(t *testing.T) {
	tests := []struct {
		name    string
		headers string
	}{
		{"request id", "X-Request-ID"},
		{"traceparent", "traceparent"},
		{"accept", "Accept"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			h := CORS()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
				called = true
			}))

			req := httptest.NewRequest(http.MethodOptions, "http://localhost/", nil)
			req.Header.Set("Origin", "http://example.com")
			req.Header.Set("Access-Control-Request-Method", http.MethodGet)
			req.Header.Set("Access-Control-Request-Headers", tt.headers)
			resp := httptest.NewRecorder()
			h.ServeHTTP(resp, req)

			if called {
				t.Fatal("expected preflight to be answered by the CORS middleware")
			}
			if resp.Code != http.StatusOK {
				t.Fatalf("expected status 200 for preflight, got %d", resp.Code)
			}
			if got := resp.Header().Get("Access-Control-Allow-Headers"); !containsHeader(got, tt.headers) {
				t.Fatalf("expected Access-Control-Allow-Headers to contain %q, got %q", tt.headers, got)
			}
		})
	}
}

func TestCORSRejectsUnsafeMethodPreflight(t *testing.T) {
	h := CORS()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	req := httptest.NewRequest(http.MethodOptions, "http://localhost/", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodDelete)
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)

	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected no Access-Control-Allow-Origin for DELETE preflight, got %q", got)
	}
}
