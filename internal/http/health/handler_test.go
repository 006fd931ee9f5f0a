package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor"
	"github.com/fxamacker/cbor/v2"
	"github.com/go-chi/chi/v5"
)

func newTestRouter() chi.Router {
	router := chi.NewRouter()
	cfg := huma.DefaultConfig("HealthTest", "test")
	cfg.CreateHooks = nil
	api := humachi.New(router, cfg)
	Register(api)
	return router
}

func TestHealthHandler(t *testing.T) {
	router := newTestRouter()

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", ct)
	}
	if body := strings.TrimSpace(resp.Body.String()); body != `{"status":"ok"}` {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestHealthHandlerCBOR(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Accept", "application/cbor")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if ct := resp.Header().Get("Content-Type"); ct != "application/cbor" {
		t.Fatalf("expected application/cbor, got %s", ct)
	}
	var h Response
	if err := cbor.Unmarshal(resp.Body.Bytes(), &h); err != nil {
		t.Fatalf("cbor unmarshal: %v", err)
	}
	if h.Status != StatusOK {
		t.Fatalf("expected status %q, got %q", StatusOK, h.Status)
	}
}

func TestHealthHandlerIgnoresQueryString(t *testing.T) {
	router := newTestRouter()

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health?status=down", nil))

	var h Response
	if err := json.Unmarshal(resp.Body.Bytes(), &h); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if h.Status != StatusOK {
		t.Fatalf("expected status 'ok', got %s", h.Status)
	}
}

func TestHealthOperationDocumented(t *testing.T) {
	router := chi.NewRouter()
	api := humachi.New(router, huma.DefaultConfig("HealthTest", "test"))
	Register(api)

	op := api.OpenAPI().Paths["/health"].Get
	if op == nil || op.OperationID != "get-health" {
		t.Fatalf("expected get-health operation, got %+v", op)
	}
}
