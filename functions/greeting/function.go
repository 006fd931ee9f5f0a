// Package greeting serves the greeting and health routes as an HTTP Cloud Function.
package greeting

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	greetingMessage = "Hello from DevSecOps Flask!"
	healthStatus    = "ok"
)

var logger = newLogger()

// newLogger writes JSON with Cloud Logging keys; the function runtime forwards stdout.
func newLogger() *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.MessageKey = "message"
	cfg.EncoderConfig.LevelKey = "severity"
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.OutputPaths = []string{"stdout"}
	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return l.Named("greeting")
}

func init() {
	functions.HTTP("Greeting", Handler().ServeHTTP)
}

// Greeting is the root route payload.
type Greeting struct {
	Message string `json:"message"`
}

// Health is the health route payload.
type Health struct {
	Status string `json:"status"`
}

// Handler routes GET / and GET /health. Everything else is 404, or 405 for a
// known path with another method.
func Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, Greeting{Message: greetingMessage})
	})
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, Health{Status: healthStatus})
	})
	return mux
}

// writeJSON encodes v before committing the status so an encoding failure can
// still be reported as a 500.
func writeJSON(w http.ResponseWriter, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		logger.Error("encode response", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		logger.Warn("write response", zap.Error(err))
	}
}
