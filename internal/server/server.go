// Package server assembles the router, middleware stack and http.Server, and
// runs the server until its context is cancelled.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/janisto/devsecops-api/internal/http/routes"
	"github.com/janisto/devsecops-api/internal/platform/config"
	applog "github.com/janisto/devsecops-api/internal/platform/logging"
	appmiddleware "github.com/janisto/devsecops-api/internal/platform/middleware"
	"github.com/janisto/devsecops-api/internal/platform/respond"
)

const (
	apiTitle = "DevSecOps API"
	docsPath = "/api-docs"
)

// APIConfig returns the Huma configuration for the service.
//
// Schema link hooks are removed so response bodies contain exactly the
// documented fields. Docs, OpenAPI and schema routes exist only when docs is true.
func APIConfig(version string, docs bool) huma.Config {
	cfg := huma.DefaultConfig(apiTitle, version)
	cfg.CreateHooks = nil
	if docs {
		cfg.DocsPath = docsPath
	} else {
		cfg.DocsPath = ""
		cfg.OpenAPIPath = ""
		cfg.SchemasPath = ""
	}
	return cfg
}

// NewRouter builds the chi router with the shared middleware stack and all routes.
func NewRouter(cfg config.Config, version string) chi.Router {
	router := chi.NewRouter()
	router.NotFound(respond.NotFoundHandler())
	router.MethodNotAllowed(respond.MethodNotAllowedHandler())

	var skipSecurity []string
	if cfg.DocsEnabled {
		skipSecurity = append(skipSecurity, docsPath)
	}
	router.Use(
		appmiddleware.Security(skipSecurity...),
		appmiddleware.Vary(),
		appmiddleware.CORS(),
		appmiddleware.RequestID(),
		// RealIP trusts X-Real-IP / X-Forwarded-For. Only deploy behind a proxy
		// that overwrites them (Cloud Run, nginx).
		chimiddleware.RealIP,
		chimiddleware.RequestSize(cfg.MaxBodyBytes),
		applog.RequestLogger(),
		applog.AccessLogger(),
		respond.Recoverer(),
		appmiddleware.RateLimit(cfg.RateLimit, cfg.RateBurst),
		chimiddleware.GetHead,
	)

	api := humachi.New(router, APIConfig(version, cfg.DocsEnabled))
	api.OpenAPI().OnAddOperation = append(api.OpenAPI().OnAddOperation, addCBORContent)
	routes.Register(api)
	return router
}

// addCBORContent documents application/cbor next to every application/json body.
func addCBORContent(_ *huma.OpenAPI, op *huma.Operation) {
	if op.RequestBody != nil && op.RequestBody.Content != nil {
		if jsonContent, ok := op.RequestBody.Content["application/json"]; ok {
			op.RequestBody.Content["application/cbor"] = jsonContent
		}
	}
	for _, resp := range op.Responses {
		if resp.Content == nil {
			continue
		}
		if jsonContent, ok := resp.Content["application/json"]; ok {
			resp.Content["application/cbor"] = jsonContent
		}
	}
}

// New returns an http.Server configured from cfg and serving handler.
func New(cfg config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
		ErrorLog:          zap.NewStdLog(applog.Logger().Named("http")),
	}
}

// Run serves on ln until ctx is cancelled, then shuts the server down, waiting at most
// shutdownTimeout for in-flight requests. A serve failure is returned immediately.
func Run(ctx context.Context, srv *http.Server, ln net.Listener, shutdownTimeout time.Duration) error {
	serveErr := make(chan error, 1)
	go func() {
		applog.LogInfo(ctx, "server listening", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("serve %s: %w", ln.Addr(), err)
		}
		return nil
	case <-ctx.Done():
		applog.LogInfo(context.Background(), "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	// Serve has returned ErrServerClosed by now; drain so its goroutine is done.
	<-serveErr
	applog.LogInfo(context.Background(), "server exited")
	return nil
}
