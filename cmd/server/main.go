package main

import (
	"context"
	"errors"
	"net"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/janisto/devsecops-api/internal/platform/config"
	"github.com/janisto/devsecops-api/internal/platform/logging"
	"github.com/janisto/devsecops-api/internal/server"
)

// Version can be overridden at build time: -ldflags "-X main.Version=1.2.3"
var Version = "dev"

func main() {
	if err := run(context.Background(), ".env"); err != nil {
		logging.LogFatal(context.Background(), "server failed", err)
	}
	if err := logging.Sync(); err != nil && !isSyncNoise(err) {
		logging.LogError(context.Background(), "logger sync error", err)
	}
}

func run(parent context.Context, envFiles ...string) error {
	if err := logging.Err(); err != nil {
		logging.LogError(parent, "logger init error", err)
	}

	cfg, err := config.Load(envFiles...)
	if err != nil {
		return err
	}
	if err := logging.SetLevel(cfg.LogLevel); err != nil {
		return err
	}

	srv := server.New(cfg, server.NewRouter(cfg, Version))
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.LogInfo(ctx, "starting", zap.String("version", Version), zap.Bool("docs", cfg.DocsEnabled))
	return server.Run(ctx, srv, ln, cfg.ShutdownTimeout)
}

// isSyncNoise reports errors returned when syncing stdout attached to a terminal or pipe.
func isSyncNoise(err error) bool {
	return errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTTY)
}
