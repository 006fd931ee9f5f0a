// Package config loads runtime settings from the environment, optionally seeded
// from .env files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the server settings. Every field has a default.
type Config struct {
	Port string

	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration

	MaxHeaderBytes int
	MaxBodyBytes   int64

	LogLevel string

	// DocsEnabled exposes the OpenAPI document, schemas and docs UI.
	DocsEnabled bool

	// RateLimit is the global request budget per second; zero disables limiting.
	RateLimit float64
	RateBurst int
}

// Default returns the configuration used when no variables are set.
func Default() Config {
	return Config{
		Port:              "8080",
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		ShutdownTimeout:   10 * time.Second,
		MaxHeaderBytes:    64 << 10,
		MaxBodyBytes:      1 << 20,
		LogLevel:          "info",
	}
}

// Load reads files into the environment with godotenv, never overriding
// variables that are already set, then builds a Config. Missing files are
// skipped. Malformed values are reported rather than replaced by defaults.
func Load(files ...string) (Config, error) {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := Default()
	p := parser{}
	cfg.Port = p.port("PORT", cfg.Port)
	cfg.ReadTimeout = p.duration("READ_TIMEOUT", cfg.ReadTimeout)
	cfg.ReadHeaderTimeout = p.duration("READ_HEADER_TIMEOUT", cfg.ReadHeaderTimeout)
	cfg.WriteTimeout = p.duration("WRITE_TIMEOUT", cfg.WriteTimeout)
	cfg.IdleTimeout = p.duration("IDLE_TIMEOUT", cfg.IdleTimeout)
	cfg.ShutdownTimeout = p.duration("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	cfg.MaxHeaderBytes = p.positiveInt("MAX_HEADER_BYTES", cfg.MaxHeaderBytes)
	cfg.MaxBodyBytes = int64(p.positiveInt("MAX_BODY_BYTES", int(cfg.MaxBodyBytes)))
	cfg.LogLevel = p.str("LOG_LEVEL", cfg.LogLevel)
	cfg.DocsEnabled = p.boolean("API_DOCS", cfg.DocsEnabled)
	cfg.RateLimit = p.nonNegativeFloat("RATE_LIMIT_RPS", cfg.RateLimit)
	cfg.RateBurst = p.nonNegativeInt("RATE_LIMIT_BURST", cfg.RateBurst)
	if err := errors.Join(p.errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Addr is the listen address for http.Server.
func (c Config) Addr() string {
	return ":" + c.Port
}

// parser collects every invalid variable so one run reports them all.
type parser struct {
	errs []error
}

func (p *parser) fail(key, value, reason string) {
	p.errs = append(p.errs, fmt.Errorf("%s=%q: %s", key, value, reason))
}

func (p *parser) str(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func (p *parser) port(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 || n > 65535 {
		p.fail(key, v, "must be a port between 1 and 65535")
		return def
	}
	return v
}

func (p *parser) duration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		p.fail(key, v, "must be a positive duration such as 5s")
		return def
	}
	return d
}

func (p *parser) positiveInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		p.fail(key, v, "must be a positive integer")
		return def
	}
	return n
}

func (p *parser) nonNegativeInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		p.fail(key, v, "must be a non-negative integer")
		return def
	}
	return n
}

func (p *parser) nonNegativeFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		p.fail(key, v, "must be a non-negative number")
		return def
	}
	return f
}

func (p *parser) boolean(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.fail(key, v, "must be true or false")
		return def
	}
	return b
}
