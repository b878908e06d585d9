package main

import (
	"io"
	"log/slog"

	"github.com/c360/s8rbridge/config"
)

// newLogger builds the process logger from the logging section. Reports go
// to stdout, so callers pass stderr here.
func newLogger(w io.Writer, cfg config.LoggingConfig) *slog.Logger {
	return slog.New(cfg.Handler(w)).With("service", appName, "version", Version)
}
