package config

import (
	"io"
	"log/slog"
	"strings"
)

// SlogLevel maps the configured level to a slog level. "warning" is accepted
// alongside "warn" so the level reads like a feedback severity. Unknown
// names fall back to info; Validate rejects them earlier.
func (l LoggingConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Handler builds the handler the configuration selects, writing to w.
// Source locations are attached at debug level.
func (l LoggingConfig) Handler(w io.Writer) slog.Handler {
	level := l.SlogLevel()
	opts := &slog.HandlerOptions{Level: level, AddSource: level == slog.LevelDebug}
	if strings.EqualFold(l.Format, "json") {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}
