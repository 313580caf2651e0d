package observability

import (
	"io"
	"log/slog"
	"strings"

	"github.com/Black-And-White-Club/ultistats/config"
)

// NewLogger builds the process logger from the observability settings. Unknown
// levels fall back to info and unknown formats to JSON.
func NewLogger(cfg config.ObservabilityConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}

	var handler slog.Handler
	if strings.EqualFold(cfg.LogFormat, "text") {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	logger := slog.New(handler)
	if cfg.Environment != "" {
		logger = logger.With(slog.String("env", cfg.Environment))
	}
	return logger
}

func parseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}
