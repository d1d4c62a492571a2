package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pscheid92/mcmotd/internal/platform/correlation"
)

// InitLogger installs the process-wide slog default.
// level is one of debug, info, warn, error (anything else means info);
// format is "json" or "text".
func InitLogger(level, format string) *slog.Logger {
	logger := slog.New(NewHandler(os.Stdout, level, format))
	slog.SetDefault(logger)
	return logger
}

// NewHandler builds the correlation-aware handler used by InitLogger.
func NewHandler(w io.Writer, level, format string) slog.Handler {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return correlation.NewHandler(handler)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
