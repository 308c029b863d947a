package cli

import (
	"io"
	"log/slog"
	"strings"

	"github.com/anatolykoptev/go-kit/env"
)

// SetupLogging installs a text slog handler on w at the LOG_LEVEL level
// (default warn).
func SetupLogging(w io.Writer) {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: parseLevel(env.Str("LOG_LEVEL", "warn"))})
	slog.SetDefault(slog.New(h))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
