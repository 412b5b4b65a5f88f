package observability

import (
	"log/slog"
	"os"

	"github.com/couchcryptid/drought-monitor-service/internal/config"
)

// NewLogger builds the service logger from config: JSON or text handler
// per LOG_FORMAT, leveled per LOG_LEVEL. Unknown values fall back to
// info-level JSON.
func NewLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}

	var handler slog.Handler
	if cfg.LogFormat == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch level {
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
