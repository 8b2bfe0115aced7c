package observability

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/couchcryptid/weather-analysis/internal/config"
	"github.com/lmittmann/tint"
)

// NewLogger builds the process logger from config and installs it as the
// slog default. JSON output comes from the shared service logger; text
// output swaps in a colourised tint handler at the same level.
func NewLogger(cfg *config.Config) *slog.Logger {
	logger := sharedobs.NewLogger(cfg.LogLevel, "json")
	if cfg.LogFormat == "json" {
		return logger
	}
	logger = newTextLogger(os.Stderr, handlerLevel(logger.Handler()))
	slog.SetDefault(logger)
	return logger
}

func newTextLogger(w io.Writer, level slog.Leveler) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
}

// handlerLevel reports the lowest level h accepts.
func handlerLevel(h slog.Handler) slog.Level {
	for _, lvl := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn} {
		if h.Enabled(context.Background(), lvl) {
			return lvl
		}
	}
	return slog.LevelError
}
