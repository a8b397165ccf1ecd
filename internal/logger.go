package internal

import (
	"io"
	"log/slog"
	"time"
)

// NewLogger returns the service logger. prod writes JSON with RFC 3339 times;
// any other env writes text. Debug level adds source locations.
func NewLogger(w io.Writer, env string, level string) *slog.Logger {
	l := new(slog.LevelVar) // Info by default
	if level != "" {
		var parsed slog.Level
		if err := parsed.UnmarshalText([]byte(level)); err != nil {
			slog.Default().Warn("Invalid log level. Using default level: info", slog.String("value", level))
		} else {
			l.Set(parsed)
		}
	}

	opts := &slog.HandlerOptions{
		Level:     l,
		AddSource: l.Level() <= slog.LevelDebug,
	}

	var h slog.Handler
	switch env {
	case "prod":
		opts.ReplaceAttr = func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.String(slog.TimeKey, a.Value.Time().UTC().Format(time.RFC3339Nano))
			}
			return a
		}
		h = slog.NewJSONHandler(w, opts)
	default:
		h = slog.NewTextHandler(w, opts)
	}

	return slog.New(h).With(slog.String("service", "tally"))
}
