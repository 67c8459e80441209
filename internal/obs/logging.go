// Package obs contains observability utilities such as logging and telemetry.
package obs

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger is the global structured logger used by the service.
var Logger = slog.Default()

// ParseLevel accepts debug, info, warn and error in any case.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

// InitLogger installs a JSON logger on stdout as both Logger and the slog
// default.
func InitLogger(level slog.Level) {
	InitLoggerTo(os.Stdout, level)
}

func InitLoggerTo(w io.Writer, level slog.Level) {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	Logger = slog.New(h)
	slog.SetDefault(Logger)
}
