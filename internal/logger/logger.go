package logger

import (
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// New creates a preconfigured slog.Logger.
func New() *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	return slog.New(handler)
}

// Critical is the dedicated high-severity sink. It is the last line of
// operator visibility when both alert channels are down, so it writes to
// its own rotated file in addition to whatever the main logger captures.
type Critical struct {
	*slog.Logger
}

// NewCritical creates the critical-error logger writing to dir/critical-errors.log.
func NewCritical(dir string) (*Critical, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	sink := &lumberjack.Logger{
		Filename:   filepath.Join(dir, "critical-errors.log"),
		MaxSize:    10,
		MaxBackups: 7,
		MaxAge:     7,
	}
	handler := slog.NewJSONHandler(sink, &slog.HandlerOptions{Level: slog.LevelWarn})
	return &Critical{Logger: slog.New(handler)}, nil
}
