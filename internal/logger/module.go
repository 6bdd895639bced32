package logger

import (
	"go.uber.org/fx"

	"github.com/polkiloo/ordernotify/internal/config"
)

// Module wires slog loggers for dependency injection.
var Module = fx.Provide(
	New,
	func(cfg *config.Config) (*Critical, error) { return NewCritical(cfg.LogDir) },
)
