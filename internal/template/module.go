package template

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/ordernotify/internal/config"
)

// Module wires the template store and its file watcher lifecycle.
var Module = fx.Options(
	fx.Provide(
		func(cfg *config.Config, logger *slog.Logger) *Store {
			return NewStore(cfg.TemplatesFile, logger)
		},
		func(s *Store) Lookup { return s },
	),
	fx.Invoke(registerLifecycle),
)

func registerLifecycle(lc fx.Lifecycle, store *Store, logger *slog.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			if err := store.Watch(); err != nil {
				// Hot reload is a convenience, not a requirement.
				logger.Error("template watcher disabled", slog.String("error", err.Error()))
			}
			return nil
		},
		OnStop: func(context.Context) error {
			store.Close()
			return nil
		},
	})
}
