package alert

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/ordernotify/internal/adapter/signal"
	"github.com/polkiloo/ordernotify/internal/adapter/webhook"
	"github.com/polkiloo/ordernotify/internal/config"
	"github.com/polkiloo/ordernotify/internal/logger"
	"github.com/polkiloo/ordernotify/internal/template"
)

// Module wires the fallback notifier.
var Module = fx.Options(
	fx.Provide(newNotifier),
	fx.Provide(func(n *Notifier) Alerter { return n }),
)

type notifierParams struct {
	fx.In

	Transport signal.Client
	Webhook   webhook.Client
	Templates template.Lookup
	Config    *config.Config
	Logger    *slog.Logger
	Critical  *logger.Critical
}

func newNotifier(p notifierParams) *Notifier {
	return NewNotifier(p.Transport, p.Webhook, p.Templates, p.Config.AdminNumber, p.Logger, p.Critical)
}
