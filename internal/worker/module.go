package worker

import (
	"log/slog"
	"time"

	"go.uber.org/fx"

	"github.com/polkiloo/ordernotify/internal/adapter/signal"
	"github.com/polkiloo/ordernotify/internal/alert"
	"github.com/polkiloo/ordernotify/internal/config"
	"github.com/polkiloo/ordernotify/internal/conversation"
	"github.com/polkiloo/ordernotify/internal/notifier"
)

// Module wires the poll loop.
var Module = fx.Provide(newPoller)

const errorCooldown = 5 * time.Second

type pollerParams struct {
	fx.In

	Transport signal.Client
	Engine    *conversation.Engine
	Orders    *notifier.OrderNotifier
	Alerts    alert.Alerter
	Config    *config.Config
	Logger    *slog.Logger
}

func newPoller(p pollerParams) *Poller {
	return NewPoller(p.Transport, p.Engine, p.Orders, p.Alerts, p.Config.PollInterval, errorCooldown, p.Logger)
}
