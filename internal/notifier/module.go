package notifier

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/ordernotify/internal/adapter/signal"
	"github.com/polkiloo/ordernotify/internal/alert"
	"github.com/polkiloo/ordernotify/internal/config"
	"github.com/polkiloo/ordernotify/internal/template"
	"github.com/polkiloo/ordernotify/internal/usecase"
)

// Module wires the order notifier.
var Module = fx.Provide(newOrderNotifier)

type notifierParams struct {
	fx.In

	Orders     *usecase.OrderUseCase
	Affiliates *usecase.AffiliateUseCase
	Transport  signal.Client
	Templates  template.Lookup
	Alerts     alert.Alerter
	Config     *config.Config
	Logger     *slog.Logger
}

func newOrderNotifier(p notifierParams) *OrderNotifier {
	return NewOrderNotifier(
		p.Orders,
		p.Affiliates,
		p.Transport,
		p.Templates,
		p.Alerts,
		p.Config.SignalGroupID,
		p.Config.Location(),
		p.Logger,
	)
}
