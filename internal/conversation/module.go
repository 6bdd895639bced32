package conversation

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/ordernotify/internal/adapter/signal"
	"github.com/polkiloo/ordernotify/internal/alert"
	"github.com/polkiloo/ordernotify/internal/config"
	"github.com/polkiloo/ordernotify/internal/template"
	"github.com/polkiloo/ordernotify/internal/usecase"
)

// Module wires the conversation store and engine.
var Module = fx.Options(
	fx.Provide(NewStore),
	fx.Provide(newEngine),
)

type engineParams struct {
	fx.In

	Store       *Store
	Affiliates  *usecase.AffiliateUseCase
	Credentials *usecase.CredentialUseCase
	Transport   signal.Client
	Templates   template.Lookup
	Alerts      alert.Alerter
	Config      *config.Config
	Logger      *slog.Logger
}

func newEngine(p engineParams) *Engine {
	return NewEngine(
		p.Store,
		p.Affiliates,
		p.Credentials,
		p.Transport,
		p.Templates,
		p.Alerts,
		EngineConfig{
			AdminNumber:   p.Config.AdminNumber,
			GroupID:       p.Config.SignalGroupID,
			AffiliateLink: p.Config.AffiliateLink,
			Location:      p.Config.Location(),
		},
		p.Logger,
	)
}
