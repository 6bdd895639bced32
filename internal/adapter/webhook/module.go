package webhook

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/ordernotify/internal/config"
)

// Module wires the webhook fallback client.
var Module = fx.Options(
	fx.Provide(newClient),
	fx.Provide(func(c *HTTPClient) Client { return c }),
)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) *HTTPClient {
	return NewHTTPClient(
		p.Config.WebhookURL,
		p.Config.WebhookEnabled,
		p.Config.WebhookTimeout,
		p.Config.WebhookRetries,
		p.Logger,
	)
}
