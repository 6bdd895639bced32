package signal

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/ordernotify/internal/config"
)

// Module wires the signal-cli transport client.
var Module = fx.Options(
	fx.Provide(newClient),
	fx.Provide(func(c *CLIClient) Client { return c }),
)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) *CLIClient {
	return NewCLIClient(
		p.Config.SignalNumber,
		p.Config.MaxRetries,
		p.Config.SendTimeout,
		p.Config.ReceiveTimeout,
		p.Logger,
	)
}
