package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/ordernotify/internal/adapter/signal"
	"github.com/polkiloo/ordernotify/internal/alert"
	"github.com/polkiloo/ordernotify/internal/config"
	"github.com/polkiloo/ordernotify/internal/domain/model"
	"github.com/polkiloo/ordernotify/internal/server/http/handlers"
	"github.com/polkiloo/ordernotify/internal/worker"
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		NewServiceFacade,
		func(f *ServiceFacade) handlers.ServiceFacade { return f },
		newHTTPServer,
	),
	fx.Invoke(registerLifecycle),
)

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:    p.Config.RunAddress,
		Handler: p.Router,
	}
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Poller     *worker.Poller
	Transport  signal.Client
	Alerts     alert.Alerter
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Info("starting ordernotify", slog.String("addr", p.Server.Addr))

			if !p.Transport.Check(ctx) {
				p.Logger.Warn("chat transport unreachable at startup")
				p.Alerts.Transport(ctx, "Signal connectivity check failed at startup")
			}

			p.Poller.Start(ctx)
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()

			p.Alerts.System(ctx, "Order notification service started successfully", model.SeverityInfo)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			p.Alerts.System(ctx, "Order notification service is shutting down", model.SeverityWarning)
			p.Poller.Stop()

			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			if err := p.Server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			p.Logger.Info("ordernotify stopped")
			return nil
		},
	})
}
