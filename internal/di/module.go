package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/ordernotify/internal/adapter/signal"
	"github.com/polkiloo/ordernotify/internal/adapter/webhook"
	"github.com/polkiloo/ordernotify/internal/alert"
	"github.com/polkiloo/ordernotify/internal/app"
	"github.com/polkiloo/ordernotify/internal/config"
	"github.com/polkiloo/ordernotify/internal/conversation"
	"github.com/polkiloo/ordernotify/internal/logger"
	"github.com/polkiloo/ordernotify/internal/notifier"
	"github.com/polkiloo/ordernotify/internal/server/http/router"
	"github.com/polkiloo/ordernotify/internal/storage/postgres"
	"github.com/polkiloo/ordernotify/internal/template"
	"github.com/polkiloo/ordernotify/internal/usecase"
	"github.com/polkiloo/ordernotify/internal/worker"
)

// Module assembles the full application graph. Options passed by the caller
// are applied last so tests can replace any provided component.
func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		postgres.Module,
		signal.Module,
		webhook.Module,
		template.Module,
		alert.Module,
		usecase.Module,
		conversation.Module,
		notifier.Module,
		worker.Module,
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
