package app

import (
	"context"
	"time"

	"github.com/polkiloo/ordernotify/internal/adapter/signal"
	"github.com/polkiloo/ordernotify/internal/conversation"
	"github.com/polkiloo/ordernotify/internal/notifier"
	"github.com/polkiloo/ordernotify/internal/storage/postgres"
	"github.com/polkiloo/ordernotify/internal/worker"
)

// ServiceFacade aggregates runtime state for the HTTP endpoints.
type ServiceFacade struct {
	storage       *postgres.Storage
	transport     signal.Client
	orders        *notifier.OrderNotifier
	conversations *conversation.Store
	poller        *worker.Poller
	started       time.Time
}

// NewServiceFacade constructs the facade.
func NewServiceFacade(storage *postgres.Storage, transport signal.Client, orders *notifier.OrderNotifier,
	conversations *conversation.Store, poller *worker.Poller) *ServiceFacade {
	return &ServiceFacade{
		storage:       storage,
		transport:     transport,
		orders:        orders,
		conversations: conversations,
		poller:        poller,
		started:       time.Now(),
	}
}

// DatabaseHealthy pings the database.
func (f *ServiceFacade) DatabaseHealthy(ctx context.Context) error {
	return f.storage.HealthCheck(ctx)
}

// TransportHealthy probes the chat transport.
func (f *ServiceFacade) TransportHealthy(ctx context.Context) bool {
	return f.transport.Check(ctx)
}

// Uptime reports time since the facade was constructed.
func (f *ServiceFacade) Uptime() time.Duration {
	return time.Since(f.started)
}

// ProcessedOrders reports how many orders were fully notified.
func (f *ServiceFacade) ProcessedOrders() int64 {
	return f.orders.ProcessedCount()
}

// ActiveConversations reports how many senders are mid-flow.
func (f *ServiceFacade) ActiveConversations() int {
	return f.conversations.ActiveCount()
}

// PollIterations reports completed poll loop iterations.
func (f *ServiceFacade) PollIterations() int64 {
	return f.poller.Iterations()
}

// LastPoll reports when the poll loop last completed an iteration.
func (f *ServiceFacade) LastPoll() time.Time {
	return f.poller.LastRun()
}
