package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/polkiloo/ordernotify/internal/adapter/signal"
	"github.com/polkiloo/ordernotify/internal/alert"
	"github.com/polkiloo/ordernotify/internal/domain/model"
)

// MessageHandler consumes a batch of inbound messages.
type MessageHandler interface {
	HandleBatch(ctx context.Context, messages []model.InboundMessage)
}

// OrderProcessor drains the order notification backlog.
type OrderProcessor interface {
	ProcessNewOrders(ctx context.Context)
}

// Poller is the single control loop: each iteration drains inbound messages
// into the conversation engine and then scans for unnotified orders. Runtime
// failures never stop the loop; an iteration that blows up alerts and backs
// off for a cooldown so a persistent error cannot spin it at full speed.
type Poller struct {
	transport signal.Client
	handler   MessageHandler
	orders    OrderProcessor
	alerts    alert.Alerter
	interval  time.Duration
	cooldown  time.Duration
	logger    *slog.Logger

	iterations atomic.Int64
	lastRun    atomic.Int64

	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewPoller constructs the poll loop.
func NewPoller(transport signal.Client, handler MessageHandler, orders OrderProcessor,
	alerts alert.Alerter, interval, cooldown time.Duration, logger *slog.Logger) *Poller {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if cooldown <= 0 {
		cooldown = 5 * time.Second
	}
	return &Poller{
		transport: transport,
		handler:   handler,
		orders:    orders,
		alerts:    alerts,
		interval:  interval,
		cooldown:  cooldown,
		logger:    logger,
	}
}

// Start launches the loop in the background.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.wg.Add(1)
	go p.run(runCtx)
}

// Stop signals shutdown and waits for the in-flight iteration to finish.
// Shutdown takes effect at iteration boundaries only.
func (p *Poller) Stop() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *Poller) run(ctx context.Context) {
	defer p.wg.Done()
	p.logger.Info("poll loop started", slog.Duration("interval", p.interval))

	for {
		ok := p.iterate(ctx)

		wait := p.interval
		if !ok {
			wait = p.cooldown
		}

		select {
		case <-ctx.Done():
			p.logger.Info("poll loop stopped")
			return
		case <-time.After(wait):
		}
	}
}

func (p *Poller) iterate(ctx context.Context) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("poll iteration panicked", slog.Any("panic", r))
			p.alerts.Critical(ctx, fmt.Sprintf("Main loop error: %v", r))
			ok = false
		}
	}()

	messages := p.transport.Receive(ctx)
	if len(messages) > 0 {
		p.handler.HandleBatch(ctx, messages)
	}

	p.orders.ProcessNewOrders(ctx)

	p.iterations.Add(1)
	p.lastRun.Store(time.Now().UnixNano())
	return true
}

// Iterations reports how many iterations completed since start.
func (p *Poller) Iterations() int64 {
	return p.iterations.Load()
}

// LastRun reports when the last iteration completed.
func (p *Poller) LastRun() time.Time {
	nanos := p.lastRun.Load()
	if nanos == 0 {
		return time.Time{}
	}
	return time.Unix(0, nanos)
}
