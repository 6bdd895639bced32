package notifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/polkiloo/ordernotify/internal/adapter/signal"
	"github.com/polkiloo/ordernotify/internal/alert"
	domainErrors "github.com/polkiloo/ordernotify/internal/domain/errors"
	"github.com/polkiloo/ordernotify/internal/domain/model"
	"github.com/polkiloo/ordernotify/internal/template"
	"github.com/polkiloo/ordernotify/internal/usecase"
)

// OrderNotifier fans out notifications for unnotified orders: the owner group
// always, the referring affiliate when the token resolves. Notifications are
// at-least-once: an order is only marked notified after its sends, and a
// failed mark leaves it queued for the next iteration.
type OrderNotifier struct {
	orders     *usecase.OrderUseCase
	affiliates *usecase.AffiliateUseCase
	transport  signal.Client
	templates  template.Lookup
	alerts     alert.Alerter
	groupID    string
	location   *time.Location
	logger     *slog.Logger
	processed  atomic.Int64
}

// NewOrderNotifier constructs the order notifier.
func NewOrderNotifier(orders *usecase.OrderUseCase, affiliates *usecase.AffiliateUseCase,
	transport signal.Client, templates template.Lookup, alerts alert.Alerter,
	groupID string, location *time.Location, logger *slog.Logger) *OrderNotifier {
	if location == nil {
		location = time.UTC
	}
	return &OrderNotifier{
		orders:     orders,
		affiliates: affiliates,
		transport:  transport,
		templates:  templates,
		alerts:     alerts,
		groupID:    groupID,
		location:   location,
		logger:     logger,
	}
}

// ProcessNewOrders drains the notification backlog, oldest first. A failure
// on one order never aborts the rest of the batch.
func (n *OrderNotifier) ProcessNewOrders(ctx context.Context) {
	orders, err := n.orders.Unnotified(ctx)
	if err != nil {
		n.logger.Error("fetching unnotified orders failed", slog.String("error", err.Error()))
		n.alerts.Database(ctx, fmt.Sprintf("Order processing error: %v", err))
		return
	}

	for _, order := range orders {
		n.processOne(ctx, order)
	}
}

func (n *OrderNotifier) processOne(ctx context.Context, order model.Order) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Error("order processing panicked",
				slog.Int64("order_id", order.ID),
				slog.Any("panic", r))
			n.alerts.Critical(ctx, fmt.Sprintf("Order %d processing error: %v", order.ID, r))
		}
	}()

	vars := n.orderVars(order)

	n.transport.Send(ctx, n.groupID, n.templates.Format("new_order_owner", vars), true)

	if order.AffiliateToken != nil && *order.AffiliateToken != "" {
		n.notifyAffiliate(ctx, order, vars)
	}

	if err := n.orders.MarkNotified(ctx, order.ID); err != nil {
		n.logger.Error("marking order notified failed",
			slog.Int64("order_id", order.ID),
			slog.String("error", err.Error()))
		n.alerts.Critical(ctx, fmt.Sprintf("Order %d processing error: %v", order.ID, err))
		return
	}

	n.processed.Add(1)
	n.logger.Info("order processed", slog.Int64("order_id", order.ID))
}

func (n *OrderNotifier) notifyAffiliate(ctx context.Context, order model.Order, vars map[string]string) {
	affiliate, err := n.affiliates.ByToken(ctx, *order.AffiliateToken)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			// Expired or mistyped token: owner is notified regardless, but
			// leave a trace so data-quality problems are visible.
			n.logger.Warn("no active affiliate for token",
				slog.Int64("order_id", order.ID),
				slog.String("token", *order.AffiliateToken))
			return
		}
		n.logger.Error("affiliate lookup failed",
			slog.Int64("order_id", order.ID),
			slog.String("error", err.Error()))
		return
	}

	n.transport.Send(ctx, affiliate.PhoneNumber, n.templates.Format("new_order_affiliate", vars), false)
	n.logger.Info("affiliate notified",
		slog.Int64("order_id", order.ID),
		slog.String("affiliate", affiliate.PhoneNumber))
}

func (n *OrderNotifier) orderVars(order model.Order) map[string]string {
	local := order.CreatedAt.In(n.location)

	total := "N/A"
	if order.Total != nil {
		total = fmt.Sprintf("%.2f€", *order.Total)
	}
	client := "N/A"
	if order.Client != nil && *order.Client != "" {
		client = *order.Client
	}
	ip := "N/A"
	if order.IPAddress != nil && *order.IPAddress != "" {
		ip = *order.IPAddress
	}

	return map[string]string{
		"time":   local.Format("15:04:05"),
		"date":   local.Format("2006-01-02"),
		"total":  total,
		"client": client,
		"ip":     ip,
	}
}

// ProcessedCount reports how many orders were fully processed since start.
func (n *OrderNotifier) ProcessedCount() int64 {
	return n.processed.Load()
}
