package usecase

import (
	"context"

	"github.com/polkiloo/ordernotify/internal/domain/model"
	"github.com/polkiloo/ordernotify/internal/domain/repository"
)

// OrderUseCase encapsulates the notification-side order operations.
type OrderUseCase struct {
	orders repository.OrderRepository
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository) *OrderUseCase {
	return &OrderUseCase{orders: orders}
}

// Unnotified returns the notification backlog, oldest first.
func (u *OrderUseCase) Unnotified(ctx context.Context) ([]model.Order, error) {
	return u.orders.ListUnnotified(ctx)
}

// MarkNotified flips the notified flag for one order.
func (u *OrderUseCase) MarkNotified(ctx context.Context, orderID int64) error {
	return u.orders.MarkNotified(ctx, orderID)
}
