package repository

import (
	"context"

	"github.com/polkiloo/ordernotify/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	ListUnnotified(ctx context.Context) ([]model.Order, error)
	MarkNotified(ctx context.Context, orderID int64) error
}
