package repository

import (
	"context"

	"github.com/polkiloo/ordernotify/internal/domain/model"
)

// AffiliateRepository describes persistence operations with affiliates.
type AffiliateRepository interface {
	Create(ctx context.Context, phoneNumber, token string) (*model.Affiliate, error)
	GetActiveByPhone(ctx context.Context, phoneNumber string) (*model.Affiliate, error)
	GetActiveByToken(ctx context.Context, token string) (*model.Affiliate, error)
}
