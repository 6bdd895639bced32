package usecase

import (
	"context"
	"errors"
	"fmt"

	domainErrors "github.com/polkiloo/ordernotify/internal/domain/errors"
	"github.com/polkiloo/ordernotify/internal/domain/model"
	"github.com/polkiloo/ordernotify/internal/domain/repository"
	"github.com/polkiloo/ordernotify/internal/pkg/token"
)

// AffiliateUseCase encapsulates affiliate registration and lookups.
type AffiliateUseCase struct {
	affiliates repository.AffiliateRepository
	tokens     *token.Generator
}

// NewAffiliateUseCase constructs AffiliateUseCase.
func NewAffiliateUseCase(affiliates repository.AffiliateRepository, tokens *token.Generator) *AffiliateUseCase {
	return &AffiliateUseCase{affiliates: affiliates, tokens: tokens}
}

// Register registers the sender as an affiliate. When an active affiliate
// already exists for the phone number it is returned with created=false.
// A concurrent duplicate insert surfaces as ErrAlreadyExists.
func (u *AffiliateUseCase) Register(ctx context.Context, phoneNumber string) (*model.Affiliate, bool, error) {
	existing, err := u.affiliates.GetActiveByPhone(ctx, phoneNumber)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, domainErrors.ErrNotFound) {
		return nil, false, fmt.Errorf("lookup affiliate: %w", err)
	}

	tok, err := u.tokens.Generate()
	if err != nil {
		return nil, false, err
	}

	affiliate, err := u.affiliates.Create(ctx, phoneNumber, tok)
	if err != nil {
		return nil, false, err
	}
	return affiliate, true, nil
}

// ByToken resolves an active affiliate by registration token.
func (u *AffiliateUseCase) ByToken(ctx context.Context, tok string) (*model.Affiliate, error) {
	return u.affiliates.GetActiveByToken(ctx, tok)
}
