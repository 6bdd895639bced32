package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/polkiloo/ordernotify/internal/domain/repository"
	"github.com/polkiloo/ordernotify/internal/pkg/token"
)

// CredentialUseCase records payment-gateway credentials captured over chat.
type CredentialUseCase struct {
	credentials repository.CredentialRepository
	tokens      *token.Generator
}

// NewCredentialUseCase constructs CredentialUseCase.
func NewCredentialUseCase(credentials repository.CredentialRepository, tokens *token.Generator) *CredentialUseCase {
	return &CredentialUseCase{credentials: credentials, tokens: tokens}
}

// Store persists a new credential value and returns its generated id.
func (u *CredentialUseCase) Store(ctx context.Context, value string) (string, error) {
	credentialID := uuid.NewString()
	if err := u.credentials.Create(ctx, credentialID, value); err != nil {
		return "", err
	}
	return credentialID, nil
}

// SetMerchantCode records the merchant code for a stored credential.
func (u *CredentialUseCase) SetMerchantCode(ctx context.Context, credentialID, merchantCode string) error {
	return u.credentials.SetMerchantCode(ctx, credentialID, merchantCode)
}

// IssueToken generates a registration token and persists it against the
// credential.
func (u *CredentialUseCase) IssueToken(ctx context.Context, credentialID string) (string, error) {
	tok, err := u.tokens.Generate()
	if err != nil {
		return "", err
	}
	if err := u.credentials.SetToken(ctx, credentialID, tok); err != nil {
		return "", err
	}
	return tok, nil
}
