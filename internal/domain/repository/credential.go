package repository

import "context"

// CredentialRepository records payment-gateway credentials registered over chat.
type CredentialRepository interface {
	Create(ctx context.Context, credentialID, value string) error
	SetMerchantCode(ctx context.Context, credentialID, merchantCode string) error
	SetToken(ctx context.Context, credentialID, token string) error
}
