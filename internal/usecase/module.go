package usecase

import (
	"go.uber.org/fx"

	"github.com/polkiloo/ordernotify/internal/config"
	"github.com/polkiloo/ordernotify/internal/pkg/token"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	func(cfg *config.Config) *token.Generator { return token.NewGenerator(cfg.TokenLength) },
	NewAffiliateUseCase,
	NewOrderUseCase,
	NewCredentialUseCase,
)
