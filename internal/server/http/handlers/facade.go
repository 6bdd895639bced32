package handlers

import (
	"context"
	"time"
)

// HealthFacade reports the health of the external dependencies.
type HealthFacade interface {
	DatabaseHealthy(ctx context.Context) error
	TransportHealthy(ctx context.Context) bool
}

// StatusFacade exposes runtime counters.
type StatusFacade interface {
	Uptime() time.Duration
	ProcessedOrders() int64
	ActiveConversations() int
	PollIterations() int64
	LastPoll() time.Time
}

// ServiceFacade aggregates the operations used across handlers.
type ServiceFacade interface {
	HealthFacade
	StatusFacade
}
