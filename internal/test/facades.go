package test

import (
	"context"
	"time"
)

// ServiceFacadeStub provides controllable behaviour for HTTP handlers.
type ServiceFacadeStub struct {
	DatabaseErr      error
	TransportOK      bool
	UptimeVal        time.Duration
	Processed        int64
	Conversations    int
	Iterations       int64
	LastIterationRun time.Time
}

// DatabaseHealthy returns the configured database error.
func (s ServiceFacadeStub) DatabaseHealthy(context.Context) error { return s.DatabaseErr }

// TransportHealthy returns the configured transport state.
func (s ServiceFacadeStub) TransportHealthy(context.Context) bool { return s.TransportOK }

// Uptime returns the configured uptime.
func (s ServiceFacadeStub) Uptime() time.Duration { return s.UptimeVal }

// ProcessedOrders returns the configured counter.
func (s ServiceFacadeStub) ProcessedOrders() int64 { return s.Processed }

// ActiveConversations returns the configured counter.
func (s ServiceFacadeStub) ActiveConversations() int { return s.Conversations }

// PollIterations returns the configured counter.
func (s ServiceFacadeStub) PollIterations() int64 { return s.Iterations }

// LastPoll returns the configured timestamp.
func (s ServiceFacadeStub) LastPoll() time.Time { return s.LastIterationRun }
