package test

import (
	"context"
	"sync"

	"github.com/polkiloo/ordernotify/internal/domain/model"
)

// SendCall records one transport delivery attempt.
type SendCall struct {
	Recipient string
	Text      string
	IsGroup   bool
}

// TransportStub provides controllable behaviour for the chat transport.
type TransportStub struct {
	mu       sync.Mutex
	SendFn   func(ctx context.Context, recipient, text string, isGroup bool) bool
	Inbound  [][]model.InboundMessage
	Healthy  bool
	Sends    []SendCall
	receives int
}

// Send records the call and delegates to SendFn or succeeds.
func (s *TransportStub) Send(ctx context.Context, recipient, text string, isGroup bool) bool {
	s.mu.Lock()
	s.Sends = append(s.Sends, SendCall{Recipient: recipient, Text: text, IsGroup: isGroup})
	s.mu.Unlock()
	if s.SendFn != nil {
		return s.SendFn(ctx, recipient, text, isGroup)
	}
	return true
}

// Receive pops the next prepared batch.
func (s *TransportStub) Receive(ctx context.Context) []model.InboundMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.receives >= len(s.Inbound) {
		return nil
	}
	batch := s.Inbound[s.receives]
	s.receives++
	return batch
}

// Check reports the configured health.
func (s *TransportStub) Check(ctx context.Context) bool {
	return s.Healthy
}

// SentTo returns recorded sends for one recipient.
func (s *TransportStub) SentTo(recipient string) []SendCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []SendCall
	for _, c := range s.Sends {
		if c.Recipient == recipient {
			out = append(out, c)
		}
	}
	return out
}

// SendCount returns the total number of recorded sends.
func (s *TransportStub) SendCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Sends)
}

// WebhookStub simulates the webhook fallback channel.
type WebhookStub struct {
	mu        sync.Mutex
	NotifyFn  func(ctx context.Context, message string, severity model.Severity) bool
	IsEnabled bool
	Calls     []string
}

// Notify records the message and delegates or succeeds.
func (s *WebhookStub) Notify(ctx context.Context, message string, severity model.Severity) bool {
	s.mu.Lock()
	s.Calls = append(s.Calls, message)
	s.mu.Unlock()
	if s.NotifyFn != nil {
		return s.NotifyFn(ctx, message, severity)
	}
	return true
}

// Enabled reports the configured state.
func (s *WebhookStub) Enabled() bool {
	return s.IsEnabled
}

// CallCount returns the number of recorded notifications.
func (s *WebhookStub) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Calls)
}

// TemplatesStub renders templates as "key" plus sorted-free var dump, which
// keeps assertions simple without coupling tests to real template text.
type TemplatesStub struct{}

// Format renders a predictable string embedding key and variables.
func (TemplatesStub) Format(key string, vars map[string]string) string {
	out := key
	for _, name := range []string{"message", "token", "link", "phone", "time", "date", "total", "client", "ip"} {
		if v, ok := vars[name]; ok {
			out += " " + name + "=" + v
		}
	}
	return out
}

// AlertCall records one alert emitted during a test.
type AlertCall struct {
	Kind    string
	Message string
}

// AlerterStub records alerts instead of delivering them.
type AlerterStub struct {
	mu    sync.Mutex
	Calls []AlertCall
}

func (s *AlerterStub) record(kind, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, AlertCall{Kind: kind, Message: message})
}

// System records a system alert.
func (s *AlerterStub) System(ctx context.Context, message string, severity model.Severity) {
	s.record("system", message)
}

// Database records a database alert.
func (s *AlerterStub) Database(ctx context.Context, message string) {
	s.record("database", message)
}

// Transport records a transport alert.
func (s *AlerterStub) Transport(ctx context.Context, message string) {
	s.record("transport", message)
}

// Critical records a critical alert.
func (s *AlerterStub) Critical(ctx context.Context, message string) {
	s.record("critical", message)
}

// ByKind returns recorded alerts of one kind.
func (s *AlerterStub) ByKind(kind string) []AlertCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []AlertCall
	for _, c := range s.Calls {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// Count returns the total number of alerts recorded.
func (s *AlerterStub) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Calls)
}
