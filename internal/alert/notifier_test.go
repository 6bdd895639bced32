package alert

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/polkiloo/ordernotify/internal/domain/model"
	"github.com/polkiloo/ordernotify/internal/logger"
	testhelpers "github.com/polkiloo/ordernotify/internal/test"
)

func newNotifierForTest(t *testing.T, transport *testhelpers.TransportStub, hook *testhelpers.WebhookStub) *Notifier {
	t.Helper()
	critical, err := logger.NewCritical(t.TempDir())
	if err != nil {
		t.Fatalf("critical logger: %v", err)
	}
	log := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return NewNotifier(transport, hook, testhelpers.TemplatesStub{}, "+15550009999", log, critical)
}

func TestSystemDeliversToAdmin(t *testing.T) {
	transport := &testhelpers.TransportStub{}
	hook := &testhelpers.WebhookStub{}
	notifier := newNotifierForTest(t, transport, hook)

	notifier.System(context.Background(), "all good", model.SeverityInfo)

	sends := transport.SentTo("+15550009999")
	if len(sends) != 1 {
		t.Fatalf("expected one admin send, got %d", len(sends))
	}
	if sends[0].IsGroup {
		t.Error("admin alert must not be a group send")
	}
	if !strings.Contains(sends[0].Text, "all good") {
		t.Errorf("alert text should carry the message, got %q", sends[0].Text)
	}
	if hook.CallCount() != 0 {
		t.Errorf("webhook must not fire when primary succeeds, got %d calls", hook.CallCount())
	}
}

func TestSystemFallsBackToWebhook(t *testing.T) {
	transport := &testhelpers.TransportStub{
		SendFn: func(context.Context, string, string, bool) bool { return false },
	}
	hook := &testhelpers.WebhookStub{IsEnabled: true}
	notifier := newNotifierForTest(t, transport, hook)

	notifier.System(context.Background(), "db is down", model.SeverityError)

	if hook.CallCount() != 1 {
		t.Fatalf("expected webhook fallback, got %d calls", hook.CallCount())
	}
	if !strings.Contains(hook.Calls[0], "db is down") {
		t.Errorf("fallback payload should carry the message, got %q", hook.Calls[0])
	}
}

func TestSystemBothChannelsDownDoesNotPanic(t *testing.T) {
	transport := &testhelpers.TransportStub{
		SendFn: func(context.Context, string, string, bool) bool { return false },
	}
	hook := &testhelpers.WebhookStub{
		NotifyFn: func(context.Context, string, model.Severity) bool { return false },
	}
	notifier := newNotifierForTest(t, transport, hook)

	notifier.System(context.Background(), "everything is down", model.SeverityCritical)
}

func TestDatabasePrefixesContext(t *testing.T) {
	transport := &testhelpers.TransportStub{}
	notifier := newNotifierForTest(t, transport, &testhelpers.WebhookStub{})

	notifier.Database(context.Background(), "connection refused")

	sends := transport.SentTo("+15550009999")
	if len(sends) != 1 || !strings.Contains(sends[0].Text, "Database error: connection refused") {
		t.Fatalf("expected prefixed database alert, got %+v", sends)
	}
}

func TestTransportSkipsPrimaryChannel(t *testing.T) {
	transport := &testhelpers.TransportStub{}
	hook := &testhelpers.WebhookStub{IsEnabled: true}
	notifier := newNotifierForTest(t, transport, hook)

	notifier.Transport(context.Background(), "signal-cli crashed")

	if transport.SendCount() != 0 {
		t.Errorf("transport alert must not use the chat channel, got %d sends", transport.SendCount())
	}
	if hook.CallCount() != 1 {
		t.Errorf("expected webhook delivery, got %d", hook.CallCount())
	}
}

func TestCriticalAlwaysDelivers(t *testing.T) {
	transport := &testhelpers.TransportStub{}
	notifier := newNotifierForTest(t, transport, &testhelpers.WebhookStub{})

	notifier.Critical(context.Background(), "order 7 processing failed")

	sends := transport.SentTo("+15550009999")
	if len(sends) != 1 || !strings.Contains(sends[0].Text, "Critical error: order 7 processing failed") {
		t.Fatalf("expected critical alert send, got %+v", sends)
	}
}
