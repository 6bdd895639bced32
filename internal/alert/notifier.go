package alert

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/polkiloo/ordernotify/internal/adapter/signal"
	"github.com/polkiloo/ordernotify/internal/adapter/webhook"
	"github.com/polkiloo/ordernotify/internal/domain/model"
	"github.com/polkiloo/ordernotify/internal/logger"
	"github.com/polkiloo/ordernotify/internal/template"
)

// Alerter is the operator-visibility surface the rest of the system reports into.
type Alerter interface {
	System(ctx context.Context, message string, severity model.Severity)
	Database(ctx context.Context, message string)
	Transport(ctx context.Context, message string)
	Critical(ctx context.Context, message string)
}

// Notifier escalates alerts: primary chat channel to the admin, webhook on
// failure, critical log sink when both are down. It never returns an error
// and never panics across its boundary — it is the last line of visibility.
type Notifier struct {
	transport   signal.Client
	webhook     webhook.Client
	templates   template.Lookup
	adminNumber string
	logger      *slog.Logger
	critical    *logger.Critical
}

// NewNotifier constructs the fallback notifier.
func NewNotifier(transport signal.Client, hook webhook.Client, templates template.Lookup, adminNumber string, log *slog.Logger, critical *logger.Critical) *Notifier {
	return &Notifier{
		transport:   transport,
		webhook:     hook,
		templates:   templates,
		adminNumber: adminNumber,
		logger:      log,
		critical:    critical,
	}
}

// System delivers an alert to the admin, falling back to the webhook channel
// and finally to the critical log sink.
func (n *Notifier) System(ctx context.Context, message string, severity model.Severity) {
	defer func() {
		if r := recover(); r != nil {
			n.critical.Error("alert delivery panicked",
				slog.Any("panic", r),
				slog.String("message", message))
		}
	}()

	formatted := n.templates.Format("system_alert", map[string]string{"message": message})
	if n.transport.Send(ctx, n.adminNumber, formatted, false) {
		return
	}

	n.critical.Error("primary alert channel failed", slog.String("message", message))
	n.fallback(ctx, message, severity)
}

func (n *Notifier) fallback(ctx context.Context, message string, severity model.Severity) {
	hookMessage := n.templates.Format("webhook_alert", map[string]string{"message": message})
	if n.webhook.Notify(ctx, hookMessage, severity) {
		n.logger.Info("webhook fallback delivered", slog.String("message", message))
		return
	}
	n.critical.Error("all alert channels failed", slog.String("message", message))
}

// Database reports a persistence problem.
func (n *Notifier) Database(ctx context.Context, message string) {
	n.System(ctx, fmt.Sprintf("Database error: %s", message), model.SeverityError)
}

// Transport reports a chat transport problem. The primary channel is presumed
// down, so the alert goes straight to the webhook and the critical sink.
func (n *Notifier) Transport(ctx context.Context, message string) {
	defer func() {
		if r := recover(); r != nil {
			n.critical.Error("alert delivery panicked",
				slog.Any("panic", r),
				slog.String("message", message))
		}
	}()

	n.critical.Error("transport error", slog.String("message", message))
	n.fallback(ctx, fmt.Sprintf("Transport error: %s", message), model.SeverityError)
}

// Critical reports an unrecoverable condition. It always lands in the
// critical sink regardless of delivery outcome.
func (n *Notifier) Critical(ctx context.Context, message string) {
	n.critical.Error("critical error", slog.String("message", message))
	n.System(ctx, fmt.Sprintf("Critical error: %s", message), model.SeverityCritical)
}
