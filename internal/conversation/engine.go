package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/polkiloo/ordernotify/internal/adapter/signal"
	"github.com/polkiloo/ordernotify/internal/alert"
	domainErrors "github.com/polkiloo/ordernotify/internal/domain/errors"
	"github.com/polkiloo/ordernotify/internal/domain/model"
	"github.com/polkiloo/ordernotify/internal/template"
	"github.com/polkiloo/ordernotify/internal/usecase"
)

const (
	affiliateTrigger  = "go"
	credentialTrigger = "New API key"
)

// Engine classifies inbound messages and advances per-sender state machines.
type Engine struct {
	store         *Store
	affiliates    *usecase.AffiliateUseCase
	credentials   *usecase.CredentialUseCase
	transport     signal.Client
	templates     template.Lookup
	alerts        alert.Alerter
	adminNumber   string
	groupID       string
	affiliateLink string
	location      *time.Location
	now           func() time.Time
	logger        *slog.Logger
}

// EngineConfig carries the identities and rendering settings the engine needs.
type EngineConfig struct {
	AdminNumber   string
	GroupID       string
	AffiliateLink string
	Location      *time.Location
}

// NewEngine constructs the conversation engine.
func NewEngine(store *Store, affiliates *usecase.AffiliateUseCase, credentials *usecase.CredentialUseCase,
	transport signal.Client, templates template.Lookup, alerts alert.Alerter,
	cfg EngineConfig, logger *slog.Logger) *Engine {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Engine{
		store:         store,
		affiliates:    affiliates,
		credentials:   credentials,
		transport:     transport,
		templates:     templates,
		alerts:        alerts,
		adminNumber:   cfg.AdminNumber,
		groupID:       cfg.GroupID,
		affiliateLink: cfg.AffiliateLink,
		location:      loc,
		now:           time.Now,
		logger:        logger,
	}
}

// HandleBatch processes inbound messages in arrival order. A failure on one
// message never aborts the rest of the batch; the failing sender's flow state
// is cleared so it cannot get stuck.
func (e *Engine) HandleBatch(ctx context.Context, messages []model.InboundMessage) {
	for _, msg := range messages {
		e.handleOne(ctx, msg)
	}
}

func (e *Engine) handleOne(ctx context.Context, msg model.InboundMessage) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("message processing panicked",
				slog.String("sender", msg.Sender),
				slog.Any("panic", r))
			e.alerts.Critical(ctx, fmt.Sprintf("Message processing error from %s: %v", msg.Sender, r))
			e.store.Clear(msg.Sender)
		}
	}()

	if msg.Sender == "" || msg.Body == "" {
		return
	}
	e.logger.Info("message received", slog.String("sender", msg.Sender))

	// Classification precedence: trigger words win over an in-flight state.
	switch {
	case strings.EqualFold(msg.Body, affiliateTrigger):
		e.registerAffiliate(ctx, msg.Sender)
	case msg.Body == credentialTrigger && msg.Sender == e.adminNumber:
		e.startCredentialFlow(ctx, msg.Sender)
	default:
		state, ok := e.store.Get(msg.Sender)
		if !ok {
			return
		}
		e.continueCredentialFlow(ctx, msg.Sender, state, msg.Body)
	}
}

func (e *Engine) registerAffiliate(ctx context.Context, sender string) {
	affiliate, created, err := e.affiliates.Register(ctx, sender)
	if err != nil {
		if errors.Is(err, domainErrors.ErrAlreadyExists) {
			// Lost a race with our own earlier insert. Stay silent rather
			// than confuse the sender with a second, different reply.
			e.logger.Warn("affiliate already exists", slog.String("sender", sender))
			return
		}
		e.logger.Error("affiliate registration failed",
			slog.String("sender", sender),
			slog.String("error", err.Error()))
		e.alerts.Critical(ctx, fmt.Sprintf("Affiliate registration error for %s: %v", sender, err))
		return
	}

	vars := map[string]string{"link": e.affiliateLink, "token": affiliate.Token}
	if !created {
		e.transport.Send(ctx, sender, e.templates.Format("affiliate_already_registered", vars), false)
		e.logger.Info("existing affiliate info sent", slog.String("sender", sender))
		return
	}

	e.transport.Send(ctx, sender, e.templates.Format("affiliate_registration_success", vars), false)

	now := e.now().In(e.location)
	ownerVars := map[string]string{
		"time":  now.Format("15:04:05"),
		"date":  now.Format("2006-01-02"),
		"phone": sender,
		"token": affiliate.Token,
	}
	e.transport.Send(ctx, e.groupID, e.templates.Format("new_affiliate_owner", ownerVars), true)
	e.logger.Info("new affiliate registered", slog.String("sender", sender))
}

func (e *Engine) startCredentialFlow(ctx context.Context, sender string) {
	e.store.Clear(sender)
	e.store.Set(sender, model.StateAwaitingCredential)
	e.transport.Send(ctx, sender, e.templates.Format("api_key_prompt", nil), false)
	e.logger.Info("credential flow started", slog.String("sender", sender))
}

func (e *Engine) continueCredentialFlow(ctx context.Context, sender string, state model.ConversationState, body string) {
	switch state {
	case model.StateAwaitingCredential:
		e.captureCredential(ctx, sender, body)
	case model.StateAwaitingMerchantCode:
		e.captureMerchantCode(ctx, sender, body)
	default:
		e.logger.Warn("unknown conversation state, clearing",
			slog.String("sender", sender),
			slog.String("state", string(state)))
		e.store.Clear(sender)
	}
}

func (e *Engine) captureCredential(ctx context.Context, sender, value string) {
	credentialID, err := e.credentials.Store(ctx, value)
	if err != nil {
		e.logger.Error("storing credential failed",
			slog.String("sender", sender),
			slog.String("error", err.Error()))
		e.transport.Send(ctx, sender, e.templates.Format("credential_retry", nil), false)
		e.store.Clear(sender)
		return
	}

	e.store.SetScratch(sender, model.ConversationScratch{
		CredentialID:    credentialID,
		CredentialValue: value,
	})
	e.store.Set(sender, model.StateAwaitingMerchantCode)
	e.transport.Send(ctx, sender, e.templates.Format("merchant_code_prompt", nil), false)
}

func (e *Engine) captureMerchantCode(ctx context.Context, sender, merchantCode string) {
	scratch, ok := e.store.Scratch(sender)
	if !ok {
		// Scratch vanished mid-flow: treat the session as expired.
		e.logger.Warn("conversation scratch missing", slog.String("sender", sender))
		e.transport.Send(ctx, sender, e.templates.Format("credential_session_expired", nil), false)
		e.store.Clear(sender)
		return
	}

	if err := e.credentials.SetMerchantCode(ctx, scratch.CredentialID, merchantCode); err != nil {
		e.logger.Error("storing merchant code failed",
			slog.String("sender", sender),
			slog.String("error", err.Error()))
		e.transport.Send(ctx, sender, e.templates.Format("credential_retry", nil), false)
		e.store.Clear(sender)
		return
	}

	tok, err := e.credentials.IssueToken(ctx, scratch.CredentialID)
	if err != nil {
		e.logger.Error("issuing credential token failed",
			slog.String("sender", sender),
			slog.String("error", err.Error()))
		e.transport.Send(ctx, sender, e.templates.Format("credential_retry", nil), false)
		e.store.Clear(sender)
		return
	}

	e.transport.Send(ctx, sender, e.templates.Format("credential_success", map[string]string{"token": tok}), false)
	e.store.Clear(sender)
	e.logger.Info("credential flow completed", slog.String("sender", sender))
}
