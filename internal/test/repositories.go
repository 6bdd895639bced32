package test

import (
	"context"
	"sync"

	domainErrors "github.com/polkiloo/ordernotify/internal/domain/errors"
	"github.com/polkiloo/ordernotify/internal/domain/model"
)

// AffiliateRepoStub is an in-memory affiliate repository.
type AffiliateRepoStub struct {
	mu       sync.Mutex
	CreateFn func(ctx context.Context, phoneNumber, token string) (*model.Affiliate, error)
	ByPhone  map[string]*model.Affiliate
	ByToken  map[string]*model.Affiliate
	Created  []model.Affiliate
	nextID   int64
}

// Create stores an affiliate or delegates to CreateFn.
func (s *AffiliateRepoStub) Create(ctx context.Context, phoneNumber, token string) (*model.Affiliate, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, phoneNumber, token)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ByPhone == nil {
		s.ByPhone = make(map[string]*model.Affiliate)
	}
	if s.ByToken == nil {
		s.ByToken = make(map[string]*model.Affiliate)
	}
	if _, ok := s.ByPhone[phoneNumber]; ok {
		return nil, domainErrors.ErrAlreadyExists
	}
	s.nextID++
	a := &model.Affiliate{ID: s.nextID, PhoneNumber: phoneNumber, Token: token, IsActive: true}
	s.ByPhone[phoneNumber] = a
	s.ByToken[token] = a
	s.Created = append(s.Created, *a)
	return a, nil
}

// GetActiveByPhone looks up a stored affiliate.
func (s *AffiliateRepoStub) GetActiveByPhone(ctx context.Context, phoneNumber string) (*model.Affiliate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.ByPhone[phoneNumber]; ok && a.IsActive {
		return a, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetActiveByToken looks up a stored affiliate.
func (s *AffiliateRepoStub) GetActiveByToken(ctx context.Context, token string) (*model.Affiliate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.ByToken[token]; ok && a.IsActive {
		return a, nil
	}
	return nil, domainErrors.ErrNotFound
}

// OrderRepoStub is an in-memory order repository.
type OrderRepoStub struct {
	mu             sync.Mutex
	ListFn         func(ctx context.Context) ([]model.Order, error)
	MarkFn         func(ctx context.Context, orderID int64) error
	Unnotified     []model.Order
	MarkedNotified []int64
}

// ListUnnotified returns the prepared backlog or delegates.
func (s *OrderRepoStub) ListUnnotified(ctx context.Context) ([]model.Order, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Order, len(s.Unnotified))
	copy(out, s.Unnotified)
	return out, nil
}

// MarkNotified records the order id or delegates.
func (s *OrderRepoStub) MarkNotified(ctx context.Context, orderID int64) error {
	if s.MarkFn != nil {
		return s.MarkFn(ctx, orderID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.MarkedNotified = append(s.MarkedNotified, orderID)
	return nil
}

// CredentialCall records one credential repository write.
type CredentialCall struct {
	Op           string
	CredentialID string
	Value        string
}

// CredentialRepoStub records credential writes.
type CredentialRepoStub struct {
	mu            sync.Mutex
	CreateFn      func(ctx context.Context, credentialID, value string) error
	SetMerchantFn func(ctx context.Context, credentialID, merchantCode string) error
	SetTokenFn    func(ctx context.Context, credentialID, token string) error
	Calls         []CredentialCall
}

func (s *CredentialRepoStub) record(op, id, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, CredentialCall{Op: op, CredentialID: id, Value: value})
}

// Create records the write or delegates.
func (s *CredentialRepoStub) Create(ctx context.Context, credentialID, value string) error {
	s.record("create", credentialID, value)
	if s.CreateFn != nil {
		return s.CreateFn(ctx, credentialID, value)
	}
	return nil
}

// SetMerchantCode records the write or delegates.
func (s *CredentialRepoStub) SetMerchantCode(ctx context.Context, credentialID, merchantCode string) error {
	s.record("merchant_code", credentialID, merchantCode)
	if s.SetMerchantFn != nil {
		return s.SetMerchantFn(ctx, credentialID, merchantCode)
	}
	return nil
}

// SetToken records the write or delegates.
func (s *CredentialRepoStub) SetToken(ctx context.Context, credentialID, token string) error {
	s.record("token", credentialID, token)
	if s.SetTokenFn != nil {
		return s.SetTokenFn(ctx, credentialID, token)
	}
	return nil
}

// ByOp returns recorded credential writes of one kind.
func (s *CredentialRepoStub) ByOp(op string) []CredentialCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []CredentialCall
	for _, c := range s.Calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}
