package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/polkiloo/ordernotify/internal/domain/errors"
	"github.com/polkiloo/ordernotify/internal/domain/model"
	"github.com/polkiloo/ordernotify/internal/domain/repository"
)

// Pool is the subset of pgxpool.Pool used by the storage, extracted so
// pgxmock can stand in during tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   Pool
	logger *slog.Logger
}

type affiliateRepository struct {
	storage *Storage
}

type orderRepository struct {
	storage *Storage
}

type credentialRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, poolSize int, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if poolSize > 0 {
		cfg.MaxConns = int32(poolSize)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// NewWithPool wraps an existing pool without schema initialization.
func NewWithPool(pool Pool, logger *slog.Logger) *Storage {
	return &Storage{pool: pool, logger: logger}
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

var _ repository.Factory = (*Storage)(nil)

// Factory methods for domain repositories.
func (s *Storage) Affiliates() repository.AffiliateRepository {
	return &affiliateRepository{storage: s}
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) Credentials() repository.CredentialRepository {
	return &credentialRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS affiliates (
            id SERIAL PRIMARY KEY,
            phone_number TEXT UNIQUE NOT NULL,
            token TEXT UNIQUE NOT NULL,
            is_active BOOLEAN NOT NULL DEFAULT TRUE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id SERIAL PRIMARY KEY,
            client TEXT,
            total DOUBLE PRECISION,
            ip_address TEXT,
            affiliate_token TEXT,
            notified BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS gateway_credentials (
            id TEXT PRIMARY KEY,
            value TEXT NOT NULL,
            merchant_code TEXT,
            token TEXT,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_orders_unnotified ON orders(created_at) WHERE notified = FALSE`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- AffiliateRepository implementation ---

func (r *affiliateRepository) Create(ctx context.Context, phoneNumber, token string) (*model.Affiliate, error) {
	const query = `INSERT INTO affiliates (phone_number, token) VALUES ($1, $2) RETURNING id, created_at`
	var a model.Affiliate
	err := r.storage.pool.QueryRow(ctx, query, phoneNumber, token).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	a.PhoneNumber = phoneNumber
	a.Token = token
	a.IsActive = true
	return &a, nil
}

func (r *affiliateRepository) GetActiveByPhone(ctx context.Context, phoneNumber string) (*model.Affiliate, error) {
	const query = `SELECT id, phone_number, token, is_active, created_at
                   FROM affiliates WHERE phone_number=$1 AND is_active=TRUE`
	return r.scanOne(ctx, query, phoneNumber)
}

func (r *affiliateRepository) GetActiveByToken(ctx context.Context, token string) (*model.Affiliate, error) {
	const query = `SELECT id, phone_number, token, is_active, created_at
                   FROM affiliates WHERE token=$1 AND is_active=TRUE`
	return r.scanOne(ctx, query, token)
}

func (r *affiliateRepository) scanOne(ctx context.Context, query string, arg any) (*model.Affiliate, error) {
	var a model.Affiliate
	err := r.storage.pool.QueryRow(ctx, query, arg).Scan(&a.ID, &a.PhoneNumber, &a.Token, &a.IsActive, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// --- OrderRepository implementation ---

func (r *orderRepository) ListUnnotified(ctx context.Context) ([]model.Order, error) {
	const query = `SELECT id, client, total, ip_address, affiliate_token, notified, created_at
                   FROM orders WHERE notified=FALSE ORDER BY created_at ASC`
	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(&o.ID, &o.Client, &o.Total, &o.IPAddress, &o.AffiliateToken, &o.Notified, &o.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) MarkNotified(ctx context.Context, orderID int64) error {
	const query = `UPDATE orders SET notified=TRUE WHERE id=$1`
	tag, err := r.storage.pool.Exec(ctx, query, orderID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// --- CredentialRepository implementation ---

func (r *credentialRepository) Create(ctx context.Context, credentialID, value string) error {
	const query = `INSERT INTO gateway_credentials (id, value) VALUES ($1, $2)`
	if _, err := r.storage.pool.Exec(ctx, query, credentialID, value); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domainErrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *credentialRepository) SetMerchantCode(ctx context.Context, credentialID, merchantCode string) error {
	const query = `UPDATE gateway_credentials SET merchant_code=$1 WHERE id=$2`
	return r.update(ctx, query, merchantCode, credentialID)
}

func (r *credentialRepository) SetToken(ctx context.Context, credentialID, token string) error {
	const query = `UPDATE gateway_credentials SET token=$1 WHERE id=$2`
	return r.update(ctx, query, token, credentialID)
}

func (r *credentialRepository) update(ctx context.Context, query string, args ...any) error {
	tag, err := r.storage.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}
