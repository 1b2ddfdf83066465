package core

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is the query interface satisfied by both *pgxpool.Pool and pgx.Tx,
// letting service methods run inside or outside a transaction.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Service provides the business logic for the campaign backend.
type Service struct {
	pool    *pgxpool.Pool
	limiter *UploadLimiter

	uploadTimeout time.Duration
	sessionTTL    time.Duration
}

// Options tune service behavior; zero values get defaults.
type Options struct {
	// MaxConcurrentUploads caps parallel ingestion batches.
	MaxConcurrentUploads int

	// UploadWaitTime is how long an ingestion call waits for a slot.
	UploadWaitTime time.Duration

	// UploadTimeout bounds a single ingestion batch end to end.
	UploadTimeout time.Duration

	// SessionTTL is the lifetime of a login session.
	SessionTTL time.Duration
}

// NewService creates a Service backed by the given connection pool.
func NewService(pool *pgxpool.Pool, opts Options) *Service {
	if opts.UploadTimeout <= 0 {
		opts.UploadTimeout = 5 * time.Minute
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 7 * 24 * time.Hour
	}

	return &Service{
		pool:          pool,
		limiter:       NewUploadLimiter(opts.MaxConcurrentUploads, opts.UploadWaitTime),
		uploadTimeout: opts.UploadTimeout,
		sessionTTL:    opts.SessionTTL,
	}
}

// Ping verifies database connectivity.
func (s *Service) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// WaitForUploads blocks until in-flight ingestion batches finish or ctx
// expires. Used during graceful shutdown.
func (s *Service) WaitForUploads(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// ActiveUploads returns the number of ingestion batches currently running.
func (s *Service) ActiveUploads() int {
	return s.limiter.Active()
}
