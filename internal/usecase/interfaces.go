package usecase

import (
	"context"
	"time"

	"github.com/iho/cashflow/internal/domain"
)

// FlowRepository defines data access for cash flows.
type FlowRepository interface {
	Create(ctx context.Context, tx Transaction, flow *domain.Flow) error
	GetByID(ctx context.Context, id string) (*domain.Flow, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Flow, error)
	Update(ctx context.Context, tx Transaction, flow *domain.Flow) error
	Delete(ctx context.Context, tx Transaction, id string) error
	List(ctx context.Context, limit, offset int) ([]*domain.Flow, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Flow, error)
	ListByDateRange(ctx context.Context, from, to time.Time) ([]*domain.Flow, error)
}

// SnapshotRepository defines data access for balance snapshots. The snapshot
// table is append-only; there is no update or delete.
type SnapshotRepository interface {
	// GetLatest returns the most recent snapshot, or nil if none exists.
	GetLatest(ctx context.Context) (*domain.Snapshot, error)
	// GetLatestLocked returns the most recent snapshot, or nil if none
	// exists. It first takes a lock held for the duration of tx that
	// serializes every recalculation, including the one that seeds an
	// empty table.
	GetLatestLocked(ctx context.Context, tx Transaction) (*domain.Snapshot, error)
	Append(ctx context.Context, tx Transaction, snapshot *domain.Snapshot) error
	List(ctx context.Context, limit, offset int) ([]*domain.Snapshot, error)
}

// UserRepository defines data access for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// GetByEmail returns (nil, nil) when no user has the email.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// GetByResetToken returns (nil, nil) when no user holds the token.
	GetByResetToken(ctx context.Context, token string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]*domain.User, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier retries an operation on transient storage errors.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Mailer delivers transactional email.
type Mailer interface {
	SendPasswordReset(ctx context.Context, toEmail, toName, resetLink string) error
}

// TokenStore tracks issued refresh tokens so they can be revoked.
type TokenStore interface {
	Save(ctx context.Context, tokenID, userID string, ttl time.Duration) error
	// Get returns the user ID the token was issued to, or "" if revoked/unknown.
	Get(ctx context.Context, tokenID string) (string, error)
	Delete(ctx context.Context, tokenID string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
