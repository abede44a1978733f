package store

import (
	"context"
	"errors"

	"github.com/careerhive/careerhive/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root relational data access interface. Concrete drivers
// (sqlite today) implement this. It exposes sub-repositories to keep
// concerns tidy and testable.
type Store interface {
	Users() Users
	ExternalAccounts() ExternalAccounts

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// Use it for multi-step operations that must be atomic (e.g., first
	// social login creating a user plus its provider link).
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources (optional for sqlite).
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByUsername is used during password login.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// GetUserByEmail is used during password login when the identifier
	// looks like an email address.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	CreateUser(ctx context.Context, u domain.User) error

	// UpdatePreferredName mutates the preferred_name and bumps updated_at.
	UpdatePreferredName(ctx context.Context, userID string, preferredName string) error

	// IsEmpty returns true if there are no users.
	IsEmpty(ctx context.Context) (bool, error)
}

type ExternalAccounts interface {
	// GetByProviderID looks up the link record for a provider identity.
	// This is the lookup every social login starts with.
	GetByProviderID(ctx context.Context, provider domain.Provider, externalID string) (domain.ExternalAccount, error)

	// Create inserts a new provider link. The (provider, external_id)
	// unique index rejects duplicates with ErrAlreadyExists.
	Create(ctx context.Context, ea domain.ExternalAccount) error
}
