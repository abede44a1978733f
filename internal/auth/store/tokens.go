package store

import (
	"context"
	"time"

	"github.com/careerhive/careerhive/internal/auth/domain"
)

// TokenStore holds the currently-live session tokens, keyed per user.
// At most one access and one refresh record exist per user; saving a
// newer token replaces the old one, which is what enforces the
// single-active-session behavior. Records expire on their own when the
// token they mirror does.
//
// It also parks short-lived OAuth state values between the redirect and
// the provider callback.
type TokenStore interface {
	SaveAccessToken(ctx context.Context, tok domain.StoredToken) error
	SaveRefreshToken(ctx context.Context, tok domain.StoredToken) error

	// FindAccessToken / FindRefreshToken return ErrNotFound for users with
	// no live record, including records that have already expired.
	FindAccessToken(ctx context.Context, userID string) (domain.StoredToken, error)
	FindRefreshToken(ctx context.Context, userID string) (domain.StoredToken, error)

	// DeleteTokens removes both records for the user in one logical
	// operation. Deleting an absent user is not an error.
	DeleteTokens(ctx context.Context, userID string) error

	// SaveOAuthState parks a CSRF state value for the given provider.
	SaveOAuthState(ctx context.Context, state string, provider domain.Provider, ttl time.Duration) error

	// ConsumeOAuthState returns the provider the state was minted for and
	// removes it, so a state value can only be redeemed once.
	// Unknown or expired states return ErrNotFound.
	ConsumeOAuthState(ctx context.Context, state string) (domain.Provider, error)

	// Ping verifies the backing store is reachable.
	Ping(ctx context.Context) error

	Close() error
}
