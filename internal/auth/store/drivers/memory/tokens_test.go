package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/careerhive/careerhive/internal/auth/domain"
	"github.com/careerhive/careerhive/internal/auth/store"
	"github.com/careerhive/careerhive/internal/auth/store/drivers/memory"
)

func storedToken(userID, value string, ttl time.Duration) domain.StoredToken {
	now := time.Now()
	return domain.StoredToken{
		UserID:    userID,
		Value:     value,
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
	}
}

func TestTokenStore_SaveAndFind(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ts := memory.NewTokenStore()

	require.NoError(t, ts.SaveAccessToken(ctx, storedToken("u1", "access-1", time.Minute)))
	require.NoError(t, ts.SaveRefreshToken(ctx, storedToken("u1", "refresh-1", time.Hour)))

	access, err := ts.FindAccessToken(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "access-1", access.Value)

	refresh, err := ts.FindRefreshToken(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "refresh-1", refresh.Value)

	_, err = ts.FindAccessToken(ctx, "nobody")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestTokenStore_SaveReplacesPrevious(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ts := memory.NewTokenStore()

	require.NoError(t, ts.SaveAccessToken(ctx, storedToken("u1", "old", time.Minute)))
	require.NoError(t, ts.SaveAccessToken(ctx, storedToken("u1", "new", time.Minute)))

	access, err := ts.FindAccessToken(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "new", access.Value, "a later login replaces the stored token")
}

func TestTokenStore_ExpiredRecordsAreGone(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ts := memory.NewTokenStore()

	require.NoError(t, ts.SaveAccessToken(ctx, storedToken("u1", "stale", -time.Second)))

	_, err := ts.FindAccessToken(ctx, "u1")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestTokenStore_DeleteTokens(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ts := memory.NewTokenStore()

	require.NoError(t, ts.SaveAccessToken(ctx, storedToken("u1", "a", time.Minute)))
	require.NoError(t, ts.SaveRefreshToken(ctx, storedToken("u1", "r", time.Hour)))

	require.NoError(t, ts.DeleteTokens(ctx, "u1"))

	_, err := ts.FindAccessToken(ctx, "u1")
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = ts.FindRefreshToken(ctx, "u1")
	require.ErrorIs(t, err, store.ErrNotFound)

	// Deleting again is fine
	require.NoError(t, ts.DeleteTokens(ctx, "u1"))
}

func TestTokenStore_OAuthState(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ts := memory.NewTokenStore()

	require.NoError(t, ts.SaveOAuthState(ctx, "state-abc", domain.ProviderNaver, time.Minute))

	provider, err := ts.ConsumeOAuthState(ctx, "state-abc")
	require.NoError(t, err)
	require.Equal(t, domain.ProviderNaver, provider)

	// Single use only
	_, err = ts.ConsumeOAuthState(ctx, "state-abc")
	require.ErrorIs(t, err, store.ErrNotFound)

	// Expired state cannot be redeemed
	require.NoError(t, ts.SaveOAuthState(ctx, "state-old", domain.ProviderNaver, -time.Second))
	_, err = ts.ConsumeOAuthState(ctx, "state-old")
	require.ErrorIs(t, err, store.ErrNotFound)
}
