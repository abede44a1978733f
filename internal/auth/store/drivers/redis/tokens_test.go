package redis_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/careerhive/careerhive/internal/auth/domain"
	"github.com/careerhive/careerhive/internal/auth/store"
	redisdriver "github.com/careerhive/careerhive/internal/auth/store/drivers/redis"
)

// startRedis spins up a disposable redis container and returns a URL for it.
func startRedis(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379/tcp")
	require.NoError(t, err)

	return fmt.Sprintf("redis://%s:%s/0", host, port.Port())
}

func TestTokenStore_Roundtrip(t *testing.T) {
	if testing.Short() {
		t.Skip("requires docker")
	}

	ctx := context.Background()
	ts, err := redisdriver.NewTokenStore(startRedis(t))
	require.NoError(t, err)
	defer ts.Close()

	require.NoError(t, ts.Ping(ctx))

	now := time.Now()
	access := domain.StoredToken{UserID: "u1", Value: "access-1", IssuedAt: now, ExpiresAt: now.Add(time.Minute)}
	refresh := domain.StoredToken{UserID: "u1", Value: "refresh-1", IssuedAt: now, ExpiresAt: now.Add(time.Hour)}

	require.NoError(t, ts.SaveAccessToken(ctx, access))
	require.NoError(t, ts.SaveRefreshToken(ctx, refresh))

	got, err := ts.FindAccessToken(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "access-1", got.Value)

	got, err = ts.FindRefreshToken(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "refresh-1", got.Value)

	// Replacement: a second login overwrites the stored pair
	require.NoError(t, ts.SaveAccessToken(ctx, domain.StoredToken{
		UserID: "u1", Value: "access-2", IssuedAt: now, ExpiresAt: now.Add(time.Minute),
	}))
	got, err = ts.FindAccessToken(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "access-2", got.Value)

	// Logout clears both records at once
	require.NoError(t, ts.DeleteTokens(ctx, "u1"))
	_, err = ts.FindAccessToken(ctx, "u1")
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = ts.FindRefreshToken(ctx, "u1")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestTokenStore_TTLEviction(t *testing.T) {
	if testing.Short() {
		t.Skip("requires docker")
	}

	ctx := context.Background()
	ts, err := redisdriver.NewTokenStore(startRedis(t))
	require.NoError(t, err)
	defer ts.Close()

	now := time.Now()
	require.NoError(t, ts.SaveAccessToken(ctx, domain.StoredToken{
		UserID: "u1", Value: "short-lived", IssuedAt: now, ExpiresAt: now.Add(time.Second),
	}))

	require.Eventually(t, func() bool {
		_, err := ts.FindAccessToken(ctx, "u1")
		return err != nil
	}, 5*time.Second, 200*time.Millisecond, "record should evict with the token's TTL")

	// A token that is already expired never gets stored
	require.NoError(t, ts.SaveAccessToken(ctx, domain.StoredToken{
		UserID: "u2", Value: "dead-on-arrival", IssuedAt: now, ExpiresAt: now.Add(-time.Minute),
	}))
	_, err = ts.FindAccessToken(ctx, "u2")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestTokenStore_OAuthState(t *testing.T) {
	if testing.Short() {
		t.Skip("requires docker")
	}

	ctx := context.Background()
	ts, err := redisdriver.NewTokenStore(startRedis(t))
	require.NoError(t, err)
	defer ts.Close()

	require.NoError(t, ts.SaveOAuthState(ctx, "state-xyz", domain.ProviderNaver, time.Minute))

	provider, err := ts.ConsumeOAuthState(ctx, "state-xyz")
	require.NoError(t, err)
	require.Equal(t, domain.ProviderNaver, provider)

	_, err = ts.ConsumeOAuthState(ctx, "state-xyz")
	require.ErrorIs(t, err, store.ErrNotFound, "state values are single use")
}
