package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/careerhive/careerhive/internal/auth/domain"
	"github.com/careerhive/careerhive/internal/auth/store"
)

const (
	accessKeyPrefix  = "auth:access:"
	refreshKeyPrefix = "auth:refresh:"
	stateKeyPrefix   = "auth:state:"
)

// TokenStore is the production token store. Redis TTLs do the expiry
// work: every record is written with the remaining lifetime of the token
// it mirrors and simply disappears when the token does.
type TokenStore struct {
	client *redis.Client
}

// NewTokenStore connects using a redis URL, e.g. redis://localhost:6379/0.
func NewTokenStore(url string) (*TokenStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis: parse url: %w", err)
	}
	return &TokenStore{client: redis.NewClient(opts)}, nil
}

// NewTokenStoreFromClient wraps an existing client (used by tests).
func NewTokenStoreFromClient(client *redis.Client) *TokenStore {
	return &TokenStore{client: client}
}

func (s *TokenStore) SaveAccessToken(ctx context.Context, tok domain.StoredToken) error {
	return s.save(ctx, accessKeyPrefix+tok.UserID, tok)
}

func (s *TokenStore) SaveRefreshToken(ctx context.Context, tok domain.StoredToken) error {
	return s.save(ctx, refreshKeyPrefix+tok.UserID, tok)
}

func (s *TokenStore) save(ctx context.Context, key string, tok domain.StoredToken) error {
	ttl := time.Until(tok.ExpiresAt)
	if ttl <= 0 {
		// Already expired; make sure no stale record survives.
		return s.client.Del(ctx, key).Err()
	}

	payload, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("redis: marshal token: %w", err)
	}
	return s.client.Set(ctx, key, payload, ttl).Err()
}

func (s *TokenStore) FindAccessToken(ctx context.Context, userID string) (domain.StoredToken, error) {
	return s.find(ctx, accessKeyPrefix+userID)
}

func (s *TokenStore) FindRefreshToken(ctx context.Context, userID string) (domain.StoredToken, error) {
	return s.find(ctx, refreshKeyPrefix+userID)
}

func (s *TokenStore) find(ctx context.Context, key string) (domain.StoredToken, error) {
	payload, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.StoredToken{}, store.ErrNotFound
	}
	if err != nil {
		return domain.StoredToken{}, fmt.Errorf("redis: get: %w", err)
	}

	var tok domain.StoredToken
	if err := json.Unmarshal(payload, &tok); err != nil {
		return domain.StoredToken{}, fmt.Errorf("redis: unmarshal token: %w", err)
	}
	return tok, nil
}

// DeleteTokens removes both session records with a single DEL.
func (s *TokenStore) DeleteTokens(ctx context.Context, userID string) error {
	return s.client.Del(ctx, accessKeyPrefix+userID, refreshKeyPrefix+userID).Err()
}

func (s *TokenStore) SaveOAuthState(ctx context.Context, state string, provider domain.Provider, ttl time.Duration) error {
	return s.client.Set(ctx, stateKeyPrefix+state, string(provider), ttl).Err()
}

func (s *TokenStore) ConsumeOAuthState(ctx context.Context, state string) (domain.Provider, error) {
	val, err := s.client.GetDel(ctx, stateKeyPrefix+state).Result()
	if errors.Is(err, redis.Nil) {
		return "", store.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis: getdel: %w", err)
	}
	return domain.Provider(val), nil
}

func (s *TokenStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *TokenStore) Close() error {
	return s.client.Close()
}
