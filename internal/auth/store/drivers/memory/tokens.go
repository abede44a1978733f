package memory

import (
	"context"
	"sync"
	"time"

	"github.com/careerhive/careerhive/internal/auth/domain"
	"github.com/careerhive/careerhive/internal/auth/store"
)

type stateEntry struct {
	provider  domain.Provider
	expiresAt time.Time
}

// TokenStore is an in-process token store for tests and single-node dev
// runs. Expiry is checked lazily on read instead of with a sweeper.
type TokenStore struct {
	mu      sync.RWMutex
	access  map[string]domain.StoredToken
	refresh map[string]domain.StoredToken
	states  map[string]stateEntry
}

func NewTokenStore() *TokenStore {
	return &TokenStore{
		access:  make(map[string]domain.StoredToken),
		refresh: make(map[string]domain.StoredToken),
		states:  make(map[string]stateEntry),
	}
}

func (s *TokenStore) SaveAccessToken(_ context.Context, tok domain.StoredToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access[tok.UserID] = tok
	return nil
}

func (s *TokenStore) SaveRefreshToken(_ context.Context, tok domain.StoredToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh[tok.UserID] = tok
	return nil
}

func (s *TokenStore) FindAccessToken(_ context.Context, userID string) (domain.StoredToken, error) {
	return s.find(s.access, userID)
}

func (s *TokenStore) FindRefreshToken(_ context.Context, userID string) (domain.StoredToken, error) {
	return s.find(s.refresh, userID)
}

func (s *TokenStore) find(bucket map[string]domain.StoredToken, userID string) (domain.StoredToken, error) {
	s.mu.RLock()
	tok, ok := bucket[userID]
	s.mu.RUnlock()

	if !ok || time.Now().After(tok.ExpiresAt) {
		return domain.StoredToken{}, store.ErrNotFound
	}
	return tok, nil
}

func (s *TokenStore) DeleteTokens(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.access, userID)
	delete(s.refresh, userID)
	return nil
}

func (s *TokenStore) SaveOAuthState(_ context.Context, state string, provider domain.Provider, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[state] = stateEntry{provider: provider, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *TokenStore) ConsumeOAuthState(_ context.Context, state string) (domain.Provider, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.states[state]
	if !ok {
		return "", store.ErrNotFound
	}
	delete(s.states, state)

	if time.Now().After(entry.expiresAt) {
		return "", store.ErrNotFound
	}
	return entry.provider, nil
}

func (s *TokenStore) Ping(context.Context) error { return nil }

func (s *TokenStore) Close() error { return nil }
