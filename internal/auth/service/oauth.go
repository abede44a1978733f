package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/careerhive/careerhive/internal/auth/domain"
	"github.com/careerhive/careerhive/internal/auth/oauth"
	"github.com/careerhive/careerhive/internal/auth/store"
	"github.com/careerhive/careerhive/pkg/idx"
	"github.com/careerhive/careerhive/pkg/slogx"
)

// ErrUnknownProvider means the path segment named a provider we have no
// adapter for.
var ErrUnknownProvider = errors.New("unknown_provider")

// StateTTL bounds how long a consent round trip may take. A user idling
// on the provider's consent screen longer than this starts over.
const StateTTL = 5 * time.Minute

// OAuthService drives the social login flow: consent redirect, code
// exchange, and mapping the provider identity onto a local user.
type OAuthService struct {
	Store     store.Store
	Tokens    *TokenService
	TokenRepo store.TokenStore
	Providers map[domain.Provider]oauth.Provider
}

// BeginLogin returns the consent URL for the provider. When the provider
// requires the CSRF state echo, a fresh state value is parked in the
// token store first.
func (s *OAuthService) BeginLogin(ctx context.Context, name domain.Provider) (string, error) {
	p, ok := s.Providers[name]
	if !ok {
		return "", ErrUnknownProvider
	}

	var state string
	if p.UsesState() {
		state = uuid.New().String()
		if err := s.TokenRepo.SaveOAuthState(ctx, state, name, StateTTL); err != nil {
			return "", fmt.Errorf("save oauth state: %w", err)
		}
	}

	return p.AuthCodeURL(state), nil
}

// CompleteLogin redeems the provider callback: state check (when the
// provider uses one), code exchange, identity fetch, find-or-create of
// the local user, then a normal session issuance.
func (s *OAuthService) CompleteLogin(ctx context.Context, name domain.Provider, code, state string) (*domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	p, ok := s.Providers[name]
	if !ok {
		return nil, ErrUnknownProvider
	}

	if p.UsesState() {
		if state == "" {
			return nil, oauth.ErrInvalidState
		}
		minted, err := s.TokenRepo.ConsumeOAuthState(ctx, state)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, oauth.ErrInvalidState
			}
			return nil, fmt.Errorf("consume oauth state: %w", err)
		}
		if minted != name {
			return nil, oauth.ErrInvalidState
		}
	}

	token, err := p.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}

	identity, err := p.UserInfo(ctx, token)
	if err != nil {
		return nil, err
	}

	userID, err := s.findOrCreateUser(ctx, identity)
	if err != nil {
		return nil, err
	}

	l.Info("social login", "provider", name, "user_id", userID)

	return s.Tokens.Issue(ctx, userID)
}

// findOrCreateUser maps a provider identity onto a local user id. The
// provider's word is trusted: a previously unseen identity creates a
// user on the spot, and the unique (provider, external_id) link makes
// repeated logins land on the same user.
func (s *OAuthService) findOrCreateUser(ctx context.Context, identity oauth.Identity) (string, error) {
	ea, err := s.Store.ExternalAccounts().GetByProviderID(ctx, identity.Provider, identity.ExternalID)
	if err == nil {
		return ea.UserID, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return "", fmt.Errorf("lookup external account: %w", err)
	}

	var userID string
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		// An existing local user with the same verified email gets the new
		// provider linked instead of a duplicate account.
		if identity.Email != "" {
			if existing, err := tx.Users().GetUserByEmail(ctx, identity.Email); err == nil {
				userID = existing.ID
				return tx.ExternalAccounts().Create(ctx, domain.ExternalAccount{
					ID:         idx.New().String(),
					UserID:     existing.ID,
					Provider:   identity.Provider,
					ExternalID: identity.ExternalID,
				})
			} else if !errors.Is(err, store.ErrNotFound) {
				return err
			}
		}

		user := domain.User{
			ID:            idx.New().String(),
			Username:      fmt.Sprintf("%s:%s", identity.Provider, identity.ExternalID),
			Email:         identity.Email,
			PreferredName: identity.Name,
			Provider:      identity.Provider,
		}
		if user.PreferredName == "" {
			user.PreferredName = user.Username
		}
		if err := tx.Users().CreateUser(ctx, user); err != nil {
			return err
		}
		userID = user.ID

		return tx.ExternalAccounts().Create(ctx, domain.ExternalAccount{
			ID:         idx.New().String(),
			UserID:     user.ID,
			Provider:   identity.Provider,
			ExternalID: identity.ExternalID,
		})
	})
	if err != nil {
		// Two first logins for one identity can race; the loser of the
		// unique index re-reads the winner's link.
		if errors.Is(err, store.ErrAlreadyExists) {
			ea, lerr := s.Store.ExternalAccounts().GetByProviderID(ctx, identity.Provider, identity.ExternalID)
			if lerr == nil {
				return ea.UserID, nil
			}
		}
		return "", fmt.Errorf("create user for %s identity: %w", identity.Provider, err)
	}

	return userID, nil
}
