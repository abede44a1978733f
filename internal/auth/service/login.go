package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/careerhive/careerhive/internal/auth/domain"
	"github.com/careerhive/careerhive/internal/auth/store"
	"github.com/careerhive/careerhive/pkg/cryptox"
	"github.com/careerhive/careerhive/pkg/slogx"
)

var (
	// ErrUserNotFound and ErrCredentialMismatch are distinguished in logs
	// only; the HTTP layer collapses both into one generic 401 so a
	// response can't be used to probe which usernames exist.
	ErrUserNotFound       = errors.New("user_not_found")
	ErrCredentialMismatch = errors.New("credential_mismatch")
)

// LoginService authenticates local username/password users.
type LoginService struct {
	Store  store.Store
	Tokens *TokenService
}

// LoginWithPassword verifies the credential and issues a session pair.
// The identifier is looked up as an email when it contains '@',
// otherwise as a username.
func (s *LoginService) LoginWithPassword(ctx context.Context, identifier, password string) (*domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	identifier = strings.TrimSpace(identifier)

	var (
		user domain.User
		err  error
	)
	if strings.Contains(identifier, "@") {
		user, err = s.Store.Users().GetUserByEmail(ctx, identifier)
	} else {
		user, err = s.Store.Users().GetUserByUsername(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.Info("login failed: unknown user", "identifier", identifier)
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	// Provider-created users have no local credential at all
	if user.PasswordHash == "" {
		l.Info("login failed: no local credential", "user_id", user.ID)
		return nil, ErrCredentialMismatch
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		l.Info("login failed: credential mismatch", "user_id", user.ID)
		return nil, ErrCredentialMismatch
	}

	return s.Tokens.Issue(ctx, user.ID)
}

// Logout revokes the user's live session.
func (s *LoginService) Logout(ctx context.Context, userID string) error {
	return s.Tokens.Revoke(ctx, userID)
}
