package service

import (
	"context"
	"fmt"
	"time"

	"github.com/careerhive/careerhive/internal/auth/domain"
	"github.com/careerhive/careerhive/internal/auth/store"
	"github.com/careerhive/careerhive/pkg/jwtx"
	"github.com/careerhive/careerhive/pkg/slogx"
)

// TokenService issues, reissues and revokes session token pairs. Every
// issuance overwrites the user's stored pair, so the newest login is the
// only live session.
type TokenService struct {
	Codec      *jwtx.Codec
	Tokens     store.TokenStore
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Issue signs a fresh access/refresh pair for the user and records both
// in the token store with TTLs matching the tokens themselves.
func (s *TokenService) Issue(ctx context.Context, userID string) (*domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	access, accessClaims, err := s.Codec.Sign(userID, jwtx.TokenTypeAccess, s.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refresh, refreshClaims, err := s.Codec.Sign(userID, jwtx.TokenTypeRefresh, s.RefreshTTL)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	if err := s.Tokens.SaveAccessToken(ctx, storedFromClaims(userID, access, accessClaims)); err != nil {
		return nil, fmt.Errorf("save access token: %w", err)
	}
	if err := s.Tokens.SaveRefreshToken(ctx, storedFromClaims(userID, refresh, refreshClaims)); err != nil {
		return nil, fmt.Errorf("save refresh token: %w", err)
	}

	l.Info("session issued", "user_id", userID)

	return &domain.TokenPair{
		UserID:                userID,
		TokenType:             "bearer",
		AccessToken:           access,
		ExpiresIn:             int64(s.AccessTTL.Seconds()),
		RefreshToken:          refresh,
		RefreshTokenExpiresIn: int64(s.RefreshTTL.Seconds()),
	}, nil
}

// Reissue signs a new access token only, leaving the stored refresh
// record untouched. This is the refresh-path half of Issue.
func (s *TokenService) Reissue(ctx context.Context, userID string) (*domain.AccessTokenResponse, error) {
	l := slogx.FromContext(ctx)

	access, claims, err := s.Codec.Sign(userID, jwtx.TokenTypeAccess, s.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	if err := s.Tokens.SaveAccessToken(ctx, storedFromClaims(userID, access, claims)); err != nil {
		return nil, fmt.Errorf("save access token: %w", err)
	}

	l.Info("access token reissued", "user_id", userID)

	return &domain.AccessTokenResponse{
		TokenType:   "bearer",
		AccessToken: access,
		ExpiresIn:   int64(s.AccessTTL.Seconds()),
	}, nil
}

// Revoke drops both stored records for the user. Their outstanding JWTs
// remain cryptographically valid until exp, but the guard's store check
// turns them away.
func (s *TokenService) Revoke(ctx context.Context, userID string) error {
	if err := s.Tokens.DeleteTokens(ctx, userID); err != nil {
		return fmt.Errorf("delete tokens: %w", err)
	}
	slogx.FromContext(ctx).Info("session revoked", "user_id", userID)
	return nil
}

func storedFromClaims(userID, value string, claims jwtx.Claims) domain.StoredToken {
	return domain.StoredToken{
		UserID:    userID,
		Value:     value,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}
}
