package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/careerhive/careerhive/internal/auth/service"
	"github.com/careerhive/careerhive/internal/auth/store"
	"github.com/careerhive/careerhive/pkg/cryptox"
	"github.com/careerhive/careerhive/pkg/httpx"
	"github.com/careerhive/careerhive/pkg/jwtx"
	"github.com/careerhive/careerhive/pkg/slogx"
)

// Request headers the guard reads.
const (
	headerUserID       = "userId"
	headerRefreshToken = "RefreshToken"
)

// SessionGuard authenticates protected routes.
//
// A live access token whose stored record matches continues down the
// chain with the user id in context. An expired-but-authentic access
// token accompanied by a valid, still-stored refresh token short-circuits
// with a 200 carrying a fresh access token. Everything else is a 400
// with a `{"msg": ...}` body. A malformed token is rejected outright;
// the refresh path only ever runs for tokens that really were ours.
func SessionGuard(codec *jwtx.Codec, tokens store.TokenStore, tokenService *service.TokenService) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				reject(w, "authorization required")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			claims, err := codec.Verify(raw, jwtx.TokenTypeAccess)
			switch {
			case err == nil:
				userID := r.Header.Get(headerUserID)
				if userID == "" || claims.Subject != userID {
					log.Warn("session rejected: user header mismatch", "sub", claims.Subject)
					reject(w, "invalid session")
					return
				}

				stored, err := tokens.FindAccessToken(ctx, claims.Subject)
				if err != nil || !cryptox.SecureCompare(stored.Value, raw) {
					// Logged out, or a newer login replaced this session
					log.Info("session rejected: token not current", "user_id", claims.Subject)
					reject(w, "session expired")
					return
				}

				ctx = context.WithValue(ctx, httpx.CtxKeyUserID, claims.Subject)
				ctx = context.WithValue(ctx, httpx.CtxKeyClaims, claims)
				next.ServeHTTP(w, r.WithContext(ctx))

			case errors.Is(err, jwtx.ErrExpired):
				refreshSession(w, r, codec, tokens, tokenService, claims)

			default:
				// Malformed, bad signature, wrong type: never try to refresh
				log.Warn("session rejected: malformed token", "err", err)
				reject(w, "invalid token")
			}
		})
	}
}

// refreshSession handles the expired-access path: a well-formed refresh
// token for the same user that is still the stored one buys a brand new
// access token, returned directly as the response.
func refreshSession(
	w http.ResponseWriter,
	r *http.Request,
	codec *jwtx.Codec,
	tokens store.TokenStore,
	tokenService *service.TokenService,
	accessClaims jwtx.Claims,
) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	refreshRaw := r.Header.Get(headerRefreshToken)
	if refreshRaw == "" {
		reject(w, "access token expired")
		return
	}

	refreshClaims, err := codec.Verify(refreshRaw, jwtx.TokenTypeRefresh)
	if err != nil {
		log.Info("refresh rejected: bad refresh token", "err", err)
		reject(w, "invalid refresh token")
		return
	}

	if refreshClaims.Subject != accessClaims.Subject {
		log.Warn("refresh rejected: subject mismatch",
			"access_sub", accessClaims.Subject, "refresh_sub", refreshClaims.Subject)
		reject(w, "invalid refresh token")
		return
	}

	stored, err := tokens.FindRefreshToken(ctx, refreshClaims.Subject)
	if err != nil || !cryptox.SecureCompare(stored.Value, refreshRaw) {
		log.Info("refresh rejected: token not current", "user_id", refreshClaims.Subject)
		reject(w, "invalid refresh token")
		return
	}

	resp, err := tokenService.Reissue(ctx, refreshClaims.Subject)
	if err != nil {
		log.Error("reissue failed", "user_id", refreshClaims.Subject, "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, msgResponse{Msg: "internal error"})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}

func reject(w http.ResponseWriter, msg string) {
	httpx.WriteJSON(w, http.StatusBadRequest, msgResponse{Msg: msg})
}
