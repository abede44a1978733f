package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/careerhive/careerhive/internal/auth/domain"
	authhttp "github.com/careerhive/careerhive/internal/auth/http"
	"github.com/careerhive/careerhive/internal/auth/service"
	"github.com/careerhive/careerhive/internal/auth/store"
	"github.com/careerhive/careerhive/internal/auth/store/drivers/memory"
	"github.com/careerhive/careerhive/pkg/httpx"
	"github.com/careerhive/careerhive/pkg/jwtx"
)

type guardFixture struct {
	codec   *jwtx.Codec
	tokens  store.TokenStore
	service *service.TokenService
	handler http.Handler
}

func newGuardFixture(t *testing.T) *guardFixture {
	t.Helper()

	codec, err := jwtx.NewEphemeralCodec("careerhive-test")
	require.NoError(t, err)

	tokens := memory.NewTokenStore()
	tokenService := &service.TokenService{
		Codec:      codec,
		Tokens:     tokens,
		AccessTTL:  30 * time.Minute,
		RefreshTTL: 14 * 24 * time.Hour,
	}

	// Protected probe handler that echoes the injected user id
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, _ := r.Context().Value(httpx.CtxKeyUserID).(string)
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"user_id": userID})
	})

	return &guardFixture{
		codec:   codec,
		tokens:  tokens,
		service: tokenService,
		handler: authhttp.SessionGuard(codec, tokens, tokenService)(inner),
	}
}

func (f *guardFixture) do(t *testing.T, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	f.handler.ServeHTTP(rec, req)
	return rec
}

func msgOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Msg string `json:"msg"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Msg
}

func TestSessionGuard_ValidToken(t *testing.T) {
	f := newGuardFixture(t)
	pair, err := f.service.Issue(context.Background(), "user-1")
	require.NoError(t, err)

	rec := f.do(t, map[string]string{
		"Authorization": "Bearer " + pair.AccessToken,
		"userId":        "user-1",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"user_id":"user-1"`)
}

func TestSessionGuard_NoHeader(t *testing.T) {
	f := newGuardFixture(t)

	rec := f.do(t, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotEmpty(t, msgOf(t, rec))
}

func TestSessionGuard_UserHeaderMismatch(t *testing.T) {
	f := newGuardFixture(t)
	pair, err := f.service.Issue(context.Background(), "user-1")
	require.NoError(t, err)

	// Wrong userId header
	rec := f.do(t, map[string]string{
		"Authorization": "Bearer " + pair.AccessToken,
		"userId":        "someone-else",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// Missing userId header
	rec = f.do(t, map[string]string{
		"Authorization": "Bearer " + pair.AccessToken,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessionGuard_MalformedToken(t *testing.T) {
	f := newGuardFixture(t)

	// A valid refresh token exists, but a malformed access token must
	// never reach the refresh path
	pair, err := f.service.Issue(context.Background(), "user-1")
	require.NoError(t, err)

	rec := f.do(t, map[string]string{
		"Authorization": "Bearer garbage-token",
		"userId":        "user-1",
		"RefreshToken":  pair.RefreshToken,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "invalid token", msgOf(t, rec))
}

func TestSessionGuard_NewLoginInvalidatesOldSession(t *testing.T) {
	f := newGuardFixture(t)
	ctx := context.Background()

	old, err := f.service.Issue(ctx, "user-1")
	require.NoError(t, err)
	_, err = f.service.Issue(ctx, "user-1")
	require.NoError(t, err)

	// The old token still verifies cryptographically but is no longer the
	// stored one
	rec := f.do(t, map[string]string{
		"Authorization": "Bearer " + old.AccessToken,
		"userId":        "user-1",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "session expired", msgOf(t, rec))
}

func TestSessionGuard_LogoutInvalidatesSession(t *testing.T) {
	f := newGuardFixture(t)
	ctx := context.Background()

	pair, err := f.service.Issue(ctx, "user-1")
	require.NoError(t, err)
	require.NoError(t, f.service.Revoke(ctx, "user-1"))

	rec := f.do(t, map[string]string{
		"Authorization": "Bearer " + pair.AccessToken,
		"userId":        "user-1",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

// expiredSession issues a pair whose access token is already expired but
// whose refresh token is live and stored.
func expiredSession(t *testing.T, f *guardFixture, userID string) (access, refresh string) {
	t.Helper()
	ctx := context.Background()

	access, _, err := f.codec.Sign(userID, jwtx.TokenTypeAccess, -time.Minute)
	require.NoError(t, err)
	refresh, refreshClaims, err := f.codec.Sign(userID, jwtx.TokenTypeRefresh, time.Hour)
	require.NoError(t, err)

	require.NoError(t, f.tokens.SaveRefreshToken(ctx, domain.StoredToken{
		UserID:    userID,
		Value:     refresh,
		IssuedAt:  refreshClaims.IssuedAt.Time,
		ExpiresAt: refreshClaims.ExpiresAt.Time,
	}))
	return access, refresh
}

func TestSessionGuard_RefreshPath(t *testing.T) {
	f := newGuardFixture(t)
	access, refresh := expiredSession(t, f, "user-1")

	rec := f.do(t, map[string]string{
		"Authorization": "Bearer " + access,
		"userId":        "user-1",
		"RefreshToken":  refresh,
	})

	// The guard answers itself with a fresh access token
	require.Equal(t, http.StatusOK, rec.Code)

	var resp domain.AccessTokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "bearer", resp.TokenType)
	require.NotEmpty(t, resp.AccessToken)
	require.NotContains(t, rec.Body.String(), "refresh_token", "refresh path returns the access token only")

	// The reissued token is now the live session
	claims, err := f.codec.Verify(resp.AccessToken, jwtx.TokenTypeAccess)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.Subject)

	stored, err := f.tokens.FindAccessToken(context.Background(), "user-1")
	require.NoError(t, err)
	require.Equal(t, resp.AccessToken, stored.Value)
}

func TestSessionGuard_ExpiredWithoutRefreshHeader(t *testing.T) {
	f := newGuardFixture(t)
	access, _ := expiredSession(t, f, "user-1")

	rec := f.do(t, map[string]string{
		"Authorization": "Bearer " + access,
		"userId":        "user-1",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "access token expired", msgOf(t, rec))
}

func TestSessionGuard_RefreshRejections(t *testing.T) {
	f := newGuardFixture(t)
	ctx := context.Background()
	access, refresh := expiredSession(t, f, "user-1")

	t.Run("garbage refresh token", func(t *testing.T) {
		rec := f.do(t, map[string]string{
			"Authorization": "Bearer " + access,
			"userId":        "user-1",
			"RefreshToken":  "garbage",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("expired refresh token", func(t *testing.T) {
		dead, _, err := f.codec.Sign("user-1", jwtx.TokenTypeRefresh, -time.Minute)
		require.NoError(t, err)
		rec := f.do(t, map[string]string{
			"Authorization": "Bearer " + access,
			"userId":        "user-1",
			"RefreshToken":  dead,
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("refresh token for another user", func(t *testing.T) {
		_, otherRefresh := expiredSession(t, f, "user-2")
		rec := f.do(t, map[string]string{
			"Authorization": "Bearer " + access,
			"userId":        "user-1",
			"RefreshToken":  otherRefresh,
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("refresh token not in store", func(t *testing.T) {
		require.NoError(t, f.tokens.DeleteTokens(ctx, "user-1"))
		rec := f.do(t, map[string]string{
			"Authorization": "Bearer " + access,
			"userId":        "user-1",
			"RefreshToken":  refresh,
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
