package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/careerhive/careerhive/internal/auth/domain"
	authhttp "github.com/careerhive/careerhive/internal/auth/http"
	"github.com/careerhive/careerhive/internal/auth/oauth"
	"github.com/careerhive/careerhive/internal/auth/service"
	"github.com/careerhive/careerhive/internal/auth/store"
	"github.com/careerhive/careerhive/internal/auth/store/drivers/memory"
	"github.com/careerhive/careerhive/internal/auth/store/drivers/sqlite"
	"github.com/careerhive/careerhive/pkg/cryptox"
	"github.com/careerhive/careerhive/pkg/idx"
	"github.com/careerhive/careerhive/pkg/jwtx"
	"github.com/careerhive/careerhive/pkg/slogx"
)

/*
 * Common helpers for auth service end-to-end tests. The full service
 * (router, services, sqlite, token store) runs in-process behind an
 * httptest server, and tests drive it through the public SDK exactly
 * the way an external consumer would.
 */

const testIssuer = "careerhive-auth-test"

// fakeIdentityProvider stands in for Google/Kakao/Naver. The code
// "valid-code" redeems into the configured identity.
type fakeIdentityProvider struct {
	name     domain.Provider
	identity oauth.Identity
	useState bool
}

func (p *fakeIdentityProvider) Name() domain.Provider { return p.name }

func (p *fakeIdentityProvider) AuthCodeURL(state string) string {
	return "https://consent.invalid/authorize?state=" + url.QueryEscape(state)
}

func (p *fakeIdentityProvider) Exchange(_ context.Context, code string) (*oauth2.Token, error) {
	if code != "valid-code" {
		return nil, oauth.ErrInvalidCode
	}
	return &oauth2.Token{AccessToken: "upstream-token"}, nil
}

func (p *fakeIdentityProvider) UserInfo(_ context.Context, _ *oauth2.Token) (oauth.Identity, error) {
	return p.identity, nil
}

func (p *fakeIdentityProvider) UsesState() bool { return p.useState }

// testServer is one fully wired auth service instance.
type testServer struct {
	URL string

	store        *sqlite.Store
	tokens       store.TokenStore
	codec        *jwtx.Codec
	tokenService *service.TokenService
}

// setupAuthServer wires the service against sqlite :memory: and an
// in-process token store and serves it over a real listener.
func setupAuthServer(t *testing.T) *testServer {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	codec, err := jwtx.NewEphemeralCodec(testIssuer)
	require.NoError(t, err)

	tokens := memory.NewTokenStore()
	tokenService := &service.TokenService{
		Codec:      codec,
		Tokens:     tokens,
		AccessTTL:  30 * time.Minute,
		RefreshTTL: 14 * 24 * time.Hour,
	}

	logger := slogx.New(slogx.Config{
		Service: "auth-service",
		Version: "test",
		Env:     "test",
		Level:   "error",
		Format:  "text",
	})

	router := authhttp.NewRouter(codec, "test", st, tokens, logger)
	router.TokenService = tokenService
	router.LoginService = &service.LoginService{Store: st, Tokens: tokenService}
	router.OAuthService = &service.OAuthService{
		Store:     st,
		Tokens:    tokenService,
		TokenRepo: tokens,
		Providers: map[domain.Provider]oauth.Provider{
			domain.ProviderGoogle: &fakeIdentityProvider{
				name: domain.ProviderGoogle,
				identity: oauth.Identity{
					Provider:   domain.ProviderGoogle,
					ExternalID: "social@example.com",
					Email:      "social@example.com",
					Name:       "Social User",
				},
			},
			domain.ProviderNaver: &fakeIdentityProvider{
				name:     domain.ProviderNaver,
				useState: true,
				identity: oauth.Identity{
					Provider:   domain.ProviderNaver,
					ExternalID: "naver@example.com",
					Email:      "naver@example.com",
					Name:       "Naver User",
				},
			},
		},
	}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testServer{
		URL:          srv.URL,
		store:        st,
		tokens:       tokens,
		codec:        codec,
		tokenService: tokenService,
	}
}

// seedUser creates a local account directly in the database.
func seedUser(t *testing.T, ts *testServer, username, email, password string) domain.User {
	t.Helper()

	hash, err := cryptox.HashPassword(password)
	require.NoError(t, err)

	u := domain.User{
		ID:            idx.New().String(),
		Username:      username,
		Email:         email,
		PreferredName: username,
		PasswordHash:  hash,
		Provider:      domain.ProviderLocal,
	}
	require.NoError(t, ts.store.Users().CreateUser(context.Background(), u))
	return u
}

// noRedirectClient returns OAuth consent redirects instead of following
// them off to the fake provider hostname.
func noRedirectClient() *http.Client {
	return &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
		Timeout: 5 * time.Second,
	}
}
