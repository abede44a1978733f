// Package oauth adapts the external identity providers (Google, Kakao,
// Naver) behind one interface so the login flow never touches
// provider-specific wire formats.
package oauth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/careerhive/careerhive/internal/auth/domain"
)

var (
	// ErrInvalidCode covers everything that can go wrong talking to a
	// provider: rejected authorization codes, network failures, and
	// userinfo responses we cannot make sense of. Callers treat them all
	// the same way, so we do too.
	ErrInvalidCode = errors.New("oauth: invalid authorization code")

	// ErrInvalidState means the CSRF state echo was missing, unknown or
	// already used. Raised before any code exchange happens.
	ErrInvalidState = errors.New("oauth: invalid state")
)

// Identity is what we learn about a user from a provider. ExternalID is
// the stable key the external_accounts table links on: the email address
// for Google and Naver, the numeric account id for Kakao.
type Identity struct {
	Provider   domain.Provider
	ExternalID string
	Email      string
	Name       string
}

// Provider is one configured upstream identity provider.
type Provider interface {
	// Name returns which provider this adapter talks to.
	Name() domain.Provider

	// AuthCodeURL builds the consent-screen URL. Pure string work, no IO.
	AuthCodeURL(state string) string

	// Exchange redeems an authorization code for a provider token.
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)

	// UserInfo fetches the identity behind a provider token.
	UserInfo(ctx context.Context, token *oauth2.Token) (Identity, error)

	// UsesState reports whether the provider requires the CSRF state
	// round trip (Naver does, the others tolerate an empty state).
	UsesState() bool
}

// requestTimeout bounds every outbound provider call. Provider outages
// must not hold login requests open indefinitely.
const requestTimeout = 10 * time.Second

// httpClient is shared across adapters; oauth2 picks it up from context.
var httpClient = &http.Client{Timeout: requestTimeout}

// withHTTPClient makes the oauth2 package route through our timed client.
func withHTTPClient(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, httpClient)
}
