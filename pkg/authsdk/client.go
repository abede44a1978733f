package authsdk

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// SDKClient is a client for the CareerHive auth service.
// It provides access to unauthenticated operations and can create authenticated Sessions.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewSDKClient creates a new auth service client.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// LoginWithPassword authenticates a local account and returns an
// authenticated session. The username parameter also accepts the
// account's email address.
func (c *SDKClient) LoginWithPassword(ctx context.Context, username, password string) (*Session, error) {
	form := url.Values{
		"username": {username},
		"password": {password},
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/login",
		strings.NewReader(form.Encode()),
		map[string]string{"Content-Type": "application/x-www-form-urlencoded"},
	)
	if err != nil {
		return nil, err
	}

	var pair TokenPair
	if err := decodeJSON(resp, &pair, http.StatusOK); err != nil {
		return nil, err
	}

	return newSession(c, &pair), nil
}

// NewSessionFromTokens creates an authenticated session from existing tokens.
// This is useful when tokens from a previous login were persisted elsewhere.
// The session still performs auto-refresh when the access token expires.
func (c *SDKClient) NewSessionFromTokens(userID, accessToken, refreshToken string, expiresIn int64) *Session {
	return &Session{
		client:       c,
		userID:       userID,
		accessToken:  accessToken,
		refreshToken: refreshToken,
		expiresAt:    time.Now().Add(time.Duration(expiresIn)*time.Second - refreshBuffer),
	}
}
