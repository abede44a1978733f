package authsdk

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// refreshBuffer is subtracted from the access token lifetime so the
// refresh round trip starts slightly before actual expiry.
const refreshBuffer = 30 * time.Second

// Session represents an authenticated session with automatic token refresh.
// All Session methods handle the service's refresh round trip when needed.
type Session struct {
	client *SDKClient

	mu           sync.RWMutex
	userID       string
	accessToken  string
	refreshToken string
	expiresAt    time.Time
}

// newSession creates a new authenticated session from a login response.
func newSession(client *SDKClient, pair *TokenPair) *Session {
	return &Session{
		client:       client,
		userID:       pair.UserID,
		accessToken:  pair.AccessToken,
		refreshToken: pair.RefreshToken,
		expiresAt:    time.Now().Add(time.Duration(pair.ExpiresIn)*time.Second - refreshBuffer),
	}
}

// UserID returns the authenticated user's id.
func (s *Session) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

// AccessToken returns the current access token without checking expiration.
// For most use cases, prefer the Session methods which refresh automatically.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

// RefreshToken returns the current refresh token.
func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}

// adoptAccessToken installs a reissued access token as the session's
// current one.
func (s *Session) adoptAccessToken(reissued *AccessTokenResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = reissued.AccessToken
	s.expiresAt = time.Now().Add(time.Duration(reissued.ExpiresIn)*time.Second - refreshBuffer)
}

// doAuthRequest performs an authenticated HTTP request. When the access
// token is inside its refresh buffer the refresh token rides along, and
// a reissued-token answer is adopted and the request retried once. The
// returned response has its body already read and closed; use the byte
// slice instead.
func (s *Session) doAuthRequest(ctx context.Context, method, path string) (*http.Response, []byte, error) {
	for attempt := 0; attempt < 2; attempt++ {
		s.mu.RLock()
		access := s.accessToken
		refresh := s.refreshToken
		userID := s.userID
		stale := !time.Now().Before(s.expiresAt)
		s.mu.RUnlock()

		req, err := http.NewRequestWithContext(ctx, method, s.client.url(path), nil)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+access)
		req.Header.Set("userId", userID)
		if stale && refresh != "" {
			req.Header.Set("RefreshToken", refresh)
		}

		resp, err := s.client.HTTPClient.Do(req)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to send request: %w", err)
		}

		body, err := readBody(resp)
		if err != nil {
			return nil, nil, err
		}

		// A 200 on the refresh path may be the reissued token rather than
		// the resource; adopt it and go around once more
		if stale && resp.StatusCode == http.StatusOK {
			var reissued AccessTokenResponse
			if jsonErr := json.Unmarshal(body, &reissued); jsonErr == nil &&
				reissued.AccessToken != "" && reissued.TokenType != "" {
				s.adoptAccessToken(&reissued)
				continue
			}
		}

		return resp, body, nil
	}

	return nil, nil, fmt.Errorf("request to %s kept answering with reissued tokens", path)
}

// getJSON performs an authenticated request and decodes a 200 response
// into target. Non-200 responses come back as *APIError.
func (s *Session) getJSON(ctx context.Context, method, path string, target any) error {
	resp, body, err := s.doAuthRequest(ctx, method, path)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return parseErrorResponse(resp, body)
	}

	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

func readBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}
