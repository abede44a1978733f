package domain

import "time"

// TokenPair is what a successful login returns: the short-lived access
// token and the longer-lived refresh token, both compact JWTs.
type TokenPair struct {
	UserID                string `json:"user_id"`
	TokenType             string `json:"token_type"` // always "bearer"
	AccessToken           string `json:"access_token"`
	ExpiresIn             int64  `json:"expires_in"` // seconds until access expiry
	RefreshToken          string `json:"refresh_token"`
	RefreshTokenExpiresIn int64  `json:"refresh_token_expires_in"`
}

// AccessTokenResponse is the refresh-path reply: a new access token only,
// the refresh token the client already holds stays valid.
type AccessTokenResponse struct {
	TokenType   string `json:"token_type"`
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// StoredToken is a token store record. One record exists per (kind, user);
// saving a newer token for the same user replaces it.
type StoredToken struct {
	UserID    string    `json:"user_id"`
	Value     string    `json:"value"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
