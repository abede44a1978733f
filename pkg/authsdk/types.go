package authsdk

// TokenPair is the response body of a successful login. It mirrors the
// service's token pair wire shape.
type TokenPair struct {
	// UserID is the authenticated user's id; protected requests echo it
	// back in the userId header.
	UserID string `json:"user_id"`

	// TokenType is always "bearer"
	TokenType string `json:"token_type"`

	// AccessToken is the JWT presented on protected requests
	AccessToken string `json:"access_token"`

	// ExpiresIn is the lifetime in seconds of the access token
	ExpiresIn int64 `json:"expires_in"`

	// RefreshToken buys new access tokens once the current one expires
	RefreshToken string `json:"refresh_token"`

	// RefreshTokenExpiresIn is the lifetime in seconds of the refresh token
	RefreshTokenExpiresIn int64 `json:"refresh_token_expires_in"`
}

// AccessTokenResponse is the reissue payload the service substitutes for
// a resource when an expired request carried a valid refresh token.
type AccessTokenResponse struct {
	TokenType   string `json:"token_type"`
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// UserInfoResponse describes the authenticated user.
type UserInfoResponse struct {
	UserID        string `json:"user_id"`
	Username      string `json:"username"`
	Email         string `json:"email,omitempty"`
	PreferredName string `json:"preferred_name"`
	Provider      string `json:"provider"`
}

// HealthChecks reports per-dependency readiness.
type HealthChecks struct {
	Database   string `json:"database"`
	TokenStore string `json:"token_store"`
	Signer     string `json:"signer"`
}

// HealthResponse is returned from the /livez and /readyz endpoints.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
