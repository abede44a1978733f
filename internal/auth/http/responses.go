package http

// msgResponse is the body of every guard/OAuth rejection and of simple
// acknowledgements like logout.
type msgResponse struct {
	Msg string `json:"msg"`
}

// credentialErrorResponse is the 401 body for failed password logins.
// Deliberately identical for unknown users and wrong passwords.
type credentialErrorResponse struct {
	Code  int    `json:"code"`
	Error string `json:"error"`
}

// userInfoResponse describes the authenticated user.
type userInfoResponse struct {
	UserID        string `json:"user_id"`
	Username      string `json:"username"`
	Email         string `json:"email,omitempty"`
	PreferredName string `json:"preferred_name"`
	Provider      string `json:"provider"`
}

type healthChecks struct {
	Database   string `json:"database"`
	TokenStore string `json:"token_store"`
	Signer     string `json:"signer"`
}

type healthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *healthChecks `json:"checks,omitempty"`
}
