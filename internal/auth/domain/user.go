package domain

import "time"

// Provider identifies where a user's credential lives.
type Provider string

const (
	ProviderLocal  Provider = "local"
	ProviderGoogle Provider = "google"
	ProviderKakao  Provider = "kakao"
	ProviderNaver  Provider = "naver"
)

// ParseProvider maps a path segment like "google" onto a known Provider.
func ParseProvider(s string) (Provider, bool) {
	switch Provider(s) {
	case ProviderGoogle, ProviderKakao, ProviderNaver:
		return Provider(s), true
	default:
		return "", false
	}
}

type User struct {
	ID            string
	Username      string
	Email         string
	PreferredName string
	PasswordHash  string   // argon2 encoded, empty for provider-created users
	Provider      Provider // credential origin at signup
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ExternalAccount links a local user to an identity at an OAuth provider.
// (provider, external_id) is unique, which is what makes repeated social
// logins land on the same local user.
type ExternalAccount struct {
	ID         string
	UserID     string
	Provider   Provider
	ExternalID string
	CreatedAt  time.Time
}
