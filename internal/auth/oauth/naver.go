package oauth

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"

	"github.com/careerhive/careerhive/internal/auth/domain"
)

var naverEndpoint = oauth2.Endpoint{
	AuthURL:  "https://nid.naver.com/oauth2.0/authorize",
	TokenURL: "https://nid.naver.com/oauth2.0/token",
}

const naverUserInfoURL = "https://openapi.naver.com/v1/nid/me"

// Naver authenticates against Naver's OAuth2 endpoints. Naver mandates
// the CSRF state echo on the consent round trip, so UsesState is true
// and the login flow parks a state value before redirecting.
type Naver struct {
	cfg         *oauth2.Config
	userInfoURL string
}

func NewNaver(clientID, clientSecret, redirectURL string) *Naver {
	return &Naver{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     naverEndpoint,
		},
		userInfoURL: naverUserInfoURL,
	}
}

func (n *Naver) Name() domain.Provider { return domain.ProviderNaver }

func (n *Naver) UsesState() bool { return true }

func (n *Naver) AuthCodeURL(state string) string {
	return n.cfg.AuthCodeURL(state)
}

func (n *Naver) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := n.cfg.Exchange(withHTTPClient(ctx), code)
	if err != nil {
		return nil, fmt.Errorf("%w: naver exchange: %v", ErrInvalidCode, err)
	}
	return token, nil
}

func (n *Naver) UserInfo(ctx context.Context, token *oauth2.Token) (Identity, error) {
	// Naver wraps the profile in a result envelope
	var payload struct {
		ResultCode string `json:"resultcode"`
		Message    string `json:"message"`
		Response   struct {
			ID    string `json:"id"`
			Email string `json:"email"`
			Name  string `json:"name"`
		} `json:"response"`
	}
	if err := fetchUserInfo(ctx, n.cfg, token, n.userInfoURL, &payload); err != nil {
		return Identity{}, err
	}

	if payload.ResultCode != "00" {
		return Identity{}, fmt.Errorf("%w: naver userinfo result %s (%s)", ErrInvalidCode, payload.ResultCode, payload.Message)
	}
	if payload.Response.Email == "" {
		return Identity{}, fmt.Errorf("%w: naver userinfo missing email", ErrInvalidCode)
	}

	return Identity{
		Provider:   domain.ProviderNaver,
		ExternalID: payload.Response.Email,
		Email:      payload.Response.Email,
		Name:       payload.Response.Name,
	}, nil
}
