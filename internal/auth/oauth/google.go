package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/careerhive/careerhive/internal/auth/domain"
)

var googleEndpoint = oauth2.Endpoint{
	AuthURL:  "https://accounts.google.com/o/oauth2/v2/auth",
	TokenURL: "https://oauth2.googleapis.com/token",
}

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// Google authenticates against Google's OAuth2 endpoints. The external
// identity key is the account email.
type Google struct {
	cfg         *oauth2.Config
	userInfoURL string
}

func NewGoogle(clientID, clientSecret, redirectURL string) *Google {
	return &Google{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     googleEndpoint,
		},
		userInfoURL: googleUserInfoURL,
	}
}

func (g *Google) Name() domain.Provider { return domain.ProviderGoogle }

func (g *Google) UsesState() bool { return false }

func (g *Google) AuthCodeURL(state string) string {
	return g.cfg.AuthCodeURL(state)
}

func (g *Google) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := g.cfg.Exchange(withHTTPClient(ctx), code)
	if err != nil {
		return nil, fmt.Errorf("%w: google exchange: %v", ErrInvalidCode, err)
	}
	return token, nil
}

func (g *Google) UserInfo(ctx context.Context, token *oauth2.Token) (Identity, error) {
	var payload struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := fetchUserInfo(ctx, g.cfg, token, g.userInfoURL, &payload); err != nil {
		return Identity{}, err
	}

	if payload.Email == "" {
		return Identity{}, fmt.Errorf("%w: google userinfo missing email", ErrInvalidCode)
	}

	return Identity{
		Provider:   domain.ProviderGoogle,
		ExternalID: payload.Email,
		Email:      payload.Email,
		Name:       payload.Name,
	}, nil
}

// fetchUserInfo GETs a provider userinfo endpoint with the token-bearing
// client and decodes the JSON body into out.
func fetchUserInfo(ctx context.Context, cfg *oauth2.Config, token *oauth2.Token, url string, out any) error {
	client := cfg.Client(withHTTPClient(ctx), token)

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("%w: userinfo request: %v", ErrInvalidCode, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: userinfo status %d", ErrInvalidCode, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: userinfo decode: %v", ErrInvalidCode, err)
	}
	return nil
}
