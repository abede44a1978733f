package oauth

import (
	"context"
	"fmt"
	"strconv"

	"golang.org/x/oauth2"

	"github.com/careerhive/careerhive/internal/auth/domain"
)

var kakaoEndpoint = oauth2.Endpoint{
	AuthURL:  "https://kauth.kakao.com/oauth/authorize",
	TokenURL: "https://kauth.kakao.com/oauth/token",
}

const kakaoUserInfoURL = "https://kapi.kakao.com/v2/user/me"

// Kakao authenticates against Kakao's OAuth2 endpoints. Kakao accounts
// are keyed by a numeric account id, not an email, so that id is the
// external identity key.
type Kakao struct {
	cfg         *oauth2.Config
	userInfoURL string
}

func NewKakao(clientID, clientSecret, redirectURL string) *Kakao {
	return &Kakao{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     kakaoEndpoint,
		},
		userInfoURL: kakaoUserInfoURL,
	}
}

func (k *Kakao) Name() domain.Provider { return domain.ProviderKakao }

func (k *Kakao) UsesState() bool { return false }

func (k *Kakao) AuthCodeURL(state string) string {
	return k.cfg.AuthCodeURL(state)
}

func (k *Kakao) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := k.cfg.Exchange(withHTTPClient(ctx), code)
	if err != nil {
		return nil, fmt.Errorf("%w: kakao exchange: %v", ErrInvalidCode, err)
	}
	return token, nil
}

func (k *Kakao) UserInfo(ctx context.Context, token *oauth2.Token) (Identity, error) {
	var payload struct {
		ID           int64 `json:"id"`
		KakaoAccount struct {
			Email string `json:"email"`
		} `json:"kakao_account"`
		Properties struct {
			Nickname string `json:"nickname"`
		} `json:"properties"`
	}
	if err := fetchUserInfo(ctx, k.cfg, token, k.userInfoURL, &payload); err != nil {
		return Identity{}, err
	}

	if payload.ID == 0 {
		return Identity{}, fmt.Errorf("%w: kakao userinfo missing id", ErrInvalidCode)
	}

	return Identity{
		Provider:   domain.ProviderKakao,
		ExternalID: strconv.FormatInt(payload.ID, 10),
		Email:      payload.KakaoAccount.Email,
		Name:       payload.Properties.Nickname,
	}, nil
}
