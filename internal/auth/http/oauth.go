package http

import (
	"errors"
	"net/http"

	"github.com/careerhive/careerhive/internal/auth/domain"
	"github.com/careerhive/careerhive/internal/auth/oauth"
	"github.com/careerhive/careerhive/internal/auth/service"
	"github.com/careerhive/careerhive/pkg/httpx"
	"github.com/careerhive/careerhive/pkg/slogx"
)

// OAuthRedirectHandler sends the browser to a provider's consent screen.
type OAuthRedirectHandler struct {
	OAuthService *service.OAuthService
	Provider     domain.Provider
}

// ServeHTTP starts the social login round trip.
//
//	@Summary		Social login redirect
//	@Description	Redirects to the provider's consent screen. Naver logins carry a CSRF state value.
//	@Tags			Session
//	@Success		302	"Redirect to provider consent URL"
//	@Failure		500	{object}	msgResponse	"Internal server error"
//	@Router			/login-{provider} [get].
func (h *OAuthRedirectHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	url, err := h.OAuthService.BeginLogin(ctx, h.Provider)
	if err != nil {
		log.Error("consent redirect failed", "provider", h.Provider, "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, msgResponse{Msg: "internal error"})
		return
	}

	http.Redirect(w, r, url, http.StatusFound)
}

// OAuthCallbackHandler redeems a provider's authorization code callback.
type OAuthCallbackHandler struct {
	OAuthService *service.OAuthService
	Provider     domain.Provider
}

// ServeHTTP completes the social login round trip.
//
//	@Summary		Social login callback
//	@Description	Exchanges the provider's authorization code and issues a session token pair.
//	@Description	The first login for an identity creates the local account.
//	@Tags			Session
//	@Produce		json
//	@Param			code	query	string	true	"Authorization code"
//	@Param			state	query	string	false	"CSRF state echo (Naver)"
//	@Success		200	{object}	domain.TokenPair	"Session token pair"
//	@Failure		400	{object}	msgResponse			"Missing code or invalid state"
//	@Failure		401	{object}	msgResponse			"Provider rejected the code"
//	@Router			/login-{provider}/code [get].
func (h *OAuthCallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	if code == "" {
		reject(w, "authorization code required")
		return
	}

	pair, err := h.OAuthService.CompleteLogin(ctx, h.Provider, code, state)
	if err != nil {
		switch {
		case errors.Is(err, oauth.ErrInvalidState):
			log.Info("oauth callback rejected: state", "provider", h.Provider)
			reject(w, "invalid oauth state")
		case errors.Is(err, oauth.ErrInvalidCode):
			log.Info("oauth callback rejected: code", "provider", h.Provider, "err", err)
			httpx.WriteJSON(w, http.StatusUnauthorized, msgResponse{Msg: "invalid oauth code"})
		default:
			log.Error("oauth callback failed", "provider", h.Provider, "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, msgResponse{Msg: "internal error"})
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, pair)
}
