package http

import (
	"errors"
	"net/http"

	"github.com/careerhive/careerhive/internal/auth/service"
	"github.com/careerhive/careerhive/pkg/httpx"
	"github.com/careerhive/careerhive/pkg/slogx"
)

type LoginHandler struct {
	LoginService *service.LoginService
}

// ServeHTTP handles local username/password login.
//
//	@Summary		Password login
//	@Description	Authenticates a local account and issues an access/refresh token pair.
//	@Description	The username field also accepts the account email.
//	@Tags			Session
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Param			username	formData	string	true	"Username or email"
//	@Param			password	formData	string	true	"Password"
//	@Success		200	{object}	domain.TokenPair	"Session token pair"
//	@Failure		400	{object}	msgResponse			"Missing credentials"
//	@Failure		401	{object}	credentialErrorResponse	"Invalid credentials"
//	@Router			/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if err := r.ParseForm(); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, msgResponse{Msg: "invalid form body"})
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, msgResponse{Msg: "username and password are required"})
		return
	}

	pair, err := h.LoginService.LoginWithPassword(ctx, username, password)
	if err != nil {
		// One body for both causes; the logs keep them apart
		if errors.Is(err, service.ErrUserNotFound) || errors.Is(err, service.ErrCredentialMismatch) {
			httpx.WriteJSON(w, http.StatusUnauthorized, credentialErrorResponse{
				Code:  http.StatusUnauthorized,
				Error: "invalid username or password",
			})
			return
		}
		log.Error("login failed", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, msgResponse{Msg: "internal error"})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, pair)
}

type LogoutHandler struct {
	LoginService *service.LoginService
}

// ServeHTTP revokes the caller's session.
//
//	@Summary		Logout
//	@Description	Revokes the authenticated user's stored session tokens.
//	@Tags			Session
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	msgResponse	"Logged out"
//	@Failure		400	{object}	msgResponse	"Missing or invalid session"
//	@Router			/logout [get].
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := ctx.Value(httpx.CtxKeyUserID).(string)
	if !ok || userID == "" {
		reject(w, "invalid session")
		return
	}

	if err := h.LoginService.Logout(ctx, userID); err != nil {
		log.Error("logout failed", "user_id", userID, "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, msgResponse{Msg: "internal error"})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, msgResponse{Msg: "logged out"})
}
