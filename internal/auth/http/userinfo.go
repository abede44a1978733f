package http

import (
	"net/http"

	"github.com/careerhive/careerhive/internal/auth/store"
	"github.com/careerhive/careerhive/pkg/httpx"
	"github.com/careerhive/careerhive/pkg/slogx"
)

type UserInfoHandler struct {
	Store store.Store
}

// ServeHTTP returns the authenticated user's profile.
//
//	@Summary		Get user information
//	@Description	Returns information about the authenticated user.
//	@Tags			Users
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	userInfoResponse	"User information"
//	@Failure		400	{object}	msgResponse			"Missing or invalid session"
//	@Failure		500	{object}	msgResponse			"Internal server error"
//	@Router			/v1/userinfo [get].
func (h *UserInfoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := ctx.Value(httpx.CtxKeyUserID).(string)
	if !ok || userID == "" {
		reject(w, "invalid session")
		return
	}

	user, err := h.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		log.Warn("failed to load user", "user_id", userID, "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, msgResponse{Msg: "internal error"})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, userInfoResponse{
		UserID:        user.ID,
		Username:      user.Username,
		Email:         user.Email,
		PreferredName: user.PreferredName,
		Provider:      string(user.Provider),
	})
}
