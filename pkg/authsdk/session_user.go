package authsdk

import (
	"context"
	"net/http"
)

// GetUserInfo returns the authenticated user's profile.
func (s *Session) GetUserInfo(ctx context.Context) (*UserInfoResponse, error) {
	var info UserInfoResponse
	if err := s.getJSON(ctx, http.MethodGet, "/v1/userinfo", &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Logout revokes the session on the service. The Session's tokens stop
// working immediately; log in again to continue.
func (s *Session) Logout(ctx context.Context) error {
	var ack struct {
		Msg string `json:"msg"`
	}
	return s.getJSON(ctx, http.MethodGet, "/logout", &ack)
}
