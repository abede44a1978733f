package auth_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/careerhive/careerhive/pkg/authsdk"
)

// TestLoginUserInfo tests the happy path:
// 1. Login with username and password
// 2. Fetch user info with the issued session
func TestLoginUserInfo(t *testing.T) {
	ts := setupAuthServer(t)
	user := seedUser(t, ts, "alice", "alice@example.com", "Sup3rSecret!")

	client := authsdk.NewSDKClient(ts.URL)

	session, err := client.LoginWithPassword(t.Context(), "alice", "Sup3rSecret!")
	require.NoError(t, err)
	require.Equal(t, user.ID, session.UserID())
	require.NotEmpty(t, session.AccessToken())
	require.NotEmpty(t, session.RefreshToken())

	userInfo, err := session.GetUserInfo(t.Context())
	require.NoError(t, err)
	require.Equal(t, user.ID, userInfo.UserID)
	require.Equal(t, "alice", userInfo.Username)
	require.Equal(t, "alice@example.com", userInfo.Email)
	require.Equal(t, "local", userInfo.Provider)
}

// TestLoginWithEmail verifies the email doubles as a login identifier.
func TestLoginWithEmail(t *testing.T) {
	ts := setupAuthServer(t)
	user := seedUser(t, ts, "bob", "bob@example.com", "Sup3rSecret!")

	client := authsdk.NewSDKClient(ts.URL)

	session, err := client.LoginWithPassword(t.Context(), "bob@example.com", "Sup3rSecret!")
	require.NoError(t, err)
	require.Equal(t, user.ID, session.UserID())
}

// TestLoginInvalidCredentials verifies the service answers the same way
// for a wrong password and for a user that does not exist at all.
func TestLoginInvalidCredentials(t *testing.T) {
	ts := setupAuthServer(t)
	seedUser(t, ts, "carol", "carol@example.com", "Sup3rSecret!")

	client := authsdk.NewSDKClient(ts.URL)

	_, err := client.LoginWithPassword(t.Context(), "carol", "wrong-password")
	var apiErr *authsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)

	_, err2 := client.LoginWithPassword(t.Context(), "who-is-this", "wrong-password")
	var apiErr2 *authsdk.APIError
	require.True(t, errors.As(err2, &apiErr2))
	require.Equal(t, apiErr.StatusCode, apiErr2.StatusCode)
	require.Equal(t, apiErr.Message, apiErr2.Message,
		"unknown users and wrong passwords must be indistinguishable")
}

// TestLogout verifies logging out invalidates the session server-side.
func TestLogout(t *testing.T) {
	ts := setupAuthServer(t)
	seedUser(t, ts, "dave", "dave@example.com", "Sup3rSecret!")

	client := authsdk.NewSDKClient(ts.URL)

	session, err := client.LoginWithPassword(t.Context(), "dave", "Sup3rSecret!")
	require.NoError(t, err)

	require.NoError(t, session.Logout(t.Context()))

	_, err = session.GetUserInfo(t.Context())
	var apiErr *authsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
}
