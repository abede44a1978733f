/*
Package authsdk provides a client SDK for the CareerHive auth service.

# Overview

The package is organized around two main types:

  - SDKClient: Provides unauthenticated operations and creates authenticated sessions
  - Session: Provides authenticated operations with automatic token refresh

Create an SDKClient to interact with public endpoints and to log in:

	client := authsdk.NewSDKClient("https://auth.example.com")

	// Check service health
	health, err := client.GetLiveness(ctx)

	// Authenticate to create a session
	session, err := client.LoginWithPassword(ctx, "alice", "password")

Use a Session for authenticated operations:

	userInfo, err := session.GetUserInfo(ctx)

	err = session.Logout(ctx)

# Automatic Token Refresh

The auth service has no standalone refresh endpoint. Instead, a request
carrying an expired access token together with a RefreshToken header is
answered with a fresh access token in place of the requested resource.

Sessions handle that round trip transparently: when the access token is
near expiry the Session attaches the refresh token to the request, and
when the service answers with a token payload instead of the resource,
the Session stores the new access token and retries the request once.
You never need to refresh tokens manually when using Session methods.

# Single Active Session

The service keeps at most one live session per user. Logging in again
(from this SDK or anywhere else) invalidates previously issued tokens,
so a Session can stop working through no fault of its own. That surfaces
as an *APIError with StatusCode 400; recover by logging in again.

# Thread Safety

Sessions are safe for concurrent use. All Session methods use read/write
locks to protect access to the token state. Multiple goroutines can
share a single Session and make authenticated requests concurrently.
*/
package authsdk
