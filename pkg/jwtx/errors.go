package jwtx

import "errors"

var (
	// ErrMalformed means the token is not a well-formed JWT at all, or its
	// signature does not check out. Callers must never attempt a refresh
	// flow off the back of a malformed token.
	ErrMalformed = errors.New("jwtx: malformed token")

	// ErrExpired means the token was well-formed and correctly signed but
	// its exp claim is in the past. Verify still returns the parsed claims
	// alongside this error so callers can inspect the subject.
	ErrExpired = errors.New("jwtx: token expired")

	ErrNotYetValid  = errors.New("jwtx: token not yet valid")
	ErrIssuer       = errors.New("jwtx: issuer mismatch")
	ErrTokenType    = errors.New("jwtx: unexpected token type")
	ErrInvalidClaim = errors.New("jwtx: invalid claims")
)
