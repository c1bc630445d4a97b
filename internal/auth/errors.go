package auth

import "errors"

var (
	// ErrTokenInvalid is returned for a malformed, tampered or
	// incomplete token.
	ErrTokenInvalid = errors.New("auth: invalid token")

	// ErrTokenExpired is returned for a well-formed token past its expiry.
	ErrTokenExpired = errors.New("auth: token has expired")

	// ErrNoSubject is returned when issuing a token without an account id.
	ErrNoSubject = errors.New("auth: token subject is required")
)
