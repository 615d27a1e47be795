// Package common defines shared constants and sentinel errors used across
// the certshowcase server and client. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("already exists")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// ErrInvalidCredentials carries the message shown verbatim on a failed sign-in.
	ErrInvalidCredentials = errors.New("Invalid login credentials")

	// Auth errors (invalid, expired or revoked token).
	ErrInvalidToken        = errors.New("invalid token")
	ErrTokenExpired        = errors.New("token expired")
	ErrTokenRevoked        = errors.New("token revoked")
	ErrRefreshTokenExpired = errors.New("refresh token expired")

	// ErrUnexpectedShape is returned when a backend payload does not decode
	// into the typed row it should describe.
	ErrUnexpectedShape = errors.New("unexpected response shape")

	// Storage errors.
	ErrorUploadFailed = errors.New("upload failed")
)
