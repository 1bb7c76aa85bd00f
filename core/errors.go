package core

import "errors"

// Operation errors returned by the orchestrator. Transports map these to
// their own error surface; nothing more specific ever crosses the boundary,
// so a caller cannot distinguish a bad signature from an expired token.
var (
	ErrConflict              = errors.New("resource already exists")
	ErrUnauthorized          = errors.New("invalid credentials")
	ErrInvalidToken          = errors.New("invalid token")
	ErrNotFound              = errors.New("not found")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
	ErrInvalidCode           = errors.New("invalid code")
	ErrNotConfigured         = errors.New("two factor not configured")
)
