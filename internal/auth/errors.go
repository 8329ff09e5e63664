package auth

import "errors"

var (
	// ErrInvalidCredentials covers both unknown usernames and wrong
	// passwords; callers must not distinguish the two.
	ErrInvalidCredentials = errors.New("auth: invalid username or password")

	// ErrSessionNotFound indicates the token is missing, expired, or revoked.
	ErrSessionNotFound = errors.New("auth: session not found")

	// ErrNotAdmin indicates the caller holds a valid session without admin
	// rights.
	ErrNotAdmin = errors.New("auth: admin access required")
)
