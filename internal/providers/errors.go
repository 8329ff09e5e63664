package providers

import "errors"

var (
	// ErrProviderNotFound is returned when a provider id or username does not exist
	ErrProviderNotFound = errors.New("provider not found")

	// ErrUsernameTaken is returned when creating a provider with a username already in use
	ErrUsernameTaken = errors.New("username already in use")

	// ErrInvalidWindow is returned when an availability window is malformed
	ErrInvalidWindow = errors.New("availability window end must be after start")

	// ErrAvailabilityNotFound is returned when deleting a window that does not exist
	ErrAvailabilityNotFound = errors.New("availability window not found")
)
