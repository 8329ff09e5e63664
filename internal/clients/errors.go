package clients

import "errors"

var (
	// ErrClientNotFound is returned when a client id or email does not match a row
	ErrClientNotFound = errors.New("client not found")

	// ErrEmailRequired is returned when a lookup or create is attempted without an email
	ErrEmailRequired = errors.New("client email is required")

	// ErrAlertNotFound is returned when a medical alert id does not exist
	ErrAlertNotFound = errors.New("medical alert not found")
)
