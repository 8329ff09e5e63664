package giftcards

import (
	"errors"
	"fmt"
)

// ErrInvalidAmount indicates a non-positive or missing purchase amount.
var ErrInvalidAmount = errors.New("giftcards: amount must be positive")

// ErrRecipientRequired indicates the purchase carried no recipient email.
var ErrRecipientRequired = errors.New("giftcards: recipient email required")

// ExternalServiceError wraps a failure from the payment provider.
type ExternalServiceError struct {
	Service string
	Err     error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("giftcards: %s: %v", e.Service, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

// IsExternal reports whether err is an upstream payment provider failure.
func IsExternal(err error) bool {
	var ese *ExternalServiceError
	return errors.As(err, &ese)
}
