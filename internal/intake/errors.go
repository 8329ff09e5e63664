package intake

import "errors"

var (
	// ErrIntakeNotFound indicates the requested intake does not exist.
	ErrIntakeNotFound = errors.New("intake: not found")

	// ErrDuplicateBooking indicates an intake with the same external booking
	// id already exists.
	ErrDuplicateBooking = errors.New("intake: booking id already recorded")

	// ErrEmailRequired indicates the submission carried no client email.
	ErrEmailRequired = errors.New("intake: client email required")
)
