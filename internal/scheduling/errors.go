package scheduling

import (
	"errors"
	"fmt"
)

// Rules a ConflictError can name. Every appointment-creation rejection
// carries exactly one of these.
const (
	RuleProviderInactive    = "provider_inactive"
	RuleTreatmentInactive   = "treatment_inactive"
	RuleOutsideAvailability = "outside_availability"
	RuleSlotTaken           = "slot_taken"
	RuleDailyLimit          = "daily_limit_exceeded"
)

// ConflictError rejects an appointment creation and names the rule that
// failed. No partial writes occur when it is returned.
type ConflictError struct {
	Rule   string
	Detail string
}

func (e *ConflictError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("scheduling conflict: %s", e.Rule)
	}
	return fmt.Sprintf("scheduling conflict: %s: %s", e.Rule, e.Detail)
}

// IsConflict reports whether err is a scheduling conflict.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// InvalidTransitionError rejects an illegal status change.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid appointment transition %s -> %s", e.From, e.To)
}

var (
	// ErrAppointmentNotFound is returned when an appointment id does not exist
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrUnknownStatus is returned when a transition names a status outside the lifecycle
	ErrUnknownStatus = errors.New("unknown appointment status")
)
