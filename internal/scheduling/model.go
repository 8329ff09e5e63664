package scheduling

import (
	"time"

	"github.com/google/uuid"

	"github.com/toughlovemassage/portal/internal/providers"
)

// Status is the appointment lifecycle state.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed out of s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo reports whether s -> next is an allowed lifecycle move:
// scheduled -> confirmed, scheduled|confirmed -> cancelled,
// confirmed -> completed.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusScheduled:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusCompleted || next == StatusCancelled
	}
	return false
}

// Appointment is a scheduled, dated session. EndTime already includes the
// provider's buffer; the buffer is not stored separately.
type Appointment struct {
	ID          uuid.UUID  `json:"id"`
	ProviderID  uuid.UUID  `json:"provider_id"`
	ClientID    uuid.UUID  `json:"client_id"`
	TreatmentID *uuid.UUID `json:"treatment_id,omitempty"`

	Date            time.Time           `json:"appointment_date"`
	StartTime       providers.TimeOfDay `json:"start_time"`
	EndTime         providers.TimeOfDay `json:"end_time"`
	DurationMinutes int                 `json:"duration_minutes"`

	Status    Status `json:"status"`
	Notes     string `json:"notes"`
	BookingID string `json:"booking_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	CreatedBy uuid.UUID `json:"created_by_provider_id"`
	UpdatedAt time.Time `json:"updated_at"`
}
