package providers

import (
	"time"

	"github.com/google/uuid"
)

// Provider is a staff account (massage therapist or admin) with portal login.
// Providers are soft-deactivated, never deleted.
type Provider struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	IsAdmin      bool      `json:"is_admin"`

	LocationID *uuid.UUID `json:"location_id,omitempty"`
	Active     bool       `json:"active"`

	// BufferTimeMinutes is the minimum gap the provider requires between
	// consecutive appointments. It extends the blocked slot but is not
	// persisted separately on the appointment.
	BufferTimeMinutes int `json:"buffer_time_minutes"`

	CreatedAt time.Time `json:"created_at"`
}

// Availability is a recurring weekly open window. DayOfWeek follows the
// business schema: 0=Monday .. 6=Sunday.
type Availability struct {
	ID         uuid.UUID `json:"id"`
	ProviderID uuid.UUID `json:"provider_id"`
	DayOfWeek  int       `json:"day_of_week"`
	StartTime  TimeOfDay `json:"start_time"`
	EndTime    TimeOfDay `json:"end_time"`
	Active     bool      `json:"active"`
}

// DailyLimit caps how many sessions of one treatment a provider performs per
// calendar day. Absence of a row means unlimited.
type DailyLimit struct {
	ID          uuid.UUID `json:"id"`
	ProviderID  uuid.UUID `json:"provider_id"`
	TreatmentID uuid.UUID `json:"treatment_id"`
	MaxPerDay   int       `json:"max_per_day"`
}

// BusinessWeekday converts Go's Sunday-based weekday to the schema's
// Monday-based day index.
func BusinessWeekday(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}
