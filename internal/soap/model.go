package soap

import (
	"time"

	"github.com/google/uuid"
)

// Note is the clinical record for one completed session. Exactly one note
// exists per appointment; once locked it can no longer be edited.
type Note struct {
	ID            uuid.UUID `json:"id"`
	AppointmentID uuid.UUID `json:"appointment_id"`
	ProviderID    uuid.UUID `json:"provider_id"`
	ClientID      uuid.UUID `json:"client_id"`

	Subjective string `json:"subjective"`
	Objective  string `json:"objective"`
	Assessment string `json:"assessment"`
	Plan       string `json:"plan"`

	PainLevelBefore    *int   `json:"pain_level_before,omitempty"`
	PainLevelAfter     *int   `json:"pain_level_after,omitempty"`
	AreasWorked        string `json:"areas_worked"`
	TechniquesUsed     string `json:"techniques_used"`
	PressurePreference string `json:"pressure_preference"`

	IsLocked  bool      `json:"is_locked"`
	CreatedAt time.Time `json:"created_at"`
	CreatedBy uuid.UUID `json:"created_by,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
	UpdatedBy uuid.UUID `json:"updated_by,omitempty"`
}
