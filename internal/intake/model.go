package intake

import (
	"time"

	"github.com/google/uuid"
)

// Intake is a booking request received from the public site or the external
// booking system, waiting for a provider to review and confirm it.
type Intake struct {
	ID                 uuid.UUID  `json:"id"`
	ClientID           uuid.UUID  `json:"client_id"`
	MedicalHistory     string     `json:"medical_history"`
	PregnancyStage     string     `json:"pregnancy_stage,omitempty"`
	BookingID          string     `json:"booking_id,omitempty"`
	Confirmed          bool       `json:"confirmed"`
	ProviderNotes      string     `json:"provider_notes,omitempty"`
	AssignedProviderID *uuid.UUID `json:"assigned_provider_id,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}
