package clients

import (
	"time"

	"github.com/google/uuid"
)

// Client is a person who has submitted an intake or booked a session.
// Clients are soft-deactivated, never hard-deleted, except through the
// explicit cascade in Repository.Delete.
type Client struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Phone string    `json:"phone"`

	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`

	PreferredPressure      string `json:"preferred_pressure"`
	FocusAreas             string `json:"focus_areas"`
	Allergies              string `json:"allergies"`
	MusicPreference        string `json:"music_preference"`
	TemperaturePreference  string `json:"temperature_preference"`
	AromatherapyPreference string `json:"aromatherapy_preference"`

	FirstVisit         *time.Time `json:"first_visit,omitempty"`
	LastVisit          *time.Time `json:"last_visit,omitempty"`
	VisitCount         int        `json:"visit_count"`
	LifetimeValueCents int64      `json:"lifetime_value_cents"`

	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MedicalAlert is a standing clinical flag on a client. It persists across
// appointments until a provider deactivates it.
type MedicalAlert struct {
	ID                  uuid.UUID `json:"id"`
	ClientID            uuid.UUID `json:"client_id"`
	AlertType           string    `json:"alert_type"`
	Severity            string    `json:"severity"`
	Description         string    `json:"description"`
	Contraindications   string    `json:"contraindications"`
	SpecialInstructions string    `json:"special_instructions"`
	IsActive            bool      `json:"is_active"`
	CreatedAt           time.Time `json:"created_at"`
	CreatedBy           uuid.UUID `json:"created_by_provider_id"`
}

// Note is a free-text provider note about a client, upserted per
// (provider, client) pair.
type Note struct {
	ID         uuid.UUID `json:"id"`
	ProviderID uuid.UUID `json:"provider_id"`
	ClientID   uuid.UUID `json:"client_id"`
	Notes      string    `json:"notes"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
