package clinic

import (
	"time"

	"github.com/google/uuid"
)

// Location is a physical business site.
type Location struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	Hours     string    `json:"hours"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// Treatment is a service offering. Treatments are soft-deactivated so past
// appointments keep their reference.
type Treatment struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	DurationMinutes int       `json:"duration_minutes"`
	PriceCents      int64     `json:"price_cents"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"created_at"`
}
