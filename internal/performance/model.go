package performance

import (
	"time"

	"github.com/google/uuid"
)

// Metric is one provider's daily rollup, recomputed from the appointment
// table and treatment prices.
type Metric struct {
	ID                uuid.UUID `json:"id"`
	ProviderID        uuid.UUID `json:"provider_id"`
	MetricDate        time.Time `json:"metric_date"`
	SessionsCompleted int       `json:"sessions_completed"`
	SessionsCancelled int       `json:"sessions_cancelled"`
	RevenueCents      int64     `json:"revenue_cents"`
	CreatedAt         time.Time `json:"created_at"`
}
