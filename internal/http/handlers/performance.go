package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/toughlovemassage/portal/internal/http/middleware"
	"github.com/toughlovemassage/portal/internal/performance"
	"github.com/toughlovemassage/portal/pkg/logging"
)

// PerformanceHandler serves the provider performance dashboard.
type PerformanceHandler struct {
	metrics *performance.Repository
	logger  *logging.Logger
}

// NewPerformanceHandler creates the performance handler.
func NewPerformanceHandler(repo *performance.Repository, logger *logging.Logger) *PerformanceHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &PerformanceHandler{metrics: repo, logger: logger}
}

// List handles GET /portal/performance?provider_id=&from=&to=. The provider
// defaults to the caller and the range to the last 30 days.
func (h *PerformanceHandler) List(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "no session"})
		return
	}
	providerID := id.ProviderID
	if raw := r.URL.Query().Get("provider_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid provider_id"})
			return
		}
		providerID = parsed
	}

	to := time.Now()
	from := to.AddDate(0, 0, -30)
	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid from date, expected YYYY-MM-DD"})
			return
		}
		from = parsed
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid to date, expected YYYY-MM-DD"})
			return
		}
		to = parsed
	}

	list, err := h.metrics.ListForProvider(r.Context(), providerID, from, to)
	if err != nil {
		writeError(w, err)
		return
	}
	if list == nil {
		list = []*performance.Metric{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"metrics": list})
}

type rollupRequest struct {
	ProviderID uuid.UUID `json:"provider_id"`
	Date       string    `json:"date"`
}

// Rollup handles POST /admin/performance/rollup, recomputing one provider's
// daily metric from the appointment ledger.
func (h *PerformanceHandler) Rollup(w http.ResponseWriter, r *http.Request) {
	var req rollupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.ProviderID == uuid.Nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "provider_id is required"})
		return
	}
	date := time.Now()
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid date, expected YYYY-MM-DD"})
			return
		}
		date = parsed
	}
	metric, err := h.metrics.Rollup(r.Context(), req.ProviderID, date)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, metric)
}
