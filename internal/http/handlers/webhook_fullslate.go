package handlers

import (
	"net/http"
	"time"

	"github.com/toughlovemassage/portal/internal/intake"
	"github.com/toughlovemassage/portal/internal/observability/metrics"
	"github.com/toughlovemassage/portal/pkg/logging"
)

// FullSlateWebhookHandler receives booking notifications from the external
// scheduling system.
type FullSlateWebhookHandler struct {
	intakes *intake.Service
	metrics *metrics.BookingMetrics
	logger  *logging.Logger
}

// NewFullSlateWebhookHandler creates the webhook handler.
func NewFullSlateWebhookHandler(intakes *intake.Service, m *metrics.BookingMetrics, logger *logging.Logger) *FullSlateWebhookHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &FullSlateWebhookHandler{intakes: intakes, metrics: m, logger: logger}
}

type fullSlatePayload struct {
	ClientName     string `json:"client_name"`
	Email          string `json:"email"`
	MedicalHistory string `json:"medical_history"`
	PregnancyStage string `json:"pregnancy_stage"`
	BookingID      string `json:"booking_id"`
}

// Handle processes POST /webhooks/fullslate. Success returns 200 with the
// intake id; malformed or unprocessable payloads return 400 with a message.
// Redelivery of a booking id returns the intake already recorded for it.
func (h *FullSlateWebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var payload fullSlatePayload
	if err := decodeJSON(r, &payload); err != nil {
		h.metrics.ObserveWebhookLatency("error", time.Since(start).Seconds())
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"status": "error", "message": "invalid JSON payload",
		})
		return
	}

	in, err := h.intakes.Submit(r.Context(), intake.SubmitParams{
		ClientName:     payload.ClientName,
		Email:          payload.Email,
		MedicalHistory: payload.MedicalHistory,
		PregnancyStage: payload.PregnancyStage,
		BookingID:      payload.BookingID,
		Source:         "fullslate",
	})
	if err != nil {
		h.metrics.ObserveWebhookLatency("error", time.Since(start).Seconds())
		h.logger.Error("webhook processing failed", "error", err, "booking_id", payload.BookingID)
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"status": "error", "message": err.Error(),
		})
		return
	}

	h.metrics.ObserveWebhookLatency("success", time.Since(start).Seconds())
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "success", "intake_id": in.ID,
	})
}
