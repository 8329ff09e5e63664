package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/toughlovemassage/portal/internal/http/middleware"
	"github.com/toughlovemassage/portal/internal/providers"
	"github.com/toughlovemassage/portal/internal/scheduling"
	"github.com/toughlovemassage/portal/pkg/logging"
)

// AppointmentsHandler serves the appointment lifecycle for the portal.
type AppointmentsHandler struct {
	scheduler *scheduling.Service
	logger    *logging.Logger
}

// NewAppointmentsHandler creates the appointments handler.
func NewAppointmentsHandler(scheduler *scheduling.Service, logger *logging.Logger) *AppointmentsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AppointmentsHandler{scheduler: scheduler, logger: logger}
}

type createAppointmentRequest struct {
	ProviderID  string `json:"provider_id"`
	ClientID    string `json:"client_id"`
	TreatmentID string `json:"treatment_id"`
	Date        string `json:"date"`       // YYYY-MM-DD
	StartTime   string `json:"start_time"` // HH:MM
	Notes       string `json:"notes"`
	BookingID   string `json:"booking_id"`
}

// Create handles POST /portal/appointments.
func (h *AppointmentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createAppointmentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	providerID, err := uuid.Parse(req.ProviderID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid provider id"})
		return
	}
	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid client id"})
		return
	}
	treatmentID, err := uuid.Parse(req.TreatmentID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid treatment id"})
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid date, want YYYY-MM-DD"})
		return
	}
	start, err := providers.ParseTimeOfDay(req.StartTime)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid start_time, want HH:MM"})
		return
	}

	createdBy := uuid.Nil
	if identity, ok := middleware.IdentityFromContext(r.Context()); ok {
		createdBy = identity.ProviderID
	}

	appt, err := h.scheduler.Create(r.Context(), scheduling.CreateParams{
		ProviderID:  providerID,
		ClientID:    clientID,
		TreatmentID: treatmentID,
		Date:        date,
		StartTime:   start,
		Notes:       req.Notes,
		BookingID:   req.BookingID,
		CreatedBy:   createdBy,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, appt)
}

// Get handles GET /portal/appointments/{id}.
func (h *AppointmentsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid appointment id"})
		return
	}
	appt, err := h.scheduler.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

// ListDay handles GET /portal/appointments?provider_id=&date=. Without a
// provider_id the caller's own schedule is returned.
func (h *AppointmentsHandler) ListDay(w http.ResponseWriter, r *http.Request) {
	providerID := uuid.Nil
	if raw := r.URL.Query().Get("provider_id"); raw != "" {
		var err error
		providerID, err = uuid.Parse(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid provider id"})
			return
		}
	} else if identity, ok := middleware.IdentityFromContext(r.Context()); ok {
		providerID = identity.ProviderID
	}

	dateRaw := r.URL.Query().Get("date")
	if dateRaw == "" {
		dateRaw = time.Now().Format("2006-01-02")
	}
	date, err := time.Parse("2006-01-02", dateRaw)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid date, want YYYY-MM-DD"})
		return
	}

	list, err := h.scheduler.ListForProviderDay(r.Context(), providerID, date)
	if err != nil {
		writeError(w, err)
		return
	}
	if list == nil {
		list = []*scheduling.Appointment{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"appointments": list})
}

type transitionRequest struct {
	Status string `json:"status"`
}

// Transition handles POST /portal/appointments/{id}/transition.
func (h *AppointmentsHandler) Transition(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid appointment id"})
		return
	}
	var req transitionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	by := uuid.Nil
	if identity, ok := middleware.IdentityFromContext(r.Context()); ok {
		by = identity.ProviderID
	}

	appt, err := h.scheduler.Transition(r.Context(), id, scheduling.Status(req.Status), by)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, appt)
}
