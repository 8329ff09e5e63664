package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/toughlovemassage/portal/internal/http/middleware"
	"github.com/toughlovemassage/portal/internal/soap"
	"github.com/toughlovemassage/portal/pkg/logging"
)

// SOAPNotesHandler serves clinical notes in the provider portal.
type SOAPNotesHandler struct {
	notes  *soap.Repository
	logger *logging.Logger
}

// NewSOAPNotesHandler creates the SOAP notes handler.
func NewSOAPNotesHandler(notes *soap.Repository, logger *logging.Logger) *SOAPNotesHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &SOAPNotesHandler{notes: notes, logger: logger}
}

type soapNoteRequest struct {
	AppointmentID      string `json:"appointment_id"`
	ClientID           string `json:"client_id"`
	Subjective         string `json:"subjective"`
	Objective          string `json:"objective"`
	Assessment         string `json:"assessment"`
	Plan               string `json:"plan"`
	PainLevelBefore    *int   `json:"pain_level_before"`
	PainLevelAfter     *int   `json:"pain_level_after"`
	AreasWorked        string `json:"areas_worked"`
	TechniquesUsed     string `json:"techniques_used"`
	PressurePreference string `json:"pressure_preference"`
}

// Create handles POST /portal/soap-notes.
func (h *SOAPNotesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req soapNoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	appointmentID, err := uuid.Parse(req.AppointmentID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid appointment id"})
		return
	}
	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid client id"})
		return
	}

	identity, _ := middleware.IdentityFromContext(r.Context())

	note, err := h.notes.Create(r.Context(), &soap.Note{
		AppointmentID:      appointmentID,
		ProviderID:         identity.ProviderID,
		ClientID:           clientID,
		Subjective:         req.Subjective,
		Objective:          req.Objective,
		Assessment:         req.Assessment,
		Plan:               req.Plan,
		PainLevelBefore:    req.PainLevelBefore,
		PainLevelAfter:     req.PainLevelAfter,
		AreasWorked:        req.AreasWorked,
		TechniquesUsed:     req.TechniquesUsed,
		PressurePreference: req.PressurePreference,
		CreatedBy:          identity.ProviderID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

// GetByAppointment handles GET /portal/appointments/{id}/soap-note.
func (h *SOAPNotesHandler) GetByAppointment(w http.ResponseWriter, r *http.Request) {
	appointmentID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid appointment id"})
		return
	}
	note, err := h.notes.GetByAppointment(r.Context(), appointmentID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// ListForClient handles GET /portal/clients/{id}/soap-notes.
func (h *SOAPNotesHandler) ListForClient(w http.ResponseWriter, r *http.Request) {
	clientID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid client id"})
		return
	}
	list, err := h.notes.ListForClient(r.Context(), clientID)
	if err != nil {
		writeError(w, err)
		return
	}
	if list == nil {
		list = []*soap.Note{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"notes": list})
}

// Update handles PUT /portal/soap-notes/{id}. Locked notes reject edits.
func (h *SOAPNotesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid note id"})
		return
	}
	var req soapNoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	identity, _ := middleware.IdentityFromContext(r.Context())

	note, err := h.notes.Update(r.Context(), id, soap.UpdateParams{
		Subjective:         req.Subjective,
		Objective:          req.Objective,
		Assessment:         req.Assessment,
		Plan:               req.Plan,
		PainLevelBefore:    req.PainLevelBefore,
		PainLevelAfter:     req.PainLevelAfter,
		AreasWorked:        req.AreasWorked,
		TechniquesUsed:     req.TechniquesUsed,
		PressurePreference: req.PressurePreference,
		UpdatedBy:          identity.ProviderID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// Lock handles POST /portal/soap-notes/{id}/lock.
func (h *SOAPNotesHandler) Lock(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid note id"})
		return
	}
	identity, _ := middleware.IdentityFromContext(r.Context())
	note, err := h.notes.Lock(r.Context(), id, identity.ProviderID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}
