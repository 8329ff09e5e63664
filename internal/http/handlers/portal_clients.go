package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/toughlovemassage/portal/internal/clients"
	"github.com/toughlovemassage/portal/internal/http/middleware"
	"github.com/toughlovemassage/portal/pkg/logging"
)

// PortalClientsHandler serves the client roster, preferences, medical alerts
// and per-provider notes.
type PortalClientsHandler struct {
	clients *clients.Repository
	logger  *logging.Logger
}

// NewPortalClientsHandler creates the portal clients handler.
func NewPortalClientsHandler(repo *clients.Repository, logger *logging.Logger) *PortalClientsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &PortalClientsHandler{clients: repo, logger: logger}
}

// List handles GET /portal/clients.
func (h *PortalClientsHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.clients.ListActive(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if list == nil {
		list = []*clients.Client{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"clients": list})
}

// Get handles GET /portal/clients/{id}.
func (h *PortalClientsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid client id"})
		return
	}
	client, err := h.clients.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, client)
}

type preferencesRequest struct {
	PreferredPressure      string `json:"preferred_pressure"`
	FocusAreas             string `json:"focus_areas"`
	Allergies              string `json:"allergies"`
	MusicPreference        string `json:"music_preference"`
	TemperaturePreference  string `json:"temperature_preference"`
	AromatherapyPreference string `json:"aromatherapy_preference"`
}

// UpdatePreferences handles PUT /portal/clients/{id}/preferences.
func (h *PortalClientsHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid client id"})
		return
	}
	var req preferencesRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := h.clients.UpdatePreferences(r.Context(), id, clients.Preferences{
		PreferredPressure:      req.PreferredPressure,
		FocusAreas:             req.FocusAreas,
		Allergies:              req.Allergies,
		MusicPreference:        req.MusicPreference,
		TemperaturePreference:  req.TemperaturePreference,
		AromatherapyPreference: req.AromatherapyPreference,
	}); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

type alertRequest struct {
	AlertType           string `json:"alert_type"`
	Severity            string `json:"severity"`
	Description         string `json:"description"`
	Contraindications   string `json:"contraindications"`
	SpecialInstructions string `json:"special_instructions"`
}

// CreateAlert handles POST /portal/clients/{id}/alerts.
func (h *PortalClientsHandler) CreateAlert(w http.ResponseWriter, r *http.Request) {
	clientID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid client id"})
		return
	}
	var req alertRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	identity, _ := middleware.IdentityFromContext(r.Context())

	alert, err := h.clients.CreateAlert(r.Context(), &clients.MedicalAlert{
		ClientID:            clientID,
		AlertType:           req.AlertType,
		Severity:            req.Severity,
		Description:         req.Description,
		Contraindications:   req.Contraindications,
		SpecialInstructions: req.SpecialInstructions,
		CreatedBy:           identity.ProviderID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, alert)
}

// ListAlerts handles GET /portal/clients/{id}/alerts.
func (h *PortalClientsHandler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	clientID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid client id"})
		return
	}
	list, err := h.clients.ListActiveAlerts(r.Context(), clientID)
	if err != nil {
		writeError(w, err)
		return
	}
	if list == nil {
		list = []*clients.MedicalAlert{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"alerts": list})
}

// DeactivateAlert handles POST /portal/alerts/{id}/deactivate.
func (h *PortalClientsHandler) DeactivateAlert(w http.ResponseWriter, r *http.Request) {
	alertID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid alert id"})
		return
	}
	identity, _ := middleware.IdentityFromContext(r.Context())
	if err := h.clients.DeactivateAlert(r.Context(), alertID, identity.ProviderID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
}

type clientNoteRequest struct {
	Notes string `json:"notes"`
}

// UpsertNote handles PUT /portal/clients/{id}/note. Each provider keeps one
// note per client.
func (h *PortalClientsHandler) UpsertNote(w http.ResponseWriter, r *http.Request) {
	clientID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid client id"})
		return
	}
	var req clientNoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	identity, _ := middleware.IdentityFromContext(r.Context())
	note, err := h.clients.UpsertNote(r.Context(), identity.ProviderID, clientID, req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// GetNote handles GET /portal/clients/{id}/note.
func (h *PortalClientsHandler) GetNote(w http.ResponseWriter, r *http.Request) {
	clientID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid client id"})
		return
	}
	identity, _ := middleware.IdentityFromContext(r.Context())
	note, err := h.clients.GetNote(r.Context(), identity.ProviderID, clientID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}
