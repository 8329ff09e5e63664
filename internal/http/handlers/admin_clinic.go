package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/toughlovemassage/portal/internal/clinic"
	"github.com/toughlovemassage/portal/pkg/logging"
)

// ClinicHandler serves locations and treatments. Reads are public so the
// booking site can render the menu; mutations are admin-only.
type ClinicHandler struct {
	clinic *clinic.Repository
	logger *logging.Logger
}

// NewClinicHandler creates the clinic handler.
func NewClinicHandler(repo *clinic.Repository, logger *logging.Logger) *ClinicHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &ClinicHandler{clinic: repo, logger: logger}
}

// ListLocations handles GET /locations.
func (h *ClinicHandler) ListLocations(w http.ResponseWriter, r *http.Request) {
	list, err := h.clinic.ListLocations(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if list == nil {
		list = []*clinic.Location{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"locations": list})
}

// ListTreatments handles GET /treatments.
func (h *ClinicHandler) ListTreatments(w http.ResponseWriter, r *http.Request) {
	list, err := h.clinic.ListTreatments(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if list == nil {
		list = []*clinic.Treatment{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"treatments": list})
}

type locationRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Hours   string `json:"hours"`
	Active  *bool  `json:"active"`
}

// CreateLocation handles POST /admin/locations.
func (h *ClinicHandler) CreateLocation(w http.ResponseWriter, r *http.Request) {
	var req locationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	created, err := h.clinic.CreateLocation(r.Context(), &clinic.Location{
		Name:    strings.TrimSpace(req.Name),
		Address: strings.TrimSpace(req.Address),
		Phone:   strings.TrimSpace(req.Phone),
		Hours:   strings.TrimSpace(req.Hours),
		Active:  true,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdateLocation handles PUT /admin/locations/{id}.
func (h *ClinicHandler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid location id"})
		return
	}
	var req locationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	loc := &clinic.Location{
		ID:      id,
		Name:    strings.TrimSpace(req.Name),
		Address: strings.TrimSpace(req.Address),
		Phone:   strings.TrimSpace(req.Phone),
		Hours:   strings.TrimSpace(req.Hours),
		Active:  active,
	}
	if err := h.clinic.UpdateLocation(r.Context(), loc); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loc)
}

type treatmentRequest struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	DurationMinutes int    `json:"duration_minutes"`
	PriceCents      int64  `json:"price_cents"`
}

// CreateTreatment handles POST /admin/treatments.
func (h *ClinicHandler) CreateTreatment(w http.ResponseWriter, r *http.Request) {
	var req treatmentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	if req.DurationMinutes < 1 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "duration_minutes must be positive"})
		return
	}
	created, err := h.clinic.CreateTreatment(r.Context(), &clinic.Treatment{
		Name:            strings.TrimSpace(req.Name),
		Description:     strings.TrimSpace(req.Description),
		DurationMinutes: req.DurationMinutes,
		PriceCents:      req.PriceCents,
		Active:          true,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// DeactivateTreatment handles POST /admin/treatments/{id}/deactivate.
// Treatments are soft-deactivated so past appointments keep their reference.
func (h *ClinicHandler) DeactivateTreatment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid treatment id"})
		return
	}
	if err := h.clinic.DeactivateTreatment(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
}
