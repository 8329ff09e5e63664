package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/toughlovemassage/portal/internal/http/middleware"
	"github.com/toughlovemassage/portal/internal/intake"
	"github.com/toughlovemassage/portal/pkg/logging"
)

// PortalIntakesHandler serves the provider-portal intake queue.
type PortalIntakesHandler struct {
	intakes *intake.Service
	logger  *logging.Logger
}

// NewPortalIntakesHandler creates the portal intakes handler.
func NewPortalIntakesHandler(intakes *intake.Service, logger *logging.Logger) *PortalIntakesHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &PortalIntakesHandler{intakes: intakes, logger: logger}
}

// List handles GET /portal/intakes. ?all=true includes confirmed intakes.
func (h *PortalIntakesHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		list []*intake.Intake
		err  error
	)
	if r.URL.Query().Get("all") == "true" {
		list, err = h.intakes.ListRecent(r.Context(), 100)
	} else {
		list, err = h.intakes.ListUnconfirmed(r.Context())
	}
	if err != nil {
		writeError(w, err)
		return
	}
	if list == nil {
		list = []*intake.Intake{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"intakes": list})
}

// Confirm handles POST /portal/intakes/{id}/confirm.
func (h *PortalIntakesHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid intake id"})
		return
	}
	in, err := h.intakes.Confirm(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, in)
}

// Assign handles POST /portal/intakes/{id}/assign. Without a provider_id in
// the body the intake is assigned to the caller.
func (h *PortalIntakesHandler) Assign(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid intake id"})
		return
	}

	var body struct {
		ProviderID string `json:"provider_id"`
	}
	_ = decodeJSON(r, &body)

	providerID := uuid.Nil
	if body.ProviderID != "" {
		providerID, err = uuid.Parse(body.ProviderID)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid provider id"})
			return
		}
	} else if identity, ok := middleware.IdentityFromContext(r.Context()); ok {
		providerID = identity.ProviderID
	}
	if providerID == uuid.Nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "provider id required"})
		return
	}

	in, err := h.intakes.AssignProvider(r.Context(), id, providerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, in)
}

// SetNotes handles PUT /portal/intakes/{id}/notes.
func (h *PortalIntakesHandler) SetNotes(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid intake id"})
		return
	}
	var body struct {
		Notes string `json:"notes"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := h.intakes.SetProviderNotes(r.Context(), id, body.Notes); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}
