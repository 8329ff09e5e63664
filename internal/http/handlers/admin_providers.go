package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/toughlovemassage/portal/internal/auth"
	"github.com/toughlovemassage/portal/internal/http/middleware"
	"github.com/toughlovemassage/portal/internal/providers"
	"github.com/toughlovemassage/portal/pkg/logging"
)

// AdminProvidersHandler serves provider account management. All routes except
// the self-service ones sit behind the admin middleware.
type AdminProvidersHandler struct {
	providers *providers.Repository
	logger    *logging.Logger
}

// NewAdminProvidersHandler creates the admin providers handler.
func NewAdminProvidersHandler(repo *providers.Repository, logger *logging.Logger) *AdminProvidersHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AdminProvidersHandler{providers: repo, logger: logger}
}

type createProviderRequest struct {
	Username          string     `json:"username"`
	Password          string     `json:"password"`
	FullName          string     `json:"full_name"`
	Email             string     `json:"email"`
	Phone             string     `json:"phone"`
	IsAdmin           bool       `json:"is_admin"`
	LocationID        *uuid.UUID `json:"location_id"`
	BufferTimeMinutes int        `json:"buffer_time_minutes"`
}

// Create handles POST /admin/providers.
func (h *AdminProvidersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createProviderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "username and password are required"})
		return
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	created, err := h.providers.Create(r.Context(), &providers.Provider{
		Username:          req.Username,
		PasswordHash:      hash,
		FullName:          strings.TrimSpace(req.FullName),
		Email:             strings.TrimSpace(req.Email),
		Phone:             strings.TrimSpace(req.Phone),
		IsAdmin:           req.IsAdmin,
		LocationID:        req.LocationID,
		Active:            true,
		BufferTimeMinutes: req.BufferTimeMinutes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// List handles GET /admin/providers.
func (h *AdminProvidersHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.providers.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if list == nil {
		list = []*providers.Provider{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"providers": list})
}

// Get handles GET /admin/providers/{id}.
func (h *AdminProvidersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid provider id"})
		return
	}
	provider, err := h.providers.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, provider)
}

type updateProviderRequest struct {
	FullName          string     `json:"full_name"`
	Email             string     `json:"email"`
	Phone             string     `json:"phone"`
	IsAdmin           bool       `json:"is_admin"`
	Active            bool       `json:"active"`
	LocationID        *uuid.UUID `json:"location_id"`
	BufferTimeMinutes int        `json:"buffer_time_minutes"`
}

// Update handles PUT /admin/providers/{id}.
func (h *AdminProvidersHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid provider id"})
		return
	}
	var req updateProviderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	err = h.providers.Update(r.Context(), id, providers.AdminUpdate{
		FullName:          strings.TrimSpace(req.FullName),
		Email:             strings.TrimSpace(req.Email),
		Phone:             strings.TrimSpace(req.Phone),
		IsAdmin:           req.IsAdmin,
		Active:            req.Active,
		LocationID:        req.LocationID,
		BufferTimeMinutes: req.BufferTimeMinutes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	provider, err := h.providers.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, provider)
}

// Deactivate handles POST /admin/providers/{id}/deactivate. Providers are
// never deleted so their appointment history survives.
func (h *AdminProvidersHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid provider id"})
		return
	}
	if err := h.providers.Deactivate(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
}

type replaceTreatmentsRequest struct {
	TreatmentIDs []uuid.UUID `json:"treatment_ids"`
}

// ReplaceTreatments handles PUT /admin/providers/{id}/treatments.
func (h *AdminProvidersHandler) ReplaceTreatments(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid provider id"})
		return
	}
	var req replaceTreatmentsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := h.providers.ReplaceTreatments(r.Context(), id, req.TreatmentIDs); err != nil {
		writeError(w, err)
		return
	}
	ids, err := h.providers.TreatmentIDs(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if ids == nil {
		ids = []uuid.UUID{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"treatment_ids": ids})
}

type dailyLimitRequest struct {
	TreatmentID uuid.UUID `json:"treatment_id"`
	MaxPerDay   int       `json:"max_per_day"`
}

// UpsertDailyLimit handles PUT /admin/providers/{id}/limits.
func (h *AdminProvidersHandler) UpsertDailyLimit(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid provider id"})
		return
	}
	var req dailyLimitRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.TreatmentID == uuid.Nil || req.MaxPerDay < 1 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "treatment_id and a positive max_per_day are required"})
		return
	}
	limit, err := h.providers.UpsertDailyLimit(r.Context(), id, req.TreatmentID, req.MaxPerDay)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, limit)
}

// ProviderSelfHandler serves the routes a provider uses to manage their own
// schedule settings. The target provider is always the caller.
type ProviderSelfHandler struct {
	providers *providers.Repository
	logger    *logging.Logger
}

// NewProviderSelfHandler creates the self-service provider handler.
func NewProviderSelfHandler(repo *providers.Repository, logger *logging.Logger) *ProviderSelfHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &ProviderSelfHandler{providers: repo, logger: logger}
}

type availabilityRequest struct {
	DayOfWeek int    `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// AddAvailability handles POST /portal/availability.
func (h *ProviderSelfHandler) AddAvailability(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "no session"})
		return
	}
	var req availabilityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.DayOfWeek < 0 || req.DayOfWeek > 6 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "day_of_week must be 0 (Monday) through 6 (Sunday)"})
		return
	}
	start, err := providers.ParseTimeOfDay(req.StartTime)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid start_time"})
		return
	}
	end, err := providers.ParseTimeOfDay(req.EndTime)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid end_time"})
		return
	}
	if end.Minutes() <= start.Minutes() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "end_time must be after start_time"})
		return
	}
	window, err := h.providers.AddAvailability(r.Context(), &providers.Availability{
		ProviderID: id.ProviderID,
		DayOfWeek:  req.DayOfWeek,
		StartTime:  start,
		EndTime:    end,
		Active:     true,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, window)
}

// ListAvailability handles GET /portal/availability.
func (h *ProviderSelfHandler) ListAvailability(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "no session"})
		return
	}
	windows, err := h.providers.ListAvailability(r.Context(), id.ProviderID)
	if err != nil {
		writeError(w, err)
		return
	}
	if windows == nil {
		windows = []*providers.Availability{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"availability": windows})
}

// DeleteAvailability handles DELETE /portal/availability/{id}. The window must
// belong to the caller.
func (h *ProviderSelfHandler) DeleteAvailability(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "no session"})
		return
	}
	windowID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid availability id"})
		return
	}
	if err := h.providers.DeleteAvailability(r.Context(), windowID, id.ProviderID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type bufferRequest struct {
	BufferTimeMinutes int `json:"buffer_time_minutes"`
}

// UpdateBuffer handles PUT /portal/buffer.
func (h *ProviderSelfHandler) UpdateBuffer(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "no session"})
		return
	}
	var req bufferRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.BufferTimeMinutes < 0 || req.BufferTimeMinutes > 120 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "buffer_time_minutes must be between 0 and 120"})
		return
	}
	if err := h.providers.UpdateBuffer(r.Context(), id.ProviderID, req.BufferTimeMinutes); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"buffer_time_minutes": req.BufferTimeMinutes})
}

// UpsertDailyLimit handles PUT /portal/limits, capping the caller's own
// sessions per day for one treatment.
func (h *ProviderSelfHandler) UpsertDailyLimit(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "no session"})
		return
	}
	var req dailyLimitRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.TreatmentID == uuid.Nil || req.MaxPerDay < 1 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "treatment_id and a positive max_per_day are required"})
		return
	}
	limit, err := h.providers.UpsertDailyLimit(r.Context(), id.ProviderID, req.TreatmentID, req.MaxPerDay)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, limit)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ChangePassword handles PUT /portal/password.
func (h *ProviderSelfHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "no session"})
		return
	}
	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if len(req.NewPassword) < 8 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "new password must be at least 8 characters"})
		return
	}
	provider, err := h.providers.GetByID(r.Context(), id.ProviderID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !auth.CheckPassword(provider.PasswordHash, req.CurrentPassword) {
		writeError(w, auth.ErrInvalidCredentials)
		return
	}
	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.providers.UpdatePassword(r.Context(), id.ProviderID, hash); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "password changed"})
}
