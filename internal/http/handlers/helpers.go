package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/toughlovemassage/portal/internal/auth"
	"github.com/toughlovemassage/portal/internal/careers"
	"github.com/toughlovemassage/portal/internal/clients"
	"github.com/toughlovemassage/portal/internal/clinic"
	"github.com/toughlovemassage/portal/internal/giftcards"
	"github.com/toughlovemassage/portal/internal/intake"
	"github.com/toughlovemassage/portal/internal/providers"
	"github.com/toughlovemassage/portal/internal/scheduling"
	"github.com/toughlovemassage/portal/internal/soap"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
}

// statusFor maps domain errors onto HTTP status codes. Unknown errors are
// internal.
func statusFor(err error) int {
	var conflict *scheduling.ConflictError
	var transition *scheduling.InvalidTransitionError
	var external *giftcards.ExternalServiceError

	switch {
	case errors.As(err, &conflict), errors.As(err, &transition),
		errors.Is(err, soap.ErrNoteExists), errors.Is(err, soap.ErrNoteLocked),
		errors.Is(err, providers.ErrUsernameTaken):
		return http.StatusConflict
	case errors.Is(err, scheduling.ErrAppointmentNotFound),
		errors.Is(err, intake.ErrIntakeNotFound),
		errors.Is(err, clients.ErrClientNotFound),
		errors.Is(err, clients.ErrAlertNotFound),
		errors.Is(err, providers.ErrProviderNotFound),
		errors.Is(err, providers.ErrAvailabilityNotFound),
		errors.Is(err, clinic.ErrLocationNotFound),
		errors.Is(err, clinic.ErrTreatmentNotFound),
		errors.Is(err, soap.ErrNoteNotFound):
		return http.StatusNotFound
	case errors.Is(err, scheduling.ErrUnknownStatus),
		errors.Is(err, intake.ErrEmailRequired),
		errors.Is(err, clients.ErrEmailRequired),
		errors.Is(err, providers.ErrInvalidWindow),
		errors.Is(err, careers.ErrNameRequired),
		errors.Is(err, careers.ErrEmailRequired),
		errors.Is(err, giftcards.ErrInvalidAmount),
		errors.Is(err, giftcards.ErrRecipientRequired):
		return http.StatusBadRequest
	case errors.Is(err, careers.ErrResumeTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrSessionNotFound):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrNotAdmin):
		return http.StatusForbidden
	case errors.As(err, &external):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(r *http.Request, into any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(into)
}
