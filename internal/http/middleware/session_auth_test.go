package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/toughlovemassage/portal/internal/auth"
	"github.com/toughlovemassage/portal/internal/providers"
)

type stubSessions struct {
	byToken map[string]*auth.Identity
}

func (s *stubSessions) Resolve(ctx context.Context, token string) (*auth.Identity, error) {
	id, ok := s.byToken[token]
	if !ok {
		return nil, auth.ErrSessionNotFound
	}
	return id, nil
}

type stubAccounts struct {
	byID map[uuid.UUID]*providers.Provider
}

func (s *stubAccounts) GetByID(ctx context.Context, id uuid.UUID) (*providers.Provider, error) {
	p, ok := s.byID[id]
	if !ok {
		return nil, providers.ErrProviderNotFound
	}
	return p, nil
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireProviderRejectsMissingToken(t *testing.T) {
	h := RequireProvider(&stubSessions{})(okHandler())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/portal/intakes", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequireProviderAttachesIdentity(t *testing.T) {
	providerID := uuid.New()
	sessions := &stubSessions{byToken: map[string]*auth.Identity{
		"tok123": {ProviderID: providerID, Username: "dana"},
	}}

	var got auth.Identity
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = IdentityFromContext(r.Context())
	})
	req := httptest.NewRequest(http.MethodGet, "/portal/intakes", nil)
	req.Header.Set("Authorization", "Bearer tok123")
	RequireProvider(sessions)(inner).ServeHTTP(httptest.NewRecorder(), req)

	if got.ProviderID != providerID || got.Username != "dana" {
		t.Fatalf("unexpected identity: %+v", got)
	}
}

func TestRequireAdminChecksFreshFlag(t *testing.T) {
	providerID := uuid.New()
	sessions := &stubSessions{byToken: map[string]*auth.Identity{
		// Session was created while the provider was still an admin.
		"tok123": {ProviderID: providerID, Username: "dana", IsAdmin: true},
	}}
	accounts := &stubAccounts{byID: map[uuid.UUID]*providers.Provider{
		providerID: {ID: providerID, Username: "dana", IsAdmin: false, Active: true},
	}}

	h := RequireProvider(sessions)(RequireAdmin(accounts)(okHandler()))
	req := httptest.NewRequest(http.MethodGet, "/admin/providers", nil)
	req.Header.Set("Authorization", "Bearer tok123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("revoked admin must get 403 despite admin session, got %d", rec.Code)
	}

	// Restoring the flag takes effect on the next request, same session.
	accounts.byID[providerID].IsAdmin = true
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/admin/providers", nil)
	req.Header.Set("Authorization", "Bearer tok123")
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("restored admin must get 200, got %d", rec.Code)
	}
}

func TestRequireAdminRejectsInactiveProvider(t *testing.T) {
	providerID := uuid.New()
	sessions := &stubSessions{byToken: map[string]*auth.Identity{
		"tok123": {ProviderID: providerID, IsAdmin: true},
	}}
	accounts := &stubAccounts{byID: map[uuid.UUID]*providers.Provider{
		providerID: {ID: providerID, IsAdmin: true, Active: false},
	}}

	h := RequireProvider(sessions)(RequireAdmin(accounts)(okHandler()))
	req := httptest.NewRequest(http.MethodGet, "/admin/providers", nil)
	req.Header.Set("Authorization", "Bearer tok123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("inactive provider must get 403, got %d", rec.Code)
	}
}
