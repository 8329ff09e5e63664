package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/toughlovemassage/portal/internal/auth"
	"github.com/toughlovemassage/portal/internal/http/handlers"
	"github.com/toughlovemassage/portal/internal/providers"
	"github.com/toughlovemassage/portal/pkg/logging"
)

type stubSessions struct {
	tokens map[string]*auth.Identity
}

func (s *stubSessions) Resolve(ctx context.Context, token string) (*auth.Identity, error) {
	id, ok := s.tokens[token]
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

func newTestRouter(t *testing.T) (http.Handler, uuid.UUID) {
	t.Helper()

	adminID := uuid.New()
	staffID := uuid.New()
	sessions := &stubSessions{tokens: map[string]*auth.Identity{
		"admin-token": {ProviderID: adminID, Username: "admin", IsAdmin: true},
		"staff-token": {ProviderID: staffID, Username: "staff"},
	}}
	accounts := &stubAccounts{byID: map[uuid.UUID]*providers.Provider{
		adminID: {ID: adminID, Username: "admin", IsAdmin: true, Active: true},
		staffID: {ID: staffID, Username: "staff", Active: true},
	}}

	return New(&Config{
		Logger:    logging.Default(),
		Sessions:  sessions,
		Accounts:  accounts,
		Providers: handlers.NewAdminProvidersHandler(nil, nil),
	}), adminID
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	var resp map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode health response: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", resp["status"])
	}
}

func TestPortalRequiresSession(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/portal/me", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rr.Code)
	}
}

func TestPortalMeReturnsIdentity(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/portal/me", nil)
	req.Header.Set("Authorization", "Bearer staff-token")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	var id auth.Identity
	if err := json.NewDecoder(rr.Body).Decode(&id); err != nil {
		t.Fatalf("failed to decode identity: %v", err)
	}
	if id.Username != "staff" {
		t.Errorf("expected username 'staff', got %q", id.Username)
	}
}

func TestAdminRejectsNonAdminSession(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/providers", nil)
	req.Header.Set("Authorization", "Bearer staff-token")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected status %d, got %d", http.StatusForbidden, rr.Code)
	}
}

func TestAdminRejectsUnknownToken(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/providers", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rr.Code)
	}
}
