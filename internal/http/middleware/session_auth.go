package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/toughlovemassage/portal/internal/auth"
	"github.com/toughlovemassage/portal/internal/providers"
)

type contextKey string

const identityKey contextKey = "identity"

// SessionResolver maps a bearer token to the identity behind it.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*auth.Identity, error)
}

// AdminChecker re-reads the provider row for the fresh admin flag. The flag
// stored in the session is never trusted for authorization.
type AdminChecker interface {
	GetByID(ctx context.Context, id uuid.UUID) (*providers.Provider, error)
}

// RequireProvider resolves the session token and attaches the identity to
// the request context. Requests without a valid session get 401.
func RequireProvider(sessions SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				http.Error(w, "missing authorization header", http.StatusUnauthorized)
				return
			}
			id, err := sessions.Resolve(r.Context(), token)
			if err != nil {
				http.Error(w, "invalid or expired session", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), identityKey, *id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin gates admin endpoints. It runs inside RequireProvider and
// checks is_admin against the providers table on every request, so revoking
// admin takes effect immediately regardless of open sessions.
func RequireAdmin(accounts AdminChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFromContext(r.Context())
			if !ok {
				http.Error(w, "missing session", http.StatusUnauthorized)
				return
			}
			provider, err := accounts.GetByID(r.Context(), id.ProviderID)
			if err != nil || !provider.Active || !provider.IsAdmin {
				http.Error(w, "admin access required", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// IdentityFromContext returns the authenticated identity if present.
func IdentityFromContext(ctx context.Context) (auth.Identity, bool) {
	id, ok := ctx.Value(identityKey).(auth.Identity)
	return id, ok
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
