package auth

import (
	"context"
	"errors"

	"github.com/toughlovemassage/portal/internal/providers"
	"github.com/toughlovemassage/portal/pkg/logging"
)

// ProviderAccounts is the lookup surface Login needs.
type ProviderAccounts interface {
	GetByUsername(ctx context.Context, username string) (*providers.Provider, error)
}

// Service handles login and logout against the session store.
type Service struct {
	accounts ProviderAccounts
	sessions *SessionStore
	logger   *logging.Logger
}

// NewService wires the auth service.
func NewService(accounts ProviderAccounts, sessions *SessionStore, logger *logging.Logger) *Service {
	if accounts == nil {
		panic("auth: provider accounts required")
	}
	if sessions == nil {
		panic("auth: session store required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{accounts: accounts, sessions: sessions, logger: logger}
}

// Login verifies the credentials and opens a session. Unknown usernames and
// wrong passwords are indistinguishable to the caller. Inactive providers
// cannot log in.
func (s *Service) Login(ctx context.Context, username, password string) (string, *Identity, error) {
	provider, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, providers.ErrProviderNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !provider.Active || !CheckPassword(provider.PasswordHash, password) {
		return "", nil, ErrInvalidCredentials
	}

	id := Identity{ProviderID: provider.ID, Username: provider.Username, IsAdmin: provider.IsAdmin}
	token, err := s.sessions.Create(ctx, id)
	if err != nil {
		return "", nil, err
	}
	s.logger.Info("provider logged in", "provider_id", provider.ID, "username", provider.Username)
	return token, &id, nil
}

// Logout revokes the session token.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// Resolve maps a token back to its identity.
func (s *Service) Resolve(ctx context.Context, token string) (*Identity, error) {
	return s.sessions.Get(ctx, token)
}
