package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/mlobankov/resume-pilot/internal/core/domain"
	"github.com/mlobankov/resume-pilot/internal/core/ports"
)

// SessionManager owns the process-wide session singleton: current user,
// bearer token and the authenticated flag. It is the only writer of the
// durable token store; the transport and the navigation guard read.
type SessionManager struct {
	gateway ports.UserGateway
	tokens  ports.TokenStore
	logger  *slog.Logger

	mu            sync.Mutex
	user          *domain.User
	token         string
	authenticated bool
	loading       bool
}

func NewSessionManager(gateway ports.UserGateway, tokens ports.TokenStore, logger *slog.Logger) *SessionManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionManager{
		gateway: gateway,
		tokens:  tokens,
		logger:  logger,
	}
}

// Login exchanges credentials for a grant. On failure the prior session
// state is left untouched.
func (s *SessionManager) Login(ctx context.Context, creds domain.Credentials) (*domain.AuthGrant, error) {
	s.setLoading(true)
	defer s.setLoading(false)

	grant, err := s.gateway.Login(ctx, creds)
	if err != nil {
		return nil, err
	}
	s.install(grant)
	return grant, nil
}

// Register validates the confirm-password precondition locally before any
// network call, then follows the login contract.
func (s *SessionManager) Register(ctx context.Context, reg domain.Registration) (*domain.AuthGrant, error) {
	if reg.Password != reg.ConfirmPassword {
		return nil, domain.WrapError(domain.ErrValidation, "register", errors.New("passwords do not match"))
	}

	s.setLoading(true)
	defer s.setLoading(false)

	grant, err := s.gateway.Register(ctx, reg)
	if err != nil {
		return nil, err
	}
	s.install(grant)
	return grant, nil
}

// Logout is idempotent and never fails: the remote notification is best
// effort, local and durable state are cleared unconditionally.
func (s *SessionManager) Logout(ctx context.Context) {
	if err := s.gateway.Logout(ctx); err != nil {
		s.logger.Warn("remote_logout_failed", "error", err)
	}
	s.teardown()
}

// ForceTeardown clears the session without the remote notification. The
// transport invokes it when an authenticated call comes back 401, so a
// dead session cannot recurse into more dead calls.
func (s *SessionManager) ForceTeardown() {
	s.logger.Warn("session_teardown")
	s.teardown()
}

// CheckAuth recovers a session from a durable token found in storage. Any
// failure, including an expired or malformed token, degrades to a clean
// unauthenticated state instead of surfacing an error.
func (s *SessionManager) CheckAuth(ctx context.Context) {
	token, ok := s.tokens.Token()
	if !ok {
		return
	}

	s.mu.Lock()
	if s.authenticated && s.user != nil {
		s.mu.Unlock()
		return
	}
	s.token = token
	s.mu.Unlock()

	userID, ok := s.tokens.Subject()
	if !ok {
		s.logger.Warn("stored_token_has_no_subject")
		s.Logout(ctx)
		return
	}

	user, err := s.gateway.GetUser(ctx, userID)
	if err != nil {
		s.logger.Warn("auth_check_failed", "error", err)
		s.Logout(ctx)
		return
	}

	s.mu.Lock()
	s.user = user
	s.authenticated = true
	s.mu.Unlock()
}

// UpdateProfile replaces the session user with the server's version.
func (s *SessionManager) UpdateProfile(ctx context.Context, profile domain.Profile) (*domain.User, error) {
	s.mu.Lock()
	current := s.user
	s.mu.Unlock()
	if current == nil {
		return nil, domain.WrapError(domain.ErrAuth, "update profile", errors.New("no active session"))
	}

	s.setLoading(true)
	defer s.setLoading(false)

	user, err := s.gateway.UpdateUser(ctx, current.ID, profile)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()

	copied := *user
	return &copied, nil
}

func (s *SessionManager) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

// CurrentUser returns a copy; session state is mutated only through the
// manager's own operations.
func (s *SessionManager) CurrentUser() *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	copied := *s.user
	return &copied
}

// HasPermission is a pure read; no user means no permissions.
func (s *SessionManager) HasPermission(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return false
	}
	for _, p := range s.user.Permissions {
		if p == name {
			return true
		}
	}
	return false
}

func (s *SessionManager) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *SessionManager) install(grant *domain.AuthGrant) {
	s.mu.Lock()
	user := grant.User
	s.user = &user
	s.token = grant.Token
	s.authenticated = true
	s.mu.Unlock()

	var expiresAt time.Time
	if grant.ExpiresAt > 0 {
		expiresAt = time.Unix(grant.ExpiresAt, 0)
	}
	if err := s.tokens.Save(grant.Token, expiresAt); err != nil {
		s.logger.Error("persist_token_failed", "error", err)
	}
}

func (s *SessionManager) teardown() {
	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.authenticated = false
	s.mu.Unlock()

	if err := s.tokens.Clear(); err != nil {
		s.logger.Warn("clear_token_failed", "error", err)
	}
}

func (s *SessionManager) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}
