package navguard

import (
	"context"
	"testing"

	"github.com/mlobankov/resume-pilot/internal/core/domain"
)

// sessionFake flips to authenticated on CheckAuth when recoverable is set,
// mimicking a session restored from a durable credential.
type sessionFake struct {
	authenticated  bool
	recoverable    bool
	checkAuthCalls int
}

func (s *sessionFake) IsAuthenticated() bool          { return s.authenticated }
func (s *sessionFake) CurrentUser() *domain.User      { return nil }
func (s *sessionFake) HasPermission(string) bool      { return false }
func (s *sessionFake) Logout(context.Context)         { s.authenticated = false }
func (s *sessionFake) CheckAuth(context.Context) {
	s.checkAuthCalls++
	if s.recoverable {
		s.authenticated = true
	}
}

func (s *sessionFake) Login(context.Context, domain.Credentials) (*domain.AuthGrant, error) {
	return nil, nil
}

func (s *sessionFake) Register(context.Context, domain.Registration) (*domain.AuthGrant, error) {
	return nil, nil
}

func TestProtectedRouteRedirectsAnonymousToLogin(t *testing.T) {
	session := &sessionFake{}
	guard := New(session)

	decision := guard.Decide(context.Background(), RouteDashboard)
	if decision.Allowed {
		t.Fatalf("anonymous visit to a protected route must be blocked")
	}
	if decision.RedirectTo != RouteLogin {
		t.Fatalf("redirect = %q, want login", decision.RedirectTo)
	}
	if session.checkAuthCalls != 1 {
		t.Fatalf("a cold session must get one recovery attempt, got %d", session.checkAuthCalls)
	}
}

func TestProtectedRouteRecoversFromDurableCredential(t *testing.T) {
	session := &sessionFake{recoverable: true}
	guard := New(session)

	decision := guard.Decide(context.Background(), RouteResume)
	if !decision.Allowed {
		t.Fatalf("a recoverable session must pass, got redirect to %q", decision.RedirectTo)
	}
}

func TestWarmSessionSkipsRecovery(t *testing.T) {
	session := &sessionFake{authenticated: true}
	guard := New(session)

	if decision := guard.Decide(context.Background(), RouteProfile); !decision.Allowed {
		t.Fatalf("authenticated visit must pass")
	}
	if session.checkAuthCalls != 0 {
		t.Fatalf("a warm session must not re-check, got %d calls", session.checkAuthCalls)
	}
}

func TestAuthenticatedUserBouncedOffEntryRoutes(t *testing.T) {
	session := &sessionFake{authenticated: true}
	guard := New(session)

	for _, route := range []Route{RouteLogin, RouteRegister} {
		decision := guard.Decide(context.Background(), route)
		if decision.Allowed {
			t.Fatalf("authenticated user allowed onto %q", route)
		}
		if decision.RedirectTo != RouteDashboard {
			t.Fatalf("redirect = %q, want dashboard", decision.RedirectTo)
		}
	}
}

func TestAnonymousUserMayVisitEntryRoutes(t *testing.T) {
	session := &sessionFake{}
	guard := New(session)

	for _, route := range []Route{RouteLogin, RouteRegister} {
		if decision := guard.Decide(context.Background(), route); !decision.Allowed {
			t.Fatalf("anonymous visit to %q must pass", route)
		}
	}
}

func TestUnknownRouteRedirectsToLogin(t *testing.T) {
	session := &sessionFake{authenticated: true}
	guard := New(session)

	decision := guard.Decide(context.Background(), Route("admin"))
	if decision.Allowed || decision.RedirectTo != RouteLogin {
		t.Fatalf("unknown route must fall back to login, got %+v", decision)
	}
}
