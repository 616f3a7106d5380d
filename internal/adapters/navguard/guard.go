// Package navguard gates entry into protected views. It only reads session
// state; redirect handling stays with the surface that owns navigation.
package navguard

import (
	"context"

	"github.com/mlobankov/resume-pilot/internal/core/ports"
)

type Route string

const (
	RouteLogin     Route = "login"
	RouteRegister  Route = "register"
	RouteDashboard Route = "dashboard"
	RouteProfile   Route = "profile"
	RouteResume    Route = "resume"
)

// Decision says where navigation should actually go.
type Decision struct {
	Allowed    bool
	RedirectTo Route
}

type Guard struct {
	session ports.SessionController
	routes  map[Route]bool
}

func New(session ports.SessionController) *Guard {
	return &Guard{
		session: session,
		routes: map[Route]bool{
			RouteLogin:     false,
			RouteRegister:  false,
			RouteDashboard: true,
			RouteProfile:   true,
			RouteResume:    true,
		},
	}
}

// Decide resolves one navigation attempt. Entering a protected route with
// a cold session first runs CheckAuth, recovering from a durable token if
// one is still valid.
func (g *Guard) Decide(ctx context.Context, to Route) Decision {
	requiresAuth, known := g.routes[to]
	if !known {
		return Decision{Allowed: false, RedirectTo: RouteLogin}
	}

	if requiresAuth && !g.session.IsAuthenticated() {
		g.session.CheckAuth(ctx)
	}

	authenticated := g.session.IsAuthenticated()

	if requiresAuth && !authenticated {
		return Decision{Allowed: false, RedirectTo: RouteLogin}
	}
	if authenticated && (to == RouteLogin || to == RouteRegister) {
		return Decision{Allowed: false, RedirectTo: RouteDashboard}
	}
	return Decision{Allowed: true}
}
