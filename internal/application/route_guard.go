package application

import (
	"github.com/bnema/folio-admin-cli/internal/domain"
)

type SessionReader interface {
	Current() *domain.Session
}

type Decision struct {
	Allowed    bool
	RedirectTo domain.View
}

// RouteGuard admits navigation to a view. It holds no state of its own, so
// every call sees the session as it is right now.
type RouteGuard struct {
	sessions SessionReader
}

func NewRouteGuard(sessions SessionReader) *RouteGuard {
	return &RouteGuard{sessions: sessions}
}

func (g *RouteGuard) Admit(target domain.View) Decision {
	signedIn := g.sessions.Current() != nil

	if !target.Protected() {
		if signedIn {
			return Decision{RedirectTo: domain.DefaultView}
		}
		return Decision{Allowed: true}
	}

	if !signedIn {
		return Decision{RedirectTo: domain.ViewLogin}
	}
	return Decision{Allowed: true}
}
