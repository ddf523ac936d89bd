package routes

import (
	"context"
	"errors"
	"slices"

	"github.com/jrsteele09/go-zonasi-client/users"
	"github.com/rs/zerolog/log"
)

// Session is the read side of the session state the guard consults.
type Session interface {
	IsLoggedIn() bool
	User() *users.User
}

// Refresher recovers a session and reports the outcome of that attempt.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// RefresherFunc adapts a function to Refresher.
type RefresherFunc func(ctx context.Context) error

func (f RefresherFunc) Refresh(ctx context.Context) error {
	return f(ctx)
}

// Decision is the outcome of a guard check: proceed, or go to Redirect instead.
type Decision struct {
	Allow    bool
	Redirect string
}

func allow() Decision {
	return Decision{Allow: true}
}

func redirect(name string) Decision {
	return Decision{Redirect: name}
}

type Guard struct {
	session   Session
	refresher Refresher
	logout    func(ctx context.Context) error
}

func NewGuard(session Session, refresher Refresher, logout func(ctx context.Context) error) (*Guard, error) {
	if session == nil {
		return nil, errors.New("[NewGuard] session is required")
	}
	if refresher == nil {
		return nil, errors.New("[NewGuard] refresher is required")
	}
	if logout == nil {
		return nil, errors.New("[NewGuard] logout is required")
	}
	return &Guard{session: session, refresher: refresher, logout: logout}, nil
}

// Before decides whether navigation to route may proceed.
func (g *Guard) Before(ctx context.Context, to Route) Decision {
	logger := log.With().Str("route", to.Name).Logger()

	if to.RequiresAuth && !g.session.IsLoggedIn() {
		if err := g.refresher.Refresh(ctx); err != nil {
			logger.Debug().Err(err).Msg("No recoverable session")
			if err := g.logout(ctx); err != nil {
				logger.Err(err).Msg("Logout after failed session recovery")
			}
			return redirect(RouteLogin)
		}
		if !g.session.IsLoggedIn() {
			return redirect(RouteLogin)
		}
	}

	user := g.session.User()
	if to.Name == RouteLogin && g.session.IsLoggedIn() && user != nil {
		if landing, ok := LandingRoutes[user.Role]; ok {
			return redirect(landing)
		}
	}

	if len(to.Roles) > 0 {
		if user == nil || user.Role == "" {
			if to.Name == RouteLogin {
				return allow()
			}
			return redirect(RouteLogin)
		}
		if !slices.Contains(to.Roles, user.Role) {
			logger.Debug().Str("role", string(user.Role)).Msg("Role not allowed")
			return redirect(RouteForbidden)
		}
	}
	return allow()
}

// BeforePath is Before for the route matching path.
func (g *Guard) BeforePath(ctx context.Context, path string) (Route, Decision) {
	to := Match(path)
	return to, g.Before(ctx, to)
}
