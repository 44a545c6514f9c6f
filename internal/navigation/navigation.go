// Package navigation decides what happens when the user navigates to a
// path: which view renders, or where the guard sends them instead.
package navigation

import (
	"context"
	"errors"
	"fmt"

	"github.com/okian/parkspot/internal/domain/route"
	"github.com/okian/parkspot/pkg/logger"
	"github.com/okian/parkspot/pkg/metrics"
)

// Sentinel errors.
var (
	ErrNotFound  = errors.New("no route matches path")
	ErrForbidden = errors.New("view requires an admin session")
)

// Decision outcomes, also used as metric labels.
const (
	OutcomeAllow    = "allow"
	OutcomeRedirect = "redirect"
	OutcomeDeny     = "deny"
	OutcomeNotFound = "not_found"
)

// Session is what the guard reads from the session context.
type Session interface {
	Authenticated(ctx context.Context) bool
	Privileged(ctx context.Context) bool
}

// Decision is the guard's verdict for one navigation. Redirect is set when
// the user must be sent elsewhere instead of rendering Match.
type Decision struct {
	Match    route.Match
	Redirect string
}

// Allowed reports whether the matched view may render.
func (d Decision) Allowed() bool { return d.Redirect == "" }

// Navigator resolves paths against a route table and applies access
// metadata using the injected session.
type Navigator struct {
	table   *route.Table
	session Session
	logger  logger.Logger
}

// Option applies a configuration option to the Navigator.
type Option func(*Navigator)

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(n *Navigator) {
		if l != nil {
			n.logger = l
		}
	}
}

// New creates a navigator.
func New(table *route.Table, session Session, opts ...Option) *Navigator {
	n := &Navigator{table: table, session: session, logger: logger.Nop()}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Resolve matches path and evaluates the target's metadata. Unauthenticated
// users are redirected to the login view; authenticated users without the
// admin role are refused with ErrForbidden.
func (n *Navigator) Resolve(ctx context.Context, path string) (Decision, error) {
	m, ok := n.table.Match(path)
	if !ok {
		metrics.RecordRouteResolution("", OutcomeNotFound)
		return Decision{}, fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	meta := m.Route.Meta
	view := string(m.Route.View)
	if (meta.RequiresAuth || meta.RequiresAdmin) && !n.session.Authenticated(ctx) {
		metrics.RecordRouteResolution(view, OutcomeRedirect)
		n.logger.Debug(ctx, "navigation redirected to login", logger.String("path", m.Path), logger.String("view", view))
		return Decision{Match: m, Redirect: route.LoginPath}, nil
	}
	if meta.RequiresAdmin && !n.session.Privileged(ctx) {
		metrics.RecordRouteResolution(view, OutcomeDeny)
		n.logger.Debug(ctx, "navigation denied", logger.String("path", m.Path), logger.String("view", view))
		return Decision{Match: m}, fmt.Errorf("%w: %s", ErrForbidden, m.Path)
	}

	metrics.RecordRouteResolution(view, OutcomeAllow)
	return Decision{Match: m}, nil
}
