package router

import (
	"errors"
	"log/slog"
	"slices"

	"github.com/vango-dev/maproute/pkg/routepath"
)

// Router matches paths against a fixed set of compiled routes.
// A Router is immutable after New and safe for concurrent use.
type Router struct {
	routes   []*Route
	byID     map[string]*Route
	variants []*Variant // specificity order
	logger   *slog.Logger
}

// Option configures a Router.
type Option func(*Router)

// WithLogger sets the logger used for query decode failures and
// lenient href fallbacks.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) {
		r.logger = logger
	}
}

// New compiles defs, in registration order.
//
// Every template is validated up front; if anything is wrong New returns
// Errors holding every problem found and no router. Nothing is validated
// at request time.
func New(defs []Definition, opts ...Option) (*Router, error) {
	r := &Router{
		byID:   make(map[string]*Route, len(defs)),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}

	var errs Errors
	for i, def := range defs {
		route, rerrs := compileRoute(def, i)
		errs = append(errs, rerrs...)

		if def.ID != "" {
			if _, dup := r.byID[def.ID]; dup {
				e := newError(CodeDuplicateRoute, "route #%d", i)
				e.Route = def.ID
				errs = append(errs, e)
				continue
			}
		}
		if route == nil {
			// Reserve the id so later duplicates are still reported.
			if def.ID != "" {
				r.byID[def.ID] = nil
			}
			continue
		}

		r.routes = append(r.routes, route)
		r.byID[def.ID] = route
		r.variants = append(r.variants, route.variants...)
	}
	if len(errs) > 0 {
		return nil, errs
	}

	rank(r.variants)
	return r, nil
}

// MustNew is like New but panics on configuration errors.
func MustNew(defs []Definition, opts ...Option) *Router {
	r, err := New(defs, opts...)
	if err != nil {
		panic(err)
	}
	return r
}

// Routes returns the routes in registration order.
func (r *Router) Routes() []*Route {
	return slices.Clone(r.routes)
}

// Variants returns every compiled template in matching order.
func (r *Router) Variants() []*Variant {
	return slices.Clone(r.variants)
}

// Lookup returns the route with the given id.
func (r *Router) Lookup(id string) (*Route, bool) {
	route := r.byID[id]
	return route, route != nil
}

// Match finds the most specific variant matching pathname and decodes its
// parameters. A path that matches nothing returns ok == false.
func (r *Router) Match(pathname string) (*Match, bool) {
	segments := routepath.Split(pathname)
	for _, v := range r.variants {
		if params, ok := v.match(segments); ok {
			return &Match{Route: v.Route, Variant: v, Params: params}, true
		}
	}
	return nil, false
}

// MustMatch is like Match but panics with ErrNoRoute when nothing matches.
// It is meant for paths the caller knows to be routable.
func (r *Router) MustMatch(pathname string) *Match {
	m, ok := r.Match(pathname)
	if !ok {
		panic(noRoute(pathname))
	}
	return m
}

// Resolve matches loc and decodes its query for the matched route.
//
// A path that matches nothing returns ErrNoRoute. A query that fails to
// decode is not an error: it is logged, the route gets an empty query and
// the failure is reported in Resolution.QueryErr.
func (r *Router) Resolve(loc routepath.Location, reason LoadReason) (*Resolution, error) {
	m, ok := r.Match(loc.Pathname)
	if !ok {
		return nil, noRoute(loc.Pathname)
	}

	ctx := NewContext(loc, reason)
	query, err := m.Route.DecodeQuery(ctx.Query)
	res := &Resolution{Context: ctx, Match: m, Query: query}
	if err != nil {
		res.QueryErr = err
		attrs := []any{"route", m.Route.ID(), "path", ctx.Path, "error", err}
		var e *Error
		if errors.As(err, &e) {
			attrs = append(attrs, "key", e.Key, "value", e.Value)
		}
		r.logger.Warn("router: query decode failed", attrs...)
	}
	return res, nil
}

func noRoute(pathname string) *Error {
	e := newError(CodeNoRoute, "%q", pathname)
	e.Value = pathname
	return e
}
