package router

import (
	"net/url"
	"slices"

	"github.com/vango-dev/maproute/pkg/codec"
	"github.com/vango-dev/maproute/pkg/routepath"
)

// Definition declares one route. Definitions are passed to New once and
// never modified afterwards.
type Definition struct {
	// ID names the route for Href and Navigate.
	ID string

	// Paths lists the path templates of the route, e.g. "/node/:id" and
	// "/node/:id/history". Parameters are written ":name".
	Paths []string

	// Params maps each canonical path parameter to its codec.
	Params map[string]codec.Codec

	// Query maps each canonical query key to its codec.
	Query map[string]codec.Codec

	// ParamAliases maps alternate placeholder names to canonical params.
	ParamAliases map[string]string

	// QueryAliases maps alternate query keys to canonical query keys,
	// e.g. {"query": "q"}.
	QueryAliases map[string]string

	// Component is the UI entry point. The router never looks at it.
	Component any
}

// Token is one segment of a compiled template.
type Token struct {
	// Literal is the decoded text of a literal segment.
	Literal string

	// Raw is the segment as written in the template.
	Raw string

	// Param is the canonical parameter name, empty for literals.
	Param string

	// Codec decodes and encodes the parameter.
	Codec codec.Codec
}

// IsParam reports whether the token is a parameter placeholder.
func (t Token) IsParam() bool {
	return t.Param != ""
}

// Route is a compiled Definition.
type Route struct {
	def   Definition
	index int

	variants []*Variant // declaration order
	build    []*Variant // order tried by BuildPath

	paramKeys  []string
	queryKeys  []string
	aliasOrder []string
}

// ID returns the route id.
func (r *Route) ID() string { return r.def.ID }

// Index returns the registration index of the route.
func (r *Route) Index() int { return r.index }

// Component returns the opaque UI entry point of the route.
func (r *Route) Component() any { return r.def.Component }

// Variants returns the compiled templates in declaration order.
func (r *Route) Variants() []*Variant { return slices.Clone(r.variants) }

// ParamKeys returns the declared path parameters in sorted order.
func (r *Route) ParamKeys() []string { return slices.Clone(r.paramKeys) }

// QueryKeys returns the declared query keys in sorted order.
func (r *Route) QueryKeys() []string { return slices.Clone(r.queryKeys) }

// Match is the result of matching a path.
type Match struct {
	Route   *Route
	Variant *Variant

	// Params holds the decoded parameters of the matched variant.
	Params map[string]any
}

// Input is the structured destination passed to Href and Navigate.
type Input struct {
	Params map[string]any
	Query  map[string]any
	Hash   string
}

// LoadReason records why a route was applied.
type LoadReason string

const (
	ReasonNavigation LoadReason = "navigation"
	ReasonPopState   LoadReason = "popstate"
)

// RouteContext is the snapshot of one route application. A new context is
// created for every application, so its identity can key caches and
// cancellation in consumers. It must not be modified.
type RouteContext struct {
	Reason   LoadReason
	Path     string
	Pathname string
	Search   string
	Hash     string

	// Query holds the raw, undecoded query parameters.
	Query url.Values
}

// NewContext builds the context for an application of loc.
func NewContext(loc routepath.Location, reason LoadReason) *RouteContext {
	return &RouteContext{
		Reason:   reason,
		Path:     loc.String(),
		Pathname: loc.Pathname,
		Search:   loc.Search,
		Hash:     loc.Hash,
		Query:    loc.Query(),
	}
}

// Location returns the location the context was built from.
func (c *RouteContext) Location() routepath.Location {
	return routepath.Location{Pathname: c.Pathname, Search: c.Search, Hash: c.Hash}
}

// Resolution is a fully resolved location.
type Resolution struct {
	Context *RouteContext
	Match   *Match

	// Query holds every declared query key of the route, nil when absent.
	Query map[string]any

	// QueryErr is set when the query failed to decode and Query holds
	// the empty fallback.
	QueryErr error
}
