package navigation

import (
	"log/slog"
	"time"

	"github.com/vango-dev/maproute/pkg/reactive"
	"github.com/vango-dev/maproute/pkg/router"
	"github.com/vango-dev/maproute/pkg/routepath"
)

// State is the state of a Controller.
type State int

const (
	// StateIdle means no route application or URL write is in progress.
	StateIdle State = iota

	// StateApplying means a location is being matched and reconciled into
	// the route cells.
	StateApplying

	// StateWriting means a query cell change is being written to the
	// address bar.
	StateWriting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateApplying:
		return "applying"
	case StateWriting:
		return "writing"
	default:
		return "unknown"
	}
}

// Active is the matched route and template.
type Active struct {
	Route   *router.Route
	Variant *router.Variant
}

func sameActive(a, b *Active) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Route == b.Route && a.Variant == b.Variant
}

// Controller binds a router to a Port.
type Controller struct {
	router   *router.Router
	port     Port
	rt       *reactive.Runtime
	logger   *slog.Logger
	observer Observer

	state    State
	location routepath.Location

	// applied holds the query values of the last application. The
	// write-back effect only writes values that differ from it.
	applied map[string]any

	path    *reactive.Cell[string]
	route   *reactive.Cell[*Active]
	context *reactive.Cell[*router.RouteContext]
	params  *reactive.Cell[reactive.Bag]
	query   *reactive.Cell[reactive.Bag]

	writeBack *reactive.Effect
	closed    bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithObserver sets the observer notified of applications, failures and
// history writes.
func WithObserver(o Observer) Option {
	return func(c *Controller) {
		c.observer = o
	}
}

// WithRuntime makes the controller create its cells in rt, so they can be
// combined with the application's own cells and effects.
func WithRuntime(rt *reactive.Runtime) Option {
	return func(c *Controller) {
		c.rt = rt
	}
}

// NewController applies the port's current location and starts listening to
// it. It returns ErrNoRoute when the current location matches no route.
func NewController(r *router.Router, port Port, opts ...Option) (*Controller, error) {
	c := &Controller{
		router:   r,
		port:     port,
		logger:   slog.Default(),
		observer: NopObserver{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.rt == nil {
		c.rt = reactive.NewRuntime(reactive.WithLogger(c.logger))
	}

	loc := port.Location()
	res, err := r.Resolve(loc, router.ReasonNavigation)
	if err != nil {
		c.fail(loc.String(), router.ReasonNavigation, err)
		return nil, err
	}

	c.path = reactive.NewCell(c.rt, "")
	c.route = reactive.NewCell[*Active](c.rt, nil).WithEquals(sameActive)
	c.context = reactive.NewCell[*router.RouteContext](c.rt, nil).WithEquals(func(a, b *router.RouteContext) bool {
		return a == b
	})
	c.params = reactive.NewCell[reactive.Bag](c.rt, nil).WithEquals(neverEqual)
	c.query = reactive.NewCell[reactive.Bag](c.rt, nil).WithEquals(neverEqual)

	c.commit(res)
	c.writeBack = reactive.NewEffect(c.rt, c.syncURL)

	port.OnPopNavigation(c.handlePop)
	port.OnLinkIntercept(c.HandleLinkClick)
	return c, nil
}

// Bags are only written when replaced.
func neverEqual(reactive.Bag, reactive.Bag) bool { return false }

// Close stops listening to the port and disposes the write-back effect.
// Cells keep their last values.
func (c *Controller) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.writeBack.Dispose()
	c.port.OnPopNavigation(nil)
	c.port.OnLinkIntercept(nil)
}

// Router returns the router.
func (c *Controller) Router() *router.Router { return c.router }

// Runtime returns the reactive runtime owning the controller's cells.
func (c *Controller) Runtime() *reactive.Runtime { return c.rt }

// State returns the current state.
func (c *Controller) State() State { return c.state }

// Location returns the current location, hash included.
func (c *Controller) Location() routepath.Location { return c.location }

// Path returns the cell holding the current pathname and search string.
func (c *Controller) Path() *reactive.Cell[string] { return c.path }

// Route returns the cell holding the active route. It changes only when
// another route or template is matched.
func (c *Controller) Route() *reactive.Cell[*Active] { return c.route }

// Context returns the cell holding the context of the last application.
// Every application stores a new context.
func (c *Controller) Context() *reactive.Cell[*router.RouteContext] { return c.context }

// ParamBag returns the cell holding the parameter cells of the active route.
// It changes only when the set of declared parameters changes.
func (c *Controller) ParamBag() *reactive.Cell[reactive.Bag] { return c.params }

// QueryBag returns the cell holding the query cells of the active route.
func (c *Controller) QueryBag() *reactive.Cell[reactive.Bag] { return c.query }

// Param returns the cell of path parameter key, or nil when the active
// route does not declare it. Reading through Param subscribes to the bag.
func (c *Controller) Param(key string) *reactive.Cell[any] {
	return c.params.Get()[key]
}

// Query returns the cell of query key, or nil when the active route does not
// declare it. Writing the cell updates the URL.
func (c *Controller) Query(key string) *reactive.Cell[any] {
	return c.query.Get()[key]
}

// SetQuery writes several query cells at once, producing at most one
// history write. Keys the active route does not declare are ignored.
func (c *Controller) SetQuery(values map[string]any) {
	bag := c.query.Peek()
	c.rt.Batch(func() {
		for key, value := range values {
			if cell := bag[key]; cell != nil {
				cell.Set(value)
			}
		}
	})
}

// commit reconciles a resolved location into the cells, in one batch.
// Parameters settle before the query.
func (c *Controller) commit(res *router.Resolution) {
	start := time.Now()
	prev := c.state
	c.state = StateApplying
	defer func() { c.state = prev }()

	m := res.Match
	c.location = res.Context.Location()
	c.applied = res.Query

	var paramsReplaced, queryReplaced bool
	c.rt.Untracked(func() {
		c.rt.Batch(func() {
			c.path.Set(c.location.Path())
			c.context.Set(res.Context)
			c.route.Set(&Active{Route: m.Route, Variant: m.Variant})

			var params, query reactive.Bag
			params, paramsReplaced = reactive.Reconcile(c.rt, c.params.Peek(), declaredParams(m))
			if paramsReplaced {
				c.params.Set(params)
			}
			query, queryReplaced = reactive.Reconcile(c.rt, c.query.Peek(), res.Query)
			if queryReplaced {
				c.query.Set(query)
			}
		})
	})

	c.logger.Debug("navigation: route applied",
		"route", m.Route.ID(),
		"template", m.Variant.Template,
		"path", res.Context.Path,
		"reason", res.Context.Reason)
	c.observer.RouteApplied(Applied{
		Context:        res.Context,
		Route:          m.Route.ID(),
		Template:       m.Variant.Template,
		Start:          start,
		Duration:       time.Since(start),
		ParamsReplaced: paramsReplaced,
		QueryReplaced:  queryReplaced,
		QueryErr:       res.QueryErr,
	})

	// Query writes made by subscribers while applying were held back.
	if prev == StateIdle && c.writeBack != nil {
		c.state = StateIdle
		c.writeBack.MarkDirty()
	}
}

// declaredParams returns every declared parameter of the route, nil when
// the matched template does not carry it.
func declaredParams(m *router.Match) map[string]any {
	keys := m.Route.ParamKeys()
	params := make(map[string]any, len(keys))
	for _, key := range keys {
		params[key] = m.Params[key]
	}
	return params
}

func (c *Controller) fail(url string, reason router.LoadReason, err error) {
	c.observer.NavigationFailed(Failure{URL: url, Reason: reason, Err: err})
}
