package reactive

import "log/slog"

// DefaultEffectBudget is the number of consecutive re-runs an effect may
// trigger on itself before the runtime stops it.
const DefaultEffectBudget = 100

// Listener is anything that can be notified when a cell it read changes.
type Listener interface {
	// MarkDirty notifies the listener that a dependency changed.
	MarkDirty()

	// ID returns a unique identifier used for deduplication in batches.
	ID() uint64
}

// Runtime owns cells and effects and schedules their notifications.
type Runtime struct {
	nextID uint64

	// batchDepth tracks nested Batch calls.
	batchDepth int

	// pending accumulates listeners to notify when the outermost batch ends.
	pending []Listener

	// current is the listener tracking reads, nil outside effects.
	current Listener

	effectBudget int
	storms       int
	logger       *slog.Logger
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger sets the logger used to report effect storms.
func WithLogger(logger *slog.Logger) Option {
	return func(rt *Runtime) {
		rt.logger = logger
	}
}

// WithEffectBudget sets the maximum number of consecutive self-triggered
// re-runs of one effect.
func WithEffectBudget(n int) Option {
	return func(rt *Runtime) {
		if n > 0 {
			rt.effectBudget = n
		}
	}
}

// NewRuntime creates a runtime.
func NewRuntime(opts ...Option) *Runtime {
	rt := &Runtime{
		effectBudget: DefaultEffectBudget,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

func (rt *Runtime) newID() uint64 {
	rt.nextID++
	return rt.nextID
}

// Batch groups cell updates into a single notification phase.
// Batches nest; notifications fire when the outermost batch completes.
//
//	rt.Batch(func() {
//	    lat.Set(51.5)
//	    lon.Set(-0.12)
//	})
//	// subscribers of both cells are notified once
func (rt *Runtime) Batch(fn func()) {
	rt.batchDepth++
	defer func() {
		rt.batchDepth--
		if rt.batchDepth == 0 {
			rt.flush()
		}
	}()
	fn()
}

// InBatch reports whether a batch is open.
func (rt *Runtime) InBatch() bool {
	return rt.batchDepth > 0
}

// Untracked runs fn without subscribing the current listener to reads.
func (rt *Runtime) Untracked(fn func()) {
	prev := rt.current
	rt.current = nil
	defer func() { rt.current = prev }()
	fn()
}

// Storms returns how many times an effect exceeded the effect budget.
func (rt *Runtime) Storms() int {
	return rt.storms
}

// notify delivers a change to listeners, deferring while a batch is open.
func (rt *Runtime) notify(subs []Listener) {
	if rt.batchDepth > 0 {
		rt.pending = append(rt.pending, subs...)
		return
	}
	for _, l := range subs {
		l.MarkDirty()
	}
}

// flush deduplicates and notifies pending listeners.
func (rt *Runtime) flush() {
	for len(rt.pending) > 0 {
		updates := rt.pending
		rt.pending = nil

		seen := make(map[uint64]bool, len(updates))
		for _, l := range updates {
			id := l.ID()
			if seen[id] {
				continue
			}
			seen[id] = true
			l.MarkDirty()
		}
	}
}
