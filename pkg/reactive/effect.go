package reactive

// Effect re-runs a function whenever a cell it read during its last run
// changes. Effects run synchronously: immediately on creation, on every
// change outside a batch, and once at the end of a batch otherwise.
type Effect struct {
	rt      *Runtime
	id      uint64
	fn      func()
	sources []source

	running  bool
	dirty    bool
	disposed bool
}

// NewEffect creates an effect owned by rt and runs it once.
func NewEffect(rt *Runtime, fn func()) *Effect {
	e := &Effect{
		rt: rt,
		id: rt.newID(),
		fn: fn,
	}
	e.run()
	return e
}

// ID implements Listener.
func (e *Effect) ID() uint64 {
	return e.id
}

// MarkDirty implements Listener. A change observed while the effect is
// running schedules one more run after the current one returns.
func (e *Effect) MarkDirty() {
	if e.disposed {
		return
	}
	if e.running {
		e.dirty = true
		return
	}
	e.run()
}

// Dispose stops the effect and drops its subscriptions.
func (e *Effect) Dispose() {
	e.disposed = true
	e.clearSources()
}

// Disposed reports whether Dispose was called.
func (e *Effect) Disposed() bool {
	return e.disposed
}

func (e *Effect) run() {
	for reruns := 0; ; reruns++ {
		e.dirty = false
		e.clearSources()
		e.exec()

		if !e.dirty || e.disposed {
			return
		}
		if reruns >= e.rt.effectBudget {
			e.rt.storms++
			e.rt.logger.Error("reactive: effect exceeded its re-run budget",
				"effect", e.id,
				"budget", e.rt.effectBudget)
			return
		}
	}
}

func (e *Effect) exec() {
	prev := e.rt.current
	e.rt.current = e
	e.running = true
	defer func() {
		e.running = false
		e.rt.current = prev
	}()
	e.fn()
}

func (e *Effect) addSource(s source) {
	e.sources = append(e.sources, s)
}

func (e *Effect) clearSources() {
	for _, s := range e.sources {
		s.unsubscribe(e)
	}
	e.sources = e.sources[:0]
}
