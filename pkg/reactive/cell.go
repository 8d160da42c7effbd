package reactive

import (
	"reflect"
	"slices"
)

// source is implemented by cells so effects can drop their subscriptions.
type source interface {
	unsubscribe(Listener)
}

// Cell is a reactive value container.
type Cell[T any] struct {
	rt    *Runtime
	id    uint64
	value T
	subs  []Listener
	equal func(T, T) bool
}

// NewCell creates a cell owned by rt.
func NewCell[T any](rt *Runtime, initial T) *Cell[T] {
	return &Cell[T]{
		rt:    rt,
		id:    rt.newID(),
		value: initial,
	}
}

// WithEquals replaces the equality used to skip redundant writes.
func (c *Cell[T]) WithEquals(fn func(T, T) bool) *Cell[T] {
	c.equal = fn
	return c
}

// ID returns the unique identifier of the cell.
func (c *Cell[T]) ID() uint64 {
	return c.id
}

// Get returns the value and subscribes the current listener, if any.
func (c *Cell[T]) Get() T {
	if l := c.rt.current; l != nil {
		c.subscribe(l)
		if e, ok := l.(*Effect); ok {
			e.addSource(c)
		}
	}
	return c.value
}

// Peek returns the value without subscribing.
func (c *Cell[T]) Peek() T {
	return c.value
}

// Set stores value and notifies subscribers. Writing a value equal to the
// current one is a no-op. Set reports whether the value changed.
func (c *Cell[T]) Set(value T) bool {
	if c.equals(c.value, value) {
		return false
	}
	c.value = value
	c.rt.notify(slices.Clone(c.subs))
	return true
}

// Update sets the value returned by fn(current).
func (c *Cell[T]) Update(fn func(T) T) bool {
	return c.Set(fn(c.value))
}

// Subscribe calls fn with the new value after every change, until the
// returned function is called.
func (c *Cell[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	l := &funcListener{id: c.rt.newID()}
	l.fn = func() { fn(c.value) }
	c.subscribe(l)
	return func() { c.unsubscribe(l) }
}

// Subscribers returns the number of listeners subscribed to the cell.
func (c *Cell[T]) Subscribers() int {
	return len(c.subs)
}

func (c *Cell[T]) subscribe(l Listener) {
	id := l.ID()
	for _, existing := range c.subs {
		if existing.ID() == id {
			return
		}
	}
	c.subs = append(c.subs, l)
}

func (c *Cell[T]) unsubscribe(l Listener) {
	id := l.ID()
	for i, existing := range c.subs {
		if existing.ID() == id {
			c.subs = slices.Delete(c.subs, i, i+1)
			return
		}
	}
}

func (c *Cell[T]) equals(a, b T) bool {
	if c.equal != nil {
		return c.equal(a, b)
	}
	return Equal(a, b)
}

// Equal is the default cell equality: == for scalar values, structural
// comparison for everything else.
func Equal[T any](a, b T) bool {
	av, bv := any(a), any(b)
	if av == nil || bv == nil {
		return av == nil && bv == nil
	}
	switch x := av.(type) {
	case string:
		y, ok := bv.(string)
		return ok && x == y
	case int:
		y, ok := bv.(int)
		return ok && x == y
	case int64:
		y, ok := bv.(int64)
		return ok && x == y
	case float64:
		y, ok := bv.(float64)
		return ok && x == y
	case bool:
		y, ok := bv.(bool)
		return ok && x == y
	}
	return reflect.DeepEqual(av, bv)
}

// funcListener adapts a callback to Listener.
type funcListener struct {
	id uint64
	fn func()
}

func (l *funcListener) MarkDirty() { l.fn() }

func (l *funcListener) ID() uint64 { return l.id }
