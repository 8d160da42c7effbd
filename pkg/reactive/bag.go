package reactive

import "slices"

// Bag is a set of named cells, one per parameter or query key of a route.
type Bag map[string]*Cell[any]

// NewBag creates a bag with a fresh cell for every key of values.
func NewBag(rt *Runtime, values map[string]any) Bag {
	bag := make(Bag, len(values))
	for key, value := range values {
		bag[key] = NewCell[any](rt, value)
	}
	return bag
}

// Keys returns the keys of the bag in sorted order.
func (b Bag) Keys() []string {
	keys := make([]string, 0, len(b))
	for key := range b {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

// Values reads every cell, subscribing the current listener to each.
func (b Bag) Values() map[string]any {
	values := make(map[string]any, len(b))
	for key, cell := range b {
		values[key] = cell.Get()
	}
	return values
}

// Peek returns the values without subscribing.
func (b Bag) Peek() map[string]any {
	values := make(map[string]any, len(b))
	for key, cell := range b {
		values[key] = cell.Peek()
	}
	return values
}

// SameKeys reports whether the bag holds exactly the keys of target.
func (b Bag) SameKeys(target map[string]any) bool {
	if len(b) != len(target) {
		return false
	}
	for key := range target {
		if _, ok := b[key]; !ok {
			return false
		}
	}
	return true
}

// Reconcile brings bag in line with target.
//
// When the key sets match, changed values are written in place inside one
// batch and the same bag is returned, so readers holding a cell keep
// observing it. Otherwise a new bag with new cells is returned and replaced
// is true.
func Reconcile(rt *Runtime, bag Bag, target map[string]any) (_ Bag, replaced bool) {
	if bag == nil || !bag.SameKeys(target) {
		return NewBag(rt, target), true
	}
	rt.Batch(func() {
		for key, value := range target {
			bag[key].Set(value)
		}
	})
	return bag, false
}
