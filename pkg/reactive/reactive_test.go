package reactive

import "testing"

func TestCellSetSkipsEqualValues(t *testing.T) {
	rt := NewRuntime()
	c := NewCell(rt, 1)

	calls := 0
	c.Subscribe(func(int) { calls++ })

	if c.Set(1) {
		t.Error("Set(1) on a cell holding 1 reported a change")
	}
	if calls != 0 {
		t.Errorf("calls = %d, want 0", calls)
	}

	if !c.Set(2) {
		t.Error("Set(2) reported no change")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestCellStructuralEquality(t *testing.T) {
	rt := NewRuntime()
	c := NewCell[any](rt, []string{"a", "b"})

	calls := 0
	c.Subscribe(func(any) { calls++ })

	c.Set([]string{"a", "b"})
	if calls != 0 {
		t.Errorf("equal slice notified %d times", calls)
	}

	c.Set(42)
	c.Set("42")
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestCellWithEqualsIdentity(t *testing.T) {
	type ctx struct{ path string }
	rt := NewRuntime()
	c := NewCell(rt, &ctx{path: "/"}).WithEquals(func(a, b *ctx) bool { return a == b })

	calls := 0
	c.Subscribe(func(*ctx) { calls++ })

	c.Set(&ctx{path: "/"})
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (new pointer must notify)", calls)
	}
}

func TestUnsubscribe(t *testing.T) {
	rt := NewRuntime()
	c := NewCell(rt, "a")

	calls := 0
	unsubscribe := c.Subscribe(func(string) { calls++ })
	c.Set("b")
	unsubscribe()
	c.Set("c")

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if c.Subscribers() != 0 {
		t.Errorf("Subscribers() = %d, want 0", c.Subscribers())
	}
}

func TestBatchNotifiesOnce(t *testing.T) {
	rt := NewRuntime()
	a := NewCell(rt, 0)
	b := NewCell(rt, 0)

	runs := 0
	var seenA, seenB int
	NewEffect(rt, func() {
		runs++
		seenA, seenB = a.Get(), b.Get()
	})

	rt.Batch(func() {
		a.Set(1)
		b.Set(2)
		if runs != 1 {
			t.Errorf("effect ran inside batch (runs = %d)", runs)
		}
	})

	if runs != 2 {
		t.Errorf("runs = %d, want 2", runs)
	}
	if seenA != 1 || seenB != 2 {
		t.Errorf("effect saw (%d, %d), want (1, 2)", seenA, seenB)
	}
}

func TestNestedBatch(t *testing.T) {
	rt := NewRuntime()
	c := NewCell(rt, 0)

	calls := 0
	c.Subscribe(func(int) { calls++ })

	rt.Batch(func() {
		rt.Batch(func() {
			c.Set(1)
		})
		if calls != 0 {
			t.Error("inner batch flushed before outer batch ended")
		}
		if !rt.InBatch() {
			t.Error("InBatch() = false inside batch")
		}
		c.Set(2)
	})

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestEffectTracksOnlyLastRunDependencies(t *testing.T) {
	rt := NewRuntime()
	useA := NewCell(rt, true)
	a := NewCell(rt, "a")
	b := NewCell(rt, "b")

	runs := 0
	NewEffect(rt, func() {
		runs++
		if useA.Get() {
			a.Get()
		} else {
			b.Get()
		}
	})

	useA.Set(false)
	runs = 0

	a.Set("a2")
	if runs != 0 {
		t.Errorf("stale dependency re-ran effect %d times", runs)
	}
	b.Set("b2")
	if runs != 1 {
		t.Errorf("runs = %d, want 1", runs)
	}
}

func TestEffectSelfWriteConverges(t *testing.T) {
	rt := NewRuntime()
	c := NewCell(rt, 0)

	NewEffect(rt, func() {
		if v := c.Get(); v < 5 {
			c.Set(v + 1)
		}
	})

	if c.Peek() != 5 {
		t.Errorf("value = %d, want 5", c.Peek())
	}
	if rt.Storms() != 0 {
		t.Errorf("Storms() = %d, want 0", rt.Storms())
	}
}

func TestEffectBudgetStopsRunawayEffect(t *testing.T) {
	rt := NewRuntime(WithEffectBudget(10))
	c := NewCell(rt, 0)

	NewEffect(rt, func() {
		c.Set(c.Get() + 1)
	})

	if rt.Storms() != 1 {
		t.Errorf("Storms() = %d, want 1", rt.Storms())
	}
	if c.Peek() != 11 {
		t.Errorf("value = %d, want 11", c.Peek())
	}
}

func TestEffectDispose(t *testing.T) {
	rt := NewRuntime()
	c := NewCell(rt, 0)

	runs := 0
	e := NewEffect(rt, func() {
		runs++
		c.Get()
	})
	e.Dispose()
	c.Set(1)

	if runs != 1 {
		t.Errorf("runs = %d, want 1", runs)
	}
	if !e.Disposed() {
		t.Error("Disposed() = false")
	}
	if c.Subscribers() != 0 {
		t.Errorf("Subscribers() = %d, want 0", c.Subscribers())
	}
}

func TestUntracked(t *testing.T) {
	rt := NewRuntime()
	c := NewCell(rt, 0)

	runs := 0
	NewEffect(rt, func() {
		runs++
		rt.Untracked(func() { c.Get() })
	})
	c.Set(1)

	if runs != 1 {
		t.Errorf("runs = %d, want 1", runs)
	}
}
