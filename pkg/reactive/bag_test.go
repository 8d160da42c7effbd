package reactive

import "testing"

func TestReconcileInPlace(t *testing.T) {
	rt := NewRuntime()
	bag := NewBag(rt, map[string]any{"q": "cafe", "local": nil})
	q := bag["q"]

	notified := 0
	NewEffect(rt, func() {
		bag.Values()
		notified++
	})
	notified = 0

	got, replaced := Reconcile(rt, bag, map[string]any{"q": "bar", "local": true})
	if replaced {
		t.Fatal("same key set replaced the bag")
	}
	if got["q"] != q {
		t.Error("cell identity changed on in-place reconcile")
	}
	if got["q"].Peek() != "bar" || got["local"].Peek() != true {
		t.Errorf("values = %v", got.Peek())
	}
	if notified != 1 {
		t.Errorf("effect notified %d times, want 1 (single batch)", notified)
	}
}

func TestReconcileIdempotent(t *testing.T) {
	rt := NewRuntime()
	target := map[string]any{"id": 42}
	bag := NewBag(rt, target)
	cell := bag["id"]

	calls := 0
	cell.Subscribe(func(any) { calls++ })

	for i := 0; i < 2; i++ {
		got, replaced := Reconcile(rt, bag, target)
		if replaced || got["id"] != cell {
			t.Fatalf("pass %d replaced the bag", i)
		}
	}
	if calls != 0 {
		t.Errorf("calls = %d, want 0", calls)
	}
}

func TestReconcileReplacesOnKeyChange(t *testing.T) {
	rt := NewRuntime()
	bag := NewBag(rt, map[string]any{"id": 1})

	tests := []struct {
		name   string
		target map[string]any
	}{
		{"different key", map[string]any{"q": "x"}},
		{"extra key", map[string]any{"id": 1, "q": "x"}},
		{"empty", map[string]any{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, replaced := Reconcile(rt, bag, tt.target)
			if !replaced {
				t.Fatal("expected replacement")
			}
			if len(got) != len(tt.target) {
				t.Errorf("len = %d, want %d", len(got), len(tt.target))
			}
			if c, ok := got["id"]; ok && c == bag["id"] {
				t.Error("replacement reused an old cell")
			}
		})
	}
}

func TestReconcileNilBag(t *testing.T) {
	rt := NewRuntime()
	got, replaced := Reconcile(rt, nil, map[string]any{})
	if !replaced || got == nil {
		t.Errorf("Reconcile(nil) = %v, %v", got, replaced)
	}
}

func TestBagKeys(t *testing.T) {
	rt := NewRuntime()
	bag := NewBag(rt, map[string]any{"b": 1, "a": 2})
	keys := bag.Keys()
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Errorf("Keys() = %v", keys)
	}
}
