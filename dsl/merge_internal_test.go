package dsl

import "testing"

func TestMergeStrict(t *testing.T) {
	cases := []struct{ a, b, want bool }{
		{true, true, true},
		{true, false, false},
		{false, true, false},
		{false, false, false},
	}
	for _, tc := range cases {
		if got := mergeStrict(tc.a, tc.b); got != tc.want {
			t.Fatalf("mergeStrict(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestMergeObjects_ShapeCapturedAtCallTime(t *testing.T) {
	calls := 0
	cur := NewShape(E("a", String()))
	lazy := &ObjectSchema{shape: func() Shape { calls++; return cur }, strict: true}
	other := ObjectOf(NewShape(E("b", Bool())))

	m := MergeObjects(lazy, other)
	if calls != 1 {
		t.Fatalf("operand shape accessor should run once during merge, ran %d times", calls)
	}

	cur = NewShape(E("z", Number()))
	for range 3 {
		if got := m.Shape().Keys(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
			t.Fatalf("merged shape should not follow later operand changes, got %v", got)
		}
	}
	if calls != 1 {
		t.Fatalf("merged accessor must not call operand accessors, calls=%d", calls)
	}
}

func TestLazyObject_RunsOnce(t *testing.T) {
	calls := 0
	o := LazyObject(func() Shape {
		calls++
		return NewShape(E("a", String()))
	})
	if calls != 0 {
		t.Fatalf("shape must not be built eagerly")
	}
	_ = o.Shape()
	_ = o.Shape()
	if calls != 1 {
		t.Fatalf("shape built %d times, want 1", calls)
	}
}
