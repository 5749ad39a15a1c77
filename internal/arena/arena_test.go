package arena

import "testing"

func TestNullHandleIsZero(t *testing.T) {
	a := New()
	if a.Null() != 0 {
		t.Fatalf("Null() = %d, want 0", a.Null())
	}
	if a.Kind(a.Null()) != KindNull {
		t.Fatalf("Kind(Null) = %v, want KindNull", a.Kind(a.Null()))
	}
}

func TestKindStableAcrossGrowth(t *testing.T) {
	a := New()
	h := a.NewString("hello")
	for i := 0; i < 10000; i++ {
		a.NewNumber(int64(i))
	}
	if a.Kind(h) != KindString {
		t.Fatalf("Kind(h) changed after growth: %v", a.Kind(h))
	}
	if a.String(h) != "hello" {
		t.Fatalf("String(h) = %q after growth, want hello", a.String(h))
	}
}

func TestStringAppendToTail(t *testing.T) {
	a := New()
	h := a.NewString("foo")
	h2 := a.AppendString(h, "bar")
	if h2 != h {
		t.Errorf("expected tail append to reuse handle")
	}
	if a.String(h2) != "foobar" {
		t.Errorf("String = %q, want foobar", a.String(h2))
	}

	// Once another string is pushed, h is no longer the tail.
	h = a.NewString("x")
	_ = a.NewString("y")
	h2 = a.AppendString(h, "z")
	if h2 == h {
		t.Errorf("expected non-tail append to allocate a new handle")
	}
	if a.String(h2) != "xz" {
		t.Errorf("String = %q, want xz", a.String(h2))
	}
	if a.String(h) != "x" {
		t.Errorf("original handle mutated: %q", a.String(h))
	}
}

func TestStringInterning(t *testing.T) {
	a := New()
	h1 := a.NewStringInterned("static_library")
	h2 := a.NewStringInterned("static_library")
	if h1 != h2 {
		t.Errorf("expected interned strings to share a handle")
	}
}

func TestArrayFlattenIdempotent(t *testing.T) {
	a := New()
	inner := a.NewArray(a.NewNumber(1), a.NewNumber(2))
	outer := a.NewArray(inner, a.NewNumber(3), a.NewArray())
	once := a.Flatten(outer)
	twice := a.Flatten(once)

	if a.ArrayLen(once) != a.ArrayLen(twice) {
		t.Fatalf("flatten not idempotent: %d vs %d", a.ArrayLen(once), a.ArrayLen(twice))
	}
	want := []int64{1, 2, 3}
	got := a.ArrayItems(once)
	if len(got) != len(want) {
		t.Fatalf("flatten length = %d, want %d", len(got), len(want))
	}
	for i, h := range got {
		if a.Number(h) != want[i] {
			t.Errorf("flatten[%d] = %d, want %d", i, a.Number(h), want[i])
		}
	}
}

func TestArrayForEachSnapshotsLength(t *testing.T) {
	a := New()
	arr := a.NewArray(a.NewNumber(1), a.NewNumber(2))
	visited := 0
	_ = a.ArrayForEach(arr, func(i int, v Handle) error {
		visited++
		_ = a.ArrayPush(arr, a.NewNumber(99)) // must not be visited this pass
		return nil
	})
	if visited != 2 {
		t.Fatalf("visited = %d, want 2 (snapshot of initial length)", visited)
	}
	if a.ArrayLen(arr) != 4 {
		t.Fatalf("ArrayLen after appends = %d, want 4", a.ArrayLen(arr))
	}
}

func TestFlattenOne(t *testing.T) {
	a := New()
	n := a.NewNumber(5)
	wrapped := a.NewArray(n)
	if got := a.FlattenOne(wrapped); got != n {
		t.Errorf("FlattenOne([x]) = %v, want x", got)
	}
	multi := a.NewArray(n, a.NewNumber(6))
	if got := a.FlattenOne(multi); got != multi {
		t.Errorf("FlattenOne([x,y]) should pass through unchanged")
	}
}

func TestDictInsertionOrderAndMerge(t *testing.T) {
	a := New()
	d1 := a.NewDict()
	_ = a.DictSet(d1, "a", a.NewNumber(1))
	_ = a.DictSet(d1, "b", a.NewNumber(2))

	d2 := a.NewDict()
	_ = a.DictSet(d2, "b", a.NewNumber(20))
	_ = a.DictSet(d2, "c", a.NewNumber(3))

	merged := a.DictMerge(d1, d2)
	keys := a.DictKeys(merged)
	if len(keys) != 3 || keys[0] != "a" || keys[1] != "b" || keys[2] != "c" {
		t.Fatalf("unexpected merged key order: %v", keys)
	}
	v, _ := a.DictGet(merged, "b")
	if a.Number(v) != 20 {
		t.Errorf("merge should let later dict win: b = %d, want 20", a.Number(v))
	}
}

func TestEqualStructuralVsHandle(t *testing.T) {
	a := New()
	s1 := a.NewString("x")
	s2 := a.NewString("x")
	if !a.Equal(s1, s2) {
		t.Errorf("expected structural equality for equal strings")
	}
	arr1 := a.NewArray()
	arr2 := a.NewArray()
	if a.Equal(arr1, arr2) {
		t.Errorf("expected handle equality (false) for two distinct empty arrays")
	}
	if !a.Equal(arr1, arr1) {
		t.Errorf("expected handle equality (true) for same handle")
	}
}

func TestArrayNeverDangles(t *testing.T) {
	a := New()
	arr := a.NewArray(a.NewNumber(1))
	_ = a.ArrayDel(arr, 0)
	if a.ArrayLen(arr) != 0 {
		t.Fatalf("expected empty array after Del, got %d", a.ArrayLen(arr))
	}
}
