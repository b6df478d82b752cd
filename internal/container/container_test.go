package container

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"alore.dev/runtime/internal/value"
)

func vi(n int64) value.Value { return value.ShortInt(n) }

var errBoom = errors.New("boom")

func TestArrayAppendGrowAndIndex(t *testing.T) {
	a := NewArray()
	for i := int64(0); i < 100; i++ {
		a.Append(vi(i))
	}
	if a.Len() != 100 {
		t.Fatalf("len = %d, want 100", a.Len())
	}
	v, err := a.Get(-1)
	if err != nil || v != vi(99) {
		t.Fatalf("Get(-1) = %v, %v, want 99", v, err)
	}
	if _, err := a.Get(100); err == nil {
		t.Fatal("expected IndexError for out-of-range index")
	}
}

func TestArrayIteratorSnapshotLength(t *testing.T) {
	a := NewArray(vi(1), vi(2), vi(3))
	it := a.NewIterator()
	a.Append(vi(4))

	var seen []value.Value
	for it.HasNext() {
		v, err := it.Next()
		if err != nil {
			t.Fatal(err)
		}
		seen = append(seen, v)
	}
	if len(seen) != 3 {
		t.Fatalf("iterator visited %d elements, want 3 (snapshot length)", len(seen))
	}
}

func TestArraySliceOpenEnded(t *testing.T) {
	a := NewArray(vi(1), vi(2), vi(3), vi(4), vi(5))
	s, err := a.Slice(2, 0, true)
	if err != nil {
		t.Fatal(err)
	}
	want := []value.Value{vi(3), vi(4), vi(5)}
	got := s.Elements()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestArrayInsertRemove(t *testing.T) {
	a := NewArray(vi(1), vi(2), vi(4))
	if err := a.InsertAt(2, vi(3)); err != nil {
		t.Fatal(err)
	}
	want := []int64{1, 2, 3, 4}
	for i, w := range want {
		v, _ := a.Get(i)
		if v != vi(w) {
			t.Fatalf("after insert, got %v at %d, want %d", v, i, w)
		}
	}
	removed, err := a.Remove(vi(3), DefaultEqual)
	if err != nil || !removed {
		t.Fatalf("Remove(3) = %v, %v", removed, err)
	}
	if a.Len() != 3 {
		t.Fatalf("len after remove = %d, want 3", a.Len())
	}
}

func TestArrayConcatAndRepeat(t *testing.T) {
	a := NewArray(vi(1), vi(2))
	b := NewArray(vi(3))
	c := a.Concat(b)
	if c.Len() != 3 {
		t.Fatalf("concat len = %d, want 3", c.Len())
	}
	r := a.Repeat(3)
	if r.Len() != 6 {
		t.Fatalf("repeat len = %d, want 6", r.Len())
	}
}

func TestArrayCompareLexicographic(t *testing.T) {
	a := NewArray(vi(1), vi(2), vi(3))
	b := NewArray(vi(1), vi(2), vi(4))
	c, err := Compare(a, b, DefaultCompare, 0)
	if err != nil {
		t.Fatal(err)
	}
	if c >= 0 {
		t.Fatalf("Compare = %d, want < 0", c)
	}
}

func TestTupleImmutableOpsAndUnpack(t *testing.T) {
	tup := NewTuple(vi(1), vi(2), vi(3))
	vals, err := tup.Unpack(3)
	if err != nil {
		t.Fatal(err)
	}
	if len(vals) != 3 || vals[0] != vi(1) {
		t.Fatalf("Unpack = %v", vals)
	}
	if _, err := tup.Unpack(2); err == nil {
		t.Fatal("expected ValueError on length mismatch")
	}
	cat := tup.Concat(NewTuple(vi(4)))
	if cat.Len() != 4 {
		t.Fatalf("concat len = %d, want 4", cat.Len())
	}
}

func TestMapSetGetDelete(t *testing.T) {
	m := NewMap(DefaultHooks())
	for i := int64(0); i < 5; i++ {
		if err := m.Set(vi(i), vi(i*10)); err != nil {
			t.Fatal(err)
		}
	}
	v, ok, err := m.Get(vi(3))
	if err != nil || !ok || v != vi(30) {
		t.Fatalf("Get(3) = %v, %v, %v", v, ok, err)
	}
	removed, err := m.Delete(vi(3))
	if err != nil || !removed {
		t.Fatalf("Delete(3) = %v, %v", removed, err)
	}
	if _, ok, _ := m.Get(vi(3)); ok {
		t.Fatal("key 3 should be gone after delete")
	}
	if m.Len() != 4 {
		t.Fatalf("len = %d, want 4", m.Len())
	}
}

func TestMapGrowsUnderLoadAndKeepsAllKeys(t *testing.T) {
	m := NewMap(DefaultHooks())
	const n = 500
	for i := int64(0); i < n; i++ {
		if err := m.Set(vi(i), vi(i)); err != nil {
			t.Fatal(err)
		}
	}
	if m.Len() != n {
		t.Fatalf("len = %d, want %d", m.Len(), n)
	}
	for i := int64(0); i < n; i++ {
		v, ok, err := m.Get(vi(i))
		if err != nil || !ok || v != vi(i) {
			t.Fatalf("Get(%d) = %v, %v, %v", i, v, ok, err)
		}
	}
}

func TestMapShrinksButNeverBelowInitialCapacity(t *testing.T) {
	m := NewMap(DefaultHooks())
	for i := int64(0); i < 200; i++ {
		_ = m.Set(vi(i), vi(i))
	}
	for i := int64(0); i < 199; i++ {
		if _, err := m.Delete(vi(i)); err != nil {
			t.Fatal(err)
		}
	}
	if len(m.slots) < initialMapCapacity {
		t.Fatalf("table shrank below initial capacity: %d", len(m.slots))
	}
	if m.Len() != 1 {
		t.Fatalf("len = %d, want 1", m.Len())
	}
}

func TestMapOverwriteExistingKey(t *testing.T) {
	m := NewMap(DefaultHooks())
	_ = m.Set(vi(1), vi(100))
	_ = m.Set(vi(1), vi(200))
	if m.Len() != 1 {
		t.Fatalf("len = %d, want 1", m.Len())
	}
	v, _, _ := m.Get(vi(1))
	if v != vi(200) {
		t.Fatalf("Get(1) = %v, want 200", v)
	}
}

func TestSetUnionIntersectionDifference(t *testing.T) {
	a := NewSet(DefaultHooks())
	b := NewSet(DefaultHooks())
	for _, n := range []int64{1, 2, 3} {
		if _, err := a.Add(vi(n)); err != nil {
			t.Fatal(err)
		}
	}
	for _, n := range []int64{2, 3, 4} {
		if _, err := b.Add(vi(n)); err != nil {
			t.Fatal(err)
		}
	}
	u, err := a.Union(b)
	if err != nil || u.Len() != 4 {
		t.Fatalf("Union len = %d, %v, want 4", u.Len(), err)
	}
	inter, err := a.Intersection(b)
	if err != nil || inter.Len() != 2 {
		t.Fatalf("Intersection len = %d, %v, want 2", inter.Len(), err)
	}
	diff, err := a.Difference(b)
	if err != nil || diff.Len() != 1 {
		t.Fatalf("Difference len = %d, %v, want 1", diff.Len(), err)
	}
	sub := NewSet(DefaultHooks())
	if _, err := sub.Add(vi(2)); err != nil {
		t.Fatal(err)
	}
	isSub, err := sub.IsSubset(a)
	if err != nil || !isSub {
		t.Fatalf("IsSubset = %v, %v, want true", isSub, err)
	}
}

func TestSortAscending(t *testing.T) {
	a := NewArray(vi(5), vi(3), vi(1), vi(4), vi(2))
	if err := Sort(a, DefaultCompare); err != nil {
		t.Fatal(err)
	}
	want := []int64{1, 2, 3, 4, 5}
	for i, w := range want {
		v, _ := a.Get(i)
		if v != vi(w) {
			t.Fatalf("Sort result[%d] = %v, want %d", i, v, w)
		}
	}
}

func TestSortLargerRandomish(t *testing.T) {
	n := 200
	elems := make([]value.Value, n)
	for i := 0; i < n; i++ {
		elems[i] = vi(int64((i*2654435761 + 7) % 1000))
	}
	a := NewArray(elems...)
	if err := Sort(a, DefaultCompare); err != nil {
		t.Fatal(err)
	}
	for i := 1; i < n; i++ {
		prev, _ := a.Get(i - 1)
		cur, _ := a.Get(i)
		if value.Compare(prev, cur, nil) > 0 {
			t.Fatalf("not sorted at %d: %v > %v", i, prev, cur)
		}
	}
}

func TestSortPropagatesComparatorError(t *testing.T) {
	a := NewArray(vi(1), vi(2), vi(3))
	boom := func(a, b value.Value) (int, error) {
		return 0, errBoom
	}
	if err := Sort(a, boom); err == nil {
		t.Fatal("expected comparator error to propagate")
	}
}

func TestArrayConcatSliceRepeatElements(t *testing.T) {
	a := NewArray(vi(1), vi(2))
	b := NewArray(vi(3), vi(4))

	got := a.Concat(b).Elements()
	want := []value.Value{vi(1), vi(2), vi(3), vi(4)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Concat().Elements() mismatch (-want +got):\n%s", diff)
	}

	sl, err := a.Concat(b).Slice(1, 3, false)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]value.Value{vi(2), vi(3)}, sl.Elements()); diff != "" {
		t.Fatalf("Slice().Elements() mismatch (-want +got):\n%s", diff)
	}

	rep := a.Repeat(2).Elements()
	if diff := cmp.Diff([]value.Value{vi(1), vi(2), vi(1), vi(2)}, rep); diff != "" {
		t.Fatalf("Repeat().Elements() mismatch (-want +got):\n%s", diff)
	}
}

func TestTupleConcatRepeatElements(t *testing.T) {
	t1 := NewTuple(vi(1), vi(2))
	t2 := NewTuple(vi(3))

	got := t1.Concat(t2).Elements()
	want := []value.Value{vi(1), vi(2), vi(3)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Concat().Elements() mismatch (-want +got):\n%s", diff)
	}

	rep := t2.Repeat(3).Elements()
	if diff := cmp.Diff([]value.Value{vi(3), vi(3), vi(3)}, rep); diff != "" {
		t.Fatalf("Repeat().Elements() mismatch (-want +got):\n%s", diff)
	}
}
