package sets

import (
	"errors"
	"math"
	"testing"

	gtidsets "github.com/wippyai/gtid-sets"
)

var seqRange = NewI64Range(1, math.MaxInt64)

func ivl(start, exclusiveEnd int64) Interval[int64] {
	return MustInterval[int64](seqRange, start, exclusiveEnd)
}

// algebraSet is the method set the container tests exercise, satisfied
// by both container types.
type algebraSet[S any] interface {
	Mapped[S]
	Add(e int64) error
	Remove(e int64) error
	AddInterval(iv Interval[int64]) error
	RemoveInterval(iv Interval[int64]) error
	IntersectInterval(iv Interval[int64])
	Contains(e int64) bool
	ContainsInterval(iv Interval[int64]) bool
	OverlapsInterval(iv Interval[int64]) bool
	First() (int64, bool)
	Last() (int64, bool)
	Len() int
	String() string
}

func newListSet(res gtidsets.Resource) *IntervalSet[int64] {
	return NewIntervalSet[int64](seqRange, res)
}

func newFlatSet(res gtidsets.Resource) *FlatIntervalSet[int64] {
	return NewFlatIntervalSet[int64](seqRange, res)
}

func TestIntervalSetProgression(t *testing.T) {
	testProgression(t, newListSet)
}

func TestFlatIntervalSetProgression(t *testing.T) {
	testProgression(t, newFlatSet)
}

func testProgression[S algebraSet[S]](t *testing.T, newSet func(gtidsets.Resource) S) {
	s := newSet(gtidsets.Resource{})
	if !s.Empty() || s.String() != "" {
		t.Fatalf("new set: Empty() = %v, String() = %q", s.Empty(), s.String())
	}

	check := func(op string, err error, want string) {
		t.Helper()
		if err != nil {
			t.Fatalf("%s: %v", op, err)
		}
		if got := s.String(); got != want {
			t.Fatalf("after %s: %q, want %q", op, got, want)
		}
	}

	check("Add(1)", s.Add(1), "1")
	check("Add(2)", s.Add(2), "1-2")
	check("Add(3)", s.Add(3), "1-3")
	check("Remove(2)", s.Remove(2), "1,3")
	check("AddInterval(2, 10)", s.AddInterval(ivl(2, 10)), "1-9")
	s.IntersectInterval(ivl(3, 1000))
	check("IntersectInterval(3, 1000)", nil, "3-9")
	check("RemoveInterval(6, 8)", s.RemoveInterval(ivl(6, 8)), "3-5,8-9")

	if got := s.Count(); got != 5 {
		t.Errorf("Count() = %d, want 5", got)
	}
	if got := s.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}
	if first, ok := s.First(); !ok || first != 3 {
		t.Errorf("First() = %d, %v, want 3, true", first, ok)
	}
	if last, ok := s.Last(); !ok || last != 9 {
		t.Errorf("Last() = %d, %v, want 9, true", last, ok)
	}
	for _, tt := range []struct {
		e    int64
		want bool
	}{{2, false}, {3, true}, {5, true}, {6, false}, {7, false}, {8, true}, {9, true}, {10, false}} {
		if got := s.Contains(tt.e); got != tt.want {
			t.Errorf("Contains(%d) = %v, want %v", tt.e, got, tt.want)
		}
	}
	if !s.ContainsInterval(ivl(3, 6)) || s.ContainsInterval(ivl(3, 7)) {
		t.Error("ContainsInterval misjudged [3, 6) or [3, 7)")
	}
	if !s.OverlapsInterval(ivl(5, 8)) || s.OverlapsInterval(ivl(6, 8)) {
		t.Error("OverlapsInterval misjudged [5, 8) or [6, 8)")
	}

	s.Clear()
	if !s.Empty() || s.String() != "" {
		t.Errorf("after Clear: Empty() = %v, String() = %q", s.Empty(), s.String())
	}
	if _, ok := s.First(); ok {
		t.Error("First() found an element in an empty set")
	}
}

// Removing or intersecting away parts of an interval replaces boundary
// values in place wherever possible, so extending a run never allocates.
func TestIntervalSetAdjacentGrowthIsFree(t *testing.T) {
	s := newListSet(gtidsets.NewFailingResource(1))
	if err := s.Add(3); err != nil {
		t.Fatalf("Add(3): %v", err)
	}
	// The budget is spent; only boundary rewrites can succeed now.
	if err := s.Add(4); err != nil {
		t.Fatalf("Add(4): %v", err)
	}
	if err := s.Add(2); err != nil {
		t.Fatalf("Add(2): %v", err)
	}
	if err := s.AddInterval(ivl(1, 10)); err != nil {
		t.Fatalf("AddInterval(1, 10): %v", err)
	}
	if got := s.String(); got != "1-9" {
		t.Fatalf("String() = %q, want %q", got, "1-9")
	}
	if err := s.Add(11); !errors.Is(err, gtidsets.ErrOutOfMemory) {
		t.Fatalf("Add(11) = %v, want ErrOutOfMemory", err)
	}
	if got := s.String(); got != "1-9" {
		t.Fatalf("failed Add changed the set: %q", got)
	}
}

func TestIntervalSetAllocationCounts(t *testing.T) {
	src := newListSet(gtidsets.Resource{})
	for _, e := range []int64{2, 4} {
		if err := src.Add(e); err != nil {
			t.Fatalf("Add(%d): %v", e, err)
		}
	}

	t.Run("union charges one node per interval", func(t *testing.T) {
		dst := newListSet(gtidsets.NewFailingResource(2))
		if err := dst.InplaceUnion(src); err != nil {
			t.Fatalf("InplaceUnion: %v", err)
		}
		if got := dst.String(); got != "2,4" {
			t.Fatalf("String() = %q, want %q", got, "2,4")
		}

		short := newListSet(gtidsets.NewFailingResource(1))
		if err := short.InplaceUnion(src); !errors.Is(err, gtidsets.ErrOutOfMemory) {
			t.Fatalf("InplaceUnion = %v, want ErrOutOfMemory", err)
		}
		if got := short.String(); got != "2" {
			t.Fatalf("partial union = %q, want %q", got, "2")
		}
	})

	t.Run("intersect charges one node per split", func(t *testing.T) {
		dst := newListSet(gtidsets.NewFailingResource(2))
		if err := dst.AddInterval(ivl(1, 7)); err != nil {
			t.Fatalf("AddInterval: %v", err)
		}
		if err := dst.InplaceIntersect(src); err != nil {
			t.Fatalf("InplaceIntersect: %v", err)
		}
		if got := dst.String(); got != "2,4" {
			t.Fatalf("String() = %q, want %q", got, "2,4")
		}

		short := newListSet(gtidsets.NewFailingResource(1))
		if err := short.AddInterval(ivl(1, 7)); err != nil {
			t.Fatalf("AddInterval: %v", err)
		}
		if err := short.InplaceIntersect(src); !errors.Is(err, gtidsets.ErrOutOfMemory) {
			t.Fatalf("InplaceIntersect = %v, want ErrOutOfMemory", err)
		}
		// Between the previous value and the correct result.
		if got := short.String(); got != "2-6" {
			t.Fatalf("partial intersection = %q, want %q", got, "2-6")
		}
	})

	t.Run("subtract charges one node per split", func(t *testing.T) {
		dst := newListSet(gtidsets.NewFailingResource(3))
		if err := dst.AddInterval(ivl(1, 7)); err != nil {
			t.Fatalf("AddInterval: %v", err)
		}
		if err := dst.InplaceSubtract(src); err != nil {
			t.Fatalf("InplaceSubtract: %v", err)
		}
		if got := dst.String(); got != "1,3,5-6" {
			t.Fatalf("String() = %q, want %q", got, "1,3,5-6")
		}

		short := newListSet(gtidsets.NewFailingResource(2))
		if err := short.AddInterval(ivl(1, 7)); err != nil {
			t.Fatalf("AddInterval: %v", err)
		}
		if err := short.InplaceSubtract(src); !errors.Is(err, gtidsets.ErrOutOfMemory) {
			t.Fatalf("InplaceSubtract = %v, want ErrOutOfMemory", err)
		}
		if got := short.String(); got != "1,3-6" {
			t.Fatalf("partial subtraction = %q, want %q", got, "1,3-6")
		}
	})
}

// Absorb between containers sharing a Resource moves nodes instead of
// allocating, so it succeeds even with the budget exhausted.
func TestIntervalSetAbsorbDonatesNodes(t *testing.T) {
	res := gtidsets.NewFailingResource(3)
	a := newListSet(res)
	b := newListSet(res)
	if err := a.Add(3); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := b.Add(1); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := b.AddInterval(ivl(5, 7)); err != nil {
		t.Fatalf("AddInterval: %v", err)
	}

	if err := a.Absorb(b); err != nil {
		t.Fatalf("Absorb: %v", err)
	}
	if got := a.String(); got != "1,3,5-6" {
		t.Errorf("absorbed set = %q, want %q", got, "1,3,5-6")
	}
	if !b.Empty() {
		t.Errorf("source not drained: %q", b.String())
	}

	// An empty destination takes the whole chain at once.
	c := newListSet(res)
	if err := c.Absorb(a); err != nil {
		t.Fatalf("Absorb into empty: %v", err)
	}
	if got := c.String(); got != "1,3,5-6" {
		t.Errorf("spliced set = %q, want %q", got, "1,3,5-6")
	}
	if !a.Empty() {
		t.Errorf("splice source not drained: %q", a.String())
	}
}

func TestFlatIntervalSetAbsorbSwapsBuffers(t *testing.T) {
	a := newFlatSet(gtidsets.Resource{})
	b := newFlatSet(gtidsets.Resource{})
	if err := b.AddInterval(ivl(1, 3)); err != nil {
		t.Fatalf("AddInterval: %v", err)
	}
	if err := a.Absorb(b); err != nil {
		t.Fatalf("Absorb: %v", err)
	}
	if got := a.String(); got != "1-2" {
		t.Errorf("absorbed set = %q, want %q", got, "1-2")
	}
	if !b.Empty() {
		t.Errorf("source not drained: %q", b.String())
	}

	// Non-empty destinations fall back to a union.
	if err := b.Add(5); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := a.Absorb(b); err != nil {
		t.Fatalf("Absorb: %v", err)
	}
	if got := a.String(); got != "1-2,5" {
		t.Errorf("absorbed set = %q, want %q", got, "1-2,5")
	}
	if !b.Empty() {
		t.Errorf("source not drained: %q", b.String())
	}
}

func TestIntervalSetPredicates(t *testing.T) {
	testPredicates(t, newListSet)
}

func TestFlatIntervalSetPredicates(t *testing.T) {
	testPredicates(t, newFlatSet)
}

func testPredicates[S algebraSet[S]](t *testing.T, newSet func(gtidsets.Resource) S) {
	build := func(intervals ...Interval[int64]) S {
		t.Helper()
		s := newSet(gtidsets.Resource{})
		for _, iv := range intervals {
			if err := s.AddInterval(iv); err != nil {
				t.Fatalf("AddInterval: %v", err)
			}
		}
		return s
	}

	a := build(ivl(1, 4), ivl(6, 9))
	inner := build(ivl(2, 3))
	gap := build(ivl(4, 6))

	if !inner.IsSubsetOf(a) {
		t.Error("IsSubsetOf: {2} not within {1-3,6-8}")
	}
	if a.IsSubsetOf(inner) {
		t.Error("IsSubsetOf: {1-3,6-8} within {2}")
	}
	if !a.Overlaps(inner) {
		t.Error("Overlaps: {1-3,6-8} misses {2}")
	}
	if a.Overlaps(gap) {
		t.Error("Overlaps: {1-3,6-8} meets {4-5}")
	}
	if !build().IsSubsetOf(a) || build().Overlaps(a) {
		t.Error("empty set: must be a subset of and never overlap anything")
	}

	clone, err := a.Clone()
	if err != nil {
		t.Fatalf("Clone: %v", err)
	}
	if !clone.Equal(a) || !a.Equal(clone) {
		t.Error("Equal: clone differs from original")
	}
	if err := clone.Add(10); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if clone.Equal(a) || !a.IsSubsetOf(clone) {
		t.Error("Equal or IsSubsetOf wrong after growing the clone")
	}
}

func TestIntervalSetIntervals(t *testing.T) {
	s := newListSet(gtidsets.Resource{})
	for _, iv := range []Interval[int64]{ivl(10, 13), ivl(1, 4), ivl(6, 7)} {
		if err := s.AddInterval(iv); err != nil {
			t.Fatalf("AddInterval: %v", err)
		}
	}
	var got []Interval[int64]
	for iv := range s.Intervals() {
		got = append(got, iv)
	}
	want := []Interval[int64]{ivl(1, 4), ivl(6, 7), ivl(10, 13)}
	if len(got) != len(want) {
		t.Fatalf("Intervals() yielded %d intervals, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("interval %d = [%d, %d), want [%d, %d)", i,
				got[i].Start(), got[i].ExclusiveEnd(), want[i].Start(), want[i].ExclusiveEnd())
		}
	}
}

func TestIntervalHelpers(t *testing.T) {
	if _, err := NewInterval[int64](seqRange, 5, 5); err == nil {
		t.Error("NewInterval accepted an empty interval")
	}
	if _, err := NewInterval[int64](seqRange, 0, 4); err == nil {
		t.Error("NewInterval accepted a start below the minimum")
	}
	iv := Point[int64](seqRange, 7)
	if iv.Start() != 7 || iv.ExclusiveEnd() != 8 || iv.Count(seqRange) != 1 {
		t.Errorf("Point(7) = [%d, %d)", iv.Start(), iv.ExclusiveEnd())
	}
	if !iv.Contains(seqRange, 7) || iv.Contains(seqRange, 8) {
		t.Error("Point(7) containment wrong")
	}
}
