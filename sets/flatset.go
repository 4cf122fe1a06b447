package sets

import (
	"iter"

	gtidsets "github.com/wippyai/gtid-sets"
)

// FlatIntervalSet is an ordered set of elements stored as maximal
// disjoint intervals in one sorted slice. Lookups and scans run over
// contiguous memory and appending in order is cheap, but editing the
// middle shifts the tail, so bulk operations may rebuild the slice from
// a merged scan instead of editing in place. Use IntervalSet when the
// workload is dominated by out-of-order insertion.
//
// The zero value is not usable; construct with NewFlatIntervalSet.
type FlatIntervalSet[E any] struct {
	tr Traits[E]
	st SliceStorage[E]
}

// NewFlatIntervalSet returns an empty set over the given traits,
// drawing buffer storage from res.
func NewFlatIntervalSet[E any](tr Traits[E], res gtidsets.Resource) *FlatIntervalSet[E] {
	return &FlatIntervalSet[E]{tr: tr, st: newSliceStorage(tr, res)}
}

// Traits returns the element traits the set was built with.
func (s *FlatIntervalSet[E]) Traits() Traits[E] { return s.tr }

// Resource returns the allocation policy the set draws from.
func (s *FlatIntervalSet[E]) Resource() gtidsets.Resource { return s.st.alloc.Resource() }

// Empty reports whether the set has no elements.
func (s *FlatIntervalSet[E]) Empty() bool { return len(s.st.b) == 0 }

// Len returns the number of intervals.
func (s *FlatIntervalSet[E]) Len() int { return len(s.st.b) / 2 }

// BoundaryLen returns the number of interval boundaries, twice Len.
func (s *FlatIntervalSet[E]) BoundaryLen() int { return len(s.st.b) }

// Count returns the number of elements.
func (s *FlatIntervalSet[E]) Count() uint64 {
	var n uint64
	for iv := range s.Intervals() {
		n += iv.Count(s.tr)
	}
	return n
}

// Clear removes all elements, keeping the buffer and the resource.
func (s *FlatIntervalSet[E]) Clear() { s.st.clear() }

// First returns the smallest element, if any.
func (s *FlatIntervalSet[E]) First() (E, bool) {
	if s.Empty() {
		var zero E
		return zero, false
	}
	return s.st.b[0], true
}

// Last returns the largest element, if any.
func (s *FlatIntervalSet[E]) Last() (E, bool) {
	if s.Empty() {
		var zero E
		return zero, false
	}
	return s.tr.Prev(s.st.b[len(s.st.b)-1]), true
}

// Contains reports whether e is in the set.
func (s *FlatIntervalSet[E]) Contains(e E) bool {
	return storageContains(&s.st, s.st.Begin(), e)
}

// ContainsInterval reports whether every element of iv is in the set.
func (s *FlatIntervalSet[E]) ContainsInterval(iv Interval[E]) bool {
	if !s.tr.Lt(iv.start, iv.exclusiveEnd) {
		return true
	}
	ub := s.st.UpperBound(s.st.Begin(), iv.start)
	return ub.IsEndpoint() && s.tr.Le(iv.exclusiveEnd, ub.Value())
}

// OverlapsInterval reports whether the set and iv share any element.
func (s *FlatIntervalSet[E]) OverlapsInterval(iv Interval[E]) bool {
	if !s.tr.Lt(iv.start, iv.exclusiveEnd) {
		return false
	}
	ub := s.st.UpperBound(s.st.Begin(), iv.start)
	return ub.IsEndpoint() || (!ub.AtEnd() && s.tr.Lt(ub.Value(), iv.exclusiveEnd))
}

// Overlaps reports whether the two sets share any element.
func (s *FlatIntervalSet[E]) Overlaps(other *FlatIntervalSet[E]) bool {
	return storageOverlaps(&s.st, &other.st, s.st.Begin(), other.st.Begin())
}

// IsSubsetOf reports whether every element of s is in other.
func (s *FlatIntervalSet[E]) IsSubsetOf(other *FlatIntervalSet[E]) bool {
	return storageIsSubset(&s.st, &other.st, s.st.Begin(), other.st.Begin())
}

// IsSupersetOf reports whether every element of other is in s.
func (s *FlatIntervalSet[E]) IsSupersetOf(other *FlatIntervalSet[E]) bool {
	return storageIsSubset(&other.st, &s.st, other.st.Begin(), s.st.Begin())
}

// Equal reports whether both sets hold exactly the same elements.
func (s *FlatIntervalSet[E]) Equal(other *FlatIntervalSet[E]) bool {
	return storageEqual(s.tr, &s.st, &other.st, s.st.Begin(), other.st.Begin())
}

// Add inserts one element. On failure the set is unchanged.
func (s *FlatIntervalSet[E]) Add(e E) error {
	return s.AddInterval(Point(s.tr, e))
}

// Remove deletes one element. On failure the set is unchanged.
func (s *FlatIntervalSet[E]) Remove(e E) error {
	return s.RemoveInterval(Point(s.tr, e))
}

// AddInterval unions iv into the set, merging intervals it overlaps or
// touches. An empty iv is a no-op. On failure the set is unchanged.
func (s *FlatIntervalSet[E]) AddInterval(iv Interval[E]) error {
	if !s.tr.Lt(iv.start, iv.exclusiveEnd) {
		return nil
	}
	_, err := applyInterval(s.tr, &s.st, s.st.Begin(), true, true, iv.start, iv.exclusiveEnd, nil)
	return err
}

// RemoveInterval subtracts iv from the set. An empty iv is a no-op. On
// failure the set is unchanged.
func (s *FlatIntervalSet[E]) RemoveInterval(iv Interval[E]) error {
	if !s.tr.Lt(iv.start, iv.exclusiveEnd) {
		return nil
	}
	_, err := applyInterval(s.tr, &s.st, s.st.Begin(), true, false, iv.start, iv.exclusiveEnd, nil)
	return err
}

// IntersectInterval removes every element outside iv. It cannot fail:
// the removed ranges reach the edges of the element domain, so no
// interval is ever split.
func (s *FlatIntervalSet[E]) IntersectInterval(iv Interval[E]) {
	if s.Empty() {
		return
	}
	if !s.tr.Lt(iv.start, iv.exclusiveEnd) {
		s.Clear()
		return
	}
	if s.tr.Lt(iv.exclusiveEnd, s.tr.MaxExclusive()) {
		_, _ = applyInterval(s.tr, &s.st, s.st.Begin(), true, false, iv.exclusiveEnd, s.tr.MaxExclusive(), nil)
	}
	if s.tr.Lt(s.tr.Min(), iv.start) {
		_, _ = applyInterval(s.tr, &s.st, s.st.Begin(), true, false, s.tr.Min(), iv.start, nil)
	}
}

// InplaceUnion adds every element of other. On failure the set holds a
// superset of its previous value and a subset of the union, except on
// the rebuild path, where it is unchanged.
func (s *FlatIntervalSet[E]) InplaceUnion(other *FlatIntervalSet[E]) error {
	if s == other || other.Empty() {
		return nil
	}
	if s.Empty() {
		return s.appendCopy(other)
	}
	if s.preferFullCopy(other) {
		return s.rebuild(other, opUnion)
	}
	return applySetInPlace(s.tr, &s.st, &other.st, s.st.Begin(), other.st.Begin(), true, nil)
}

// InplaceSubtract removes every element of other. On failure the set
// holds a subset of its previous value and a superset of the
// difference, except on the rebuild path, where it is unchanged.
func (s *FlatIntervalSet[E]) InplaceSubtract(other *FlatIntervalSet[E]) error {
	if other.Empty() || s.Empty() {
		return nil
	}
	if s == other {
		s.Clear()
		return nil
	}
	if s.preferFullCopy(other) {
		return s.rebuild(other, opSubtraction)
	}
	return applySetInPlace(s.tr, &s.st, &other.st, s.st.Begin(), other.st.Begin(), false, nil)
}

// InplaceIntersect removes every element not in other. On failure the
// set holds a subset of its previous value and a superset of the
// intersection, except on the rebuild path, where it is unchanged.
func (s *FlatIntervalSet[E]) InplaceIntersect(other *FlatIntervalSet[E]) error {
	if s == other || s.Empty() {
		return nil
	}
	if other.Empty() {
		s.Clear()
		return nil
	}
	if s.preferFullCopy(other) {
		return s.rebuild(other, opIntersection)
	}
	return intersectSetInPlace(s.tr, &s.st, &other.st, s.st.Begin(), other.st.Begin())
}

// Absorb moves every element of other into s, leaving other empty. An
// empty s sharing other's Resource takes over the buffer without
// copying; otherwise the elements are copied first.
func (s *FlatIntervalSet[E]) Absorb(other *FlatIntervalSet[E]) error {
	if s == other || other.Empty() {
		return nil
	}
	if s.Empty() && s.Resource().Equal(other.Resource()) {
		s.st.b, other.st.b = other.st.b, s.st.b[:0]
		return nil
	}
	if err := s.InplaceUnion(other); err != nil {
		return err
	}
	other.Clear()
	return nil
}

// Clone returns an independent copy drawing from the same Resource.
func (s *FlatIntervalSet[E]) Clone() (*FlatIntervalSet[E], error) {
	out := NewFlatIntervalSet(s.tr, s.Resource())
	if err := out.appendCopy(s); err != nil {
		return nil, err
	}
	return out, nil
}

// Intervals iterates the maximal intervals in ascending order. The set
// must not be modified during the iteration.
func (s *FlatIntervalSet[E]) Intervals() iter.Seq[Interval[E]] {
	return func(yield func(Interval[E]) bool) {
		for i := 0; i+1 < len(s.st.b); i += 2 {
			if !yield(Interval[E]{start: s.st.b[i], exclusiveEnd: s.st.b[i+1]}) {
				return
			}
		}
	}
}

// preferFullCopy decides between repeated in-place edits and a rebuild
// from a merged scan. Editing shifts the slice tail on every middle
// insertion, which can go quadratic; the product of the worst-case
// insertion count and the expected shift length estimates that cost.
// Both sets must be non-empty.
func (s *FlatIntervalSet[E]) preferFullCopy(other *FlatIntervalSet[E]) bool {
	back := s.st.b[len(s.st.b)-1]
	maxInserted := other.st.UpperBound(other.st.Begin(), back).i
	firstMoved := s.st.UpperBound(s.st.Begin(), other.st.b[0]).i
	expectedMovedPerInsert := (len(s.st.b) - firstMoved) >> 1
	return maxInserted*expectedMovedPerInsert > len(s.st.b)
}

// rebuild replaces the contents with the result of the operation,
// produced by one merged scan over both sets. On failure the set is
// unchanged.
func (s *FlatIntervalSet[E]) rebuild(other *FlatIntervalSet[E], op mergeOp) error {
	fresh := newSliceStorage(s.tr, s.Resource())
	m := newMergeIter(s.tr, op, &s.st, &other.st, s.st.Begin(), other.st.Begin())
	for !m.atEnd() {
		if err := fresh.appendBoundary(m.value()); err != nil {
			return err
		}
		m.next()
	}
	s.st.b = fresh.b
	return nil
}

// appendCopy appends other's boundaries in one growth step. s must hold
// nothing at or beyond other's first element.
func (s *FlatIntervalSet[E]) appendCopy(other *FlatIntervalSet[E]) error {
	n := len(s.st.b)
	grown, err := s.st.alloc.Grow(s.st.b, n+len(other.st.b))
	if err != nil {
		return err
	}
	s.st.b = append(grown, other.st.b...)
	return nil
}

// unionHinted adds [start, exclusiveEnd) through a caller-held cursor,
// validating the hint, and returns the cursor at the upper bound of
// exclusiveEnd. The binary decoders use this for in-order appends.
func (s *FlatIntervalSet[E]) unionHinted(cursor SliceIterator[E], start, exclusiveEnd E) (SliceIterator[E], error) {
	return applyInterval(s.tr, &s.st, cursor, false, true, start, exclusiveEnd, nil)
}
