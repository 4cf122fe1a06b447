package sets

import (
	"iter"

	gtidsets "github.com/wippyai/gtid-sets"
)

// IntervalSet is an ordered set of elements stored as maximal disjoint
// intervals in a skiplist. Insertion anywhere is cheap and iterators
// stay valid across unrelated edits, which suits incremental building,
// text decoding, and merge-heavy workloads. For dense scans over a
// settled set, see FlatIntervalSet.
//
// The zero value is not usable; construct with NewIntervalSet. Methods
// that can allocate report gtidsets.ErrOutOfMemory when the Resource
// denies a node; the failure contracts are documented per method.
type IntervalSet[E any] struct {
	tr Traits[E]
	st ListStorage[E]
}

// NewIntervalSet returns an empty set over the given traits, drawing
// node storage from res.
func NewIntervalSet[E any](tr Traits[E], res gtidsets.Resource) *IntervalSet[E] {
	return &IntervalSet[E]{tr: tr, st: newListStorage(tr, res)}
}

// Traits returns the element traits the set was built with.
func (s *IntervalSet[E]) Traits() Traits[E] { return s.tr }

// Resource returns the allocation policy the set draws from.
func (s *IntervalSet[E]) Resource() gtidsets.Resource { return s.st.alloc.Resource() }

// Empty reports whether the set has no elements.
func (s *IntervalSet[E]) Empty() bool { return s.st.nodes == 0 }

// Len returns the number of intervals.
func (s *IntervalSet[E]) Len() int { return s.st.nodes }

// BoundaryLen returns the number of interval boundaries, twice Len.
func (s *IntervalSet[E]) BoundaryLen() int { return s.st.Len() }

// Count returns the number of elements.
func (s *IntervalSet[E]) Count() uint64 {
	var n uint64
	for iv := range s.Intervals() {
		n += iv.Count(s.tr)
	}
	return n
}

// Clear removes all elements, keeping the resource.
func (s *IntervalSet[E]) Clear() { s.st.clear() }

// First returns the smallest element, if any.
func (s *IntervalSet[E]) First() (E, bool) {
	if s.Empty() {
		var zero E
		return zero, false
	}
	return s.st.Begin().Value(), true
}

// Last returns the largest element, if any.
func (s *IntervalSet[E]) Last() (E, bool) {
	if s.Empty() {
		var zero E
		return zero, false
	}
	return s.tr.Prev(s.st.End().Prev().Value()), true
}

// Contains reports whether e is in the set.
func (s *IntervalSet[E]) Contains(e E) bool {
	return storageContains(&s.st, s.st.Begin(), e)
}

// ContainsInterval reports whether every element of iv is in the set.
func (s *IntervalSet[E]) ContainsInterval(iv Interval[E]) bool {
	if !s.tr.Lt(iv.start, iv.exclusiveEnd) {
		return true
	}
	ub := s.st.UpperBound(s.st.Begin(), iv.start)
	return ub.IsEndpoint() && s.tr.Le(iv.exclusiveEnd, ub.Value())
}

// OverlapsInterval reports whether the set and iv share any element.
func (s *IntervalSet[E]) OverlapsInterval(iv Interval[E]) bool {
	if !s.tr.Lt(iv.start, iv.exclusiveEnd) {
		return false
	}
	ub := s.st.UpperBound(s.st.Begin(), iv.start)
	return ub.IsEndpoint() || (!ub.AtEnd() && s.tr.Lt(ub.Value(), iv.exclusiveEnd))
}

// Overlaps reports whether the two sets share any element.
func (s *IntervalSet[E]) Overlaps(other *IntervalSet[E]) bool {
	return storageOverlaps(&s.st, &other.st, s.st.Begin(), other.st.Begin())
}

// IsSubsetOf reports whether every element of s is in other.
func (s *IntervalSet[E]) IsSubsetOf(other *IntervalSet[E]) bool {
	return storageIsSubset(&s.st, &other.st, s.st.Begin(), other.st.Begin())
}

// IsSupersetOf reports whether every element of other is in s.
func (s *IntervalSet[E]) IsSupersetOf(other *IntervalSet[E]) bool {
	return storageIsSubset(&other.st, &s.st, other.st.Begin(), s.st.Begin())
}

// Equal reports whether both sets hold exactly the same elements.
func (s *IntervalSet[E]) Equal(other *IntervalSet[E]) bool {
	return storageEqual(s.tr, &s.st, &other.st, s.st.Begin(), other.st.Begin())
}

// Add inserts one element. It may extend an adjacent interval or merge
// two intervals separated by exactly this element. On failure the set is
// unchanged.
func (s *IntervalSet[E]) Add(e E) error {
	return s.AddInterval(Point(s.tr, e))
}

// Remove deletes one element, possibly splitting an interval in two. On
// failure the set is unchanged.
func (s *IntervalSet[E]) Remove(e E) error {
	return s.RemoveInterval(Point(s.tr, e))
}

// AddInterval unions iv into the set, merging intervals it overlaps or
// touches. An empty iv is a no-op. On failure the set is unchanged.
func (s *IntervalSet[E]) AddInterval(iv Interval[E]) error {
	if !s.tr.Lt(iv.start, iv.exclusiveEnd) {
		return nil
	}
	_, err := applyInterval(s.tr, &s.st, s.st.Begin(), true, true, iv.start, iv.exclusiveEnd, nil)
	return err
}

// RemoveInterval subtracts iv from the set, truncating intervals it
// partially covers and splitting one it falls strictly inside of. An
// empty iv is a no-op. On failure the set is unchanged.
func (s *IntervalSet[E]) RemoveInterval(iv Interval[E]) error {
	if !s.tr.Lt(iv.start, iv.exclusiveEnd) {
		return nil
	}
	_, err := applyInterval(s.tr, &s.st, s.st.Begin(), true, false, iv.start, iv.exclusiveEnd, nil)
	return err
}

// IntersectInterval removes every element outside iv. It cannot fail:
// the removed ranges reach the edges of the element domain, so no
// interval is ever split.
func (s *IntervalSet[E]) IntersectInterval(iv Interval[E]) {
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
// superset of its previous value and a subset of the union.
func (s *IntervalSet[E]) InplaceUnion(other *IntervalSet[E]) error {
	if s == other || other.Empty() {
		return nil
	}
	if s.Empty() {
		return s.appendCopy(other)
	}
	return applySetInPlace(s.tr, &s.st, &other.st, s.st.Begin(), other.st.Begin(), true, nil)
}

// InplaceSubtract removes every element of other. On failure the set
// holds a subset of its previous value and a superset of the
// difference.
func (s *IntervalSet[E]) InplaceSubtract(other *IntervalSet[E]) error {
	if other.Empty() || s.Empty() {
		return nil
	}
	if s == other {
		s.Clear()
		return nil
	}
	return applySetInPlace(s.tr, &s.st, &other.st, s.st.Begin(), other.st.Begin(), false, nil)
}

// InplaceIntersect removes every element not in other. On failure the
// set holds a subset of its previous value and a superset of the
// intersection.
func (s *IntervalSet[E]) InplaceIntersect(other *IntervalSet[E]) error {
	if s == other || s.Empty() {
		return nil
	}
	if other.Empty() {
		s.Clear()
		return nil
	}
	return intersectSetInPlace(s.tr, &s.st, &other.st, s.st.Begin(), other.st.Begin())
}

// Absorb moves every element of other into s, leaving other empty. When
// both sets share one Resource the interval nodes are spliced over
// without allocating and the transfer cannot fail; otherwise elements
// are copied and a failure may leave part of other already transferred
// and the rest still in place.
func (s *IntervalSet[E]) Absorb(other *IntervalSet[E]) error {
	if s == other || other.Empty() {
		return nil
	}
	if !s.Resource().Equal(other.Resource()) {
		if s.Empty() {
			if err := s.appendCopy(other); err != nil {
				return err
			}
		} else if err := applySetInPlace(s.tr, &s.st, &other.st, s.st.Begin(), other.st.Begin(), true, nil); err != nil {
			return err
		}
		other.Clear()
		return nil
	}
	if s.Empty() {
		s.st.spliceAll(&other.st)
		return nil
	}
	steal := func(pos ListIterator[E], v1, v2 E) ListIterator[E] {
		return s.st.stealInsert(pos, v1, v2, &other.st)
	}
	if err := applySetInPlace(s.tr, &s.st, &other.st, s.st.Begin(), other.st.Begin(), true, steal); err != nil {
		return err
	}
	other.Clear()
	return nil
}

// Clone returns an independent copy drawing from the same Resource.
func (s *IntervalSet[E]) Clone() (*IntervalSet[E], error) {
	out := NewIntervalSet(s.tr, s.Resource())
	if err := out.appendCopy(s); err != nil {
		return nil, err
	}
	return out, nil
}

// Intervals iterates the maximal intervals in ascending order. The set
// must not be modified during the iteration.
func (s *IntervalSet[E]) Intervals() iter.Seq[Interval[E]] {
	return func(yield func(Interval[E]) bool) {
		for it := s.st.Begin(); !it.AtEnd(); {
			start := it.Value()
			it = it.Next()
			exclusiveEnd := it.Value()
			it = it.Next()
			if !yield(Interval[E]{start: start, exclusiveEnd: exclusiveEnd}) {
				return
			}
		}
	}
}

// appendCopy copies other's intervals onto the end of s, which must hold
// nothing at or beyond other's first element.
func (s *IntervalSet[E]) appendCopy(other *IntervalSet[E]) error {
	cursor := s.st.End()
	for it := other.st.Begin(); !it.AtEnd(); {
		start := it.Value()
		it = it.Next()
		exclusiveEnd := it.Value()
		it = it.Next()
		var err error
		cursor, err = s.st.Insert(cursor, start, exclusiveEnd)
		if err != nil {
			return err
		}
	}
	return nil
}

// unionHinted adds [start, exclusiveEnd) through a caller-held cursor,
// validating the hint, and returns the cursor at the upper bound of
// exclusiveEnd. The text decoder uses this to keep repeated interval
// inserts near amortized constant time.
func (s *IntervalSet[E]) unionHinted(cursor ListIterator[E], start, exclusiveEnd E) (ListIterator[E], error) {
	return applyInterval(s.tr, &s.st, cursor, false, true, start, exclusiveEnd, nil)
}
