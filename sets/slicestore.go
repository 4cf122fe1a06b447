package sets

import (
	"sort"

	gtidsets "github.com/wippyai/gtid-sets"
)

// SliceStorage keeps the boundary sequence in one sorted slice. Lookups
// are binary searches over contiguous memory and appending is cheap, but
// inserting or erasing in the middle shifts the tail, so bulk operations
// on this storage prefer rebuilding over repeated edits.
type SliceStorage[E any] struct {
	tr    Traits[E]
	alloc gtidsets.Allocator[E]
	b     []E
}

func newSliceStorage[E any](tr Traits[E], res gtidsets.Resource) SliceStorage[E] {
	return SliceStorage[E]{tr: tr, alloc: gtidsets.NewAllocator[E](res)}
}

// SliceIterator addresses one boundary of a SliceStorage by index. Odd
// indexes are interval ends; the length is always even, so the end
// iterator reports itself as a start.
type SliceIterator[E any] struct {
	s *SliceStorage[E]
	i int
}

// Next returns the iterator advanced by one boundary.
func (it SliceIterator[E]) Next() SliceIterator[E] { return SliceIterator[E]{s: it.s, i: it.i + 1} }

// Prev returns the iterator moved back one boundary. Must not be called
// on the first boundary.
func (it SliceIterator[E]) Prev() SliceIterator[E] { return SliceIterator[E]{s: it.s, i: it.i - 1} }

// Value returns the boundary element. Must not be called at the end.
func (it SliceIterator[E]) Value() E { return it.s.b[it.i] }

// IsEndpoint reports whether the boundary is an interval end.
func (it SliceIterator[E]) IsEndpoint() bool { return it.i&1 == 1 }

// AtEnd reports whether the iterator is past the last boundary.
func (it SliceIterator[E]) AtEnd() bool { return it.i >= len(it.s.b) }

// Equal reports whether both iterators address the same position.
func (it SliceIterator[E]) Equal(other SliceIterator[E]) bool { return it.i == other.i }

// Begin returns an iterator at the first boundary, equal to End when the
// storage is empty.
func (s *SliceStorage[E]) Begin() SliceIterator[E] { return SliceIterator[E]{s: s} }

// End returns the past-the-last iterator.
func (s *SliceStorage[E]) End() SliceIterator[E] { return SliceIterator[E]{s: s, i: len(s.b)} }

// Len returns the boundary count, twice the number of intervals.
func (s *SliceStorage[E]) Len() int { return len(s.b) }

// UpperBound returns the leftmost boundary at or after hint strictly
// greater than e. The hint must not be past that boundary.
func (s *SliceStorage[E]) UpperBound(hint SliceIterator[E], e E) SliceIterator[E] {
	if hint.i >= len(s.b) || s.tr.Lt(e, s.b[hint.i]) {
		return hint
	}
	rest := s.b[hint.i:]
	j := sort.Search(len(rest), func(k int) bool { return s.tr.Lt(e, rest[k]) })
	return SliceIterator[E]{s: s, i: hint.i + j}
}

// LowerBound returns the leftmost boundary at or after hint greater than
// or equal to e. The hint must not be past that boundary.
func (s *SliceStorage[E]) LowerBound(hint SliceIterator[E], e E) SliceIterator[E] {
	if hint.i >= len(s.b) || s.tr.Le(e, s.b[hint.i]) {
		return hint
	}
	rest := s.b[hint.i:]
	j := sort.Search(len(rest), func(k int) bool { return s.tr.Le(e, rest[k]) })
	return SliceIterator[E]{s: s, i: hint.i + j}
}

// Erase removes the boundaries in [left, right). Both iterators must
// address the same boundary kind. Never allocates.
func (s *SliceStorage[E]) Erase(left, right SliceIterator[E]) SliceIterator[E] {
	s.b = append(s.b[:left.i], s.b[right.i:]...)
	return SliceIterator[E]{s: s, i: left.i}
}

// UpdatePoint overwrites the boundary at pos with e, which must keep the
// strict order with both neighboring boundaries. Returns the iterator
// one past the updated boundary. Never allocates.
func (s *SliceStorage[E]) UpdatePoint(pos SliceIterator[E], e E) SliceIterator[E] {
	s.b[pos.i] = e
	return SliceIterator[E]{s: s, i: pos.i + 1}
}

// Insert places the boundary pair v1 < v2 at pos, where prev(pos) < v1
// and v2 < *pos, shifting the tail up. Returns the iterator one past the
// inserted pair; on allocation failure the storage is unchanged.
func (s *SliceStorage[E]) Insert(pos SliceIterator[E], v1, v2 E) (SliceIterator[E], error) {
	n := len(s.b)
	grown, err := s.alloc.Grow(s.b, n+2)
	if err != nil {
		return pos, err
	}
	s.b = grown[:n+2]
	copy(s.b[pos.i+2:], s.b[pos.i:n])
	s.b[pos.i] = v1
	s.b[pos.i+1] = v2
	return SliceIterator[E]{s: s, i: pos.i + 2}, nil
}

// appendBoundary pushes one boundary, used when rebuilding from a merged
// scan.
func (s *SliceStorage[E]) appendBoundary(e E) error {
	grown, err := s.alloc.Grow(s.b, len(s.b)+1)
	if err != nil {
		return err
	}
	s.b = append(grown, e)
	return nil
}

func (s *SliceStorage[E]) clear() { s.b = s.b[:0] }
