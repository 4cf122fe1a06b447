package sets

// boundaryIterator is the read contract for storage iterators. A set is
// stored as the sorted sequence of boundaries where membership flips; an
// iterator addresses one boundary together with a flag telling whether
// the boundary is the exclusive end of an interval or the inclusive
// start of one. The constraint is self-referential so that the shared
// algorithms below instantiate per storage, with direct calls.
type boundaryIterator[E, It any] interface {
	// Next returns the iterator advanced by one boundary.
	Next() It
	// Prev returns the iterator moved back one boundary. Must not be
	// called on the first boundary. May be called on the end iterator.
	Prev() It
	// Value returns the boundary element. Must not be called at the end.
	Value() E
	// IsEndpoint reports whether the boundary ends an interval rather
	// than starting one. The end iterator reports false.
	IsEndpoint() bool
	// AtEnd reports whether the iterator is past the last boundary.
	AtEnd() bool
	// Equal reports whether both iterators address the same position.
	Equal(It) bool
}

// boundaryStorage is the contract shared by ListStorage and
// SliceStorage, as consumed by the interval engine and the predicates.
type boundaryStorage[E any, It boundaryIterator[E, It]] interface {
	Begin() It
	End() It
	// Len returns the number of boundaries, twice the interval count.
	Len() int
	// UpperBound returns the leftmost boundary at or after hint that is
	// strictly greater than e. O(1) when that is hint itself or End.
	UpperBound(hint It, e E) It
	// LowerBound returns the leftmost boundary at or after hint that is
	// greater than or equal to e. O(1) when that is hint itself or End.
	LowerBound(hint It, e E) It
	// Erase removes the boundaries in [left, right). Both ends must
	// address the same boundary kind, so the distance is even and
	// interval parity is preserved. Returns the iterator following the
	// removed range. Never allocates.
	Erase(left, right It) It
	// UpdatePoint overwrites the boundary at pos with e, which must keep
	// the strict order with both neighbors. Returns the iterator one
	// past the updated boundary. Never allocates.
	UpdatePoint(pos It, e E) It
	// Insert places the boundary pair v1 < v2 immediately before pos.
	// The caller guarantees prev(pos) < v1 and v2 < *pos. Returns an
	// iterator to the boundary pos addressed before the insertion, or
	// an allocation error leaving the storage unchanged.
	Insert(pos It, v1, v2 E) (It, error)
}

// applyInterval unions the interval [start, exclusiveEnd) into st when
// union is true, or subtracts it otherwise, reading and updating the
// cursor. The interval must be non-empty.
//
// The cursor is a position hint. When guaranteed is true the boundary
// before it must be less than start (Begin always qualifies); otherwise
// the hint is checked and reset to Begin when it lies too far right. On
// return the cursor addresses the upper bound of exclusiveEnd, which
// makes it the ideal hint for a following interval.
//
// steal, when non-nil, replaces st.Insert as the source of a fresh
// interval node and cannot fail.
//
// An allocation failure leaves the storage unmodified.
func applyInterval[E any, It boundaryIterator[E, It], S boundaryStorage[E, It]](
	tr Traits[E], st S, cursor It, guaranteed, union bool,
	start, exclusiveEnd E, steal func(pos It, v1, v2 E) It,
) (It, error) {
	if !guaranteed && !cursor.Equal(st.Begin()) && tr.Le(start, cursor.Prev().Value()) {
		cursor = st.Begin()
	}
	left := st.LowerBound(cursor, start)
	right := st.UpperBound(left, exclusiveEnd)

	// Four cases, keyed on whether each end of the interval falls inside
	// a region that survives the operation. For a union that region is
	// an existing interval extending beyond the end; for a subtraction
	// it is a gap, with the roles of intervals and gaps interchanged.
	if left.IsEndpoint() == union {
		if right.IsEndpoint() == union {
			// Both ends touch surviving regions. Everything between
			// left and right collapses into one region.
			return st.Erase(left, right), nil
		}
		// Only the left end touches one; extend it to exclusiveEnd.
		cursor = st.Erase(left.Next(), right)
		return st.UpdatePoint(cursor.Prev(), exclusiveEnd), nil
	}
	if right.IsEndpoint() == union {
		// Only the right end touches one; extend it back to start.
		cursor = st.Erase(left.Next(), right)
		return st.UpdatePoint(cursor.Prev(), start), nil
	}
	if !left.Equal(right) {
		// Neither end touches a surviving region but boundaries lie in
		// between. Reuse the first covered pair for the new interval
		// and drop the rest.
		cursor = st.Erase(left.Next().Next(), right)
		cursor = st.UpdatePoint(cursor.Prev().Prev(), start)
		return st.UpdatePoint(cursor, exclusiveEnd), nil
	}
	// The whole interval lies strictly inside one gap (or, subtracting,
	// inside one interval); a fresh boundary pair is needed.
	if steal != nil {
		return steal(left, start, exclusiveEnd), nil
	}
	return st.Insert(left, start, exclusiveEnd)
}

// applySetInPlace applies every interval of src to dst through one
// shared cursor, as unions when union is true and subtractions
// otherwise. cursor and srcPos must address the first boundary of dst
// and src. steal, when non-nil, supplies fresh nodes for insertions. A
// subtraction that runs off the end of dst stops early.
func applySetInPlace[E any, It boundaryIterator[E, It], S boundaryStorage[E, It]](
	tr Traits[E], dst, src S, cursor, srcPos It, union bool, steal func(It, E, E) It,
) error {
	it := srcPos
	for !it.AtEnd() {
		// Read and step past the interval before applying it: with
		// donation enabled the source node may be stolen by the apply.
		start := it.Value()
		it = it.Next()
		exclusiveEnd := it.Value()
		it = it.Next()
		var err error
		cursor, err = applyInterval(tr, dst, cursor, true, union, start, exclusiveEnd, steal)
		if err != nil {
			return err
		}
		if !union && cursor.AtEnd() {
			return nil
		}
	}
	return nil
}

// intersectSetInPlace intersects dst with src by subtracting the
// complement of src, gap by gap. cursor and srcPos must address the
// first boundary of dst and src. Splitting an interval of dst around a
// gap can allocate; on failure dst holds a superset of the intersection
// and a subset of its previous value.
func intersectSetInPlace[E any, It boundaryIterator[E, It], S boundaryStorage[E, It]](
	tr Traits[E], dst, src S, cursor, srcPos It,
) error {
	prev := tr.Min()
	it := srcPos
	for {
		gapEnd := tr.MaxExclusive()
		if !it.AtEnd() {
			gapEnd = it.Value()
		}
		if tr.Lt(prev, gapEnd) {
			var err error
			cursor, err = applyInterval(tr, dst, cursor, true, false, prev, gapEnd, nil)
			if err != nil {
				return err
			}
			if cursor.AtEnd() {
				return nil
			}
		}
		if it.AtEnd() {
			return nil
		}
		it = it.Next()
		prev = it.Value()
		it = it.Next()
	}
}

// storageContains reports whether e is a member: the first boundary
// greater than e is an endpoint exactly when e lies inside an interval.
// begin must address the first boundary of st.
func storageContains[E any, It boundaryIterator[E, It], S boundaryStorage[E, It]](st S, begin It, e E) bool {
	return st.UpperBound(begin, e).IsEndpoint()
}

// storageEqual reports whether both storages hold the same boundaries.
// posA and posB must address the first boundary of a and b.
func storageEqual[E any, It boundaryIterator[E, It], S boundaryStorage[E, It]](tr Traits[E], a, b S, posA, posB It) bool {
	if a.Len() != b.Len() {
		return false
	}
	itA, itB := posA, posB
	for !itA.AtEnd() {
		if tr.Cmp(itA.Value(), itB.Value()) != 0 {
			return false
		}
		itA, itB = itA.Next(), itB.Next()
	}
	return true
}

// storageIsSubset reports whether every element of a is in b. The two
// iterators leapfrog each other, so runs of intervals falling inside one
// interval of the other set are skipped in one bound search. posA and
// posB must address the first boundary of a and b.
func storageIsSubset[E any, It boundaryIterator[E, It], S boundaryStorage[E, It]](a, b S, posA, posB It) bool {
	itA, itB := posA, posB
	for !itA.AtEnd() {
		// itA is at the start of an interval of a. It must fall inside
		// an interval of b, whose end then covers a up to that point.
		itB = b.UpperBound(itB, itA.Value())
		if itB.AtEnd() || !itB.IsEndpoint() {
			return false
		}
		itA = a.UpperBound(itA, itB.Value())
		if itA.AtEnd() {
			return true
		}
		if itA.IsEndpoint() {
			// b's interval ended inside an interval of a.
			return false
		}
	}
	return true
}

// storageOverlaps reports whether the two storages share any element,
// leapfrogging the same way as storageIsSubset. posA and posB must
// address the first boundary of a and b.
func storageOverlaps[E any, It boundaryIterator[E, It], S boundaryStorage[E, It]](a, b S, posA, posB It) bool {
	itA, itB := posA, posB
	if itA.AtEnd() || itB.AtEnd() {
		return false
	}
	for {
		itB = b.UpperBound(itB, itA.Value())
		if itB.AtEnd() {
			return false
		}
		if itB.IsEndpoint() {
			return true
		}
		itA = a.UpperBound(itA, itB.Value())
		if itA.AtEnd() {
			return false
		}
		if itA.IsEndpoint() {
			return true
		}
	}
}
