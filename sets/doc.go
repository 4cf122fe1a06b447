// Package sets implements sets of discrete ordered values stored as
// sorted interval runs.
//
// A set is represented by its boundaries: the sorted sequence of points
// where membership flips. An interval [start, end) contributes two
// boundaries, start and end; end is always exclusive. Two containers
// share this representation. IntervalSet keeps boundaries in a skiplist
// and supports cheap insertion anywhere, which makes it the right choice
// for building sets incrementally or parsing them from text.
// FlatIntervalSet keeps boundaries in a sorted slice, trading insertion
// cost for contiguous iteration and compact storage.
//
// Element semantics are supplied by a Traits value: ordering, the valid
// range [Min, MaxExclusive), and successor arithmetic. Containers never
// interpret elements themselves, so the same machinery serves transaction
// sequence numbers, row ids, or plain integers.
//
// All mutating operations keep the container in normal form: intervals
// are non-empty, disjoint, non-adjacent, and sorted. Operations that
// allocate report resource denial as gtidsets.ErrOutOfMemory; a failed
// bulk operation leaves the container between its previous value and the
// correct result (a union leaves a superset of the old set and a subset
// of the union, with dual bounds for subtraction and intersection).
// Point updates and erasure never allocate, so removal and intersection
// with a single interval cannot fail.
//
// Keyed composes a second level: an ordered map from keys to non-empty
// sets, itself presented as a set of (key, element) pairs.
package sets
