package gtids

import (
	"iter"

	gtidsets "github.com/wippyai/gtid-sets"
	"github.com/wippyai/gtid-sets/conv"
	"github.com/wippyai/gtid-sets/errors"
	"github.com/wippyai/gtid-sets/sets"
)

// Set is a GTID set: for every source, the sequence numbers seen from
// it, held as an interval set. Entries are ordered by source, and a
// source whose last sequence number is removed is dropped with it, so
// two sets holding the same GTIDs always compare equal.
//
// Construct with NewSet. All storage, key nodes and interval nodes
// alike, draws from the set's Resource.
type Set struct {
	m *sets.Keyed[TSID, *sets.IntervalSet[int64]]
}

// NewSet returns an empty set drawing storage from res.
func NewSet(res gtidsets.Resource) *Set {
	return &Set{m: sets.NewKeyed(tsidKey{}, res, func() *sets.IntervalSet[int64] {
		return sets.NewIntervalSet(sequenceRange, res)
	})}
}

// ParseSet reads a set from its text form, in the dialect selected by
// f, into a new set drawing from res.
func ParseSet(res gtidsets.Resource, f TextFormat, s string) (*Set, error) {
	set := NewSet(res)
	if r := conv.Decode(conv.In(f), s, set); !r.IsOk() {
		return nil, resultError(r)
	}
	return set, nil
}

// Resource returns the allocation policy the set draws from.
func (s *Set) Resource() gtidsets.Resource { return s.m.Resource() }

// Empty reports whether the set has no GTIDs.
func (s *Set) Empty() bool { return s.m.Empty() }

// Clear removes everything, keeping the resource.
func (s *Set) Clear() { s.m.Clear() }

// SourceCount returns the number of distinct sources.
func (s *Set) SourceCount() int { return s.m.Len() }

// Count returns the number of GTIDs.
func (s *Set) Count() uint64 { return s.m.Count() }

// Contains reports whether g is in the set.
func (s *Set) Contains(g GTID) bool {
	iv, ok := s.m.Find(g.TSID)
	return ok && iv.Contains(g.SequenceNumber)
}

// Add inserts one GTID.
func (s *Set) Add(g GTID) error {
	if !ValidSequenceNumber(g.SequenceNumber) {
		return errors.OutOfRange(errors.PhaseOperate, "sequence number", g.SequenceNumber)
	}
	return s.m.Update(g.TSID, func(iv *sets.IntervalSet[int64]) error {
		return iv.Add(g.SequenceNumber)
	})
}

// Remove deletes one GTID. Absent GTIDs are a no-op; the source is
// dropped with its last sequence number.
func (s *Set) Remove(g GTID) error {
	if !ValidSequenceNumber(g.SequenceNumber) {
		return nil
	}
	return s.m.Remove(g.TSID, func(iv *sets.IntervalSet[int64]) error {
		return iv.Remove(g.SequenceNumber)
	})
}

// AddInterval unions an interval of sequence numbers into one source.
func (s *Set) AddInterval(ts TSID, iv sets.Interval[int64]) error {
	return s.m.Update(ts, func(set *sets.IntervalSet[int64]) error {
		return set.AddInterval(iv)
	})
}

// RemoveInterval subtracts an interval of sequence numbers from one
// source.
func (s *Set) RemoveInterval(ts TSID, iv sets.Interval[int64]) error {
	return s.m.Remove(ts, func(set *sets.IntervalSet[int64]) error {
		return set.RemoveInterval(iv)
	})
}

// Find returns the live interval set of one source, if present. The
// caller must not empty it directly; mutate through the Set methods so
// emptied sources are dropped.
func (s *Set) Find(ts TSID) (*sets.IntervalSet[int64], bool) { return s.m.Find(ts) }

// All iterates the sources in ascending order with their interval
// sets. The set must not be modified during the iteration.
func (s *Set) All() iter.Seq2[TSID, *sets.IntervalSet[int64]] { return s.m.All() }

// HasTags reports whether any source is tagged.
func (s *Set) HasTags() bool {
	for ts := range s.m.All() {
		if ts.Tagged() {
			return true
		}
	}
	return false
}

// Equal reports whether both sets hold exactly the same GTIDs.
func (s *Set) Equal(other *Set) bool { return s.m.Equal(other.m) }

// IsSubsetOf reports whether every GTID of s is in other.
func (s *Set) IsSubsetOf(other *Set) bool { return s.m.IsSubsetOf(other.m) }

// IsSupersetOf reports whether every GTID of other is in s.
func (s *Set) IsSupersetOf(other *Set) bool { return other.m.IsSubsetOf(s.m) }

// Overlaps reports whether the sets share a GTID.
func (s *Set) Overlaps(other *Set) bool { return s.m.Overlaps(other.m) }

// InplaceUnion adds every GTID of other. On failure s holds a superset
// of its previous GTIDs and a subset of the union.
func (s *Set) InplaceUnion(other *Set) error { return s.m.InplaceUnion(other.m) }

// InplaceSubtract removes every GTID of other. On failure s holds a
// subset of its previous GTIDs and a superset of the difference.
func (s *Set) InplaceSubtract(other *Set) error { return s.m.InplaceSubtract(other.m) }

// InplaceIntersect keeps only the GTIDs present in both sets. On
// failure s holds a subset of its previous GTIDs and a superset of the
// intersection.
func (s *Set) InplaceIntersect(other *Set) error { return s.m.InplaceIntersect(other.m) }

// Absorb moves every GTID of other into s, leaving other empty. When
// the sets share a resource the nodes splice over without allocating,
// so the transfer cannot fail; otherwise the contents are copied with
// charges to s's resource.
func (s *Set) Absorb(other *Set) error { return s.m.Absorb(other.m) }

// Clone returns an independent copy drawing from the same resource.
func (s *Set) Clone() (*Set, error) {
	m, err := s.m.Clone()
	if err != nil {
		return nil, err
	}
	return &Set{m: m}, nil
}

// absorbInto moves the contents of src into the entry for ts, creating
// the entry if needed and leaving src empty. The decoders use it to
// commit one parsed source.
func (s *Set) absorbInto(ts TSID, src *sets.IntervalSet[int64]) error {
	return s.m.Update(ts, func(dst *sets.IntervalSet[int64]) error {
		return dst.Absorb(src)
	})
}

// String returns the text form.
func (s *Set) String() string { return conv.EncodeToString(conv.Text{}, s) }
