package sets

import (
	"cmp"

	"github.com/wippyai/gtid-sets/errors"
)

// Traits supplies the element semantics a container needs: a total
// order, the valid range [Min, MaxExclusive), and discrete successor
// arithmetic. Add and Sub convert between elements and unsigned
// distances; they are used by delta-compressed codecs and by Count.
//
// Implementations must be cheap to copy; containers store the value and
// call it on every comparison.
type Traits[E any] interface {
	Cmp(a, b E) int
	Lt(a, b E) bool
	Le(a, b E) bool
	Min() E
	MaxExclusive() E
	Next(e E) E
	Prev(e E) E
	Add(e E, d uint64) E
	Sub(a, b E) uint64
}

// KeyTraits orders the keys of a Keyed container. Keys need no range or
// successor arithmetic, only comparison.
type KeyTraits[K any] interface {
	Cmp(a, b K) int
}

// inRange reports whether e lies in [tr.Min(), tr.MaxExclusive()).
func inRange[E any](tr Traits[E], e E) bool {
	return tr.Le(tr.Min(), e) && tr.Lt(e, tr.MaxExclusive())
}

// U64Range implements Traits for uint64 elements restricted to
// [min, maxExclusive).
type U64Range struct {
	min          uint64
	maxExclusive uint64
}

// NewU64Range returns traits for uint64 elements in [min, maxExclusive).
func NewU64Range(min, maxExclusive uint64) U64Range {
	if min >= maxExclusive {
		panic("sets: empty element range")
	}
	return U64Range{min: min, maxExclusive: maxExclusive}
}

func (r U64Range) Cmp(a, b uint64) int { return cmp.Compare(a, b) }
func (r U64Range) Lt(a, b uint64) bool { return a < b }
func (r U64Range) Le(a, b uint64) bool { return a <= b }
func (r U64Range) Min() uint64 { return r.min }
func (r U64Range) MaxExclusive() uint64 { return r.maxExclusive }
func (r U64Range) Next(e uint64) uint64 { return e + 1 }
func (r U64Range) Prev(e uint64) uint64 { return e - 1 }
func (r U64Range) Add(e, d uint64) uint64 { return e + d }
func (r U64Range) Sub(a, b uint64) uint64 { return a - b }

// I64Range implements Traits for int64 elements restricted to
// [min, maxExclusive). Distances are still unsigned; Add and Sub assume
// the operands stay within the range.
type I64Range struct {
	min          int64
	maxExclusive int64
}

// NewI64Range returns traits for int64 elements in [min, maxExclusive).
func NewI64Range(min, maxExclusive int64) I64Range {
	if min >= maxExclusive {
		panic("sets: empty element range")
	}
	return I64Range{min: min, maxExclusive: maxExclusive}
}

func (r I64Range) Cmp(a, b int64) int { return cmp.Compare(a, b) }
func (r I64Range) Lt(a, b int64) bool { return a < b }
func (r I64Range) Le(a, b int64) bool { return a <= b }
func (r I64Range) Min() int64 { return r.min }
func (r I64Range) MaxExclusive() int64 { return r.maxExclusive }
func (r I64Range) Next(e int64) int64 { return e + 1 }
func (r I64Range) Prev(e int64) int64 { return e - 1 }
func (r I64Range) Add(e int64, d uint64) int64 { return e + int64(d) }
func (r I64Range) Sub(a, b int64) uint64 { return uint64(a - b) }

type orderedKey[K cmp.Ordered] struct{}

func (orderedKey[K]) Cmp(a, b K) int { return cmp.Compare(a, b) }

// OrderedKey returns KeyTraits for any naturally ordered key type.
func OrderedKey[K cmp.Ordered]() KeyTraits[K] {
	return orderedKey[K]{}
}

// Interval is a non-empty run [Start, ExclusiveEnd) of elements. The
// zero value is not a valid interval; construct through NewInterval or
// Point.
type Interval[E any] struct {
	start        E
	exclusiveEnd E
}

// NewInterval returns the interval [start, exclusiveEnd). Both
// boundaries must lie in range and start must precede exclusiveEnd.
func NewInterval[E any](tr Traits[E], start, exclusiveEnd E) (Interval[E], error) {
	if !inRange(tr, start) || tr.Lt(tr.MaxExclusive(), exclusiveEnd) {
		return Interval[E]{}, errors.OutOfRange(errors.PhaseOperate, "interval boundary", start)
	}
	if !tr.Lt(start, exclusiveEnd) {
		return Interval[E]{}, errors.InvalidInput(errors.PhaseOperate, "interval boundaries out of order")
	}
	return Interval[E]{start: start, exclusiveEnd: exclusiveEnd}, nil
}

// MustInterval is NewInterval for boundaries known to be valid. It
// panics on invalid input.
func MustInterval[E any](tr Traits[E], start, exclusiveEnd E) Interval[E] {
	iv, err := NewInterval(tr, start, exclusiveEnd)
	if err != nil {
		panic(err)
	}
	return iv
}

// Point returns the singleton interval [e, Next(e)).
func Point[E any](tr Traits[E], e E) Interval[E] {
	return Interval[E]{start: e, exclusiveEnd: tr.Next(e)}
}

// Start returns the inclusive start boundary.
func (iv Interval[E]) Start() E { return iv.start }

// ExclusiveEnd returns the exclusive end boundary.
func (iv Interval[E]) ExclusiveEnd() E { return iv.exclusiveEnd }

// Count returns the number of elements in the interval.
func (iv Interval[E]) Count(tr Traits[E]) uint64 {
	return tr.Sub(iv.exclusiveEnd, iv.start)
}

// Contains reports whether e lies in the interval.
func (iv Interval[E]) Contains(tr Traits[E], e E) bool {
	return tr.Le(iv.start, e) && tr.Lt(e, iv.exclusiveEnd)
}
