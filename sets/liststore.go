package sets

import (
	"math/rand/v2"

	gtidsets "github.com/wippyai/gtid-sets"
)

// maxLevels bounds skiplist tower height. With a branching factor of 4
// this comfortably covers billions of intervals.
const maxLevels = 16

// listNode holds one interval [start, end). The level 0 chain is doubly
// linked; higher levels are forward-only express lanes.
type listNode[E any] struct {
	start, end E
	prev       *listNode[E]
	next       []*listNode[E]
}

// ListStorage keeps boundaries in a skiplist of interval nodes ordered
// by interval end. Nodes are stable, so iterators survive unrelated
// mutations; endpoint updates rewrite the node in place, and whole nodes
// can be spliced between storages that share a Resource.
type ListStorage[E any] struct {
	tr     Traits[E]
	alloc  gtidsets.Allocator[listNode[E]]
	head   *listNode[E]
	tail   *listNode[E]
	levels int
	nodes  int
}

func newListStorage[E any](tr Traits[E], res gtidsets.Resource) ListStorage[E] {
	return ListStorage[E]{
		tr:     tr,
		alloc:  gtidsets.NewAllocator[listNode[E]](res),
		head:   &listNode[E]{next: make([]*listNode[E], maxLevels)},
		levels: 1,
	}
}

// ListIterator addresses one boundary of a ListStorage: an interval node
// plus a flag selecting its start or its end.
type ListIterator[E any] struct {
	s   *ListStorage[E]
	n   *listNode[E]
	end bool
}

// Next returns the iterator advanced by one boundary.
func (it ListIterator[E]) Next() ListIterator[E] {
	if it.end {
		return ListIterator[E]{s: it.s, n: it.n.next[0]}
	}
	return ListIterator[E]{s: it.s, n: it.n, end: true}
}

// Prev returns the iterator moved back one boundary. Must not be called
// on the first boundary.
func (it ListIterator[E]) Prev() ListIterator[E] {
	if it.end {
		return ListIterator[E]{s: it.s, n: it.n}
	}
	if it.n == nil {
		return ListIterator[E]{s: it.s, n: it.s.tail, end: true}
	}
	return ListIterator[E]{s: it.s, n: it.n.prev, end: true}
}

// Value returns the boundary element. Must not be called at the end.
func (it ListIterator[E]) Value() E {
	if it.end {
		return it.n.end
	}
	return it.n.start
}

// IsEndpoint reports whether the boundary is an interval end.
func (it ListIterator[E]) IsEndpoint() bool { return it.end }

// AtEnd reports whether the iterator is past the last boundary.
func (it ListIterator[E]) AtEnd() bool { return it.n == nil }

// Equal reports whether both iterators address the same position.
func (it ListIterator[E]) Equal(other ListIterator[E]) bool {
	return it.n == other.n && it.end == other.end
}

// Begin returns an iterator at the first boundary, equal to End when the
// storage is empty.
func (s *ListStorage[E]) Begin() ListIterator[E] {
	return ListIterator[E]{s: s, n: s.head.next[0]}
}

// End returns the past-the-last iterator.
func (s *ListStorage[E]) End() ListIterator[E] {
	return ListIterator[E]{s: s}
}

// Len returns the boundary count, twice the number of intervals.
func (s *ListStorage[E]) Len() int { return 2 * s.nodes }

// UpperBound returns the leftmost boundary at or after hint strictly
// greater than e. The hint must not be past that boundary.
func (s *ListStorage[E]) UpperBound(hint ListIterator[E], e E) ListIterator[E] {
	if hint.n == nil || s.tr.Lt(e, hint.Value()) {
		return hint
	}
	n := s.search(e, true, nil)
	if n == nil {
		return s.End()
	}
	return ListIterator[E]{s: s, n: n, end: s.tr.Le(n.start, e)}
}

// LowerBound returns the leftmost boundary at or after hint greater than
// or equal to e. The hint must not be past that boundary.
func (s *ListStorage[E]) LowerBound(hint ListIterator[E], e E) ListIterator[E] {
	if hint.n == nil || s.tr.Le(e, hint.Value()) {
		return hint
	}
	n := s.search(e, false, nil)
	if n == nil {
		return s.End()
	}
	return ListIterator[E]{s: s, n: n, end: s.tr.Lt(n.start, e)}
}

// Erase removes the boundaries in [left, right). Both iterators must
// address the same boundary kind. Never allocates.
func (s *ListStorage[E]) Erase(left, right ListIterator[E]) ListIterator[E] {
	if left.n == right.n && left.end == right.end {
		return left
	}
	if !left.end {
		// Node aligned: whole intervals disappear.
		s.unlinkRange(left.n, right.n)
		return ListIterator[E]{s: s, n: right.n}
	}
	// Both iterators sit on endpoints: the left node's start survives
	// and joins the interval holding right.
	right.n.start = left.n.start
	s.unlinkRange(left.n, right.n)
	return ListIterator[E]{s: s, n: right.n, end: true}
}

// UpdatePoint overwrites the boundary at pos with e, which must keep the
// strict order with both neighboring boundaries. Returns the iterator
// one past the updated boundary. Never allocates: an endpoint update
// rewrites the node key in place, which is safe because the new value
// stays between the neighboring node keys.
func (s *ListStorage[E]) UpdatePoint(pos ListIterator[E], e E) ListIterator[E] {
	if pos.end {
		pos.n.end = e
		return ListIterator[E]{s: s, n: pos.n.next[0]}
	}
	pos.n.start = e
	return ListIterator[E]{s: s, n: pos.n, end: true}
}

// Insert places the boundary pair v1 < v2 immediately before pos, where
// prev(pos) < v1 and v2 < *pos. At an endpoint of [a, b) this splits the
// node into [a, v1) and [v2, b). Returns pos; on allocation failure the
// storage is unchanged.
func (s *ListStorage[E]) Insert(pos ListIterator[E], v1, v2 E) (ListIterator[E], error) {
	n, err := s.alloc.New()
	if err != nil {
		return pos, err
	}
	s.place(n, pos, v1, v2)
	return pos, nil
}

// stealInsert is Insert drawing its node from the front of src instead
// of allocating. src must be a different, non-empty storage. Cannot
// fail.
func (s *ListStorage[E]) stealInsert(pos ListIterator[E], v1, v2 E, src *ListStorage[E]) ListIterator[E] {
	n := src.head.next[0]
	src.unlinkRange(n, n.next[0])
	s.place(n, pos, v1, v2)
	return pos
}

// spliceAll moves every node of src into s, which must be empty and
// share src's resource. Cannot fail.
func (s *ListStorage[E]) spliceAll(src *ListStorage[E]) {
	copy(s.head.next, src.head.next)
	s.tail = src.tail
	s.levels = src.levels
	s.nodes = src.nodes
	src.clear()
}

func (s *ListStorage[E]) clear() {
	for i := range s.head.next {
		s.head.next[i] = nil
	}
	s.tail = nil
	s.levels = 1
	s.nodes = 0
}

// place fills n with the pair (v1, v2) interpreted relative to pos and
// links it before pos.
func (s *ListStorage[E]) place(n *listNode[E], pos ListIterator[E], v1, v2 E) {
	if pos.n != nil && pos.end {
		n.start, n.end = pos.n.start, v1
		pos.n.start = v2
	} else {
		n.start, n.end = v1, v2
	}
	s.link(n)
}

// search returns the first node whose end is greater than e (upper) or
// greater than or equal to e (lower), filling update with the per-level
// predecessors when non-nil.
func (s *ListStorage[E]) search(e E, upper bool, update *[maxLevels]*listNode[E]) *listNode[E] {
	x := s.head
	for i := s.levels - 1; i >= 0; i-- {
		for {
			nxt := x.next[i]
			if nxt == nil {
				break
			}
			if upper {
				if s.tr.Lt(e, nxt.end) {
					break
				}
			} else if s.tr.Le(e, nxt.end) {
				break
			}
			x = nxt
		}
		if update != nil {
			update[i] = x
		}
	}
	return x.next[0]
}

// link inserts n into the chains. A node arriving with a tower keeps its
// height; a fresh node draws a random one.
func (s *ListStorage[E]) link(n *listNode[E]) {
	lvl := len(n.next)
	if lvl == 0 {
		lvl = randLevel()
		n.next = make([]*listNode[E], lvl)
	}
	for s.levels < lvl {
		s.levels++
	}
	var update [maxLevels]*listNode[E]
	s.search(n.end, false, &update)
	for i := 0; i < lvl; i++ {
		n.next[i] = update[i].next[i]
		update[i].next[i] = n
	}
	if update[0] == s.head {
		n.prev = nil
	} else {
		n.prev = update[0]
	}
	if nxt := n.next[0]; nxt != nil {
		nxt.prev = n
	} else {
		s.tail = n
	}
	s.nodes++
}

// unlinkRange detaches the nodes in [from, to) from every level, where
// to == nil means through the last node.
func (s *ListStorage[E]) unlinkRange(from, to *listNode[E]) {
	var update [maxLevels]*listNode[E]
	s.search(from.end, false, &update)
	for i := 0; i < s.levels; i++ {
		x := update[i].next[i]
		for x != nil && x != to && (to == nil || s.tr.Lt(x.end, to.end)) {
			x = x.next[i]
		}
		update[i].next[i] = x
	}
	removed := 0
	for n := from; n != to; n = n.next[0] {
		removed++
	}
	if to != nil {
		to.prev = from.prev
	} else {
		s.tail = from.prev
	}
	s.nodes -= removed
	for s.levels > 1 && s.head.next[s.levels-1] == nil {
		s.levels--
	}
}

func randLevel() int {
	lvl := 1
	for lvl < maxLevels && rand.Uint64()&3 == 0 {
		lvl++
	}
	return lvl
}
