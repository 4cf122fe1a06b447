package sets

import (
	"iter"

	gtidsets "github.com/wippyai/gtid-sets"
)

// Mapped is the contract a set type must satisfy to serve as the value
// of a Keyed container. S is the set's own pointer type.
type Mapped[S any] interface {
	Empty() bool
	Clear()
	Count() uint64
	Equal(S) bool
	IsSubsetOf(S) bool
	Overlaps(S) bool
	Clone() (S, error)
	InplaceUnion(S) error
	InplaceSubtract(S) error
	InplaceIntersect(S) error
	Absorb(S) error
}

// keyedNode is one key with its mapped set, in a skiplist ordered by
// key.
type keyedNode[K any, S any] struct {
	key  K
	set  S
	next []*keyedNode[K, S]
}

// Keyed is an ordered map from keys to non-empty sets, treated as one
// set of (key, element) pairs. Set operations distribute over matching
// keys; a mapped set that becomes empty is removed with its key, so two
// Keyed values holding the same pairs always compare equal.
//
// Construct with NewKeyed. The factory supplies fresh mapped sets; it
// decides which Resource they draw from.
type Keyed[K any, S Mapped[S]] struct {
	kt     KeyTraits[K]
	alloc  gtidsets.Allocator[keyedNode[K, S]]
	newSet func() S
	head   *keyedNode[K, S]
	levels int
	count  int
}

// NewKeyed returns an empty container ordered by kt, drawing node
// storage from res and mapped sets from newSet.
func NewKeyed[K any, S Mapped[S]](kt KeyTraits[K], res gtidsets.Resource, newSet func() S) *Keyed[K, S] {
	return &Keyed[K, S]{
		kt:     kt,
		alloc:  gtidsets.NewAllocator[keyedNode[K, S]](res),
		newSet: newSet,
		head:   &keyedNode[K, S]{next: make([]*keyedNode[K, S], maxLevels)},
		levels: 1,
	}
}

// Resource returns the allocation policy for key nodes.
func (m *Keyed[K, S]) Resource() gtidsets.Resource { return m.alloc.Resource() }

// Empty reports whether no keys are present.
func (m *Keyed[K, S]) Empty() bool { return m.count == 0 }

// Len returns the number of keys.
func (m *Keyed[K, S]) Len() int { return m.count }

// Count returns the total number of elements across all keys.
func (m *Keyed[K, S]) Count() uint64 {
	var n uint64
	for node := m.head.next[0]; node != nil; node = node.next[0] {
		n += node.set.Count()
	}
	return n
}

// Clear removes every key.
func (m *Keyed[K, S]) Clear() {
	for i := range m.head.next {
		m.head.next[i] = nil
	}
	m.levels = 1
	m.count = 0
}

// Find returns the set mapped to key, if present. The returned set must
// not be emptied by the caller; use Update or Remove for mutations.
func (m *Keyed[K, S]) Find(key K) (S, bool) {
	if n := m.lookup(key); n != nil {
		return n.set, true
	}
	var zero S
	return zero, false
}

// All iterates the (key, set) pairs in ascending key order. The
// container must not be modified during the iteration.
func (m *Keyed[K, S]) All() iter.Seq2[K, S] {
	return func(yield func(K, S) bool) {
		for n := m.head.next[0]; n != nil; n = n.next[0] {
			if !yield(n.key, n.set) {
				return
			}
		}
	}
}

// Update applies fn to the set mapped to key, creating the mapping if
// absent. An existing key is dropped when its set is empty afterwards;
// a fresh key is retained only when fn succeeds and leaves the set
// non-empty. Returns fn's error, or an allocation error.
func (m *Keyed[K, S]) Update(key K, fn func(S) error) error {
	if n := m.lookup(key); n != nil {
		err := fn(n.set)
		if n.set.Empty() {
			m.eraseNode(n)
		}
		return err
	}
	set := m.newSet()
	err := fn(set)
	if err != nil || set.Empty() {
		return err
	}
	if _, insErr := m.insertNode(key, set); insErr != nil {
		return insErr
	}
	return nil
}

// Remove applies fn to the set mapped to key, dropping the key if the
// set is empty afterwards. A missing key is a no-op.
func (m *Keyed[K, S]) Remove(key K, fn func(S) error) error {
	n := m.lookup(key)
	if n == nil {
		return nil
	}
	err := fn(n.set)
	if n.set.Empty() {
		m.eraseNode(n)
	}
	return err
}

// RemoveKey drops key and its whole set. A missing key is a no-op.
func (m *Keyed[K, S]) RemoveKey(key K) {
	if n := m.lookup(key); n != nil {
		m.eraseNode(n)
	}
}

// RetainKey drops every key except the given one. Never allocates.
func (m *Keyed[K, S]) RetainKey(key K) {
	n := m.lookup(key)
	if n == nil {
		m.Clear()
		return
	}
	if first := m.head.next[0]; first != n {
		m.unlinkRange(first, n)
	}
	if rest := n.next[0]; rest != nil {
		m.unlinkRange(rest, nil)
	}
}

// InplaceUnion adds every pair of other. On failure the container holds
// a superset of its previous pairs and a subset of the union.
func (m *Keyed[K, S]) InplaceUnion(other *Keyed[K, S]) error {
	if m == other || other.Empty() {
		return nil
	}
	for n := other.head.next[0]; n != nil; n = n.next[0] {
		if mine := m.lookup(n.key); mine != nil {
			if err := mine.set.InplaceUnion(n.set); err != nil {
				return err
			}
			continue
		}
		set := m.newSet()
		if err := set.InplaceUnion(n.set); err != nil {
			return err
		}
		if _, err := m.insertNode(n.key, set); err != nil {
			return err
		}
	}
	return nil
}

// InplaceSubtract removes every pair of other. On failure the container
// holds a subset of its previous pairs and a superset of the
// difference.
func (m *Keyed[K, S]) InplaceSubtract(other *Keyed[K, S]) error {
	if other.Empty() || m.Empty() {
		return nil
	}
	if m == other {
		m.Clear()
		return nil
	}
	mine, theirs := m.head.next[0], other.head.next[0]
	for mine != nil && theirs != nil {
		switch c := m.kt.Cmp(mine.key, theirs.key); {
		case c < 0:
			mine = mine.next[0]
		case c > 0:
			theirs = theirs.next[0]
		default:
			next := mine.next[0]
			err := mine.set.InplaceSubtract(theirs.set)
			if mine.set.Empty() {
				m.eraseNode(mine)
			}
			if err != nil {
				return err
			}
			mine, theirs = next, theirs.next[0]
		}
	}
	return nil
}

// InplaceIntersect keeps only elements present under the same key in
// other. On failure the container holds a subset of its previous pairs
// and a superset of the intersection.
func (m *Keyed[K, S]) InplaceIntersect(other *Keyed[K, S]) error {
	if m == other || m.Empty() {
		return nil
	}
	if other.Empty() {
		m.Clear()
		return nil
	}
	mine, theirs := m.head.next[0], other.head.next[0]
	for mine != nil {
		next := mine.next[0]
		for theirs != nil && m.kt.Cmp(theirs.key, mine.key) < 0 {
			theirs = theirs.next[0]
		}
		if theirs == nil || m.kt.Cmp(theirs.key, mine.key) != 0 {
			m.eraseNode(mine)
			mine = next
			continue
		}
		err := mine.set.InplaceIntersect(theirs.set)
		if mine.set.Empty() {
			m.eraseNode(mine)
		}
		if err != nil {
			return err
		}
		mine = next
	}
	return nil
}

// Absorb moves every pair of other into m, leaving other empty. When
// both containers share one Resource, whole nodes are spliced for keys
// absent from m and the mapped sets absorb recursively, so matching
// resources all the way down make the transfer infallible.
func (m *Keyed[K, S]) Absorb(other *Keyed[K, S]) error {
	if m == other || other.Empty() {
		return nil
	}
	if !m.Resource().Equal(other.Resource()) {
		if err := m.InplaceUnion(other); err != nil {
			return err
		}
		other.Clear()
		return nil
	}
	if m.Empty() {
		m.spliceAll(other)
		return nil
	}
	n := other.head.next[0]
	for n != nil {
		next := n.next[0]
		if mine := m.lookup(n.key); mine != nil {
			if err := mine.set.Absorb(n.set); err != nil {
				return err
			}
		} else {
			other.unlinkRange(n, next)
			m.linkNode(n)
		}
		n = next
	}
	other.Clear()
	return nil
}

// Equal reports whether both containers hold exactly the same pairs.
func (m *Keyed[K, S]) Equal(other *Keyed[K, S]) bool {
	if m.count != other.count {
		return false
	}
	mine, theirs := m.head.next[0], other.head.next[0]
	for mine != nil {
		if m.kt.Cmp(mine.key, theirs.key) != 0 || !mine.set.Equal(theirs.set) {
			return false
		}
		mine, theirs = mine.next[0], theirs.next[0]
	}
	return true
}

// IsSubsetOf reports whether every pair of m is present in other.
func (m *Keyed[K, S]) IsSubsetOf(other *Keyed[K, S]) bool {
	mine, theirs := m.head.next[0], other.head.next[0]
	for mine != nil {
		for theirs != nil && m.kt.Cmp(theirs.key, mine.key) < 0 {
			theirs = theirs.next[0]
		}
		if theirs == nil || m.kt.Cmp(theirs.key, mine.key) != 0 {
			return false
		}
		if !mine.set.IsSubsetOf(theirs.set) {
			return false
		}
		mine, theirs = mine.next[0], theirs.next[0]
	}
	return true
}

// Overlaps reports whether the two containers share any pair.
func (m *Keyed[K, S]) Overlaps(other *Keyed[K, S]) bool {
	mine, theirs := m.head.next[0], other.head.next[0]
	for mine != nil && theirs != nil {
		switch c := m.kt.Cmp(mine.key, theirs.key); {
		case c < 0:
			mine = mine.next[0]
		case c > 0:
			theirs = theirs.next[0]
		default:
			if mine.set.Overlaps(theirs.set) {
				return true
			}
			mine, theirs = mine.next[0], theirs.next[0]
		}
	}
	return false
}

// Clone returns an independent copy. Mapped sets are cloned through
// their own resources.
func (m *Keyed[K, S]) Clone() (*Keyed[K, S], error) {
	out := NewKeyed(m.kt, m.Resource(), m.newSet)
	for n := m.head.next[0]; n != nil; n = n.next[0] {
		set, err := n.set.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := out.insertNode(n.key, set); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (m *Keyed[K, S]) lookup(key K) *keyedNode[K, S] {
	x := m.head
	for i := m.levels - 1; i >= 0; i-- {
		for x.next[i] != nil && m.kt.Cmp(x.next[i].key, key) < 0 {
			x = x.next[i]
		}
	}
	if n := x.next[0]; n != nil && m.kt.Cmp(n.key, key) == 0 {
		return n
	}
	return nil
}

func (m *Keyed[K, S]) insertNode(key K, set S) (*keyedNode[K, S], error) {
	n, err := m.alloc.New()
	if err != nil {
		return nil, err
	}
	n.key = key
	n.set = set
	m.linkNode(n)
	return n, nil
}

// linkNode inserts n by its key. A node arriving with a tower keeps its
// height; a fresh node draws a random one.
func (m *Keyed[K, S]) linkNode(n *keyedNode[K, S]) {
	lvl := len(n.next)
	if lvl == 0 {
		lvl = randLevel()
		n.next = make([]*keyedNode[K, S], lvl)
	}
	for m.levels < lvl {
		m.levels++
	}
	var update [maxLevels]*keyedNode[K, S]
	x := m.head
	for i := m.levels - 1; i >= 0; i-- {
		for x.next[i] != nil && m.kt.Cmp(x.next[i].key, n.key) < 0 {
			x = x.next[i]
		}
		update[i] = x
	}
	for i := 0; i < lvl; i++ {
		n.next[i] = update[i].next[i]
		update[i].next[i] = n
	}
	m.count++
}

func (m *Keyed[K, S]) eraseNode(n *keyedNode[K, S]) {
	m.unlinkRange(n, n.next[0])
}

// unlinkRange detaches the nodes in [from, to) from every level, where
// to == nil means through the last node.
func (m *Keyed[K, S]) unlinkRange(from, to *keyedNode[K, S]) {
	var update [maxLevels]*keyedNode[K, S]
	x := m.head
	for i := m.levels - 1; i >= 0; i-- {
		for x.next[i] != nil && m.kt.Cmp(x.next[i].key, from.key) < 0 {
			x = x.next[i]
		}
		update[i] = x
	}
	for i := 0; i < m.levels; i++ {
		nxt := update[i].next[i]
		for nxt != nil && nxt != to && (to == nil || m.kt.Cmp(nxt.key, to.key) < 0) {
			nxt = nxt.next[i]
		}
		update[i].next[i] = nxt
	}
	removed := 0
	for n := from; n != to; n = n.next[0] {
		removed++
	}
	m.count -= removed
	for m.levels > 1 && m.head.next[m.levels-1] == nil {
		m.levels--
	}
}

// spliceAll moves every node of other into m, which must be empty and
// share other's resource.
func (m *Keyed[K, S]) spliceAll(other *Keyed[K, S]) {
	copy(m.head.next, other.head.next)
	m.levels = other.levels
	m.count = other.count
	other.Clear()
}
