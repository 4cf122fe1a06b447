package sets

// mergeOp selects the semantics of a two-set merge scan.
type mergeOp int

const (
	opUnion mergeOp = iota
	opIntersection
	opSubtraction
)

// mergeIter is a forward scan over the boundary sequence of a binary
// set operation, produced on the fly from the two source sequences.
//
// It holds one iterator per source. Treating an exhausted iterator as
// holding a value above every element, two invariants are maintained:
// the trailing iterator is its source's lower bound of the leading
// iterator's value, and the leading iterator sits on a boundary that
// belongs to the output. Whether a boundary belongs to the output
// follows from the operation, whether the two values tie, and whether
// each side is an endpoint; restoring the invariant after a step uses
// lower bound searches, so runs of covered boundaries are leapt over
// rather than visited.
type mergeIter[E any, It boundaryIterator[E, It], S boundaryStorage[E, It]] struct {
	tr   Traits[E]
	op   mergeOp
	a, b S
	posA It
	posB It
	// order is -1 when posA holds the smaller value, 1 when posB does,
	// and 0 on ties (including both sources being exhausted).
	order int
}

func newMergeIter[E any, It boundaryIterator[E, It], S boundaryStorage[E, It]](
	tr Traits[E], op mergeOp, a, b S, posA, posB It,
) mergeIter[E, It, S] {
	m := mergeIter[E, It, S]{tr: tr, op: op, a: a, b: b, posA: posA, posB: posB}
	m.advanceToBoundary()
	return m
}

func (m *mergeIter[E, It, S]) atEnd() bool {
	return m.posA.AtEnd() && m.posB.AtEnd()
}

func (m *mergeIter[E, It, S]) value() E {
	if m.order <= 0 {
		return m.posA.Value()
	}
	return m.posB.Value()
}

// next steps to the following output boundary. On a tie both source
// iterators advance.
func (m *mergeIter[E, It, S]) next() {
	if m.order <= 0 {
		m.posA = m.posA.Next()
	}
	if m.order >= 0 {
		m.posB = m.posB.Next()
	}
	m.advanceToBoundary()
}

func (m *mergeIter[E, It, S]) computeOrder() {
	switch {
	case m.posA.AtEnd():
		if m.posB.AtEnd() {
			m.order = 0
		} else {
			m.order = 1
		}
	case m.posB.AtEnd():
		m.order = -1
	default:
		m.order = m.tr.Cmp(m.posA.Value(), m.posB.Value())
	}
}

// advanceToBoundary moves forward until the iterator pair defines an
// output boundary.
func (m *mergeIter[E, It, S]) advanceToBoundary() {
	m.computeOrder()
	for {
		switch {
		case m.order < 0:
			if m.advanceLeader(m.a, &m.posA, &m.posB) {
				return
			}
		case m.order > 0:
			if m.advanceLeader(m.b, &m.posB, &m.posA) {
				return
			}
		default:
			if m.advanceTied() {
				return
			}
		}
	}
}

// advanceTied handles a tie. Reports whether the tied position is an
// output boundary; otherwise both iterators were advanced one step.
func (m *mergeIter[E, It, S]) advanceTied() bool {
	if m.tiedIsOutput() {
		return true
	}
	m.posA = m.posA.Next()
	m.posB = m.posB.Next()
	m.computeOrder()
	return false
}

func (m *mergeIter[E, It, S]) tiedIsOutput() bool {
	if m.posA.AtEnd() {
		return true
	}
	if m.op == opSubtraction {
		return m.posA.IsEndpoint() != m.posB.IsEndpoint()
	}
	return m.posA.IsEndpoint() == m.posB.IsEndpoint()
}

// advanceLeader handles the case where lead holds the strictly smaller
// value. Reports whether lead is an output boundary or the scan hit the
// end; otherwise lead was advanced to the lower bound of the trailing
// iterator's value.
func (m *mergeIter[E, It, S]) advanceLeader(leadSrc S, lead *It, trail *It) bool {
	if m.leaderIsOutput((*trail).IsEndpoint()) {
		return true
	}
	if (*trail).AtEnd() {
		*lead = leadSrc.End()
		m.order = 0
		return true
	}
	*lead = leadSrc.LowerBound(*lead, (*trail).Value())
	m.computeOrder()
	return false
}

// leaderIsOutput decides whether the strictly smaller boundary belongs
// to the output, given whether the trailing side's next boundary is an
// endpoint (that is, whether the leader is covered by an interval of
// the other source).
func (m *mergeIter[E, It, S]) leaderIsOutput(trailIsEndpoint bool) bool {
	switch m.op {
	case opUnion:
		return !trailIsEndpoint
	case opIntersection:
		return trailIsEndpoint
	default:
		// Subtraction is asymmetric: a minuend boundary survives when
		// uncovered by the subtrahend, while a subtrahend boundary cuts
		// a new edge only inside a minuend interval.
		return trailIsEndpoint == (m.order > 0)
	}
}
