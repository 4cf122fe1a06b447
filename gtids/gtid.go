package gtids

import (
	"math"

	"github.com/wippyai/gtid-sets/conv"
	"github.com/wippyai/gtid-sets/errors"
	"github.com/wippyai/gtid-sets/sets"
)

// Sequence numbers are strictly positive, and the largest usable value
// leaves room for the exclusive end boundary of an interval.
const (
	MinSequenceNumber int64 = 1
	MaxSequenceNumber int64 = math.MaxInt64 - 1
)

// sequenceRange bounds the interval boundaries of per-source sets.
var sequenceRange = sets.NewI64Range(MinSequenceNumber, math.MaxInt64)

// ValidSequenceNumber reports whether n can appear in a GTID.
func ValidSequenceNumber(n int64) bool {
	return n >= MinSequenceNumber && n <= MaxSequenceNumber
}

// GTID is one global transaction identifier: a source and a sequence
// number within it.
type GTID struct {
	TSID           TSID
	SequenceNumber int64
}

// NewGTID pairs a source with a sequence number.
func NewGTID(ts TSID, n int64) (GTID, error) {
	if !ValidSequenceNumber(n) {
		return GTID{}, errors.OutOfRange(errors.PhaseOperate, "sequence number", n)
	}
	return GTID{TSID: ts, SequenceNumber: n}, nil
}

// ParseGTID reads "uuid:n" or "uuid:tag:n" from its text form.
func ParseGTID(s string) (GTID, error) {
	var g GTID
	if r := conv.Decode(conv.In(conv.Text{}), s, &g); !r.IsOk() {
		return GTID{}, resultError(r)
	}
	return g, nil
}

// String returns the text form.
func (g GTID) String() string { return conv.EncodeToString(conv.Text{}, g) }
