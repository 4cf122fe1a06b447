package gtids

import "github.com/wippyai/gtid-sets/conv"

// TSID identifies a transaction source: a UUID plus an optional tag.
type TSID struct {
	UUID UUID
	Tag  Tag
}

// NewTSID pairs a UUID with a tag.
func NewTSID(u UUID, tag Tag) TSID { return TSID{UUID: u, Tag: tag} }

// Tagged reports whether the tag is present.
func (ts TSID) Tagged() bool { return !ts.Tag.Empty() }

// Cmp orders by UUID bytes, then by tag, untagged first.
func (ts TSID) Cmp(other TSID) int {
	if c := ts.UUID.Cmp(other.UUID); c != 0 {
		return c
	}
	return ts.Tag.Cmp(other.Tag)
}

// String returns the text form, "uuid" or "uuid:tag".
func (ts TSID) String() string { return conv.EncodeToString(conv.Text{}, ts) }

// tsidKey orders Set entries.
type tsidKey struct{}

func (tsidKey) Cmp(a, b TSID) int { return a.Cmp(b) }
