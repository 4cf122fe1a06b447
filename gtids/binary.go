package gtids

import (
	"slices"

	"github.com/wippyai/gtid-sets/conv"
	"github.com/wippyai/gtid-sets/sets"
)

// Version selects the wire layout of GTID set encodings.
type Version uint8

const (
	// Automatic encodes tagless sets as version 0 and tagged sets as
	// version 1, and decodes whichever version the input declares.
	Automatic Version = iota

	// V0Tagless is the legacy layout without tag support. Encoding a
	// tagged set with it panics; decoding clears every tag without
	// consuming input.
	V0Tagless

	// V1Tags writes each source's tag as a length-prefixed string.
	V1Tags

	// V2TagsCompact writes one tag table up front, refers to it by
	// index, and repeats no source UUID.
	V2TagsCompact
)

// wireByte is the version byte stored in set headers.
func (v Version) wireByte() uint64 { return uint64(v - V0Tagless) }

func versionFromWire(b uint64) (Version, bool) {
	if b > uint64(V2TagsCompact-V0Tagless) {
		return 0, false
	}
	return V0Tagless + Version(b), true
}

// BinaryFormat is the binary form of the GTID domain. The zero value
// carries the Automatic version policy.
type BinaryFormat struct {
	// Version pins the set layout. Decoding with a pinned version
	// rejects input declaring any other.
	Version Version
}

// Name implements conv.Format.
func (f BinaryFormat) Name() string { return "gtid-binary" }

// Parent implements conv.Format.
func (f BinaryFormat) Parent() conv.Format { return conv.Binary{} }

// ==== Tags ====

func encodeTagBinary(f BinaryFormat, t *conv.Target, tag Tag) {
	if f.Version == V0Tagless {
		if !tag.Empty() {
			panic("gtids: tag in a version 0 encoding")
		}
		return
	}
	t.WriteValue(f, tag.String())
}

func decodeTagBinary(f BinaryFormat, p *conv.Parser, tag *Tag) {
	if f.Version == V0Tagless {
		tag.Clear()
		return
	}
	var sv string
	if !p.Read(conv.In(conv.Binary{}), &sv) {
		return
	}
	if !ValidTag(sv) {
		p.SetParseError("Invalid tag")
		return
	}
	tag.assign(sv)
}

// ==== TSIDs ====

func encodeTSIDBinary(f BinaryFormat, t *conv.Target, ts TSID) {
	t.Concat(f, ts.UUID, ts.Tag)
}

func decodeTSIDBinary(f BinaryFormat, p *conv.Parser, ts *TSID) {
	if !p.Read(conv.In(f), &ts.UUID) {
		return
	}
	p.Read(conv.In(f), &ts.Tag)
}

// ==== GTIDs ====

func encodeGTIDBinary(f BinaryFormat, t *conv.Target, g GTID) {
	t.WriteValue(f, g.TSID)
	t.WriteValue(conv.Binary{}, g.SequenceNumber)
}

func decodeGTIDBinary(f BinaryFormat, p *conv.Parser, g *GTID) {
	if !p.Read(conv.In(f), &g.TSID) {
		return
	}
	n := MinSequenceNumber
	check := func() {
		if !ValidSequenceNumber(n) {
			p.SetParseError("GTID sequence number out of range")
		}
	}
	if !p.Read(conv.Options{Format: conv.Binary{}, Check: check}, &n) {
		return
	}
	g.SequenceNumber = n
}

// ==== Set headers ====

const sourceCountMask = 1<<48 - 1

// A set encoding opens with one fixed-width word. Version 0 stores
// only the source count, leaving the top two bytes zero; versions 1
// and 2 store the version byte at both ends with the count between
// them, and the two copies must agree.

func encodeSetHeader(t *conv.Target, v Version, count uint64) {
	word := count
	if v != V0Tagless {
		word = v.wireByte()<<56 | v.wireByte() | count<<8
	}
	t.WriteValue(conv.FixintBinary{}, word)
}

func decodeSetHeader(f BinaryFormat, p *conv.Parser) (Version, uint64, bool) {
	var word uint64
	var version Version
	check := func() {
		v, ok := versionFromWire(word >> 56)
		if !ok {
			p.SetParseError("Unknown (future?) GTID set format version number in GTID encoding")
			return
		}
		if v != V0Tagless && word>>56 != word&0xFF {
			p.SetParseError("Inconsistent GTID set format version numbers in GTID encoding")
			return
		}
		if f.Version != Automatic && f.Version != v {
			p.SetParseError("Disallowed GTID set format version number in GTID encoding")
			return
		}
		version = v
	}
	if !p.Read(conv.Options{Format: conv.FixintBinary{}, Check: check}, &word) {
		return 0, 0, false
	}
	count := word & sourceCountMask
	if version != V0Tagless {
		count = (word >> 8) & sourceCountMask
	}
	return version, count, true
}

// ==== Sets ====

func encodeSetBinary(f BinaryFormat, t *conv.Target, s *Set) {
	v := f.Version
	if v == Automatic {
		v = V0Tagless
		if s.HasTags() {
			v = V1Tags
		}
	}
	encodeSetHeader(t, v, uint64(s.SourceCount()))
	body := BinaryFormat{Version: v}
	if v == V2TagsCompact {
		encodeSetV2(body, t, s)
		return
	}
	for ts, iv := range s.All() {
		t.WriteValue(body, ts)
		t.WriteValue(conv.FixintBinary{}, iv)
	}
}

func encodeSetV2(f BinaryFormat, t *conv.Target, s *Set) {
	// An empty set is just its header; no bytes wasted on a tag count.
	if s.Empty() {
		return
	}

	tags := make([]Tag, 0, s.SourceCount())
	for ts := range s.All() {
		tags = append(tags, ts.Tag)
	}
	slices.SortFunc(tags, Tag.Cmp)
	tags = slices.CompactFunc(tags, func(a, b Tag) bool { return a.Cmp(b) == 0 })

	t.WriteValue(f, uint64(len(tags)))
	for _, tag := range tags {
		t.WriteValue(f, tag)
	}

	first := true
	var lastUUID UUID
	for ts, iv := range s.All() {
		newUUID := first || ts.UUID != lastUUID
		idx, _ := slices.BinarySearchFunc(tags, ts.Tag, Tag.Cmp)
		code := uint64(idx) << 1
		if newUUID {
			code |= 1
		}
		t.WriteValue(f, code)
		if newUUID {
			t.WriteValue(f, ts.UUID)
		}
		t.WriteValue(f, iv)
		lastUUID = ts.UUID
		first = false
	}
}

// decodeSetBinary reads the header, then the body in the layout the
// header declares. Parsed sources are unioned into the destination;
// it is not cleared first.
func decodeSetBinary(f BinaryFormat, p *conv.Parser, s *Set) {
	version, count, ok := decodeSetHeader(f, p)
	if !ok {
		return
	}
	if version == V2TagsCompact {
		decodeSetV2(p, s, count)
		return
	}
	body := BinaryFormat{Version: version}
	fl := p.Fluent(body)
	var ts TSID
	tmp := sets.NewIntervalSet(sequenceRange, s.Resource())
	fl.CallRepeated(conv.Exactly(int(count)), func() {
		fl.Read(&ts).
			ReadWith(conv.FixintBinary{}, tmp).
			CheckPrevToken(func() {
				if s.absorbInto(ts, tmp) != nil {
					p.SetOOM()
				}
				tmp.Clear()
			})
	})
}

func decodeSetV2(p *conv.Parser, s *Set, count uint64) {
	// Only a nonempty set carries the tag table.
	if count == 0 {
		return
	}
	var tagCount uint64
	var tags []Tag
	var ts TSID
	first := true
	tmp := sets.NewIntervalSet(sequenceRange, s.Resource())
	fl := p.Fluent(conv.Binary{})
	fl.
		Read(&tagCount).
		CallRepeated(conv.Exactly(int(tagCount)), func() {
			var tag Tag
			if !p.Read(conv.In(conv.Binary{}), &tag) {
				return
			}
			tags = append(tags, tag)
		}).
		CallRepeated(conv.Exactly(int(count)), func() {
			var code uint64
			var idx uint64
			var newUUID bool
			checkCode := func() {
				idx = code >> 1
				if idx >= uint64(len(tags)) {
					p.SetParseError("Tag index out of range")
				}
				newUUID = code&1 != 0
				if first && !newUUID {
					p.SetParseError("No UUID given for first Tsid")
					return
				}
				first = false
			}
			if !p.Read(conv.Options{Format: conv.Binary{}, Check: checkCode}, &code) {
				return
			}
			ts.Tag = tags[idx]
			if newUUID {
				if !p.Read(conv.In(conv.Binary{}), &ts.UUID) {
					return
				}
			}
			commit := func() {
				if s.absorbInto(ts, tmp) != nil {
					p.SetOOM()
				}
				tmp.Clear()
			}
			p.Read(conv.Options{Format: conv.Binary{}, Check: commit}, tmp)
		})
}
