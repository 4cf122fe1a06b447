package gtids

import (
	"github.com/wippyai/gtid-sets/conv"
	"github.com/wippyai/gtid-sets/sets"
)

// Text form separators. Sources are joined by "," on input and ",\n"
// on output; the UUID, tag and numbers within a source by ":".
const (
	sourceSeparator       = ","
	sourceSeparatorOutput = ",\n"
	itemSeparator         = ":"
)

// TextFormat is the text form of the GTID domain. Interval sets within
// it separate intervals with ":", reject an empty contribution, and
// whitespace is skipped around every token.
//
// The zero value parses the classic tagless dialect: each source is a
// UUID followed by ":"-separated intervals. With Tags set, a source
// may carry tags ("uuid:tag:1-5:7"), and further tag groups after the
// intervals reuse the source UUID. Encoding is the same either way and
// writes tags whenever present.
type TextFormat struct {
	// Tags enables the tagged grammar when parsing.
	Tags bool
}

// Name implements conv.Format.
func (f TextFormat) Name() string { return "gtid-text" }

// Parent implements conv.Format. Interval sets and numbers fall back
// to the set text form with this domain's separators.
func (f TextFormat) Parent() conv.Format {
	return sets.SetText{
		IntervalSeparator: itemSeparator,
		StrictSeparators:  true,
		RequireNonEmpty:   true,
	}
}

// BeforeToken implements conv.TokenHooks.
func (f TextFormat) BeforeToken(p *conv.Parser) { conv.SkipWhitespace(p) }

// AfterToken implements conv.TokenHooks.
func (f TextFormat) AfterToken(p *conv.Parser) { conv.SkipWhitespace(p) }

// ==== Tags ====

func encodeTagText(f TextFormat, t *conv.Target, tag Tag) {
	t.WriteValue(f, tag.String())
}

func decodeTagText(p *conv.Parser, tag *Tag) {
	n, ok := tagPrefixLen(p.Rest())
	if !ok || n == 0 {
		p.SetParseError("Invalid tag format")
		return
	}
	var sv string
	if !p.Read(conv.In(conv.FixstrBinary{Size: n}), &sv) {
		return
	}
	tag.assign(sv)
}

// ==== TSIDs ====

func encodeTSIDText(f TextFormat, t *conv.Target, ts TSID) {
	t.WriteValue(f, ts.UUID)
	if ts.Tagged() {
		t.Concat(f, itemSeparator, ts.Tag)
	}
}

func decodeTSIDText(f TextFormat, p *conv.Parser, ts *TSID) {
	ts.Tag.Clear()
	p.Fluent(f).
		Read(&ts.UUID).
		EndOptional().
		Literal(itemSeparator).
		Read(&ts.Tag)
}

// ==== GTIDs ====

func encodeGTIDText(f TextFormat, t *conv.Target, g GTID) {
	t.Concat(f, g.TSID, itemSeparator, g.SequenceNumber)
}

func decodeGTIDText(f TextFormat, p *conv.Parser, g *GTID) {
	n := MinSequenceNumber
	p.Fluent(f).
		Read(&g.TSID).
		Literal(itemSeparator).
		Read(&n).
		CheckPrevToken(func() {
			if !ValidSequenceNumber(n) {
				p.SetParseError("GTID sequence number out of range")
				return
			}
			g.SequenceNumber = n
		})
}

// ==== Sets ====

// encodeSetText writes sources in order, printing each UUID once and
// letting consecutive tagged sources reuse it.
func encodeSetText(f TextFormat, t *conv.Target, s *Set) {
	first := true
	var lastUUID UUID
	for ts, iv := range s.All() {
		if first || ts.UUID != lastUUID {
			if !first {
				t.WriteRaw(sourceSeparatorOutput)
			}
			t.WriteValue(f, ts.UUID)
		}
		if ts.Tagged() {
			t.WriteRaw(itemSeparator)
			t.WriteValue(f, ts.Tag)
		}
		t.WriteRaw(itemSeparator)
		t.WriteValue(f, iv)
		lastUUID = ts.UUID
		first = false
	}
}

// decodeSetText parses `","* (SOURCE (","+ SOURCE)*)? ","*` where
// SOURCE is `UUID ((":" TAG)* ":" INTERVAL_SET)*`, the tag list only
// with the tagged dialect. Each interval set is committed as soon as
// it parses, so the destination accumulates; it is not cleared first.
// A trailing tag group without intervals is consumed and contributes
// nothing.
func decodeSetText(f TextFormat, p *conv.Parser, s *Set) {
	fl := p.Fluent(f)
	var ts TSID
	tmp := sets.NewIntervalSet(sequenceRange, s.Resource())

	sep := func() { fl.Literal(itemSeparator) }

	intervals := func() {
		fl.Read(tmp).
			CheckPrevToken(func() {
				if s.absorbInto(ts, tmp) != nil {
					p.SetOOM()
				}
				tmp.Clear()
			})
	}

	tagGroup := func() {
		if f.Tags {
			fl.CallRepeated(conv.Any(), func() {
				fl.Call(sep).Read(&ts.Tag)
			})
		}
		fl.EndOptional().
			Call(sep).
			Call(intervals)
	}

	source := func() {
		fl.Read(&ts.UUID).
			EndOptional().
			Call(func() { ts.Tag.Clear() }).
			CallRepeated(conv.Any(), tagGroup)
	}

	conv.SkipWhitespace(p)
	fl.CallRepeatedWithSeparators(conv.Any(), source, sourceSeparator, conv.Separators{
		AllowRepeated: true,
		Leading:       conv.SeparatorOptional,
		Trailing:      conv.SeparatorOptional,
	})
}
