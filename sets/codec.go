package sets

import "github.com/wippyai/gtid-sets/conv"

// This file binds the containers to the conv framework: the text and
// binary set formats, the interval grammar, and the ConvEncode /
// ConvDecode implementations on the container types.

// SetText is the text form of an interval set: intervals separated by
// the interval separator, each written as "start" for a single element
// or "start<boundary separator>inclusive end" otherwise. Contrary to
// every other place in this package, the text form carries the
// inclusive end boundary.
//
// The zero value is the canonical form: "-" between boundaries, ","
// between intervals, leading, trailing and repeated separators
// accepted, the empty string accepted as the empty set, and whitespace
// skipped around every token.
type SetText struct {
	// BoundarySeparator separates the two boundaries of an interval.
	// Empty means "-".
	BoundarySeparator string

	// IntervalSeparator separates adjacent intervals. Empty means ",".
	IntervalSeparator string

	// StrictSeparators forbids leading, trailing and repeated interval
	// separators when parsing.
	StrictSeparators bool

	// RequireNonEmpty rejects input containing no intervals.
	RequireNonEmpty bool

	// PreserveWhitespace keeps whitespace significant instead of
	// skipping it around every token.
	PreserveWhitespace bool
}

// Name implements conv.Format.
func (f SetText) Name() string { return "set-text" }

// Parent implements conv.Format. Boundary values fall back to the
// plain text codec.
func (f SetText) Parent() conv.Format { return conv.Text{} }

// BeforeToken implements conv.TokenHooks.
func (f SetText) BeforeToken(p *conv.Parser) {
	if !f.PreserveWhitespace {
		conv.SkipWhitespace(p)
	}
}

// AfterToken implements conv.TokenHooks.
func (f SetText) AfterToken(p *conv.Parser) {
	if !f.PreserveWhitespace {
		conv.SkipWhitespace(p)
	}
}

func (f SetText) boundarySeparator() string {
	if f.BoundarySeparator == "" {
		return "-"
	}
	return f.BoundarySeparator
}

func (f SetText) intervalSeparator() string {
	if f.IntervalSeparator == "" {
		return ","
	}
	return f.IntervalSeparator
}

// KeyedText is the text form of a Keyed container: "key<key
// separator>set" items joined by the item separator. It is encode
// only; keyed grammars differ too much across domains for one parser,
// so parsing belongs to the packages that define the key types.
type KeyedText struct {
	// KeyFormat writes the keys. nil means Text.
	KeyFormat conv.Format

	// MappedFormat writes the mapped sets. nil means Text.
	MappedFormat conv.Format

	// KeySeparator stands between a key and its set. Empty means ":".
	KeySeparator string

	// ItemSeparator stands between items. Empty means ",".
	ItemSeparator string
}

// Name implements conv.Format.
func (f KeyedText) Name() string { return "keyed-text" }

// Parent implements conv.Format.
func (f KeyedText) Parent() conv.Format { return conv.Text{} }

func (f KeyedText) keyFormat() conv.Format {
	if f.KeyFormat == nil {
		return conv.Text{}
	}
	return f.KeyFormat
}

func (f KeyedText) mappedFormat() conv.Format {
	if f.MappedFormat == nil {
		return conv.Text{}
	}
	return f.MappedFormat
}

func (f KeyedText) keySeparator() string {
	if f.KeySeparator == "" {
		return ":"
	}
	return f.KeySeparator
}

func (f KeyedText) itemSeparator() string {
	if f.ItemSeparator == "" {
		return ","
	}
	return f.ItemSeparator
}

// ==== The interval grammar ====

// readTextInterval parses "start" or "start<boundary separator><inclusive
// end>" through the fluent wrapper, checking that the boundaries are in
// range but not that they are in order: an end before the start yields
// a valid empty interval. The result is meaningful only when the parser
// is still ok afterwards.
func readTextInterval[E any](tr Traits[E], f SetText, p *conv.Parser, fl *conv.Fluent) (start, exclusiveEnd E) {
	var inclusiveEnd E
	fl.Read(&start).
		CheckPrevToken(func() {
			if !inRange(tr, start) {
				p.SetParseError("Interval start out of range")
			}
			inclusiveEnd = start
		}).
		EndOptional().
		Literal(f.boundarySeparator()).
		Read(&inclusiveEnd).
		CheckPrevToken(func() {
			if !tr.Lt(inclusiveEnd, tr.MaxExclusive()) || tr.Lt(tr.Next(inclusiveEnd), tr.Min()) {
				p.SetParseError("Interval end out of range")
			}
		})
	if !p.Ok() {
		var zero E
		return zero, zero
	}
	return start, tr.Next(inclusiveEnd)
}

// decodeSetText parses "((<interval>)?<interval separator>)*" and
// unions each interval into the destination through the given hinted
// union, so in-order input inserts in amortized constant time per
// interval. The destination is not cleared first; parsing accumulates.
func decodeSetText[E any](tr Traits[E], f SetText, p *conv.Parser, union func(start, exclusiveEnd E) bool) {
	rep := conv.Any()
	if f.RequireNonEmpty {
		rep = conv.AtLeast(1)
	}
	seps := conv.Separators{
		AllowRepeated: true,
		Leading:       conv.SeparatorOptional,
		Trailing:      conv.SeparatorOptional,
	}
	if f.StrictSeparators {
		seps = conv.Separators{}
	}
	fl := p.Fluent(f)
	fl.CallRepeatedWithSeparators(rep, func() {
		start, exclusiveEnd := readTextInterval(tr, f, p, fl)
		if !p.Ok() || !tr.Lt(start, exclusiveEnd) {
			return
		}
		union(start, exclusiveEnd)
	}, f.intervalSeparator(), seps)
}

// decodeSetBinary parses the varint binary form: the number of
// boundaries, then each boundary as its distance from one past the
// previous boundary. An odd count marks an implicit first boundary at
// the minimum, so a set starting there saves its largest varint. The
// destination is not cleared first.
func decodeSetBinary[E any](tr Traits[E], f conv.Binary, p *conv.Parser, union func(start, exclusiveEnd E) bool) {
	var remaining uint64
	checkRemaining := func() {
		if remaining > uint64(p.Remaining()) {
			p.SetParseError("The value stored in the size field exceeds the number of remaining bytes")
		}
	}
	if !p.Read(conv.Options{Format: f, Check: checkRemaining}, &remaining) {
		return
	}

	// Since boundaries are strictly increasing and the first stored one
	// is never the minimum, each is at least one past its predecessor.
	nextMin := tr.Next(tr.Min())
	var delta uint64
	checkDelta := func() {
		if delta > tr.Sub(tr.MaxExclusive(), nextMin) {
			p.SetParseError("Value exceeds maximum")
		}
	}
	readNext := func(e *E) bool {
		if !p.Read(conv.Options{Format: f, Check: checkDelta}, &delta) {
			return false
		}
		*e = tr.Add(nextMin, delta)
		nextMin = tr.Next(*e)
		return true
	}

	if remaining&1 == 1 {
		var exclusiveEnd E
		if !readNext(&exclusiveEnd) || !union(tr.Min(), exclusiveEnd) {
			return
		}
		remaining--
	}
	for remaining != 0 {
		var start, exclusiveEnd E
		if !readNext(&start) || !readNext(&exclusiveEnd) || !union(start, exclusiveEnd) {
			return
		}
		remaining -= 2
	}
}

// decodeSetFixint parses the fixed-width binary form: the number of
// intervals, then every boundary as an 8-byte integer, checked to be
// strictly increasing and within the element range. The destination is
// not cleared first.
func decodeSetFixint[E any](tr Traits[E], f conv.FixintBinary, p *conv.Parser, union func(start, exclusiveEnd E) bool) {
	var remainingIntervals uint64
	checkRemaining := func() {
		if remainingIntervals*8*2 > uint64(p.Remaining()) {
			p.SetParseError("The value stored in the size field exceeds the number of values that fit in the remaining string")
		}
	}
	if !p.Read(conv.Options{Format: f, Check: checkRemaining}, &remainingIntervals) {
		return
	}

	var lastValue E
	first := true
	readNext := func(value *E) bool {
		check := func() {
			if first {
				if tr.Lt(*value, tr.Min()) {
					p.SetParseError("Value is less than minimum")
				}
			} else if tr.Le(*value, lastValue) {
				p.SetParseError("Value is less than or equal to previous value")
			}
			if tr.Lt(tr.MaxExclusive(), *value) {
				p.SetParseError("Value exceeds maximum")
			}
		}
		if !p.Read(conv.Options{Format: f, Check: check}, value) {
			return false
		}
		lastValue = *value
		first = false
		return true
	}

	for remainingIntervals != 0 {
		var start, exclusiveEnd E
		if !readNext(&start) || !readNext(&exclusiveEnd) || !union(start, exclusiveEnd) {
			return
		}
		remainingIntervals--
	}
}

// ==== Encoding over boundary storage ====

// The encoders walk the storage from begin, which must address its
// first boundary.

func encodeSetText[E any, It boundaryIterator[E, It], S boundaryStorage[E, It]](
	tr Traits[E], f SetText, t *conv.Target, st S, begin It,
) {
	first := true
	for it := begin; !it.AtEnd(); {
		start := it.Value()
		it = it.Next()
		exclusiveEnd := it.Value()
		it = it.Next()
		if !first {
			t.WriteValue(f, f.intervalSeparator())
		}
		first = false
		t.WriteValue(f, start)
		if tr.Cmp(exclusiveEnd, tr.Next(start)) != 0 {
			t.Concat(f, f.boundarySeparator(), tr.Prev(exclusiveEnd))
		}
	}
}

func encodeSetBinary[E any, It boundaryIterator[E, It], S boundaryStorage[E, It]](
	tr Traits[E], f conv.Binary, t *conv.Target, st S, begin It,
) {
	size := uint64(st.Len())
	nextMin := tr.Min()
	it := begin
	// A first boundary at the minimum is dropped; the odd count tells
	// the decoder to restore it.
	if !it.AtEnd() && tr.Cmp(it.Value(), nextMin) == 0 {
		size--
		it = it.Next()
	}
	nextMin = tr.Next(nextMin)
	t.WriteValue(f, size)
	for ; !it.AtEnd(); it = it.Next() {
		boundary := it.Value()
		t.WriteValue(f, tr.Sub(boundary, nextMin))
		nextMin = tr.Next(boundary)
	}
}

// encodeSetFixint never computes with elements, but still takes the
// traits so E can be inferred at call sites.
func encodeSetFixint[E any, It boundaryIterator[E, It], S boundaryStorage[E, It]](
	_ Traits[E], f conv.FixintBinary, t *conv.Target, st S, begin It,
) {
	t.WriteValue(f, uint64(st.Len()/2))
	for it := begin; !it.AtEnd(); it = it.Next() {
		t.WriteValue(f, it.Value())
	}
}

// ==== IntervalSet ====

// ConvEncode implements conv.Encoder for the set text form and both
// binary forms.
func (s *IntervalSet[E]) ConvEncode(f conv.Format, t *conv.Target) bool {
	switch f := f.(type) {
	case SetText:
		encodeSetText(s.tr, f, t, &s.st, s.st.Begin())
	case conv.Binary:
		encodeSetBinary(s.tr, f, t, &s.st, s.st.Begin())
	case conv.FixintBinary:
		encodeSetFixint(s.tr, f, t, &s.st, s.st.Begin())
	default:
		return false
	}
	return true
}

// ConvDecode implements conv.Decoder for the set text form and both
// binary forms. Decoding does not clear the set; parsed intervals are
// unioned into the existing contents. An allocation failure surfaces
// as an out of memory store error, with the intervals parsed before it
// already applied.
func (s *IntervalSet[E]) ConvDecode(f conv.Format, p *conv.Parser) bool {
	cursor := s.st.Begin()
	switch f := f.(type) {
	case SetText:
		decodeSetText(s.tr, f, p, func(start, exclusiveEnd E) bool {
			var err error
			cursor, err = s.unionHinted(cursor, start, exclusiveEnd)
			if err != nil {
				p.SetOOM()
				return false
			}
			return true
		})
	case conv.Binary:
		decodeSetBinary(s.tr, f, p, func(start, exclusiveEnd E) bool {
			var err error
			cursor, err = s.unionHinted(cursor, start, exclusiveEnd)
			if err != nil {
				p.SetOOM()
				return false
			}
			return true
		})
	case conv.FixintBinary:
		decodeSetFixint(s.tr, f, p, func(start, exclusiveEnd E) bool {
			var err error
			cursor, err = s.unionHinted(cursor, start, exclusiveEnd)
			if err != nil {
				p.SetOOM()
				return false
			}
			return true
		})
	default:
		return false
	}
	return true
}

// DefaultFormat implements conv.DefaultFormatter, substituting the set
// text form when plain text is requested.
func (s *IntervalSet[E]) DefaultFormat(f conv.Format) (conv.Format, bool) {
	if _, ok := f.(conv.Text); ok {
		return SetText{}, true
	}
	return nil, false
}

// String returns the set in its text form.
func (s *IntervalSet[E]) String() string {
	return conv.EncodeToString(conv.Text{}, s)
}

// ==== FlatIntervalSet ====

// ConvEncode implements conv.Encoder for the set text form and both
// binary forms.
func (s *FlatIntervalSet[E]) ConvEncode(f conv.Format, t *conv.Target) bool {
	switch f := f.(type) {
	case SetText:
		encodeSetText(s.tr, f, t, &s.st, s.st.Begin())
	case conv.Binary:
		encodeSetBinary(s.tr, f, t, &s.st, s.st.Begin())
	case conv.FixintBinary:
		encodeSetFixint(s.tr, f, t, &s.st, s.st.Begin())
	default:
		return false
	}
	return true
}

// ConvDecode implements conv.Decoder for the binary forms only. There
// is no text decoder: text input may list intervals in any order, and
// out-of-order insertion into slice storage shifts the tail each time,
// which turns adversarial input quadratic. Parse text into an
// IntervalSet and convert. Binary input is always in order, so both
// binary forms decode here with the same accumulate semantics as
// IntervalSet.
func (s *FlatIntervalSet[E]) ConvDecode(f conv.Format, p *conv.Parser) bool {
	cursor := s.st.Begin()
	switch f := f.(type) {
	case conv.Binary:
		decodeSetBinary(s.tr, f, p, func(start, exclusiveEnd E) bool {
			var err error
			cursor, err = s.unionHinted(cursor, start, exclusiveEnd)
			if err != nil {
				p.SetOOM()
				return false
			}
			return true
		})
	case conv.FixintBinary:
		decodeSetFixint(s.tr, f, p, func(start, exclusiveEnd E) bool {
			var err error
			cursor, err = s.unionHinted(cursor, start, exclusiveEnd)
			if err != nil {
				p.SetOOM()
				return false
			}
			return true
		})
	default:
		return false
	}
	return true
}

// DefaultFormat implements conv.DefaultFormatter, substituting the set
// text form when plain text is requested.
func (s *FlatIntervalSet[E]) DefaultFormat(f conv.Format) (conv.Format, bool) {
	if _, ok := f.(conv.Text); ok {
		return SetText{}, true
	}
	return nil, false
}

// String returns the set in its text form.
func (s *FlatIntervalSet[E]) String() string {
	return conv.EncodeToString(conv.Text{}, s)
}

// ==== Keyed ====

// ConvEncode implements conv.Encoder for the keyed text form. Keys and
// mapped sets are written in the formats the KeyedText value carries.
func (m *Keyed[K, S]) ConvEncode(f conv.Format, t *conv.Target) bool {
	kf, ok := f.(KeyedText)
	if !ok {
		return false
	}
	first := true
	for k, set := range m.All() {
		if !first {
			t.WriteRaw(kf.itemSeparator())
		}
		first = false
		t.WriteValue(kf.keyFormat(), k)
		t.WriteValue(kf, kf.keySeparator())
		t.WriteValue(kf.mappedFormat(), set)
	}
	return true
}

// DefaultFormat implements conv.DefaultFormatter, substituting the
// keyed text form when plain text is requested.
func (m *Keyed[K, S]) DefaultFormat(f conv.Format) (conv.Format, bool) {
	if _, ok := f.(conv.Text); ok {
		return KeyedText{}, true
	}
	return nil, false
}

// String returns the container in its keyed text form.
func (m *Keyed[K, S]) String() string {
	return conv.EncodeToString(conv.Text{}, m)
}
