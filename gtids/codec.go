package gtids

import (
	"github.com/wippyai/gtid-sets/conv"
	"github.com/wippyai/gtid-sets/errors"
)

// This file binds the domain types to the conv framework; the grammar
// lives in text.go and the wire layouts in binary.go. UUID binds the
// plain formats directly in uuid.go, so it needs no entries here.

// defaultFormat substitutes the domain formats for the plain ones.
func defaultFormat(f conv.Format) (conv.Format, bool) {
	switch f.(type) {
	case conv.Text:
		return TextFormat{}, true
	case conv.Binary:
		return BinaryFormat{}, true
	}
	return nil, false
}

// resultError converts a failed parse into a structured error carrying
// the rendered diagnostic.
func resultError(r conv.Result) error {
	kind := errors.KindMalformed
	switch {
	case r.IsStoreError():
		kind = errors.KindAllocation
	case r.IsFullmatchError():
		kind = errors.KindTrailingData
	}
	return errors.New(errors.PhaseDecode, kind).Detail("%s", r.String()).Build()
}

// ==== Tag ====

// ConvEncode implements conv.Encoder.
func (tag Tag) ConvEncode(f conv.Format, t *conv.Target) bool {
	switch f := f.(type) {
	case TextFormat:
		encodeTagText(f, t, tag)
	case BinaryFormat:
		encodeTagBinary(f, t, tag)
	default:
		return false
	}
	return true
}

// ConvDecode implements conv.Decoder.
func (tag *Tag) ConvDecode(f conv.Format, p *conv.Parser) bool {
	switch f := f.(type) {
	case TextFormat:
		decodeTagText(p, tag)
	case BinaryFormat:
		decodeTagBinary(f, p, tag)
	default:
		return false
	}
	return true
}

// DefaultFormat implements conv.DefaultFormatter.
func (Tag) DefaultFormat(f conv.Format) (conv.Format, bool) { return defaultFormat(f) }

// ==== TSID ====

// ConvEncode implements conv.Encoder.
func (ts TSID) ConvEncode(f conv.Format, t *conv.Target) bool {
	switch f := f.(type) {
	case TextFormat:
		encodeTSIDText(f, t, ts)
	case BinaryFormat:
		encodeTSIDBinary(f, t, ts)
	default:
		return false
	}
	return true
}

// ConvDecode implements conv.Decoder.
func (ts *TSID) ConvDecode(f conv.Format, p *conv.Parser) bool {
	switch f := f.(type) {
	case TextFormat:
		decodeTSIDText(f, p, ts)
	case BinaryFormat:
		decodeTSIDBinary(f, p, ts)
	default:
		return false
	}
	return true
}

// DefaultFormat implements conv.DefaultFormatter.
func (TSID) DefaultFormat(f conv.Format) (conv.Format, bool) { return defaultFormat(f) }

// ==== GTID ====

// ConvEncode implements conv.Encoder.
func (g GTID) ConvEncode(f conv.Format, t *conv.Target) bool {
	switch f := f.(type) {
	case TextFormat:
		encodeGTIDText(f, t, g)
	case BinaryFormat:
		encodeGTIDBinary(f, t, g)
	default:
		return false
	}
	return true
}

// ConvDecode implements conv.Decoder.
func (g *GTID) ConvDecode(f conv.Format, p *conv.Parser) bool {
	switch f := f.(type) {
	case TextFormat:
		decodeGTIDText(f, p, g)
	case BinaryFormat:
		decodeGTIDBinary(f, p, g)
	default:
		return false
	}
	return true
}

// DefaultFormat implements conv.DefaultFormatter.
func (GTID) DefaultFormat(f conv.Format) (conv.Format, bool) { return defaultFormat(f) }

// ==== Set ====

// ConvEncode implements conv.Encoder.
func (s *Set) ConvEncode(f conv.Format, t *conv.Target) bool {
	switch f := f.(type) {
	case TextFormat:
		encodeSetText(f, t, s)
	case BinaryFormat:
		encodeSetBinary(f, t, s)
	default:
		return false
	}
	return true
}

// ConvDecode implements conv.Decoder. Decoding does not clear the set;
// parsed GTIDs are unioned into the existing contents. An allocation
// failure surfaces as an out of memory store error, with the sources
// parsed before it already applied.
func (s *Set) ConvDecode(f conv.Format, p *conv.Parser) bool {
	switch f := f.(type) {
	case TextFormat:
		decodeSetText(f, p, s)
	case BinaryFormat:
		decodeSetBinary(f, p, s)
	default:
		return false
	}
	return true
}

// DefaultFormat implements conv.DefaultFormatter.
func (s *Set) DefaultFormat(f conv.Format) (conv.Format, bool) { return defaultFormat(f) }
