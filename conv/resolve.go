package conv

import "fmt"

// Encoder is implemented by values that can write themselves to a Target.
// ConvEncode reports whether it recognized the format; when it returns
// true the value has been written. An unrecognized format must leave the
// target untouched so resolution can retry with another candidate.
type Encoder interface {
	ConvEncode(f Format, t *Target) bool
}

// Decoder is implemented by values that can parse themselves from a
// Parser. ConvDecode reports whether it recognized the format; when it
// returns true the parse was attempted and its outcome, success or error,
// is recorded in the parser. An unrecognized format must leave the parser
// untouched.
type Decoder interface {
	ConvDecode(f Format, p *Parser) bool
}

// DefaultFormatter is implemented by values that substitute a more
// specific format for a general one. When resolution finds no codec for a
// requested format, it asks the value for a default before falling back
// to the format's parent.
type DefaultFormatter interface {
	DefaultFormat(f Format) (Format, bool)
}

// encodeValue writes v to t, resolving the format. At each level of the
// parent chain it tries the format itself, then the value's default
// substitute for it. Resolution failure is a programming error.
func encodeValue(f Format, t *Target, v any) {
	for g := f; g != nil; g = g.Parent() {
		if tryEncode(g, t, v) {
			return
		}
		if dv, ok := v.(DefaultFormatter); ok {
			if df, ok := dv.DefaultFormat(g); ok && tryEncode(df, t, v) {
				return
			}
		}
	}
	panic(fmt.Sprintf("conv: no %s encoder for %T", f.Name(), v))
}

func tryEncode(f Format, t *Target, v any) bool {
	if builtinEncode(f, t, v) {
		return true
	}
	if enc, ok := v.(Encoder); ok {
		return enc.ConvEncode(f, t)
	}
	return false
}

// decodeValue parses from p into v, resolving the format the same way
// encodeValue does. The parse outcome is recorded in p.
func decodeValue(f Format, p *Parser, v any) {
	for g := f; g != nil; g = g.Parent() {
		if tryDecode(g, p, v) {
			return
		}
		if dv, ok := v.(DefaultFormatter); ok {
			if df, ok := dv.DefaultFormat(g); ok && tryDecode(df, p, v) {
				return
			}
		}
	}
	panic(fmt.Sprintf("conv: no %s decoder for %T", f.Name(), v))
}

func tryDecode(f Format, p *Parser, v any) bool {
	if builtinDecode(f, p, v) {
		return true
	}
	if dec, ok := v.(Decoder); ok {
		return dec.ConvDecode(f, p)
	}
	return false
}

// builtinEncode handles the integer and string kinds the package encodes
// without an Encoder implementation. It reports whether v is such a kind
// and f a format it supports.
func builtinEncode(f Format, t *Target, v any) bool {
	switch v := v.(type) {
	case int:
		return intEncode(f, t, int64(v))
	case int8:
		return intEncode(f, t, int64(v))
	case int16:
		return intEncode(f, t, int64(v))
	case int32:
		return intEncode(f, t, int64(v))
	case int64:
		return intEncode(f, t, v)
	case uint:
		return uintEncode(f, t, uint64(v))
	case uint8:
		return uintEncode(f, t, uint64(v))
	case uint16:
		return uintEncode(f, t, uint64(v))
	case uint32:
		return uintEncode(f, t, uint64(v))
	case uint64:
		return uintEncode(f, t, v)
	case string:
		return stringEncode(f, t, v)
	case []byte:
		return bytesEncode(f, t, v)
	}
	return false
}

func intEncode(f Format, t *Target, v int64) bool {
	switch f.(type) {
	case Text:
		textEncodeInt(t, v)
	case Binary:
		varintEncode(t, zigzag(v))
	case FixintBinary:
		fixintEncode(t, uint64(v))
	default:
		return false
	}
	return true
}

func uintEncode(f Format, t *Target, v uint64) bool {
	switch f.(type) {
	case Text:
		textEncodeUint(t, v)
	case Binary:
		varintEncode(t, v)
	case FixintBinary:
		fixintEncode(t, v)
	default:
		return false
	}
	return true
}

func stringEncode(f Format, t *Target, s string) bool {
	switch f := f.(type) {
	case Text:
		t.WriteRaw(s)
	case Escaped:
		escapedEncode(f, t, s)
	case Hex:
		hexEncode(f, t, s)
	case Binary:
		varintEncode(t, uint64(len(s)))
		t.WriteRaw(s)
	case FixstrBinary:
		t.WriteRaw(s)
	default:
		return false
	}
	return true
}

func bytesEncode(f Format, t *Target, b []byte) bool {
	switch f := f.(type) {
	case Text:
		t.WriteRawBytes(b)
	case Escaped:
		escapedEncodeBytes(f, t, b)
	case Hex:
		hexEncodeBytes(f, t, b)
	case Binary:
		varintEncode(t, uint64(len(b)))
		t.WriteRawBytes(b)
	case FixstrBinary:
		t.WriteRawBytes(b)
	default:
		return false
	}
	return true
}

// builtinDecode handles destinations the package parses without a Decoder
// implementation: pointers to integer kinds, *string as a view into the
// input, and *Target as the string sink used by ReadToOutStr.
func builtinDecode(f Format, p *Parser, v any) bool {
	switch v := v.(type) {
	case *int:
		return intDecode(f, p, int64(minInt), int64(maxInt), func(x int64) { *v = int(x) })
	case *int8:
		return intDecode(f, p, -1<<7, 1<<7-1, func(x int64) { *v = int8(x) })
	case *int16:
		return intDecode(f, p, -1<<15, 1<<15-1, func(x int64) { *v = int16(x) })
	case *int32:
		return intDecode(f, p, -1<<31, 1<<31-1, func(x int64) { *v = int32(x) })
	case *int64:
		return intDecode(f, p, -1<<63, 1<<63-1, func(x int64) { *v = x })
	case *uint:
		return uintDecode(f, p, uint64(maxUint), func(x uint64) { *v = uint(x) })
	case *uint8:
		return uintDecode(f, p, 1<<8-1, func(x uint64) { *v = uint8(x) })
	case *uint16:
		return uintDecode(f, p, 1<<16-1, func(x uint64) { *v = uint16(x) })
	case *uint32:
		return uintDecode(f, p, 1<<32-1, func(x uint64) { *v = uint32(x) })
	case *uint64:
		return uintDecode(f, p, 1<<64-1, func(x uint64) { *v = x })
	case *string:
		return stringDecode(f, p, v)
	case *Target:
		return targetDecode(f, p, v)
	}
	return false
}

const (
	maxInt  = int(^uint(0) >> 1)
	minInt  = -maxInt - 1
	maxUint = ^uint(0)
)

func uintDecode(f Format, p *Parser, max uint64, assign func(uint64)) bool {
	switch f.(type) {
	case Text:
		if x, ok := textDecodeUint(p, max); ok {
			assign(x)
		}
	case Binary:
		if x, ok := varintDecode(p, max); ok {
			assign(x)
		}
	case FixintBinary:
		if x, ok := fixintDecodeUint(p, max); ok {
			assign(x)
		}
	default:
		return false
	}
	return true
}

func intDecode(f Format, p *Parser, min, max int64, assign func(int64)) bool {
	switch f.(type) {
	case Text:
		if x, ok := textDecodeInt(p, min, max); ok {
			assign(x)
		}
	case Binary:
		if x, ok := varintDecodeInt(p, min, max); ok {
			assign(x)
		}
	case FixintBinary:
		if x, ok := fixintDecodeInt(p, min, max); ok {
			assign(x)
		}
	default:
		return false
	}
	return true
}

func targetDecode(f Format, p *Parser, t *Target) bool {
	switch f := f.(type) {
	case Hex:
		hexDecode(f, p, t)
	case Binary:
		binaryStringDecode(p, t)
	case FixstrBinary:
		fixstrDecode(f, p, t)
	default:
		return false
	}
	return true
}
