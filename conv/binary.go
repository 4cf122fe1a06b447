package conv

import "math/bits"

// Integers in binary format are variable-length, little-endian. The
// number of trailing one bits in the first byte gives the total length
// minus one: a value up to 7 bits fits in one byte, and each further
// byte adds 7 bits of payload. Values wider than 56 bits take the
// 9-byte form, a leading 0xFF followed by the full 8-byte value.
//
// Strings in binary format are the length as a varint followed by the
// raw data.

func varintEncode(t *Target, v uint64) {
	n := (bits.Len64(v) + 6) / 7
	if n == 0 {
		n = 1
	}
	if n > 8 {
		t.WriteChar(0xFF)
		for i := 0; i < 8; i++ {
			t.WriteChar(byte(v >> (8 * i)))
		}
		return
	}
	// The payload is shifted past the n-1 trailing ones and the
	// terminating zero that encode the length.
	word := v<<n | (1<<(n-1) - 1)
	for i := 0; i < n; i++ {
		t.WriteChar(byte(word >> (8 * i)))
	}
}

// varintDecode parses a varint no greater than max, advancing past it.
// Truncated input and values beyond max record a parse error at the
// current position without advancing.
func varintDecode(p *Parser, max uint64) (uint64, bool) {
	value, length, ok := varintPeek(p)
	if !ok || value > max {
		p.SetParseError("Expected integer")
		return 0, false
	}
	p.Advance(length)
	return value, true
}

// varintDecodeInt parses a zigzag varint in [min, max].
func varintDecodeInt(p *Parser, min, max int64) (int64, bool) {
	u, length, ok := varintPeek(p)
	if !ok {
		p.SetParseError("Expected integer")
		return 0, false
	}
	value := unzigzag(u)
	if value < min || value > max {
		p.SetParseError("Expected integer")
		return 0, false
	}
	p.Advance(length)
	return value, true
}

func varintPeek(p *Parser) (value uint64, length int, ok bool) {
	rest := p.Rest()
	if len(rest) < 1 {
		return 0, 0, false
	}
	length = bits.TrailingZeros8(^rest[0]) + 1
	if len(rest) < length {
		return 0, 0, false
	}
	if length == 9 {
		for i := 0; i < 8; i++ {
			value |= uint64(rest[1+i]) << (8 * i)
		}
	} else {
		var word uint64
		for i := 0; i < length; i++ {
			word |= uint64(rest[i]) << (8 * i)
		}
		value = word >> length
	}
	return value, length, true
}

// Signed integers map to unsigned through the zigzag transformation
// before varint encoding, so small magnitudes of either sign stay
// short.
func zigzag(v int64) uint64 { return uint64(v<<1) ^ uint64(v>>63) }

func unzigzag(u uint64) int64 { return int64(u>>1) ^ -int64(u&1) }

// stringDecode parses a string and stores it as a view into the input.
func stringDecode(f Format, p *Parser, v *string) bool {
	switch f := f.(type) {
	case Binary:
		if s, ok := binarySlice(p); ok {
			*v = s
		}
	case FixstrBinary:
		if s, ok := fixstrSlice(f.Size, p); ok {
			*v = s
		}
	default:
		return false
	}
	return true
}

// binaryStringDecode parses a length-prefixed string into a Target.
func binaryStringDecode(p *Parser, t *Target) {
	if s, ok := binarySlice(p); ok {
		t.WriteRaw(s)
	}
}

// fixstrDecode parses a string of the format's fixed size into a Target.
func fixstrDecode(f FixstrBinary, p *Parser, t *Target) {
	if s, ok := fixstrSlice(f.Size, p); ok {
		t.WriteRaw(s)
	}
}

func binarySlice(p *Parser) (string, bool) {
	size, ok := varintDecode(p, 1<<64-1)
	if !ok {
		return "", false
	}
	// Compare as uint64 before narrowing, so a corrupt length cannot
	// wrap into a small one.
	if size > uint64(p.Remaining()) {
		p.SetParseError("Expected fixed-length string")
		return "", false
	}
	return fixstrSlice(int(size), p)
}

func fixstrSlice(size int, p *Parser) (string, bool) {
	if size < 0 || p.Remaining() < size {
		p.SetParseError("Expected fixed-length string")
		return "", false
	}
	s := p.input[p.pos : p.pos+size]
	p.Advance(size)
	return s, true
}
