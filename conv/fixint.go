package conv

// Integers in fixint-binary format are always 8 bytes, little-endian.
// Signed values are stored as their two's complement bit pattern.

func fixintEncode(t *Target, v uint64) {
	for i := 0; i < 8; i++ {
		t.WriteChar(byte(v >> (8 * i)))
	}
}

func fixintDecodeUint(p *Parser, max uint64) (uint64, bool) {
	rest := p.Rest()
	if len(rest) < 8 {
		p.SetParseError("Expected 8-byte unsigned integer")
		return 0, false
	}
	value := le64(rest)
	if value > max {
		p.SetParseError("Unsigned integer out of range")
		return 0, false
	}
	p.Advance(8)
	return value, true
}

func fixintDecodeInt(p *Parser, min, max int64) (int64, bool) {
	rest := p.Rest()
	if len(rest) < 8 {
		p.SetParseError("Expected 8-byte unsigned integer")
		return 0, false
	}
	value := int64(le64(rest))
	if value < min || value > max {
		p.SetParseError("Signed integer out of range")
		return 0, false
	}
	p.Advance(8)
	return value, true
}

func le64(s string) uint64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(s[i]) << (8 * i)
	}
	return v
}
