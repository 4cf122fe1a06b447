package conv

// Strings in hex format are two hex digits per byte, high nibble first.
// Each repetition of a hex decode consumes one digit pair, so the
// caller's Repeat bounds the number of decoded bytes.

func hexEncode(f Hex, t *Target, s string) {
	for i := 0; i < len(s); i++ {
		t.WriteChar(f.digit(int(s[i] >> 4)))
		t.WriteChar(f.digit(int(s[i] & 0xf)))
	}
}

func hexEncodeBytes(f Hex, t *Target, b []byte) {
	for _, c := range b {
		t.WriteChar(f.digit(int(c >> 4)))
		t.WriteChar(f.digit(int(c & 0xf)))
	}
}

// hexDecode parses one digit pair into t. With less than one pair of
// input left the error names the pair; otherwise it points at the first
// character that is not a valid digit.
func hexDecode(f Hex, p *Parser, t *Target) {
	rest := p.Rest()
	if len(rest) < 2 {
		p.SetParseError("Expected at least two hex digits")
		return
	}
	hi := f.value(rest[0])
	if hi < 0 {
		p.SetParseError("Expected hex digit")
		return
	}
	p.Advance(1)
	lo := f.value(rest[1])
	if lo < 0 {
		p.SetParseError("Expected hex digit")
		return
	}
	p.Advance(1)
	t.WriteChar(byte(hi<<4 | lo))
}
