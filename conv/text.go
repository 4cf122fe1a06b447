package conv

import "strconv"

// Integers in text format are plain decimal with an optional leading
// minus for signed values. Strings are copied verbatim; since neither a
// length nor a delimiter is written there is no text decoder for
// strings.

func textEncodeInt(t *Target, v int64) {
	t.WriteRaw(strconv.FormatInt(v, 10))
}

func textEncodeUint(t *Target, v uint64) {
	t.WriteRaw(strconv.FormatUint(v, 10))
}

// textDecodeUint parses decimal digits at the current position into a
// value no greater than max. On success it advances past the digits; on
// failure it records a parse error at the current position without
// advancing.
func textDecodeUint(p *Parser, max uint64) (uint64, bool) {
	rest := p.Rest()
	if len(rest) == 0 || !isDigit(rest[0]) {
		p.SetParseError("Expected number")
		return 0, false
	}
	var value uint64
	n := 0
	for ; n < len(rest) && isDigit(rest[n]); n++ {
		d := uint64(rest[n] - '0')
		if value > (max-d)/10 {
			p.SetParseError("Number out of range")
			return 0, false
		}
		value = value*10 + d
	}
	p.Advance(n)
	return value, true
}

// textDecodeInt is textDecodeUint with an optional leading minus and a
// signed range.
func textDecodeInt(p *Parser, min, max int64) (int64, bool) {
	rest := p.Rest()
	start := 0
	if len(rest) > 0 && rest[0] == '-' {
		start = 1
	}
	if start >= len(rest) || !isDigit(rest[start]) {
		p.SetParseError("Expected number")
		return 0, false
	}

	// Accumulate the magnitude as unsigned so the full signed range is
	// reachable, including the minimum whose negation does not fit.
	limit := uint64(max)
	if start == 1 {
		limit = uint64(-(min + 1)) + 1
	}
	var value uint64
	n := start
	for ; n < len(rest) && isDigit(rest[n]); n++ {
		d := uint64(rest[n] - '0')
		if value > (limit-d)/10 {
			p.SetParseError("Number out of range")
			return 0, false
		}
		value = value*10 + d
	}
	p.Advance(n)
	if start == 1 {
		return -int64(value - 1) - 1, true
	}
	return int64(value), true
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
