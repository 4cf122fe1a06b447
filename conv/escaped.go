package conv

// Strings in escaped format have control and non-ascii bytes rewritten
// as escape sequences, so the result is printable ascii. The common
// control characters use their letter escapes unless NumericControl is
// set; everything else unprintable becomes a \xNN sequence. The quote
// and escape characters themselves are escaped so the output can be
// embedded in a quoted context. There is no decoder.

func escapedEncode(f Escaped, t *Target, s string) {
	if f.WithQuotes {
		t.WriteChar(f.quote())
	}
	for i := 0; i < len(s); i++ {
		escapedEncodeChar(f, t, s[i])
	}
	if f.WithQuotes {
		t.WriteChar(f.quote())
	}
}

func escapedEncodeBytes(f Escaped, t *Target, b []byte) {
	if f.WithQuotes {
		t.WriteChar(f.quote())
	}
	for _, c := range b {
		escapedEncodeChar(f, t, c)
	}
	if f.WithQuotes {
		t.WriteChar(f.quote())
	}
}

const letterEscapes = "abtnvfr"

func escapedEncodeChar(f Escaped, t *Target, c byte) {
	esc, quote := f.esc(), f.quote()
	switch {
	case c < 32 || (c >= 128 && !f.PreserveHigh):
		t.WriteChar(esc)
		if !f.NumericControl && c >= 7 && c <= 13 {
			t.WriteChar(letterEscapes[c-7])
		} else {
			t.WriteChar('x')
			t.WriteChar(hexDigitsLower[c>>4])
			t.WriteChar(hexDigitsLower[c&0xf])
		}
	case c == esc || c == quote:
		t.WriteChar(esc)
		t.WriteChar(c)
	default:
		t.WriteChar(c)
	}
}
