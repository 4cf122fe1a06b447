package conv

import gtidsets "github.com/wippyai/gtid-sets"

// Decode parses all of in into v according to opt. Input left over
// after a successful parse turns the outcome into a full-match error.
// On error, v may be half-parsed.
func Decode(opt Options, in string, v any) Result {
	p := NewParser(in)
	if p.Read(opt, v) && !p.AtEnd() {
		p.setFullmatchError()
	}
	return p.Result()
}

// DecodeToOutStr parses all of in as string-producing tokens and
// stores the produced bytes in o. On error, o keeps its previous
// contents.
func DecodeToOutStr(opt Options, in string, o OutStr) Result {
	p := NewParser(in)
	if p.ReadToOutStr(opt, o) && !p.AtEnd() {
		p.setFullmatchError()
	}
	return p.Result()
}

// DecodeToString parses all of in as string-producing tokens and
// returns the produced bytes.
func DecodeToString(opt Options, in string) (string, Result) {
	var buf []byte
	r := DecodeToOutStr(opt, in, NewOutStrGrowable(&buf, gtidsets.Resource{}))
	return string(buf), r
}

// TestDecode parses in without producing output. When it succeeds, a
// decode of the same input cannot fail with a parse error, though it
// can still run out of memory.
func TestDecode(opt Options, in string) Result {
	return Decode(opt, in, newCounter())
}

// DecodedLen returns the number of bytes decoding in would produce, or
// -1 when the input does not parse.
func DecodedLen(opt Options, in string) int {
	counter := newCounter()
	if r := Decode(opt, in, counter); !r.IsOk() {
		return -1
	}
	return counter.Len()
}
