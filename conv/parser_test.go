package conv

import "testing"

func TestParserLiterals(t *testing.T) {
	p := NewParser("abcabc!")
	if !p.Skip(Options{Repeat: Exactly(2)}, "abc") {
		t.Fatalf("Skip: %s", p.Result())
	}
	if p.Pos() != 6 {
		t.Fatalf("Pos() = %d, want 6", p.Pos())
	}
	if p.Skip(Options{}, "xyz") {
		t.Fatal("Skip(\"xyz\") succeeded at \"!\"")
	}
	want := `Expected "xyz" after 6 characters, marked by [HERE] in: "abcabc[HERE]!"`
	if got := p.Result().String(); got != want {
		t.Errorf("rendered %q, want %q", got, want)
	}
}

func TestParserMatchLength(t *testing.T) {
	p := NewParser("abcd")
	if got := p.MatchLength(Text{}, "ab"); got != 2 {
		t.Errorf("MatchLength(\"ab\") = %d, want 2", got)
	}
	if got := p.MatchLength(Text{}, "abx"); got != 0 {
		t.Errorf("MatchLength(\"abx\") = %d, want 0", got)
	}
	if p.Pos() != 0 || !p.Ok() {
		t.Errorf("probe moved the parser: pos %d, ok %v", p.Pos(), p.Ok())
	}
}

func TestParserRepeatBounds(t *testing.T) {
	p := NewParser("aaab")
	if !p.Skip(Options{Repeat: Any()}, "a") {
		t.Fatalf("Skip: %s", p.Result())
	}
	if p.Pos() != 3 || p.FoundCount() != 3 {
		t.Errorf("pos %d, count %d, want 3, 3", p.Pos(), p.FoundCount())
	}
	if p.Result().Status() != StatusOKBacktracked {
		t.Errorf("Status() = %v, want StatusOKBacktracked", p.Result().Status())
	}

	p = NewParser("aaab")
	if p.Skip(Options{Repeat: AtLeast(4)}, "a") {
		t.Fatal("Skip succeeded with only three matches")
	}
	if p.Pos() != 0 {
		t.Errorf("failed Skip left pos %d, want 0", p.Pos())
	}

	p = NewParser("aaab")
	if !p.Skip(Options{Repeat: AtMost(2)}, "a") {
		t.Fatalf("Skip: %s", p.Result())
	}
	if p.Pos() != 2 || p.FoundCount() != 2 {
		t.Errorf("pos %d, count %d, want 2, 2", p.Pos(), p.FoundCount())
	}
	if p.Result().Status() != StatusOK {
		t.Errorf("Status() = %v, want StatusOK", p.Result().Status())
	}
}

// A token that consumes nothing must not repeat forever.
func TestParserZeroProgressStops(t *testing.T) {
	calls := 0
	p := NewParser("x")
	if !p.Call(Options{Repeat: Any()}, func() { calls++ }) {
		t.Fatalf("Call: %s", p.Result())
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if !p.Ok() || p.Pos() != 0 {
		t.Errorf("ok %v, pos %d, want true, 0", p.Ok(), p.Pos())
	}
}

func TestParserCheckRewindsErrorPosition(t *testing.T) {
	var n uint64
	p := NewParser("123")
	opt := Options{Check: func() {
		if n > 99 {
			p.SetParseError("Number too large")
		}
	}}
	if p.Read(opt, &n) {
		t.Fatal("Read succeeded past a failing check")
	}
	if p.Pos() != 0 {
		t.Errorf("Pos() = %d, want 0", p.Pos())
	}
	want := `Number too large at the beginning of the string: "123"`
	if got := p.Result().String(); got != want {
		t.Errorf("rendered %q, want %q", got, want)
	}
}

func TestParserDeepestErrorWins(t *testing.T) {
	p := NewParser("abcd")
	p.Call(Options{Repeat: Optional()}, func() {
		p.Advance(2)
		p.SetParseError("Deep failure")
	})
	if !p.Ok() {
		t.Fatalf("optional token did not backtrack: %s", p.Result())
	}

	// A later failure closer to the start keeps the deeper message.
	p.Call(Options{}, func() { p.SetParseError("Shallow failure") })
	want := `Deep failure after 2 characters, marked by [HERE] in: "ab[HERE]cd"`
	if got := p.Result().String(); got != want {
		t.Errorf("rendered %q, want %q", got, want)
	}
}

func TestParserLaterDeeperErrorReplaces(t *testing.T) {
	p := NewParser("abcd")
	p.Call(Options{Repeat: Optional()}, func() { p.SetParseError("Early failure") })
	if !p.Skip(Options{}, "abc") {
		t.Fatalf("Skip: %s", p.Result())
	}
	p.Call(Options{}, func() { p.SetParseError("Late failure") })
	want := `Late failure after 3 characters, marked by [HERE] in: "abc[HERE]d"`
	if got := p.Result().String(); got != want {
		t.Errorf("rendered %q, want %q", got, want)
	}
}

func TestSkipWhitespace(t *testing.T) {
	p := NewParser(" \t\r\n x")
	SkipWhitespace(p)
	if p.Pos() != 5 || p.Rest() != "x" {
		t.Errorf("pos %d, rest %q, want 5, %q", p.Pos(), p.Rest(), "x")
	}
	SkipWhitespace(p)
	if p.Pos() != 5 {
		t.Errorf("second skip moved to %d", p.Pos())
	}
}

func TestReadToOutStrFixed(t *testing.T) {
	buf := []byte("......")
	n := 0
	o := NewOutStrFixed(buf, &n)
	r := DecodeToOutStr(Options{Format: Hex{}, Repeat: Any()}, "6162", o)
	if !r.IsOk() {
		t.Fatalf("decode: %s", r)
	}
	if n != 2 || string(buf) != "ab...." {
		t.Errorf("buf = %q, n = %d, want %q, 2", buf, n, "ab....")
	}
}

func TestReadToOutStrFixedTooSmall(t *testing.T) {
	buf := make([]byte, 2)
	n := 0
	o := NewOutStrFixed(buf, &n)
	r := DecodeToOutStr(Options{Format: Hex{}, Repeat: Any()}, "616263", o)
	if !r.IsStoreError() {
		t.Fatalf("status = %v, want store error", r.Status())
	}
	if n != 0 {
		t.Errorf("failed decode resized the output to %d", n)
	}
}
