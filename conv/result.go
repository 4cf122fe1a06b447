package conv

// Status describes the outcome of a parse.
type Status int

const (
	// StatusOK means the parse succeeded without ever failing.
	StatusOK Status = iota
	// StatusOKBacktracked means the parse succeeded after backtracking
	// from at least one failed alternative. The deepest failure's message
	// is retained in case a later error wants to report it.
	StatusOKBacktracked
	// StatusParseError means the input cannot be parsed.
	StatusParseError
	// StatusFullmatchError means a prefix of the input parsed but the
	// whole input was required.
	StatusFullmatchError
	// StatusStoreError means the parsed value could not be stored, for a
	// reason unrelated to the input, such as allocation failure.
	StatusStoreError
)

// messageForm says how a retained error message is rendered: as a
// sentence verbatim, or as a literal to be quoted after "Expected ".
type messageForm int

const (
	formSentence messageForm = iota
	formExpected
)

// Result is an immutable snapshot of a parse outcome. Its zero value
// reports success on empty input. Result renders itself as readable
// text, so it can be passed directly to EncodeToString or logged.
type Result struct {
	input      string
	pos        int
	status     Status
	message    string
	form       messageForm
	errPos     int
	foundCount int
}

// Status returns the outcome category.
func (r Result) Status() Status { return r.status }

// IsOk reports whether the parse succeeded, with or without
// backtracking.
func (r Result) IsOk() bool {
	return r.status == StatusOK || r.status == StatusOKBacktracked
}

// IsPrefixOk reports whether at least a prefix of the input parsed, that
// is, success or a full-match failure.
func (r Result) IsPrefixOk() bool {
	return r.IsOk() || r.status == StatusFullmatchError
}

// IsParseError reports whether the input was at fault, either because it
// cannot be parsed or because only a prefix of it can.
func (r Result) IsParseError() bool {
	return r.status == StatusParseError || r.status == StatusFullmatchError
}

// IsFullmatchError reports whether a prefix parsed but trailing input
// remained.
func (r Result) IsFullmatchError() bool { return r.status == StatusFullmatchError }

// IsStoreError reports whether storing the parsed value failed.
func (r Result) IsStoreError() bool { return r.status == StatusStoreError }

// Input returns the input string the parse ran against.
func (r Result) Input() string { return r.input }

// Pos returns the position where the parse stopped.
func (r Result) Pos() int { return r.pos }

// Message returns the retained error message, without position context.
// It is empty when the parse never failed.
func (r Result) Message() string { return r.message }

// FoundCount returns the repetition count of the outermost repeated
// token, when the outcome makes it meaningful.
func (r Result) FoundCount() int {
	if !r.IsPrefixOk() {
		return 0
	}
	return r.foundCount
}

// IsFound reports whether the outermost repeated token matched at least
// once.
func (r Result) IsFound() bool { return r.FoundCount() != 0 }

// String renders the result as text, the same as encoding it in the
// text format.
func (r Result) String() string { return EncodeToString(Text{}, r) }

// The rendered excerpt around an error is bounded at 48 input bytes
// before escaping: up to 14 before the marker, the 6-byte marker, and
// up to 28 after it. Longer sides are truncated to 11 and 25 bytes with
// an ellipsis.
const (
	hereMarker = "[HERE]"

	excerptMaxPrefix  = 14
	excerptPrefixKeep = 11
	excerptMaxSuffix  = 28
	excerptSuffixKeep = 25

	excerptEllipsis = "..."
)

// ConvEncode renders the result as text. Only the text format is
// recognized.
func (r Result) ConvEncode(f Format, t *Target) bool {
	if _, ok := f.(Text); !ok {
		return false
	}
	r.render(t)
	return true
}

func (r Result) render(t *Target) {
	if r.IsOk() {
		t.WriteRaw("OK")
		return
	}
	if r.status == StatusStoreError {
		t.WriteRaw(r.message)
		return
	}

	message := r.message
	form := r.form
	position := r.errPos
	// A full-match failure reports the retained parse error when that
	// error is at or beyond the stopping point, since it explains why
	// the parse could not continue. Otherwise the trailing input itself
	// is the problem.
	if r.status == StatusFullmatchError && r.errPos < r.pos {
		message = "Expected end of string"
		form = formSentence
		position = r.pos
	}

	if form == formExpected {
		t.WriteRaw("Expected ")
		t.WriteValue(Escaped{WithQuotes: true}, message)
	} else {
		t.WriteRaw(message)
	}

	if position == 0 {
		t.WriteRaw(" at the beginning of the string: \"")
	} else {
		t.Concat(Text{}, " after ", position, " characters, marked by ", hereMarker, " in: \"")
		if position > excerptMaxPrefix {
			t.WriteRaw(excerptEllipsis)
			t.WriteValue(Escaped{}, r.input[position-excerptPrefixKeep:position])
		} else {
			t.WriteValue(Escaped{}, r.input[:position])
		}
		t.WriteRaw(hereMarker)
	}

	rest := r.input[position:]
	if len(rest) > excerptMaxSuffix {
		t.WriteValue(Escaped{}, rest[:excerptSuffixKeep])
		t.WriteRaw(excerptEllipsis)
	} else {
		t.WriteValue(Escaped{}, rest)
	}
	t.WriteChar('"')
}
