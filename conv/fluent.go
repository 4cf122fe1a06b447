package conv

import "math"

// Fluent wraps a Parser with chainable sequencing, so that grammars
// reading several tokens in a row do not check for failure after every
// token:
//
//	p.Fluent(f).
//		Read(&first).
//		Literal(":").
//		Read(&second)
//
// The wrapper is open or closed. While open, each operation runs and
// closes the wrapper if it fails; while closed, operations do nothing.
// The parser keeps the error from the operation that closed the
// wrapper, so the caller checks the parser once at the end of the
// chain.
//
// Beyond reads and literals there are sequencing operations:
// EndOptional marks a position where the input may validly stop,
// NextTokenOnlyIf skips the next token when a condition does not hold,
// CheckPrevToken validates the token just read, and
// ReadRepeatedWithSeparators parses separated lists.
//
// Reads use the format the wrapper was created with unless a ReadWith
// variant overrides it.
type Fluent struct {
	p *Parser
	f Format

	state fluentState

	// Position where the input may validly end, or noBacktrack.
	// Set by EndOptional.
	backtrack int

	// Position before the last parsed token, for CheckPrevToken.
	beforeLast int
}

const noBacktrack = -1

// Operations group into token sequences: zero or more NextTokenOnlyIf,
// then at most one read, call, literal or EndOptional, then zero or more
// CheckPrevToken. A suppression from NextTokenOnlyIf covers exactly one
// such sequence, so the state tracks whether the suppressed token is
// still ahead or already behind.
type fluentState int

const (
	fluentOpen fluentState = iota
	// The next token is suppressed and has not started yet.
	fluentNextSuppressed
	// The suppressed token has started; its remaining operations are
	// still suppressed, but the following token runs.
	fluentLastSuppressed
	fluentClosed
)

// ==== Sequencing ====

// NextTokenOnlyIf suppresses the next token unless condition holds. The
// suppressed token's whole operation sequence is skipped; the wrapper
// then continues open.
func (fl *Fluent) NextTokenOnlyIf(condition bool) *Fluent {
	if fl.state == fluentLastSuppressed {
		fl.state = fluentOpen
	}
	if fl.state == fluentOpen && !condition {
		fl.state = fluentNextSuppressed
	}
	return fl
}

// CheckPrevToken runs check, which validates the token just read and
// reports problems through the parser's error setters. On failure the
// wrapper closes and the error position moves back to where that token
// started, or the parse backtracks if EndOptional marked a stop.
func (fl *Fluent) CheckPrevToken(check func()) *Fluent {
	switch fl.state {
	case fluentOpen:
		check()
		if !fl.p.Ok() {
			fl.state = fluentClosed
			if fl.p.isParseError() {
				if fl.backtrack != noBacktrack {
					fl.p.SetPos(fl.backtrack)
					fl.p.revertParseErrorToOk()
				} else {
					fl.p.updateParseErrorPos(fl.beforeLast)
				}
			}
		}
	case fluentNextSuppressed:
		fl.state = fluentLastSuppressed
	}
	return fl
}

// EndOptional marks the current position as a valid end of the input.
// If a later operation in the chain fails with a parse error, the
// position rewinds here, the error is suppressed, and the wrapper
// closes.
func (fl *Fluent) EndOptional() *Fluent {
	if fl.state == fluentLastSuppressed {
		fl.state = fluentOpen
	}
	switch fl.state {
	case fluentOpen:
		fl.backtrack = fl.p.pos
	case fluentNextSuppressed:
		fl.state = fluentLastSuppressed
	}
	return fl
}

// CallUnconditionally runs fn regardless of the open/closed state.
func (fl *Fluent) CallUnconditionally(fn func()) *Fluent {
	fn()
	return fl
}

// ==== Reads ====

// Read reads one token into v using the wrapper's format.
func (fl *Fluent) Read(v any) *Fluent {
	return fl.ReadRepeated(Once(), v)
}

// ReadOptional reads one token into v, treating a parse error as a
// match of zero tokens.
func (fl *Fluent) ReadOptional(v any) *Fluent {
	return fl.ReadRepeated(Optional(), v)
}

// ReadRepeated reads tokens into v with the given repetition.
func (fl *Fluent) ReadRepeated(rep Repeat, v any) *Fluent {
	return fl.doCall(rep, func() {
		fl.p.Read(Options{Format: fl.f}, v)
	})
}

// ReadWith reads one token into v using the given format instead of the
// wrapper's.
func (fl *Fluent) ReadWith(f Format, v any) *Fluent {
	return fl.ReadWithRepeated(f, Once(), v)
}

// ReadWithRepeated reads tokens into v with the given format and
// repetition.
func (fl *Fluent) ReadWithRepeated(f Format, rep Repeat, v any) *Fluent {
	return fl.doCall(rep, func() {
		fl.p.Read(Options{Format: f}, v)
	})
}

// ==== Literals ====

// Literal consumes the given literal once.
func (fl *Fluent) Literal(literal string) *Fluent {
	return fl.LiteralRepeated(Once(), literal)
}

// LiteralOptional consumes the given literal if present.
func (fl *Fluent) LiteralOptional(literal string) *Fluent {
	return fl.LiteralRepeated(Optional(), literal)
}

// LiteralRepeated consumes the given literal with the given repetition.
func (fl *Fluent) LiteralRepeated(rep Repeat, literal string) *Fluent {
	return fl.doCall(rep, func() {
		fl.p.Skip(Options{Format: fl.f}, literal)
	})
}

// ==== Calls ====

// Call runs fn as one token. fn parses through the underlying parser
// and records failure there.
func (fl *Fluent) Call(fn func()) *Fluent {
	return fl.CallRepeated(Once(), fn)
}

// CallOptional runs fn as one token, treating a parse error as a match
// of zero tokens.
func (fl *Fluent) CallOptional(fn func()) *Fluent {
	return fl.CallRepeated(Optional(), fn)
}

// CallRepeated runs fn as a token with the given repetition.
func (fl *Fluent) CallRepeated(rep Repeat, fn func()) *Fluent {
	return fl.doCall(rep, fn)
}

// ==== Separated lists ====

// SeparatorMode says whether a separator at the edge of a list is
// required, forbidden, or allowed.
type SeparatorMode int

const (
	// SeparatorNo forbids the separator at this edge of the list.
	SeparatorNo SeparatorMode = iota
	// SeparatorYes requires the separator at this edge of the list.
	SeparatorYes
	// SeparatorOptional allows the separator at this edge of the list.
	SeparatorOptional
)

// Separators configures how ReadRepeatedWithSeparators treats
// separators around and between list elements.
type Separators struct {
	// AllowRepeated permits runs of consecutive separators wherever one
	// separator is accepted.
	AllowRepeated bool
	// Leading controls separators before the first element.
	Leading SeparatorMode
	// Trailing controls separators after the last element.
	Trailing SeparatorMode
}

// ReadRepeatedWithSeparators reads a list of tokens into v, consuming
// the separator literal between elements according to seps. The
// repetition bounds the number of elements; when fewer than the minimum
// parse, the parser keeps the error and the wrapper closes.
func (fl *Fluent) ReadRepeatedWithSeparators(rep Repeat, v any, separator string, seps Separators) *Fluent {
	return fl.CallRepeatedWithSeparators(rep, func() {
		fl.p.Read(Options{Format: fl.f}, v)
	}, separator, seps)
}

// CallRepeatedWithSeparators is ReadRepeatedWithSeparators with fn
// parsing each element instead of a read into an object.
func (fl *Fluent) CallRepeatedWithSeparators(rep Repeat, fn func(), separator string, seps Separators) *Fluent {
	maxSeparators := 1
	if seps.AllowRepeated {
		maxSeparators = math.MaxInt
	}
	parseSeparator := func() {
		fl.LiteralRepeated(Between(1, maxSeparators), separator)
	}
	parseLeadingSeparator := func() {
		switch seps.Leading {
		case SeparatorYes:
			parseSeparator()
		case SeparatorOptional:
			fl.LiteralRepeated(Between(0, maxSeparators), separator)
		}
	}

	if seps.Trailing == SeparatorNo {
		// No trailing separator: each element after the first consumes
		// its preceding separator, so the list cannot end with one.
		first := true
		fl.CallRepeated(rep, func() {
			if first {
				parseLeadingSeparator()
				first = false
			} else {
				parseSeparator()
			}
			fl.Call(fn)
		})
	} else {
		parseLeadingSeparator()
		fl.CallRepeated(rep, func() {
			fl.Call(fn)
			if seps.Trailing == SeparatorOptional {
				fl.EndOptional()
			}
			parseSeparator()
		})
	}
	return fl
}

// doCall runs fn under the parser's repetition engine, tracking the
// open/closed state, the position before the token for CheckPrevToken,
// and the EndOptional backtracking.
func (fl *Fluent) doCall(rep Repeat, fn func()) *Fluent {
	if fl.state == fluentLastSuppressed {
		fl.state = fluentOpen
	}
	switch fl.state {
	case fluentOpen:
		wrapped := func() {
			// Clear the backtrack position for the duration of the call,
			// so fn can reuse this wrapper for a nested sequence.
			old := fl.backtrack
			fl.backtrack = noBacktrack
			fn()
			fl.backtrack = old
		}
		beforeToken := fl.p.pos
		if fl.p.Call(Options{Repeat: rep}, wrapped) {
			// fn may have reused this wrapper and left it closed.
			fl.state = fluentOpen
			fl.beforeLast = beforeToken
		} else {
			fl.state = fluentClosed
			if fl.p.isParseError() && fl.backtrack != noBacktrack {
				fl.p.SetPos(fl.backtrack)
				fl.backtrack = noBacktrack
				fl.p.revertParseErrorToOk()
			}
		}
	case fluentNextSuppressed:
		fl.state = fluentLastSuppressed
	}
	return fl
}
