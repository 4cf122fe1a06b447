package conv

// Parser holds a parse position within an input string together with the
// status of the parse so far. Codecs advance the position as they consume
// input and record failures through the SetParseError and SetStoreError
// family; the repetition engine in Call rewinds the position and converts
// errors to backtracking as the parse options allow.
//
// A Parser is created by NewParser or implicitly by the Decode entry
// points, and is passed to ConvDecode implementations.
type Parser struct {
	input string
	pos   int

	status     Status
	message    string
	form       messageForm
	errPos     int
	foundCount int
}

// NewParser returns a parser positioned at the start of input.
func NewParser(input string) *Parser {
	return &Parser{input: input, errPos: -1}
}

// ==== Position ====

// Input returns the full input string.
func (p *Parser) Input() string { return p.input }

// Pos returns the current position as a byte offset into the input.
func (p *Parser) Pos() int { return p.pos }

// SetPos moves the position to the given byte offset.
func (p *Parser) SetPos(n int) { p.pos = n }

// Advance moves the position n bytes forward.
func (p *Parser) Advance(n int) { p.pos += n }

// Remaining returns the number of unconsumed bytes.
func (p *Parser) Remaining() int { return len(p.input) - p.pos }

// Rest returns the unconsumed portion of the input.
func (p *Parser) Rest() string { return p.input[p.pos:] }

// AtEnd reports whether the position has reached the end of the input.
func (p *Parser) AtEnd() bool { return p.pos == len(p.input) }

// ==== Status ====

// SetParseError records that the input cannot be parsed at the current
// position. The message is a full sentence such as "Number out of range":
// it starts with a capital letter and does not end in a period.
func (p *Parser) SetParseError(message string) {
	p.doSetParseError(message, formSentence, p.pos)
}

// SetParseErrorExpectedString records that the given literal was expected
// but not found at the current position. The literal is escaped and
// quoted when the error is rendered, so it must be the exact missing
// string rather than a description of it.
func (p *Parser) SetParseErrorExpectedString(literal string) {
	p.doSetParseError(literal, formExpected, p.pos)
}

// SetStoreError records that the parsed value could not be stored, for a
// reason that is not the input's fault. Store errors are not suppressed
// by backtracking; they propagate to the caller.
func (p *Parser) SetStoreError(message string) {
	p.status = StatusStoreError
	p.message = message
}

// SetOOM records an out-of-memory store error.
func (p *Parser) SetOOM() {
	p.SetStoreError(oomMessage)
}

const oomMessage = "Out of memory"

// Ok reports whether the parse so far has succeeded, counting errors that
// were backtracked from as success.
func (p *Parser) Ok() bool {
	return p.status == StatusOK || p.status == StatusOKBacktracked
}

// FoundCount returns the number of repetitions matched by the last Call.
// It is meaningful after success or a full-match failure; otherwise 0.
func (p *Parser) FoundCount() int {
	if !p.Ok() && p.status != StatusFullmatchError {
		return 0
	}
	return p.foundCount
}

// Found reports whether the last Call matched at least one repetition.
func (p *Parser) Found() bool { return p.FoundCount() != 0 }

// Result returns a snapshot of the parse outcome, suitable for rendering
// an error message after the parser itself is discarded.
func (p *Parser) Result() Result {
	return Result{
		input:      p.input,
		pos:        p.pos,
		status:     p.status,
		message:    p.message,
		form:       p.form,
		errPos:     p.errPos,
		foundCount: p.FoundCount(),
	}
}

// A parse error only overwrites the retained message when the parse has
// not backtracked past it, or when the new error is at least as deep.
// This keeps the most relevant of several alternatives' errors.
func (p *Parser) doSetParseError(message string, form messageForm, position int) {
	if p.status != StatusOKBacktracked || position >= p.errPos {
		p.form = form
		p.message = message
		p.errPos = position
	}
	p.status = StatusParseError
}

func (p *Parser) isParseError() bool {
	return p.status == StatusParseError || p.status == StatusFullmatchError
}

func (p *Parser) isStoreError() bool {
	return p.status == StatusStoreError
}

func (p *Parser) revertParseErrorToOk() {
	p.status = StatusOKBacktracked
}

func (p *Parser) updateParseErrorPos(position int) {
	p.errPos = position
}

func (p *Parser) setMatchCount(n int) {
	p.foundCount = n
}

// setFullmatchError records that input remained after a successful
// parse. The match count and any retained error survive; rendering
// picks whichever of them explains the stop better.
func (p *Parser) setFullmatchError() {
	p.status = StatusFullmatchError
}

// ==== Token hooks ====

func (p *Parser) beforeToken(f Format) {
	if h, ok := f.(TokenHooks); ok {
		h.BeforeToken(p)
	}
}

func (p *Parser) afterToken(f Format) {
	if h, ok := f.(TokenHooks); ok {
		h.AfterToken(p)
	}
}

// SkipWhitespace advances the position past spaces, tabs, newlines,
// vertical tabs, form feeds, and carriage returns. Formats whose token
// hooks allow surrounding whitespace call this from BeforeToken and
// AfterToken.
func SkipWhitespace(p *Parser) {
	for p.pos < len(p.input) && isSpace(p.input[p.pos]) {
		p.pos++
	}
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

// ==== The repetition engine ====

// Call invokes fn according to the Repeat and Check options and returns
// whether the parse may continue. fn parses one token, advancing the
// position on success and recording failure through SetParseError or
// SetStoreError.
//
// The engine runs fn the mandatory number of times; any failure there
// rewinds to the position where Call started and returns false. It then
// runs fn up to the maximum; a parse error in this phase is converted to
// backtracked success with the position rewound to the end of the last
// complete repetition. Store errors always propagate. An iteration that
// consumes no input ends the optional phase, since further iterations
// would not consume input either.
func (p *Parser) Call(opt Options, fn func()) bool {
	beforePos := p.pos

	invokeAndCheck := func() {
		fn()
		if p.Ok() {
			if opt.Check != nil {
				opt.Check()
			}
			if !p.Ok() {
				// A failed check refers to the token parsed at beforePos.
				if p.isParseError() {
					p.updateParseErrorPos(beforePos)
				}
				p.pos = beforePos
			}
		} else {
			p.pos = beforePos
		}
	}

	count := 0
	if min := opt.Repeat.Min(); min != 0 {
		for ; count != min; count++ {
			invokeAndCheck()
			if !p.Ok() {
				return false
			}
		}
	}

	for ; count != opt.Repeat.Max(); count++ {
		// If the last iteration did not advance the position, the next one
		// will not either, so the maximum would be reached without further
		// progress. Returning here makes unbounded repeats terminate on
		// tokens that can match zero bytes.
		if count > 0 && p.pos == beforePos {
			return true
		}
		beforePos = p.pos
		invokeAndCheck()
		if !p.Ok() {
			if p.isParseError() {
				p.revertParseErrorToOk()
				p.setMatchCount(count)
				return true
			}
			return false
		}
	}
	p.setMatchCount(count)
	return true
}

// ==== Read, Skip ====

// Read parses one or more repetitions into v according to opt, resolving
// the format against v. The requested format's token hooks run around
// each repetition; the resolved format does the parsing.
func (p *Parser) Read(opt Options, v any) bool {
	f := opt.format()
	return p.Call(opt, func() {
		p.beforeToken(f)
		decodeValue(f, p, v)
		if !p.Ok() {
			return
		}
		p.afterToken(f)
	})
}

// Skip consumes repetitions of the literal according to opt. A missing
// mandatory occurrence records an expected-string parse error at the
// position before the literal was sought.
func (p *Parser) Skip(opt Options, literal string) bool {
	return p.Call(opt, func() {
		n := p.MatchLength(opt.format(), literal)
		if n == 0 {
			p.SetParseErrorExpectedString(literal)
			return
		}
		p.Advance(n)
	})
}

// MatchLength reports how many bytes a match of the literal at the
// current position would consume, including any bytes the format's token
// hooks skip, or 0 when the literal does not match. The position and
// status are left unchanged.
func (p *Parser) MatchLength(f Format, literal string) int {
	before := p.pos
	n := 0
	if p.matchLiteral(f, literal) {
		n = p.pos - before
	}
	p.pos = before
	return n
}

func (p *Parser) matchLiteral(f Format, literal string) bool {
	p.beforeToken(f)
	if p.Remaining() < len(literal) || p.input[p.pos:p.pos+len(literal)] != literal {
		return false
	}
	p.Advance(len(literal))
	p.afterToken(f)
	return true
}

// ==== Reading into an output string ====

// ReadToOutStr parses string-producing tokens according to opt and
// stores the produced bytes in o. The parse runs twice, first against a
// counting target to size the output, then against a writing target; a
// failed resize records an out-of-memory store error. On failure o keeps
// its previous contents.
//
// opt must not carry a Check; validation belongs in the codec's counting
// pass, so that nothing is allocated for input that cannot parse.
func (p *Parser) ReadToOutStr(opt Options, o OutStr) bool {
	return p.readToOutStr(func(t *Target) { p.readTarget(opt, t) }, o)
}

func (p *Parser) readTarget(opt Options, t *Target) {
	f := opt.format()
	p.Call(opt, func() {
		p.beforeToken(f)
		decodeValue(f, p, t)
		if !p.Ok() {
			return
		}
		p.afterToken(f)
	})
}

// readToOutStr invokes producer once against a counting target and once
// against a writing target, resizing o in between. The counter run is
// rewound so both runs parse the same input.
func (p *Parser) readToOutStr(producer func(*Target), o OutStr) bool {
	counter := newCounter()
	before := p.pos
	producer(counter)
	p.pos = before
	if !p.Ok() {
		return false
	}

	oldSize := o.Size()
	if err := o.Resize(counter.Len()); err != nil {
		p.SetOOM()
		return false
	}

	producer(newWriter(o.Data()))
	if !p.Ok() {
		if !o.Growable() {
			_ = o.Resize(oldSize)
		}
		return false
	}
	return true
}

// Fluent returns a fluent wrapper over this parser that reads tokens in
// the given format. See Fluent for the sequencing rules.
func (p *Parser) Fluent(f Format) *Fluent {
	return &Fluent{p: p, f: f, backtrack: noBacktrack}
}
