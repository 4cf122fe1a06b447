package conv

// Format identifies a string representation used when encoding or decoding
// values. A format is a small value, usually an empty struct, passed
// alongside the value so one type can have several representations.
//
// Formats form chains through Parent: when no codec handles the requested
// format directly, resolution retries with the parent. See resolve.go for
// the full resolution order.
type Format interface {
	// Name returns a short lowercase identifier, used in panics and logs.
	Name() string

	// Parent returns the format to fall back to when a value has no codec
	// for this format, or nil when this format is a root.
	Parent() Format
}

// TokenHooks is implemented by formats that run an action before and after
// every token, typically whitespace skipping. The parser invokes the hooks
// of the requested format, not of the resolved one, so a composite format
// controls the token boundaries of everything parsed beneath it.
type TokenHooks interface {
	BeforeToken(p *Parser)
	AfterToken(p *Parser)
}

// Text is the human-readable representation: decimal integers, literal
// strings. Text is the default format when parse options name none.
type Text struct{}

func (Text) Name() string   { return "text" }
func (Text) Parent() Format { return nil }

// Debug produces diagnostic output. Values without a dedicated debug
// representation fall back to Text through the parent chain.
type Debug struct{}

func (Debug) Name() string   { return "debug" }
func (Debug) Parent() Format { return Text{} }

// HexCase selects the digit case used when encoding hex and the cases
// accepted when decoding it.
type HexCase int

const (
	// HexLower encodes lowercase and decodes either case.
	HexLower HexCase = iota
	// HexUpper encodes uppercase and decodes either case.
	HexUpper
	// HexLowerOnly encodes lowercase and decodes lowercase only.
	HexLowerOnly
	// HexUpperOnly encodes uppercase and decodes uppercase only.
	HexUpperOnly
)

// Hex represents strings as two hex digits per byte.
type Hex struct {
	Case HexCase
}

func (Hex) Name() string   { return "hex" }
func (Hex) Parent() Format { return nil }

// digit returns the hex digit for a value in the range 0..15.
func (f Hex) digit(v int) byte {
	if f.Case == HexUpper || f.Case == HexUpperOnly {
		return hexDigitsUpper[v]
	}
	return hexDigitsLower[v]
}

// value returns the numeric value of a hex digit, or -1 when c is not a
// hex digit acceptable under this format's case policy.
func (f Hex) value(c byte) int {
	v := int(hexValues[c])
	if v < 0 {
		return -1
	}
	switch f.Case {
	case HexLowerOnly:
		if c >= 'A' && c <= 'F' {
			return -1
		}
	case HexUpperOnly:
		if c >= 'a' && c <= 'f' {
			return -1
		}
	}
	return v
}

const (
	hexDigitsLower = "0123456789abcdef"
	hexDigitsUpper = "0123456789ABCDEF"
)

// hexValues maps a byte to its hex digit value, or -1.
var hexValues = func() (t [256]int8) {
	for i := range t {
		t[i] = -1
	}
	for i := 0; i < 16; i++ {
		t[hexDigitsLower[i]] = int8(i)
		t[hexDigitsUpper[i]] = int8(i)
	}
	return t
}()

// Escaped represents strings with control and special characters escaped.
// The zero value escapes with backslash, treats double quote as the quote
// character, writes mnemonic escapes for \a..\r, and escapes bytes above
// 127. This format is encode-only.
type Escaped struct {
	// Quote is the character that surrounds the string. Zero means '"'.
	// It is escaped in the output, and emitted around the output when
	// WithQuotes is set.
	Quote byte
	// Esc is the character that begins an escape sequence. Zero means '\\'.
	Esc byte
	// WithQuotes surrounds the output with the quote character.
	WithQuotes bool
	// PreserveHigh passes bytes 128..255 through instead of hex-escaping.
	PreserveHigh bool
	// NumericControl writes \x07..\x0d instead of \a..\r.
	NumericControl bool
}

func (Escaped) Name() string   { return "escaped" }
func (Escaped) Parent() Format { return nil }

func (f Escaped) quote() byte {
	if f.Quote == 0 {
		return '"'
	}
	return f.Quote
}

func (f Escaped) esc() byte {
	if f.Esc == 0 {
		return '\\'
	}
	return f.Esc
}

// Binary is the compact machine representation: variable-length integers
// and length-prefixed strings.
type Binary struct{}

func (Binary) Name() string   { return "binary" }
func (Binary) Parent() Format { return nil }

// FixintBinary represents integers as 8 bytes, little-endian. Values
// without a fixed-width representation fall back to Binary through the
// parent chain.
type FixintBinary struct{}

func (FixintBinary) Name() string   { return "fixint-binary" }
func (FixintBinary) Parent() Format { return Binary{} }

// FixstrBinary represents a string as exactly Size raw bytes, with no
// length prefix or terminator.
type FixstrBinary struct {
	Size int
}

func (FixstrBinary) Name() string   { return "fixstr-binary" }
func (FixstrBinary) Parent() Format { return nil }
