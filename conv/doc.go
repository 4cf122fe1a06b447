// Package conv converts values to and from strings through composable
// formats.
//
// # Formats
//
// A Format selects the encoding. Formats form a tree through Parent;
// when a value has no codec for the requested format, resolution walks
// toward the root:
//
//	Text                 ascii integers, verbatim strings
//	└── Debug            internal state of objects, for logs
//	Hex                  strings as hex digit pairs
//	Escaped              strings with control bytes escaped (encode only)
//	Binary               varint integers, length-prefixed strings
//	└── FixintBinary     8-byte little-endian integers
//	FixstrBinary         strings of a known fixed length
//
// At each level resolution tries the format itself, then the value's
// DefaultFormat substitute, then the parent. Custom types join the
// system by implementing Encoder, Decoder, or DefaultFormatter.
//
// # Encoding
//
// Encoding runs twice: once against a counting target to compute the
// exact output size, then against a writing target. EncodeToString and
// ConcatToString allocate the result; Encode and Concat write through
// an OutStr wrapper around a caller-owned buffer, which is the only
// point where encoding can fail.
//
//	s := conv.EncodeToString(conv.Hex{}, "\x12\x34")   // "1234"
//
// # Decoding
//
// Decode parses the whole input and returns a Result. Options bundle
// the format with a repetition count and an optional post-parse check:
//
//	var n uint64
//	r := conv.Decode(conv.Options{}, "123", &n)
//	if !r.IsOk() {
//	    log.Print(r) // renders a message with error position
//	}
//
// The Parser underneath is exposed for codecs: it tracks a position and
// a status, and its Call engine runs sub-parses with backtracking. A
// failed repetition past the required minimum rewinds the position and
// converts the error to backtracked success, retaining the deepest
// message for diagnostics. Fluent wraps a Parser for grammars that
// read several tokens in sequence.
//
// # Errors
//
// Results render as text: "OK", or a message with the failure position
// marked in an excerpt of the input:
//
//	Expected hex digit after 4 characters, marked by [HERE] in: "abcd[HERE] 123"
//
// Parse errors mean the input is at fault; store errors mean the
// parsed value could not be materialized (allocation failure). Only
// parse errors backtrack.
package conv
