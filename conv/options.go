package conv

import "math"

// Options bundles everything that modifies a single Read, Skip, or Call:
// the format, the allowed number of repetitions, and an optional
// post-parse check. The zero value means Text format, exactly one
// repetition, no check.
type Options struct {
	// Format selects the representation. nil means Text.
	Format Format

	// Repeat bounds how many times the token is parsed. The zero value
	// means exactly once.
	Repeat Repeat

	// Check, if non-nil, runs after each successfully parsed repetition.
	// It validates the parsed value and reports a violation by setting a
	// parse error on the parser; the engine then moves the error position
	// back to the start of the offending repetition and rewinds.
	Check func()
}

func (o Options) format() Format {
	if o.Format == nil {
		return Text{}
	}
	return o.Format
}

// In returns options selecting the given format, with default repetition
// and no check.
func In(f Format) Options {
	return Options{Format: f}
}

// Repeat bounds the number of repetitions of a parsed token. The zero
// value means exactly one.
type Repeat struct {
	min, max int
	set      bool
}

// Min returns the minimum number of repetitions.
func (r Repeat) Min() int {
	if !r.set {
		return 1
	}
	return r.min
}

// Max returns the maximum number of repetitions.
func (r Repeat) Max() int {
	if !r.set {
		return 1
	}
	return r.max
}

// Once allows exactly one repetition.
func Once() Repeat { return Repeat{min: 1, max: 1, set: true} }

// Optional allows zero or one repetition.
func Optional() Repeat { return Repeat{min: 0, max: 1, set: true} }

// Any allows zero or more repetitions.
func Any() Repeat { return Repeat{min: 0, max: math.MaxInt, set: true} }

// AtLeast allows n or more repetitions.
func AtLeast(n int) Repeat { return Repeat{min: n, max: math.MaxInt, set: true} }

// AtMost allows up to n repetitions.
func AtMost(n int) Repeat { return Repeat{min: 0, max: n, set: true} }

// Exactly allows exactly n repetitions.
func Exactly(n int) Repeat { return Repeat{min: n, max: n, set: true} }

// Between allows between min and max repetitions, inclusive.
func Between(min, max int) Repeat { return Repeat{min: min, max: max, set: true} }
