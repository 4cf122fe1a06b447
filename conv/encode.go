package conv

import "github.com/wippyai/gtid-sets/errors"

// EncodedLen returns the number of bytes encoding v in format f would
// produce.
func EncodedLen(f Format, v any) int {
	counter := newCounter()
	counter.WriteValue(f, v)
	return counter.Len()
}

// Encode writes v in format f to o, resizing o to the encoded length
// first. A fixed wrapper that is too small fails with an overflow
// error and is left unchanged; a growable wrapper fails only when its
// resource denies the allocation.
func Encode(f Format, o OutStr, v any) error {
	return encodeSized(f, o, func(t *Target) {
		t.WriteValue(f, v)
	})
}

// EncodeToString returns v encoded in format f.
func EncodeToString(f Format, v any) string {
	counter := newCounter()
	counter.WriteValue(f, v)
	buf := make([]byte, counter.Len())
	newWriter(buf).WriteValue(f, v)
	return string(buf)
}

// Concat encodes each value in turn to o, resizing o to the combined
// length first.
func Concat(f Format, o OutStr, vs ...any) error {
	return encodeSized(f, o, func(t *Target) {
		t.Concat(f, vs...)
	})
}

// ConcatToString returns the values encoded in format f, one after the
// other.
func ConcatToString(f Format, vs ...any) string {
	counter := newCounter()
	counter.Concat(f, vs...)
	buf := make([]byte, counter.Len())
	newWriter(buf).Concat(f, vs...)
	return string(buf)
}

// DebugString returns v encoded in the debug format, falling back to
// the text format for values without a debug form.
func DebugString(v any) string {
	return EncodeToString(Debug{}, v)
}

func encodeSized(f Format, o OutStr, produce func(*Target)) error {
	counter := newCounter()
	produce(counter)
	size := counter.Len()
	if err := o.Resize(size); err != nil {
		if o.Growable() {
			return errors.New(errors.PhaseEncode, errors.KindAllocation).
				Format(f.Name()).
				Cause(err).
				Detail("growing output to %d bytes", size).
				Build()
		}
		return errors.New(errors.PhaseEncode, errors.KindOverflow).
			Format(f.Name()).
			Detail("encoded length %d exceeds the output capacity %d", size, o.InitialCapacity()).
			Build()
	}
	produce(newWriter(o.Data()))
	return nil
}
