package conv

// Target is the sink that encoders write to. It runs in one of two modes:
// counting, where writes only accumulate a length, and writing, where
// writes fill a caller-provided buffer. Every encoder runs twice, once in
// each mode, and must produce the same byte count both times; the counting
// pass sizes the buffer the writing pass fills.
//
// A writing Target never checks bounds beyond the slice it was given: the
// framework guarantees the buffer fits because it was sized by the
// counting pass. Writing past the end is a bug in an encoder and panics.
type Target struct {
	buf      []byte
	n        int
	counting bool
}

func newCounter() *Target {
	return &Target{counting: true}
}

func newWriter(buf []byte) *Target {
	return &Target{buf: buf}
}

// Counting reports whether this target only accumulates a length.
// Encoders whose length is cheaper to compute than their bytes, such as
// integer formatting, branch on this to skip producing output.
func (t *Target) Counting() bool {
	return t.counting
}

// Len returns the number of bytes written or counted so far.
func (t *Target) Len() int {
	return t.n
}

// Advance accounts for n bytes without producing them. Only valid on a
// counting target.
func (t *Target) Advance(n int) {
	if !t.counting {
		panic("conv: Advance on a writing target")
	}
	t.n += n
}

// WriteChar appends a single byte.
func (t *Target) WriteChar(c byte) {
	if !t.counting {
		t.buf[t.n] = c
	}
	t.n++
}

// WriteRaw appends s unformatted.
func (t *Target) WriteRaw(s string) {
	if !t.counting {
		copy(t.buf[t.n:t.n+len(s)], s)
	}
	t.n += len(s)
}

// WriteRawBytes appends b unformatted.
func (t *Target) WriteRawBytes(b []byte) {
	if !t.counting {
		copy(t.buf[t.n:t.n+len(b)], b)
	}
	t.n += len(b)
}

// WriteValue encodes v in the given format, resolving the format against
// v as described in resolve.go. It panics if no encoder exists for the
// combination.
func (t *Target) WriteValue(f Format, v any) {
	encodeValue(f, t, v)
}

// Concat encodes each argument in order, all in the given format. String
// arguments are written according to the format, so with Text they pass
// through literally.
func (t *Target) Concat(f Format, vs ...any) {
	for _, v := range vs {
		encodeValue(f, t, v)
	}
}
