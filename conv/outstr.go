package conv

import (
	"errors"

	gtidsets "github.com/wippyai/gtid-sets"
)

// ErrBufferTooSmall is returned by Resize on a fixed-size output wrapper
// when the requested size exceeds the buffer capacity.
var ErrBufferTooSmall = errors.New("output buffer too small")

// OutStr wraps an output buffer behind a uniform resize-then-write
// protocol. Encoding and decoding size the output first, call Resize, and
// then fill Data; a wrapper is either growable, backed by a caller slice
// that is reallocated on demand, or fixed, backed by a caller buffer whose
// capacity bounds the output.
type OutStr interface {
	// Data returns the current contents. Its length equals Size.
	Data() []byte

	// Size returns the current content length in bytes.
	Size() int

	// InitialCapacity returns the capacity a fixed wrapper guarantees.
	// Growable wrappers return the current capacity.
	InitialCapacity() int

	// Growable reports whether Resize can exceed InitialCapacity.
	Growable() bool

	// Resize sets the content length to n bytes, preserving the prefix
	// that survives. Growable wrappers reallocate through their Resource
	// and return gtidsets.ErrOutOfMemory when it denies the request;
	// fixed wrappers return ErrBufferTooSmall when n exceeds capacity.
	Resize(n int) error
}

// NewOutStrGrowable returns a growable wrapper around *s. Reallocation is
// charged to res; the zero Resource never fails. The slice pointed to by
// s is replaced when it must grow.
func NewOutStrGrowable(s *[]byte, res gtidsets.Resource) OutStr {
	return &growableOutStr{s: s, res: res}
}

// NewOutStrGrowableZ is like NewOutStrGrowable but keeps a zero byte just
// past the data, so the buffer can be handed to terminator-scanning
// consumers. The terminator costs one byte of capacity beyond Size.
func NewOutStrGrowableZ(s *[]byte, res gtidsets.Resource) OutStr {
	return &growableOutStr{s: s, res: res, z: true}
}

// NewOutStrFixed returns a fixed-size wrapper around buf. *n tracks the
// content length and is updated by Resize; it must not exceed len(buf).
func NewOutStrFixed(buf []byte, n *int) OutStr {
	return &fixedOutStr{buf: buf, n: n}
}

// NewOutStrFixedZ is like NewOutStrFixed but reserves the last byte of
// buf for a zero terminator, which Resize maintains at buf[*n]. The
// usable capacity is len(buf)-1.
func NewOutStrFixedZ(buf []byte, n *int) OutStr {
	return &fixedOutStr{buf: buf, n: n, z: true}
}

type growableOutStr struct {
	s     *[]byte
	res   gtidsets.Resource
	owned bool
	z     bool
}

func (o *growableOutStr) Data() []byte { return *o.s }
func (o *growableOutStr) Size() int    { return len(*o.s) }

func (o *growableOutStr) InitialCapacity() int {
	c := cap(*o.s)
	if o.z && c > 0 {
		c--
	}
	return c
}

func (o *growableOutStr) Growable() bool { return true }

func (o *growableOutStr) Resize(n int) error {
	need := n
	if o.z {
		need++
	}
	if need > cap(*o.s) {
		buf := o.res.Allocate(need)
		if buf == nil {
			return gtidsets.ErrOutOfMemory
		}
		copy(buf, *o.s)
		if o.owned {
			o.res.Deallocate((*o.s)[:cap(*o.s)])
		}
		*o.s = buf
		o.owned = true
	}
	if o.z {
		s := (*o.s)[:n+1]
		s[n] = 0
	}
	*o.s = (*o.s)[:n]
	return nil
}

type fixedOutStr struct {
	buf []byte
	n   *int
	z   bool
}

func (o *fixedOutStr) capacity() int {
	if o.z {
		return len(o.buf) - 1
	}
	return len(o.buf)
}

func (o *fixedOutStr) Data() []byte         { return o.buf[:*o.n] }
func (o *fixedOutStr) Size() int            { return *o.n }
func (o *fixedOutStr) InitialCapacity() int { return o.capacity() }
func (o *fixedOutStr) Growable() bool       { return false }

func (o *fixedOutStr) Resize(n int) error {
	if n > o.capacity() {
		return ErrBufferTooSmall
	}
	*o.n = n
	if o.z {
		o.buf[n] = 0
	}
	return nil
}
