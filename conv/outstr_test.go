package conv

import (
	stderrors "errors"
	"testing"

	gtidsets "github.com/wippyai/gtid-sets"
)

func TestOutStrGrowable(t *testing.T) {
	var buf []byte
	o := NewOutStrGrowable(&buf, gtidsets.Resource{})
	if !o.Growable() || o.Size() != 0 {
		t.Fatalf("fresh wrapper: growable %v, size %d", o.Growable(), o.Size())
	}
	if err := o.Resize(3); err != nil {
		t.Fatalf("Resize(3): %v", err)
	}
	copy(o.Data(), "abc")
	if err := o.Resize(5); err != nil {
		t.Fatalf("Resize(5): %v", err)
	}
	copy(o.Data()[3:], "de")
	if string(buf) != "abcde" {
		t.Errorf("buf = %q, want %q", buf, "abcde")
	}
	if err := o.Resize(2); err != nil {
		t.Fatalf("Resize(2): %v", err)
	}
	if string(buf) != "ab" || o.Size() != 2 {
		t.Errorf("buf = %q, size %d, want %q, 2", buf, o.Size(), "ab")
	}
}

func TestOutStrGrowableResource(t *testing.T) {
	allocs, deallocs := 0, 0
	res := gtidsets.NewResource(func(size int) []byte {
		allocs++
		return make([]byte, size)
	}, func(buf []byte) {
		deallocs++
	})

	var buf []byte
	o := NewOutStrGrowable(&buf, res)
	if err := o.Resize(4); err != nil {
		t.Fatalf("Resize(4): %v", err)
	}
	if err := o.Resize(2); err != nil {
		t.Fatalf("Resize(2): %v", err)
	}
	if err := o.Resize(8); err != nil {
		t.Fatalf("Resize(8): %v", err)
	}
	if allocs != 2 {
		t.Errorf("allocations = %d, want 2", allocs)
	}
	if deallocs != 1 {
		t.Errorf("deallocations = %d, want 1", deallocs)
	}
}

func TestOutStrGrowableDenied(t *testing.T) {
	var buf []byte
	o := NewOutStrGrowable(&buf, gtidsets.NewFailingResource(1))
	if err := o.Resize(4); err != nil {
		t.Fatalf("first Resize: %v", err)
	}
	copy(o.Data(), "abcd")

	err := o.Resize(100)
	if !stderrors.Is(err, gtidsets.ErrOutOfMemory) {
		t.Fatalf("Resize(100) = %v, want ErrOutOfMemory", err)
	}
	if string(buf) != "abcd" {
		t.Errorf("denied resize changed the contents: %q", buf)
	}
}

func TestOutStrGrowableZ(t *testing.T) {
	allocs := 0
	res := gtidsets.NewResource(func(size int) []byte {
		allocs++
		return make([]byte, size)
	}, nil)

	var buf []byte
	o := NewOutStrGrowableZ(&buf, res)
	if err := o.Resize(5); err != nil {
		t.Fatalf("Resize(5): %v", err)
	}
	copy(o.Data(), "abcde")

	if allocs != 1 {
		t.Errorf("allocations = %d, want 1", allocs)
	}
	if o.Size() != 5 || string(buf) != "abcde" {
		t.Errorf("buf = %q, size %d, want %q, 5", buf, o.Size(), "abcde")
	}
	if term := buf[:6][5]; term != 0 {
		t.Errorf("byte past the data = %q, want a zero terminator", term)
	}

	// Shrinking moves the terminator and reuses the buffer.
	if err := o.Resize(2); err != nil {
		t.Fatalf("Resize(2): %v", err)
	}
	if allocs != 1 {
		t.Errorf("shrink allocated: %d allocations", allocs)
	}
	if term := buf[:3][2]; term != 0 {
		t.Errorf("terminator after shrink = %q, want zero", term)
	}
}

func TestEncodeToGrowableZ(t *testing.T) {
	var buf []byte
	o := NewOutStrGrowableZ(&buf, gtidsets.Resource{})
	const text = "3E11FA47-71CA-11E1-9E33-C80AA9429562:1-5"
	if err := Encode(Text{}, o, text); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if string(buf) != text {
		t.Errorf("buf = %q, want %q", buf, text)
	}
	if term := buf[: len(buf)+1 : cap(buf)][len(buf)]; term != 0 {
		t.Errorf("byte past the data = %q, want a zero terminator", term)
	}
}

func TestOutStrFixed(t *testing.T) {
	buf := []byte("....")
	n := 0
	o := NewOutStrFixed(buf, &n)
	if o.Growable() || o.InitialCapacity() != 4 {
		t.Fatalf("growable %v, capacity %d, want false, 4", o.Growable(), o.InitialCapacity())
	}
	if err := o.Resize(4); err != nil {
		t.Fatalf("Resize(4): %v", err)
	}
	if err := o.Resize(5); !stderrors.Is(err, ErrBufferTooSmall) {
		t.Fatalf("Resize(5) = %v, want ErrBufferTooSmall", err)
	}
	if n != 4 {
		t.Errorf("n = %d, want 4", n)
	}
}

func TestOutStrFixedZ(t *testing.T) {
	buf := []byte("....")
	n := 0
	o := NewOutStrFixedZ(buf, &n)
	if o.InitialCapacity() != 3 {
		t.Fatalf("capacity = %d, want 3", o.InitialCapacity())
	}
	if err := o.Resize(3); err != nil {
		t.Fatalf("Resize(3): %v", err)
	}
	copy(o.Data(), "abc")
	if n != 3 || buf[3] != 0 {
		t.Errorf("buf = %q, n = %d, want a terminator after 3 bytes", buf, n)
	}
	if err := o.Resize(4); !stderrors.Is(err, ErrBufferTooSmall) {
		t.Errorf("Resize(4) = %v, want ErrBufferTooSmall", err)
	}
}
