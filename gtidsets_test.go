package gtidsets_test

import (
	stderrors "errors"
	"testing"

	gtidsets "github.com/wippyai/gtid-sets"
)

func TestResourceDefault(t *testing.T) {
	var res gtidsets.Resource
	if !res.IsDefault() {
		t.Error("zero value is not the default resource")
	}
	buf := res.Allocate(16)
	if len(buf) != 16 {
		t.Fatalf("Allocate(16) returned %d bytes", len(buf))
	}
	for i, c := range buf {
		if c != 0 {
			t.Fatalf("buf[%d] = %d, want zeroed storage", i, c)
		}
	}
	res.Deallocate(buf)
	if !res.Equal(gtidsets.Resource{}) {
		t.Error("two default resources do not compare equal")
	}
}

func TestResourceIdentity(t *testing.T) {
	alloc := func(size int) []byte { return make([]byte, size) }
	r1 := gtidsets.NewResource(alloc, nil)
	r2 := gtidsets.NewResource(alloc, nil)
	if !r1.Equal(r1) {
		t.Error("resource does not equal itself")
	}
	if r1.Equal(r2) {
		t.Error("distinct resources compare equal")
	}
	if r1.IsDefault() {
		t.Error("custom resource reports default")
	}
	if r1.Equal(gtidsets.Resource{}) {
		t.Error("custom resource equals the default")
	}
}

func TestResourceHooks(t *testing.T) {
	var allocated, freed int
	res := gtidsets.NewResource(func(size int) []byte {
		allocated += size
		return make([]byte, size)
	}, func(buf []byte) {
		freed += len(buf)
	})
	res.Deallocate(res.Allocate(10))
	if allocated != 10 || freed != 10 {
		t.Errorf("allocated %d, freed %d, want 10 and 10", allocated, freed)
	}
}

func TestFailingResource(t *testing.T) {
	res := gtidsets.NewFailingResource(2)
	if res.Allocate(1) == nil {
		t.Fatal("first allocation denied")
	}
	if res.Allocate(1) == nil {
		t.Fatal("second allocation denied")
	}
	if res.Allocate(1) != nil {
		t.Fatal("third allocation granted")
	}
}

func TestAllocator(t *testing.T) {
	a := gtidsets.NewAllocator[int64](gtidsets.Resource{})
	s, err := a.Alloc(4)
	if err != nil || len(s) != 4 {
		t.Fatalf("Alloc(4) = %v, %v", s, err)
	}
	p, err := a.New()
	if err != nil || p == nil {
		t.Fatalf("New() = %v, %v", p, err)
	}
	if !a.Resource().IsDefault() {
		t.Error("allocator does not keep its resource")
	}
}

func TestAllocatorCharges(t *testing.T) {
	var charged []int
	res := gtidsets.NewResource(func(size int) []byte {
		charged = append(charged, size)
		return make([]byte, size)
	}, nil)
	a := gtidsets.NewAllocator[uint64](res)
	if _, err := a.Alloc(3); err != nil {
		t.Fatal(err)
	}
	if _, err := a.New(); err != nil {
		t.Fatal(err)
	}
	if _, err := a.Alloc(0); err != nil {
		t.Fatal(err)
	}
	want := []int{24, 8}
	if len(charged) != len(want) || charged[0] != want[0] || charged[1] != want[1] {
		t.Errorf("charged %v, want %v", charged, want)
	}
}

func TestAllocatorOutOfMemory(t *testing.T) {
	a := gtidsets.NewAllocator[int64](gtidsets.NewFailingResource(0))
	if _, err := a.Alloc(1); !stderrors.Is(err, gtidsets.ErrOutOfMemory) {
		t.Errorf("Alloc error = %v, want ErrOutOfMemory", err)
	}
	if _, err := a.New(); !stderrors.Is(err, gtidsets.ErrOutOfMemory) {
		t.Errorf("New error = %v, want ErrOutOfMemory", err)
	}
}

func TestAllocatorGrow(t *testing.T) {
	a := gtidsets.NewAllocator[byte](gtidsets.Resource{})
	s, err := a.Alloc(2)
	if err != nil {
		t.Fatal(err)
	}
	s[0], s[1] = 7, 9
	grown, err := a.Grow(s, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(grown) != 2 || cap(grown) < 5 {
		t.Fatalf("Grow gave len %d cap %d, want len 2 cap >= 5", len(grown), cap(grown))
	}
	if grown[0] != 7 || grown[1] != 9 {
		t.Errorf("Grow lost contents: %v", grown[:2])
	}
	same, err := a.Grow(grown, 3)
	if err != nil {
		t.Fatal(err)
	}
	if &same[0] != &grown[0] {
		t.Error("Grow reallocated although the capacity sufficed")
	}
}
