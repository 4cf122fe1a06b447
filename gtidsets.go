package gtidsets

import (
	"errors"
	"reflect"
)

// ErrOutOfMemory is returned when a Resource denies an allocation.
var ErrOutOfMemory = errors.New("out of memory")

// Resource is a value-typed allocation policy shared by containers and
// growable output buffers. It carries two hooks, allocate and deallocate;
// the zero value uses the Go allocator and never fails. Containers record
// a Resource at construction and consult it for every node or buffer they
// create, so a custom Resource can enforce quotas or inject failures.
type Resource struct {
	allocate   func(size int) []byte
	deallocate func(buf []byte)
	id         *byte
}

// NewResource returns a Resource backed by the given hooks. allocate
// returns nil to deny a request; deallocate may be nil.
func NewResource(allocate func(size int) []byte, deallocate func(buf []byte)) Resource {
	return Resource{allocate: allocate, deallocate: deallocate, id: new(byte)}
}

// NewFailingResource returns a Resource whose allocations succeed n times
// and then fail. Used to exercise out-of-memory paths.
func NewFailingResource(n int) Resource {
	remaining := n
	return NewResource(func(size int) []byte {
		if remaining <= 0 {
			return nil
		}
		remaining--
		return make([]byte, size)
	}, nil)
}

// Allocate returns a zeroed slice of length size, or nil when the
// resource cannot satisfy the request.
func (r Resource) Allocate(size int) []byte {
	if r.allocate == nil {
		return make([]byte, size)
	}
	return r.allocate(size)
}

// Deallocate returns a slice obtained from Allocate. The default resource
// leaves reclamation to the garbage collector.
func (r Resource) Deallocate(buf []byte) {
	if r.deallocate != nil {
		r.deallocate(buf)
	}
}

// Equal reports whether two resources share one allocation policy.
// Containers use this to decide whether storage can be donated between
// them without copying.
func (r Resource) Equal(other Resource) bool {
	return r.id == other.id
}

// IsDefault reports whether r is the zero-value resource.
func (r Resource) IsDefault() bool {
	return r.id == nil
}

// charge asks the resource for permission to allocate size bytes of
// element storage. The probe buffer is released immediately; element
// storage itself comes from the runtime.
func (r Resource) charge(size int) bool {
	if r.allocate == nil {
		return true
	}
	buf := r.allocate(size)
	if buf == nil {
		return false
	}
	r.Deallocate(buf)
	return true
}

// Allocator adapts a Resource to element-typed allocation for container
// internals. Each allocation is charged to the resource as the equivalent
// byte size.
type Allocator[T any] struct {
	res      Resource
	elemSize int
}

// NewAllocator returns an Allocator for elements of type T drawing from
// the given Resource.
func NewAllocator[T any](res Resource) Allocator[T] {
	return Allocator[T]{res: res, elemSize: int(reflect.TypeFor[T]().Size())}
}

// Resource returns the Resource this allocator draws from.
func (a Allocator[T]) Resource() Resource {
	return a.res
}

// Alloc returns a slice of n zeroed elements, or ErrOutOfMemory when the
// resource denies the charge.
func (a Allocator[T]) Alloc(n int) ([]T, error) {
	if n > 0 && !a.res.charge(n*a.elemSize) {
		return nil, ErrOutOfMemory
	}
	return make([]T, n), nil
}

// New returns a pointer to one zeroed element, or ErrOutOfMemory when the
// resource denies the charge.
func (a Allocator[T]) New() (*T, error) {
	if !a.res.charge(a.elemSize) {
		return nil, ErrOutOfMemory
	}
	return new(T), nil
}

// Grow returns a slice with the same contents as s and capacity of at
// least n elements. The extension is charged to the resource.
func (a Allocator[T]) Grow(s []T, n int) ([]T, error) {
	if n <= cap(s) {
		return s[:len(s)], nil
	}
	grown := cap(s) * 2
	if grown < n {
		grown = n
	}
	out, err := a.Alloc(grown)
	if err != nil {
		return nil, err
	}
	out = out[:len(s)]
	copy(out, s)
	return out, nil
}
