package arena

import (
	"fmt"
	"unsafe"
)

// MemoryResource supplies the raw memory behind arena blocks and other
// growable buffers such as the symbol interner's string storage.
//
// Allocate returns a slice of exactly size bytes whose first byte is aligned
// to alignment. Deallocate receives a slice previously returned by Allocate,
// unchanged, together with the same alignment.
type MemoryResource interface {
	Allocate(size, alignment int) ([]byte, error)
	Deallocate(b []byte, alignment int)
}

// HeapResource allocates from the Go heap. Deallocate is a no-op: the garbage
// collector reclaims the memory once it is unreachable.
type HeapResource struct{}

// Allocate implements MemoryResource.
func (HeapResource) Allocate(size, alignment int) ([]byte, error) {
	if size < 0 || alignment <= 0 || alignment&(alignment-1) != 0 {
		return nil, fmt.Errorf("%w: bad request size=%d alignment=%d", ErrAllocFailed, size, alignment)
	}
	if size == 0 {
		return []byte{}, nil
	}

	// Word-sized backing guarantees pointer alignment.
	if alignment <= MaxAlignment {
		words := make([]uint64, (size+7)/8)
		return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(words))), size), nil
	}

	raw := make([]byte, size+alignment)
	off := alignOffset(raw, 0, alignment)
	return raw[off : off+size : off+size], nil
}

// Deallocate implements MemoryResource.
func (HeapResource) Deallocate([]byte, int) {}

// alignOffset returns the smallest offset >= pos at which &b[offset] is
// aligned to alignment.
func alignOffset(b []byte, pos, alignment int) int {
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(b))) + uintptr(pos)
	pad := int(-addr & uintptr(alignment-1))
	return pos + pad
}
