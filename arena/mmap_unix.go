//go:build unix

package arena

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/joshuapare/dryad/internal/logger"
)

// MmapResource backs allocations with anonymous private memory mappings.
// Every allocation is rounded up to whole pages and unmapped on Deallocate.
type MmapResource struct {
	pageSize int
	mapped   int
}

// NewMmapResource returns a resource that maps memory directly from the kernel.
func NewMmapResource() (*MmapResource, error) {
	return &MmapResource{pageSize: unix.Getpagesize()}, nil
}

// Allocate implements MemoryResource.
func (r *MmapResource) Allocate(size, alignment int) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: bad request size=%d", ErrAllocFailed, size)
	}
	if alignment <= 0 || alignment > r.pageSize || alignment&(alignment-1) != 0 {
		return nil, fmt.Errorf("%w: alignment %d not supported by mmap", ErrAllocFailed, alignment)
	}

	length := (size + r.pageSize - 1) &^ (r.pageSize - 1)
	mem, err := unix.Mmap(-1, 0, length, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("%w: mmap %d bytes: %w", ErrAllocFailed, length, err)
	}
	r.mapped += length

	// The capacity keeps the full mapping so Deallocate can hand it back.
	return mem[:size], nil
}

// Deallocate implements MemoryResource.
func (r *MmapResource) Deallocate(b []byte, _ int) {
	if cap(b) == 0 {
		return
	}
	full := b[:cap(b)]
	if err := unix.Munmap(full); err != nil {
		logger.Warn("arena: munmap failed", "bytes", len(full), "err", err)
		return
	}
	r.mapped -= len(full)
}

// Mapped returns the number of bytes currently mapped by this resource.
func (r *MmapResource) Mapped() int {
	return r.mapped
}
