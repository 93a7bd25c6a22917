//go:build !unix

package arena

// MmapResource is unavailable on this platform.
type MmapResource struct{}

// NewMmapResource always fails with ErrMmapUnsupported on this platform.
func NewMmapResource() (*MmapResource, error) {
	return nil, ErrMmapUnsupported
}

// Allocate implements MemoryResource.
func (*MmapResource) Allocate(int, int) ([]byte, error) {
	return nil, ErrMmapUnsupported
}

// Deallocate implements MemoryResource.
func (*MmapResource) Deallocate([]byte, int) {}

// Mapped always returns zero on this platform.
func (*MmapResource) Mapped() int { return 0 }
