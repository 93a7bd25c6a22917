package arena

import "errors"

var (
	// ErrAllocFailed indicates that a MemoryResource could not provide memory.
	ErrAllocFailed = errors.New("arena: allocation failed")

	// ErrMmapUnsupported indicates that MmapResource is not available on this platform.
	ErrMmapUnsupported = errors.New("arena: mmap resource not supported on this platform")

	// ErrInvalidOptions indicates that Options failed validation.
	ErrInvalidOptions = errors.New("arena: invalid options")
)
