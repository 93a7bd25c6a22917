package arena

import (
	"fmt"
	"unsafe"
)

const (
	// MaxAlignment is the largest alignment Allocate accepts.
	MaxAlignment = int(unsafe.Alignof(uintptr(0)))

	// DefaultBlockSize is the usable size of one block: 16 KiB minus the
	// pointer that links a block to the next one.
	DefaultBlockSize = 16*1024 - int(unsafe.Sizeof(uintptr(0)))

	// MinBlockSize is the smallest block size Options accepts.
	MinBlockSize = 64

	// MaxBlockSize is the largest block size Options accepts.
	MaxBlockSize = 1 << 30
)

// Options configures an Arena.
type Options struct {
	// BlockSize is the usable size of every block. It is also the largest
	// single allocation the arena supports. Zero selects DefaultBlockSize.
	BlockSize int

	// Resource provides the block memory. Nil selects HeapResource.
	Resource MemoryResource
}

// DefaultOptions returns the options used by New.
func DefaultOptions() Options {
	return Options{
		BlockSize: DefaultBlockSize,
		Resource:  HeapResource{},
	}
}

// withDefaults fills zero fields from DefaultOptions.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.BlockSize == 0 {
		o.BlockSize = d.BlockSize
	}
	if o.Resource == nil {
		o.Resource = d.Resource
	}
	return o
}

// Validate checks that the options describe a usable arena.
// Zero fields are valid and mean "use the default".
func (o Options) Validate() error {
	o = o.withDefaults()
	if o.BlockSize < MinBlockSize || o.BlockSize > MaxBlockSize {
		return fmt.Errorf("%w: block size %d outside [%d, %d]",
			ErrInvalidOptions, o.BlockSize, MinBlockSize, MaxBlockSize)
	}
	if o.BlockSize%MaxAlignment != 0 {
		return fmt.Errorf("%w: block size %d is not a multiple of %d",
			ErrInvalidOptions, o.BlockSize, MaxAlignment)
	}
	return nil
}
