package symbol

import (
	"fmt"

	"golang.org/x/text/unicode/norm"

	"github.com/joshuapare/dryad/arena"
)

const (
	// DefaultMinTableCapacity is the initial number of slots of the text index.
	DefaultMinTableCapacity = 1024

	// DefaultMinBufferSize is the size of every text buffer unless a single
	// text needs more.
	DefaultMinBufferSize = 16 * 1024

	minBufferSize = 64
)

// Options configures an Interner.
type Options struct {
	// MinTableCapacity is the initial number of index slots, rounded up to a
	// power of two. Zero selects DefaultMinTableCapacity.
	MinTableCapacity int

	// MinBufferSize is the size of each text buffer. Zero selects
	// DefaultMinBufferSize.
	MinBufferSize int

	// Resource provides the text buffers. Nil selects arena.HeapResource.
	Resource arena.MemoryResource

	// Normalize converts text to Form before interning, so canonically
	// equivalent spellings share a symbol.
	Normalize bool
	Form      norm.Form
}

// DefaultOptions returns the options used for a zero Options value.
func DefaultOptions() Options {
	return Options{
		MinTableCapacity: DefaultMinTableCapacity,
		MinBufferSize:    DefaultMinBufferSize,
		Resource:         arena.HeapResource{},
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MinTableCapacity == 0 {
		o.MinTableCapacity = d.MinTableCapacity
	}
	if o.MinBufferSize == 0 {
		o.MinBufferSize = d.MinBufferSize
	}
	if o.Resource == nil {
		o.Resource = d.Resource
	}
	return o
}

// Validate checks that the options describe a usable interner.
func (o Options) Validate() error {
	o = o.withDefaults()
	if o.MinTableCapacity < 0 {
		return fmt.Errorf("%w: negative table capacity %d", arena.ErrInvalidOptions, o.MinTableCapacity)
	}
	if o.MinBufferSize < minBufferSize {
		return fmt.Errorf("%w: buffer size %d below %d", arena.ErrInvalidOptions, o.MinBufferSize, minBufferSize)
	}
	if o.Normalize && o.Form > norm.NFKD {
		return fmt.Errorf("%w: unknown normalization form %d", arena.ErrInvalidOptions, o.Form)
	}
	return nil
}
