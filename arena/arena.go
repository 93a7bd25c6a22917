package arena

import (
	"fmt"
	"reflect"
	"strings"
	"unsafe"

	"github.com/joshuapare/dryad/internal/assert"
	"github.com/joshuapare/dryad/internal/logger"
)

// block is one fixed-size chunk of byte storage.
type block struct {
	next *block
	mem  []byte
}

// Arena is a bump-pointer allocator over a linked list of blocks plus a set
// of typed slabs. See the package documentation for the lifetime rules.
type Arena struct {
	opts Options

	// head is the first block ever allocated; cur is the block allocations
	// are currently served from. Both are nil until the first Allocate.
	head *block
	cur  *block

	// pos is the bump pointer inside cur.
	pos int

	blocks int

	slabs     []slab
	slabIndex map[reflect.Type]int
}

// Marker records the allocation state of an arena. Unwinding to it discards
// every allocation made after it was taken.
type Marker struct {
	owner *Arena
	blk   *block
	pos   int
	slabs []slabMark
}

// Stats summarizes arena usage.
type Stats struct {
	Blocks       int `json:"blocks"`        // blocks obtained from the resource
	BlockSize    int `json:"block_size"`    // usable bytes per block
	BytesInUse   int `json:"bytes_in_use"`  // bytes handed out by Allocate, including padding
	Slabs        int `json:"slabs"`         // distinct types constructed
	SlabElements int `json:"slab_elements"` // live values across all slabs
}

// New returns an arena using DefaultOptions.
func New() *Arena {
	return &Arena{opts: DefaultOptions()}
}

// NewWithOptions returns an arena configured by opts.
// Zero fields in opts take their default values.
func NewWithOptions(opts Options) (*Arena, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Arena{opts: opts.withDefaults()}, nil
}

// BlockSize returns the usable size of every block, which is also the
// largest single allocation the arena supports.
func (a *Arena) BlockSize() int {
	return a.opts.BlockSize
}

// Resource returns the memory resource backing the arena's blocks.
func (a *Arena) Resource() MemoryResource {
	return a.opts.Resource
}

// Allocate returns size bytes aligned to alignment.
//
// The memory is not cleared: after Unwind or Clear it may still hold data
// from earlier allocations. size must be in (0, BlockSize] and alignment must
// be a power of two no larger than MaxAlignment.
func (a *Arena) Allocate(size, alignment int) []byte {
	assert.Thatf(size > 0 && size <= a.opts.BlockSize, "arena.Allocate",
		"size %d outside (0, %d]", size, a.opts.BlockSize)
	assert.Thatf(alignment > 0 && alignment <= MaxAlignment && alignment&(alignment-1) == 0,
		"arena.Allocate", "invalid alignment %d", alignment)

	if a.cur == nil {
		a.cur = a.nextBlock(nil)
		a.pos = 0
	}

	off := alignOffset(a.cur.mem, a.pos, alignment)
	if off+size > len(a.cur.mem) {
		a.cur = a.nextBlock(a.cur)
		a.pos = 0
		off = alignOffset(a.cur.mem, 0, alignment)
	}

	a.pos = off + size
	return a.cur.mem[off : off+size : off+size]
}

// nextBlock returns the block following after (the first block when after is
// nil), obtaining a new one from the resource if the list ends there.
func (a *Arena) nextBlock(after *block) *block {
	if after == nil && a.head != nil {
		return a.head
	}
	if after != nil && after.next != nil {
		return after.next
	}

	mem, err := a.opts.Resource.Allocate(a.opts.BlockSize, MaxAlignment)
	if err != nil {
		logger.Error("arena: block allocation failed", "size", a.opts.BlockSize, "err", err)
		panic(fmt.Errorf("%w: block of %d bytes: %w", ErrAllocFailed, a.opts.BlockSize, err))
	}

	blk := &block{mem: mem}
	if after == nil {
		a.head = blk
	} else {
		after.next = blk
	}
	a.blocks++

	logger.Debug("arena: block allocated", "blocks", a.blocks, "size", a.opts.BlockSize)
	return blk
}

// Top returns a marker for the current allocation state.
func (a *Arena) Top() Marker {
	m := Marker{owner: a, blk: a.cur, pos: a.pos}
	if len(a.slabs) > 0 {
		m.slabs = make([]slabMark, len(a.slabs))
		for i, s := range a.slabs {
			m.slabs[i] = s.mark()
		}
	}
	return m
}

// Unwind discards every allocation made after m was taken. The blocks stay
// linked, so the next allocations reuse the same memory in the same order.
func (a *Arena) Unwind(m Marker) {
	assert.That(m.owner == a, "arena.Unwind", "marker belongs to a different arena")

	if m.blk == nil {
		a.cur = a.head
		a.pos = 0
	} else {
		a.cur = m.blk
		a.pos = m.pos
	}

	for i, s := range a.slabs {
		if i < len(m.slabs) {
			s.unwind(m.slabs[i])
		} else {
			s.reset()
		}
	}
}

// Clear discards every allocation but keeps all blocks and slab chunks for reuse.
func (a *Arena) Clear() {
	a.cur = a.head
	a.pos = 0
	for _, s := range a.slabs {
		s.reset()
	}
}

// Release returns every block to the resource and drops all slabs.
// The arena is empty afterwards and may be used again.
func (a *Arena) Release() {
	for blk := a.head; blk != nil; {
		next := blk.next
		a.opts.Resource.Deallocate(blk.mem, MaxAlignment)
		blk.next, blk.mem = nil, nil
		blk = next
	}
	if a.blocks > 0 {
		logger.Debug("arena: released", "blocks", a.blocks)
	}

	a.head, a.cur, a.pos, a.blocks = nil, nil, 0, 0
	a.slabs = nil
	a.slabIndex = nil
}

// Stats reports the current usage of the arena.
func (a *Arena) Stats() Stats {
	st := Stats{
		Blocks:    a.blocks,
		BlockSize: a.opts.BlockSize,
		Slabs:     len(a.slabs),
	}
	for blk := a.head; blk != nil && blk != a.cur; blk = blk.next {
		st.BytesInUse += len(blk.mem)
	}
	if a.cur != nil {
		st.BytesInUse += a.pos
	}
	for _, s := range a.slabs {
		st.SlabElements += s.live()
	}
	return st
}

// CopyString copies s into arena byte storage and returns a string viewing it.
// Strings longer than one block are cloned onto the Go heap instead.
func CopyString(a *Arena, s string) string {
	if len(s) == 0 {
		return ""
	}
	if len(s) > a.opts.BlockSize {
		return strings.Clone(s)
	}
	b := a.Allocate(len(s), 1)
	copy(b, s)
	return unsafe.String(unsafe.SliceData(b), len(b))
}
