package arena

import (
	"reflect"
	"unsafe"

	"github.com/joshuapare/dryad/internal/assert"
)

// slab is the type-erased view of a typedSlab used by markers.
type slab interface {
	mark() slabMark
	unwind(slabMark)
	reset()
	live() int
}

type slabMark struct {
	chunk int
	pos   int
}

// typedSlab bump-allocates values of one type out of fixed-length chunks.
// Chunks are never freed before Release, so pointers into them stay valid.
type typedSlab[T any] struct {
	chunks   [][]T
	chunk    int // index of the chunk currently served from
	pos      int // next free element in chunks[chunk]
	chunkLen int
}

// chunkLen returns how many values of T fit in one chunk: as many as fit in
// a block, and at least one even when T is larger than a block.
func chunkLen[T any](blockSize int) int {
	size := int(unsafe.Sizeof(*new(T)))
	if size == 0 {
		return blockSize
	}
	return max(blockSize/size, 1)
}

func newTypedSlab[T any](blockSize int) *typedSlab[T] {
	return &typedSlab[T]{chunkLen: chunkLen[T](blockSize)}
}

// alloc returns n contiguous zeroed elements.
func (s *typedSlab[T]) alloc(n int) []T {
	if len(s.chunks) == 0 {
		s.chunks = append(s.chunks, make([]T, s.chunkLen))
		s.chunk, s.pos = 0, 0
	}
	if s.pos+n > s.chunkLen {
		s.chunk++
		if s.chunk == len(s.chunks) {
			s.chunks = append(s.chunks, make([]T, s.chunkLen))
		}
		s.pos = 0
	}

	out := s.chunks[s.chunk][s.pos : s.pos+n : s.pos+n]
	clear(out)
	s.pos += n
	return out
}

func (s *typedSlab[T]) mark() slabMark {
	return slabMark{chunk: s.chunk, pos: s.pos}
}

func (s *typedSlab[T]) unwind(m slabMark) {
	s.chunk, s.pos = m.chunk, m.pos
}

func (s *typedSlab[T]) reset() {
	s.chunk, s.pos = 0, 0
}

func (s *typedSlab[T]) live() int {
	if len(s.chunks) == 0 {
		return 0
	}
	return s.chunk*s.chunkLen + s.pos
}

// slabFor returns the slab serving values of type T, creating it on first use.
func slabFor[T any](a *Arena) *typedSlab[T] {
	t := reflect.TypeFor[T]()
	if i, ok := a.slabIndex[t]; ok {
		return a.slabs[i].(*typedSlab[T])
	}

	s := newTypedSlab[T](a.opts.BlockSize)
	if a.slabIndex == nil {
		a.slabIndex = make(map[reflect.Type]int)
	}
	a.slabIndex[t] = len(a.slabs)
	a.slabs = append(a.slabs, s)
	return s
}

// Construct returns a pointer to a zeroed T owned by the arena.
// The value lives until the arena is unwound past it, cleared or released.
func Construct[T any](a *Arena) *T {
	return &slabFor[T](a).alloc(1)[0]
}

// SliceCap returns the largest n ConstructSlice accepts for T.
func SliceCap[T any](a *Arena) int {
	return chunkLen[T](a.opts.BlockSize)
}

// ConstructSlice returns n contiguous zeroed values of type T owned by the arena.
// n must not exceed SliceCap[T].
func ConstructSlice[T any](a *Arena, n int) []T {
	if n == 0 {
		return nil
	}
	s := slabFor[T](a)
	assert.Thatf(n > 0 && n <= s.chunkLen, "arena.ConstructSlice",
		"%d elements do not fit in one block (max %d)", n, s.chunkLen)
	return s.alloc(n)
}
