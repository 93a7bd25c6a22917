package arena

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type big struct {
	payload [40]byte
}

// TestConstruct_Zeroed tests that constructed values start zeroed, even when
// their slot held data before an unwind.
func TestConstruct_Zeroed(t *testing.T) {
	a := New()
	m := a.Top()

	p := Construct[point](a)
	p.x, p.y = 1, 2
	p.next = p

	a.Unwind(m)
	q := Construct[point](a)
	require.Same(t, p, q)
	assert.Equal(t, point{}, *q)
}

// TestConstruct_DistinctTypes tests that every type gets its own slab.
func TestConstruct_DistinctTypes(t *testing.T) {
	a := New()
	p := Construct[point](a)
	b := Construct[big](a)
	p2 := Construct[point](a)

	assert.Equal(t, uintptr(unsafe.Pointer(p))+unsafe.Sizeof(point{}), uintptr(unsafe.Pointer(p2)),
		"values of one type should be packed")
	assert.NotNil(t, b)

	st := a.Stats()
	assert.Equal(t, 2, st.Slabs)
	assert.Equal(t, 3, st.SlabElements)
	assert.Zero(t, st.Blocks, "typed storage does not consume byte blocks")
}

// TestConstruct_ChunkRollover tests moving to a new chunk when one is full.
func TestConstruct_ChunkRollover(t *testing.T) {
	a, err := NewWithOptions(Options{BlockSize: 64})
	require.NoError(t, err)

	// 64 / 40 rounds down to one value per chunk.
	ptrs := map[*big]bool{}
	for range 4 {
		ptrs[Construct[big](a)] = true
	}
	assert.Len(t, ptrs, 4)
	assert.Equal(t, 4, a.Stats().SlabElements)

	a.Clear()
	assert.Zero(t, a.Stats().SlabElements)
	_, reused := ptrs[Construct[big](a)]
	assert.True(t, reused, "clear should reuse the first chunk")
}

// TestConstruct_UnwindDropsLaterSlabs tests unwinding a marker taken before a
// type was first constructed.
func TestConstruct_UnwindDropsLaterSlabs(t *testing.T) {
	a := New()
	m := a.Top()
	first := Construct[big](a)
	Construct[big](a)

	a.Unwind(m)
	assert.Zero(t, a.Stats().SlabElements)
	assert.Same(t, first, Construct[big](a))
}

// TestConstructSlice tests contiguous typed allocation.
func TestConstructSlice(t *testing.T) {
	a, err := NewWithOptions(Options{BlockSize: 64})
	require.NoError(t, err)

	assert.Nil(t, ConstructSlice[int64](a, 0))

	xs := ConstructSlice[int64](a, 6)
	require.Len(t, xs, 6)
	assert.Equal(t, 6, cap(xs))

	// Only two slots remain in the 8-element chunk, so this starts a new one.
	ys := ConstructSlice[int64](a, 4)
	require.Len(t, ys, 4)
	assert.Equal(t, 10+2, a.Stats().SlabElements, "skipped tail slots count as used")

	ys[0] = 7
	assert.Zero(t, xs[0], "slices must not overlap")
}

// TestConstruct_LargerThanBlock tests that a type larger than the block size
// still gets one value per chunk.
func TestConstruct_LargerThanBlock(t *testing.T) {
	type huge struct {
		payload [200]byte
	}
	a, err := NewWithOptions(Options{BlockSize: 64})
	require.NoError(t, err)

	assert.Equal(t, 1, SliceCap[huge](a))
	h1 := Construct[huge](a)
	h2 := Construct[huge](a)
	h1.payload[0] = 1
	assert.NotSame(t, h1, h2)
	assert.Zero(t, h2.payload[0])
	assert.Equal(t, 2, a.Stats().SlabElements)
	assert.Len(t, ConstructSlice[huge](a, 1), 1)
}

// TestSliceCap tests the per-chunk element count ConstructSlice accepts.
func TestSliceCap(t *testing.T) {
	a, err := NewWithOptions(Options{BlockSize: 64})
	require.NoError(t, err)
	assert.Equal(t, 8, SliceCap[int64](a))
	assert.Equal(t, 1, SliceCap[big](a))
	assert.Equal(t, DefaultBlockSize/16, SliceCap[any](New()))

	xs := ConstructSlice[int64](a, SliceCap[int64](a))
	assert.Len(t, xs, 8)
}

// TestConstructSlice_TooLarge tests the one-block limit of ConstructSlice.
func TestConstructSlice_TooLarge(t *testing.T) {
	skipWithoutAsserts(t)

	a, err := NewWithOptions(Options{BlockSize: 64})
	require.NoError(t, err)
	assert.Panics(t, func() { ConstructSlice[int64](a, 9) })
}
