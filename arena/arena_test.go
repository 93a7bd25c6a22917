package arena

import (
	"errors"
	"fmt"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dassert "github.com/joshuapare/dryad/internal/assert"
)

type point struct {
	x, y int64
	next *point
}

// failingResource refuses every allocation.
type failingResource struct{}

var errNoMemory = errors.New("no memory")

func (failingResource) Allocate(int, int) ([]byte, error) { return nil, errNoMemory }
func (failingResource) Deallocate([]byte, int)           {}

// countingResource wraps HeapResource and counts outstanding blocks.
type countingResource struct {
	HeapResource
	live int
}

func (r *countingResource) Allocate(size, alignment int) ([]byte, error) {
	r.live++
	return r.HeapResource.Allocate(size, alignment)
}

func (r *countingResource) Deallocate(b []byte, alignment int) {
	r.live--
	r.HeapResource.Deallocate(b, alignment)
}

func addr(b []byte) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(b)))
}

func skipWithoutAsserts(t *testing.T) {
	t.Helper()
	if !dassert.Enabled {
		t.Skip("precondition checks compiled out")
	}
}

// TestArena_Allocate tests sizes and alignment of plain allocations.
func TestArena_Allocate(t *testing.T) {
	a := New()

	for _, align := range []int{1, 2, 4, 8} {
		b := a.Allocate(3, align)
		require.Len(t, b, 3)
		assert.Equal(t, 3, cap(b), "allocation should not expose spare capacity")
		assert.Zero(t, addr(b)%uintptr(align), "allocation should honor alignment %d", align)
	}

	st := a.Stats()
	assert.Equal(t, 1, st.Blocks)
	assert.Equal(t, DefaultBlockSize, st.BlockSize)
	assert.GreaterOrEqual(t, st.BytesInUse, 12)
}

// TestArena_Sequential tests that consecutive allocations do not overlap.
func TestArena_Sequential(t *testing.T) {
	a := New()
	first := a.Allocate(16, 8)
	second := a.Allocate(16, 8)
	assert.Equal(t, addr(first)+16, addr(second), "bump allocation should be contiguous")
}

// TestArena_BlockGrowth tests moving to a new block when the current one is full.
func TestArena_BlockGrowth(t *testing.T) {
	a, err := NewWithOptions(Options{BlockSize: 128})
	require.NoError(t, err)

	a.Allocate(100, 8)
	b := a.Allocate(100, 8)
	require.Len(t, b, 100)
	assert.Equal(t, 2, a.Stats().Blocks, "second allocation should not fit in the first block")

	// A full-block allocation is allowed.
	a.Allocate(128, 8)
	assert.Equal(t, 3, a.Stats().Blocks)
}

// TestArena_TooLarge tests the maximum allocation size contract.
func TestArena_TooLarge(t *testing.T) {
	skipWithoutAsserts(t)

	a := New()
	assert.PanicsWithError(t,
		fmt.Sprintf("dryad: precondition violated: arena.Allocate: size %d outside (0, %d]",
			DefaultBlockSize+1, DefaultBlockSize),
		func() { a.Allocate(DefaultBlockSize+1, 8) })
	assert.Panics(t, func() { a.Allocate(8, 16) }, "alignment above MaxAlignment")
	assert.Panics(t, func() { a.Allocate(8, 3) }, "alignment not a power of two")
}

// TestArena_UnwindReusesMemory tests that unwinding to Top replays the same addresses.
func TestArena_UnwindReusesMemory(t *testing.T) {
	a := New()
	a.Allocate(40, 8)

	m := a.Top()
	first := a.Allocate(24, 8)
	p1 := Construct[point](a)

	a.Unwind(m)
	second := a.Allocate(24, 8)
	p2 := Construct[point](a)

	assert.Equal(t, addr(first), addr(second), "byte allocation should reuse the unwound region")
	assert.Same(t, p1, p2, "typed allocation should reuse the unwound slot")
}

// TestArena_UnwindAcrossBlocks tests unwinding after the arena moved to a later block.
func TestArena_UnwindAcrossBlocks(t *testing.T) {
	a, err := NewWithOptions(Options{BlockSize: 64})
	require.NoError(t, err)

	a.Allocate(32, 8)
	m := a.Top()
	first := a.Allocate(32, 8)
	a.Allocate(64, 8)
	a.Allocate(64, 8)
	require.Equal(t, 3, a.Stats().Blocks)

	a.Unwind(m)
	assert.Equal(t, addr(first), addr(a.Allocate(32, 8)))

	// The later blocks are still linked and get reused in order.
	a.Allocate(64, 8)
	a.Allocate(64, 8)
	assert.Equal(t, 3, a.Stats().Blocks, "unwind should keep blocks linked")
}

// TestArena_UnwindBeforeFirstBlock tests a marker taken on an empty arena.
func TestArena_UnwindBeforeFirstBlock(t *testing.T) {
	a := New()
	m := a.Top()
	first := a.Allocate(8, 8)
	a.Unwind(m)
	assert.Equal(t, addr(first), addr(a.Allocate(8, 8)))
}

// TestArena_UnwindForeignMarker tests the marker ownership contract.
func TestArena_UnwindForeignMarker(t *testing.T) {
	skipWithoutAsserts(t)

	a, b := New(), New()
	m := b.Top()
	assert.Panics(t, func() { a.Unwind(m) })
}

// TestArena_ClearReplaysAddresses tests that Clear followed by the same
// allocation sequence yields identical addresses.
func TestArena_ClearReplaysAddresses(t *testing.T) {
	a, err := NewWithOptions(Options{BlockSize: 64})
	require.NoError(t, err)

	sizes := []int{8, 40, 24, 64, 3, 17}
	var before []uintptr
	for _, n := range sizes {
		before = append(before, addr(a.Allocate(n, 8)))
	}
	blocks := a.Stats().Blocks

	a.Clear()
	assert.Zero(t, a.Stats().BytesInUse)

	for i, n := range sizes {
		assert.Equal(t, before[i], addr(a.Allocate(n, 8)), "allocation %d", i)
	}
	assert.Equal(t, blocks, a.Stats().Blocks, "clear should retain blocks")
}

// TestArena_Release tests that Release hands blocks back to the resource.
func TestArena_Release(t *testing.T) {
	res := &countingResource{}
	a, err := NewWithOptions(Options{BlockSize: 64, Resource: res})
	require.NoError(t, err)

	for range 5 {
		a.Allocate(64, 8)
	}
	Construct[point](a)
	assert.Equal(t, 5, res.live)

	a.Release()
	assert.Zero(t, res.live)
	assert.Equal(t, Stats{BlockSize: 64}, a.Stats())

	// The arena is usable after a release.
	a.Allocate(8, 8)
	assert.Equal(t, 1, res.live)
}

// TestArena_ResourceFailure tests that a failing resource is fatal.
func TestArena_ResourceFailure(t *testing.T) {
	a, err := NewWithOptions(Options{Resource: failingResource{}})
	require.NoError(t, err)

	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		assert.ErrorIs(t, err, ErrAllocFailed)
		assert.ErrorIs(t, err, errNoMemory)
	}()
	a.Allocate(8, 8)
}

// TestOptions_Validate tests option validation.
func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{name: "zero value uses defaults", opts: Options{}},
		{name: "defaults", opts: DefaultOptions()},
		{name: "small block", opts: Options{BlockSize: MinBlockSize}},
		{name: "too small", opts: Options{BlockSize: 32}, wantErr: true},
		{name: "too large", opts: Options{BlockSize: MaxBlockSize + 8}, wantErr: true},
		{name: "unaligned", opts: Options{BlockSize: 100}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidOptions)
				_, err = NewWithOptions(tt.opts)
				assert.ErrorIs(t, err, ErrInvalidOptions)
				return
			}
			assert.NoError(t, err)
		})
	}
}

// TestCopyString tests copying text into arena storage.
func TestCopyString(t *testing.T) {
	a, err := NewWithOptions(Options{BlockSize: 64})
	require.NoError(t, err)

	assert.Equal(t, "", CopyString(a, ""))

	src := []byte("identifier")
	s := CopyString(a, string(src))
	src[0] = 'X'
	assert.Equal(t, "identifier", s, "copy should not alias the source")

	long := string(make([]byte, 100))
	assert.Equal(t, long, CopyString(a, long), "oversized strings fall back to the heap")
}

// TestHeapResource_Alignment tests the alignment guarantee of HeapResource.
func TestHeapResource_Alignment(t *testing.T) {
	var r HeapResource
	for _, align := range []int{1, 8, 16, 64} {
		b, err := r.Allocate(33, align)
		require.NoError(t, err)
		require.Len(t, b, 33)
		assert.Zero(t, addr(b)%uintptr(align), "alignment %d", align)
	}

	_, err := r.Allocate(8, 3)
	assert.ErrorIs(t, err, ErrAllocFailed)
}
