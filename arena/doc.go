// Package arena provides the bump-pointer region allocator that owns dryad's
// node storage.
//
// # Overview
//
// An Arena hands out memory in O(1) and never frees individual allocations.
// Memory is reclaimed in bulk: Unwind rewinds to a Marker taken with Top,
// Clear rewinds to the very beginning while keeping every block for reuse,
// and Release returns the blocks to their MemoryResource.
//
// Two kinds of storage share one arena:
//
//   - Byte blocks: a singly linked list of fixed-size blocks obtained from a
//     MemoryResource. Allocate bumps a position inside the current block and
//     moves to the next block (allocating it on first use) when the request
//     does not fit.
//   - Typed slabs: Construct and ConstructSlice carve zeroed values of a
//     given type out of per-type chunks. Slabs keep node values visible to the
//     garbage collector, so nodes may hold pointers and interfaces. A chunk
//     holds one block's worth of values, and at least one value of any size.
//
// A Marker covers both kinds, so a single Unwind undoes everything allocated
// after the matching Top.
//
// # Memory Resources
//
// Blocks come from a MemoryResource:
//
//   - HeapResource (default): Go heap slices, released by the garbage collector.
//   - MmapResource: anonymous private mappings via golang.org/x/sys/unix,
//     unmapped on Release. Unsupported platforms report ErrMmapUnsupported.
//
// A resource failure while allocating a block is fatal: the arena panics with
// an error wrapping ErrAllocFailed.
//
// # Usage Example
//
//	a := arena.New()
//	m := a.Top()
//	buf := a.Allocate(64, 8)
//	n := arena.Construct[myNode](a)
//	a.Unwind(m) // buf and n are reused by the next allocations
//
// # Lifetime
//
// Memory returned by an arena stays valid until it is unwound past, cleared or
// released. Using it afterwards is undefined behavior; with an MmapResource it
// typically faults.
//
// An Arena is not safe for concurrent use.
package arena
