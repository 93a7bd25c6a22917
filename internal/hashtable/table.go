// Package hashtable implements the fixed-capacity open-addressing table
// shared by dryad's hash forest, node maps and symbol tables.
//
// Capacity is always a power of two and never below the configured minimum.
// Collisions are resolved by linear probing. The table never grows on its
// own: callers check ShouldRehash before inserting and call
// Rehash(NextCapacity()) when it reports true. Removed slots become
// tombstones so probe sequences running through them still reach entries
// stored further along.
package hashtable

import (
	"iter"
	"math/bits"

	"github.com/joshuapare/dryad/internal/assert"
	"github.com/joshuapare/dryad/internal/logger"
)

// DefaultMinCapacity is the minimum capacity used when none is configured.
const DefaultMinCapacity = 64

type slotState uint8

const (
	slotEmpty slotState = iota
	slotFull
	slotRemoved
)

// Table is an open-addressing hash table over entries of type E.
// Entries are found by a precomputed hash plus a match predicate, so
// callers can look up by any key that hashes like the stored entries.
type Table[E any] struct {
	slots []E
	state []slotState

	size    int // full slots
	removed int // tombstones

	minCap int
	hash   func(E) uint64
}

// New returns an empty table with no slots. hash must return, for a stored
// entry, the hash its lookups are made with. minCapacity is rounded up to a
// power of two of at least two; values below one select DefaultMinCapacity.
func New[E any](minCapacity int, hash func(E) uint64) *Table[E] {
	if minCapacity < 1 {
		minCapacity = DefaultMinCapacity
	}
	return &Table[E]{
		minCap: roundPow2(max(minCapacity, 2)),
		hash:   hash,
	}
}

func roundPow2(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

// Len returns the number of entries.
func (t *Table[E]) Len() int { return t.size }

// Cap returns the number of slots.
func (t *Table[E]) Cap() int { return len(t.slots) }

// ToCapacity returns the capacity Rehash would use for a request of n slots.
func (t *Table[E]) ToCapacity(n int) int {
	return max(t.minCap, roundPow2(n))
}

// ShouldRehash reports whether the table must be rehashed before the next
// insertion. It holds once full slots and tombstones occupy half the table.
func (t *Table[E]) ShouldRehash() bool {
	return t.size+t.removed >= len(t.slots)/2
}

// NextCapacity returns the capacity to pass to Rehash once ShouldRehash
// holds. While live entries fill less than a quarter of the table the load
// is mostly tombstones, and rebuilding at the current capacity purges them;
// otherwise the capacity doubles.
func (t *Table[E]) NextCapacity() int {
	if t.size*4 < len(t.slots) {
		return len(t.slots)
	}
	return len(t.slots) * 2
}

// Entry is a handle to one slot returned by LookupEntry. A found entry refers
// to an existing match; otherwise it refers to the slot where a new entry
// belongs. A handle is invalidated by any other mutation of its table.
type Entry[E any] struct {
	t     *Table[E]
	idx   int
	found bool
}

// LookupEntry probes for an entry with the given hash accepted by match.
// The table must have a free slot, which ShouldRehash-gated inserts ensure.
func (t *Table[E]) LookupEntry(hash uint64, match func(E) bool) Entry[E] {
	assert.That(t.size < len(t.slots), "hashtable.LookupEntry", "table is full, rehash first")

	mask := len(t.slots) - 1
	idx := int(hash & uint64(mask))
	insert := -1
	for range len(t.slots) {
		switch t.state[idx] {
		case slotEmpty:
			if insert < 0 {
				insert = idx
			}
			return Entry[E]{t: t, idx: insert}
		case slotRemoved:
			if insert < 0 {
				insert = idx
			}
		case slotFull:
			if match(t.slots[idx]) {
				return Entry[E]{t: t, idx: idx, found: true}
			}
		}
		idx = (idx + 1) & mask
	}
	return Entry[E]{t: t, idx: insert}
}

// Find is a read-only lookup returning the slot index of a match.
// Unlike LookupEntry it accepts a table without slots.
func (t *Table[E]) Find(hash uint64, match func(E) bool) (int, bool) {
	if len(t.slots) == 0 {
		return -1, false
	}

	mask := len(t.slots) - 1
	idx := int(hash & uint64(mask))
	for range len(t.slots) {
		switch t.state[idx] {
		case slotEmpty:
			return -1, false
		case slotFull:
			if match(t.slots[idx]) {
				return idx, true
			}
		}
		idx = (idx + 1) & mask
	}
	return -1, false
}

// Found reports whether the entry refers to an existing match.
func (e Entry[E]) Found() bool { return e.found }

// Index returns the slot index, stable until the next Rehash.
func (e Entry[E]) Index() int { return e.idx }

// Get returns the stored entry. The entry must have been found.
func (e Entry[E]) Get() E {
	assert.That(e.found, "hashtable.Entry.Get", "entry was not found")
	return e.t.slots[e.idx]
}

// Create stores v in the free slot. The entry must not have been found, and
// v must hash like the lookup that produced the handle.
func (e Entry[E]) Create(v E) {
	assert.That(!e.found, "hashtable.Entry.Create", "entry already exists")
	t := e.t
	if t.state[e.idx] == slotRemoved {
		t.removed--
	}
	t.state[e.idx] = slotFull
	t.slots[e.idx] = v
	t.size++
}

// Set replaces a found entry with an equal one.
func (e Entry[E]) Set(v E) {
	assert.That(e.found, "hashtable.Entry.Set", "entry was not found")
	e.t.slots[e.idx] = v
}

// Remove turns a found entry into a tombstone.
func (e Entry[E]) Remove() {
	assert.That(e.found, "hashtable.Entry.Remove", "entry was not found")
	t := e.t
	var zero E
	t.slots[e.idx] = zero
	t.state[e.idx] = slotRemoved
	t.size--
	t.removed++
}

// Rehash moves every entry into a table of ToCapacity(capacity) slots, never
// fewer than the current capacity. Tombstones are dropped. moved, if non-nil,
// is called with the new and old slot index of every entry, letting callers
// relocate parallel arrays; Cap already reports the new capacity while it
// runs. Rehash reports false, and does nothing, when the table already has
// the requested capacity and no tombstones.
func (t *Table[E]) Rehash(capacity int, moved func(newIdx, oldIdx int)) bool {
	newCap := max(t.ToCapacity(capacity), len(t.slots))
	if newCap == len(t.slots) && t.removed == 0 {
		return false
	}

	oldSlots, oldState := t.slots, t.state
	oldCap, purged := len(oldSlots), t.removed

	t.slots = make([]E, newCap)
	t.state = make([]slotState, newCap)
	t.size, t.removed = 0, 0

	mask := newCap - 1
	for i, st := range oldState {
		if st != slotFull {
			continue
		}
		v := oldSlots[i]
		idx := int(t.hash(v) & uint64(mask))
		for t.state[idx] != slotEmpty {
			idx = (idx + 1) & mask
		}
		t.slots[idx] = v
		t.state[idx] = slotFull
		t.size++
		if moved != nil {
			moved(idx, i)
		}
	}

	logger.Debug("hashtable: rehash", "old_cap", oldCap, "new_cap", newCap,
		"entries", t.size, "tombstones", purged)
	return true
}

// Reset removes every entry but keeps the capacity.
func (t *Table[E]) Reset() {
	clear(t.slots)
	clear(t.state)
	t.size, t.removed = 0, 0
}

// All yields the slot index and value of every entry in slot order.
func (t *Table[E]) All() iter.Seq2[int, E] {
	return func(yield func(int, E) bool) {
		for i, st := range t.state {
			if st == slotFull && !yield(i, t.slots[i]) {
				return
			}
		}
	}
}

// At returns the entry stored in slot idx and whether the slot is occupied.
func (t *Table[E]) At(idx int) (E, bool) {
	if idx < 0 || idx >= len(t.slots) || t.state[idx] != slotFull {
		var zero E
		return zero, false
	}
	return t.slots[idx], true
}
