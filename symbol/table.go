package symbol

import (
	"iter"

	"github.com/joshuapare/dryad/internal/assert"
	"github.com/joshuapare/dryad/internal/hashtable"
)

func hashSymbol(s Symbol) uint64 { return hashtable.Mix64(uint64(s.id)) }

// Table binds symbols to declarations of type D. Binding a symbol that is
// already bound shadows the old declaration; restoring it is up to the
// caller. The zero value is an empty table with the default capacity.
type Table[D any] struct {
	minCap int
	table  *hashtable.Table[Symbol]
	decls  []D
}

// NewTable returns an empty table allocating at least minCapacity slots on
// first use. Zero selects the default of 64.
func NewTable[D any](minCapacity int) *Table[D] {
	return &Table[D]{minCap: minCapacity}
}

func (t *Table[D]) init() {
	if t.table == nil {
		t.table = hashtable.New(t.minCap, hashSymbol)
	}
}

func (t *Table[D]) find(s Symbol) (int, bool) {
	if t.table == nil {
		return -1, false
	}
	return t.table.Find(hashSymbol(s), func(x Symbol) bool { return x == s })
}

// InsertOrShadow binds s to d. If s was bound, the previous declaration is
// returned with shadowed set.
func (t *Table[D]) InsertOrShadow(s Symbol, d D) (prev D, shadowed bool) {
	assert.That(s.IsValid(), "symbol.Table.InsertOrShadow", "invalid symbol")

	t.init()
	if t.table.ShouldRehash() {
		t.rehash(t.table.NextCapacity())
	}
	e := t.table.LookupEntry(hashSymbol(s), func(x Symbol) bool { return x == s })
	if e.Found() {
		prev = t.decls[e.Index()]
		t.decls[e.Index()] = d
		return prev, true
	}
	e.Create(s)
	t.decls[e.Index()] = d
	return prev, false
}

// Remove unbinds s and returns the declaration it had.
func (t *Table[D]) Remove(s Symbol) (D, bool) {
	var zero D
	if t.table == nil || t.table.Len() == 0 {
		return zero, false
	}
	e := t.table.LookupEntry(hashSymbol(s), func(x Symbol) bool { return x == s })
	if !e.Found() {
		return zero, false
	}
	old := t.decls[e.Index()]
	t.decls[e.Index()] = zero
	e.Remove()
	return old, true
}

// Lookup returns the declaration bound to s.
func (t *Table[D]) Lookup(s Symbol) (D, bool) {
	idx, ok := t.find(s)
	if !ok {
		var zero D
		return zero, false
	}
	return t.decls[idx], true
}

// Contains reports whether s is bound.
func (t *Table[D]) Contains(s Symbol) bool {
	_, ok := t.find(s)
	return ok
}

// Len returns the number of bound symbols.
func (t *Table[D]) Len() int {
	if t.table == nil {
		return 0
	}
	return t.table.Len()
}

// Cap returns the number of table slots.
func (t *Table[D]) Cap() int {
	if t.table == nil {
		return 0
	}
	return t.table.Cap()
}

// Rehash grows the table to at least capacity slots, dropping tombstones.
func (t *Table[D]) Rehash(capacity int) {
	t.init()
	t.rehash(capacity)
}

func (t *Table[D]) rehash(capacity int) {
	var fresh []D
	moved := t.table.Rehash(capacity, func(newIdx, oldIdx int) {
		if fresh == nil {
			fresh = make([]D, t.table.Cap())
		}
		fresh[newIdx] = t.decls[oldIdx]
	})
	if !moved {
		return
	}
	if fresh == nil {
		fresh = make([]D, t.table.Cap())
	}
	t.decls = fresh
}

// All yields every binding in table order.
func (t *Table[D]) All() iter.Seq2[Symbol, D] {
	return func(yield func(Symbol, D) bool) {
		if t.table == nil {
			return
		}
		for idx, s := range t.table.All() {
			if !yield(s, t.decls[idx]) {
				return
			}
		}
	}
}
