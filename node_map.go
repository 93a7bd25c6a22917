package dryad

import (
	"iter"
	"unsafe"

	"github.com/joshuapare/dryad/internal/assert"
	"github.com/joshuapare/dryad/internal/hashtable"
)

// TableOptions configures the hash tables behind HashForest and NodeMap.
type TableOptions struct {
	// MinCapacity is the number of slots allocated on first use, rounded up
	// to a power of two. Zero selects the default of 64.
	MinCapacity int
}

// DefaultTableOptions returns the options used by zero-value maps.
func DefaultTableOptions() TableOptions {
	return TableOptions{MinCapacity: hashtable.DefaultMinCapacity}
}

// hashPointer hashes node identity. Slab-allocated nodes sit at a fixed
// stride, so the address is mixed rather than shifted.
func hashPointer[K Kind](b *NodeBase[K]) uint64 {
	return hashtable.Mix64(uint64(uintptr(unsafe.Pointer(b))))
}

// NodeMap maps nodes, by identity, to values of type V. Values live in an
// array parallel to the table slots and move with their keys on rehash.
// The zero value is an empty map using DefaultTableOptions.
type NodeMap[K Kind, V any] struct {
	opts   TableOptions
	table  *hashtable.Table[*NodeBase[K]]
	values []V
}

// NewNodeMap returns an empty map. No slots are allocated until the first
// insertion.
func NewNodeMap[K Kind, V any](opts TableOptions) *NodeMap[K, V] {
	return &NodeMap[K, V]{opts: opts}
}

func (m *NodeMap[K, V]) init() {
	if m.table == nil {
		m.table = hashtable.New(m.opts.MinCapacity, hashPointer[K])
	}
}

func (m *NodeMap[K, V]) find(b *NodeBase[K]) (int, bool) {
	if m.table == nil || b == nil {
		return -1, false
	}
	return m.table.Find(hashPointer(b), func(x *NodeBase[K]) bool { return x == b })
}

// MapEntry is a handle to the slot of one node, returned by LookupEntry.
// It is invalidated by any other mutation of the map.
type MapEntry[K Kind, V any] struct {
	m   *NodeMap[K, V]
	e   hashtable.Entry[*NodeBase[K]]
	key *NodeBase[K]
}

// LookupEntry finds the slot of n, growing the table first if an insertion
// through the entry could overfill it.
func (m *NodeMap[K, V]) LookupEntry(n Node[K]) MapEntry[K, V] {
	b := baseOf(n)
	assert.That(b != nil, "dryad.NodeMap.LookupEntry", "nil node")

	m.init()
	if m.table.ShouldRehash() {
		m.rehash(m.table.NextCapacity())
	}
	e := m.table.LookupEntry(hashPointer(b), func(x *NodeBase[K]) bool { return x == b })
	return MapEntry[K, V]{m: m, e: e, key: b}
}

// Found reports whether the node is in the map.
func (e MapEntry[K, V]) Found() bool { return e.e.Found() }

// Node returns the key the entry was looked up with.
func (e MapEntry[K, V]) Node() Node[K] { return e.key.self }

// Value returns the mapped value. The entry must have been found.
func (e MapEntry[K, V]) Value() V {
	assert.That(e.e.Found(), "dryad.MapEntry.Value", "node is not in the map")
	return e.m.values[e.e.Index()]
}

// Insert adds the node with value v. The entry must not have been found.
func (e MapEntry[K, V]) Insert(v V) {
	e.e.Create(e.key)
	e.m.values[e.e.Index()] = v
}

// Update replaces the value of a found entry.
func (e MapEntry[K, V]) Update(v V) {
	assert.That(e.e.Found(), "dryad.MapEntry.Update", "node is not in the map")
	e.m.values[e.e.Index()] = v
}

// Remove deletes a found entry and returns its value.
func (e MapEntry[K, V]) Remove() V {
	assert.That(e.e.Found(), "dryad.MapEntry.Remove", "node is not in the map")
	idx := e.e.Index()
	old := e.m.values[idx]
	var zero V
	e.m.values[idx] = zero
	e.e.Remove()
	return old
}

// Lookup returns the value mapped to n.
func (m *NodeMap[K, V]) Lookup(n Node[K]) (V, bool) {
	idx, ok := m.find(baseOf(n))
	if !ok {
		var zero V
		return zero, false
	}
	return m.values[idx], true
}

// Contains reports whether n is in the map.
func (m *NodeMap[K, V]) Contains(n Node[K]) bool {
	_, ok := m.find(baseOf(n))
	return ok
}

// Insert maps n to v unless n is already present. It reports whether v was
// inserted.
func (m *NodeMap[K, V]) Insert(n Node[K], v V) bool {
	e := m.LookupEntry(n)
	if e.Found() {
		return false
	}
	e.Insert(v)
	return true
}

// InsertOrUpdate maps n to v and reports whether n was newly inserted.
func (m *NodeMap[K, V]) InsertOrUpdate(n Node[K], v V) bool {
	e := m.LookupEntry(n)
	if e.Found() {
		e.Update(v)
		return false
	}
	e.Insert(v)
	return true
}

// Remove deletes n and reports whether it was present.
func (m *NodeMap[K, V]) Remove(n Node[K]) bool {
	b := baseOf(n)
	if m.table == nil || m.table.Len() == 0 || b == nil {
		return false
	}
	e := m.table.LookupEntry(hashPointer(b), func(x *NodeBase[K]) bool { return x == b })
	if !e.Found() {
		return false
	}
	MapEntry[K, V]{m: m, e: e, key: b}.Remove()
	return true
}

// Len returns the number of nodes in the map.
func (m *NodeMap[K, V]) Len() int {
	if m.table == nil {
		return 0
	}
	return m.table.Len()
}

// Cap returns the number of table slots.
func (m *NodeMap[K, V]) Cap() int {
	if m.table == nil {
		return 0
	}
	return m.table.Cap()
}

// Rehash grows the table to at least capacity slots, dropping tombstones.
func (m *NodeMap[K, V]) Rehash(capacity int) {
	m.init()
	m.rehash(capacity)
}

func (m *NodeMap[K, V]) rehash(capacity int) {
	var fresh []V
	moved := m.table.Rehash(capacity, func(newIdx, oldIdx int) {
		if fresh == nil {
			fresh = make([]V, m.table.Cap())
		}
		fresh[newIdx] = m.values[oldIdx]
	})
	if !moved {
		return
	}
	if fresh == nil {
		fresh = make([]V, m.table.Cap())
	}
	m.values = fresh
}

// All yields every node and its value in table order.
func (m *NodeMap[K, V]) All() iter.Seq2[Node[K], V] {
	return func(yield func(Node[K], V) bool) {
		if m.table == nil {
			return
		}
		for idx, b := range m.table.All() {
			if !yield(b.self, m.values[idx]) {
				return
			}
		}
	}
}

// Clear removes every node but keeps the capacity.
func (m *NodeMap[K, V]) Clear() {
	if m.table == nil {
		return
	}
	m.table.Reset()
	clear(m.values)
}

// NodeSet is a set of nodes by identity. The zero value is an empty set.
type NodeSet[K Kind] struct {
	m NodeMap[K, struct{}]
}

// NewNodeSet returns an empty set.
func NewNodeSet[K Kind](opts TableOptions) *NodeSet[K] {
	return &NodeSet[K]{m: NodeMap[K, struct{}]{opts: opts}}
}

// Insert adds n and reports whether it was absent.
func (s *NodeSet[K]) Insert(n Node[K]) bool { return s.m.Insert(n, struct{}{}) }

// Remove deletes n and reports whether it was present.
func (s *NodeSet[K]) Remove(n Node[K]) bool { return s.m.Remove(n) }

// Contains reports whether n is in the set.
func (s *NodeSet[K]) Contains(n Node[K]) bool { return s.m.Contains(n) }

// Len returns the number of nodes in the set.
func (s *NodeSet[K]) Len() int { return s.m.Len() }

// Cap returns the number of table slots.
func (s *NodeSet[K]) Cap() int { return s.m.Cap() }

// Rehash grows the table to at least capacity slots.
func (s *NodeSet[K]) Rehash(capacity int) { s.m.Rehash(capacity) }

// Clear removes every node.
func (s *NodeSet[K]) Clear() { s.m.Clear() }

// All yields the nodes in table order.
func (s *NodeSet[K]) All() iter.Seq[Node[K]] {
	return func(yield func(Node[K]) bool) {
		for n := range s.m.All() {
			if !yield(n) {
				return
			}
		}
	}
}
