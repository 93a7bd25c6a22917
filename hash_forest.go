package dryad

import (
	"iter"

	"github.com/joshuapare/dryad/arena"
	"github.com/joshuapare/dryad/internal/assert"
	"github.com/joshuapare/dryad/internal/hashtable"
	"github.com/joshuapare/dryad/internal/logger"
)

// Hasher accumulates a 64-bit FNV-1a hash.
type Hasher = hashtable.Hasher

// NodeHasher supplies the per-node part of structural hashing and equality.
// Kinds and tree shape are handled by the caller; HashNode and EqualNode
// only look at the scalar data of a single node, never at its children.
// EqualNode is only called on nodes of the same kind.
type NodeHasher[K Kind] interface {
	HashNode(h *Hasher, n Node[K])
	EqualNode(a, b Node[K]) bool
}

// KindHasher is a NodeHasher for trees whose nodes carry no data besides
// their kind and children.
type KindHasher[K Kind] struct{}

// HashNode implements NodeHasher.
func (KindHasher[K]) HashNode(*Hasher, Node[K]) {}

// EqualNode implements NodeHasher.
func (KindHasher[K]) EqualNode(Node[K], Node[K]) bool { return true }

// StructuralHash hashes the subtree of n: every event, the kind of every
// node and whatever hasher adds per node.
func StructuralHash[K Kind](hasher NodeHasher[K], n Node[K]) uint64 {
	h := hashtable.NewHasher()
	for ev, x := range Traverse(n) {
		h.Byte(byte(ev))
		if ev == EventExit {
			continue
		}
		h.Uint16(uint16(x.Kind()))
		hasher.HashNode(&h, x)
	}
	return h.Sum64()
}

// StructuralEqual reports whether the subtrees of a and b have the same shape,
// the same kinds and pairwise equal nodes according to hasher.
func StructuralEqual[K Kind](hasher NodeHasher[K], a, b Node[K]) bool {
	wa, wb := NewWalker(a), NewWalker(b)
	for {
		na, nb := wa.Next(), wb.Next()
		if na != nb {
			return false
		}
		if !na {
			return true
		}
		if wa.ev != wb.ev {
			return false
		}
		if wa.ev == EventExit {
			continue
		}
		x, y := wa.cur.self, wb.cur.self
		if x.Kind() != y.Kind() || !hasher.EqualNode(x, y) {
			return false
		}
	}
}

type hashEntry[K Kind] struct {
	root *NodeBase[K]
	hash uint64
}

// HashForest is a forest that interns its roots: building a root structurally
// equal to an existing one returns the existing root and gives the memory of
// the new one back to the arena. Roots are of type R.
type HashForest[K Kind, R Node[K]] struct {
	arena    *arena.Arena
	hasher   NodeHasher[K]
	table    *hashtable.Table[hashEntry[K]]
	building bool
}

func hashOfEntry[K Kind](e hashEntry[K]) uint64 { return e.hash }

// NewHashForest returns an empty hash forest with its own default arena.
func NewHashForest[K Kind, R Node[K]](hasher NodeHasher[K], opts TableOptions) *HashForest[K, R] {
	return NewHashForestWithArena[K, R](arena.New(), hasher, opts)
}

// NewHashForestWithArena returns an empty hash forest taking ownership of a.
func NewHashForestWithArena[K Kind, R Node[K]](a *arena.Arena, hasher NodeHasher[K], opts TableOptions) *HashForest[K, R] {
	assert.That(a != nil, "dryad.NewHashForest", "nil arena")
	assert.That(hasher != nil, "dryad.NewHashForest", "nil hasher")
	return &HashForest[K, R]{
		arena:  a,
		hasher: hasher,
		table:  hashtable.New(opts.MinCapacity, hashOfEntry[K]),
	}
}

// Creator returns a creator allocating nodes owned by the forest.
func (f *HashForest[K, R]) Creator() Creator[K] { return Creator[K]{arena: f.arena} }

// Arena returns the arena owned by the forest.
func (f *HashForest[K, R]) Arena() *arena.Arena { return f.arena }

func (f *HashForest[K, R]) ensureRoom() {
	if f.table.ShouldRehash() {
		f.table.Rehash(f.table.NextCapacity(), nil)
	}
}

// Build runs construct and interns the unattached root it returns. If an
// equal root exists, the arena is unwound to where it was before construct
// ran and the existing root is returned; every node construct created is then
// invalid. construct must only allocate through the creator it is given and
// must not use the forest itself.
func (f *HashForest[K, R]) Build(construct func(Creator[K]) R) R {
	assert.That(!f.building, "dryad.HashForest.Build", "nested build on the same forest")
	f.ensureRoom()

	mark := f.arena.Top()
	f.building = true
	root := construct(f.Creator())
	f.building = false

	b := baseOf[K](root)
	assert.That(b != nil, "dryad.HashForest.Build", "construct returned nil")
	assert.That(!b.IsLinked(), "dryad.HashForest.Build", "root is already linked")

	hash := StructuralHash(f.hasher, root)
	e := f.table.LookupEntry(hash, func(x hashEntry[K]) bool {
		return x.hash == hash && StructuralEqual(f.hasher, x.root.self, Node[K](root))
	})
	if e.Found() {
		existing := e.Get().root
		f.arena.Unwind(mark)
		logger.Debug("dryad: hash forest hit", "kind", int64(existing.kind))
		return existing.self.(R)
	}

	b.setParent(b)
	e.Create(hashEntry[K]{root: b, hash: hash})
	return root
}

// Intern builds a single node of type T, initialized by init, and interns it.
func Intern[T any, K Kind, R Node[K], PT nodeType[T, K]](f *HashForest[K, R], init func(PT)) R {
	return f.Build(func(c Creator[K]) R {
		n := Create[T, K, PT](c)
		if init != nil {
			init(n)
		}
		r, ok := any(n).(R)
		assert.Thatf(ok, "dryad.Intern", "%T is not a root type of the forest", n)
		return r
	})
}

// KeyedNode is implemented by leaf node types that can be interned by a key
// through LookupOrCreate. SetKey stores the node data the key stands for.
type KeyedNode[Key any] interface {
	SetKey(key Key)
}

type keyedNodeType[T any, K Kind, Key any] interface {
	nodeType[T, K]
	KeyedNode[Key]
}

// LookupOrCreate returns the root of type T holding key, creating it only
// when no equal root exists. Nothing is allocated from the arena on a hit.
func LookupOrCreate[T any, K Kind, R Node[K], Key any, PT keyedNodeType[T, K, Key]](f *HashForest[K, R], key Key) R {
	var tmp T
	probe := PT(&tmp)
	initNode[T, K](probe)
	probe.SetKey(key)

	f.ensureRoom()
	hash := StructuralHash[K](f.hasher, probe)
	e := f.table.LookupEntry(hash, func(x hashEntry[K]) bool {
		return x.hash == hash && StructuralEqual[K](f.hasher, x.root.self, probe)
	})
	if e.Found() {
		return e.Get().root.self.(R)
	}

	n := Create[T, K, PT](f.Creator())
	*n = tmp
	b := n.base()
	b.self = n
	assert.That(b.first == nil, "dryad.LookupOrCreate", "keyed node has children")

	r, ok := any(n).(R)
	assert.Thatf(ok, "dryad.LookupOrCreate", "%T is not a root type of the forest", n)
	b.setParent(b)
	e.Create(hashEntry[K]{root: b, hash: hash})
	return r
}

// RootCount returns the number of interned roots.
func (f *HashForest[K, R]) RootCount() int { return f.table.Len() }

// RootCapacity returns the number of table slots.
func (f *HashForest[K, R]) RootCapacity() int { return f.table.Cap() }

// Rehash grows the root table to at least capacity slots.
func (f *HashForest[K, R]) Rehash(capacity int) { f.table.Rehash(capacity, nil) }

// Roots yields the interned roots in table order.
func (f *HashForest[K, R]) Roots() iter.Seq[R] {
	return func(yield func(R) bool) {
		for _, e := range f.table.All() {
			if !yield(e.root.self.(R)) {
				return
			}
		}
	}
}

// Clear forgets every root and resets the arena.
func (f *HashForest[K, R]) Clear() {
	f.table.Reset()
	f.arena.Clear()
}
