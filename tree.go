package dryad

import (
	"iter"

	"github.com/joshuapare/dryad/arena"
	"github.com/joshuapare/dryad/internal/assert"
)

// Tree owns an arena and the single root built from it.
type Tree[K Kind] struct {
	arena *arena.Arena
	root  *NodeBase[K]
}

// NewTree returns an empty tree with its own default arena.
func NewTree[K Kind]() *Tree[K] {
	return &Tree[K]{arena: arena.New()}
}

// NewTreeWithArena returns an empty tree taking ownership of a.
func NewTreeWithArena[K Kind](a *arena.Arena) *Tree[K] {
	assert.That(a != nil, "dryad.NewTreeWithArena", "nil arena")
	return &Tree[K]{arena: a}
}

// Creator returns a creator allocating nodes owned by the tree.
func (t *Tree[K]) Creator() Creator[K] { return Creator[K]{arena: t.arena} }

// Arena returns the arena owned by the tree.
func (t *Tree[K]) Arena() *arena.Arena { return t.arena }

// Root returns the root, or nil for an empty tree.
func (t *Tree[K]) Root() Node[K] {
	if t.root == nil {
		return nil
	}
	return t.root.self
}

// SetRoot attaches n as the root. n must be unattached. A previous root is
// detached but stays allocated.
func (t *Tree[K]) SetRoot(n Node[K]) {
	b := baseOf(n)
	assert.That(b != nil, "dryad.Tree.SetRoot", "nil root")
	assert.Thatf(!b.IsLinked(), "dryad.Tree.SetRoot", "node of kind %d is already linked", int64(b.kind))

	if t.root != nil {
		t.root.unlink()
	}
	t.root = b
	b.setParent(b)
}

// Clear forgets the root and resets the arena. Every node created through
// the tree becomes invalid.
func (t *Tree[K]) Clear() {
	t.root = nil
	t.arena.Clear()
}

// Traverse walks the whole tree; see Traverse.
func (t *Tree[K]) Traverse() iter.Seq2[Event, Node[K]] {
	return Traverse(t.Root())
}

// Forest owns an arena and any number of roots, kept in insertion order.
type Forest[K Kind] struct {
	arena *arena.Arena
	roots []*NodeBase[K]
}

// NewForest returns an empty forest with its own default arena.
func NewForest[K Kind]() *Forest[K] {
	return &Forest[K]{arena: arena.New()}
}

// NewForestWithArena returns an empty forest taking ownership of a.
func NewForestWithArena[K Kind](a *arena.Arena) *Forest[K] {
	assert.That(a != nil, "dryad.NewForestWithArena", "nil arena")
	return &Forest[K]{arena: a}
}

// Creator returns a creator allocating nodes owned by the forest.
func (f *Forest[K]) Creator() Creator[K] { return Creator[K]{arena: f.arena} }

// Arena returns the arena owned by the forest.
func (f *Forest[K]) Arena() *arena.Arena { return f.arena }

// InsertRoot attaches n as a new root. n must be unattached.
func (f *Forest[K]) InsertRoot(n Node[K]) {
	b := baseOf(n)
	assert.That(b != nil, "dryad.Forest.InsertRoot", "nil root")
	assert.Thatf(!b.IsLinked(), "dryad.Forest.InsertRoot", "node of kind %d is already linked", int64(b.kind))

	b.setParent(b)
	f.roots = append(f.roots, b)
}

// InsertRoots attaches every node as a root, in order.
func (f *Forest[K]) InsertRoots(nodes ...Node[K]) {
	for _, n := range nodes {
		f.InsertRoot(n)
	}
}

// RootCount returns the number of roots.
func (f *Forest[K]) RootCount() int { return len(f.roots) }

// Roots yields the roots in insertion order.
func (f *Forest[K]) Roots() iter.Seq[Node[K]] {
	return func(yield func(Node[K]) bool) {
		for _, r := range f.roots {
			if !yield(r.self) {
				return
			}
		}
	}
}

// Clear forgets every root and resets the arena. Every node created through
// the forest becomes invalid.
func (f *Forest[K]) Clear() {
	clear(f.roots)
	f.roots = f.roots[:0]
	f.arena.Clear()
}
