package dryad

import (
	"iter"

	"github.com/joshuapare/dryad/arena"
	"github.com/joshuapare/dryad/internal/assert"
)

// ArrayNode is a container with a fixed number of children of type C.
// The children are cached in an arena-allocated slice for O(1) indexed
// access; the link chain stays the traversal order.
type ArrayNode[K Kind, C Node[K]] struct {
	containerBase[K]
	items []C
}

// InitChildren links children in order and fixes the length of the node.
// The cache is allocated from the creator's arena, so at most
// arena.SliceCap[C] children fit.
func (a *ArrayNode[K, C]) InitChildren(c Creator[K], children ...C) {
	assert.That(a.items == nil && a.first == nil, "dryad.ArrayNode.InitChildren", "children already initialized")

	a.items = arena.ConstructSlice[C](c.arena, len(children))
	var prev *NodeBase[K]
	for i, child := range children {
		b := baseOf[K](child)
		checkUnlinked("dryad.ArrayNode.InitChildren", b)
		a.insertChildAfter(prev, b)
		a.items[i] = child
		prev = b
	}
}

// Len returns the number of children.
func (a *ArrayNode[K, C]) Len() int { return len(a.items) }

// At returns the i-th child.
func (a *ArrayNode[K, C]) At(i int) C {
	assert.Thatf(i >= 0 && i < len(a.items), "dryad.ArrayNode.At", "index %d out of range [0, %d)", i, len(a.items))
	return a.items[i]
}

// Items yields the index and value of every child.
func (a *ArrayNode[K, C]) Items() iter.Seq2[int, C] {
	return func(yield func(int, C) bool) {
		for i, c := range a.items {
			if !yield(i, c) {
				return
			}
		}
	}
}

// ReplaceAt swaps the i-th child with child and returns the unlinked old one.
func (a *ArrayNode[K, C]) ReplaceAt(i int, child C) C {
	assert.Thatf(i >= 0 && i < len(a.items), "dryad.ArrayNode.ReplaceAt", "index %d out of range [0, %d)", i, len(a.items))
	b := baseOf[K](child)
	checkUnlinked("dryad.ArrayNode.ReplaceAt", b)

	var pos *NodeBase[K]
	if i > 0 {
		pos = baseOf[K](a.items[i-1])
	}
	a.replaceChildAfter(pos, b)

	old := a.items[i]
	a.items[i] = child
	return old
}

// TupleNode is a container with a fixed sequence of children of different
// node types, addressed by position. Convert children with Cast.
type TupleNode[K Kind] struct {
	ArrayNode[K, Node[K]]
}
