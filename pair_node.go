package dryad

import "github.com/joshuapare/dryad/internal/assert"

// PairNode is a container with two children of types A and B.
// The second child is cached so both are reachable in O(1).
type PairNode[K Kind, A, B Node[K]] struct {
	containerBase[K]
	second *NodeBase[K]
}

// InitChildren links both children. It must be called once.
func (p *PairNode[K, A, B]) InitChildren(first A, second B) {
	assert.That(p.first == nil, "dryad.PairNode.InitChildren", "children already initialized")
	fb, sb := baseOf[K](first), baseOf[K](second)
	checkUnlinked("dryad.PairNode.InitChildren", fb)
	checkUnlinked("dryad.PairNode.InitChildren", sb)
	assert.That(fb != sb, "dryad.PairNode.InitChildren", "the same node cannot be both children")

	p.insertFirstChild(fb)
	p.insertChildAfter(fb, sb)
	p.second = sb
}

// First returns the first child.
func (p *PairNode[K, A, B]) First() A { return as[A](p.first) }

// Second returns the second child.
func (p *PairNode[K, A, B]) Second() B { return as[B](p.second) }

// ReplaceFirst swaps the first child and returns the unlinked old one.
func (p *PairNode[K, A, B]) ReplaceFirst(child A) A {
	b := baseOf[K](child)
	checkUnlinked("dryad.PairNode.ReplaceFirst", b)
	return p.replaceChildAfter(nil, b).self.(A)
}

// ReplaceSecond swaps the second child and returns the unlinked old one.
func (p *PairNode[K, A, B]) ReplaceSecond(child B) B {
	b := baseOf[K](child)
	checkUnlinked("dryad.PairNode.ReplaceSecond", b)
	old := p.replaceChildAfter(p.first, b)
	p.second = b
	return old.self.(B)
}

// BinaryNode is a PairNode whose children are called left and right.
type BinaryNode[K Kind, L, R Node[K]] struct {
	PairNode[K, L, R]
}

// Left returns the left child.
func (b *BinaryNode[K, L, R]) Left() L { return b.First() }

// Right returns the right child.
func (b *BinaryNode[K, L, R]) Right() R { return b.Second() }

// ReplaceLeft swaps the left child and returns the unlinked old one.
func (b *BinaryNode[K, L, R]) ReplaceLeft(child L) L { return b.ReplaceFirst(child) }

// ReplaceRight swaps the right child and returns the unlinked old one.
func (b *BinaryNode[K, L, R]) ReplaceRight(child R) R { return b.ReplaceSecond(child) }
