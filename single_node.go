package dryad

import "github.com/joshuapare/dryad/internal/assert"

// SingleNode is a container with exactly one child of type C.
// InitChild must be called once before the node is used.
type SingleNode[K Kind, C Node[K]] struct {
	containerBase[K]
}

// InitChild links the one child.
func (s *SingleNode[K, C]) InitChild(child C) {
	b := baseOf[K](child)
	checkUnlinked("dryad.SingleNode.InitChild", b)
	s.insertFirstChild(b)
}

// Child returns the child.
func (s *SingleNode[K, C]) Child() C {
	assert.That(s.first != nil, "dryad.SingleNode.Child", "child was never initialized")
	return s.first.self.(C)
}

// ReplaceChild swaps in child and returns the unlinked previous child.
func (s *SingleNode[K, C]) ReplaceChild(child C) C {
	b := baseOf[K](child)
	checkUnlinked("dryad.SingleNode.ReplaceChild", b)
	return s.replaceChildAfter(nil, b).self.(C)
}

// OptionalNode is a container with zero or one child of type C.
type OptionalNode[K Kind, C Node[K]] struct {
	containerBase[K]
}

// HasChild reports whether the child is present.
func (o *OptionalNode[K, C]) HasChild() bool { return o.first != nil }

// Child returns the child, or the zero C when absent.
func (o *OptionalNode[K, C]) Child() C { return as[C](o.first) }

// InsertChild links child. The node must not have a child yet.
func (o *OptionalNode[K, C]) InsertChild(child C) {
	b := baseOf[K](child)
	checkUnlinked("dryad.OptionalNode.InsertChild", b)
	o.insertFirstChild(b)
}

// EraseChild unlinks and returns the child, or the zero C when absent.
func (o *OptionalNode[K, C]) EraseChild() C {
	if o.first == nil {
		var zero C
		return zero
	}
	return o.eraseChildAfter(nil).self.(C)
}

// ReplaceChild sets the child and returns the unlinked previous one, or the
// zero C when there was none.
func (o *OptionalNode[K, C]) ReplaceChild(child C) C {
	b := baseOf[K](child)
	checkUnlinked("dryad.OptionalNode.ReplaceChild", b)
	if o.first == nil {
		o.insertFirstChild(b)
		var zero C
		return zero
	}
	return o.replaceChildAfter(nil, b).self.(C)
}
