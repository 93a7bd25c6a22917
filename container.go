package dryad

import "github.com/joshuapare/dryad/internal/assert"

// containerBase marks a node as a container and implements the link protocol
// shared by all shapes. The last child links back to the container with a
// parent link, so "is the last child" and "has no next sibling" coincide.
type containerBase[K Kind] struct {
	NodeBase[K]
}

func (c *containerBase[K]) containerShape() bool { return true }

func checkUnlinked[K Kind](op string, child *NodeBase[K]) {
	assert.That(child != nil, op, "nil child")
	assert.Thatf(!child.IsLinked(), op, "child of kind %d is already linked", int64(child.kind))
}

func (c *containerBase[K]) insertFirstChild(child *NodeBase[K]) {
	assert.That(c.first == nil, "dryad.insertFirstChild", "container already has children")
	c.first = child
	child.setParent(&c.NodeBase)
}

func (c *containerBase[K]) insertChildFront(child *NodeBase[K]) {
	if c.first == nil {
		c.insertFirstChild(child)
		return
	}
	child.setSibling(c.first)
	c.first = child
}

// insertChildAfter links child after pos; a nil pos inserts at the front.
func (c *containerBase[K]) insertChildAfter(pos, child *NodeBase[K]) {
	if pos == nil {
		c.insertChildFront(child)
		return
	}
	child.copyLink(pos)
	pos.setSibling(child)
}

// eraseChildAfter unlinks and returns the child following pos; a nil pos
// erases the first child.
func (c *containerBase[K]) eraseChildAfter(pos *NodeBase[K]) *NodeBase[K] {
	var child *NodeBase[K]
	if pos == nil {
		child = c.first
		assert.That(child != nil, "dryad.eraseChildAfter", "container has no children")
		c.first = child.nextChild()
	} else {
		assert.That(pos.link == siblingLink, "dryad.eraseChildAfter", "position is the last child")
		child = pos.next
		pos.copyLink(child)
	}
	child.unlink()
	return child
}

// replaceChildAfter swaps the child following pos (the first child for a nil
// pos) with child and returns the old one, now unlinked.
func (c *containerBase[K]) replaceChildAfter(pos, child *NodeBase[K]) *NodeBase[K] {
	var old *NodeBase[K]
	if pos == nil {
		old = c.first
		assert.That(old != nil, "dryad.replaceChildAfter", "container has no children")
		c.first = child
	} else {
		assert.That(pos.link == siblingLink, "dryad.replaceChildAfter", "position is the last child")
		old = pos.next
		pos.next = child
	}
	child.copyLink(old)
	old.unlink()
	return old
}

// childAt returns the i-th child, counting from zero.
func (c *containerBase[K]) childAt(i int) *NodeBase[K] {
	cur := c.first
	for ; i > 0 && cur != nil; i-- {
		cur = cur.nextChild()
	}
	return cur
}

// baseOf returns the header of n, or nil for a nil node.
func baseOf[K Kind](n Node[K]) *NodeBase[K] {
	if n == nil {
		return nil
	}
	return n.base()
}

// as converts a linked header back to the typed node it belongs to.
func as[C Node[K], K Kind](b *NodeBase[K]) C {
	if b == nil {
		var zero C
		return zero
	}
	return b.self.(C)
}
