package dryad

import "iter"

// ContainerNode is a container holding any number of children of type C,
// linked front to back. Positions are given as the child to insert or erase
// after; a nil position means the front.
type ContainerNode[K Kind, C Node[K]] struct {
	containerBase[K]
}

// Empty reports whether the container has no children.
func (c *ContainerNode[K, C]) Empty() bool { return c.first == nil }

// Front returns the first child, or the zero C when empty.
func (c *ContainerNode[K, C]) Front() C { return as[C](c.first) }

// Items yields the children as C.
func (c *ContainerNode[K, C]) Items() iter.Seq[C] {
	return func(yield func(C) bool) {
		for n := c.first; n != nil; n = n.nextChild() {
			if !yield(n.self.(C)) {
				return
			}
		}
	}
}

// InsertFront links child as the first child.
func (c *ContainerNode[K, C]) InsertFront(child C) {
	b := baseOf[K](child)
	checkUnlinked("dryad.ContainerNode.InsertFront", b)
	c.insertChildFront(b)
}

// InsertAfter links child after pos, which must be a child of c.
func (c *ContainerNode[K, C]) InsertAfter(pos Node[K], child C) {
	b := baseOf[K](child)
	checkUnlinked("dryad.ContainerNode.InsertAfter", b)
	c.insertChildAfter(baseOf(pos), b)
}

// EraseFront unlinks and returns the first child.
func (c *ContainerNode[K, C]) EraseFront() C {
	return c.eraseChildAfter(nil).self.(C)
}

// EraseAfter unlinks and returns the child following pos.
func (c *ContainerNode[K, C]) EraseAfter(pos Node[K]) C {
	return c.eraseChildAfter(baseOf(pos)).self.(C)
}

// ReplaceAfter replaces the child following pos with child and returns the
// unlinked old child.
func (c *ContainerNode[K, C]) ReplaceAfter(pos Node[K], child C) C {
	b := baseOf[K](child)
	checkUnlinked("dryad.ContainerNode.ReplaceAfter", b)
	return c.replaceChildAfter(baseOf(pos), b).self.(C)
}

// ListNode is a ContainerNode that tracks its child count.
type ListNode[K Kind, C Node[K]] struct {
	ContainerNode[K, C]
	count int
}

// Len returns the number of children.
func (l *ListNode[K, C]) Len() int { return l.count }

// InsertFront links child as the first child.
func (l *ListNode[K, C]) InsertFront(child C) {
	l.ContainerNode.InsertFront(child)
	l.count++
}

// InsertAfter links child after pos. A nil pos inserts at the front.
func (l *ListNode[K, C]) InsertAfter(pos Node[K], child C) {
	l.ContainerNode.InsertAfter(pos, child)
	l.count++
}

// Append links children after the current last child, in order.
// Finding the end is linear in the number of children.
func (l *ListNode[K, C]) Append(children ...C) {
	last := l.first
	for last != nil && last.link == siblingLink {
		last = last.next
	}
	for _, child := range children {
		b := baseOf[K](child)
		checkUnlinked("dryad.ListNode.Append", b)
		l.insertChildAfter(last, b)
		l.count++
		last = b
	}
}

// EraseFront unlinks and returns the first child.
func (l *ListNode[K, C]) EraseFront() C {
	old := l.ContainerNode.EraseFront()
	l.count--
	return old
}

// EraseAfter unlinks and returns the child following pos.
// A nil pos erases the first child.
func (l *ListNode[K, C]) EraseAfter(pos Node[K]) C {
	old := l.ContainerNode.EraseAfter(pos)
	l.count--
	return old
}
