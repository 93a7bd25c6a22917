package dryad

import (
	"fmt"
	"iter"
)

// Event tells why traversal reached a node.
type Event uint8

const (
	// EventEnter is the first visit of a container, before its children.
	EventEnter Event = iota
	// EventExit is the second visit of a container, after its children.
	EventExit
	// EventLeaf is the only visit of a non-container.
	EventLeaf
)

func (e Event) String() string {
	switch e {
	case EventEnter:
		return "enter"
	case EventExit:
		return "exit"
	case EventLeaf:
		return "leaf"
	}
	return fmt.Sprintf("Event(%d)", uint8(e))
}

func eventFor[K Kind](n *NodeBase[K]) Event {
	if n.container {
		return EventEnter
	}
	return EventLeaf
}

// Walker steps through a subtree in pre/post order using only the node links.
// It needs no stack: from a leaf or an exited container the next position is
// whatever the node links to.
type Walker[K Kind] struct {
	start *NodeBase[K]
	cur   *NodeBase[K]
	ev    Event

	started bool
	done    bool
	skip    bool
}

// NewWalker returns a walker over the subtree rooted at n. The walk ends
// after n itself is left, so n need not be a root; it may even be unattached.
func NewWalker[K Kind](n Node[K]) *Walker[K] {
	return &Walker[K]{start: baseOf(n)}
}

// Next advances to the next event and reports whether there was one.
func (w *Walker[K]) Next() bool {
	if w.done {
		return false
	}
	if !w.started {
		w.started = true
		if w.start == nil {
			w.done = true
			return false
		}
		w.cur, w.ev = w.start, eventFor(w.start)
		return true
	}

	if w.ev == EventEnter && !w.skip {
		if first := w.cur.first; first != nil {
			w.cur, w.ev = first, eventFor(first)
		} else {
			w.ev = EventExit
		}
		return true
	}
	w.skip = false

	// Leaving a leaf or an exited (or skipped) container.
	if w.cur == w.start {
		w.done = true
		return false
	}
	switch w.cur.link {
	case siblingLink:
		w.cur = w.cur.next
		w.ev = eventFor(w.cur)
	case parentLink:
		if w.cur.next == w.cur {
			w.done = true
			return false
		}
		w.cur = w.cur.next
		w.ev = EventExit
	default:
		w.done = true
		return false
	}
	return true
}

// Event returns the current event.
func (w *Walker[K]) Event() Event { return w.ev }

// Node returns the current node.
func (w *Walker[K]) Node() Node[K] { return w.cur.self }

// SkipChildren makes the next call to Next continue after the current
// container without visiting its children or its exit event. It has no effect
// unless the current event is EventEnter.
func (w *Walker[K]) SkipChildren() {
	if w.ev == EventEnter {
		w.skip = true
	}
}

// Traverse yields the events of a walk over the subtree rooted at n:
// EventEnter and EventExit around the children of every container, and
// EventLeaf for every other node. A nil n yields nothing.
func Traverse[K Kind](n Node[K]) iter.Seq2[Event, Node[K]] {
	return func(yield func(Event, Node[K]) bool) {
		w := NewWalker(n)
		for w.Next() {
			if !yield(w.ev, w.cur.self) {
				return
			}
		}
	}
}
