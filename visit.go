package dryad

import (
	"fmt"
	"slices"

	"github.com/joshuapare/dryad/internal/assert"
)

// Matcher selects nodes by kind. KindSet, KindRange and AnyKind implement it.
type Matcher[K Kind] interface {
	MatchKind(k K) bool
}

// KindSet matches any of the listed kinds.
type KindSet[K Kind] []K

// MatchKind implements Matcher.
func (s KindSet[K]) MatchKind(k K) bool { return slices.Contains(s, k) }

// KindRange matches the kinds in [Lo, Hi].
type KindRange[K Kind] struct {
	Lo, Hi K
}

// MatchKind implements Matcher.
func (r KindRange[K]) MatchKind(k K) bool { return k >= r.Lo && k <= r.Hi }

// AnyKind matches every node.
type AnyKind[K Kind] struct{}

// MatchKind implements Matcher.
func (AnyKind[K]) MatchKind(K) bool { return true }

type eventMask uint8

const (
	maskEnter eventMask = 1 << EventEnter
	maskExit  eventMask = 1 << EventExit
	maskLeaf  eventMask = 1 << EventLeaf

	maskFirst = maskEnter | maskLeaf
	maskAll   = maskEnter | maskExit | maskLeaf
)

// Recurse runs the current visit over the subtree of child. It is handed to
// OnChildren callbacks so they can choose which children to descend into,
// and in which order.
type Recurse func(child any)

// Handler is one typed callback for VisitTree and VisitNode. Handlers are
// tried in order and the first whose type matches a node handles it, even
// when the handler ignores the current event. Put concrete types before
// interfaces and kind matchers that would also accept them.
type Handler struct {
	match    func(n any) bool
	events   eventMask
	call     func(ev Event, n any)
	children func(r Recurse, n any)
}

func typeMatch[N any](n any) bool {
	_, ok := n.(N)
	return ok
}

// On handles N when it is entered or visited as a leaf.
func On[N any](fn func(N)) Handler {
	return Handler{
		match:  typeMatch[N],
		events: maskFirst,
		call:   func(_ Event, n any) { fn(n.(N)) },
	}
}

// OnEvent handles every event of N.
func OnEvent[N any](fn func(Event, N)) Handler {
	return Handler{
		match:  typeMatch[N],
		events: maskAll,
		call:   func(ev Event, n any) { fn(ev, n.(N)) },
	}
}

// OnEnter handles N when it is entered. Non-containers are never entered.
func OnEnter[N any](fn func(N)) Handler {
	return Handler{
		match:  typeMatch[N],
		events: maskEnter,
		call:   func(_ Event, n any) { fn(n.(N)) },
	}
}

// OnExit handles N after its children were visited.
func OnExit[N any](fn func(N)) Handler {
	return Handler{
		match:  typeMatch[N],
		events: maskExit,
		call:   func(_ Event, n any) { fn(n.(N)) },
	}
}

// OnChildren handles N once and leaves its subtree to fn: the automatic
// traversal skips the children and the exit event of N.
func OnChildren[N any](fn func(Recurse, N)) Handler {
	return Handler{
		match:    typeMatch[N],
		events:   maskFirst,
		children: func(r Recurse, n any) { fn(r, n.(N)) },
	}
}

func kindMatch[K Kind](m Matcher[K]) func(n any) bool {
	return func(n any) bool {
		node, ok := n.(Node[K])
		return ok && m.MatchKind(node.Kind())
	}
}

// OnMatch handles the nodes selected by m when they are entered or visited
// as a leaf.
func OnMatch[K Kind](m Matcher[K], fn func(Node[K])) Handler {
	return Handler{
		match:  kindMatch(m),
		events: maskFirst,
		call:   func(_ Event, n any) { fn(n.(Node[K])) },
	}
}

// OnMatchEvent handles every event of the nodes selected by m.
func OnMatchEvent[K Kind](m Matcher[K], fn func(Event, Node[K])) Handler {
	return Handler{
		match:  kindMatch(m),
		events: maskAll,
		call:   func(ev Event, n any) { fn(ev, n.(Node[K])) },
	}
}

// OnKinds is OnMatch over a KindSet.
func OnKinds[K Kind](kinds []K, fn func(Node[K])) Handler {
	return OnMatch[K](KindSet[K](kinds), fn)
}

// OnKindRange is OnMatch over the kinds in [lo, hi].
func OnKindRange[K Kind](lo, hi K, fn func(Node[K])) Handler {
	return OnMatch[K](KindRange[K]{Lo: lo, Hi: hi}, fn)
}

// OnAny handles every node not taken by an earlier handler, on enter and leaf.
func OnAny[K Kind](fn func(Node[K])) Handler {
	return OnMatch[K](AnyKind[K]{}, fn)
}

func findHandler(handlers []Handler, n any) *Handler {
	for i := range handlers {
		if handlers[i].match(n) {
			return &handlers[i]
		}
	}
	return nil
}

// VisitTree traverses the subtree of n and dispatches every event to the
// first handler matching the node. Nodes without a handler are passed over.
func VisitTree[K Kind](n Node[K], handlers ...Handler) {
	visitTree(n, handlers, false)
}

// VisitTreeAll is VisitTree requiring a handler for every node.
func VisitTreeAll[K Kind](n Node[K], handlers ...Handler) {
	visitTree(n, handlers, true)
}

func visitTree[K Kind](n Node[K], handlers []Handler, all bool) {
	var recurse Recurse
	recurse = func(child any) {
		c, ok := child.(Node[K])
		assert.Thatf(ok, "dryad.VisitTree", "%T is not a node", child)
		walk(c, handlers, all, recurse)
	}
	walk(n, handlers, all, recurse)
}

func walk[K Kind](n Node[K], handlers []Handler, all bool, recurse Recurse) {
	w := NewWalker(n)
	for w.Next() {
		cur := w.cur.self
		h := findHandler(handlers, cur)
		if h == nil {
			if all {
				assert.That(false, "dryad.VisitTreeAll", unhandled(cur))
			}
			continue
		}
		if h.children != nil {
			w.SkipChildren()
			h.children(recurse, cur)
			continue
		}
		if h.events&(1<<w.ev) != 0 {
			h.call(w.ev, cur)
		}
	}
}

// VisitNode dispatches n alone to the first matching handler and reports
// whether one matched. Handlers run as for an enter or leaf event; an
// OnChildren handler receives a Recurse that visits each child the same way.
func VisitNode[K Kind](n Node[K], handlers ...Handler) bool {
	if n == nil {
		return false
	}
	h := findHandler(handlers, n)
	if h == nil {
		return false
	}
	ev := eventFor(n.base())
	switch {
	case h.children != nil:
		h.children(func(child any) {
			c, ok := child.(Node[K])
			assert.Thatf(ok, "dryad.VisitNode", "%T is not a node", child)
			VisitNode(c, handlers...)
		}, n)
	case h.events&(1<<ev) != 0:
		h.call(ev, n)
	}
	return true
}

// VisitNodeAll is VisitNode requiring a matching handler.
func VisitNodeAll[K Kind](n Node[K], handlers ...Handler) {
	if !VisitNode(n, handlers...) {
		assert.That(false, "dryad.VisitNodeAll", unhandled(n))
	}
}

func unhandled[K Kind](n Node[K]) string {
	if n == nil {
		return "nil node"
	}
	return fmt.Sprintf("no handler for %T (kind %d)", n, int64(n.Kind()))
}
