package dryad

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestVisitTree_FirstMatchWins tests handler priority.
func TestVisitTree_FirstMatchWins(t *testing.T) {
	tree := NewTree[testKind]()
	tree.SetRoot(nested(tree.Creator()))

	var got []string
	VisitTree(tree.Root(),
		On(func(l *leaf) { got = append(got, fmt.Sprintf("leaf %d", l.val)) }),
		OnAny(func(n Node[testKind]) { got = append(got, "any "+label(n)) }),
	)
	assert.Equal(t, []string{
		"any r", "any a", "leaf 1", "leaf 2", "leaf 3", "any b", "any c", "leaf 4",
	}, got)
}

// TestVisitTree_FilteredEventStillClaims tests that a handler ignoring an
// event still keeps later handlers from seeing the node.
func TestVisitTree_FilteredEventStillClaims(t *testing.T) {
	tree := NewTree[testKind]()
	tree.SetRoot(nested(tree.Creator()))

	var exits, others []string
	VisitTree(tree.Root(),
		OnExit(func(l *list) { exits = append(exits, l.label) }),
		OnAny(func(n Node[testKind]) { others = append(others, label(n)) }),
	)
	assert.Equal(t, []string{"a", "c", "b", "r"}, exits)
	assert.Equal(t, []string{"1", "2", "3", "4"}, others)
}

// TestVisitTree_Events tests OnEvent and OnEnter.
func TestVisitTree_Events(t *testing.T) {
	tree := NewTree[testKind]()
	tree.SetRoot(nested(tree.Creator()))

	var events []string
	var entered []string
	VisitTree(tree.Root(),
		OnEnter(func(l *list) { entered = append(entered, l.label) }),
		OnEvent(func(ev Event, l *leaf) { events = append(events, fmt.Sprintf("%s %d", ev, l.val)) }),
	)
	assert.Equal(t, []string{"r", "a", "b", "c"}, entered)
	assert.Equal(t, []string{"leaf 1", "leaf 2", "leaf 3", "leaf 4"}, events)
}

// TestVisitTree_Interface tests matching by an interface implemented by node types.
func TestVisitTree_Interface(t *testing.T) {
	tree := NewTree[testKind]()
	tree.SetRoot(nested(tree.Creator()))

	sum := 0
	VisitTree(tree.Root(), On(func(v valued) { sum += v.Value() }))
	assert.Equal(t, 10, sum)
}

// TestVisitTree_Children tests manual descent through Recurse.
func TestVisitTree_Children(t *testing.T) {
	tree := NewTree[testKind]()
	c := tree.Creator()

	// cond ? 1 : 2, evaluated lazily.
	cond := Create[tuple](c)
	cond.InitChildren(c, newName(c, "false"), newLeaf(c, 1), newLeaf(c, 2))
	root := newList(c, "r", cond, newLeaf(c, 3))
	tree.SetRoot(root)

	var visited []string
	var events []string
	VisitTree(tree.Root(),
		OnChildren(func(r Recurse, tp *tuple) {
			visited = append(visited, "tuple")
			if Cast[*name](tp.At(0)).text == "true" {
				r(tp.At(1))
			} else {
				r(tp.At(2))
			}
		}),
		On(func(l *leaf) { visited = append(visited, fmt.Sprint(l.val)) }),
		OnMatchEvent(AnyKind[testKind]{}, func(ev Event, n Node[testKind]) {
			events = append(events, fmt.Sprintf("%s(%s)", ev, label(n)))
		}),
	)
	assert.Equal(t, []string{"tuple", "2", "3"}, visited)
	assert.Equal(t, []string{"enter(r)", "exit(r)"}, events)
}

// TestVisitTree_KindMatchers tests OnKinds and OnKindRange.
func TestVisitTree_KindMatchers(t *testing.T) {
	tree := NewTree[testKind]()
	c := tree.Creator()
	p := Create[pair](c)
	p.InitChildren(newLeaf(c, 1), newName(c, "n"))
	tree.SetRoot(p)

	var got []string
	VisitTree(tree.Root(),
		OnKinds([]testKind{kindName}, func(n Node[testKind]) { got = append(got, "name") }),
		OnKindRange(kindList, kindBinary, func(n Node[testKind]) { got = append(got, "shape") }),
		OnKinds([]testKind{kindLeaf}, func(n Node[testKind]) { got = append(got, "leaf") }),
	)
	assert.Equal(t, []string{"shape", "leaf", "name"}, got)

	assert.True(t, KindRange[testKind]{Lo: kindList, Hi: kindTuple}.MatchKind(kindArray))
	assert.False(t, KindRange[testKind]{Lo: kindList, Hi: kindTuple}.MatchKind(kindLeaf))
	assert.True(t, KindSet[testKind]{kindLeaf, kindName}.MatchKind(kindName))
}

// TestVisitTreeAll tests that an unhandled node is a violation.
func TestVisitTreeAll(t *testing.T) {
	tree := NewTree[testKind]()
	tree.SetRoot(nested(tree.Creator()))

	n := 0
	VisitTreeAll(tree.Root(),
		On(func(*leaf) { n++ }),
		On(func(*list) { n++ }),
	)
	assert.Equal(t, 8, n)

	requireViolation(t, func() {
		VisitTreeAll(tree.Root(), On(func(*list) {}))
	})
}

// TestVisitNode tests single-node dispatch.
func TestVisitNode(t *testing.T) {
	c := NewTree[testKind]().Creator()
	var l Node[testKind] = newLeaf(c, 6)

	got := 0
	ok := VisitNode(l,
		On(func(n *name) { got = -1 }),
		On(func(n *leaf) { got = n.val }),
	)
	assert.True(t, ok)
	assert.Equal(t, 6, got)

	assert.False(t, VisitNode(l, On(func(*name) {})))
	assert.False(t, VisitNode[testKind](nil, OnAny(func(Node[testKind]) {})))

	// OnExit claims the node but a single visit never exits.
	called := false
	assert.True(t, VisitNode(l, OnExit(func(*leaf) { called = true })))
	assert.False(t, called)

	requireViolation(t, func() { VisitNodeAll(l, On(func(*name) {})) })
}

// TestVisitNode_Children tests that Recurse from VisitNode dispatches single children.
func TestVisitNode_Children(t *testing.T) {
	c := NewTree[testKind]().Creator()
	b := Create[binary](c)
	b.InitChildren(newLeaf(c, 2), newLeaf(c, 5))

	var eval func(n Node[testKind]) int
	eval = func(n Node[testKind]) int {
		var v int
		VisitNodeAll(n,
			On(func(l *leaf) { v = l.val }),
			OnChildren(func(r Recurse, b *binary) { v = eval(b.Left()) * eval(b.Right()) }),
		)
		return v
	}
	assert.Equal(t, 10, eval(b))

	var seen []int
	VisitNode[testKind](b,
		OnChildren(func(r Recurse, b *binary) {
			r(b.Right())
			r(b.Left())
		}),
		On(func(l *leaf) { seen = append(seen, l.val) }),
	)
	assert.Equal(t, []int{5, 2}, seen)
}
