package dryad

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eventLog(n Node[testKind]) []string {
	var out []string
	for ev, x := range Traverse(n) {
		out = append(out, fmt.Sprintf("%s(%s)", ev, label(x)))
	}
	return out
}

// TestTraverse_Scenario tests the event order of a root with three leaves.
func TestTraverse_Scenario(t *testing.T) {
	tree := NewTree[testKind]()
	c := tree.Creator()

	root := Create[list](c)
	root.label = "C"
	a, b, cc := newName(c, "A"), newName(c, "B"), newName(c, "C")
	root.InsertFront(a)
	root.InsertAfter(a, b)
	root.InsertAfter(b, cc)
	tree.SetRoot(root)

	var got []string
	for ev, n := range tree.Traverse() {
		got = append(got, fmt.Sprintf("%s(%s)", ev, label(n)))
	}
	assert.Equal(t, []string{"enter(C)", "leaf(A)", "leaf(B)", "leaf(C)", "exit(C)"}, got)
}

// nested builds r(a(1 2) 3 b(c() 4)).
func nested(c Creator[testKind]) *list {
	return newList(c, "r",
		newList(c, "a", newLeaf(c, 1), newLeaf(c, 2)),
		newLeaf(c, 3),
		newList(c, "b", newList(c, "c"), newLeaf(c, 4)),
	)
}

// TestTraverse_Nested tests pre/post order over nested containers, including an empty one.
func TestTraverse_Nested(t *testing.T) {
	tree := NewTree[testKind]()
	tree.SetRoot(nested(tree.Creator()))

	assert.Equal(t, []string{
		"enter(r)",
		"enter(a)", "leaf(1)", "leaf(2)", "exit(a)",
		"leaf(3)",
		"enter(b)", "enter(c)", "exit(c)", "leaf(4)", "exit(b)",
		"exit(r)",
	}, eventLog(tree.Root()))
}

// TestTraverse_EventBalance tests that every container is entered and exited once at matching depth.
func TestTraverse_EventBalance(t *testing.T) {
	tree := NewTree[testKind]()
	tree.SetRoot(nested(tree.Creator()))

	var stack []Node[testKind]
	counts := map[Event]int{}
	for ev, n := range tree.Traverse() {
		counts[ev]++
		switch ev {
		case EventEnter:
			stack = append(stack, n)
		case EventExit:
			require.NotEmpty(t, stack)
			assert.Same(t, stack[len(stack)-1], n)
			stack = stack[:len(stack)-1]
		}
	}
	assert.Empty(t, stack)
	assert.Equal(t, 4, counts[EventEnter])
	assert.Equal(t, 4, counts[EventExit])
	assert.Equal(t, 4, counts[EventLeaf])
}

// TestTraverse_Subtree tests that a walk started below the root stops after its start node.
func TestTraverse_Subtree(t *testing.T) {
	tree := NewTree[testKind]()
	root := nested(tree.Creator())
	tree.SetRoot(root)

	a := root.Front()
	assert.Equal(t, []string{"enter(a)", "leaf(1)", "leaf(2)", "exit(a)"}, eventLog(a))

	three := a.base().NextSibling()
	assert.Equal(t, []string{"leaf(3)"}, eventLog(three))
}

// TestTraverse_Unattached tests walks over nodes that are not part of a tree.
func TestTraverse_Unattached(t *testing.T) {
	c := NewTree[testKind]().Creator()

	assert.Equal(t, []string{"leaf(5)"}, eventLog(newLeaf(c, 5)))
	assert.Equal(t, []string{"enter(e)", "exit(e)"}, eventLog(newList(c, "e")))
	assert.Equal(t, []string{"enter(u)", "leaf(1)", "exit(u)"}, eventLog(newList(c, "u", newLeaf(c, 1))))
	assert.Empty(t, eventLog(nil))
}

// TestTraverse_Break tests that stopping early is safe.
func TestTraverse_Break(t *testing.T) {
	tree := NewTree[testKind]()
	tree.SetRoot(nested(tree.Creator()))

	n := 0
	for range tree.Traverse() {
		n++
		if n == 3 {
			break
		}
	}
	assert.Equal(t, 3, n)
}

// TestWalker_SkipChildren tests skipping a subtree together with its exit event.
func TestWalker_SkipChildren(t *testing.T) {
	tree := NewTree[testKind]()
	tree.SetRoot(nested(tree.Creator()))

	var got []string
	w := NewWalker(tree.Root())
	for w.Next() {
		got = append(got, fmt.Sprintf("%s(%s)", w.Event(), label(w.Node())))
		if l, ok := w.Node().(*list); ok && (l.label == "a" || l.label == "c") {
			w.SkipChildren()
		}
	}
	assert.Equal(t, []string{
		"enter(r)", "enter(a)", "leaf(3)", "enter(b)", "enter(c)", "leaf(4)", "exit(b)", "exit(r)",
	}, got)
	assert.False(t, w.Next())
}

// TestEvent_String tests event names.
func TestEvent_String(t *testing.T) {
	assert.Equal(t, "enter", EventEnter.String())
	assert.Equal(t, "exit", EventExit.String())
	assert.Equal(t, "leaf", EventLeaf.String())
	assert.Equal(t, "Event(7)", Event(7).String())
}
