package dryad

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dassert "github.com/joshuapare/dryad/internal/assert"
)

type testKind uint8

const (
	kindLeaf testKind = iota
	kindName
	kindList
	kindSeq
	kindSingle
	kindOptional
	kindArray
	kindTuple
	kindPair
	kindBinary
)

type leaf struct {
	NodeBase[testKind]
	val int
}

func (*leaf) NodeKind() testKind { return kindLeaf }
func (l *leaf) SetKey(v int)     { l.val = v }
func (l *leaf) Value() int       { return l.val }

type name struct {
	NodeBase[testKind]
	text string
}

func (*name) NodeKind() testKind { return kindName }

type list struct {
	ListNode[testKind, Node[testKind]]
	label string
}

func (*list) NodeKind() testKind { return kindList }

type seq struct {
	ContainerNode[testKind, *leaf]
}

func (*seq) NodeKind() testKind { return kindSeq }

type single struct {
	SingleNode[testKind, *leaf]
}

func (*single) NodeKind() testKind { return kindSingle }

type optional struct {
	OptionalNode[testKind, *leaf]
}

func (*optional) NodeKind() testKind { return kindOptional }

type array struct {
	ArrayNode[testKind, *leaf]
}

func (*array) NodeKind() testKind { return kindArray }

type tuple struct {
	TupleNode[testKind]
}

func (*tuple) NodeKind() testKind { return kindTuple }

type pair struct {
	PairNode[testKind, *leaf, *name]
}

func (*pair) NodeKind() testKind { return kindPair }

type binary struct {
	BinaryNode[testKind, Node[testKind], Node[testKind]]
}

func (*binary) NodeKind() testKind { return kindBinary }

type valued interface {
	Value() int
}

// testHasher compares leaves by value and names by text.
type testHasher struct{}

func (testHasher) HashNode(h *Hasher, n Node[testKind]) {
	switch n := n.(type) {
	case *leaf:
		h.Int(n.val)
	case *name:
		h.String(n.text)
	}
}

func (testHasher) EqualNode(a, b Node[testKind]) bool {
	switch a := a.(type) {
	case *leaf:
		return a.val == b.(*leaf).val
	case *name:
		return a.text == b.(*name).text
	}
	return true
}

func newLeaf(c Creator[testKind], v int) *leaf {
	l := Create[leaf](c)
	l.val = v
	return l
}

func newName(c Creator[testKind], text string) *name {
	n := Create[name](c)
	n.text = c.CopyString(text)
	return n
}

func newList(c Creator[testKind], label string, children ...Node[testKind]) *list {
	l := Create[list](c)
	l.label = label
	l.Append(children...)
	return l
}

// label names a node for event logs.
func label(n Node[testKind]) string {
	switch n := n.(type) {
	case *leaf:
		return fmt.Sprint(n.val)
	case *name:
		return n.text
	case *list:
		return n.label
	}
	return fmt.Sprintf("kind%d", n.Kind())
}

func skipWithoutAsserts(t *testing.T) {
	t.Helper()
	if !dassert.Enabled {
		t.Skip("precondition checks compiled out")
	}
}

// requireViolation runs fn and requires it to panic with a precondition violation.
func requireViolation(t *testing.T, fn func()) {
	t.Helper()
	skipWithoutAsserts(t)

	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a precondition violation")
		err, ok := r.(error)
		require.True(t, ok, "panic value %v is not an error", r)
		assert.True(t, errors.Is(err, dassert.ErrPrecondition), "unexpected panic: %v", err)
	}()
	fn()
}
