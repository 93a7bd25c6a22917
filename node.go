package dryad

import (
	"fmt"
	"iter"
	"log/slog"
	"reflect"

	"github.com/joshuapare/dryad/arena"
	"github.com/joshuapare/dryad/internal/assert"
	"github.com/joshuapare/dryad/internal/logger"
)

// Kind is the constraint on node kind types. Kind values must lie in
// [0, MaxKind].
type Kind interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// MaxKind is the largest kind value a node may carry.
const MaxKind = 0x7FFF

func kindInRange[K Kind](k K) bool {
	return int64(k) >= 0 && uint64(k) <= MaxKind
}

// Color is scratch state for tree algorithms. dryad never reads or resets it.
type Color uint8

const (
	Uncolored Color = iota
	Black
	Grey
	White
)

func (c Color) String() string {
	switch c {
	case Uncolored:
		return "uncolored"
	case Black:
		return "black"
	case Grey:
		return "grey"
	case White:
		return "white"
	}
	return fmt.Sprintf("Color(%d)", uint8(c))
}

type linkState uint8

const (
	unattached linkState = iota
	siblingLink
	parentLink
)

// Node is implemented by every type embedding NodeBase.
type Node[K Kind] interface {
	Kind() K
	base() *NodeBase[K]
}

// NodeBase is the header embedded in every node.
type NodeBase[K Kind] struct {
	// next is the link target: the next sibling or, for the last child and
	// for a root, the parent. Nil while unattached.
	next *NodeBase[K]

	// first is the first child of a container.
	first *NodeBase[K]

	// self is the concrete node embedding this header.
	self Node[K]

	kind      K
	link      linkState
	color     Color
	container bool
}

func (n *NodeBase[K]) base() *NodeBase[K] { return n }

// containerShape is overridden by container shapes.
func (n *NodeBase[K]) containerShape() bool { return false }

// Kind returns the node kind.
func (n *NodeBase[K]) Kind() K { return n.kind }

// IsContainer reports whether the node can own children.
func (n *NodeBase[K]) IsContainer() bool { return n.container }

// IsLinked reports whether the node is attached to a tree, as root or child.
func (n *NodeBase[K]) IsLinked() bool { return n.link != unattached }

// IsRoot reports whether the node is attached as a root.
func (n *NodeBase[K]) IsRoot() bool { return n.link == parentLink && n.next == n }

// Color returns the scratch color.
func (n *NodeBase[K]) Color() Color { return n.color }

// SetColor sets the scratch color.
func (n *NodeBase[K]) SetColor(c Color) { n.color = c }

// Parent returns the container owning the node. A root is its own parent and
// an unattached node has none.
func (n *NodeBase[K]) Parent() Node[K] {
	if n.link == unattached {
		return nil
	}
	cur := n
	for cur.link == siblingLink {
		cur = cur.next
	}
	return cur.next.self
}

// NextSibling returns the following sibling, or nil for the last child,
// a root and an unattached node.
func (n *NodeBase[K]) NextSibling() Node[K] {
	if n.link != siblingLink {
		return nil
	}
	return n.next.self
}

// Siblings yields the other children of the node's parent, starting after the
// node and wrapping around to the first child. Roots and unattached nodes
// have no siblings.
func (n *NodeBase[K]) Siblings() iter.Seq[Node[K]] {
	return func(yield func(Node[K]) bool) {
		if n.link == unattached || n.IsRoot() {
			return
		}
		cur := n
		for {
			if cur.link == siblingLink {
				cur = cur.next
			} else {
				cur = cur.next.first
			}
			if cur == n || !yield(cur.self) {
				return
			}
		}
	}
}

// HasChildren reports whether the node is a container with at least one child.
func (n *NodeBase[K]) HasChildren() bool { return n.first != nil }

// Children yields the children of a container in order. Non-containers have none.
func (n *NodeBase[K]) Children() iter.Seq[Node[K]] {
	return func(yield func(Node[K]) bool) {
		for c := n.first; c != nil; c = c.nextChild() {
			if !yield(c.self) {
				return
			}
		}
	}
}

// nextChild returns the following sibling or nil after the last child.
func (n *NodeBase[K]) nextChild() *NodeBase[K] {
	if n.link == siblingLink {
		return n.next
	}
	return nil
}

func (n *NodeBase[K]) setSibling(s *NodeBase[K]) {
	n.next, n.link = s, siblingLink
}

func (n *NodeBase[K]) setParent(p *NodeBase[K]) {
	n.next, n.link = p, parentLink
}

func (n *NodeBase[K]) copyLink(from *NodeBase[K]) {
	n.next, n.link = from.next, from.link
}

func (n *NodeBase[K]) unlink() {
	n.next, n.link = nil, unattached
}

// LogValue implements slog.LogValuer.
func (n *NodeBase[K]) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("kind", int64(n.kind)),
		slog.Bool("container", n.container),
		slog.Bool("linked", n.IsLinked()),
	)
}

// Creator allocates nodes from an arena. Trees, forests and hash forests hand
// out creators bound to their own arena.
type Creator[K Kind] struct {
	arena *arena.Arena
}

// NewCreator returns a creator allocating from a.
func NewCreator[K Kind](a *arena.Arena) Creator[K] {
	return Creator[K]{arena: a}
}

// Arena returns the arena nodes are allocated from.
func (c Creator[K]) Arena() *arena.Arena { return c.arena }

// CopyString copies s into the creator's arena, tying its lifetime to the nodes.
func (c Creator[K]) CopyString(s string) string {
	return arena.CopyString(c.arena, s)
}

// nodeType is satisfied by pointers to concrete node types.
type nodeType[T any, K Kind] interface {
	*T
	Node[K]
	NodeKind() K
	containerShape() bool
}

// Create allocates an unattached, zeroed node of type T.
func Create[T any, K Kind, PT nodeType[T, K]](c Creator[K]) PT {
	assert.That(c.arena != nil, "dryad.Create", "creator has no arena")
	p := PT(arena.Construct[T](c.arena))
	initNode[T, K](p)
	return p
}

func initNode[T any, K Kind, PT nodeType[T, K]](p PT) {
	k := p.NodeKind()
	assert.Thatf(kindInRange(k), "dryad.Create", "kind %d outside [0, %d]", int64(k), MaxKind)

	b := p.base()
	b.kind = k
	b.container = p.containerShape()
	b.self = p
}

// Cast converts n to N, which is a concrete node pointer type or an interface
// implemented by node types. n must hold an N.
func Cast[N any, K Kind](n Node[K]) N {
	v, ok := TryCast[N](n)
	if !ok && n != nil {
		assert.Thatf(false, "dryad.Cast", "node of kind %d is not a %s", int64(n.Kind()), reflect.TypeFor[N]())
	}
	assert.That(n != nil, "dryad.Cast", "nil node")
	return v
}

// TryCast converts n to N, reporting false when n is nil or holds another type.
func TryCast[N any, K Kind](n Node[K]) (N, bool) {
	if n == nil {
		var zero N
		return zero, false
	}
	v, ok := n.base().self.(N)
	return v, ok
}

// HasKind reports whether n holds an N.
func HasKind[N any, K Kind](n Node[K]) bool {
	_, ok := TryCast[N](n)
	return ok
}

// SetLogger routes dryad's debug and violation logs to l.
// Passing nil restores the default, which discards everything.
func SetLogger(l *slog.Logger) {
	logger.Set(l)
}
