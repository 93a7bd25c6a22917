// Package dryad builds and traverses abstract syntax trees whose nodes live in
// an arena and link to each other through a single intrusive field.
//
// Every node embeds NodeBase. Instead of separate parent, first-child and
// next-sibling pointers, a node carries one link that is either unattached,
// points to its next sibling, or (for the last child) points back to its
// parent. The root of a tree links to itself as its own parent. This is enough
// to walk a whole subtree pre- and post-order without a stack.
//
// # Core Types
//
// NodeBase is the embedded header of every node. Container shapes embed it and
// add child handling:
//
//   - ContainerNode: any number of children with O(1) front and after insertion
//   - ListNode: a ContainerNode that also tracks its child count
//   - SingleNode, OptionalNode: exactly one or at most one child
//   - ArrayNode, TupleNode: a fixed number of children with indexed access
//   - PairNode, BinaryNode: two typed children
//
// Tree and Forest own an arena and the root(s) built from it. HashForest
// additionally interns structurally equal subtrees. NodeMap and NodeSet key
// hash tables by node identity.
//
// # Defining Nodes
//
// A concrete node type embeds NodeBase or one of the shapes and declares its
// kind on the pointer receiver:
//
//	type Kind uint8
//
//	const (
//		KindNumber Kind = iota
//		KindAdd
//	)
//
//	type Number struct {
//		dryad.NodeBase[Kind]
//		Value int
//	}
//
//	func (*Number) NodeKind() Kind { return KindNumber }
//
//	type Add struct {
//		dryad.BinaryNode[Kind, dryad.Node[Kind], dryad.Node[Kind]]
//	}
//
//	func (*Add) NodeKind() Kind { return KindAdd }
//
// # Usage Example
//
//	tree := dryad.NewTree[Kind]()
//	c := tree.Creator()
//
//	lhs := dryad.Create[Number](c)
//	lhs.Value = 1
//	rhs := dryad.Create[Number](c)
//	rhs.Value = 2
//
//	add := dryad.Create[Add](c)
//	add.InitChildren(lhs, rhs)
//	tree.SetRoot(add)
//
//	for ev, n := range tree.Traverse() {
//		fmt.Println(ev, n.Kind())
//	}
//
// # Contracts
//
// Misuse such as linking a node twice panics with a violation wrapping
// assert.ErrPrecondition. Building with the dryad_noassert tag removes the
// checks; violations then corrupt the tree silently.
//
// Nodes live exactly as long as their arena. Tree.Clear and friends reuse the
// memory, so nodes obtained before the call must not be used afterwards.
//
// Nothing in this package is safe for concurrent mutation.
package dryad
