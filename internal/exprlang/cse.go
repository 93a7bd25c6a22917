package exprlang

import (
	"github.com/joshuapare/dryad"
)

// exprHasher adds the node data that distinguishes expressions of the same
// kind and shape.
type exprHasher struct{}

func (exprHasher) HashNode(h *dryad.Hasher, n dryad.Node[Kind]) {
	switch x := n.(type) {
	case *Number:
		h.Int64(x.Value)
	case *Name:
		h.Int(x.Sym.Index())
	case *Binary:
		h.Byte(byte(x.Op))
	case *Call:
		h.Int(x.Fn.Index())
	case *LetIn:
		h.Int(x.Name.Index())
	}
}

func (exprHasher) EqualNode(a, b dryad.Node[Kind]) bool {
	switch x := a.(type) {
	case *Number:
		y, ok := b.(*Number)
		return ok && x.Value == y.Value
	case *Name:
		y, ok := b.(*Name)
		return ok && x.Sym == y.Sym
	case *Binary:
		y, ok := b.(*Binary)
		return ok && x.Op == y.Op
	case *Call:
		y, ok := b.(*Call)
		return ok && x.Fn == y.Fn
	case *LetIn:
		y, ok := b.(*LetIn)
		return ok && x.Name == y.Name
	}
	return true
}

// CSEReport counts repeated subexpressions.
type CSEReport struct {
	Expressions int `json:"expressions"` // expression nodes in the program
	Unique      int `json:"unique"`      // structurally distinct expressions
	Duplicates  int `json:"duplicates"`  // expressions equal to an earlier one
	Arena       int `json:"arena_bytes"` // bytes the interned copies occupy
}

// CSE interns a copy of every expression of u into a hash forest, so equal
// subexpressions collapse to one root, and reports the counts.
func CSE(u *Unit, opts dryad.TableOptions) CSEReport {
	f := dryad.NewHashForest[Kind, Expr](exprHasher{}, opts)
	defer f.Arena().Release()

	cl := newCloner()
	var rep CSEReport
	for ev, n := range dryad.Traverse[Kind](u.Program) {
		if ev == dryad.EventExit || !ExprKinds.MatchKind(n.Kind()) {
			continue
		}
		rep.Expressions++
		switch x := n.(type) {
		case *Number:
			dryad.LookupOrCreate[Number](f, x.Value)
		case *Name:
			dryad.LookupOrCreate[Name](f, x.Sym)
		default:
			f.Build(func(c dryad.Creator[Kind]) Expr {
				return cl.clone(c, dryad.Cast[Expr](n))
			})
		}
	}
	rep.Unique = f.RootCount()
	rep.Duplicates = rep.Expressions - rep.Unique
	rep.Arena = f.Arena().Stats().BytesInUse
	return rep
}

// cloner copies expression subtrees into another arena.
type cloner struct {
	c        dryad.Creator[Kind]
	out      Expr
	handlers []dryad.Handler
}

func newCloner() *cloner {
	cl := &cloner{}
	cl.handlers = []dryad.Handler{
		dryad.On(func(n *Number) {
			m := dryad.Create[Number](cl.c)
			m.Value = n.Value
			cl.out = m
		}),
		dryad.On(func(n *Name) {
			m := dryad.Create[Name](cl.c)
			m.Sym, m.Pos = n.Sym, n.Pos
			cl.out = m
		}),
		dryad.On(func(n *Neg) {
			m := dryad.Create[Neg](cl.c)
			m.InitChild(cl.copy(n.Child()))
			cl.out = m
		}),
		dryad.On(func(n *Binary) {
			l, r := cl.copy(n.Left()), cl.copy(n.Right())
			m := dryad.Create[Binary](cl.c)
			m.Op, m.Pos = n.Op, n.Pos
			m.InitChildren(l, r)
			cl.out = m
		}),
		dryad.On(func(n *If) {
			cond, then, els := cl.copy(n.Cond()), cl.copy(n.Then()), cl.copy(n.Else())
			m := dryad.Create[If](cl.c)
			m.InitChildren(cl.c, cond, then, els)
			cl.out = m
		}),
		dryad.On(func(n *Call) {
			args := make([]Expr, 0, n.Len())
			for _, x := range n.Items() {
				args = append(args, cl.copy(x))
			}
			m := dryad.Create[Call](cl.c)
			m.Fn, m.Pos = n.Fn, n.Pos
			m.InitChildren(cl.c, args...)
			cl.out = m
		}),
		dryad.On(func(n *Group) {
			m := dryad.Create[Group](cl.c)
			if n.HasChild() {
				m.InsertChild(cl.copy(n.Child()))
			}
			cl.out = m
		}),
		dryad.On(func(n *LetIn) {
			v, b := cl.copy(n.Value()), cl.copy(n.Body())
			m := dryad.Create[LetIn](cl.c)
			m.Name, m.Pos = n.Name, n.Pos
			m.InitChildren(v, b)
			cl.out = m
		}),
	}
	return cl
}

// clone returns an unattached copy of x allocated from c.
func (cl *cloner) clone(c dryad.Creator[Kind], x Expr) Expr {
	cl.c = c
	return cl.copy(x)
}

func (cl *cloner) copy(x Expr) Expr {
	dryad.VisitNodeAll[Kind](x, cl.handlers...)
	return cl.out
}
