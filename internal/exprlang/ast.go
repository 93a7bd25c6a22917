// Package exprlang is a small expression language built on dryad trees.
//
// A program is a sequence of statements:
//
//	let x = 2;
//	let y = 1 + x * 3;
//	print if y then max(x, y) else -(x);
//	print let z = y % 4 in z * z;
//
// Values are 64-bit integers; conditions are true when nonzero. Names are
// bound by top-level let statements for the statements that follow, and by
// let expressions for their body.
package exprlang

import (
	"fmt"

	"github.com/joshuapare/dryad"
	"github.com/joshuapare/dryad/symbol"
)

// Kind identifies the node types of the language.
type Kind uint8

const (
	KindProgram Kind = iota
	KindLet
	KindPrint

	// Expression kinds are contiguous, see ExprKinds.
	KindNumber
	KindName
	KindNeg
	KindBinary
	KindIf
	KindCall
	KindGroup
	KindLetIn
)

// ExprKinds matches every expression node.
var ExprKinds = dryad.KindRange[Kind]{Lo: KindNumber, Hi: KindLetIn}

var kindNames = [...]string{
	KindProgram: "Program",
	KindLet:     "Let",
	KindPrint:   "Print",
	KindNumber:  "Number",
	KindName:    "Name",
	KindNeg:     "Neg",
	KindBinary:  "Binary",
	KindIf:      "If",
	KindCall:    "Call",
	KindGroup:   "Group",
	KindLetIn:   "LetIn",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Pos is a 1-based source position.
type Pos struct {
	Line, Col int
}

func (p Pos) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Col) }

// Stmt is implemented by statement nodes.
type Stmt interface {
	dryad.Node[Kind]
	stmt()
}

// Expr is implemented by expression nodes.
type Expr interface {
	dryad.Node[Kind]
	expr()
}

// Program is the root of a parsed source.
type Program struct {
	dryad.ListNode[Kind, Stmt]
}

func (*Program) NodeKind() Kind { return KindProgram }

// Let binds Name to the value of its child for the statements that follow.
type Let struct {
	dryad.SingleNode[Kind, Expr]
	Name symbol.Symbol
	Pos  Pos
}

func (*Let) NodeKind() Kind { return KindLet }
func (*Let) stmt()          {}

// Value returns the bound expression.
func (l *Let) Value() Expr { return l.Child() }

// Print writes the value of its child.
type Print struct {
	dryad.SingleNode[Kind, Expr]
	Pos Pos
}

func (*Print) NodeKind() Kind { return KindPrint }
func (*Print) stmt()          {}

// Number is an integer literal.
type Number struct {
	dryad.NodeBase[Kind]
	Value int64
}

func (*Number) NodeKind() Kind  { return KindNumber }
func (*Number) expr()           {}
func (n *Number) SetKey(v int64) { n.Value = v }

// Name references a binding.
type Name struct {
	dryad.NodeBase[Kind]
	Sym symbol.Symbol
	Pos Pos
}

func (*Name) NodeKind() Kind           { return KindName }
func (*Name) expr()                    {}
func (n *Name) SetKey(s symbol.Symbol) { n.Sym = s }

// Neg negates its child.
type Neg struct {
	dryad.SingleNode[Kind, Expr]
}

func (*Neg) NodeKind() Kind { return KindNeg }
func (*Neg) expr()          {}

// Op is a binary operator.
type Op uint8

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
	OpRem
	OpLess
	OpEqual
)

var opText = [...]string{
	OpAdd:   "+",
	OpSub:   "-",
	OpMul:   "*",
	OpDiv:   "/",
	OpRem:   "%",
	OpLess:  "<",
	OpEqual: "==",
}

func (o Op) String() string {
	if int(o) < len(opText) {
		return opText[o]
	}
	return fmt.Sprintf("Op(%d)", uint8(o))
}

// Binary applies Op to its two children.
type Binary struct {
	dryad.BinaryNode[Kind, Expr, Expr]
	Op  Op
	Pos Pos
}

func (*Binary) NodeKind() Kind { return KindBinary }
func (*Binary) expr()          {}

// If evaluates its condition, then exactly one of its branches.
type If struct {
	dryad.TupleNode[Kind]
}

func (*If) NodeKind() Kind { return KindIf }
func (*If) expr()          {}

func (n *If) Cond() Expr { return dryad.Cast[Expr](n.At(0)) }
func (n *If) Then() Expr { return dryad.Cast[Expr](n.At(1)) }
func (n *If) Else() Expr { return dryad.Cast[Expr](n.At(2)) }

// Call applies the builtin Fn to its arguments.
type Call struct {
	dryad.ArrayNode[Kind, Expr]
	Fn  symbol.Symbol
	Pos Pos
}

func (*Call) NodeKind() Kind { return KindCall }
func (*Call) expr()          {}

// Group is a parenthesized expression. The empty group () evaluates to 0.
type Group struct {
	dryad.OptionalNode[Kind, Expr]
}

func (*Group) NodeKind() Kind { return KindGroup }
func (*Group) expr()          {}

// LetIn binds Name to its first child while evaluating its second.
type LetIn struct {
	dryad.BinaryNode[Kind, Expr, Expr]
	Name symbol.Symbol
	Pos  Pos
}

func (*LetIn) NodeKind() Kind { return KindLetIn }
func (*LetIn) expr()          {}

// Value returns the bound expression.
func (l *LetIn) Value() Expr { return l.Left() }

// Body returns the expression evaluated with the binding in scope.
func (l *LetIn) Body() Expr { return l.Right() }
