package exprlang

import (
	"errors"
	"fmt"
	"io"

	"github.com/joshuapare/dryad"
)

// ErrEval is wrapped by every EvalError.
var ErrEval = errors.New("exprlang: evaluation failed")

// EvalError reports a runtime failure such as a division by zero.
type EvalError struct {
	Pos Pos
	Msg string
}

func (e *EvalError) Error() string { return fmt.Sprintf("%s: %s", e.Pos, e.Msg) }

func (e *EvalError) Unwrap() error { return ErrEval }

// Evaluator runs a resolved program. Every evaluated expression keeps its
// value until the evaluator is discarded; the branch an if did not take is
// never evaluated.
type Evaluator struct {
	res *Resolution
	out io.Writer

	values   *dryad.NodeMap[Kind, int64] // by expression
	bound    *dryad.NodeMap[Kind, int64] // by declaration
	handlers []dryad.Handler

	err error
}

// NewEvaluator returns an evaluator printing to out.
func NewEvaluator(res *Resolution, out io.Writer) *Evaluator {
	e := &Evaluator{
		res:    res,
		out:    out,
		values: dryad.NewNodeMap[Kind, int64](dryad.DefaultTableOptions()),
		bound:  dryad.NewNodeMap[Kind, int64](dryad.DefaultTableOptions()),
	}
	e.handlers = []dryad.Handler{
		dryad.OnChildren(e.evalIf),
		dryad.OnChildren(e.evalLetIn),
		dryad.On(func(n *Number) { e.set(n, n.Value) }),
		dryad.On(e.evalName),
		dryad.OnExit(func(n *Neg) { e.set(n, -e.get(n.Child())) }),
		dryad.OnExit(e.evalBinary),
		dryad.OnExit(func(n *Group) {
			var v int64
			if n.HasChild() {
				v = e.get(n.Child())
			}
			e.set(n, v)
		}),
		dryad.OnExit(e.evalCall),
		dryad.OnExit(func(n *Let) {
			if e.err == nil {
				e.bound.InsertOrUpdate(n, e.get(n.Value()))
			}
		}),
		dryad.OnExit(func(n *Print) {
			if e.err != nil {
				return
			}
			if _, err := fmt.Fprintln(e.out, e.get(n.Child())); err != nil {
				e.err = err
			}
		}),
	}
	return e
}

// Eval runs the program of u, printing to out. A resolution with errors is
// refused.
func Eval(u *Unit, res *Resolution, out io.Writer) error {
	if err := res.Err(); err != nil {
		return err
	}
	return NewEvaluator(res, out).Run(u.Program)
}

// Run evaluates the statements of prog in order and stops at the first error.
func (e *Evaluator) Run(prog *Program) error {
	for s := range prog.Items() {
		dryad.VisitTree[Kind](s, e.handlers...)
		if e.err != nil {
			return e.err
		}
	}
	return nil
}

// Value returns the value x evaluated to, if it was evaluated.
func (e *Evaluator) Value(x Expr) (int64, bool) {
	return e.values.Lookup(x)
}

// Evaluated returns the number of expressions evaluated so far.
func (e *Evaluator) Evaluated() int { return e.values.Len() }

func (e *Evaluator) set(x Expr, v int64) {
	if e.err == nil {
		e.values.InsertOrUpdate(x, v)
	}
}

func (e *Evaluator) get(x Expr) int64 {
	v, _ := e.values.Lookup(x)
	return v
}

func (e *Evaluator) fail(pos Pos, format string, args ...any) {
	if e.err == nil {
		e.err = &EvalError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
	}
}

func (e *Evaluator) evalIf(rec dryad.Recurse, n *If) {
	rec(n.Cond())
	if e.err != nil {
		return
	}
	branch := n.Else()
	if e.get(n.Cond()) != 0 {
		branch = n.Then()
	}
	rec(branch)
	e.set(n, e.get(branch))
}

func (e *Evaluator) evalLetIn(rec dryad.Recurse, n *LetIn) {
	rec(n.Value())
	if e.err != nil {
		return
	}
	e.bound.InsertOrUpdate(n, e.get(n.Value()))
	rec(n.Body())
	e.set(n, e.get(n.Body()))
}

func (e *Evaluator) evalName(n *Name) {
	decl, ok := e.res.Bindings.Lookup(n)
	if !ok {
		e.fail(n.Pos, "unresolved name")
		return
	}
	v, ok := e.bound.Lookup(decl)
	if !ok {
		e.fail(n.Pos, "name used before its value is known")
		return
	}
	e.set(n, v)
}

func (e *Evaluator) evalBinary(n *Binary) {
	if e.err != nil {
		return
	}
	l, r := e.get(n.Left()), e.get(n.Right())
	var v int64
	switch n.Op {
	case OpAdd:
		v = l + r
	case OpSub:
		v = l - r
	case OpMul:
		v = l * r
	case OpDiv, OpRem:
		if r == 0 {
			e.fail(n.Pos, "division by zero")
			return
		}
		if n.Op == OpDiv {
			v = l / r
		} else {
			v = l % r
		}
	case OpLess:
		v = boolValue(l < r)
	case OpEqual:
		v = boolValue(l == r)
	default:
		e.fail(n.Pos, "unknown operator %s", n.Op)
		return
	}
	e.set(n, v)
}

func (e *Evaluator) evalCall(n *Call) {
	if e.err != nil {
		return
	}
	fn, ok := e.res.Calls.Lookup(n)
	if !ok {
		e.fail(n.Pos, "unresolved call")
		return
	}
	args := make([]int64, n.Len())
	for i, x := range n.Items() {
		args[i] = e.get(x)
	}
	e.set(n, fn.Fn(args))
}

func boolValue(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
