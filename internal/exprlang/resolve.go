package exprlang

import (
	"errors"
	"fmt"
	"math"

	"github.com/joshuapare/dryad"
	"github.com/joshuapare/dryad/symbol"
)

// ErrResolve is wrapped by the error of a resolution with error diagnostics.
var ErrResolve = errors.New("exprlang: resolve failed")

// Severity classifies a diagnostic.
type Severity uint8

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Diagnostic is one finding of the resolver.
type Diagnostic struct {
	Pos      Pos
	Severity Severity
	Msg      string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Pos, d.Severity, d.Msg)
}

// Builtin is a function callable from the language.
type Builtin struct {
	Name    string
	MinArgs int
	MaxArgs int // math.MaxInt for variadic functions
	Fn      func(args []int64) int64
}

var builtins = []Builtin{
	{Name: "abs", MinArgs: 1, MaxArgs: 1, Fn: func(a []int64) int64 {
		if a[0] < 0 {
			return -a[0]
		}
		return a[0]
	}},
	{Name: "max", MinArgs: 1, MaxArgs: math.MaxInt, Fn: func(a []int64) int64 {
		m := a[0]
		for _, v := range a[1:] {
			m = max(m, v)
		}
		return m
	}},
	{Name: "min", MinArgs: 1, MaxArgs: math.MaxInt, Fn: func(a []int64) int64 {
		m := a[0]
		for _, v := range a[1:] {
			m = min(m, v)
		}
		return m
	}},
}

// Resolution links names to their declarations and calls to builtins.
type Resolution struct {
	// Bindings maps every resolved Name to the *Let or *LetIn declaring it.
	Bindings *dryad.NodeMap[Kind, dryad.Node[Kind]]

	// Calls maps every resolved Call to its builtin.
	Calls *dryad.NodeMap[Kind, *Builtin]

	Diagnostics []Diagnostic
}

// Err returns the error diagnostics joined, or nil when there are none.
func (r *Resolution) Err() error {
	var errs []error
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityError {
			errs = append(errs, fmt.Errorf("%w: %s", ErrResolve, d))
		}
	}
	return errors.Join(errs...)
}

type resolver struct {
	syms  *symbol.Interner
	scope *symbol.Table[dryad.Node[Kind]]
	fns   *symbol.Table[*Builtin]
	res   *Resolution
}

// Resolve binds every name in u to the innermost declaration preceding it.
// Undefined names, unknown functions and wrong argument counts are errors;
// a declaration hiding another one is a warning.
func Resolve(u *Unit) *Resolution {
	r := &resolver{
		syms:  u.Symbols,
		scope: symbol.NewTable[dryad.Node[Kind]](0),
		fns:   symbol.NewTable[*Builtin](len(builtins) * 2),
		res: &Resolution{
			Bindings: dryad.NewNodeMap[Kind, dryad.Node[Kind]](dryad.DefaultTableOptions()),
			Calls:    dryad.NewNodeMap[Kind, *Builtin](dryad.DefaultTableOptions()),
		},
	}
	// Only names the source mentions can be called.
	for i := range builtins {
		if s, ok := u.Symbols.Lookup(builtins[i].Name); ok {
			r.fns.InsertOrShadow(s, &builtins[i])
		}
	}

	dryad.VisitTree[Kind](u.Program,
		dryad.OnChildren(func(rec dryad.Recurse, n *Let) {
			rec(n.Value())
			r.bind(n.Name, n, n.Pos)
		}),
		dryad.OnChildren(func(rec dryad.Recurse, n *LetIn) {
			rec(n.Value())
			prev, shadowed := r.bind(n.Name, n, n.Pos)
			rec(n.Body())
			if shadowed {
				r.scope.InsertOrShadow(n.Name, prev)
			} else {
				r.scope.Remove(n.Name)
			}
		}),
		dryad.On(func(n *Name) {
			decl, ok := r.scope.Lookup(n.Sym)
			if !ok {
				r.report(n.Pos, SeverityError, "undefined name %s", r.syms.Text(n.Sym))
				return
			}
			r.res.Bindings.Insert(n, decl)
		}),
		dryad.On(func(n *Call) {
			fn, ok := r.fns.Lookup(n.Fn)
			if !ok {
				r.report(n.Pos, SeverityError, "unknown function %s", r.syms.Text(n.Fn))
				return
			}
			if n.Len() < fn.MinArgs || n.Len() > fn.MaxArgs {
				r.report(n.Pos, SeverityError, "%s called with %d arguments", fn.Name, n.Len())
				return
			}
			r.res.Calls.Insert(n, fn)
		}),
	)
	return r.res
}

func (r *resolver) bind(name symbol.Symbol, decl dryad.Node[Kind], pos Pos) (dryad.Node[Kind], bool) {
	prev, shadowed := r.scope.InsertOrShadow(name, decl)
	if shadowed {
		r.report(pos, SeverityWarning, "%s shadows the declaration at %s", r.syms.Text(name), declPos(prev))
	}
	return prev, shadowed
}

func (r *resolver) report(pos Pos, sev Severity, format string, args ...any) {
	r.res.Diagnostics = append(r.res.Diagnostics, Diagnostic{
		Pos:      pos,
		Severity: sev,
		Msg:      fmt.Sprintf(format, args...),
	})
}

func declPos(n dryad.Node[Kind]) Pos {
	switch d := n.(type) {
	case *Let:
		return d.Pos
	case *LetIn:
		return d.Pos
	}
	return Pos{}
}
