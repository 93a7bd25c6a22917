package exprlang

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/joshuapare/dryad"
	"github.com/joshuapare/dryad/arena"
	"github.com/joshuapare/dryad/symbol"
)

// ErrSyntax is wrapped by every SyntaxError.
var ErrSyntax = errors.New("exprlang: syntax error")

// SyntaxError reports malformed source.
type SyntaxError struct {
	Pos Pos
	Msg string
}

func (e *SyntaxError) Error() string { return fmt.Sprintf("%s: %s", e.Pos, e.Msg) }

func (e *SyntaxError) Unwrap() error { return ErrSyntax }

// Options configures the memory of a Unit.
type Options struct {
	Arena   arena.Options
	Symbols symbol.Options
}

// Unit is a parsed source: its tree and the interner holding its names.
type Unit struct {
	Name    string
	Tree    *dryad.Tree[Kind]
	Symbols *symbol.Interner
	Program *Program
}

// Release frees the memory of the tree and the interner.
// The unit must not be used afterwards.
func (u *Unit) Release() {
	u.Tree.Clear()
	u.Tree.Arena().Release()
	u.Symbols.Release()
	u.Program = nil
}

// Parse parses src into a new unit. name is used in diagnostics only.
func Parse(name string, src []byte, opts Options) (*Unit, error) {
	a, err := arena.NewWithOptions(opts.Arena)
	if err != nil {
		return nil, err
	}
	in, err := symbol.NewInterner(opts.Symbols)
	if err != nil {
		a.Release()
		return nil, err
	}

	u := &Unit{Name: name, Tree: dryad.NewTreeWithArena[Kind](a), Symbols: in}
	p := &parser{lex: newLexer(src), src: src, c: u.Tree.Creator(), syms: in}
	prog, err := p.parseProgram()
	if err != nil {
		u.Release()
		if name != "" {
			err = fmt.Errorf("%s:%w", name, err)
		}
		return nil, err
	}
	u.Tree.SetRoot(prog)
	u.Program = prog
	return u, nil
}

type parser struct {
	lex  *lexer
	src  []byte
	tok  token
	c    dryad.Creator[Kind]
	syms *symbol.Interner
}

func (p *parser) next() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) expect(kind tokenKind) (token, error) {
	tok := p.tok
	if tok.kind != kind {
		return tok, p.unexpected("expected " + kind.String())
	}
	return tok, p.next()
}

func (p *parser) unexpected(want string) error {
	got := p.tok.kind.String()
	if p.tok.kind == tokNumber || p.tok.kind == tokIdent {
		got = fmt.Sprintf("%s %q", got, p.src[p.tok.start:p.tok.end])
	}
	return &SyntaxError{Pos: p.tok.pos, Msg: fmt.Sprintf("%s, found %s", want, got)}
}

func (p *parser) ident() (symbol.Symbol, Pos, error) {
	tok, err := p.expect(tokIdent)
	if err != nil {
		return symbol.Symbol{}, tok.pos, err
	}
	return p.syms.InternBytes(p.src[tok.start:tok.end]), tok.pos, nil
}

func (p *parser) parseProgram() (*Program, error) {
	if err := p.next(); err != nil {
		return nil, err
	}
	prog := dryad.Create[Program](p.c)
	var last Stmt
	for p.tok.kind != tokEOF {
		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		if last == nil {
			prog.InsertFront(s)
		} else {
			prog.InsertAfter(last, s)
		}
		last = s
	}
	return prog, nil
}

func (p *parser) parseStmt() (Stmt, error) {
	switch p.tok.kind {
	case tokLet:
		pos := p.tok.pos
		if err := p.next(); err != nil {
			return nil, err
		}
		name, _, err := p.ident()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokAssign); err != nil {
			return nil, err
		}
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.tok.kind == tokIn {
			return nil, &SyntaxError{Pos: p.tok.pos, Msg: "let expression used as a statement, wrap it in print"}
		}
		if _, err := p.expect(tokSemi); err != nil {
			return nil, err
		}
		let := dryad.Create[Let](p.c)
		let.Name, let.Pos = name, pos
		let.InitChild(value)
		return let, nil

	case tokPrint:
		pos := p.tok.pos
		if err := p.next(); err != nil {
			return nil, err
		}
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokSemi); err != nil {
			return nil, err
		}
		pr := dryad.Create[Print](p.c)
		pr.Pos = pos
		pr.InitChild(value)
		return pr, nil
	}
	return nil, p.unexpected("expected let or print")
}

func (p *parser) parseExpr() (Expr, error) {
	switch p.tok.kind {
	case tokLet:
		pos := p.tok.pos
		if err := p.next(); err != nil {
			return nil, err
		}
		name, _, err := p.ident()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokAssign); err != nil {
			return nil, err
		}
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokIn); err != nil {
			return nil, err
		}
		body, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		n := dryad.Create[LetIn](p.c)
		n.Name, n.Pos = name, pos
		n.InitChildren(value, body)
		return n, nil

	case tokIf:
		if err := p.next(); err != nil {
			return nil, err
		}
		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokThen); err != nil {
			return nil, err
		}
		then, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokElse); err != nil {
			return nil, err
		}
		els, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		n := dryad.Create[If](p.c)
		n.InitChildren(p.c, cond, then, els)
		return n, nil
	}
	return p.parseCompare()
}

func (p *parser) binary(op Op, pos Pos, l, r Expr) Expr {
	n := dryad.Create[Binary](p.c)
	n.Op, n.Pos = op, pos
	n.InitChildren(l, r)
	return n
}

func (p *parser) parseCompare() (Expr, error) {
	l, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	var op Op
	switch p.tok.kind {
	case tokLess:
		op = OpLess
	case tokEqual:
		op = OpEqual
	default:
		return l, nil
	}
	pos := p.tok.pos
	if err := p.next(); err != nil {
		return nil, err
	}
	r, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	return p.binary(op, pos, l, r), nil
}

func (p *parser) parseSum() (Expr, error) {
	l, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokPlus || p.tok.kind == tokMinus {
		op, pos := OpAdd, p.tok.pos
		if p.tok.kind == tokMinus {
			op = OpSub
		}
		if err := p.next(); err != nil {
			return nil, err
		}
		r, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		l = p.binary(op, pos, l, r)
	}
	return l, nil
}

func (p *parser) parseTerm() (Expr, error) {
	l, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		var op Op
		switch p.tok.kind {
		case tokStar:
			op = OpMul
		case tokSlash:
			op = OpDiv
		case tokPercent:
			op = OpRem
		default:
			return l, nil
		}
		pos := p.tok.pos
		if err := p.next(); err != nil {
			return nil, err
		}
		r, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		l = p.binary(op, pos, l, r)
	}
}

func (p *parser) parseUnary() (Expr, error) {
	if p.tok.kind != tokMinus {
		return p.parsePrimary()
	}
	if err := p.next(); err != nil {
		return nil, err
	}
	x, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	n := dryad.Create[Neg](p.c)
	n.InitChild(x)
	return n, nil
}

func (p *parser) parsePrimary() (Expr, error) {
	tok := p.tok
	switch tok.kind {
	case tokNumber:
		v, err := strconv.ParseInt(string(p.src[tok.start:tok.end]), 10, 64)
		if err != nil {
			return nil, &SyntaxError{Pos: tok.pos, Msg: fmt.Sprintf("number %s out of range", p.src[tok.start:tok.end])}
		}
		if err := p.next(); err != nil {
			return nil, err
		}
		n := dryad.Create[Number](p.c)
		n.Value = v
		return n, nil

	case tokIdent:
		sym, pos, err := p.ident()
		if err != nil {
			return nil, err
		}
		if p.tok.kind == tokLParen {
			return p.parseCall(sym, pos)
		}
		n := dryad.Create[Name](p.c)
		n.Sym, n.Pos = sym, pos
		return n, nil

	case tokLParen:
		if err := p.next(); err != nil {
			return nil, err
		}
		g := dryad.Create[Group](p.c)
		if p.tok.kind != tokRParen {
			x, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			g.InsertChild(x)
		}
		if _, err := p.expect(tokRParen); err != nil {
			return nil, err
		}
		return g, nil
	}
	return nil, p.unexpected("expected expression")
}

func (p *parser) parseCall(fn symbol.Symbol, pos Pos) (Expr, error) {
	if err := p.next(); err != nil {
		return nil, err
	}
	limit := arena.SliceCap[Expr](p.c.Arena())
	var args []Expr
	for p.tok.kind != tokRParen {
		if len(args) > 0 {
			if _, err := p.expect(tokComma); err != nil {
				return nil, err
			}
		}
		if len(args) == limit {
			return nil, &SyntaxError{Pos: p.tok.pos, Msg: fmt.Sprintf("too many arguments, at most %d", limit)}
		}
		x, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, x)
	}
	if err := p.next(); err != nil {
		return nil, err
	}
	n := dryad.Create[Call](p.c)
	n.Fn, n.Pos = fn, pos
	n.InitChildren(p.c, args...)
	return n, nil
}
