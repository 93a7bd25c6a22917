package exprlang

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokLet
	tokIn
	tokPrint
	tokIf
	tokThen
	tokElse
	tokAssign
	tokSemi
	tokComma
	tokLParen
	tokRParen
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokPercent
	tokLess
	tokEqual
)

var tokenText = [...]string{
	tokEOF:     "end of input",
	tokNumber:  "number",
	tokIdent:   "identifier",
	tokLet:     "let",
	tokIn:      "in",
	tokPrint:   "print",
	tokIf:      "if",
	tokThen:    "then",
	tokElse:    "else",
	tokAssign:  "=",
	tokSemi:    ";",
	tokComma:   ",",
	tokLParen:  "(",
	tokRParen:  ")",
	tokPlus:    "+",
	tokMinus:   "-",
	tokStar:    "*",
	tokSlash:   "/",
	tokPercent: "%",
	tokLess:    "<",
	tokEqual:   "==",
}

func (k tokenKind) String() string { return tokenText[k] }

var keywords = map[string]tokenKind{
	"let":   tokLet,
	"in":    tokIn,
	"print": tokPrint,
	"if":    tokIf,
	"then":  tokThen,
	"else":  tokElse,
}

var punct = map[rune]tokenKind{
	';': tokSemi,
	',': tokComma,
	'(': tokLParen,
	')': tokRParen,
	'+': tokPlus,
	'-': tokMinus,
	'*': tokStar,
	'/': tokSlash,
	'%': tokPercent,
	'<': tokLess,
}

type token struct {
	kind       tokenKind
	start, end int // byte offsets into the source
	pos        Pos
}

// lexer splits source into tokens. Comments run from '#' to the end of the
// line.
type lexer struct {
	src  []byte
	off  int
	line int
	col  int
}

func newLexer(src []byte) *lexer {
	return &lexer{src: src, line: 1, col: 1}
}

func (l *lexer) peekRune() (rune, int) {
	if l.off >= len(l.src) {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRune(l.src[l.off:])
}

func (l *lexer) advance(w int) {
	if l.src[l.off] == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	l.off += w
}

func (l *lexer) skipSpace() {
	for l.off < len(l.src) {
		r, w := l.peekRune()
		switch {
		case r == '#':
			for l.off < len(l.src) && l.src[l.off] != '\n' {
				l.advance(1)
			}
		case unicode.IsSpace(r):
			l.advance(w)
		default:
			return
		}
	}
}

func isIdentStart(r rune) bool { return r == '_' || unicode.IsLetter(r) }
func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r) || unicode.In(r, unicode.Mn, unicode.Mc)
}

// next returns the following token.
func (l *lexer) next() (token, error) {
	l.skipSpace()
	tok := token{start: l.off, pos: Pos{Line: l.line, Col: l.col}}
	if l.off >= len(l.src) {
		tok.kind, tok.end = tokEOF, l.off
		return tok, nil
	}

	r, w := l.peekRune()
	switch {
	case r >= '0' && r <= '9':
		for l.off < len(l.src) && l.src[l.off] >= '0' && l.src[l.off] <= '9' {
			l.advance(1)
		}
		tok.kind = tokNumber
	case isIdentStart(r):
		for l.off < len(l.src) {
			r, w := l.peekRune()
			if !isIdentPart(r) {
				break
			}
			l.advance(w)
		}
		tok.kind = tokIdent
		if kw, ok := keywords[string(l.src[tok.start:l.off])]; ok {
			tok.kind = kw
		}
	case r == '=':
		l.advance(w)
		tok.kind = tokAssign
		if l.off < len(l.src) && l.src[l.off] == '=' {
			l.advance(1)
			tok.kind = tokEqual
		}
	default:
		kind, ok := punct[r]
		if !ok {
			if r == utf8.RuneError && w == 1 {
				return tok, l.errorf(tok.pos, "invalid UTF-8")
			}
			return tok, l.errorf(tok.pos, "unexpected character %q", r)
		}
		l.advance(w)
		tok.kind = kind
	}
	tok.end = l.off
	return tok, nil
}

func (l *lexer) errorf(pos Pos, format string, args ...any) error {
	return &SyntaxError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}
