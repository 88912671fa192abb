package config

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/funvibe/refinery/internal/ast"
)

// ParseTerm parses the term syntax used for types in refinery.yaml:
//
//	term   := binder -> term | app [-> term]   (arrows associate to the right)
//	binder := ( [count] name : term )
//	        | { [auto | default] [count] name : term }
//	app    := atom+                            (left-associative application)
//	atom   := ident | #index | _ | number | "string" | ( term )
//
// count is 0 or 1, and a name of _ leaves the binder anonymous.
// Identifiers may contain letters, digits, '_', '\'' and '.'.
func ParseTerm(src string) (ast.Term, error) {
	p := &termParser{src: src}
	p.next()
	t, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, p.errorf("unexpected %s", p.tok)
	}
	return t, nil
}

type tokKind int

const (
	tokEOF tokKind = iota
	tokIdent
	tokParam
	tokHole
	tokInt
	tokFloat
	tokString
	tokLParen
	tokRParen
	tokLBrace
	tokRBrace
	tokColon
	tokArrow
	tokError
)

type token struct {
	kind tokKind
	text string
	pos  int
}

func (t token) String() string {
	switch t.kind {
	case tokEOF:
		return "end of input"
	case tokString:
		return fmt.Sprintf("string %q", t.text)
	default:
		return fmt.Sprintf("%q", t.text)
	}
}

type termParser struct {
	src string
	pos int
	tok token
}

func (p *termParser) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("term %q: column %d: %s", p.src, p.tok.pos+1, fmt.Sprintf(format, args...))
}

func (p *termParser) parseTerm() (ast.Term, error) {
	var b ast.Binder
	if p.tok.kind == tokLBrace || (p.tok.kind == tokLParen && p.binderAhead()) {
		var err error
		if b, err = p.parseBinder(); err != nil {
			return nil, err
		}
		if p.tok.kind != tokArrow {
			return nil, p.errorf("expected '->' after binder, found %s", p.tok)
		}
	} else {
		dom, err := p.parseApp()
		if err != nil {
			return nil, err
		}
		if p.tok.kind != tokArrow {
			return dom, nil
		}
		b.Type = dom
	}
	p.next()
	cod, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	return ast.Pi{Binder: b, Codomain: cod}, nil
}

// binderAhead reports whether the '(' at the current token opens a binder
// rather than a parenthesized term.
func (p *termParser) binderAhead() bool {
	q := *p
	q.next()
	if isCount(q.tok) {
		q.next()
	}
	if q.tok.kind != tokIdent && q.tok.kind != tokHole {
		return false
	}
	q.next()
	return q.tok.kind == tokColon
}

func isCount(t token) bool {
	return t.kind == tokInt && (t.text == "0" || t.text == "1")
}

func (p *termParser) parseBinder() (ast.Binder, error) {
	var b ast.Binder
	closing, closeText := tokRParen, "')'"
	if p.tok.kind == tokLBrace {
		closing, closeText = tokRBrace, "'}'"
		b.Piness = ast.Implicit
	}
	p.next()
	if closing == tokRBrace && p.tok.kind == tokIdent {
		switch p.tok.text {
		case "auto":
			b.Piness = ast.AutoImplicit
			p.next()
		case "default":
			b.Piness = ast.DefImplicit
			p.next()
		}
	}
	if isCount(p.tok) {
		c, err := ast.ParseCount(p.tok.text)
		if err != nil {
			return b, p.errorf("%v", err)
		}
		b.Count = c
		p.next()
	}
	switch p.tok.kind {
	case tokIdent:
		b.Name = p.tok.text
	case tokHole:
	default:
		return b, p.errorf("expected a binder name, found %s", p.tok)
	}
	p.next()
	if p.tok.kind != tokColon {
		return b, p.errorf("expected ':', found %s", p.tok)
	}
	p.next()
	typ, err := p.parseTerm()
	if err != nil {
		return b, err
	}
	b.Type = typ
	if p.tok.kind != closing {
		return b, p.errorf("expected %s, found %s", closeText, p.tok)
	}
	p.next()
	return b, nil
}

func (p *termParser) parseApp() (ast.Term, error) {
	head, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for p.startsAtom() {
		arg, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		head = ast.App{Fn: head, Arg: arg}
	}
	return head, nil
}

func (p *termParser) startsAtom() bool {
	switch p.tok.kind {
	case tokIdent, tokParam, tokHole, tokInt, tokFloat, tokString, tokLParen, tokError:
		return true
	}
	return false
}

func (p *termParser) parseAtom() (ast.Term, error) {
	tok := p.tok
	switch tok.kind {
	case tokIdent:
		p.next()
		return ast.Ref{Name: tok.text}, nil
	case tokParam:
		p.next()
		return ast.Ref{Name: tok.text}, nil
	case tokHole:
		p.next()
		return ast.Hole{}, nil
	case tokInt:
		p.next()
		return ast.Lit{Kind: ast.IntLit, Value: tok.text}, nil
	case tokFloat:
		p.next()
		return ast.Lit{Kind: ast.FloatLit, Value: tok.text}, nil
	case tokString:
		p.next()
		return ast.Lit{Kind: ast.StringLit, Value: tok.text}, nil
	case tokLParen:
		p.next()
		inner, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		if p.tok.kind != tokRParen {
			return nil, p.errorf("expected ')', found %s", p.tok)
		}
		p.next()
		return inner, nil
	case tokError:
		return nil, p.errorf("%s", tok.text)
	default:
		return nil, p.errorf("expected a term, found %s", tok)
	}
}

func isIdentRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '\'' || r == '.'
}

// next scans the following token into p.tok.
func (p *termParser) next() {
	for p.pos < len(p.src) && unicode.IsSpace(rune(p.src[p.pos])) {
		p.pos++
	}
	start := p.pos
	if p.pos >= len(p.src) {
		p.tok = token{kind: tokEOF, pos: start}
		return
	}
	rest := p.src[p.pos:]
	c := rest[0]
	switch {
	case c == '(':
		p.pos++
		p.tok = token{kind: tokLParen, text: "(", pos: start}
	case c == ')':
		p.pos++
		p.tok = token{kind: tokRParen, text: ")", pos: start}
	case c == '{':
		p.pos++
		p.tok = token{kind: tokLBrace, text: "{", pos: start}
	case c == '}':
		p.pos++
		p.tok = token{kind: tokRBrace, text: "}", pos: start}
	case c == ':':
		p.pos++
		p.tok = token{kind: tokColon, text: ":", pos: start}
	case strings.HasPrefix(rest, "->"):
		p.pos += 2
		p.tok = token{kind: tokArrow, text: "->", pos: start}
	case c == '#':
		n := 1
		for n < len(rest) && rest[n] >= '0' && rest[n] <= '9' {
			n++
		}
		if n == 1 {
			p.pos++
			p.tok = token{kind: tokError, text: "'#' must be followed by a parameter index", pos: start}
			return
		}
		p.pos += n
		p.tok = token{kind: tokParam, text: rest[:n], pos: start}
	case c == '"':
		i := 1
		for ; i < len(rest) && rest[i] != '"'; i++ {
			if rest[i] == '\\' {
				i++
			}
		}
		if i >= len(rest) {
			p.pos = len(p.src)
			p.tok = token{kind: tokError, text: "unterminated string", pos: start}
			return
		}
		p.pos += i + 1
		text, err := strconv.Unquote(rest[:i+1])
		if err != nil {
			p.tok = token{kind: tokError, text: fmt.Sprintf("bad string literal %s", rest[:i+1]), pos: start}
			return
		}
		p.tok = token{kind: tokString, text: text, pos: start}
	case (c >= '0' && c <= '9') || (c == '-' && len(rest) > 1 && rest[1] >= '0' && rest[1] <= '9'):
		n := 1
		kind := tokInt
		for n < len(rest) && ((rest[n] >= '0' && rest[n] <= '9') || (rest[n] == '.' && kind == tokInt)) {
			if rest[n] == '.' {
				kind = tokFloat
			}
			n++
		}
		p.pos += n
		p.tok = token{kind: kind, text: rest[:n], pos: start}
	default:
		n := len(rest)
		for i, r := range rest {
			if !isIdentRune(r) {
				n = i
				break
			}
		}
		if n == 0 {
			r, size := utf8.DecodeRuneInString(rest)
			p.pos += size
			p.tok = token{kind: tokError, text: fmt.Sprintf("unexpected character %q", r), pos: start}
			return
		}
		p.pos += n
		text := rest[:n]
		if text == "_" {
			p.tok = token{kind: tokHole, text: text, pos: start}
			return
		}
		p.tok = token{kind: tokIdent, text: text, pos: start}
	}
}
