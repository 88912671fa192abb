package prettyprinter

import (
	"bytes"
	"strings"

	"github.com/funvibe/refinery/internal/ast"
)

// --- Code Printer (Output looks like source code) ---

type CodePrinter struct {
	buf       bytes.Buffer
	indent    int
	lineWidth int // max line width (0 = unlimited)
	column    int // current column position
}

func NewCodePrinter() *CodePrinter {
	return &CodePrinter{indent: 0, lineWidth: 100, column: 0}
}

func NewCodePrinterWithWidth(width int) *CodePrinter {
	return &CodePrinter{indent: 0, lineWidth: width, column: 0}
}

func (p *CodePrinter) SetLineWidth(width int) {
	p.lineWidth = width
}

func (p *CodePrinter) String() string {
	return p.buf.String()
}

func (p *CodePrinter) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString("    ")
	}
	p.column = p.indent * 4
}

func (p *CodePrinter) write(s string) {
	p.buf.WriteString(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		p.column = len(s) - i - 1
	} else {
		p.column += len(s)
	}
}

func (p *CodePrinter) newline() {
	p.buf.WriteByte('\n')
	p.column = 0
}

// fits reports whether s can be written on the current line.
func (p *CodePrinter) fits(s string) bool {
	return p.lineWidth <= 0 || p.column+len(s) <= p.lineWidth
}

// Render prints decls inside a namespace named after the refined type.
func Render(namespace string, decls []ast.Decl) string {
	p := NewCodePrinter()
	p.PrintNamespace(namespace, decls)
	return p.String()
}

// PrintNamespace prints decls indented under `namespace name`, separated
// by blank lines.
func (p *CodePrinter) PrintNamespace(name string, decls []ast.Decl) {
	p.writeIndent()
	p.write("namespace " + name)
	p.newline()
	p.indent++
	for i, d := range decls {
		if i > 0 {
			p.newline()
		}
		p.PrintDecl(d)
	}
	p.indent--
}

// PrintDecl prints the visibility, the claim and every clause of d.
func (p *CodePrinter) PrintDecl(d ast.Decl) {
	if d.Claim.Visibility != ast.Private {
		p.writeIndent()
		p.write(d.Claim.Visibility.String())
		p.newline()
	}
	p.printClaim(d.Claim)
	for _, c := range d.Def.Clauses {
		p.printClause(c)
	}
}

// printClaim writes `name : type`. A Pi chain that does not fit on one
// line is broken before every arrow.
func (p *CodePrinter) printClaim(c ast.Claim) {
	p.writeIndent()
	p.write(c.Name + " : ")
	flat := ast.Format(c.Type)
	if p.fits(flat) {
		p.write(flat)
		p.newline()
		return
	}
	binders, result := ast.UnArrows(c.Type)
	if len(binders) == 0 {
		p.write(flat)
		p.newline()
		return
	}
	segments := make([]string, 0, len(binders)+1)
	for i, b := range binders {
		rest := ast.Arrows(binders[i+1:], result)
		used := b.Name != "" && ast.Occurs(b.Name, rest)
		segments = append(segments, ast.FormatBinder(b, used))
	}
	segments = append(segments, ast.Format(result))

	p.write(segments[0])
	p.newline()
	p.indent++
	for _, seg := range segments[1:] {
		p.writeIndent()
		p.write("-> " + seg)
		p.newline()
	}
	p.indent--
}

func (p *CodePrinter) printClause(c ast.Clause) {
	p.writeIndent()
	p.write(ast.Format(c.LHS) + " = ")
	p.printBody(c.RHS)
}

// printBody writes a clause right-hand side. Case expressions get one
// alternative per line.
func (p *CodePrinter) printBody(t ast.Term) {
	cs, ok := t.(ast.Case)
	if !ok {
		p.write(ast.Format(t))
		p.newline()
		return
	}
	p.write("case " + ast.Format(cs.Scrutinee) + " of")
	p.newline()
	p.indent++
	for _, alt := range cs.Alts {
		p.writeIndent()
		p.write(ast.Format(alt.Pattern) + " => ")
		p.printBody(alt.Body)
	}
	p.indent--
}

// PrintTerm writes t on the current line.
func (p *CodePrinter) PrintTerm(t ast.Term) {
	p.write(ast.Format(t))
}
