package ast

import (
	"strconv"
	"strings"
)

// Printing contexts, from loosest to tightest.
const (
	precTop = iota // anywhere
	precFun        // function position or arrow domain: Pi and Case need parentheses
	precArg        // argument position: applications need parentheses too
)

// Format renders t on a single line in source syntax.
func Format(t Term) string {
	var sb strings.Builder
	format(&sb, t, precTop)
	return sb.String()
}

// FormatAtom renders t so that it can appear as an application argument.
func FormatAtom(t Term) string {
	var sb strings.Builder
	format(&sb, t, precArg)
	return sb.String()
}

// FormatBinder renders a Pi binder. used tells whether the bound name is
// referenced by the codomain; unused explicit unrestricted binders print
// as their bare type.
func FormatBinder(b Binder, used bool) string {
	var sb strings.Builder
	formatBinder(&sb, b, used)
	return sb.String()
}

func format(sb *strings.Builder, t Term, prec int) {
	switch typ := t.(type) {
	case nil:
		sb.WriteString("?")
	case Ref:
		sb.WriteString(typ.Name)
	case Hole:
		sb.WriteString("_")
	case Lit:
		if typ.Kind == StringLit {
			sb.WriteString(strconv.Quote(typ.Value))
		} else {
			sb.WriteString(typ.Value)
		}
	case App:
		open(sb, prec >= precArg)
		format(sb, typ.Fn, precFun)
		sb.WriteString(" ")
		format(sb, typ.Arg, precArg)
		closeParen(sb, prec >= precArg)
	case NamedApp:
		open(sb, prec >= precArg)
		format(sb, typ.Fn, precFun)
		sb.WriteString(" {")
		sb.WriteString(typ.Name)
		sb.WriteString(" = ")
		format(sb, typ.Arg, precTop)
		sb.WriteString("}")
		closeParen(sb, prec >= precArg)
	case AutoApp:
		open(sb, prec >= precArg)
		format(sb, typ.Fn, precFun)
		sb.WriteString(" @{")
		format(sb, typ.Arg, precTop)
		sb.WriteString("}")
		closeParen(sb, prec >= precArg)
	case Pi:
		open(sb, prec >= precFun)
		used := typ.Binder.Name != "" && Occurs(typ.Binder.Name, typ.Codomain)
		formatBinder(sb, typ.Binder, used)
		sb.WriteString(" -> ")
		format(sb, typ.Codomain, precTop)
		closeParen(sb, prec >= precFun)
	case Case:
		open(sb, prec >= precFun)
		sb.WriteString("case ")
		format(sb, typ.Scrutinee, precTop)
		sb.WriteString(" of { ")
		for i, a := range typ.Alts {
			if i > 0 {
				sb.WriteString("; ")
			}
			format(sb, a.Pattern, precTop)
			sb.WriteString(" => ")
			format(sb, a.Body, precTop)
		}
		sb.WriteString(" }")
		closeParen(sb, prec >= precFun)
	}
}

func formatBinder(sb *strings.Builder, b Binder, used bool) {
	name := b.Name
	if name == "" {
		name = "_"
	}
	switch b.Piness {
	case Explicit:
		if b.Count == MW && !used {
			format(sb, b.Type, precFun)
			return
		}
		sb.WriteString("(")
	case Implicit:
		sb.WriteString("{")
	case AutoImplicit:
		sb.WriteString("{auto ")
	case DefImplicit:
		sb.WriteString("{default ")
	}
	sb.WriteString(b.Count.prefix())
	sb.WriteString(name)
	sb.WriteString(" : ")
	format(sb, b.Type, precTop)
	if b.Piness == Explicit {
		sb.WriteString(")")
	} else {
		sb.WriteString("}")
	}
}

func open(sb *strings.Builder, paren bool) {
	if paren {
		sb.WriteString("(")
	}
}

func closeParen(sb *strings.Builder, paren bool) {
	if paren {
		sb.WriteString(")")
	}
}
