// Package ast defines the term representation shared by the derivation engine
// and its printers: type terms, expressions, binders, constructor arguments,
// type descriptors and generated declarations.
package ast

// Term is the interface for all terms. Types, expressions and patterns
// share one representation, as in the host language.
type Term interface {
	String() string
	termNode()
}

// Ref is a bare reference to a name (variable, constructor or type).
// Names of the form "#i" refer to the i-th implicit parameter of the
// enclosing type declaration.
type Ref struct {
	Name string
}

func (r Ref) termNode()      {}
func (r Ref) String() string { return Format(r) }

// App is a plain (explicit) application: Fn Arg.
type App struct {
	Fn  Term
	Arg Term
}

func (a App) termNode()      {}
func (a App) String() string { return Format(a) }

// NamedApp applies an implicit argument by name: Fn {Name = Arg}.
type NamedApp struct {
	Fn   Term
	Name string
	Arg  Term
}

func (a NamedApp) termNode()      {}
func (a NamedApp) String() string { return Format(a) }

// AutoApp passes an auto-implicit argument explicitly: Fn @{Arg}.
type AutoApp struct {
	Fn  Term
	Arg Term
}

func (a AutoApp) termNode()      {}
func (a AutoApp) String() string { return Format(a) }

// LitKind distinguishes literal terms.
type LitKind int

const (
	IntLit LitKind = iota
	FloatLit
	StringLit
)

// Lit is a literal. Value holds the source spelling for numbers and the
// unquoted contents for strings.
type Lit struct {
	Kind  LitKind
	Value string
}

func (l Lit) termNode()      {}
func (l Lit) String() string { return Format(l) }

// Hole is the placeholder `_`, left for the host elaborator to fill.
type Hole struct{}

func (h Hole) termNode()      {}
func (h Hole) String() string { return "_" }

// Pi is a dependent function type: Binder -> Codomain.
type Pi struct {
	Binder   Binder
	Codomain Term
}

func (p Pi) termNode()      {}
func (p Pi) String() string { return Format(p) }

// Alt is a single case alternative.
type Alt struct {
	Pattern Term
	Body    Term
}

// Case scrutinises a term against a list of alternatives.
type Case struct {
	Scrutinee Term
	Alts      []Alt
}

func (c Case) termNode()      {}
func (c Case) String() string { return Format(c) }

// Apply builds the left-nested application fn a1 a2 ... an.
func Apply(fn Term, args ...Term) Term {
	t := fn
	for _, a := range args {
		t = App{Fn: t, Arg: a}
	}
	return t
}

// UnApply splits a chain of explicit applications into its head and
// arguments. Named and auto applications are part of the head.
func UnApply(t Term) (Term, []Term) {
	var args []Term
	for {
		app, ok := t.(App)
		if !ok {
			break
		}
		args = append(args, app.Arg)
		t = app.Fn
	}
	for i, j := 0, len(args)-1; i < j; i, j = i+1, j-1 {
		args[i], args[j] = args[j], args[i]
	}
	return t, args
}

// Arrows builds the right-nested Pi chain b1 -> b2 -> ... -> result.
func Arrows(binders []Binder, result Term) Term {
	t := result
	for i := len(binders) - 1; i >= 0; i-- {
		t = Pi{Binder: binders[i], Codomain: t}
	}
	return t
}

// UnArrows flattens a Pi chain into its binders and final codomain.
func UnArrows(t Term) ([]Binder, Term) {
	var bs []Binder
	for {
		pi, ok := t.(Pi)
		if !ok {
			return bs, t
		}
		bs = append(bs, pi.Binder)
		t = pi.Codomain
	}
}
