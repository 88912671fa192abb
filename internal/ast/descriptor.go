package ast

import "fmt"

// Loc is a source position. Zero fields are omitted when printed.
type Loc struct {
	File string
	Line int
	Col  int
}

func (l Loc) String() string {
	switch {
	case l.File == "" && l.Line == 0:
		return "<unknown>"
	case l.Line == 0:
		return l.File
	case l.Col == 0:
		return fmt.Sprintf("%s:%d", l.File, l.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Col)
	}
}

// Arg is a single argument of a data constructor.
type Arg interface {
	argNode()
}

// ParamArg stands for one of the type's own implicit parameters.
type ParamArg struct {
	Index int // position in TypeDescriptor.Params
}

func (ParamArg) argNode() {}

// NamedArg is an ordinary constructor argument.
type NamedArg struct {
	Name   *string // nil when the argument is anonymous
	Count  Count
	Piness Piness
	Type   Term
}

func (NamedArg) argNode() {}

// Named returns a NamedArg with the given name.
func Named(name string, count Count, piness Piness, typ Term) NamedArg {
	return NamedArg{Name: &name, Count: count, Piness: piness, Type: typ}
}

// Constructor is a single data constructor with its ordered arguments.
type Constructor struct {
	Name string
	Args []Arg
}

// TypeDescriptor describes a data declaration handed to a derivation.
type TypeDescriptor struct {
	Name   string
	Params []Binder // implicit parameters of the type, in declaration order
	Cons   []Constructor
	Loc    Loc
}

// ParamSubst maps the positional parameter references "#i" to the
// declared parameter names.
func (td *TypeDescriptor) ParamSubst() Subst {
	s := make(Subst, len(td.Params))
	for i, p := range td.Params {
		s[ParamRef(i)] = Ref{Name: p.Name}
	}
	return s
}

// ParamRef is the name used to refer to the i-th type parameter before
// parameter names are substituted in.
func ParamRef(i int) string {
	return fmt.Sprintf("#%d", i)
}

// Applied returns the type applied to its own parameters, e.g. UnitVector n.
func (td *TypeDescriptor) Applied() Term {
	args := make([]Term, len(td.Params))
	for i, p := range td.Params {
		args[i] = Ref{Name: p.Name}
	}
	return Apply(Ref{Name: td.Name}, args...)
}
