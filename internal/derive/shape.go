// Package derive recognises refinement types (a raw value paired with a
// proof about it) and synthesises their companion declarations: a total
// refine function and optional literal conversions.
package derive

import (
	"fmt"

	"github.com/funvibe/refinery/internal/ast"
)

// argsShape classifies a constructor's argument list. It mirrors the list:
// one paramStep per leading parameter argument, ending in the value/proof
// pair.
type argsShape interface {
	argsShape()
}

// paramStep consumes a leading parameter argument.
type paramStep struct {
	index int
	next  argsShape
}

// valueProof is the value argument followed by the proof about it.
type valueProof struct {
	valueName   string
	valueType   ast.Term
	proofName   string // empty when the proof is anonymous
	proofPiness ast.Piness
	proofCount  ast.Count
	predicate   ast.Term
}

func (paramStep) argsShape()  {}
func (valueProof) argsShape() {}

// Shape certifies that a type descriptor is a refinement type. Shapes come
// from Match and are never re-validated. The zero Shape certifies nothing:
// its accessors return zero values.
type Shape struct {
	td   *ast.TypeDescriptor
	con  string
	args argsShape
}

// Match classifies td. It succeeds when td has exactly one constructor
// whose arguments are zero or more parameter arguments, one named explicit
// unrestricted value argument, and one explicit or auto-implicit argument
// whose type applies a predicate to that value.
func Match(td *ast.TypeDescriptor) (*Shape, error) {
	if len(td.Cons) != 1 {
		return nil, &NotSingleConstructorError{Type: td.Name, Loc: td.Loc, Count: len(td.Cons)}
	}
	con := td.Cons[0]
	args, reason := matchArgs(td, con.Args)
	if reason != "" {
		return nil, &ShapeMismatchError{Type: td.Name, Constructor: con.Name, Loc: td.Loc, Reason: reason}
	}
	return &Shape{td: td, con: con.Name, args: args}, nil
}

func matchArgs(td *ast.TypeDescriptor, args []ast.Arg) (argsShape, string) {
	if len(args) == 0 {
		return nil, "missing value argument"
	}
	switch a := args[0].(type) {
	case ast.ParamArg:
		if a.Index < 0 || a.Index >= len(td.Params) {
			return nil, fmt.Sprintf("parameter argument #%d is out of range", a.Index)
		}
		next, reason := matchArgs(td, args[1:])
		if reason != "" {
			return nil, reason
		}
		return paramStep{index: a.Index, next: next}, ""
	case ast.NamedArg:
		return matchPair(a, args[1:])
	default:
		return nil, fmt.Sprintf("unsupported argument %T", a)
	}
}

func matchPair(value ast.NamedArg, rest []ast.Arg) (argsShape, string) {
	if value.Name == nil {
		return nil, "value argument must be named"
	}
	nm := *value.Name
	if value.Piness != ast.Explicit {
		return nil, fmt.Sprintf("value argument %s must be explicit, not %s", nm, value.Piness)
	}
	if value.Count != ast.MW {
		return nil, fmt.Sprintf("value argument %s must be unrestricted, has multiplicity %s", nm, value.Count)
	}
	if len(rest) == 0 {
		return nil, fmt.Sprintf("missing proof argument about %s", nm)
	}
	proof, ok := rest[0].(ast.NamedArg)
	if !ok {
		return nil, fmt.Sprintf("expected a proof argument after %s, found a parameter argument", nm)
	}
	app, ok := proof.Type.(ast.App)
	if !ok {
		return nil, fmt.Sprintf("proof argument type %s does not apply a predicate to %s", proof.Type, nm)
	}
	if r, ok := app.Arg.(ast.Ref); !ok || r.Name != nm {
		return nil, fmt.Sprintf("proof argument type %s does not apply a predicate to %s", proof.Type, nm)
	}
	if proof.Piness != ast.Explicit && proof.Piness != ast.AutoImplicit {
		return nil, fmt.Sprintf("proof argument must be explicit or auto-implicit, not %s", proof.Piness)
	}
	if len(rest) > 1 {
		return nil, fmt.Sprintf("unexpected %d argument(s) after the proof", len(rest)-1)
	}
	var proofName string
	if proof.Name != nil {
		proofName = *proof.Name
	}
	return valueProof{
		valueName:   nm,
		valueType:   value.Type,
		proofName:   proofName,
		proofPiness: proof.Piness,
		proofCount:  proof.Count,
		predicate:   app.Fn,
	}, ""
}

// TypeName is the name of the refined type.
func (s *Shape) TypeName() string { return s.desc().Name }

// Constructor is the name of the type's single constructor.
func (s *Shape) Constructor() string { return s.con }

// Params returns the type's implicit parameters.
func (s *Shape) Params() []ast.Binder { return s.desc().Params }

// Descriptor returns the matched type descriptor.
func (s *Shape) Descriptor() *ast.TypeDescriptor { return s.td }

// ResultType is the refined type applied to its parameters.
func (s *Shape) ResultType() ast.Term { return s.desc().Applied() }

func (s *Shape) desc() *ast.TypeDescriptor {
	if s.td == nil {
		return &ast.TypeDescriptor{}
	}
	return s.td
}
