package derive

import "github.com/funvibe/refinery/internal/ast"

// Terms are the pieces of a Shape needed to build new declarations.
type Terms struct {
	ValueType ast.Term
	Predicate ast.Term
	Erased    bool
}

// Extract collects ValueType, Predicate and IsErased.
func Extract(s *Shape) Terms {
	return Terms{ValueType: s.ValueType(), Predicate: s.Predicate(), Erased: s.IsErased()}
}

// ValueType is the type of the value argument, with positional parameter
// references replaced by the type's parameter names.
func (s *Shape) ValueType() ast.Term {
	return ast.Substitute(pairOf(s.args).valueType, s.desc().ParamSubst())
}

// Predicate is the proof's type with the application to the value
// stripped off, with parameter names substituted in.
func (s *Shape) Predicate() ast.Term {
	return ast.Substitute(pairOf(s.args).predicate, s.desc().ParamSubst())
}

// IsErased reports whether the proof argument has multiplicity zero.
func (s *Shape) IsErased() bool {
	return pairOf(s.args).proofCount == ast.M0
}

// ValueName is the name of the value argument.
func (s *Shape) ValueName() string { return pairOf(s.args).valueName }

// ProofPiness tells whether the proof is passed explicitly or found by
// proof search.
func (s *Shape) ProofPiness() ast.Piness { return pairOf(s.args).proofPiness }

// LeadingParams returns the parameter indices passed before the value.
func (s *Shape) LeadingParams() []int {
	var idx []int
	for a := s.args; ; {
		step, ok := a.(paramStep)
		if !ok {
			return idx
		}
		idx = append(idx, step.index)
		a = step.next
	}
}

func pairOf(a argsShape) valueProof {
	switch x := a.(type) {
	case paramStep:
		return pairOf(x.next)
	case valueProof:
		return x
	}
	return valueProof{}
}
