package ast

// Visibility of a generated top-level binding.
type Visibility int

const (
	Private Visibility = iota
	Export
	PublicExport
)

func (v Visibility) String() string {
	switch v {
	case Export:
		return "export"
	case PublicExport:
		return "public export"
	default:
		return "private"
	}
}

// Claim is the type signature of a top-level binding.
type Claim struct {
	Visibility Visibility
	Name       string
	Type       Term
}

// Clause is one defining equation: LHS = RHS.
type Clause struct {
	LHS Term
	RHS Term
}

// Def is the body of a top-level binding.
type Def struct {
	Name    string
	Clauses []Clause
}

// Decl pairs a signature with its definition. Generated declarations are
// always fresh values and never share structure with their inputs'
// containers.
type Decl struct {
	Claim Claim
	Def   Def
}

// Name returns the bound name.
func (d Decl) Name() string { return d.Claim.Name }
