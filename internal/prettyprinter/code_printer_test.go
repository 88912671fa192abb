package prettyprinter

import (
	"testing"

	"github.com/funvibe/refinery/internal/ast"
	"github.com/funvibe/refinery/internal/derive"
)

func ref(n string) ast.Ref { return ast.Ref{Name: n} }

func unitVector(proofCount ast.Count) *ast.TypeDescriptor {
	return &ast.TypeDescriptor{
		Name:   "UnitVector",
		Params: []ast.Binder{{Name: "n", Piness: ast.Implicit, Type: ref("Nat")}},
		Cons: []ast.Constructor{{
			Name: "MkUnitVector",
			Args: []ast.Arg{
				ast.ParamArg{Index: 0},
				ast.Named("value", ast.MW, ast.Explicit, ast.Apply(ref("Vect"), ref("#0"), ref("Double"))),
				ast.Named("proof", proofCount, ast.Explicit, ast.Apply(ref("IsUnitVector"), ref("value"))),
			},
		}},
	}
}

func TestRender_Plain(t *testing.T) {
	decls, err := derive.Plain.Derive(unitVector(ast.MW))
	if err != nil {
		t.Fatal(err)
	}
	want := `namespace UnitVector
    public export
    refine : {n : Nat} -> Vect n Double -> Maybe (UnitVector n)
    refine raw = case decide {p = IsUnitVector} raw of
        Yes prf => Just (MkUnitVector raw prf)
        No _ => Nothing
`
	if got := Render("UnitVector", decls); got != want {
		t.Errorf("Render() =\n%s\nwant:\n%s", got, want)
	}
}

func TestRender_IntegerLiteralsErased(t *testing.T) {
	decls, err := derive.WithIntegerLiterals.Derive(unitVector(ast.M0))
	if err != nil {
		t.Fatal(err)
	}
	want := `namespace UnitVector
    public export
    refine : {n : Nat} -> Vect n Double -> Maybe (UnitVector n)
    refine raw = case decide0 {p = IsUnitVector} raw of
        Yes0 => Just (MkUnitVector raw _)
        No0 => Nothing

    export
    fromInteger : {n : Nat}
        -> (lit : Integer)
        -> {auto 0 _ : IsJust (refine (fromInteger lit))}
        -> UnitVector n
    fromInteger lit = fromJust (refine (fromInteger lit))
`
	if got := Render("UnitVector", decls); got != want {
		t.Errorf("Render() =\n%s\nwant:\n%s", got, want)
	}
}

func TestPrintDecl_UnlimitedWidth(t *testing.T) {
	s, err := derive.Match(unitVector(ast.MW))
	if err != nil {
		t.Fatal(err)
	}
	p := NewCodePrinterWithWidth(0)
	p.PrintDecl(derive.FromString(s))
	want := "export\n" +
		"fromString : {n : Nat} -> (lit : String) -> {auto 0 _ : IsJust (refine (fromString lit))} -> UnitVector n\n" +
		"fromString lit = fromJust (refine (fromString lit))\n"
	if got := p.String(); got != want {
		t.Errorf("PrintDecl() =\n%s\nwant:\n%s", got, want)
	}
}

func TestPrintDecl_PrivateHasNoVisibilityLine(t *testing.T) {
	p := NewCodePrinter()
	p.PrintDecl(ast.Decl{
		Claim: ast.Claim{Name: "x", Type: ref("Nat")},
		Def:   ast.Def{Name: "x", Clauses: []ast.Clause{{LHS: ref("x"), RHS: ast.Lit{Kind: ast.IntLit, Value: "1"}}}},
	})
	if got, want := p.String(), "x : Nat\nx = 1\n"; got != want {
		t.Errorf("PrintDecl() = %q; want %q", got, want)
	}
}
