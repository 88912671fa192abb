package derive

import (
	"strconv"

	"github.com/funvibe/refinery/internal/ast"
	"github.com/funvibe/refinery/internal/config"
)

// Literals selects the literal conversions to generate next to refine.
type Literals uint8

const (
	IntegerLiterals Literals = 1 << iota
	FloatLiterals
	StringLiterals
)

// Has reports whether all of want are selected.
func (l Literals) Has(want Literals) bool { return l&want == want }

// Synthesize builds refine followed by the selected literal conversions,
// in the order integer, float, string. Each call returns fresh values.
func Synthesize(s *Shape, lits Literals) []ast.Decl {
	decls := []ast.Decl{Refine(s)}
	if lits.Has(IntegerLiterals) {
		decls = append(decls, FromInteger(s))
	}
	if lits.Has(FloatLiterals) {
		decls = append(decls, FromDouble(s))
	}
	if lits.Has(StringLiterals) {
		decls = append(decls, FromString(s))
	}
	return decls
}

// Refine builds
//
//	refine : {params} -> V -> Maybe (T params)
//	refine raw = case decide {p = P} raw of
//	    Yes prf => Just (Mk raw prf)
//	    No _ => Nothing
//
// When the proof is erased the erased decision procedure is used and the
// proof slot of the constructor is a hole, so no witness is referenced.
func Refine(s *Shape) ast.Decl {
	t := Extract(s)
	taken := reserved(s, t)
	raw := fresh("raw", taken)
	prf := fresh("prf", taken)

	sig := withParams(s, ast.Pi{
		Binder:   ast.Binder{Name: raw, Type: t.ValueType},
		Codomain: ast.Apply(ast.Ref{Name: config.MaybeTypeName}, s.ResultType()),
	})

	var (
		decide ast.Term
		alts   []ast.Alt
	)
	just := func(witness ast.Term) ast.Term {
		return ast.Apply(ast.Ref{Name: config.JustCtorName}, construct(s, raw, witness))
	}
	nothing := ast.Ref{Name: config.NothingCtorName}
	if t.Erased {
		decide = ast.Ref{Name: config.DecideErasedFuncName}
		alts = []ast.Alt{
			{Pattern: ast.Ref{Name: config.YesErasedCtorName}, Body: just(ast.Hole{})},
			{Pattern: ast.Ref{Name: config.NoErasedCtorName}, Body: nothing},
		}
	} else {
		decide = ast.Ref{Name: config.DecideFuncName}
		alts = []ast.Alt{
			{Pattern: ast.Apply(ast.Ref{Name: config.YesCtorName}, ast.Ref{Name: prf}), Body: just(ast.Ref{Name: prf})},
			{Pattern: ast.Apply(ast.Ref{Name: config.NoCtorName}, ast.Hole{}), Body: nothing},
		}
	}
	body := ast.Case{
		Scrutinee: ast.Apply(ast.NamedApp{Fn: decide, Name: config.DecidePredicateArg, Arg: t.Predicate}, ast.Ref{Name: raw}),
		Alts:      alts,
	}

	return ast.Decl{
		Claim: ast.Claim{Visibility: ast.PublicExport, Name: config.RefineFuncName, Type: sig},
		Def: ast.Def{
			Name: config.RefineFuncName,
			Clauses: []ast.Clause{{
				LHS: ast.Apply(ast.Ref{Name: config.RefineFuncName}, ast.Ref{Name: raw}),
				RHS: body,
			}},
		},
	}
}

// FromInteger builds the integer literal conversion.
func FromInteger(s *Shape) ast.Decl {
	return literal(s, config.FromIntegerFuncName, config.IntegerTypeName)
}

// FromDouble builds the floating-point literal conversion.
func FromDouble(s *Shape) ast.Decl {
	return literal(s, config.FromDoubleFuncName, config.DoubleTypeName)
}

// FromString builds the string literal conversion.
func FromString(s *Shape) ast.Decl {
	return literal(s, config.FromStringFuncName, config.StringTypeName)
}

// literal builds
//
//	fun : {params} -> (lit : L) -> {auto 0 _ : IsJust (refine (fun lit))} -> T params
//	fun lit = fromJust (refine (fun lit))
//
// The auto-implicit obligation is discharged by the host at each use
// site, which makes the unconditional fromJust total.
func literal(s *Shape, fun, litType string) ast.Decl {
	t := Extract(s)
	taken := reserved(s, t)
	lit := fresh("lit", taken)

	refined := ast.Apply(ast.Ref{Name: config.RefineFuncName}, ast.Apply(ast.Ref{Name: fun}, ast.Ref{Name: lit}))
	sig := withParams(s, ast.Arrows([]ast.Binder{
		{Name: lit, Type: ast.Ref{Name: litType}},
		{Count: ast.M0, Piness: ast.AutoImplicit, Type: ast.Apply(ast.Ref{Name: config.IsJustTypeName}, refined)},
	}, s.ResultType()))

	return ast.Decl{
		Claim: ast.Claim{Visibility: ast.Export, Name: fun, Type: sig},
		Def: ast.Def{
			Name: fun,
			Clauses: []ast.Clause{{
				LHS: ast.Apply(ast.Ref{Name: fun}, ast.Ref{Name: lit}),
				RHS: ast.Apply(ast.Ref{Name: config.FromJustFuncName}, refined),
			}},
		},
	}
}

// construct applies the constructor to the raw value and the proof slot.
func construct(s *Shape, raw string, witness ast.Term) ast.Term {
	head := ast.Apply(ast.Ref{Name: s.Constructor()}, ast.Ref{Name: raw})
	if s.ProofPiness() == ast.AutoImplicit {
		return ast.AutoApp{Fn: head, Arg: witness}
	}
	return ast.App{Fn: head, Arg: witness}
}

// withParams binds the type's parameters as implicits in front of body.
func withParams(s *Shape, body ast.Term) ast.Term {
	params := s.Params()
	bs := make([]ast.Binder, len(params))
	for i, p := range params {
		bs[i] = ast.Binder{Name: p.Name, Count: p.Count, Piness: ast.Implicit, Type: p.Type}
	}
	return ast.Arrows(bs, body)
}

// reserved collects names a generated binder must not capture.
func reserved(s *Shape, t Terms) map[string]bool {
	taken := map[string]bool{s.TypeName(): true, s.Constructor(): true}
	for _, p := range s.Params() {
		taken[p.Name] = true
	}
	for _, n := range ast.FreeRefs(t.ValueType) {
		taken[n] = true
	}
	for _, n := range ast.FreeRefs(t.Predicate) {
		taken[n] = true
	}
	return taken
}

// fresh returns base, or base1, base2, ... whichever is not taken, and
// marks it taken.
func fresh(base string, taken map[string]bool) string {
	name := base
	for i := 1; taken[name]; i++ {
		name = base + strconv.Itoa(i)
	}
	taken[name] = true
	return name
}
