package config

import (
	"strings"
	"testing"

	"github.com/funvibe/refinery/internal/ast"
)

func TestParseTerm(t *testing.T) {
	ref := func(n string) ast.Term { return ast.Ref{Name: n} }
	tests := []struct {
		src  string
		want ast.Term
	}{
		{"Nat", ref("Nat")},
		{"  Nat  ", ref("Nat")},
		{"#0", ref("#0")},
		{"_", ast.Hole{}},
		{"Vect #0 Double", ast.Apply(ref("Vect"), ref("#0"), ref("Double"))},
		{"IsUnitVector value", ast.App{Fn: ref("IsUnitVector"), Arg: ref("value")}},
		{"LT (S n) m", ast.Apply(ref("LT"), ast.App{Fn: ref("S"), Arg: ref("n")}, ref("m"))},
		{"((Nat))", ref("Nat")},
		{"Data.Vect.Vect n'", ast.App{Fn: ref("Data.Vect.Vect"), Arg: ref("n'")}},
		{"Between 0 10", ast.Apply(ref("Between"), ast.Lit{Kind: ast.IntLit, Value: "0"}, ast.Lit{Kind: ast.IntLit, Value: "10"})},
		{"Above -1.5", ast.App{Fn: ref("Above"), Arg: ast.Lit{Kind: ast.FloatLit, Value: "-1.5"}}},
		{`Prefix "a\"b"`, ast.App{Fn: ref("Prefix"), Arg: ast.Lit{Kind: ast.StringLit, Value: `a"b`}}},
		{"Größe x", ast.App{Fn: ref("Größe"), Arg: ref("x")}},
		{"Nat -> Bool", ast.Pi{Binder: ast.Binder{Type: ref("Nat")}, Codomain: ref("Bool")}},
		{"a -> b -> c", ast.Pi{
			Binder:   ast.Binder{Type: ref("a")},
			Codomain: ast.Pi{Binder: ast.Binder{Type: ref("b")}, Codomain: ref("c")},
		}},
		{"(a -> b) -> c", ast.Pi{
			Binder:   ast.Binder{Type: ast.Pi{Binder: ast.Binder{Type: ref("a")}, Codomain: ref("b")}},
			Codomain: ref("c"),
		}},
		{"(n : Nat) -> Vect #0 n", ast.Pi{
			Binder:   ast.Binder{Name: "n", Type: ref("Nat")},
			Codomain: ast.Apply(ref("Vect"), ref("#0"), ref("n")),
		}},
		{"{n : Nat} -> Fin n", ast.Pi{
			Binder:   ast.Binder{Name: "n", Piness: ast.Implicit, Type: ref("Nat")},
			Codomain: ast.App{Fn: ref("Fin"), Arg: ref("n")},
		}},
		{"{auto 0 p : NonZero n} -> Nat", ast.Pi{
			Binder:   ast.Binder{Name: "p", Count: ast.M0, Piness: ast.AutoImplicit, Type: ast.App{Fn: ref("NonZero"), Arg: ref("n")}},
			Codomain: ref("Nat"),
		}},
		{"{default 1 _ : Bool} -> Nat", ast.Pi{
			Binder:   ast.Binder{Count: ast.M1, Piness: ast.DefImplicit, Type: ref("Bool")},
			Codomain: ref("Nat"),
		}},
		{"(f : Nat -> Nat) -> P f", ast.Pi{
			Binder:   ast.Binder{Name: "f", Type: ast.Pi{Binder: ast.Binder{Type: ref("Nat")}, Codomain: ref("Nat")}},
			Codomain: ast.App{Fn: ref("P"), Arg: ref("f")},
		}},
		{"(0 x:Nat)->P x", ast.Pi{
			Binder:   ast.Binder{Name: "x", Count: ast.M0, Type: ref("Nat")},
			Codomain: ast.App{Fn: ref("P"), Arg: ref("x")},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got, err := ParseTerm(tt.src)
			if err != nil {
				t.Fatalf("ParseTerm(%q) error = %v", tt.src, err)
			}
			if !ast.Equal(got, tt.want) {
				t.Errorf("ParseTerm(%q) = %s; want %s", tt.src, got, tt.want)
			}
		})
	}
}

func TestParseTerm_Errors(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"", "column 1: expected a term, found end of input"},
		{"(Nat", "expected ')', found end of input"},
		{"Nat)", `unexpected ")"`},
		{"#x", "'#' must be followed by a parameter index"},
		{`"open`, "unterminated string"},
		{`"\q"`, "bad string literal"},
		{"a + b", "column 3: unexpected character '+'"},
		{"()", `expected a term, found ")"`},
		{"a ->", "expected a term, found end of input"},
		{"(n : Nat)", "expected '->' after binder, found end of input"},
		{"{n Nat} -> a", `expected ':', found "Nat"`},
		{"{2 n : Nat} -> a", `expected a binder name, found "2"`},
		{"{n : Nat -> a", "expected '}', found end of input"},
		{"a : b", `unexpected ":"`},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := ParseTerm(tt.src)
			if err == nil {
				t.Fatalf("ParseTerm(%q) succeeded, want error", tt.src)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("ParseTerm(%q) error = %q, want it to contain %q", tt.src, err, tt.want)
			}
		})
	}
}

func FuzzParseTerm(f *testing.F) {
	for _, seed := range []string{
		"Nat",
		"Vect #0 Double",
		"LT (S n) (f (g _))",
		`Prefix "x\ny" -3 4.25`,
		"((a))",
		"(n : Nat) -> {auto 0 p : LT n 3} -> Vect n (a -> b)",
		"{default _ : Bool} -> (x : Nat) -> Nat",
	} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, src string) {
		term, err := ParseTerm(src)
		if err != nil {
			return
		}
		printed := ast.Format(term)
		again, err := ParseTerm(printed)
		if err != nil {
			t.Fatalf("ParseTerm(%q) from %q: %v", printed, src, err)
		}
		// Unused explicit binder names are not printed, so compare the
		// printed forms.
		if reprinted := ast.Format(again); reprinted != printed {
			t.Fatalf("round trip of %q: %s != %s", src, printed, reprinted)
		}
	})
}
