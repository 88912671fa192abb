// Package refined is the runtime used by Go code generated by refinery.
//
// A refinement pairs a raw value with evidence that it satisfies a
// predicate. A Decider tests the predicate and either produces the
// evidence (Yes) or does not (No). Generated constructors only build a
// refined value on Yes, so every value of a generated type carries a
// witness produced by its decider.
package refined

import "fmt"

// Decision is the outcome of deciding a predicate for one value.
type Decision[W any] struct {
	witness W
	yes     bool
}

// Yes reports that the predicate holds, with w as evidence.
func Yes[W any](w W) Decision[W] {
	return Decision[W]{witness: w, yes: true}
}

// No reports that the predicate does not hold.
func No[W any]() Decision[W] {
	return Decision[W]{}
}

// IsYes reports whether the predicate holds.
func (d Decision[W]) IsYes() bool { return d.yes }

// Witness returns the evidence of a Yes decision.
func (d Decision[W]) Witness() (W, bool) { return d.witness, d.yes }

func (d Decision[W]) String() string {
	if d.yes {
		return fmt.Sprintf("Yes(%v)", d.witness)
	}
	return "No"
}

// Decider decides a predicate over values of type V.
type Decider[V, W any] interface {
	Decide(v V) Decision[W]
}

// DeciderFunc adapts a function to Decider.
type DeciderFunc[V, W any] func(v V) Decision[W]

// Decide calls f(v).
func (f DeciderFunc[V, W]) Decide(v V) Decision[W] { return f(v) }

// Bool turns a boolean test into a decider whose witness carries no data.
func Bool[V any](test func(V) bool) Decider[V, struct{}] {
	return DeciderFunc[V, struct{}](func(v V) Decision[struct{}] {
		if test(v) {
			return Yes(struct{}{})
		}
		return No[struct{}]()
	})
}

// Refine runs d on v and, on Yes, builds the refined value from v and the
// witness. On No it returns the zero R and false.
func Refine[V, W, R any](d Decider[V, W], mk func(V, W) R, v V) (R, bool) {
	w, ok := d.Decide(v).Witness()
	if !ok {
		var zero R
		return zero, false
	}
	return mk(v, w), true
}

// RefineErased is Refine for types that do not store their witness.
func RefineErased[V, W, R any](d Decider[V, W], mk func(V) R, v V) (R, bool) {
	if !d.Decide(v).IsYes() {
		var zero R
		return zero, false
	}
	return mk(v), true
}

// LiteralError is the panic value of MustLiteral.
type LiteralError struct {
	Type    string
	Literal any
}

func (e *LiteralError) Error() string {
	return fmt.Sprintf("refined: literal %#v does not satisfy the predicate of %s", e.Literal, e.Type)
}

// MustLiteral unwraps the result of refining a literal. Go cannot reject
// such literals at compile time, so a literal that fails the predicate
// panics with a *LiteralError naming the type R.
func MustLiteral[R any](r R, ok bool, lit any) R {
	if !ok {
		panic(&LiteralError{Type: fmt.Sprintf("%T", r), Literal: lit})
	}
	return r
}
