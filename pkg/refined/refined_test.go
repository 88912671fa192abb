package refined

import (
	"errors"
	"strings"
	"testing"
)

type evenProof struct{ half int }

type even struct {
	value int
	proof evenProof
}

var isEven = DeciderFunc[int, evenProof](func(n int) Decision[evenProof] {
	if n%2 == 0 {
		return Yes(evenProof{half: n / 2})
	}
	return No[evenProof]()
})

func mkEven(v int, p evenProof) even { return even{value: v, proof: p} }

func TestRefine(t *testing.T) {
	for n := -5; n <= 5; n++ {
		got, ok := Refine[int, evenProof, even](isEven, mkEven, n)
		if ok != (n%2 == 0) {
			t.Fatalf("Refine(%d) ok = %v", n, ok)
		}
		if !ok {
			if got != (even{}) {
				t.Errorf("Refine(%d) = %+v on No, want zero value", n, got)
			}
			continue
		}
		if got.value != n || got.proof.half*2 != n {
			t.Errorf("Refine(%d) = %+v, witness does not match value", n, got)
		}
	}
}

func TestRefineErased(t *testing.T) {
	positive := Bool(func(n int) bool { return n > 0 })
	mk := func(n int) uint { return uint(n) }

	if got, ok := RefineErased[int, struct{}, uint](positive, mk, 3); !ok || got != 3 {
		t.Errorf("RefineErased(3) = %d, %v; want 3, true", got, ok)
	}
	if got, ok := RefineErased[int, struct{}, uint](positive, mk, -3); ok || got != 0 {
		t.Errorf("RefineErased(-3) = %d, %v; want 0, false", got, ok)
	}
}

func TestDecision(t *testing.T) {
	yes := Yes("w")
	if !yes.IsYes() {
		t.Error("Yes().IsYes() = false")
	}
	if w, ok := yes.Witness(); !ok || w != "w" {
		t.Errorf("Yes().Witness() = %q, %v", w, ok)
	}
	if yes.String() != "Yes(w)" {
		t.Errorf("String() = %q", yes.String())
	}

	no := No[string]()
	if no.IsYes() {
		t.Error("No().IsYes() = true")
	}
	if w, ok := no.Witness(); ok || w != "" {
		t.Errorf("No().Witness() = %q, %v", w, ok)
	}
	if no.String() != "No" {
		t.Errorf("String() = %q", no.String())
	}
}

func TestMustLiteral(t *testing.T) {
	if got := MustLiteral(even{value: 4}, true, 4); got.value != 4 {
		t.Errorf("MustLiteral() = %+v", got)
	}

	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok {
			t.Fatalf("recovered %v, want an error", r)
		}
		var lerr *LiteralError
		if !errors.As(err, &lerr) {
			t.Fatalf("recovered %T, want *LiteralError", r)
		}
		if lerr.Literal != 3 || !strings.Contains(lerr.Type, "even") {
			t.Errorf("LiteralError = %+v", lerr)
		}
		if !strings.Contains(err.Error(), "literal 3 does not satisfy") {
			t.Errorf("Error() = %q", err.Error())
		}
	}()
	MustLiteral(even{}, false, 3)
	t.Fatal("MustLiteral did not panic")
}
