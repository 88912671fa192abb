package ast

import (
	"fmt"
	"strings"
)

// Count is the multiplicity of a binder: how many times the bound value
// may be used at runtime.
type Count int

const (
	MW Count = iota // unrestricted
	M0              // erased
	M1              // linear
)

func (c Count) String() string {
	switch c {
	case M0:
		return "0"
	case M1:
		return "1"
	default:
		return "w"
	}
}

// prefix is the spelling of the count in front of a binder name.
func (c Count) prefix() string {
	switch c {
	case M0:
		return "0 "
	case M1:
		return "1 "
	default:
		return ""
	}
}

// ParseCount accepts "", "w", "MW", "unrestricted", "0", "M0", "erased",
// "1", "M1" and "linear".
func ParseCount(s string) (Count, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "w", "mw", "unrestricted":
		return MW, nil
	case "0", "m0", "erased":
		return M0, nil
	case "1", "m1", "linear":
		return M1, nil
	}
	return MW, fmt.Errorf("unknown multiplicity %q", s)
}

// Piness is how an argument is passed: explicitly, inferred by
// unification, found by proof search, or defaulted.
type Piness int

const (
	Explicit Piness = iota
	Implicit
	AutoImplicit
	DefImplicit
)

func (p Piness) String() string {
	switch p {
	case Implicit:
		return "implicit"
	case AutoImplicit:
		return "auto"
	case DefImplicit:
		return "default"
	default:
		return "explicit"
	}
}

// ParsePiness accepts "", "explicit", "implicit", "auto" and "default".
func ParsePiness(s string) (Piness, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "explicit":
		return Explicit, nil
	case "implicit":
		return Implicit, nil
	case "auto", "auto-implicit", "autoimplicit":
		return AutoImplicit, nil
	case "default":
		return DefImplicit, nil
	}
	return Explicit, fmt.Errorf("unknown argument kind %q", s)
}

// Binder introduces a name in a Pi type. An empty Name is anonymous.
type Binder struct {
	Name   string
	Count  Count
	Piness Piness
	Type   Term
}
