package derive

import (
	"fmt"
	"strings"

	"github.com/funvibe/refinery/internal/ast"
	"github.com/funvibe/refinery/internal/config"
)

// Strategy is a named derivation: refine plus a fixed set of literal
// conversions.
type Strategy struct {
	Name     string
	Literals Literals
}

// The four strategies. Float literals subsume integer literals.
var (
	Plain               = Strategy{Name: config.StrategyPlain}
	WithIntegerLiterals = Strategy{Name: config.StrategyInteger, Literals: IntegerLiterals}
	WithFloatLiterals   = Strategy{Name: config.StrategyFloat, Literals: IntegerLiterals | FloatLiterals}
	WithStringLiterals  = Strategy{Name: config.StrategyString, Literals: StringLiterals}
)

var strategies = map[string]Strategy{
	Plain.Name:               Plain,
	WithIntegerLiterals.Name: WithIntegerLiterals,
	WithFloatLiterals.Name:   WithFloatLiterals,
	WithStringLiterals.Name:  WithStringLiterals,
}

// Lookup returns the strategy registered under name.
func Lookup(name string) (Strategy, error) {
	if st, ok := strategies[name]; ok {
		return st, nil
	}
	return Strategy{}, fmt.Errorf("unknown strategy %q (want one of %s)", name, strings.Join(config.StrategyNames, ", "))
}

// Derive matches td and returns the declarations to emit. Nothing is
// returned when matching fails.
func (st Strategy) Derive(td *ast.TypeDescriptor) ([]ast.Decl, error) {
	s, err := Match(td)
	if err != nil {
		return nil, err
	}
	return Synthesize(s, st.Literals), nil
}
