package derive

import (
	"errors"
	"fmt"

	"github.com/funvibe/refinery/internal/ast"
)

// Sentinels for errors.Is.
var (
	ErrNotSingleConstructor = errors.New("not a single-constructor type")
	ErrShapeMismatch        = errors.New("constructor does not match the refinement shape")
)

// NotSingleConstructorError is returned when a type has zero or several
// constructors.
type NotSingleConstructorError struct {
	Type  string
	Loc   ast.Loc
	Count int
}

func (e *NotSingleConstructorError) Error() string {
	return fmt.Sprintf("%s: type %s: expected exactly one constructor, found %d", e.Loc, e.Type, e.Count)
}

func (e *NotSingleConstructorError) Is(target error) bool {
	return target == ErrNotSingleConstructor
}

// ShapeMismatchError is returned when the single constructor's argument
// list is not a value argument followed by a proof about it.
type ShapeMismatchError struct {
	Type        string
	Constructor string
	Loc         ast.Loc
	Reason      string
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("%s: type %s: constructor %s is not a refinement: %s", e.Loc, e.Type, e.Constructor, e.Reason)
}

func (e *ShapeMismatchError) Is(target error) bool {
	return target == ErrShapeMismatch
}
