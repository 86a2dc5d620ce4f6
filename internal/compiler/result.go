package compiler

import (
	"fmt"

	"github.com/funvibe/bladec/internal/ast"
	"github.com/funvibe/bladec/internal/blade"
	"github.com/funvibe/bladec/internal/typesystem"
)

// Outcome classifies a compiled operator.
type Outcome int

const (
	// Elided means type inference alone proves the operator is always
	// zero. Printers omit such operators entirely.
	Elided Outcome = iota
	// Typed means the result is a registered aggregate or a single blade.
	Typed
	// Raw means the result is non-zero but matches no registered type.
	Raw
	// Zero means the operator only vanished after simplification.
	Zero
)

func (o Outcome) String() string {
	switch o {
	case Elided:
		return "elided"
	case Typed:
		return "typed"
	case Raw:
		return "raw"
	case Zero:
		return "zero"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Operator identifies one compiled operation: a product of two operand
// types, or a unary operator on one.
type Operator struct {
	Unary bool
	Kind  blade.ProductKind
	Op    blade.UnaryOp
	LHS   typesystem.Type
	RHS   typesystem.Type
}

func (o Operator) String() string {
	if o.Unary {
		return fmt.Sprintf("%s(%s)", o.Op, o.LHS)
	}
	return fmt.Sprintf("%s(%s, %s)", o.Kind, o.LHS, o.RHS)
}

// Result is one compiled operator.
type Result struct {
	Operator Operator
	Outcome  Outcome
	// Expr is the simplified and typified body. For a Typed blade result it
	// is the scalar coefficient of that blade. Nil when Elided.
	Expr ast.Expr
	// Type is the result type when Typed, nil otherwise.
	Type typesystem.Type
	// TypeName is the registry name of Type.
	TypeName string
}

// Emitted reports whether a printer should produce an implementation.
func (r Result) Emitted() bool {
	return r.Outcome != Elided
}
