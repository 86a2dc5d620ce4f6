package ast

import (
	"cmp"
	"fmt"

	"github.com/funvibe/bladec/internal/typesystem"
)

func rank(e Expr) int {
	switch e.(type) {
	case Var:
		return 0
	case BasisVector:
		return 1
	case Unary:
		return 2
	case Product:
		return 3
	case Scaled:
		return 4
	case Sum:
		return 5
	case AggregateInstance:
		return 6
	default:
		panic(fmt.Sprintf("ast: unknown expression %T", e))
	}
}

// Compare is a total structural order over expressions. Variables sort
// first (by Order, then name), then basis vectors by index, then compound
// nodes. Compare(a, b) == 0 exactly when a and b are structurally equal.
func Compare(a, b Expr) int {
	if c := cmp.Compare(rank(a), rank(b)); c != 0 {
		return c
	}
	switch x := a.(type) {
	case Var:
		y := b.(Var)
		if c := cmp.Compare(x.Order, y.Order); c != 0 {
			return c
		}
		if c := cmp.Compare(x.Name, y.Name); c != 0 {
			return c
		}
		return typesystem.Compare(x.Type, y.Type)
	case BasisVector:
		return cmp.Compare(x.Index, b.(BasisVector).Index)
	case Unary:
		y := b.(Unary)
		if c := cmp.Compare(x.Op, y.Op); c != 0 {
			return c
		}
		return Compare(x.Expr, y.Expr)
	case Product:
		y := b.(Product)
		if c := cmp.Compare(x.Kind, y.Kind); c != 0 {
			return c
		}
		return compareList(x.Factors, y.Factors)
	case Scaled:
		y := b.(Scaled)
		if c := Compare(x.Expr, y.Expr); c != 0 {
			return c
		}
		return cmp.Compare(x.Scalar, y.Scalar)
	case Sum:
		return compareList(x.Terms, b.(Sum).Terms)
	case AggregateInstance:
		y := b.(AggregateInstance)
		if c := typesystem.Compare(x.Type, y.Type); c != 0 {
			return c
		}
		if c := cmp.Compare(len(x.Members), len(y.Members)); c != 0 {
			return c
		}
		for i := range x.Members {
			if c := cmp.Compare(x.Members[i].Name, y.Members[i].Name); c != 0 {
				return c
			}
			if c := Compare(x.Members[i].Value, y.Members[i].Value); c != 0 {
				return c
			}
		}
		return 0
	default:
		panic(fmt.Sprintf("ast: unknown expression %T", a))
	}
}

func compareList(xs, ys []Expr) int {
	if c := cmp.Compare(len(xs), len(ys)); c != 0 {
		return c
	}
	for i := range xs {
		if c := Compare(xs[i], ys[i]); c != 0 {
			return c
		}
	}
	return 0
}

// Equal reports structural equality.
func Equal(a, b Expr) bool {
	return Compare(a, b) == 0
}
