package ast

import (
	"fmt"
	"slices"
)

// Children returns the direct sub-expressions of e in order.
func Children(e Expr) []Expr {
	switch n := e.(type) {
	case Var, BasisVector:
		return nil
	case Scaled:
		return []Expr{n.Expr}
	case Unary:
		return []Expr{n.Expr}
	case Sum:
		return slices.Clone(n.Terms)
	case Product:
		return slices.Clone(n.Factors)
	case AggregateInstance:
		out := make([]Expr, len(n.Members))
		for i, m := range n.Members {
			out[i] = m.Value
		}
		return out
	default:
		panic(fmt.Sprintf("ast: unknown expression %T", e))
	}
}

// WithChildren rebuilds e around new children, which must match
// Children(e) in number.
func WithChildren(e Expr, children []Expr) Expr {
	switch n := e.(type) {
	case Var, BasisVector:
		return n
	case Scaled:
		return Scaled{Expr: children[0], Scalar: n.Scalar}
	case Unary:
		return Unary{Op: n.Op, Expr: children[0]}
	case Sum:
		return Sum{Terms: slices.Clone(children)}
	case Product:
		return Product{Kind: n.Kind, Factors: slices.Clone(children)}
	case AggregateInstance:
		members := make([]MemberValue, len(n.Members))
		for i, m := range n.Members {
			members[i] = MemberValue{Name: m.Name, Value: children[i]}
		}
		return AggregateInstance{Type: n.Type, Members: members}
	default:
		panic(fmt.Sprintf("ast: unknown expression %T", e))
	}
}

// Rewrite applies fn bottom-up to every node of e.
func Rewrite(e Expr, fn func(Expr) Expr) Expr {
	children := Children(e)
	if len(children) > 0 {
		for i, c := range children {
			children[i] = Rewrite(c, fn)
		}
		e = WithChildren(e, children)
	}
	return fn(e)
}

// Vars collects every variable of e in first-seen order, without
// duplicates.
func Vars(e Expr) []Var {
	var out []Var
	var walk func(Expr)
	walk = func(x Expr) {
		if v, ok := x.(Var); ok {
			for _, seen := range out {
				if Equal(seen, v) {
					return
				}
			}
			out = append(out, v)
			return
		}
		for _, c := range Children(x) {
			walk(c)
		}
	}
	walk(e)
	return out
}
