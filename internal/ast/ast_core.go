// Package ast defines the symbolic expression tree the compiler rewrites:
// typed variables, basis vectors, scaled terms, unary operators, sums,
// labeled products and named aggregate instances.
//
// The variant set is closed. Every consumer switches over it exhaustively
// and panics on an unknown node, so adding a variant means visiting every
// consumer.
package ast

import (
	"strconv"
	"strings"

	"github.com/funvibe/bladec/internal/blade"
	"github.com/funvibe/bladec/internal/grammar"
	"github.com/funvibe/bladec/internal/typesystem"
)

// Expr is the interface for all expression nodes.
type Expr interface {
	String() string
	exprNode()
}

// Var is a named symbolic value. Order imposes the canonical left-to-right
// position among named operands of a product (e.g. self before other).
// A nil Type means the type is not known.
type Var struct {
	Name  string
	Type  typesystem.Type
	Order int
}

// BasisVector references one generator directly.
type BasisVector struct {
	Index grammar.VecIndex
}

// Scaled multiplies an expression by an integer.
type Scaled struct {
	Expr   Expr
	Scalar int
}

// Unary applies a linear unary operator.
type Unary struct {
	Op   blade.UnaryOp
	Expr Expr
}

// Sum adds its terms. The empty sum is zero.
type Sum struct {
	Terms []Expr
}

// Product multiplies its factors left to right under one product kind. The
// empty product is the identity of the kind.
type Product struct {
	Kind    blade.ProductKind
	Factors []Expr
}

// MemberValue is one member slot of an aggregate instance.
type MemberValue struct {
	Name  string
	Value Expr
}

// AggregateInstance is a value of a registered aggregate. Only the typify
// pass produces it.
type AggregateInstance struct {
	Type    typesystem.TAggregate
	Members []MemberValue
}

func (Var) exprNode()               {}
func (BasisVector) exprNode()       {}
func (Scaled) exprNode()            {}
func (Unary) exprNode()             {}
func (Sum) exprNode()               {}
func (Product) exprNode()           {}
func (AggregateInstance) exprNode() {}

func (v Var) String() string         { return v.Name }
func (bv BasisVector) String() string { return bv.Index.String() }

func (s Scaled) String() string {
	return strconv.Itoa(s.Scalar) + "*" + s.Expr.String()
}

func (u Unary) String() string {
	var op string
	switch u.Op {
	case blade.LeftComplementOp:
		op = "lc"
	case blade.RightComplementOp:
		op = "rc"
	case blade.ReverseOp:
		op = "rev"
	case blade.AntiReverseOp:
		op = "antirev"
	default:
		op = u.Op.String()
	}
	return op + "(" + u.Expr.String() + ")"
}

func (s Sum) String() string {
	if len(s.Terms) == 0 {
		return "0"
	}
	parts := make([]string, len(s.Terms))
	for i, t := range s.Terms {
		parts[i] = t.String()
	}
	return "(" + strings.Join(parts, " + ") + ")"
}

// Symbol is the infix operator used when printing a product kind.
func Symbol(k blade.ProductKind) string {
	switch k {
	case blade.Geometric:
		return "*"
	case blade.Dot:
		return "|"
	case blade.Wedge:
		return "^"
	case blade.Regressive:
		return "&"
	case blade.AntiGeometric:
		return "~*"
	default:
		return k.String()
	}
}

func (p Product) String() string {
	if len(p.Factors) == 0 {
		if p.Kind.Anti() {
			return "I"
		}
		return "1"
	}
	parts := make([]string, len(p.Factors))
	for i, f := range p.Factors {
		parts[i] = f.String()
	}
	return "(" + strings.Join(parts, " "+Symbol(p.Kind)+" ") + ")"
}

func (a AggregateInstance) String() string {
	parts := make([]string, len(a.Members))
	for i, m := range a.Members {
		parts[i] = m.Name + ": " + m.Value.String()
	}
	return a.Type.Name + "{" + strings.Join(parts, ", ") + "}"
}

// NewVar declares a typed variable.
func NewVar(name string, t typesystem.Type, order int) Var {
	return Var{Name: name, Type: t, Order: order}
}

// Vec references generator v.
func Vec(v grammar.VecIndex) BasisVector { return BasisVector{Index: v} }

// Zero is the empty sum.
func Zero() Sum { return Sum{} }

// One is the empty geometric product.
func One() Product { return Product{Kind: blade.Geometric} }

// Constant is the integer n as an expression.
func Constant(n int) Expr {
	switch n {
	case 0:
		return Zero()
	case 1:
		return One()
	default:
		return Scaled{Expr: One(), Scalar: n}
	}
}

// Scale multiplies e by k.
func Scale(e Expr, k int) Scaled { return Scaled{Expr: e, Scalar: k} }

// Neg negates e.
func Neg(e Expr) Scaled { return Scaled{Expr: e, Scalar: -1} }

// Add sums terms.
func Add(terms ...Expr) Sum { return Sum{Terms: terms} }

// Mul multiplies factors under kind.
func Mul(kind blade.ProductKind, factors ...Expr) Product {
	return Product{Kind: kind, Factors: factors}
}

// Geometric multiplies factors with the geometric product.
func Geometric(factors ...Expr) Product { return Mul(blade.Geometric, factors...) }

// Dot multiplies factors with the inner product.
func Dot(factors ...Expr) Product { return Mul(blade.Dot, factors...) }

// Wedge multiplies factors with the outer product.
func Wedge(factors ...Expr) Product { return Mul(blade.Wedge, factors...) }

// Regressive multiplies factors with the regressive product.
func Regressive(factors ...Expr) Product { return Mul(blade.Regressive, factors...) }

// AntiGeometric multiplies factors with the anti-geometric product.
func AntiGeometric(factors ...Expr) Product { return Mul(blade.AntiGeometric, factors...) }

// Apply wraps e in a unary operator.
func Apply(op blade.UnaryOp, e Expr) Unary { return Unary{Op: op, Expr: e} }

// IsZero reports whether e is syntactically the empty sum.
func IsZero(e Expr) bool {
	s, ok := e.(Sum)
	return ok && len(s.Terms) == 0
}
