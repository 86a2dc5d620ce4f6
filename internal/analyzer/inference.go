// Package analyzer implements the symbolic passes over expression trees:
// best-effort type inference, simplification to a sum-of-products normal
// form, and typify, which recognizes registered aggregates in simplified
// sums.
package analyzer

import (
	"fmt"

	"github.com/funvibe/bladec/internal/ast"
	"github.com/funvibe/bladec/internal/blade"
	"github.com/funvibe/bladec/internal/grammar"
	"github.com/funvibe/bladec/internal/typesystem"
)

// Infer computes the type of e. It never guesses: when the type depends on
// information that is not available (no grammar, untyped variables, sums of
// differently typed terms) it reports false. g may be nil.
func Infer(e ast.Expr, g *grammar.Grammar) (typesystem.Type, bool) {
	switch n := e.(type) {
	case ast.Var:
		if n.Type == nil {
			return nil, false
		}
		return n.Type, true

	case ast.BasisVector:
		if g != nil && g.Check(n.Index) != nil {
			return nil, false
		}
		return typesystem.Vector(n.Index), true

	case ast.Scaled:
		if n.Scalar == 0 {
			return typesystem.TZero{}, true
		}
		return Infer(n.Expr, g)

	case ast.Unary:
		t, ok := Infer(n.Expr, g)
		if !ok {
			return nil, false
		}
		return typesystem.ApplyUnary(n.Op, t, g)

	case ast.Sum:
		return inferSum(n, g)

	case ast.Product:
		return inferProduct(n, g)

	case ast.AggregateInstance:
		return n.Type, true

	default:
		panic(fmt.Sprintf("analyzer: unknown expression %T", e))
	}
}

func inferSum(s ast.Sum, g *grammar.Grammar) (typesystem.Type, bool) {
	var common typesystem.Type = typesystem.TZero{}
	for _, term := range s.Terms {
		t, ok := Infer(term, g)
		if !ok {
			return nil, false
		}
		if typesystem.IsZero(t) {
			continue
		}
		if typesystem.IsZero(common) {
			common = t
			continue
		}
		if !typesystem.Equal(common, t) {
			return nil, false
		}
	}
	return common, true
}

func inferProduct(p ast.Product, g *grammar.Grammar) (typesystem.Type, bool) {
	switch len(p.Factors) {
	case 0:
		if p.Kind.Anti() {
			if g == nil {
				return nil, false
			}
			return typesystem.FromBlade(blade.Identity(p.Kind, g)), true
		}
		return typesystem.Scalar(), true
	case 1:
		return Infer(p.Factors[0], g)
	}

	types := make([]typesystem.Type, len(p.Factors))
	known := true
	for i, f := range p.Factors {
		t, ok := Infer(f, g)
		if ok && typesystem.IsZero(t) {
			return typesystem.TZero{}, true
		}
		if !ok {
			known = false
		}
		types[i] = t
	}
	if !known || g == nil {
		return nil, false
	}
	acc := types[0]
	for _, t := range types[1:] {
		next, ok := typesystem.Product(p.Kind, acc, t, g)
		if !ok {
			return nil, false
		}
		acc = next
	}
	return acc, true
}

// bladeType returns the signed blade of e when e is known to be
// proportional to a single non-zero blade.
func bladeType(e ast.Expr, g *grammar.Grammar) (blade.SignedBlade, bool) {
	t, ok := Infer(e, g)
	if !ok {
		return blade.Zero(), false
	}
	tb, ok := t.(typesystem.TBlade)
	if !ok || tb.Value.IsZero() {
		return blade.Zero(), false
	}
	return tb.Value, true
}
