package analyzer

import (
	"github.com/funvibe/bladec/internal/ast"
	"github.com/funvibe/bladec/internal/blade"
	"github.com/funvibe/bladec/internal/grammar"
	"github.com/funvibe/bladec/internal/typesystem"
)

// productTerm normalizes one distributed product. It reports false when
// the product is provably zero.
func productTerm(kind blade.ProductKind, coef int, factors []ast.Expr, g *grammar.Grammar) (term, bool) {
	if coef == 0 {
		return term{}, false
	}
	factors = flatten(kind, factors)

	for _, f := range factors {
		if t, ok := Infer(f, g); ok && typesystem.IsZero(t) {
			return term{}, false
		}
	}
	if len(factors) > 1 {
		if t, ok := Infer(ast.Product{Kind: kind, Factors: factors}, g); ok && typesystem.IsZero(t) {
			return term{}, false
		}
	}

	if g != nil && (kind.Associative() || len(factors) == 2) {
		var ok bool
		if factors, coef, ok = canonicalOrder(kind, factors, coef, g); !ok {
			return term{}, false
		}
	}

	switch len(factors) {
	case 0:
		return term{coef: coef, base: identityExpr(kind)}, true
	case 1:
		return term{coef: coef, base: factors[0]}, true
	default:
		return term{coef: coef, base: ast.Product{Kind: kind, Factors: factors}}, true
	}
}

// flatten inlines nested products of the same associative kind and drops
// scalar units, which are the identity of every kind that is not defined
// through complements.
func flatten(kind blade.ProductKind, factors []ast.Expr) []ast.Expr {
	out := make([]ast.Expr, 0, len(factors))
	for _, f := range factors {
		p, ok := f.(ast.Product)
		if !ok {
			out = append(out, f)
			continue
		}
		if len(p.Factors) == 0 && p.Kind == blade.Geometric && !kind.Anti() {
			continue
		}
		if p.Kind == kind && kind.Associative() {
			out = append(out, flatten(kind, p.Factors)...)
			continue
		}
		out = append(out, f)
	}
	return out
}

// canonicalOrder bubble-sorts adjacent factors whose blade types are both
// known, folding the commutation sign into coef, and cancels adjacent equal
// basis vectors whose product is the identity up to sign. It reports false
// when the product vanishes.
func canonicalOrder(kind blade.ProductKind, factors []ast.Expr, coef int, g *grammar.Grammar) ([]ast.Expr, int, bool) {
	identity := blade.Identity(kind, g)
	for changed := true; changed; {
		changed = false
		for i := 0; i+1 < len(factors); i++ {
			a, b := factors[i], factors[i+1]

			if va, ok := a.(ast.BasisVector); ok && ast.Equal(a, b) {
				sq := blade.Product(kind, blade.Vector(va.Index), blade.Vector(va.Index), g)
				if sq.IsZero() {
					return nil, 0, false
				}
				if sq.Key() == identity.Key() && sq.Sign%identity.Sign == 0 {
					coef *= sq.Sign / identity.Sign
					factors = append(factors[:i:i], factors[i+2:]...)
					changed = true
					break
				}
				continue
			}

			if ast.Compare(b, a) >= 0 {
				continue
			}
			ta, okA := bladeType(a, g)
			tb, okB := bladeType(b, g)
			if !okA || !okB {
				continue
			}
			s := blade.SwapSign(kind, ta, tb, g)
			if s == 0 {
				return nil, 0, false
			}
			coef *= s
			factors = swapped(factors, i)
			changed = true
		}
	}
	return factors, coef, true
}

func swapped(factors []ast.Expr, i int) []ast.Expr {
	out := make([]ast.Expr, len(factors))
	copy(out, factors)
	out[i], out[i+1] = out[i+1], out[i]
	return out
}
