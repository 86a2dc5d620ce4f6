package blade

import (
	"fmt"

	"github.com/funvibe/bladec/internal/grammar"
)

// ProductKind names one of the bilinear products of the algebra.
type ProductKind int

const (
	Geometric ProductKind = iota
	Dot
	Wedge
	Regressive
	AntiGeometric
)

// Kinds lists every product kind in declaration order.
func Kinds() []ProductKind {
	return []ProductKind{Geometric, Dot, Wedge, Regressive, AntiGeometric}
}

func (k ProductKind) String() string {
	switch k {
	case Geometric:
		return "Geometric"
	case Dot:
		return "Dot"
	case Wedge:
		return "Wedge"
	case Regressive:
		return "Regressive"
	case AntiGeometric:
		return "AntiGeometric"
	default:
		return fmt.Sprintf("ProductKind(%d)", int(k))
	}
}

// ParseKind is the inverse of String.
func ParseKind(s string) (ProductKind, bool) {
	for _, k := range Kinds() {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

// Associative reports whether an n-ary product of this kind may be
// regrouped (and hence its adjacent factors reordered in place). The grade
// filtered inner product is not associative.
func (k ProductKind) Associative() bool {
	return k != Dot
}

// Anti reports whether the kind is defined through complements, in which
// case its identity is the pseudo-scalar rather than the scalar.
func (k ProductKind) Anti() bool {
	return k == Regressive || k == AntiGeometric
}

// GeometricProduct multiplies two signed blades.
func GeometricProduct(a, b SignedBlade, g *grammar.Grammar) SignedBlade {
	if a.IsZero() || b.IsZero() {
		return Zero()
	}
	sign, out := Simplify(Concat(a.Blade, b.Blade), g)
	return Signed(a.Sign*b.Sign*sign, out)
}

// DotProduct keeps the grade |ga-gb| part of the geometric product.
func DotProduct(a, b SignedBlade, g *grammar.Grammar) SignedBlade {
	a, b = a.Simplify(g), b.Simplify(g)
	p := GeometricProduct(a, b, g)
	if p.IsZero() {
		return Zero()
	}
	k := a.Grade() - b.Grade()
	if k < 0 {
		k = -k
	}
	if p.Grade() != k {
		return Zero()
	}
	return p
}

// WedgeProduct keeps the grade ga+gb part of the geometric product. It is
// zero whenever the factors share a generator.
func WedgeProduct(a, b SignedBlade, g *grammar.Grammar) SignedBlade {
	a, b = a.Simplify(g), b.Simplify(g)
	p := GeometricProduct(a, b, g)
	if p.IsZero() || p.Grade() != a.Grade()+b.Grade() {
		return Zero()
	}
	return p
}

// RegressiveProduct is rc(lc(a) ^ lc(b)).
func RegressiveProduct(a, b SignedBlade, g *grammar.Grammar) SignedBlade {
	a, b = a.Simplify(g), b.Simplify(g)
	return WedgeProduct(a.LeftComplement(g), b.LeftComplement(g), g).RightComplement(g)
}

// AntiGeometricProduct is rc(lc(a) lc(b)).
func AntiGeometricProduct(a, b SignedBlade, g *grammar.Grammar) SignedBlade {
	a, b = a.Simplify(g), b.Simplify(g)
	return GeometricProduct(a.LeftComplement(g), b.LeftComplement(g), g).RightComplement(g)
}

// Product applies the binary product of the given kind.
func Product(kind ProductKind, a, b SignedBlade, g *grammar.Grammar) SignedBlade {
	switch kind {
	case Geometric:
		return GeometricProduct(a, b, g)
	case Dot:
		return DotProduct(a, b, g)
	case Wedge:
		return WedgeProduct(a, b, g)
	case Regressive:
		return RegressiveProduct(a, b, g)
	case AntiGeometric:
		return AntiGeometricProduct(a, b, g)
	default:
		panic(fmt.Sprintf("blade: unknown product kind %d", int(kind)))
	}
}

// Identity is the value of the empty product of a kind: the scalar for
// Geometric, Dot and Wedge, the pseudo-scalar for the complement-defined
// kinds.
func Identity(kind ProductKind, g *grammar.Grammar) SignedBlade {
	if kind.Anti() {
		return SignedBlade{Sign: 1, Blade: PseudoScalar(g)}
	}
	return One()
}

// Fold reduces operands by a strict left fold:
// product(x1..xn) = product(product(x1..xn-1), xn).
func Fold(kind ProductKind, g *grammar.Grammar, operands ...SignedBlade) SignedBlade {
	if len(operands) == 0 {
		return Identity(kind, g)
	}
	acc := operands[0].Simplify(g)
	for _, op := range operands[1:] {
		if acc.IsZero() {
			return Zero()
		}
		acc = Product(kind, acc, op, g)
	}
	return acc
}

// SwapSign returns s such that product(a, b) == s * product(b, a), or 0 when
// the product vanishes in both orders.
func SwapSign(kind ProductKind, a, b SignedBlade, g *grammar.Grammar) int {
	ab := Product(kind, a, b, g)
	ba := Product(kind, b, a, g)
	if ab.IsZero() || ba.IsZero() {
		return 0
	}
	return ab.Sign / ba.Sign
}
