package blade

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/bladec/internal/grammar"
)

func TestGeometricDotWedgeDecomposition(t *testing.T) {
	forEachGrammar(t, func(t *testing.T, g *grammar.Grammar) {
		basis := Basis(g)
		for _, x := range basis {
			for _, y := range basis {
				a, b := Signed(1, x), Signed(-1, y)
				geo := GeometricProduct(a, b, g)
				dot := DotProduct(a, b, g)
				wedge := WedgeProduct(a, b, g)
				if geo.IsZero() {
					assert.True(t, dot.IsZero() && wedge.IsZero(), "%s %s", a, b)
					continue
				}
				if !dot.IsZero() {
					assert.True(t, dot.Equal(geo), "dot %s %s", a, b)
				}
				if !wedge.IsZero() {
					assert.True(t, wedge.Equal(geo), "wedge %s %s", a, b)
				}
				if !dot.IsZero() && !wedge.IsZero() {
					assert.True(t, len(x) == 0 || len(y) == 0, "only scalars are both inner and outer: %s %s", a, b)
				}
				if len(x) == 1 && len(y) == 1 {
					assert.NotEqual(t, dot.IsZero(), wedge.IsZero(), "vectors %s %s", a, b)
				}
			}
		}
	})
}

func TestAntiCommutativity(t *testing.T) {
	forEachGrammar(t, func(t *testing.T, g *grammar.Grammar) {
		for i := 0; i < g.Dim(); i++ {
			for j := 0; j < g.Dim(); j++ {
				if i == j {
					continue
				}
				vi, vj := Vector(grammar.VecIndex(i)), Vector(grammar.VecIndex(j))
				ij := GeometricProduct(vi, vj, g)
				ji := GeometricProduct(vj, vi, g)
				assert.True(t, ij.Equal(ji.Neg()), "e%d e%d", i, j)
				assert.Equal(t, -1, SwapSign(Geometric, vi, vj, g))
			}
		}
	})
}

func TestSquareRule(t *testing.T) {
	g := grammar.MustNew([]int{0, 1, 1})
	assert.True(t, GeometricProduct(Vector(0), Vector(0), g).IsZero())
	assert.True(t, GeometricProduct(Vector(1), Vector(1), g).Equal(One()))
	assert.True(t, DotProduct(Vector(2), Vector(2), g).Equal(One()))
	assert.True(t, WedgeProduct(Vector(1), Vector(1), g).IsZero())
}

func TestDegenerateZeroPropagatesThroughFold(t *testing.T) {
	g := grammar.MustNew([]int{0, 1, 1})
	ops := []SignedBlade{Vector(0), Vector(1), Vector(2), Vector(0), Vector(1)}
	assert.True(t, Fold(Geometric, g, ops...).IsZero())

	ops = []SignedBlade{Vector(1), Vector(2), Vector(1), Vector(2)}
	assert.True(t, Fold(Geometric, g, ops...).Equal(Signed(-1, Scalar())))

	assert.True(t, Fold(Wedge, g, Vector(0), Zero(), Vector(1)).IsZero())
}

func TestFoldIdentity(t *testing.T) {
	g := grammar.MustNew([]int{1, 1, 0})
	assert.True(t, Fold(Geometric, g).Equal(One()))
	assert.True(t, Fold(Dot, g).Equal(One()))
	assert.True(t, Fold(Wedge, g).Equal(One()))
	I := Signed(1, PseudoScalar(g))
	assert.True(t, Fold(Regressive, g).Equal(I))
	assert.True(t, Fold(AntiGeometric, g).Equal(I))

	for _, b := range Basis(g) {
		x := Signed(1, b)
		for _, k := range Kinds() {
			assert.True(t, Product(k, Identity(k, g), x, g).Equal(x), "%s identity * %s", k, x)
		}
	}
}

func TestRegressiveMeetsLines(t *testing.T) {
	// In 2D PGA the regressive product of two grade-2 blades is a grade-1
	// blade (the meet of two lines is a point).
	g := grammar.MustNew([]int{1, 1, 0})
	a := Signed(1, Blade{0, 1})
	b := Signed(1, Blade{1, 2})
	got := RegressiveProduct(a, b, g)
	require.False(t, got.IsZero())
	assert.Equal(t, 1, got.Grade())
	assert.Equal(t, Blade{1}, got.Blade)

	assert.True(t, RegressiveProduct(a, a, g).IsZero())
}

func TestAntiGeometricIsDualOfGeometric(t *testing.T) {
	forEachGrammar(t, func(t *testing.T, g *grammar.Grammar) {
		basis := Basis(g)
		for _, x := range basis {
			for _, y := range basis {
				a, b := Signed(1, x), Signed(1, y)
				want := GeometricProduct(a.LeftComplement(g), b.LeftComplement(g), g).RightComplement(g)
				assert.True(t, AntiGeometricProduct(a, b, g).Equal(want))
			}
		}
	})
}

func TestSwapSignMatchesProducts(t *testing.T) {
	forEachGrammar(t, func(t *testing.T, g *grammar.Grammar) {
		basis := Basis(g)
		for _, k := range Kinds() {
			for _, x := range basis {
				for _, y := range basis {
					a, b := Signed(1, x), Signed(1, y)
					s := SwapSign(k, a, b, g)
					ab, ba := Product(k, a, b, g), Product(k, b, a, g)
					if s == 0 {
						assert.True(t, ab.IsZero() && ba.IsZero())
						continue
					}
					assert.True(t, ab.Equal(ba.Scale(s)), "%s %s %s", k, a, b)
				}
			}
		}
	})
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		got, ok := ParseKind(k.String())
		require.True(t, ok)
		assert.Equal(t, k, got)
	}
	_, ok := ParseKind("Cross")
	assert.False(t, ok)
}
