package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/funvibe/bladec/internal/blade"
	"github.com/funvibe/bladec/internal/typesystem"
)

func TestCompareOrdersVarsByOrderThenName(t *testing.T) {
	self := NewVar("self", nil, 0)
	other := NewVar("other", nil, 1)
	alpha := NewVar("alpha", nil, 1)

	assert.Negative(t, Compare(self, other))
	assert.Negative(t, Compare(alpha, other))
	assert.Positive(t, Compare(other, self))
	assert.Zero(t, Compare(other, NewVar("other", nil, 1)))
}

func TestCompareDistinguishesTypes(t *testing.T) {
	a := NewVar("x", typesystem.Vector(0), 0)
	b := NewVar("x", typesystem.Vector(1), 0)
	assert.False(t, Equal(a, b))
	assert.True(t, Equal(a, NewVar("x", typesystem.Vector(0), 0)))
}

func TestCompareRanksVariants(t *testing.T) {
	ordered := []Expr{
		NewVar("x", nil, 0),
		Vec(0),
		Apply(blade.ReverseOp, Vec(0)),
		Wedge(Vec(0), Vec(1)),
		Scale(Vec(0), 2),
		Add(Vec(0), Vec(1)),
	}
	for i := 0; i+1 < len(ordered); i++ {
		assert.Negative(t, Compare(ordered[i], ordered[i+1]), "%s < %s", ordered[i], ordered[i+1])
	}
}

func TestString(t *testing.T) {
	e := Add(Wedge(NewVar("a", nil, 0), Vec(2)), Scale(Apply(blade.RightComplementOp, Vec(1)), -2))
	assert.Equal(t, "((a ^ e2) + -2*rc(e1))", e.String())
	assert.Equal(t, "0", Zero().String())
	assert.Equal(t, "1", One().String())
	assert.Equal(t, "I", Regressive().String())
}

func TestConstant(t *testing.T) {
	assert.True(t, IsZero(Constant(0)))
	assert.True(t, Equal(One(), Constant(1)))
	assert.True(t, Equal(Scale(One(), -3), Constant(-3)))
}

func TestRewriteIsBottomUp(t *testing.T) {
	e := Geometric(Vec(0), Add(Vec(1), Vec(2)))
	var seen []string
	out := Rewrite(e, func(x Expr) Expr {
		seen = append(seen, x.String())
		if bv, ok := x.(BasisVector); ok && bv.Index == 2 {
			return Vec(0)
		}
		return x
	})
	assert.Equal(t, []string{"e0", "e1", "e2", "(e1 + e0)", "(e0 * (e1 + e0))"}, seen)
	assert.Equal(t, "(e0 * (e1 + e0))", out.String())
}

func TestVarsDeduplicates(t *testing.T) {
	x := NewVar("x", nil, 0)
	y := NewVar("y", nil, 1)
	e := Add(Geometric(x, y), Geometric(y, x))
	assert.Equal(t, []Var{x, y}, Vars(e))
}
