package blade

import (
	"strconv"

	"github.com/funvibe/bladec/internal/grammar"
)

// SignedBlade is a blade with an integer coefficient. Sign 0 is algebraic
// zero and the blade is then irrelevant.
type SignedBlade struct {
	Sign  int
	Blade Blade
}

// Zero is the algebraic zero.
func Zero() SignedBlade { return SignedBlade{} }

// One is the scalar unit.
func One() SignedBlade { return SignedBlade{Sign: 1, Blade: Scalar()} }

// Vector is the grade-1 blade of generator v.
func Vector(v grammar.VecIndex) SignedBlade {
	return SignedBlade{Sign: 1, Blade: Blade{v}}
}

// Signed pairs a sign with a copy of b.
func Signed(sign int, b Blade) SignedBlade {
	if sign == 0 {
		return Zero()
	}
	return SignedBlade{Sign: sign, Blade: New(b...)}
}

// IsZero reports algebraic zero.
func (s SignedBlade) IsZero() bool { return s.Sign == 0 }

// Neg flips the sign.
func (s SignedBlade) Neg() SignedBlade {
	return SignedBlade{Sign: -s.Sign, Blade: s.Blade}
}

// Scale multiplies the coefficient by k.
func (s SignedBlade) Scale(k int) SignedBlade {
	if s.Sign*k == 0 {
		return Zero()
	}
	return SignedBlade{Sign: s.Sign * k, Blade: s.Blade}
}

// Simplify brings the blade into canonical form, folding the sign.
func (s SignedBlade) Simplify(g *grammar.Grammar) SignedBlade {
	if s.IsZero() {
		return Zero()
	}
	sign, b := Simplify(s.Blade, g)
	return Signed(s.Sign*sign, b)
}

// Grade of a simplified signed blade.
func (s SignedBlade) Grade() int { return Grade(s.Blade) }

// Key of a simplified signed blade.
func (s SignedBlade) Key() Key { return s.Blade.Key() }

// Equal compares values: all zeros are equal.
func (s SignedBlade) Equal(o SignedBlade) bool {
	if s.IsZero() || o.IsZero() {
		return s.IsZero() && o.IsZero()
	}
	return s.Sign == o.Sign && s.Blade.Equal(o.Blade)
}

// LeftComplement of a simplified signed blade.
func (s SignedBlade) LeftComplement(g *grammar.Grammar) SignedBlade {
	if s.IsZero() {
		return Zero()
	}
	sign, c := LeftComplement(s.Blade, g)
	return SignedBlade{Sign: s.Sign * sign, Blade: c}
}

// RightComplement of a simplified signed blade.
func (s SignedBlade) RightComplement(g *grammar.Grammar) SignedBlade {
	if s.IsZero() {
		return Zero()
	}
	sign, c := RightComplement(s.Blade, g)
	return SignedBlade{Sign: s.Sign * sign, Blade: c}
}

// Reverse of a simplified signed blade.
func (s SignedBlade) Reverse() SignedBlade {
	if s.IsZero() {
		return Zero()
	}
	return s.Scale(Reverse(s.Blade))
}

// AntiReverse of a simplified signed blade.
func (s SignedBlade) AntiReverse(g *grammar.Grammar) SignedBlade {
	if s.IsZero() {
		return Zero()
	}
	return s.Scale(AntiReverse(s.Blade, g))
}

func (s SignedBlade) String() string {
	switch s.Sign {
	case 0:
		return "0"
	case 1:
		return s.Blade.String()
	case -1:
		return "-" + s.Blade.String()
	default:
		return strconv.Itoa(s.Sign) + "*" + s.Blade.String()
	}
}
