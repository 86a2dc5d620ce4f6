// Package blade implements the basis-blade algebra: canonicalization of
// generator products under anti-commutative multiplication, complements,
// reversion and the five bilinear products on signed blades.
package blade

import (
	"fmt"
	"math/bits"
	"slices"
	"strconv"
	"strings"

	"github.com/funvibe/bladec/internal/grammar"
)

// Blade is an ordered product of generators. A raw blade may repeat
// generators in any order; a simplified blade is strictly increasing.
type Blade []grammar.VecIndex

// Key is the bitmask identity of a simplified blade.
type Key uint64

// New returns a blade with the given factors, in the given order.
func New(vs ...grammar.VecIndex) Blade {
	return Blade(slices.Clone(vs))
}

// Scalar is the empty blade.
func Scalar() Blade { return Blade{} }

// PseudoScalar is the blade of every generator in canonical order.
func PseudoScalar(g *grammar.Grammar) Blade {
	b := make(Blade, g.Dim())
	for i := range b {
		b[i] = grammar.VecIndex(i)
	}
	return b
}

// IsSimplified reports whether b is strictly increasing.
func (b Blade) IsSimplified() bool {
	for i := 1; i < len(b); i++ {
		if b[i-1] >= b[i] {
			return false
		}
	}
	return true
}

// Key returns the generator-set identity of b.
func (b Blade) Key() Key {
	return Key(grammar.Mask(b...))
}

// Equal compares factor lists.
func (b Blade) Equal(o Blade) bool {
	return slices.Equal(b, o)
}

func (b Blade) String() string {
	if len(b) == 0 {
		return "1"
	}
	var sb strings.Builder
	sb.WriteByte('e')
	for _, v := range b {
		if v > 9 {
			sb.WriteByte('_')
		}
		sb.WriteString(strconv.Itoa(int(v)))
	}
	return sb.String()
}

// Blade expands a key into its simplified blade.
func (k Key) Blade() Blade {
	b := make(Blade, 0, bits.OnesCount64(uint64(k)))
	for m := uint64(k); m != 0; m &= m - 1 {
		b = append(b, grammar.VecIndex(bits.TrailingZeros64(m)))
	}
	return b
}

// Grade is the number of generators in the key.
func (k Key) Grade() int {
	return bits.OnesCount64(uint64(k))
}

// Sort orders the factors of b by bubble sort, flipping the sign once per
// adjacent transposition of two distinct factors. Equal factors are never
// swapped. b is not modified.
func Sort(b Blade) (int, Blade) {
	out := slices.Clone(b)
	sign := 1
	for n := len(out); n > 1; n-- {
		swapped := false
		for i := 0; i+1 < n; i++ {
			if out[i] > out[i+1] {
				out[i], out[i+1] = out[i+1], out[i]
				sign = -sign
				swapped = true
			}
		}
		if !swapped {
			break
		}
	}
	return sign, out
}

// CollapseAdjacent removes pairs of equal neighbouring factors from a sorted
// blade, multiplying the sign by the generator's square. A generator that
// squares to zero annihilates the whole blade.
func CollapseAdjacent(sorted Blade, g *grammar.Grammar) (int, Blade) {
	sign := 1
	out := make(Blade, 0, len(sorted))
	for i := 0; i < len(sorted); i++ {
		v := sorted[i]
		if i+1 < len(sorted) && sorted[i+1] == v {
			sign *= g.Square(v)
			if sign == 0 {
				return 0, Scalar()
			}
			i++
			continue
		}
		out = append(out, v)
	}
	return sign, out
}

// Simplify sorts and collapses b, returning the net sign and the simplified
// blade. Simplifying a simplified blade returns it unchanged with sign 1.
func Simplify(b Blade, g *grammar.Grammar) (int, Blade) {
	s1, sorted := Sort(b)
	s2, out := CollapseAdjacent(sorted, g)
	return s1 * s2, out
}

// Grade is the number of factors of a simplified blade. Calling it on a raw
// blade is a programming error.
func Grade(b Blade) int {
	if !b.IsSimplified() {
		panic(fmt.Sprintf("blade: Grade called on unsimplified blade %v", []grammar.VecIndex(b)))
	}
	return len(b)
}

// Concat is the blade-level geometric product before simplification.
func Concat(a, b Blade) Blade {
	out := make(Blade, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

func complementSet(b Blade, g *grammar.Grammar) Blade {
	Grade(b)
	present := b.Key()
	out := make(Blade, 0, g.Dim()-len(b))
	for i := 0; i < g.Dim(); i++ {
		if present&(1<<i) == 0 {
			out = append(out, grammar.VecIndex(i))
		}
	}
	return out
}

// RightComplement returns the complement c of b with the sign such that
// b*c is the pseudo-scalar with sign +1.
func RightComplement(b Blade, g *grammar.Grammar) (int, Blade) {
	c := complementSet(b, g)
	sign, _ := Sort(Concat(b, c))
	return sign, c
}

// LeftComplement returns the complement c of b with the sign such that
// c*b is the pseudo-scalar with sign +1.
func LeftComplement(b Blade, g *grammar.Grammar) (int, Blade) {
	c := complementSet(b, g)
	sign, _ := Sort(Concat(c, b))
	return sign, c
}

// Reverse returns the sign picked up by reversing the factor order of a
// simplified blade of grade r: (-1)^(r(r-1)/2).
func Reverse(b Blade) int {
	return reversalSign(Grade(b))
}

// AntiReverse is Reverse applied to the anti-grade N-r.
func AntiReverse(b Blade, g *grammar.Grammar) int {
	return reversalSign(g.Dim() - Grade(b))
}

func reversalSign(r int) int {
	if (r*(r-1)/2)%2 == 0 {
		return 1
	}
	return -1
}

// Present maps a simplified blade onto its preferred permutation, returning
// sign and presentation such that b == sign * presentation.
func Present(b Blade, g *grammar.Grammar) (int, Blade) {
	pref, ok := g.Preferred(uint64(b.Key()))
	if !ok {
		return 1, slices.Clone(b)
	}
	sign, _ := Sort(pref)
	return sign, Blade(pref)
}

// Compare orders simplified blades by grade, then lexicographically.
func Compare(a, b Blade) int {
	if len(a) != len(b) {
		return len(a) - len(b)
	}
	return slices.Compare(a, b)
}

// Basis enumerates all 2^N simplified blades of g in Compare order.
func Basis(g *grammar.Grammar) []Blade {
	n := g.Dim()
	out := make([]Blade, 0, 1<<n)
	for m := uint64(0); m < uint64(1)<<n; m++ {
		out = append(out, Key(m).Blade())
	}
	slices.SortFunc(out, Compare)
	return out
}
