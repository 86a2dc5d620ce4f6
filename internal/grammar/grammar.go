// Package grammar describes the metric of a geometric algebra: how many
// generator vectors it has, what each one squares to, and which permutation
// of a blade's generators is the preferred presentation.
//
// A Grammar is immutable once built and is passed explicitly to every
// operation that needs it.
package grammar

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// MaxDim is the largest supported number of generators. Blade identities are
// bitmasks over the generators, so the limit is the mask width.
const MaxDim = 64

// VecIndex identifies one generator of the algebra. The numeric order is the
// canonical factor order inside a blade.
type VecIndex uint8

func (v VecIndex) String() string {
	return "e" + strconv.Itoa(int(v))
}

// Convention declares that the generator set of Canonical is presented in
// the order of Preferred (e.g. e20 instead of e02).
type Convention struct {
	Canonical []VecIndex
	Preferred []VecIndex
}

// Grammar is the per-generator self-square table plus naming conventions.
type Grammar struct {
	squares     []int
	conventions map[uint64][]VecIndex
}

// New builds a grammar from the self-squares of each generator. Conventions
// that are not a reordering of the same generator set, or that reference a
// generator outside the grammar, are configuration errors.
func New(squares []int, conventions ...Convention) (*Grammar, error) {
	if len(squares) > MaxDim {
		return nil, fmt.Errorf("grammar has %d generators, at most %d supported", len(squares), MaxDim)
	}
	g := &Grammar{
		squares:     slices.Clone(squares),
		conventions: make(map[uint64][]VecIndex),
	}
	for _, c := range conventions {
		if err := g.addConvention(c); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// MustNew is New for static configuration known to be valid.
func MustNew(squares []int, conventions ...Convention) *Grammar {
	g, err := New(squares, conventions...)
	if err != nil {
		panic(err)
	}
	return g
}

func (g *Grammar) addConvention(c Convention) error {
	for _, v := range c.Canonical {
		if err := g.Check(v); err != nil {
			return err
		}
	}
	for _, v := range c.Preferred {
		if err := g.Check(v); err != nil {
			return err
		}
	}
	canonical := slices.Clone(c.Canonical)
	preferred := slices.Clone(c.Preferred)
	slices.Sort(canonical)
	slices.Sort(preferred)
	if !slices.Equal(canonical, preferred) {
		return &ConventionError{Canonical: c.Canonical, Preferred: c.Preferred, Reason: "not a reordering of the same generators"}
	}
	if len(slices.Compact(canonical)) != len(c.Canonical) {
		return &ConventionError{Canonical: c.Canonical, Preferred: c.Preferred, Reason: "repeated generator"}
	}
	mask := Mask(c.Canonical...)
	if _, dup := g.conventions[mask]; dup {
		return &ConventionError{Canonical: c.Canonical, Preferred: c.Preferred, Reason: "duplicate convention"}
	}
	g.conventions[mask] = slices.Clone(c.Preferred)
	return nil
}

// Dim returns the number of generators.
func (g *Grammar) Dim() int { return len(g.squares) }

// Square returns what generator v squares to. v must be in range.
func (g *Grammar) Square(v VecIndex) int {
	if int(v) >= len(g.squares) {
		panic(fmt.Sprintf("grammar: %s out of range for dimension %d", v, len(g.squares)))
	}
	return g.squares[v]
}

// Squares returns a copy of the self-square table.
func (g *Grammar) Squares() []int { return slices.Clone(g.squares) }

// Check reports an *IndexError when v does not name a generator.
func (g *Grammar) Check(v VecIndex) error {
	if int(v) >= len(g.squares) {
		return &IndexError{Index: v, Dim: len(g.squares)}
	}
	return nil
}

// Preferred returns the preferred permutation for the generator set mask,
// if a convention declares one.
func (g *Grammar) Preferred(mask uint64) ([]VecIndex, bool) {
	p, ok := g.conventions[mask]
	if !ok {
		return nil, false
	}
	return slices.Clone(p), true
}

// PseudoScalarMask is the mask with every generator present.
func (g *Grammar) PseudoScalarMask() uint64 {
	if len(g.squares) == MaxDim {
		return ^uint64(0)
	}
	return uint64(1)<<len(g.squares) - 1
}

// String renders the grammar as its square table, e.g. "[1 1 0]".
func (g *Grammar) String() string {
	parts := make([]string, len(g.squares))
	for i, s := range g.squares {
		parts[i] = strconv.Itoa(s)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Mask returns the bitmask identity of a set of generators.
func Mask(vs ...VecIndex) uint64 {
	var m uint64
	for _, v := range vs {
		m |= 1 << v
	}
	return m
}
