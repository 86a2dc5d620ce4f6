// Package typesystem holds the type lattice of the compiler: the zero type,
// concrete signed-blade types and named aggregates, together with the
// registry that names them for a given grammar.
package typesystem

import (
	"cmp"
	"fmt"
	"strings"

	"github.com/funvibe/bladec/internal/blade"
	"github.com/funvibe/bladec/internal/grammar"
)

// Type is the interface for all types in our system. The set of
// implementations is closed: TZero, TBlade and TAggregate.
type Type interface {
	String() string
	typeNode()
}

// TZero is the type of algebraic zero.
type TZero struct{}

// TBlade is the type of a value proportional to one signed blade.
type TBlade struct {
	Value blade.SignedBlade
}

// Member is one named component of an aggregate.
type Member struct {
	Name string
	Type Type
}

// TAggregate is a named aggregate of members with unique names.
type TAggregate struct {
	Name    string
	Members []Member
}

func (TZero) typeNode()      {}
func (TBlade) typeNode()     {}
func (TAggregate) typeNode() {}

func (TZero) String() string { return "Zero" }

func (t TBlade) String() string { return t.Value.String() }

func (t TAggregate) String() string {
	parts := make([]string, len(t.Members))
	for i, m := range t.Members {
		parts[i] = m.Name + ": " + m.Type.String()
	}
	return t.Name + "{" + strings.Join(parts, ", ") + "}"
}

// Member looks up a member by name.
func (t TAggregate) Member(name string) (Member, bool) {
	for _, m := range t.Members {
		if m.Name == name {
			return m, true
		}
	}
	return Member{}, false
}

// Scalar is the type of a plain scalar coefficient.
func Scalar() TBlade { return TBlade{Value: blade.One()} }

// Vector is the grade-1 type of generator v.
func Vector(v grammar.VecIndex) TBlade { return TBlade{Value: blade.Vector(v)} }

// FromBlade lifts a signed blade to a type; zero maps to TZero.
func FromBlade(s blade.SignedBlade) Type {
	if s.IsZero() {
		return TZero{}
	}
	return TBlade{Value: s}
}

// IsZero reports whether t is the zero type.
func IsZero(t Type) bool {
	_, ok := t.(TZero)
	return ok
}

// Equal compares two types structurally. Nil only equals nil.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case TZero:
		_, ok := b.(TZero)
		return ok
	case TBlade:
		y, ok := b.(TBlade)
		return ok && x.Value.Equal(y.Value)
	case TAggregate:
		y, ok := b.(TAggregate)
		if !ok || x.Name != y.Name || len(x.Members) != len(y.Members) {
			return false
		}
		for i := range x.Members {
			if x.Members[i].Name != y.Members[i].Name || !Equal(x.Members[i].Type, y.Members[i].Type) {
				return false
			}
		}
		return true
	default:
		panic(fmt.Sprintf("typesystem: unknown type %T", a))
	}
}

func rank(t Type) int {
	switch t.(type) {
	case nil:
		return 0
	case TZero:
		return 1
	case TBlade:
		return 2
	case TAggregate:
		return 3
	default:
		panic(fmt.Sprintf("typesystem: unknown type %T", t))
	}
}

// Compare is a total order over types consistent with Equal.
func Compare(a, b Type) int {
	if c := cmp.Compare(rank(a), rank(b)); c != 0 {
		return c
	}
	switch x := a.(type) {
	case TBlade:
		y := b.(TBlade)
		if x.Value.IsZero() || y.Value.IsZero() {
			return cmp.Compare(x.Value.Sign, y.Value.Sign)
		}
		if c := blade.Compare(x.Value.Blade, y.Value.Blade); c != 0 {
			return c
		}
		return cmp.Compare(x.Value.Sign, y.Value.Sign)
	case TAggregate:
		y := b.(TAggregate)
		if c := cmp.Compare(x.Name, y.Name); c != 0 {
			return c
		}
		if c := cmp.Compare(len(x.Members), len(y.Members)); c != 0 {
			return c
		}
		for i := range x.Members {
			if c := cmp.Compare(x.Members[i].Name, y.Members[i].Name); c != 0 {
				return c
			}
			if c := Compare(x.Members[i].Type, y.Members[i].Type); c != 0 {
				return c
			}
		}
	}
	return 0
}
