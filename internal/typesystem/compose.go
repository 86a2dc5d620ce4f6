package typesystem

import (
	"fmt"

	"github.com/funvibe/bladec/internal/blade"
	"github.com/funvibe/bladec/internal/grammar"
)

// ApplyUnary returns the type of op applied to a value of type t. Aggregates
// are not closed under the operators without a registry lookup, so they
// resolve to unknown.
func ApplyUnary(op blade.UnaryOp, t Type, g *grammar.Grammar) (Type, bool) {
	switch typ := t.(type) {
	case TZero:
		return TZero{}, true
	case TBlade:
		if g == nil && op.NeedsGrammar() {
			return nil, false
		}
		return FromBlade(blade.ApplyUnary(op, typ.Value, g)), true
	case TAggregate:
		return nil, false
	case nil:
		return nil, false
	default:
		panic(fmt.Sprintf("typesystem: unknown type %T", t))
	}
}

// Product composes two types under a product kind. Blade types multiply
// directly. Aggregates are expanded member by member: the result is TZero
// when every member pair vanishes, the common blade when every surviving
// pair lands on the same signed blade, and unknown otherwise.
func Product(kind blade.ProductKind, a, b Type, g *grammar.Grammar) (Type, bool) {
	if IsZero(a) || IsZero(b) {
		return TZero{}, true
	}
	if a == nil || b == nil || g == nil {
		return nil, false
	}
	var acc Type = TZero{}
	for _, x := range leaves(a) {
		for _, y := range leaves(b) {
			if x == nil || y == nil {
				return nil, false
			}
			p := FromBlade(blade.Product(kind, x.Value, y.Value, g))
			if IsZero(p) {
				continue
			}
			if IsZero(acc) {
				acc = p
				continue
			}
			if !Equal(acc, p) {
				return nil, false
			}
		}
	}
	return acc, true
}

// leaves flattens a type into its blade components. A nil entry marks a
// component that cannot be resolved.
func leaves(t Type) []*TBlade {
	switch typ := t.(type) {
	case TZero:
		return nil
	case TBlade:
		return []*TBlade{&typ}
	case TAggregate:
		var out []*TBlade
		for _, m := range typ.Members {
			if m.Type == nil {
				out = append(out, nil)
				continue
			}
			out = append(out, leaves(m.Type)...)
		}
		return out
	default:
		return []*TBlade{nil}
	}
}
