package analyzer

import (
	"fmt"

	"github.com/hashicorp/go-set/v3"

	"github.com/funvibe/bladec/internal/ast"
	"github.com/funvibe/bladec/internal/blade"
	"github.com/funvibe/bladec/internal/typesystem"
)

// bladeGroup collects the coefficients of every term landing on one
// canonical blade.
type bladeGroup struct {
	key   blade.Key
	parts []ast.Expr
	value ast.Expr
}

// Typify rewrites simplified sums whose terms exactly cover the blades of
// a registered aggregate into an instance of that aggregate. Nodes that do
// not match are left in blade form and their children are visited instead.
// Typify never fails.
func Typify(e ast.Expr, reg *typesystem.Registry) ast.Expr {
	if inst, ok := matchAggregate(e, reg); ok {
		return inst
	}
	switch n := e.(type) {
	case ast.Var, ast.BasisVector:
		return n
	case ast.Scaled, ast.Unary, ast.Sum, ast.Product, ast.AggregateInstance:
		children := ast.Children(n)
		for i, c := range children {
			children[i] = Typify(c, reg)
		}
		return ast.WithChildren(n, children)
	default:
		panic(fmt.Sprintf("analyzer: unknown expression %T", e))
	}
}

// AsBlade reports whether e is a multiple of a single blade, returning the
// scalar coefficient relative to the blade's registered presentation.
// Unregistered blades are named by their grammar presentation.
func AsBlade(e ast.Expr, reg *typesystem.Registry) (ast.Expr, typesystem.BladeName, bool) {
	groups, ok := groupByBlade(e, reg)
	if !ok || len(groups) != 1 {
		return nil, typesystem.BladeName{}, false
	}
	name := bladeNameFor(groups[0].key, reg)
	value := Simplify(ast.Scale(groups[0].value, name.Type.Value.Sign), reg.Grammar())
	return value, name, true
}

func bladeNameFor(key blade.Key, reg *typesystem.Registry) typesystem.BladeName {
	if n, ok := reg.BladeFor(key); ok {
		return n
	}
	sign, pres := blade.Present(key.Blade(), reg.Grammar())
	_, name := reg.BladeName(key.Blade())
	return typesystem.BladeName{
		Name:         name,
		Type:         typesystem.TBlade{Value: blade.Signed(sign, key.Blade())},
		Presentation: pres,
	}
}

func matchAggregate(e ast.Expr, reg *typesystem.Registry) (ast.AggregateInstance, bool) {
	groups, ok := groupByBlade(e, reg)
	if !ok || len(groups) < 2 {
		return ast.AggregateInstance{}, false
	}

	keys := set.New[blade.Key](len(groups))
	byKey := make(map[blade.Key]ast.Expr, len(groups))
	for _, grp := range groups {
		keys.Insert(grp.key)
		byKey[grp.key] = grp.value
	}

	agg, ok := chooseAggregate(keys, reg)
	if !ok {
		return ast.AggregateInstance{}, false
	}

	members := make([]ast.MemberValue, len(agg.Members))
	for i, m := range agg.Members {
		var value ast.Expr = ast.Zero()
		if tb, ok := m.Type.(typesystem.TBlade); ok {
			if v, ok := byKey[tb.Value.Key()]; ok {
				value = Simplify(ast.Scale(v, tb.Value.Sign), reg.Grammar())
			}
		}
		members[i] = ast.MemberValue{Name: m.Name, Value: value}
	}
	return ast.AggregateInstance{Type: agg, Members: members}, true
}

// chooseAggregate picks among the aggregates whose member blades cover keys
// according to the registry policy.
func chooseAggregate(keys *set.Set[blade.Key], reg *typesystem.Registry) (typesystem.TAggregate, bool) {
	var candidates []typesystem.TAggregate
	for _, agg := range reg.Aggregates() {
		if covers(reg.MemberKeys(agg.Name), keys) {
			candidates = append(candidates, agg)
		}
	}
	if len(candidates) == 0 {
		return typesystem.TAggregate{}, false
	}

	switch reg.Policy() {
	case typesystem.RejectAmbiguous:
		if len(candidates) > 1 {
			return typesystem.TAggregate{}, false
		}
		return candidates[0], true
	case typesystem.Tightest:
		best := candidates[0]
		bestSize := reg.MemberKeys(best.Name).Size()
		for _, c := range candidates[1:] {
			if size := reg.MemberKeys(c.Name).Size(); size < bestSize {
				best, bestSize = c, size
			}
		}
		return best, true
	default:
		return candidates[0], true
	}
}

func covers(members, keys *set.Set[blade.Key]) bool {
	for k := range keys.Items() {
		if !members.Contains(k) {
			return false
		}
	}
	return true
}

// groupByBlade splits e into per-blade coefficient sums, in first-seen
// order. Groups that cancel are dropped. It fails when some term is not a
// known non-zero blade.
func groupByBlade(e ast.Expr, reg *typesystem.Registry) ([]*bladeGroup, bool) {
	g := reg.Grammar()
	terms := []ast.Expr{e}
	if s, ok := e.(ast.Sum); ok {
		terms = s.Terms
	}
	if len(terms) == 0 {
		return nil, false
	}

	var order []*bladeGroup
	byKey := make(map[blade.Key]*bladeGroup)
	for _, t := range terms {
		sb, ok := bladeType(t, g)
		if !ok {
			return nil, false
		}
		grp, seen := byKey[sb.Key()]
		if !seen {
			grp = &bladeGroup{key: sb.Key()}
			byKey[sb.Key()] = grp
			order = append(order, grp)
		}
		grp.parts = append(grp.parts, ast.Scale(coefficient(t), sb.Sign))
	}

	out := order[:0]
	for _, grp := range order {
		grp.value = Simplify(ast.Add(grp.parts...), g)
		if !ast.IsZero(grp.value) {
			out = append(out, grp)
		}
	}
	return out, true
}

// coefficient strips the blades from a term, leaving the scalar it
// multiplies. Blade-typed variables become scalar variables of the same
// name.
func coefficient(e ast.Expr) ast.Expr {
	switch n := e.(type) {
	case ast.Var:
		return ast.NewVar(n.Name, typesystem.Scalar(), n.Order)
	case ast.BasisVector:
		return ast.One()
	case ast.Scaled:
		return ast.Scale(coefficient(n.Expr), n.Scalar)
	case ast.Unary:
		return coefficient(n.Expr)
	case ast.Product:
		factors := make([]ast.Expr, len(n.Factors))
		for i, f := range n.Factors {
			factors[i] = coefficient(f)
		}
		return ast.Geometric(factors...)
	case ast.Sum:
		terms := make([]ast.Expr, len(n.Terms))
		for i, t := range n.Terms {
			terms[i] = coefficient(t)
		}
		return ast.Add(terms...)
	case ast.AggregateInstance:
		return n
	default:
		panic(fmt.Sprintf("analyzer: unknown expression %T", e))
	}
}
