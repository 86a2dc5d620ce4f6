package analyzer

import (
	"fmt"
	"slices"

	"github.com/funvibe/bladec/internal/ast"
	"github.com/funvibe/bladec/internal/blade"
	"github.com/funvibe/bladec/internal/grammar"
	"github.com/funvibe/bladec/internal/typesystem"
)

// term is one addend of the normal form: coef * base, where base carries no
// scalar and no sum.
type term struct {
	coef int
	base ast.Expr
}

// Simplify rewrites e into its normal form: a sorted sum of integer-scaled
// products with equal terms merged and zero terms dropped. Variables of
// aggregate type are expanded into their members, named "v.member".
//
// Factors of a product are only reordered when both types are known, so the
// result is canonical exactly as far as the types allow. g may be nil, in
// which case no step that needs the metric is taken.
//
// An aggregate instance at the top is kept, with its members simplified.
func Simplify(e ast.Expr, g *grammar.Grammar) ast.Expr {
	if inst, ok := e.(ast.AggregateInstance); ok {
		members := make([]ast.MemberValue, len(inst.Members))
		for i, m := range inst.Members {
			members[i] = ast.MemberValue{Name: m.Name, Value: Simplify(m.Value, g)}
		}
		return ast.AggregateInstance{Type: inst.Type, Members: members}
	}
	return join(expand(e, g))
}

func expand(e ast.Expr, g *grammar.Grammar) []term {
	switch n := e.(type) {
	case ast.Var:
		return expandVar(n)

	case ast.BasisVector:
		return []term{{coef: 1, base: n}}

	case ast.Scaled:
		if n.Scalar == 0 {
			return nil
		}
		return scaleTerms(expand(n.Expr, g), n.Scalar)

	case ast.Sum:
		var out []term
		for _, t := range n.Terms {
			out = append(out, expand(t, g)...)
		}
		return out

	case ast.Unary:
		var out []term
		for _, t := range expand(n.Expr, g) {
			out = append(out, scaleTerms(unaryTerm(n.Op, t.base, g), t.coef)...)
		}
		return out

	case ast.Product:
		return expandProduct(n, g)

	case ast.AggregateInstance:
		return expandInstance(n, g)

	default:
		panic(fmt.Sprintf("analyzer: unknown expression %T", e))
	}
}

func expandVar(v ast.Var) []term {
	switch t := v.Type.(type) {
	case typesystem.TZero:
		return nil
	case typesystem.TAggregate:
		var out []term
		for _, m := range t.Members {
			member := ast.NewVar(v.Name+"."+m.Name, m.Type, v.Order)
			out = append(out, expandVar(member)...)
		}
		return out
	case typesystem.TBlade:
		if t.Value.IsZero() {
			return nil
		}
	}
	return []term{{coef: 1, base: v}}
}

func scaleTerms(ts []term, k int) []term {
	if k == 1 {
		return ts
	}
	out := make([]term, 0, len(ts))
	for _, t := range ts {
		if c := t.coef * k; c != 0 {
			out = append(out, term{coef: c, base: t.base})
		}
	}
	return out
}

// expandProduct distributes the product over the sums of its factors.
func expandProduct(p ast.Product, g *grammar.Grammar) []term {
	combos := []term{{coef: 1, base: ast.Product{Kind: p.Kind}}}
	for _, f := range p.Factors {
		parts := expand(f, g)
		if len(parts) == 0 {
			return nil
		}
		next := make([]term, 0, len(combos)*len(parts))
		for _, c := range combos {
			prefix := c.base.(ast.Product).Factors
			for _, part := range parts {
				factors := make([]ast.Expr, len(prefix), len(prefix)+1)
				copy(factors, prefix)
				next = append(next, term{
					coef: c.coef * part.coef,
					base: ast.Product{Kind: p.Kind, Factors: append(factors, part.base)},
				})
			}
		}
		combos = next
	}
	var out []term
	for _, c := range combos {
		if t, ok := productTerm(p.Kind, c.coef, c.base.(ast.Product).Factors, g); ok {
			out = append(out, t)
		}
	}
	return out
}

// expandInstance turns a nested aggregate instance back into blade form.
func expandInstance(inst ast.AggregateInstance, g *grammar.Grammar) []term {
	var out []term
	for _, m := range inst.Members {
		mt, ok := inst.Type.Member(m.Name)
		if !ok {
			continue
		}
		tb, ok := mt.Type.(typesystem.TBlade)
		if !ok {
			out = append(out, expand(m.Value, g)...)
			continue
		}
		if tb.Value.IsZero() {
			continue
		}
		for _, t := range expand(m.Value, g) {
			factors := append([]ast.Expr{t.base}, basisFactors(tb.Value.Blade)...)
			if pt, ok := productTerm(blade.Geometric, t.coef*tb.Value.Sign, factors, g); ok {
				out = append(out, pt)
			}
		}
	}
	return out
}

// unaryTerm applies op to a scalar-free base.
func unaryTerm(op blade.UnaryOp, base ast.Expr, g *grammar.Grammar) []term {
	if inner, ok := base.(ast.Unary); ok && inner.Op == op.Inverse() {
		return expand(inner.Expr, g)
	}
	if sb, ok := constantBlade(base, g); ok && (g != nil || !op.NeedsGrammar()) {
		return basisTerms(blade.ApplyUnary(op, sb, g))
	}
	return []term{{coef: 1, base: ast.Apply(op, base)}}
}

// constantBlade reports the value of a base built only from basis vectors.
func constantBlade(e ast.Expr, g *grammar.Grammar) (blade.SignedBlade, bool) {
	if hasOpaque(e) {
		return blade.Zero(), false
	}
	t, ok := Infer(e, g)
	if !ok {
		return blade.Zero(), false
	}
	tb, ok := t.(typesystem.TBlade)
	if !ok {
		return blade.Zero(), false
	}
	return tb.Value, true
}

func hasOpaque(e ast.Expr) bool {
	switch n := e.(type) {
	case ast.Var, ast.AggregateInstance, ast.Sum, ast.Scaled:
		return true
	case ast.BasisVector:
		return false
	default:
		return slices.ContainsFunc(ast.Children(n), hasOpaque)
	}
}

func basisFactors(b blade.Blade) []ast.Expr {
	out := make([]ast.Expr, len(b))
	for i, v := range b {
		out[i] = ast.Vec(v)
	}
	return out
}

// basisExpr spells a simplified blade as a geometric product of its
// generators.
func basisExpr(b blade.Blade) ast.Expr {
	switch len(b) {
	case 0:
		return ast.One()
	case 1:
		return ast.Vec(b[0])
	default:
		return ast.Geometric(basisFactors(b)...)
	}
}

func basisTerms(sb blade.SignedBlade) []term {
	if sb.IsZero() {
		return nil
	}
	return []term{{coef: sb.Sign, base: basisExpr(sb.Blade)}}
}

// identityExpr is the empty product of kind.
func identityExpr(kind blade.ProductKind) ast.Expr {
	if kind.Anti() {
		return ast.Product{Kind: kind}
	}
	return ast.One()
}

func join(ts []term) ast.Expr {
	slices.SortStableFunc(ts, func(a, b term) int { return ast.Compare(a.base, b.base) })

	var merged []term
	for _, t := range ts {
		if n := len(merged); n > 0 && ast.Equal(merged[n-1].base, t.base) {
			merged[n-1].coef += t.coef
			continue
		}
		merged = append(merged, t)
	}

	var out []ast.Expr
	for _, t := range merged {
		switch t.coef {
		case 0:
		case 1:
			out = append(out, t.base)
		default:
			out = append(out, ast.Scale(t.base, t.coef))
		}
	}
	switch len(out) {
	case 0:
		return ast.Zero()
	case 1:
		return out[0]
	default:
		return ast.Sum{Terms: out}
	}
}
