package compiler

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/funvibe/bladec/internal/blade"
	"github.com/funvibe/bladec/internal/typesystem"
)

// Table holds every compiled operator of an algebra in a deterministic
// order: products by kind, then left and right operand in declaration
// order, followed by unary operators by op, then operand.
type Table struct {
	Registry *typesystem.Registry
	Binary   []Result
	Unary    []Result
}

// Counts tallies results by outcome.
func (t *Table) Counts() map[Outcome]int {
	out := make(map[Outcome]int)
	for _, r := range t.Binary {
		out[r.Outcome]++
	}
	for _, r := range t.Unary {
		out[r.Outcome]++
	}
	return out
}

// ByKind returns the product results of one kind.
func (t *Table) ByKind(kind blade.ProductKind) []Result {
	var out []Result
	for _, r := range t.Binary {
		if r.Operator.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}

// Table compiles every product kind over every ordered pair of registered
// aggregates, and every unary operator over every aggregate.
func (c *Compiler) Table(ctx context.Context) (*Table, error) {
	start := time.Now()
	aggs := c.reg.Aggregates()

	var ops []Operator
	for _, kind := range blade.Kinds() {
		for _, lhs := range aggs {
			for _, rhs := range aggs {
				ops = append(ops, Operator{Kind: kind, LHS: lhs, RHS: rhs})
			}
		}
	}
	nBinary := len(ops)
	for _, op := range blade.UnaryOps() {
		for _, t := range aggs {
			ops = append(ops, Operator{Unary: true, Op: op, LHS: t})
		}
	}

	results := make([]Result, len(ops))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Parallelism)
	for i, op := range ops {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if op.Unary {
				results[i] = c.Unary(op.Op, op.LHS)
			} else {
				results[i] = c.Binary(op.Kind, op.LHS, op.RHS)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	t := &Table{Registry: c.reg, Binary: results[:nBinary], Unary: results[nBinary:]}
	counts := t.Counts()
	c.opts.Logger.Info("compiled operator table",
		"operators", len(results),
		"typed", counts[Typed],
		"raw", counts[Raw],
		"elided", counts[Elided],
		"zero", counts[Zero],
		"elapsed", time.Since(start))
	return t, nil
}

// Cayley returns the multiplication table of kind over the named basis
// blades, rows and columns in blade.Basis order.
func (c *Compiler) Cayley(kind blade.ProductKind) [][]blade.SignedBlade {
	g := c.reg.Grammar()
	basis := c.NamedBasis()
	out := make([][]blade.SignedBlade, len(basis))
	for i, a := range basis {
		out[i] = make([]blade.SignedBlade, len(basis))
		for j, b := range basis {
			out[i][j] = blade.Product(kind, a, b, g)
		}
	}
	return out
}

// NamedBasis returns every basis blade signed so that it equals its
// registry name, e.g. WX as -e02.
func (c *Compiler) NamedBasis() []blade.SignedBlade {
	basis := blade.Basis(c.reg.Grammar())
	out := make([]blade.SignedBlade, len(basis))
	for i, b := range basis {
		sign, _ := c.reg.BladeName(b)
		out[i] = blade.Signed(sign, b)
	}
	return out
}
