// Package compiler turns operand types into simplified, typified operator
// bodies, one product kind or unary operator at a time, and builds the full
// operator table of an algebra.
package compiler

import (
	"log/slog"
	"sync"

	"github.com/funvibe/bladec/internal/analyzer"
	"github.com/funvibe/bladec/internal/ast"
	"github.com/funvibe/bladec/internal/blade"
	"github.com/funvibe/bladec/internal/config"
	"github.com/funvibe/bladec/internal/typesystem"
)

// Options configure a Compiler.
type Options struct {
	Logger      *slog.Logger
	Parallelism int
	Cache       bool
}

// Option represents a functional option for configuring a Compiler.
type Option func(*Options)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithParallelism bounds the number of operators compiled at once by
// Table. Values below 1 mean one.
func WithParallelism(n int) Option {
	return func(o *Options) {
		o.Parallelism = max(n, 1)
	}
}

// WithCache memoizes compiled operators per operand types.
func WithCache() Option {
	return func(o *Options) {
		o.Cache = true
	}
}

// Compiler compiles operators against one registry. It is safe for
// concurrent use.
type Compiler struct {
	reg  *typesystem.Registry
	opts Options

	mu    sync.Mutex
	cache map[string]Result
}

// New returns a compiler for reg.
func New(reg *typesystem.Registry, opts ...Option) *Compiler {
	o := Options{
		Logger:      slog.New(slog.DiscardHandler),
		Parallelism: 1,
	}
	for _, opt := range opts {
		opt(&o)
	}
	c := &Compiler{reg: reg, opts: o}
	if o.Cache {
		c.cache = make(map[string]Result)
	}
	return c
}

// Registry returns the registry the compiler was built for.
func (c *Compiler) Registry() *typesystem.Registry { return c.reg }

// Binary compiles kind applied to self of type lhs and other of type rhs.
func (c *Compiler) Binary(kind blade.ProductKind, lhs, rhs typesystem.Type) Result {
	op := Operator{Kind: kind, LHS: lhs, RHS: rhs}
	return c.compile(op, func() ast.Expr {
		return ast.Mul(kind, ast.NewVar(config.SelfName, lhs, 0), ast.NewVar(config.OtherName, rhs, 1))
	})
}

// Unary compiles op applied to self of type t.
func (c *Compiler) Unary(op blade.UnaryOp, t typesystem.Type) Result {
	oper := Operator{Unary: true, Op: op, LHS: t}
	return c.compile(oper, func() ast.Expr {
		return ast.Apply(op, ast.NewVar(config.SelfName, t, 0))
	})
}

func (c *Compiler) compile(op Operator, build func() ast.Expr) Result {
	key := c.cacheKey(op)
	if c.cache != nil {
		c.mu.Lock()
		res, ok := c.cache[key]
		c.mu.Unlock()
		if ok {
			return res
		}
	}

	res := c.classify(op, build())
	c.opts.Logger.Debug("compiled operator", "op", key, "outcome", res.Outcome, "type", res.TypeName)

	if c.cache != nil {
		c.mu.Lock()
		c.cache[key] = res
		c.mu.Unlock()
	}
	return res
}

func (c *Compiler) classify(op Operator, e ast.Expr) Result {
	g := c.reg.Grammar()
	res := Result{Operator: op}

	if t, ok := analyzer.Infer(e, g); ok && typesystem.IsZero(t) {
		res.Outcome = Elided
		return res
	}

	simplified := analyzer.Simplify(e, g)
	if ast.IsZero(simplified) {
		res.Outcome = Zero
		res.Expr = simplified
		return res
	}

	typified := analyzer.Typify(simplified, c.reg)
	if inst, ok := typified.(ast.AggregateInstance); ok {
		res.Outcome = Typed
		res.Expr = inst
		res.Type = inst.Type
		res.TypeName = inst.Type.Name
		return res
	}
	if coef, name, ok := analyzer.AsBlade(simplified, c.reg); ok {
		res.Outcome = Typed
		res.Expr = coef
		res.Type = name.Type
		res.TypeName = name.Name
		return res
	}

	res.Outcome = Raw
	res.Expr = typified
	return res
}

func (c *Compiler) cacheKey(op Operator) string {
	if op.Unary {
		return op.Op.String() + "(" + c.reg.TypeName(op.LHS) + ")"
	}
	return op.Kind.String() + "(" + c.reg.TypeName(op.LHS) + ", " + c.reg.TypeName(op.RHS) + ")"
}
