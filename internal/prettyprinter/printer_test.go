package prettyprinter

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/bladec/internal/analyzer"
	"github.com/funvibe/bladec/internal/ast"
	"github.com/funvibe/bladec/internal/blade"
	"github.com/funvibe/bladec/internal/compiler"
	"github.com/funvibe/bladec/internal/presets"
	"github.com/funvibe/bladec/internal/typesystem"
)

func scalar(name string, order int) ast.Var {
	return ast.NewVar(name, typesystem.Scalar(), order)
}

func TestCodePrinterExpressions(t *testing.T) {
	a, b, c := scalar("self.x", 0), scalar("other.y", 1), scalar("k", 2)

	tests := []struct {
		name string
		expr ast.Expr
		want string
	}{
		{"member path", a, "self.X"},
		{"zero", ast.Zero(), "0"},
		{"one", ast.One(), "1"},
		{"constant", ast.Constant(-3), "-3"},
		{"product", ast.Geometric(a, b), "self.X * other.Y"},
		{"difference", ast.Add(ast.Geometric(a, b), ast.Neg(ast.Geometric(b, c))), "self.X * other.Y - other.Y * k"},
		{"scaled difference", ast.Add(a, ast.Scale(b, -2)), "self.X - 2 * other.Y"},
		{"leading negation", ast.Add(ast.Neg(a), b), "other.Y - self.X"},
		{"negated product first", ast.Add(ast.Neg(ast.Geometric(a, b)), ast.Geometric(b, c)), "other.Y * k - self.X * other.Y"},
		{"all negative", ast.Add(ast.Neg(a), ast.Scale(b, -2)), "-self.X - 2 * other.Y"},
		{"scaled sum", ast.Scale(ast.Add(a, b), 2), "2 * (self.X + other.Y)"},
		{"negative scalar factor", ast.Scale(a, -2), "(-2) * self.X"},
		{"product of sums", ast.Geometric(ast.Add(a, b), c), "(self.X + other.Y) * k"},
		{"negated product", ast.Neg(ast.Geometric(a, b)), "-(self.X * other.Y)"},
		{"raw wedge", ast.Wedge(ast.Vec(0), ast.Vec(1)), "Wedge(e0, e1)"},
		{"unary", ast.Apply(blade.ReverseOp, a), "Reverse(self.X)"},
		{"pseudo-scalar", ast.Regressive(), "I"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewCodePrinter().Print(tt.expr))
		})
	}
}

func TestCodePrinterInstance(t *testing.T) {
	selfX, selfY, selfW := scalar("self.x", 0), scalar("self.y", 0), scalar("self.w", 0)
	ox, oy, ow := scalar("other.x", 1), scalar("other.y", 1), scalar("other.w", 1)
	cross := func(a, b, c, d ast.Expr) ast.Expr {
		return ast.Add(ast.Geometric(a, b), ast.Neg(ast.Geometric(c, d)))
	}
	inst := ast.AggregateInstance{
		Type: typesystem.TAggregate{Name: "Line"},
		Members: []ast.MemberValue{
			{Name: "x", Value: cross(selfY, ow, selfW, oy)},
			{Name: "y", Value: cross(selfW, ox, selfX, ow)},
			{Name: "w", Value: ast.Zero()},
		},
	}

	wide := NewCodePrinterWithWidth(0).Print(inst)
	assert.Equal(t,
		"Line{X: self.Y * other.W - self.W * other.Y, Y: self.W * other.X - self.X * other.W}",
		wide)

	narrow := NewCodePrinterWithWidth(40)
	narrow.SetIndent(1)
	out := narrow.Print(inst)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 4, out)
	assert.Equal(t, "Line{", lines[0])
	assert.Equal(t, "\t\tX: self.Y * other.W - self.W * other.Y,", lines[1])
	assert.Equal(t, "\t\tY: self.W * other.X - self.X * other.W,", lines[2])
	assert.Equal(t, "\t}", lines[3])

	empty := ast.AggregateInstance{
		Type:    typesystem.TAggregate{Name: "Line"},
		Members: []ast.MemberValue{{Name: "x", Value: ast.Zero()}},
	}
	assert.Equal(t, "Line{}", NewCodePrinter().Print(empty))
}

// Typified results print as composite literals of the matched aggregate.
func TestCodePrinterTypifiedWedge(t *testing.T) {
	p, err := presets.Load("pga2d")
	require.NoError(t, err)
	g, reg, err := p.Build()
	require.NoError(t, err)
	point, _ := reg.Lookup("Point")

	e := ast.Wedge(ast.NewVar("self", point, 0), ast.NewVar("other", point, 1))
	out := NewCodePrinterWithWidth(0).Print(analyzer.Typify(analyzer.Simplify(e, g), reg))
	assert.True(t, strings.HasPrefix(out, "Line{X: "), out)
	assert.Contains(t, out, "self.Y * other.W")
	assert.NotContains(t, out, "Wedge(")
}

func TestMarkdownReport(t *testing.T) {
	p, err := presets.Load("pga2d")
	require.NoError(t, err)
	_, reg, err := p.Build()
	require.NoError(t, err)

	c := compiler.New(reg)
	table, err := c.Table(context.Background())
	require.NoError(t, err)

	out := NewMarkdown(reg).Report("pga2d", c, table)
	assert.Contains(t, out, "# pga2d")
	assert.Contains(t, out, "Grammar: `[1 1 0]`")
	assert.Contains(t, out, "## Wedge product")
	assert.Contains(t, out, "## Wedge operators")
	assert.Contains(t, out, "| Point | Line |")
	assert.Contains(t, out, "## Unary operators")
}

func TestMarkdownSignedBlade(t *testing.T) {
	p, err := presets.Load("pga2d")
	require.NoError(t, err)
	_, reg, err := p.Build()
	require.NoError(t, err)
	m := NewMarkdown(reg)

	assert.Equal(t, "0", m.SignedBlade(blade.Zero()))
	assert.Equal(t, "X", m.SignedBlade(blade.Vector(0)))
	assert.Equal(t, "-WX", m.SignedBlade(blade.Signed(1, blade.New(0, 2))))
	assert.Equal(t, "WX", m.SignedBlade(blade.Signed(-1, blade.New(0, 2))))
	assert.Equal(t, "1", m.SignedBlade(blade.One()))

	c := compiler.New(reg)
	table := m.Cayley(blade.Wedge, c.NamedBasis(), c.Cayley(blade.Wedge))
	assert.Contains(t, table, "|  | 1 | X | Y | W | XY | WX | YW | XYW |")
	// X ^ W = e02 = -WX
	assert.Contains(t, table, "| X | X | 0 | XY | -WX |")
	assert.Contains(t, table, "| WX | WX | 0 |")
}
