package prettyprinter

import (
	"fmt"
	"strings"

	"github.com/funvibe/bladec/internal/blade"
	"github.com/funvibe/bladec/internal/compiler"
	"github.com/funvibe/bladec/internal/typesystem"
)

// --- Markdown Printer (algebra report) ---

// Markdown writes the algebra report: the basis, one Cayley table per
// product kind and the outcome matrix of every compiled operator.
type Markdown struct {
	buf strings.Builder
	reg *typesystem.Registry
}

func NewMarkdown(reg *typesystem.Registry) *Markdown {
	return &Markdown{reg: reg}
}

// Report renders the full report for a compiled table.
func (m *Markdown) Report(title string, c *compiler.Compiler, t *compiler.Table) string {
	m.buf.Reset()
	fmt.Fprintf(&m.buf, "# %s\n\n", title)
	fmt.Fprintf(&m.buf, "Grammar: `%s`\n\n", m.reg.Grammar())
	m.basis(c.NamedBasis())
	for _, kind := range blade.Kinds() {
		m.cayley(kind, c.NamedBasis(), c.Cayley(kind))
	}
	for _, kind := range blade.Kinds() {
		m.operators(kind, t.ByKind(kind))
	}
	m.unary(t.Unary)
	return m.buf.String()
}

func (m *Markdown) basis(named []blade.SignedBlade) {
	m.buf.WriteString("## Basis\n\n| Name | Blade | Grade |\n|---|---|---|\n")
	for _, b := range named {
		sign, pres := blade.Present(b.Blade, m.reg.Grammar())
		if sign*b.Sign < 0 {
			fmt.Fprintf(&m.buf, "| %s | `-%s` | %d |\n", m.SignedBlade(b), pres, b.Grade())
			continue
		}
		fmt.Fprintf(&m.buf, "| %s | `%s` | %d |\n", m.SignedBlade(b), pres, b.Grade())
	}
	m.buf.WriteString("\n")
}

// Cayley renders a single multiplication table over the given basis.
func (m *Markdown) Cayley(kind blade.ProductKind, basis []blade.SignedBlade, cells [][]blade.SignedBlade) string {
	m.buf.Reset()
	m.cayley(kind, basis, cells)
	return m.buf.String()
}

func (m *Markdown) cayley(kind blade.ProductKind, basis []blade.SignedBlade, cells [][]blade.SignedBlade) {
	fmt.Fprintf(&m.buf, "## %s product\n\n", kind)

	header := make([]string, len(basis))
	for i, b := range basis {
		header[i] = m.SignedBlade(b)
	}
	m.row("", header)
	m.rule(len(basis) + 1)
	for i, row := range cells {
		out := make([]string, len(row))
		for j, cell := range row {
			out[j] = m.SignedBlade(cell)
		}
		m.row(header[i], out)
	}
	m.buf.WriteString("\n")
}

func (m *Markdown) operators(kind blade.ProductKind, results []compiler.Result) {
	aggs := m.reg.Aggregates()
	if len(aggs) == 0 {
		return
	}
	fmt.Fprintf(&m.buf, "## %s operators\n\n", kind)

	header := make([]string, len(aggs))
	for i, a := range aggs {
		header[i] = a.Name
	}
	m.row("", header)
	m.rule(len(aggs) + 1)

	byPair := make(map[[2]string]compiler.Result, len(results))
	for _, r := range results {
		byPair[[2]string{m.reg.TypeName(r.Operator.LHS), m.reg.TypeName(r.Operator.RHS)}] = r
	}
	for _, lhs := range aggs {
		cells := make([]string, len(aggs))
		for j, rhs := range aggs {
			cells[j] = outcomeCell(byPair[[2]string{lhs.Name, rhs.Name}])
		}
		m.row(lhs.Name, cells)
	}
	m.buf.WriteString("\n")
}

func (m *Markdown) unary(results []compiler.Result) {
	if len(results) == 0 {
		return
	}
	m.buf.WriteString("## Unary operators\n\n| Operator | Operand | Result |\n|---|---|---|\n")
	for _, r := range results {
		fmt.Fprintf(&m.buf, "| %s | %s | %s |\n", r.Operator.Op, m.reg.TypeName(r.Operator.LHS), outcomeCell(r))
	}
	m.buf.WriteString("\n")
}

// SignedBlade names a signed blade with registry names, e.g. "-WX".
func (m *Markdown) SignedBlade(s blade.SignedBlade) string {
	if s.IsZero() {
		return "0"
	}
	sign, name := m.reg.BladeName(s.Blade)
	k := sign * s.Sign
	switch k {
	case 1:
		return name
	case -1:
		return "-" + name
	default:
		return fmt.Sprintf("%d%s", k, name)
	}
}

func outcomeCell(r compiler.Result) string {
	switch r.Outcome {
	case compiler.Typed:
		return r.TypeName
	case compiler.Raw:
		return "raw"
	case compiler.Zero:
		return "0"
	default:
		return "-"
	}
}

func (m *Markdown) row(head string, cells []string) {
	m.buf.WriteString("| " + head + " | " + strings.Join(cells, " | ") + " |\n")
}

func (m *Markdown) rule(n int) {
	m.buf.WriteString(strings.Repeat("|---", n) + "|\n")
}
