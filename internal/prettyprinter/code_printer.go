// Package prettyprinter renders compiled expression trees: as Go source for
// generated operators, and as Markdown tables for the algebra report.
package prettyprinter

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/funvibe/bladec/internal/ast"
	"github.com/funvibe/bladec/internal/blade"
	"github.com/funvibe/bladec/internal/utils"
)

// --- Code Printer (output is a Go expression) ---

// Operator precedence (higher = binds tighter)
const (
	precLowest = iota
	precSum
	precProduct
	precPrefix
)

// CodePrinter prints expressions as Go expressions over float32 member
// fields. Variables named "v.member" print as v.Member. Nodes that have no
// scalar meaning (basis vectors, unary operators, non-geometric products)
// print in call syntax so raw results stay readable inside comments.
type CodePrinter struct {
	buf       bytes.Buffer
	indent    int
	lineWidth int // max line width before member lists break (0 = unlimited)
	column    int
}

func NewCodePrinter() *CodePrinter {
	return &CodePrinter{lineWidth: 100}
}

func NewCodePrinterWithWidth(width int) *CodePrinter {
	return &CodePrinter{lineWidth: width}
}

// SetIndent sets the indentation level used when member lists break.
func (p *CodePrinter) SetIndent(level int) {
	p.indent = level
}

// Print renders e and returns the text. The printer is reset first.
func (p *CodePrinter) Print(e ast.Expr) string {
	p.buf.Reset()
	p.column = p.indent * 4
	p.printExpr(e, precLowest)
	return p.String()
}

func (p *CodePrinter) String() string {
	return p.buf.String()
}

func (p *CodePrinter) write(s string) {
	p.buf.WriteString(s)
	p.column += len(s)
}

func (p *CodePrinter) writeln() {
	p.buf.WriteByte('\n')
	p.writeIndent()
}

func (p *CodePrinter) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.buf.WriteByte('\t')
	}
	p.column = p.indent * 4
}

// printExpr prints an expression, adding parentheses only if needed
func (p *CodePrinter) printExpr(e ast.Expr, parentPrec int) {
	switch n := e.(type) {
	case ast.Var:
		p.write(utils.MemberPath(n.Name))

	case ast.BasisVector:
		p.write(n.Index.String())

	case ast.Scaled:
		p.printScaled(n, parentPrec)

	case ast.Sum:
		p.printSum(n, parentPrec)

	case ast.Product:
		p.printProduct(n, parentPrec)

	case ast.Unary:
		p.write(n.Op.String() + "(")
		p.printExpr(n.Expr, precLowest)
		p.write(")")

	case ast.AggregateInstance:
		p.printInstance(n)

	default:
		panic(fmt.Sprintf("prettyprinter: unknown expression %T", e))
	}
}

func (p *CodePrinter) printScaled(s ast.Scaled, parentPrec int) {
	if isOne(s.Expr) {
		if s.Scalar < 0 && parentPrec >= precPrefix {
			p.write("(" + strconv.Itoa(s.Scalar) + ")")
			return
		}
		p.write(strconv.Itoa(s.Scalar))
		return
	}
	if s.Scalar == -1 {
		needParens := precPrefix < parentPrec
		if needParens {
			p.write("(")
		}
		p.write("-")
		p.printExpr(s.Expr, precPrefix)
		if needParens {
			p.write(")")
		}
		return
	}
	needParens := precProduct < parentPrec
	if needParens {
		p.write("(")
	}
	if s.Scalar < 0 {
		p.write("(" + strconv.Itoa(s.Scalar) + ")")
	} else {
		p.write(strconv.Itoa(s.Scalar))
	}
	p.write(" * ")
	p.printExpr(s.Expr, precProduct+1)
	if needParens {
		p.write(")")
	}
}

func (p *CodePrinter) printSum(s ast.Sum, parentPrec int) {
	if len(s.Terms) == 0 {
		p.write("0")
		return
	}
	needParens := precSum < parentPrec
	if needParens {
		p.write("(")
	}
	for i, t := range leadingPositive(s.Terms) {
		if i == 0 {
			p.printExpr(t, precSum)
			continue
		}
		if neg, ok := negated(t); ok {
			p.write(" - ")
			p.printExpr(neg, precSum+1)
			continue
		}
		p.write(" + ")
		p.printExpr(t, precSum+1)
	}
	if needParens {
		p.write(")")
	}
}

func (p *CodePrinter) printProduct(prod ast.Product, parentPrec int) {
	if len(prod.Factors) == 0 {
		if prod.Kind.Anti() {
			p.write("I")
		} else {
			p.write("1")
		}
		return
	}
	if prod.Kind != blade.Geometric {
		p.write(prod.Kind.String() + "(")
		for i, f := range prod.Factors {
			if i > 0 {
				p.write(", ")
			}
			p.printExpr(f, precLowest)
		}
		p.write(")")
		return
	}
	needParens := precProduct < parentPrec
	if needParens {
		p.write("(")
	}
	for i, f := range prod.Factors {
		if i > 0 {
			p.write(" * ")
		}
		p.printExpr(f, precProduct+1)
	}
	if needParens {
		p.write(")")
	}
}

// printInstance prints a keyed composite literal, one member per line when
// the literal does not fit. Zero members are left out.
func (p *CodePrinter) printInstance(inst ast.AggregateInstance) {
	var parts []string
	width := len(inst.Type.Name) + 2
	for _, m := range inst.Members {
		if ast.IsZero(m.Value) {
			continue
		}
		sub := &CodePrinter{lineWidth: p.lineWidth}
		part := utils.ExportName(m.Name) + ": " + sub.Print(m.Value)
		parts = append(parts, part)
		width += len(part) + 2
	}

	p.write(inst.Type.Name + "{")
	if len(parts) == 0 || p.lineWidth == 0 || p.column+width <= p.lineWidth {
		for i, part := range parts {
			if i > 0 {
				p.write(", ")
			}
			p.write(part)
		}
		p.write("}")
		return
	}
	p.indent++
	for _, part := range parts {
		p.writeln()
		p.write(part + ",")
	}
	p.indent--
	p.writeln()
	p.write("}")
}

// leadingPositive moves the first term without a negative scalar to the
// front so a sum reads "a - b" rather than "-b + a".
func leadingPositive(terms []ast.Expr) []ast.Expr {
	if _, ok := negated(terms[0]); !ok {
		return terms
	}
	for i, t := range terms {
		if _, ok := negated(t); !ok {
			out := make([]ast.Expr, 0, len(terms))
			out = append(out, t)
			out = append(out, terms[:i]...)
			return append(out, terms[i+1:]...)
		}
	}
	return terms
}

// negated returns -t when t carries a negative scalar.
func negated(t ast.Expr) (ast.Expr, bool) {
	s, ok := t.(ast.Scaled)
	if !ok || s.Scalar >= 0 {
		return nil, false
	}
	if s.Scalar == -1 {
		return s.Expr, true
	}
	return ast.Scale(s.Expr, -s.Scalar), true
}

func isOne(e ast.Expr) bool {
	p, ok := e.(ast.Product)
	return ok && p.Kind == blade.Geometric && len(p.Factors) == 0
}
