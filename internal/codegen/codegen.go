// Package codegen turns a compiled operator table into Go source: value
// types for every registered blade and aggregate, and one method per
// non-zero operator.
package codegen

import (
	"fmt"
	"go/token"
	"slices"
	"strings"
	"text/template"
	"unicode"

	"golang.org/x/tools/imports"

	"github.com/funvibe/bladec/internal/ast"
	"github.com/funvibe/bladec/internal/blade"
	"github.com/funvibe/bladec/internal/compiler"
	"github.com/funvibe/bladec/internal/config"
	"github.com/funvibe/bladec/internal/prettyprinter"
	"github.com/funvibe/bladec/internal/typesystem"
	"github.com/funvibe/bladec/internal/utils"
)

// GeneratedFile represents a generated Go source file.
type GeneratedFile struct {
	// Filename is the path relative to the output directory (e.g. "wedge.go").
	Filename string

	// Content is the formatted Go source code.
	Content string
}

// Generator produces Go source files for one algebra.
type Generator struct {
	pkg       string
	source    string
	lineWidth int
}

// Option configures a Generator.
type Option func(*Generator)

// WithSource names the algebra in the generated file headers.
func WithSource(name string) Option {
	return func(g *Generator) { g.source = name }
}

// WithLineWidth sets the width at which composite literals break.
func WithLineWidth(width int) Option {
	return func(g *Generator) { g.lineWidth = width }
}

// New creates a generator emitting files of package pkg.
func New(pkg string, opts ...Option) *Generator {
	g := &Generator{pkg: pkg, lineWidth: 100}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate produces types.go, one file per product kind and unary.go.
// Groups without any emitted operator produce no file. Files are returned
// sorted by name.
func (g *Generator) Generate(t *compiler.Table) ([]GeneratedFile, error) {
	if !token.IsIdentifier(g.pkg) {
		return nil, fmt.Errorf("invalid package name %q", g.pkg)
	}

	names := newTypeNames(t.Registry)
	var files []GeneratedFile

	for _, kind := range blade.Kinds() {
		file, ok, err := g.operatorFile(kind.String(), names, t.ByKind(kind))
		if err != nil {
			return nil, fmt.Errorf("generating %s operators: %w", kind, err)
		}
		if ok {
			files = append(files, file)
		}
	}
	file, ok, err := g.operatorFile("Unary", names, t.Unary)
	if err != nil {
		return nil, fmt.Errorf("generating unary operators: %w", err)
	}
	if ok {
		files = append(files, file)
	}

	// Rendered last: operator files may introduce unregistered blade types.
	types, err := g.typesFile(t.Registry, names)
	if err != nil {
		return nil, fmt.Errorf("generating types: %w", err)
	}
	files = append(files, types)

	slices.SortFunc(files, func(a, b GeneratedFile) int {
		return strings.Compare(a.Filename, b.Filename)
	})
	return files, nil
}

// typeNames maps registry names onto Go identifiers and remembers every
// blade type an operator returns.
type typeNames struct {
	reg   *typesystem.Registry
	extra map[string]typesystem.BladeName
}

func newTypeNames(reg *typesystem.Registry) *typeNames {
	return &typeNames{reg: reg, extra: make(map[string]typesystem.BladeName)}
}

// result returns the Go type of a typed result.
func (n *typeNames) result(r compiler.Result) string {
	tb, ok := r.Type.(typesystem.TBlade)
	if !ok {
		return identifier(r.TypeName)
	}
	if tb.Value.Grade() == 0 {
		return config.ScalarTypeName
	}
	id := identifier(r.TypeName)
	if _, registered := n.reg.Lookup(r.TypeName); !registered {
		sign, pres := blade.Present(tb.Value.Blade, n.reg.Grammar())
		n.extra[id] = typesystem.BladeName{
			Name:         r.TypeName,
			Type:         typesystem.TBlade{Value: blade.Signed(sign, tb.Value.Blade)},
			Presentation: pres,
		}
	}
	return id
}

// identifier converts a registry name into an exported Go identifier.
// Example: "e20" -> "E20", "1" -> "T1".
func identifier(s string) string {
	id := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return r
		}
		return '_'
	}, s)
	if id == "" || !unicode.IsLetter([]rune(id)[0]) {
		id = "T" + id
	}
	return utils.ExportName(id)
}

// words splits a CamelCase name into lower-case words.
// Example: "AntiGeometric" -> "anti geometric".
func words(name string) string {
	return strings.ReplaceAll(utils.SnakeCase(name), "_", " ")
}

type typeDecl struct {
	Name    string
	Comment string
}

type structDecl struct {
	Name   string
	Fields []fieldDecl
}

type fieldDecl struct {
	Name  string
	Type  string
	Blade string
}

func (g *Generator) typesFile(reg *typesystem.Registry, names *typeNames) (GeneratedFile, error) {
	var blades []typeDecl
	for _, b := range reg.Blades() {
		blades = append(blades, typeDecl{
			Name:    identifier(b.Name),
			Comment: fmt.Sprintf("is the coefficient of the blade %s.", b.Presentation),
		})
	}
	extra := make([]string, 0, len(names.extra))
	for id := range names.extra {
		extra = append(extra, id)
	}
	slices.Sort(extra)
	for _, id := range extra {
		blades = append(blades, typeDecl{
			Name:    id,
			Comment: fmt.Sprintf("is the coefficient of the unregistered blade %s.", names.extra[id].Presentation),
		})
	}

	var structs []structDecl
	for _, a := range reg.Aggregates() {
		s := structDecl{Name: identifier(a.Name)}
		for _, m := range a.Members {
			f := fieldDecl{Name: utils.ExportName(m.Name), Type: config.ScalarTypeName}
			if nested, ok := m.Type.(typesystem.TAggregate); ok {
				f.Type = identifier(nested.Name)
			} else {
				f.Blade = reg.TypeName(m.Type)
			}
			s.Fields = append(s.Fields, f)
		}
		structs = append(structs, s)
	}

	data := struct {
		Header  string
		Package string
		Blades  []typeDecl
		Structs []structDecl
	}{
		Header:  g.header(),
		Package: g.pkg,
		Blades:  blades,
		Structs: structs,
	}
	return g.render("types.go", typesFileTemplate, data)
}

type methodDecl struct {
	Doc      string
	Receiver string
	Name     string
	Param    string
	Result   string
	Body     string
}

type rawDecl struct {
	Operator string
	Lines    []string
}

func (g *Generator) operatorFile(group string, names *typeNames, results []compiler.Result) (GeneratedFile, bool, error) {
	var methods []methodDecl
	var raws []rawDecl
	var zeros []string

	for _, r := range results {
		if !r.Emitted() {
			continue
		}
		switch r.Outcome {
		case compiler.Typed:
			methods = append(methods, g.method(r, names))
		case compiler.Raw:
			raws = append(raws, rawDecl{
				Operator: g.signature(r, names.reg),
				Lines:    strings.Split(g.print(r.Expr, 0), "\n"),
			})
		case compiler.Zero:
			zeros = append(zeros, g.signature(r, names.reg))
		}
	}
	if len(methods) == 0 && len(raws) == 0 && len(zeros) == 0 {
		return GeneratedFile{}, false, nil
	}

	data := struct {
		Header  string
		Package string
		Methods []methodDecl
		Raws    []rawDecl
		Zeros   []string
	}{
		Header:  g.header(),
		Package: g.pkg,
		Methods: methods,
		Raws:    raws,
		Zeros:   zeros,
	}
	file, err := g.render(utils.GeneratedFileName(group), operatorFileTemplate, data)
	return file, err == nil, err
}

func (g *Generator) method(r compiler.Result, names *typeNames) methodDecl {
	op := r.Operator
	m := methodDecl{
		Receiver: identifier(names.reg.TypeName(op.LHS)),
		Result:   names.result(r),
	}
	if op.Unary {
		m.Name = op.Op.String()
		m.Doc = fmt.Sprintf("%s returns the %s of %s.", m.Name, words(m.Name), config.SelfName)
	} else {
		rhs := identifier(names.reg.TypeName(op.RHS))
		m.Name = op.Kind.String() + rhs
		m.Param = config.OtherName + " " + rhs
		m.Doc = fmt.Sprintf("%s returns the %s product of %s and %s.",
			m.Name, words(op.Kind.String()), config.SelfName, config.OtherName)
	}

	m.Body = g.print(r.Expr, 1)
	if _, ok := r.Expr.(ast.AggregateInstance); !ok && m.Result != config.ScalarTypeName {
		m.Body = m.Result + "(" + m.Body + ")"
	}
	return m
}

func (g *Generator) signature(r compiler.Result, reg *typesystem.Registry) string {
	op := r.Operator
	if op.Unary {
		return fmt.Sprintf("%s(%s)", op.Op, reg.TypeName(op.LHS))
	}
	return fmt.Sprintf("%s(%s, %s)", op.Kind, reg.TypeName(op.LHS), reg.TypeName(op.RHS))
}

func (g *Generator) print(e ast.Expr, indent int) string {
	p := prettyprinter.NewCodePrinterWithWidth(g.lineWidth)
	p.SetIndent(indent)
	return p.Print(e)
}

func (g *Generator) header() string {
	if g.source == "" {
		return "// Code generated by bladec. DO NOT EDIT."
	}
	return fmt.Sprintf("// Code generated by bladec from %s. DO NOT EDIT.", g.source)
}

// render executes a template and formats the result.
func (g *Generator) render(filename, text string, data any) (GeneratedFile, error) {
	tmpl, err := template.New(filename).Parse(text)
	if err != nil {
		return GeneratedFile{}, fmt.Errorf("parsing template: %w", err)
	}
	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return GeneratedFile{}, fmt.Errorf("executing template: %w", err)
	}

	src, err := imports.Process(filename, []byte(buf.String()), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return GeneratedFile{}, fmt.Errorf("formatting %s: %w", filename, err)
	}
	return GeneratedFile{Filename: filename, Content: string(src)}, nil
}
