package pipeline

import (
	"errors"
	"fmt"
	"os"

	"github.com/funvibe/bladec/internal/codegen"
	"github.com/funvibe/bladec/internal/compiler"
	"github.com/funvibe/bladec/internal/config"
	"github.com/funvibe/bladec/internal/output"
	"github.com/funvibe/bladec/internal/prettyprinter"
	"github.com/funvibe/bladec/internal/presets"
	"github.com/funvibe/bladec/internal/utils"
)

// ErrNoAlgebra is recorded when neither a preset nor a config file is
// given and no config file is found from the working directory up.
var ErrNoAlgebra = errors.New("no algebra: pass -preset or -config, or add " + config.ConfigFileNames[0])

// LoadStage resolves the algebra and builds its grammar and registry.
// Preset wins over ConfigPath, which is relative to Dir. With neither, the
// config file is searched from Dir upwards.
type LoadStage struct {
	Preset     string
	ConfigPath string
	Dir        string
}

func (s *LoadStage) Process(ctx *PipelineContext) *PipelineContext {
	if ctx.Failed() {
		return ctx
	}

	var (
		a   *config.Algebra
		err error
	)
	switch {
	case s.Preset != "":
		ctx.Source = "preset " + s.Preset
		a, err = presets.Load(s.Preset)
	default:
		path := utils.ResolvePath(s.Dir, s.ConfigPath)
		if path == "" {
			dir := s.Dir
			if dir == "" {
				if dir, err = os.Getwd(); err != nil {
					return ctx.fail(fmt.Errorf("getting working directory: %w", err))
				}
			}
			if path, err = config.Find(dir); err != nil {
				return ctx.fail(err)
			}
			if path == "" {
				return ctx.fail(ErrNoAlgebra)
			}
		}
		ctx.Source = path
		a, err = config.Load(path)
	}
	if err != nil {
		return ctx.fail(err)
	}

	g, reg, err := a.Build()
	if err != nil {
		return ctx.fail(err)
	}
	ctx.Algebra, ctx.Grammar, ctx.Registry = a, g, reg
	ctx.Logger.Info("loaded algebra",
		"name", a.Name,
		"source", ctx.Source,
		"grammar", g.String(),
		"blades", len(reg.Blades()),
		"aggregates", len(reg.Aggregates()),
		"policy", reg.Policy())
	return ctx
}

// CompileStage compiles the operator table.
type CompileStage struct {
	Parallelism int
	Cache       bool
}

func (s *CompileStage) Process(ctx *PipelineContext) *PipelineContext {
	if ctx.Failed() || ctx.Registry == nil {
		return ctx
	}
	opts := []compiler.Option{
		compiler.WithLogger(ctx.Logger),
		compiler.WithParallelism(s.Parallelism),
	}
	if s.Cache {
		opts = append(opts, compiler.WithCache())
	}
	ctx.Compiler = compiler.New(ctx.Registry, opts...)

	table, err := ctx.Compiler.Table(ctx.Context)
	if err != nil {
		return ctx.fail(fmt.Errorf("compiling %s: %w", ctx.Algebra.Name, err))
	}
	ctx.Table = table
	return ctx
}

// RenderStage turns the table into Go files and, optionally, the Markdown
// report. Package overrides the package name of the algebra file.
type RenderStage struct {
	Package  string
	Markdown bool
}

func (s *RenderStage) Process(ctx *PipelineContext) *PipelineContext {
	if ctx.Failed() || ctx.Table == nil {
		return ctx
	}
	pkg := s.Package
	if pkg == "" {
		pkg = ctx.Algebra.Package
	}

	files, err := codegen.New(pkg, codegen.WithSource(ctx.Algebra.Name)).Generate(ctx.Table)
	if err != nil {
		return ctx.fail(err)
	}
	if s.Markdown {
		report := prettyprinter.NewMarkdown(ctx.Registry).Report(ctx.Algebra.Name, ctx.Compiler, ctx.Table)
		files = append(files, codegen.GeneratedFile{Filename: config.MarkdownReport, Content: report})
	}
	ctx.Files = files
	ctx.Logger.Debug("rendered files", "count", len(files), "package", pkg)
	return ctx
}

// WriteStage writes the rendered files below OutDir.
type WriteStage struct {
	OutDir string
	DryRun bool
}

func (s *WriteStage) Process(ctx *PipelineContext) *PipelineContext {
	if ctx.Failed() || ctx.Files == nil {
		return ctx
	}
	dir := s.OutDir
	if dir == "" {
		dir = config.DefaultOutDir
	}

	w, err := output.Open(dir,
		output.WithDryRun(s.DryRun),
		output.WithSource(ctx.Algebra.Name),
		output.WithLogger(ctx.Logger))
	if err != nil {
		return ctx.fail(err)
	}
	defer func() {
		if err := w.Close(); err != nil {
			ctx.fail(fmt.Errorf("closing manifest: %w", err))
		}
	}()

	ctx.RunID = w.RunID()
	for _, f := range ctx.Files {
		status, err := w.Write(f.Filename, []byte(f.Content))
		if err != nil {
			return ctx.fail(err)
		}
		ctx.Written = append(ctx.Written, WrittenFile{Filename: f.Filename, Status: status})
	}
	ctx.Logger.Info("wrote output", "dir", dir, "files", len(ctx.Written), "run", ctx.RunID, "dry_run", s.DryRun)
	return ctx
}
