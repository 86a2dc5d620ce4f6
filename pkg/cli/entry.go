// Package cli implements the bladec command line.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/funvibe/bladec/internal/compiler"
	"github.com/funvibe/bladec/internal/config"
	"github.com/funvibe/bladec/internal/output"
	"github.com/funvibe/bladec/internal/pipeline"
	"github.com/funvibe/bladec/internal/presets"
)

// Exit codes
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// Main runs the command line and exits.
func Main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// Run executes bladec with args and returns the exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) (code int) {
	// Catch panics and show user-friendly error
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r)
			}
			fmt.Fprintf(stderr, "Internal error: %v\n", r)
			fmt.Fprintln(stderr, "This is a bug. Please report it.")
			code = ExitError
		}
	}()

	if len(args) > 0 {
		switch args[0] {
		case "presets":
			return handlePresets(args[1:], stdout, stderr)
		case "history":
			return handleHistory(args[1:], stdout, stderr)
		case "version":
			fmt.Fprintln(stdout, "bladec "+config.Version)
			return ExitOK
		}
	}
	return handleGenerate(ctx, args, stdout, stderr)
}

type generateFlags struct {
	preset   string
	config   string
	out      string
	pkg      string
	parallel int
	markdown bool
	dryRun   bool
	verbose  bool
}

func handleGenerate(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var f generateFlags
	fs := flag.NewFlagSet("bladec", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.preset, "preset", "", "built-in algebra ("+strings.Join(presets.Names(), ", ")+")")
	fs.StringVar(&f.config, "config", "", "algebra file (default: search for "+config.ConfigFileNames[0]+")")
	fs.StringVar(&f.out, "out", config.DefaultOutDir, "output directory")
	fs.StringVar(&f.pkg, "pkg", "", "package name of generated code (default: from the algebra)")
	fs.IntVar(&f.parallel, "parallel", runtime.NumCPU(), "operators compiled concurrently")
	fs.BoolVar(&f.markdown, "markdown", false, "also write "+config.MarkdownReport)
	fs.BoolVar(&f.dryRun, "dry-run", false, "report what would change without writing")
	fs.BoolVar(&f.verbose, "v", false, "verbose logging")
	fs.Usage = func() { printUsage(fs) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitOK
		}
		return ExitUsage
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "Error: unexpected argument %q\n", fs.Arg(0))
		fs.Usage()
		return ExitUsage
	}
	if f.preset != "" && f.config != "" {
		fmt.Fprintln(stderr, "Error: -preset and -config are mutually exclusive")
		return ExitUsage
	}

	logger := newLogger(stderr, f.verbose)
	p := pipeline.New(
		&pipeline.LoadStage{Preset: f.preset, ConfigPath: f.config},
		&pipeline.CompileStage{Parallelism: f.parallel, Cache: true},
		&pipeline.RenderStage{Package: f.pkg, Markdown: f.markdown},
		&pipeline.WriteStage{OutDir: f.out, DryRun: f.dryRun},
	)
	result := p.Run(pipeline.NewPipelineContext(ctx).WithLogger(logger))

	if result.Failed() {
		for _, err := range result.Errors {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return ExitError
	}
	printSummary(stdout, result, f.dryRun)
	return ExitOK
}

func printUsage(fs *flag.FlagSet) {
	w := fs.Output()
	fmt.Fprintln(w, "Usage: bladec [flags]")
	fmt.Fprintln(w, "       bladec presets")
	fmt.Fprintln(w, "       bladec history [-out dir] <file>")
	fmt.Fprintln(w, "       bladec version")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generates Go operators for a geometric algebra.")
	fmt.Fprintln(w)
	fs.PrintDefaults()
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func handlePresets(args []string, stdout, stderr io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(stderr, "Error: presets takes no arguments\n")
		return ExitUsage
	}
	for _, name := range presets.Names() {
		a, err := presets.Load(name)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return ExitError
		}
		aggs := make([]string, len(a.Aggregates))
		for i, agg := range a.Aggregates {
			aggs[i] = agg.Name
		}
		fmt.Fprintf(stdout, "%-8s grammar %v  %s\n", name, a.Grammar, strings.Join(aggs, ", "))
	}
	return ExitOK
}

func handleHistory(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("bladec history", flag.ContinueOnError)
	fs.SetOutput(stderr)
	out := fs.String("out", config.DefaultOutDir, "output directory")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitOK
		}
		return ExitUsage
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "Usage: bladec history [-out dir] <file>")
		return ExitUsage
	}

	entries, err := output.ReadHistory(*out, fs.Arg(0))
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitError
	}
	if len(entries) == 0 {
		fmt.Fprintf(stdout, "no recorded writes of %s\n", fs.Arg(0))
		return ExitOK
	}
	for _, e := range entries {
		fmt.Fprintf(stdout, "%s  %s  %-9s  %s  %s\n",
			e.At.Local().Format("2006-01-02 15:04:05"), e.RunID, e.Status, e.Hash[:12], e.Source)
	}
	return ExitOK
}

// ANSI colors
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorDim    = "\033[2m"
)

// colorEnabled reports whether w is a terminal that accepts colors.
func colorEnabled(w io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func printSummary(w io.Writer, ctx *pipeline.PipelineContext, dryRun bool) {
	paint := func(color, s string) string { return s }
	if colorEnabled(w) {
		paint = func(color, s string) string { return color + s + colorReset }
	}

	counts := ctx.Table.Counts()
	written := make(map[output.Status]int)
	for _, f := range ctx.Written {
		written[f.Status]++
		color := colorGreen
		if f.Status == output.Unchanged {
			color = colorDim
		}
		fmt.Fprintf(w, "  %s %s\n", paint(color, fmt.Sprintf("%-9s", f.Status)), f.Filename)
	}

	prefix := paint(colorGreen, "ok")
	if dryRun {
		prefix = paint(colorYellow, "dry run")
	}
	fmt.Fprintf(w, "%s %s: %d operators (%d typed, %d raw, %d elided, %d zero), %d files (%d created, %d updated, %d unchanged)\n",
		prefix, ctx.Algebra.Name,
		len(ctx.Table.Binary)+len(ctx.Table.Unary),
		counts[compiler.Typed], counts[compiler.Raw], counts[compiler.Elided], counts[compiler.Zero],
		len(ctx.Written), written[output.Created], written[output.Updated], written[output.Unchanged])
}
