package pipeline

import (
	"context"
	"log/slog"

	"github.com/funvibe/bladec/internal/codegen"
	"github.com/funvibe/bladec/internal/compiler"
	"github.com/funvibe/bladec/internal/config"
	"github.com/funvibe/bladec/internal/grammar"
	"github.com/funvibe/bladec/internal/output"
	"github.com/funvibe/bladec/internal/typesystem"
)

// Processor is one stage of the pipeline.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// WrittenFile reports the outcome of writing one generated file.
type WrittenFile struct {
	Filename string
	Status   output.Status
}

// PipelineContext carries the state shared between stages.
type PipelineContext struct {
	Context context.Context
	Logger  *slog.Logger

	// Source names where the algebra came from (preset or file path).
	Source   string
	Algebra  *config.Algebra
	Grammar  *grammar.Grammar
	Registry *typesystem.Registry

	Compiler *compiler.Compiler
	Table    *compiler.Table

	Files   []codegen.GeneratedFile
	Written []WrittenFile
	RunID   string

	Errors []error
}

// NewPipelineContext creates an empty context. The logger discards
// everything until WithLogger is applied.
func NewPipelineContext(ctx context.Context) *PipelineContext {
	return &PipelineContext{
		Context: ctx,
		Logger:  slog.New(slog.DiscardHandler),
	}
}

// WithLogger sets the logger used by every stage.
func (c *PipelineContext) WithLogger(l *slog.Logger) *PipelineContext {
	if l != nil {
		c.Logger = l
	}
	return c
}

// Failed reports whether any stage recorded an error.
func (c *PipelineContext) Failed() bool {
	return len(c.Errors) > 0
}

func (c *PipelineContext) fail(err error) *PipelineContext {
	c.Errors = append(c.Errors, err)
	return c
}
