package pipeline

import (
	"go.uber.org/zap"

	"github.com/funvibe/refinery/internal/ast"
	"github.com/funvibe/refinery/internal/config"
)

// Processor is one stage of a derivation.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// ProcessorFunc adapts a function to Processor.
type ProcessorFunc func(ctx *PipelineContext) *PipelineContext

func (f ProcessorFunc) Process(ctx *PipelineContext) *PipelineContext { return f(ctx) }

// PipelineContext carries one type through the derivation stages.
type PipelineContext struct {
	FilePath string
	Config   *config.Config
	Spec     *config.TypeSpec

	Descriptor *ast.TypeDescriptor
	// Shape holds the matched *derive.Shape. Stored as interface{} to
	// avoid an import cycle with the derive processors.
	Shape interface{}
	Decls []ast.Decl
	Files []GeneratedFile

	Logger *zap.Logger
	Errors []error
}

// NewPipelineContext creates the context for deriving spec.
func NewPipelineContext(cfg *config.Config, spec *config.TypeSpec) *PipelineContext {
	return &PipelineContext{
		FilePath: cfg.Path(),
		Config:   cfg,
		Spec:     spec,
	}
}

// GeneratedFile represents a single output file.
type GeneratedFile struct {
	Filename string
	Content  string
}

// Failed reports whether any stage recorded an error.
func (ctx *PipelineContext) Failed() bool { return len(ctx.Errors) > 0 }
