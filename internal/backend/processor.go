package backend

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/funvibe/refinery/internal/pipeline"
)

// RenderProcessor implements pipeline.Processor to run a set of backends
type RenderProcessor struct {
	Backends []Backend
}

// NewRenderProcessor creates a new pipeline step for the given backends
func NewRenderProcessor(backends ...Backend) *RenderProcessor {
	return &RenderProcessor{Backends: backends}
}

func (p *RenderProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	// If previous steps failed, don't render anything
	if ctx.Decls == nil || ctx.Failed() {
		return ctx
	}

	var files []pipeline.GeneratedFile
	for _, b := range p.Backends {
		out, err := b.Render(ctx)
		if err != nil {
			ctx.Errors = append(ctx.Errors, fmt.Errorf("%s backend: type %s: %w", b.Name(), ctx.Spec.Name, err))
			continue
		}
		if len(out) == 0 {
			ctx.Logger.Debug("backend skipped type", zap.String("backend", b.Name()), zap.String("type", ctx.Spec.Name))
		}
		files = append(files, out...)
	}

	// A type is written completely or not at all.
	if !ctx.Failed() {
		ctx.Files = files
	}
	return ctx
}
