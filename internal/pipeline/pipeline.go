package pipeline

import "go.uber.org/zap"

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the pipeline.
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	if ctx.Logger == nil {
		ctx.Logger = zap.NewNop()
	}
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
		// Continue on errors; later stages check ctx.Errors themselves so
		// that `check` can report every failing stage.
	}
	return ctx
}
