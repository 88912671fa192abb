package derive

import (
	"go.uber.org/zap"

	"github.com/funvibe/refinery/internal/pipeline"
)

// DescriptorProcessor converts the configured type into a descriptor.
type DescriptorProcessor struct{}

func (dp *DescriptorProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Spec == nil || ctx.Failed() {
		return ctx
	}
	td, err := ctx.Spec.Descriptor(ctx.FilePath)
	if err != nil {
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}
	ctx.Descriptor = td
	return ctx
}

// MatchProcessor runs the shape matcher only. It is the last stage of
// `refinery check`.
type MatchProcessor struct{}

func (mp *MatchProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Descriptor == nil || ctx.Failed() {
		return ctx
	}
	s, err := Match(ctx.Descriptor)
	if err != nil {
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}
	ctx.Shape = s
	ctx.Logger.Debug("matched refinement shape",
		zap.String("type", s.TypeName()),
		zap.String("constructor", s.Constructor()),
		zap.String("value", s.ValueName()),
		zap.Bool("erased", s.IsErased()))
	return ctx
}

// SynthesizeProcessor builds the declarations selected by the type's
// strategy from the matched shape.
type SynthesizeProcessor struct{}

func (sp *SynthesizeProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	s, ok := ctx.Shape.(*Shape)
	if !ok || ctx.Failed() {
		return ctx
	}
	st, err := Lookup(ctx.Spec.Strategy)
	if err != nil {
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}
	ctx.Decls = Synthesize(s, st.Literals)
	ctx.Logger.Debug("synthesized declarations",
		zap.String("type", s.TypeName()),
		zap.String("strategy", st.Name),
		zap.Int("decls", len(ctx.Decls)))
	return ctx
}
