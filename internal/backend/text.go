package backend

import (
	"github.com/funvibe/refinery/internal/pipeline"
	"github.com/funvibe/refinery/internal/prettyprinter"
)

// TextBackend writes the declarations as source text, one namespace per
// type.
type TextBackend struct{}

func NewTextBackend() *TextBackend {
	return &TextBackend{}
}

func (b *TextBackend) Name() string {
	return FormatText
}

func (b *TextBackend) Render(ctx *pipeline.PipelineContext) ([]pipeline.GeneratedFile, error) {
	return []pipeline.GeneratedFile{{
		Filename: ctx.Spec.Name + ctx.Config.TextExt,
		Content:  prettyprinter.Render(ctx.Spec.Name, ctx.Decls),
	}}, nil
}
