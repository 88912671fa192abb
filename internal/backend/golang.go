package backend

import (
	"fmt"
	"go/token"
	"sort"
	"strconv"
	"strings"
	"text/template"

	"golang.org/x/tools/imports"

	"github.com/funvibe/refinery/internal/ast"
	"github.com/funvibe/refinery/internal/config"
	"github.com/funvibe/refinery/internal/derive"
	"github.com/funvibe/refinery/internal/pipeline"
)

// RuntimeImportPath is the package generated Go code depends on.
const RuntimeImportPath = "github.com/funvibe/refinery/pkg/refined"

// GoBackend emits a Go rendition of the derived declarations: a struct
// holding the value and its witness, a Refine constructor backed by the
// configured decider, and literal helpers.
type GoBackend struct{}

func NewGoBackend() *GoBackend {
	return &GoBackend{}
}

func (b *GoBackend) Name() string {
	return FormatGo
}

// goLiteral describes one literal helper.
type goLiteral struct {
	Suffix  string // FromInt, FromFloat, FromString
	GoLit   string // int64, float64, string
	Convert string // conversion from GoLit to the raw type
}

type goFileContext struct {
	Package   string
	Name      string
	GoType    string
	Witness   string
	Decider   string
	Erased    bool
	ValueType string
	Predicate string
	Imports   []importEntry
	Literals  []goLiteral
}

type importEntry struct {
	Path  string
	Alias string
}

func (b *GoBackend) Render(ctx *pipeline.PipelineContext) ([]pipeline.GeneratedFile, error) {
	spec := ctx.Spec.Go
	if spec == nil {
		return nil, nil
	}
	s, ok := ctx.Shape.(*derive.Shape)
	if !ok {
		return nil, fmt.Errorf("no matched shape")
	}
	if !token.IsIdentifier(s.TypeName()) {
		return nil, fmt.Errorf("%q is not a valid Go identifier", s.TypeName())
	}

	terms := derive.Extract(s)
	fc := &goFileContext{
		Package:   ctx.Config.Package,
		Name:      s.TypeName(),
		GoType:    spec.Type,
		Witness:   spec.Witness,
		Decider:   spec.Decider,
		Erased:    terms.Erased,
		ValueType: ast.Format(terms.ValueType),
		Predicate: ast.Format(terms.Predicate),
	}
	if fc.Witness == "" {
		if !fc.Erased {
			return nil, fmt.Errorf("go.witness is required when the proof is not erased")
		}
		fc.Witness = "struct{}"
	}

	imps, err := parseImports(spec.Imports)
	if err != nil {
		return nil, err
	}
	fc.Imports = imps

	for _, d := range ctx.Decls {
		if lit, ok := literalFor(d.Name(), spec); ok {
			fc.Literals = append(fc.Literals, lit)
		}
	}

	src, err := fc.render()
	if err != nil {
		return nil, err
	}
	return []pipeline.GeneratedFile{{
		Filename: "refined_" + strings.ToLower(s.TypeName()) + ".go",
		Content:  src,
	}}, nil
}

// literalFor maps a synthesized literal conversion onto its Go helper.
func literalFor(decl string, spec *config.GoSpec) (goLiteral, bool) {
	var lit goLiteral
	var conv string
	switch decl {
	case config.FromIntegerFuncName:
		lit, conv = goLiteral{Suffix: "FromInt", GoLit: "int64"}, spec.FromInt
	case config.FromDoubleFuncName:
		lit, conv = goLiteral{Suffix: "FromFloat", GoLit: "float64"}, spec.FromFloat
	case config.FromStringFuncName:
		lit, conv = goLiteral{Suffix: "FromString", GoLit: "string"}, spec.FromString
	default:
		return goLiteral{}, false
	}
	if conv == "" {
		// Config validation only leaves from_* unset for predeclared types.
		conv = spec.Type
	}
	lit.Convert = conv
	return lit, true
}

// parseImports turns "path" or "alias path" specs into sorted entries,
// always including the runtime package.
func parseImports(specs []string) ([]importEntry, error) {
	seen := map[string]bool{RuntimeImportPath: true}
	entries := []importEntry{{Path: RuntimeImportPath}}
	for _, spec := range specs {
		var e importEntry
		switch f := strings.Fields(spec); len(f) {
		case 1:
			e.Path = f[0]
		case 2:
			e.Alias, e.Path = f[0], f[1]
		default:
			return nil, fmt.Errorf("bad import %q", spec)
		}
		if p, err := strconv.Unquote(e.Path); err == nil {
			e.Path = p
		}
		if seen[e.Path] {
			continue
		}
		seen[e.Path] = true
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Path < entries[j].Path
	})
	return entries, nil
}

// render executes the template and formats the result.
func (fc *goFileContext) render() (string, error) {
	tmpl, err := template.New("refined").Parse(goFileTemplate)
	if err != nil {
		return "", fmt.Errorf("parsing template: %w", err)
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, fc); err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}

	out, err := imports.Process(fc.Name+".go", []byte(buf.String()), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return "", fmt.Errorf("formatting generated code: %w", err)
	}
	return string(out), nil
}

const goFileTemplate = `// Code generated by refinery. DO NOT EDIT.

package {{.Package}}

import (
{{- range .Imports}}
{{- if .Alias}}
	{{.Alias}} "{{.Path}}"
{{- else}}
	"{{.Path}}"
{{- end}}
{{- end}}
)

// {{.Name}} is a value of type {{.ValueType}} for which {{.Predicate}} holds.
// Values are only built by Refine{{.Name}}.
type {{.Name}} struct {
	value {{.GoType}}
{{- if not .Erased}}
	proof {{.Witness}}
{{- end}}
}

// Value returns the raw value.
func (r {{.Name}}) Value() {{.GoType}} {
	return r.value
}
{{- if not .Erased}}

// Proof returns the evidence that {{.Predicate}} holds for the value.
func (r {{.Name}}) Proof() {{.Witness}} {
	return r.proof
}
{{- end}}

// Refine{{.Name}} decides {{.Predicate}} for raw and wraps it on success.
func Refine{{.Name}}(raw {{.GoType}}) ({{.Name}}, bool) {
{{- if .Erased}}
	return refined.RefineErased[{{.GoType}}, {{.Witness}}, {{.Name}}]({{.Decider}}, func(v {{.GoType}}) {{.Name}} {
		return {{.Name}}{value: v}
	}, raw)
{{- else}}
	return refined.Refine[{{.GoType}}, {{.Witness}}, {{.Name}}]({{.Decider}}, func(v {{.GoType}}, w {{.Witness}}) {{.Name}} {
		return {{.Name}}{value: v, proof: w}
	}, raw)
{{- end}}
}
{{- range .Literals}}

// {{$.Name}}{{.Suffix}} refines a literal known to satisfy {{$.Predicate}}.
// It panics with *refined.LiteralError otherwise.
func {{$.Name}}{{.Suffix}}(lit {{.GoLit}}) {{$.Name}} {
	r, ok := Refine{{$.Name}}({{.Convert}}(lit))
	return refined.MustLiteral(r, ok, lit)
}
{{- end}}
`
