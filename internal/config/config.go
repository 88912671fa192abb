// Package config loads refinery.yaml: the list of refinement types to
// derive, how to derive them, and where to write the results.
//
// The config package handles:
//   - Parsing and validating refinery.yaml
//   - Parsing the applicative term syntax used for argument types
//   - Converting type entries into ast.TypeDescriptor values
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/refinery/internal/ast"
)

// Config represents the top-level refinery.yaml configuration.
type Config struct {
	// Output is the directory generated files are written to, relative
	// to the config file. Defaults to ".".
	Output string `yaml:"output,omitempty"`

	// Package is the Go package name used by the Go backend.
	Package string `yaml:"package,omitempty"`

	// Cache is the path of the SQLite derivation cache, relative to the
	// config file. Defaults to ".refinery/cache.db".
	Cache string `yaml:"cache,omitempty"`

	// TextExt is the file extension of rendered declarations.
	TextExt string `yaml:"text_ext,omitempty"`

	// Types lists the refinement types to derive.
	Types []TypeSpec `yaml:"types"`

	// path is the file the config was read from.
	path string
}

// TypeSpec is a single data declaration to derive.
type TypeSpec struct {
	// Name is the type name (e.g. "UnitVector").
	Name string `yaml:"name"`

	// Params are the type's implicit parameters, in order.
	Params []ParamSpec `yaml:"params,omitempty"`

	// Constructors of the type. A refinement has exactly one; anything
	// else is reported by the shape matcher, not by validation.
	Constructors []ConstructorSpec `yaml:"constructors"`

	// Strategy is one of plain, integer, float or string.
	Strategy string `yaml:"strategy,omitempty"`

	// Go configures the Go backend. Types without it are skipped by that
	// backend.
	Go *GoSpec `yaml:"go,omitempty"`

	// Line and Column locate the entry in the config file.
	Line   int `yaml:"-"`
	Column int `yaml:"-"`
}

// ParamSpec is an implicit type parameter.
type ParamSpec struct {
	Name  string `yaml:"name"`
	Type  string `yaml:"type"`
	Count string `yaml:"count,omitempty"`
}

// ConstructorSpec is a data constructor.
type ConstructorSpec struct {
	Name string    `yaml:"name"`
	Args []ArgSpec `yaml:"args"`
}

// ArgSpec is a constructor argument: either a reference to a type
// parameter (Param) or a named argument (Type, with optional Name).
type ArgSpec struct {
	// Param is the index of the type parameter this argument stands for.
	// Mutually exclusive with Type.
	Param *int `yaml:"param,omitempty"`

	Name   string `yaml:"name,omitempty"`
	Count  string `yaml:"count,omitempty"`
	Piness string `yaml:"piness,omitempty"`

	// Type is the argument type in term syntax (see ParseTerm). "#i"
	// refers to the i-th type parameter.
	Type string `yaml:"type,omitempty"`
}

// GoSpec maps a refinement type onto Go types for the Go backend.
type GoSpec struct {
	// Type is the Go type of the raw value (e.g. "[]float64").
	Type string `yaml:"type"`

	// Witness is the Go type of the proof. Required unless the proof is
	// erased, where it defaults to struct{}.
	Witness string `yaml:"witness,omitempty"`

	// Decider is a Go expression of type refined.Decider[Type, Witness].
	Decider string `yaml:"decider"`

	// Imports are extra import specs, either "path" or "alias path".
	Imports []string `yaml:"imports,omitempty"`

	// FromInt, FromFloat and FromString name functions converting Go
	// literals (int64, float64, string) to Type. They default to a Go
	// conversion Type(lit).
	FromInt    string `yaml:"from_int,omitempty"`
	FromFloat  string `yaml:"from_float,omitempty"`
	FromString string `yaml:"from_string,omitempty"`
}

// UnmarshalYAML records the position of the entry.
func (t *TypeSpec) UnmarshalYAML(value *yaml.Node) error {
	type plain TypeSpec
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	*t = TypeSpec(p)
	t.Line, t.Column = value.Line, value.Column
	return nil
}

// LoadConfig reads and parses a refinery.yaml file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseConfig(data, path)
}

// ParseConfig parses refinery.yaml content from bytes.
// The path argument is used for error messages and to resolve relative
// output and cache paths.
func ParseConfig(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.path = path
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return &cfg, nil
}

// FindConfig searches for refinery.yaml starting from dir and walking up
// to parent directories.
// Returns the path to the config file and nil error if found,
// or empty string and nil error if not found.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		for _, name := range ConfigFileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			return "", nil
		}
		dir = parent
	}
}

// Path returns the file the config was read from.
func (c *Config) Path() string { return c.path }

// Dir returns the directory containing the config file.
func (c *Config) Dir() string { return filepath.Dir(c.path) }

// OutputDir resolves Output against the config directory.
func (c *Config) OutputDir() string { return c.resolve(c.Output) }

// CachePath resolves Cache against the config directory.
func (c *Config) CachePath() string { return c.resolve(c.Cache) }

func (c *Config) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Dir(), p)
}

// validate checks the configuration for semantic errors.
func (c *Config) validate() error {
	path := c.path
	if len(c.Types) == 0 {
		return fmt.Errorf("%s: no types defined", path)
	}

	seen := make(map[string]int)
	for i := range c.Types {
		ts := &c.Types[i]
		where := fmt.Sprintf("%s: types[%d]", path, i)
		if ts.Name == "" {
			return fmt.Errorf("%s: name is required", where)
		}
		where = fmt.Sprintf("%s (%s)", where, ts.Name)
		if !isTypeName(ts.Name) {
			return fmt.Errorf("%s: name must be an identifier", where)
		}
		if prev, ok := seen[ts.Name]; ok {
			return fmt.Errorf("%s: duplicate type name, first defined at types[%d]", where, prev)
		}
		seen[ts.Name] = i

		if ts.Strategy != "" && !isStrategy(ts.Strategy) {
			return fmt.Errorf("%s: unknown strategy %q (want one of %s)",
				where, ts.Strategy, strings.Join(StrategyNames, ", "))
		}

		for j, p := range ts.Params {
			if p.Name == "" {
				return fmt.Errorf("%s: params[%d]: name is required", where, j)
			}
			if p.Type == "" {
				return fmt.Errorf("%s: params[%d] (%s): type is required", where, j, p.Name)
			}
			if _, err := ParseTerm(p.Type); err != nil {
				return fmt.Errorf("%s: params[%d] (%s): %w", where, j, p.Name, err)
			}
			if _, err := ast.ParseCount(p.Count); err != nil {
				return fmt.Errorf("%s: params[%d] (%s): %w", where, j, p.Name, err)
			}
		}

		for j, con := range ts.Constructors {
			if con.Name == "" {
				return fmt.Errorf("%s: constructors[%d]: name is required", where, j)
			}
			for k, arg := range con.Args {
				at := fmt.Sprintf("%s: constructors[%d].args[%d]", where, j, k)
				if err := arg.validate(); err != nil {
					return fmt.Errorf("%s: %w", at, err)
				}
			}
		}

		if ts.Go != nil {
			if ts.Go.Type == "" {
				return fmt.Errorf("%s: go.type is required", where)
			}
			if ts.Go.Decider == "" {
				return fmt.Errorf("%s: go.decider is required", where)
			}
			if err := ts.Go.validateLiterals(ts.Strategy); err != nil {
				return fmt.Errorf("%s: %w", where, err)
			}
			for k, imp := range ts.Go.Imports {
				if len(strings.Fields(imp)) == 0 || len(strings.Fields(imp)) > 2 {
					return fmt.Errorf("%s: go.imports[%d]: want \"path\" or \"alias path\", got %q", where, k, imp)
				}
			}
		}
	}

	return nil
}

func (a ArgSpec) validate() error {
	if a.Param != nil {
		if a.Type != "" || a.Name != "" || a.Count != "" || a.Piness != "" {
			return fmt.Errorf("param arguments only support 'param'")
		}
		if *a.Param < 0 {
			return fmt.Errorf("param index %d is negative", *a.Param)
		}
		return nil
	}
	if a.Type == "" {
		return fmt.Errorf("one of param or type is required")
	}
	if _, err := ParseTerm(a.Type); err != nil {
		return err
	}
	if _, err := ast.ParseCount(a.Count); err != nil {
		return err
	}
	if _, err := ast.ParsePiness(a.Piness); err != nil {
		return err
	}
	return nil
}

// validateLiterals checks that every literal helper the strategy emits has
// a conversion. A plain Go conversion is only assumed for predeclared types
// that accept the literal's Go type.
func (g *GoSpec) validateLiterals(strategy string) error {
	needInt := strategy == StrategyInteger || strategy == StrategyFloat
	needFloat := strategy == StrategyFloat
	needString := strategy == StrategyString
	switch {
	case needInt && g.FromInt == "" && !goIntegerTypes[g.Type] && !goFloatTypes[g.Type]:
		return fmt.Errorf("go.from_int is required for go.type %q", g.Type)
	case needFloat && g.FromFloat == "" && !goFloatTypes[g.Type]:
		return fmt.Errorf("go.from_float is required for go.type %q", g.Type)
	case needString && g.FromString == "" && g.Type != "string":
		return fmt.Errorf("go.from_string is required for go.type %q", g.Type)
	}
	return nil
}

var goIntegerTypes = map[string]bool{
	"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"uint": true, "uint8": true, "uint16": true, "uint32": true, "uint64": true,
	"uintptr": true, "byte": true, "rune": true,
}

var goFloatTypes = map[string]bool{"float32": true, "float64": true}

// isTypeName reports whether name is a plain identifier. Type names become
// file names, so separators and dots are rejected.
func isTypeName(name string) bool {
	for i, r := range name {
		switch {
		case unicode.IsLetter(r) || r == '_':
		case i > 0 && (unicode.IsDigit(r) || r == '\''):
		default:
			return false
		}
	}
	return name != ""
}

func isStrategy(name string) bool {
	for _, s := range StrategyNames {
		if s == name {
			return true
		}
	}
	return false
}

// setDefaults fills in default values for omitted fields.
func (c *Config) setDefaults() {
	if c.Output == "" {
		c.Output = DefaultOutput
	}
	if c.Package == "" {
		c.Package = DefaultPackage
	}
	if c.Cache == "" {
		c.Cache = DefaultCache
	}
	if c.TextExt == "" {
		c.TextExt = DefaultTextExt
	}
	if !strings.HasPrefix(c.TextExt, ".") {
		c.TextExt = "." + c.TextExt
	}
	for i := range c.Types {
		if c.Types[i].Strategy == "" {
			c.Types[i].Strategy = DefaultStrategy
		}
	}
}

// Descriptor converts the entry into the type descriptor handed to the
// derivation. The config must have been validated.
func (t *TypeSpec) Descriptor(file string) (*ast.TypeDescriptor, error) {
	td := &ast.TypeDescriptor{
		Name: t.Name,
		Loc:  ast.Loc{File: file, Line: t.Line, Col: t.Column},
	}
	for _, p := range t.Params {
		typ, err := ParseTerm(p.Type)
		if err != nil {
			return nil, fmt.Errorf("type %s: param %s: %w", t.Name, p.Name, err)
		}
		count, err := ast.ParseCount(p.Count)
		if err != nil {
			return nil, fmt.Errorf("type %s: param %s: %w", t.Name, p.Name, err)
		}
		td.Params = append(td.Params, ast.Binder{Name: p.Name, Count: count, Piness: ast.Implicit, Type: typ})
	}
	for _, con := range t.Constructors {
		c := ast.Constructor{Name: con.Name}
		for _, a := range con.Args {
			arg, err := a.arg()
			if err != nil {
				return nil, fmt.Errorf("type %s: constructor %s: %w", t.Name, con.Name, err)
			}
			c.Args = append(c.Args, arg)
		}
		td.Cons = append(td.Cons, c)
	}
	return td, nil
}

func (a ArgSpec) arg() (ast.Arg, error) {
	if a.Param != nil {
		return ast.ParamArg{Index: *a.Param}, nil
	}
	typ, err := ParseTerm(a.Type)
	if err != nil {
		return nil, err
	}
	count, err := ast.ParseCount(a.Count)
	if err != nil {
		return nil, err
	}
	piness, err := ast.ParsePiness(a.Piness)
	if err != nil {
		return nil, err
	}
	arg := ast.NamedArg{Count: count, Piness: piness, Type: typ}
	if a.Name != "" {
		name := a.Name
		arg.Name = &name
	}
	return arg, nil
}
