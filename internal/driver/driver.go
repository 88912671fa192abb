// Package driver derives every type of a configuration and writes the
// results. Types are independent, so they are derived in parallel.
package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/funvibe/refinery/internal/ast"
	"github.com/funvibe/refinery/internal/backend"
	"github.com/funvibe/refinery/internal/cache"
	"github.com/funvibe/refinery/internal/config"
	"github.com/funvibe/refinery/internal/derive"
	"github.com/funvibe/refinery/internal/pipeline"
)

// Options control a Run.
type Options struct {
	// Backends render the derived declarations. Defaults to text and Go.
	Backends []backend.Backend

	// OutDir overrides the configured output directory.
	OutDir string

	// Jobs bounds the number of types derived at once. Defaults to
	// GOMAXPROCS.
	Jobs int

	// Cache, when set, is consulted before deriving and updated after.
	Cache *cache.Cache

	Logger *zap.Logger

	// DryRun derives without writing files.
	DryRun bool
}

// Result is the outcome for one configured type.
type Result struct {
	Type   string
	Files  []pipeline.GeneratedFile
	Decls  []ast.Decl // nil when served from the cache
	Cached bool
	Err    error
}

// Failed counts results with an error.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}

func (o *Options) setDefaults() {
	if len(o.Backends) == 0 {
		o.Backends = []backend.Backend{backend.NewTextBackend(), backend.NewGoBackend()}
	}
	if o.Jobs <= 0 {
		o.Jobs = runtime.GOMAXPROCS(0)
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
}

// Run derives every type in cfg and writes the files of the types that
// succeeded. Results are in configuration order. A type that fails is
// reported in its Result and writes nothing. The returned error is for
// cancellation and I/O failures only.
func Run(ctx context.Context, cfg *config.Config, opts Options) ([]Result, error) {
	opts.setDefaults()
	names := backend.Names(opts.Backends)
	derivation := pipeline.New(
		&derive.DescriptorProcessor{},
		&derive.MatchProcessor{},
		&derive.SynthesizeProcessor{},
		backend.NewRenderProcessor(opts.Backends...),
	)

	results := make([]Result, len(cfg.Types))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Jobs)
	for i := range cfg.Types {
		spec := &cfg.Types[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = deriveOne(gctx, cfg, spec, derivation, names, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	checkCollisions(results)

	if opts.DryRun {
		return results, nil
	}
	outDir := opts.OutDir
	if outDir == "" {
		outDir = cfg.OutputDir()
	}
	if err := write(outDir, results, opts.Logger); err != nil {
		return results, err
	}
	return results, nil
}

func deriveOne(ctx context.Context, cfg *config.Config, spec *config.TypeSpec, derivation *pipeline.Pipeline, backends []string, opts Options) Result {
	log := opts.Logger.With(zap.String("type", spec.Name), zap.String("strategy", spec.Strategy))
	res := Result{Type: spec.Name}

	var key string
	if opts.Cache != nil {
		k, err := cache.Key(cfg, spec, backends)
		if err != nil {
			log.Warn("cache key", zap.Error(err))
		} else {
			key = k
			files, ok, err := opts.Cache.Lookup(ctx, key)
			switch {
			case err != nil:
				log.Warn("cache lookup failed", zap.Error(err))
			case ok:
				log.Debug("cache hit", zap.Int("files", len(files)))
				res.Files, res.Cached = files, true
				return res
			}
		}
	}

	pctx := pipeline.NewPipelineContext(cfg, spec)
	pctx.Logger = log
	pctx = derivation.Run(pctx)
	if pctx.Failed() {
		res.Err = errors.Join(pctx.Errors...)
		log.Debug("derivation failed", zap.Error(res.Err))
		return res
	}
	res.Decls, res.Files = pctx.Decls, pctx.Files
	log.Info("derived", zap.Int("decls", len(res.Decls)), zap.Int("files", len(res.Files)))

	if key != "" {
		if err := opts.Cache.Store(ctx, key, spec.Name, res.Files); err != nil {
			log.Warn("cache store failed", zap.Error(err))
		}
	}
	return res
}

// checkCollisions fails a type whose output file name was already claimed
// by an earlier type.
func checkCollisions(results []Result) {
	owner := make(map[string]string)
	for i := range results {
		r := &results[i]
		if r.Err != nil {
			continue
		}
		for _, f := range r.Files {
			if prev, ok := owner[f.Filename]; ok {
				r.Err = fmt.Errorf("type %s: output file %s is also written by type %s", r.Type, f.Filename, prev)
				break
			}
		}
		if r.Err != nil {
			r.Files = nil
			continue
		}
		for _, f := range r.Files {
			owner[f.Filename] = r.Type
		}
	}
}

func write(outDir string, results []Result, log *zap.Logger) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		for _, f := range r.Files {
			path := filepath.Join(outDir, f.Filename)
			if err := os.WriteFile(path, []byte(f.Content), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}
			log.Debug("wrote file", zap.String("path", path))
		}
	}
	return nil
}

// Check runs the shape matcher on every type without synthesizing or
// writing anything.
func Check(cfg *config.Config, logger *zap.Logger) []Result {
	if logger == nil {
		logger = zap.NewNop()
	}
	check := pipeline.New(&derive.DescriptorProcessor{}, &derive.MatchProcessor{})
	results := make([]Result, len(cfg.Types))
	for i := range cfg.Types {
		spec := &cfg.Types[i]
		ctx := pipeline.NewPipelineContext(cfg, spec)
		ctx.Logger = logger.With(zap.String("type", spec.Name))
		ctx = check.Run(ctx)
		results[i] = Result{Type: spec.Name, Err: errors.Join(ctx.Errors...)}
	}
	return results
}
