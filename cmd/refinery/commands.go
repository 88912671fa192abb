package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/funvibe/refinery/internal/backend"
	"github.com/funvibe/refinery/internal/cache"
	"github.com/funvibe/refinery/internal/config"
	"github.com/funvibe/refinery/internal/driver"
)

func newDeriveCmd(a *app) *cobra.Command {
	var (
		format  string
		outDir  string
		noCache bool
		jobs    int
		dryRun  bool
		watch   bool
	)
	cmd := &cobra.Command{
		Use:   "derive [config]",
		Short: "Derive and write declarations for every configured type",
		Long: `Derives every type in the configuration and writes the results to the
output directory. Types that are not refinements are reported and
produce no files; the other types are still written.

Formats:
  - text: <Type><text_ext> with the refine and literal declarations
  - go:   refined_<type>.go for types with a go: section
  - both: text and go`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(args)
			if err != nil {
				return err
			}
			backends, err := backend.ForFormat(format)
			if err != nil {
				return err
			}

			opts := driver.Options{
				Backends: backends,
				OutDir:   outDir,
				Jobs:     jobs,
				Logger:   a.logger,
				DryRun:   dryRun,
			}
			if !noCache {
				c, err := cache.Open(cfg.CachePath())
				if err != nil {
					return err
				}
				defer c.Close()
				opts.Cache = c
			}

			r := newReporter(cmd.OutOrStdout(), cmd.ErrOrStderr())
			if watch {
				return a.watch(cmd.Context(), r, cfg.Path(), opts)
			}

			results, err := driver.Run(cmd.Context(), cfg, opts)
			r.results(results)
			if err != nil {
				return err
			}
			if driver.Failed(results) > 0 {
				return errFailed
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", backend.FormatBoth, "output format: text, go or both")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (overrides the config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "derive every type even if cached")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "types derived in parallel (default: number of CPUs)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "derive without writing files")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "derive again whenever the config changes")
	return cmd
}

// watch derives once, then again after every change to the config file,
// until interrupted. Failures are reported but do not stop the loop.
func (a *app) watch(ctx context.Context, r *reporter, path string, opts driver.Options) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	w, err := driver.NewWatcher(path, driver.DefaultDebounce, a.logger)
	if err != nil {
		return err
	}

	derive := func() {
		cfg, err := config.LoadConfig(path)
		if err != nil {
			fmt.Fprintf(r.errOut, "%s %s\n", r.paint(colorRed, "error:"), err)
			return
		}
		results, err := driver.Run(ctx, cfg, opts)
		r.results(results)
		if err != nil && ctx.Err() == nil {
			fmt.Fprintf(r.errOut, "%s %s\n", r.paint(colorRed, "error:"), err)
		}
	}

	derive()
	fmt.Fprintf(r.out, "watching %s\n", path)
	return w.Run(ctx, derive)
}

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check [config]",
		Short: "Check that every configured type is a refinement",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(args)
			if err != nil {
				return err
			}
			results := driver.Check(cfg, a.logger)
			newReporter(cmd.OutOrStdout(), cmd.ErrOrStderr()).results(results)
			if driver.Failed(results) > 0 {
				return errFailed
			}
			return nil
		},
	}
}

func newCacheCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the derivation cache",
	}

	openCache := func(args []string) (*cache.Cache, error) {
		cfg, err := a.loadConfig(args)
		if err != nil {
			return nil, err
		}
		return cache.Open(cfg.CachePath())
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "clean [config]",
		Short: "Remove every cached derivation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openCache(args)
			if err != nil {
				return err
			}
			defer c.Close()
			n, err := c.Clean(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d cached %s from %s\n", n, plural(n, "entry", "entries"), c.Path())
			return nil
		},
	}, &cobra.Command{
		Use:   "stats [config]",
		Short: "Show cache size and age",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openCache(args)
			if err != nil {
				return err
			}
			defer c.Close()
			st, err := c.Stats(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "cache:   %s\n", st.Path)
			fmt.Fprintf(out, "entries: %d\n", st.Entries)
			fmt.Fprintf(out, "files:   %d (%s)\n", st.Files, humanize.Bytes(uint64(st.Bytes)))
			if st.Entries > 0 {
				fmt.Fprintf(out, "oldest:  %s\n", humanize.Time(st.Oldest))
				fmt.Fprintf(out, "newest:  %s\n", humanize.Time(st.Newest))
			}
			return nil
		},
	})
	return cmd
}

func plural(n int64, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
