package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/funvibe/refinery/internal/config"
	"github.com/funvibe/refinery/internal/logging"
)

// errFailed is returned after failures were already reported.
var errFailed = errors.New("derivation failed")

// app holds the state shared by all subcommands.
type app struct {
	// Global flags
	configPath string
	verbose    bool

	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "refinery",
		Short: "Derive constructors for refinement types",
		Long: `refinery reads refinement types (a value paired with a proof about it)
from refinery.yaml and derives their companion declarations: a total
refine function and, optionally, integer, float and string literal
conversions. Output is declaration text, Go source, or both.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New(a.verbose)
			if err != nil {
				return err
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "path to refinery.yaml (default: search upwards from the working directory)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newDeriveCmd(a), newCheckCmd(a), newCacheCmd(a))
	return root
}

// loadConfig reads the config named by --config, a positional argument,
// or found by walking up from the working directory.
func (a *app) loadConfig(args []string) (*config.Config, error) {
	path := a.configPath
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		found, err := config.FindConfig(wd)
		if err != nil {
			return nil, err
		}
		if found == "" {
			return nil, fmt.Errorf("no %s found in %s or any parent directory", config.ConfigFileNames[0], wd)
		}
		path = found
	}
	a.logger.Debug("loading config", zap.String("path", path))
	return config.LoadConfig(path)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}
		os.Exit(1)
	}
}
