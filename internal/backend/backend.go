// Package backend renders derived declarations into output files.
// This allows emitting the same derivation as declaration text, as Go
// source, or both.
package backend

import (
	"fmt"
	"strings"

	"github.com/funvibe/refinery/internal/pipeline"
)

// Backend is the interface for output backends
type Backend interface {
	// Render produces the files for one derived type. A backend that has
	// nothing to emit for the type returns no files and no error.
	Render(ctx *pipeline.PipelineContext) ([]pipeline.GeneratedFile, error)

	// Name returns the backend name for display
	Name() string
}

// Format names accepted by ForFormat.
const (
	FormatText = "text"
	FormatGo   = "go"
	FormatBoth = "both"
)

// ForFormat returns the backends selected by a --format value.
func ForFormat(format string) ([]Backend, error) {
	switch strings.ToLower(format) {
	case FormatText:
		return []Backend{NewTextBackend()}, nil
	case FormatGo:
		return []Backend{NewGoBackend()}, nil
	case FormatBoth, "":
		return []Backend{NewTextBackend(), NewGoBackend()}, nil
	}
	return nil, fmt.Errorf("unknown format %q (want %s, %s or %s)", format, FormatText, FormatGo, FormatBoth)
}

// Names lists the backend names, for cache keys and logging.
func Names(backends []Backend) []string {
	names := make([]string, len(backends))
	for i, b := range backends {
		names[i] = b.Name()
	}
	return names
}
