package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/funvibe/refinery/internal/driver"
)

const (
	colorReset = "\x1b[0m"
	colorRed   = "\x1b[31m"
	colorGreen = "\x1b[32m"
	colorDim   = "\x1b[2m"
)

// reporter prints one line per derived type. Failures go to errOut.
type reporter struct {
	out, errOut io.Writer
	color       bool
}

func newReporter(out, errOut io.Writer) *reporter {
	return &reporter{out: out, errOut: errOut, color: colorEnabled(errOut)}
}

// colorEnabled reports whether w is a terminal that accepts ANSI colors.
func colorEnabled(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (r *reporter) paint(color, s string) string {
	if !r.color {
		return s
	}
	return color + s + colorReset
}

func (r *reporter) results(results []driver.Result) {
	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			fmt.Fprintf(r.errOut, "%s %s\n", r.paint(colorRed, "error:"), res.Err)
			continue
		}
		line := fmt.Sprintf("%s %s", r.paint(colorGreen, "ok"), res.Type)
		switch {
		case res.Cached:
			line += r.paint(colorDim, fmt.Sprintf(" (%d files, cached)", len(res.Files)))
		case res.Decls != nil:
			line += fmt.Sprintf(" (%d declarations, %d files)", len(res.Decls), len(res.Files))
		}
		fmt.Fprintln(r.out, line)
	}
	if failed > 0 {
		fmt.Fprintf(r.errOut, "%d of %d types failed\n", failed, len(results))
	}
}
