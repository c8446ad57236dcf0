// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ui prints conversion progress, warnings and summaries to the
// console, gated by the configured verbosity.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/pdiddy/doc2md/pkg/types"
)

const separatorWidth = 60

type styles struct {
	green  *color.Color
	red    *color.Color
	yellow *color.Color
	dim    *color.Color
	bold   *color.Color
}

func newStyles() styles {
	return styles{
		green:  color.New(color.FgGreen),
		red:    color.New(color.FgRed),
		yellow: color.New(color.FgYellow),
		dim:    color.New(color.Faint),
		bold:   color.New(color.Bold),
	}
}

// Printer writes progress to out and diagnostics to errOut. Progress lines
// respect the verbosity; warnings, errors and summaries are always shown.
type Printer struct {
	out       io.Writer
	errOut    io.Writer
	verbosity types.Verbosity
	s         styles
}

// NewPrinter creates a Printer on stdout and stderr.
func NewPrinter(v types.Verbosity) *Printer {
	return NewPrinterWithWriters(os.Stdout, os.Stderr, v)
}

// NewPrinterWithWriters creates a Printer on the given writers.
func NewPrinterWithWriters(out, errOut io.Writer, v types.Verbosity) *Printer {
	return &Printer{out: out, errOut: errOut, verbosity: v, s: newStyles()}
}

// Verbosity returns the printer's verbosity.
func (p *Printer) Verbosity() types.Verbosity {
	return p.verbosity
}

// Progressf prints a progress line at normal verbosity and above.
func (p *Printer) Progressf(format string, args ...any) {
	if p.verbosity < types.VerbosityNormal {
		return
	}
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Detailf prints a line only in verbose mode.
func (p *Printer) Detailf(format string, args ...any) {
	if p.verbosity < types.VerbosityVerbose {
		return
	}
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Successf prints a green confirmation only in verbose mode.
func (p *Printer) Successf(format string, args ...any) {
	if p.verbosity < types.VerbosityVerbose {
		return
	}
	fmt.Fprintf(p.out, "%s %s\n", p.s.green.Sprint("✓"), fmt.Sprintf(format, args...))
}

// Warnf prints a warning to the diagnostic stream.
func (p *Printer) Warnf(format string, args ...any) {
	fmt.Fprintf(p.errOut, "%s %s\n", p.s.yellow.Sprint("warning:"), fmt.Sprintf(format, args...))
}

// Errorf prints an error to the diagnostic stream.
func (p *Printer) Errorf(format string, args ...any) {
	fmt.Fprintf(p.errOut, "%s %s\n", p.s.red.Sprint("error:"), fmt.Sprintf(format, args...))
}

// Noticef prints an informational line regardless of verbosity.
func (p *Printer) Noticef(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Separator prints a rule of ch at normal verbosity and above.
func (p *Printer) Separator(ch string) {
	if p.verbosity < types.VerbosityNormal {
		return
	}
	fmt.Fprintln(p.out, p.s.dim.Sprint(strings.Repeat(ch, separatorWidth)))
}

// Summary prints the final batch line. It is shown at every verbosity.
func (p *Printer) Summary(converted, failed int) {
	total := converted + failed
	failedText := fmt.Sprintf("%d failed", failed)
	if failed > 0 {
		failedText = p.s.red.Sprint(failedText)
	}
	fmt.Fprintf(p.out, "%s %s converted, %s (total: %d)\n",
		p.s.bold.Sprint("Batch summary:"),
		p.s.green.Sprint(converted),
		failedText,
		total,
	)
}

// Result prints the outcome of a single-file conversion.
func (p *Printer) Result(source string, err error) {
	if err != nil {
		fmt.Fprintf(p.errOut, "%s %s: %v\n", p.s.red.Sprint("✗ failed:"), source, err)
		return
	}
	fmt.Fprintf(p.out, "%s %s\n", p.s.green.Sprint("✓ converted:"), source)
}
