// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ui

import (
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/pdiddy/doc2md/pkg/types"
)

// FailureTable lists failed documents with their attempt count and last
// error. It prints only in verbose mode and only when something failed.
func (p *Printer) FailureTable(docs []types.Document) {
	if p.verbosity < types.VerbosityVerbose || len(docs) == 0 {
		return
	}

	writer := table.NewWriter()
	writer.SetOutputMirror(p.errOut)
	writer.SetStyle(table.StyleRounded)
	writer.AppendHeader(table.Row{"SOURCE", "ATTEMPTS", "ERROR"})

	for _, d := range docs {
		errText := ""
		if d.Err != nil {
			errText = d.Err.Error()
		}
		writer.AppendRow(table.Row{d.Source, d.Attempts, errText})
	}

	writer.Render()
}
