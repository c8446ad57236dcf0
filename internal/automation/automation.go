// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package automation drives an installed word processor through its
// automation interface. The Application, Document and element interfaces
// mirror the small slice of the Word object model doc2md reads; the COM
// adapter that backs them is only built on Windows.
package automation

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

var (
	// ErrHostUnavailable reports that no automatable word processor could be
	// started on this machine.
	ErrHostUnavailable = errors.New("automation host unavailable")

	// ErrNotEnumerable reports that a document collection (paragraphs,
	// tables) could not be enumerated. The host returns this for stale
	// references, so it is treated as transient.
	ErrNotEnumerable = errors.New("collection does not support enumeration")
)

// Application is a running automation host.
type Application interface {
	// Open opens the document at path read-only, without conversion prompts
	// and without adding it to the recent-files list.
	Open(path string) (Document, error)

	// Quit shuts the host down. Open documents are discarded.
	Quit() error
}

// Document is an open source document. Indexes are 1-based, matching the
// host's collections.
type Document interface {
	ParagraphCount() (int, error)
	Paragraph(index int) (Paragraph, error)
	TableCount() (int, error)
	Table(index int) (Table, error)

	// Close discards changes and releases the document without quitting the
	// application. Calling Close more than once is a no-op.
	Close() error
}

// Paragraph is one paragraph of a document.
type Paragraph interface {
	// Text returns the raw paragraph text including the trailing paragraph mark.
	Text() (string, error)
	// StyleName returns the localized name of the paragraph style.
	StyleName() (string, error)
	InlineShapeCount() (int, error)
	InlineShape(index int) (InlineShape, error)
}

// InlineShape is an image embedded in a paragraph's text flow.
type InlineShape interface {
	// SaveAsPicture asks the host to write the image as a raster file.
	// Hosts that lack the capability return an error.
	SaveAsPicture(path string) error
	// MetafileBits returns the enhanced metafile representation of the shape.
	MetafileBits() ([]byte, error)
}

// Table is one table of a document.
type Table interface {
	RowCount() (int, error)
	ColumnCount() (int, error)
	// CellText returns the raw cell text including the end-of-cell marker.
	CellText(row, col int) (string, error)
}

// Launcher starts a new automation host.
type Launcher func() (Application, error)

// OpenDocument opens path in app. It fails with an error wrapping
// fs.ErrNotExist, without touching the host, when path does not exist.
func OpenDocument(app Application, path string) (Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("file not found: %s: %w", path, fs.ErrNotExist)
		}
		return nil, fmt.Errorf("checking %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not a document", path)
	}

	doc, err := app.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return doc, nil
}
