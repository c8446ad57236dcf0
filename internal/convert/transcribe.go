// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"strings"

	"github.com/pdiddy/doc2md/internal/automation"
	"github.com/pdiddy/doc2md/internal/markdown"
)

// transcribe renders every paragraph and then every table of doc. A failing
// paragraph or table is reported and skipped. A collection that cannot be
// enumerated, or a transient host fault on any element, fails the document
// so the caller can restart the host and retry.
//
// Tables are appended after all paragraphs rather than at their position in
// the document, and the text of paragraphs inside table cells also appears
// in the paragraph pass.
func (c *Converter) transcribe(doc automation.Document, images *imageExporter) (string, error) {
	var b strings.Builder

	paras, err := doc.ParagraphCount()
	if err != nil {
		return "", fmt.Errorf("reading paragraphs: %w", err)
	}
	for i := 1; i <= paras; i++ {
		if err := c.transcribeParagraph(&b, doc, i, images); err != nil {
			if automation.IsTransient(err) {
				return "", fmt.Errorf("reading paragraph %d: %w", i, err)
			}
			c.log.Warnf("skipped paragraph %d: %v", i, err)
		}
	}

	tables, err := doc.TableCount()
	if err != nil {
		return "", fmt.Errorf("reading tables: %w", err)
	}
	for i := 1; i <= tables; i++ {
		if err := c.transcribeTable(&b, doc, i); err != nil {
			if automation.IsTransient(err) {
				return "", fmt.Errorf("reading table %d: %w", i, err)
			}
			c.log.Warnf("skipped table %d: %v", i, err)
		}
	}

	return b.String(), nil
}

// transcribeParagraph writes the paragraph's text, as a heading or body
// text, followed by its inline images. Text and images are handled
// independently so an image-only paragraph still yields its images.
func (c *Converter) transcribeParagraph(b *strings.Builder, doc automation.Document, index int, images *imageExporter) error {
	p, err := doc.Paragraph(index)
	if err != nil {
		return err
	}

	raw, err := p.Text()
	if err != nil {
		return fmt.Errorf("reading text: %w", err)
	}
	text := strings.TrimSpace(raw)

	shapes, err := p.InlineShapeCount()
	if err != nil {
		shapes = 0
	}

	if text != "" {
		style, err := p.StyleName()
		if err != nil {
			style = ""
		}
		if level, ok := markdown.HeadingLevel(style); ok {
			b.WriteString(markdown.Heading(level, text))
		} else {
			b.WriteString(markdown.Paragraph(text))
		}
	}

	for j := 1; j <= shapes; j++ {
		shape, err := p.InlineShape(j)
		if err != nil {
			c.log.Warnf("skipped image %d of paragraph %d: %v", j, index, err)
			continue
		}
		ref, err := images.export(shape)
		if err != nil {
			c.log.Warnf("skipped image %d of paragraph %d: %v", j, index, err)
			continue
		}
		b.WriteString(ref)
	}
	return nil
}

// transcribeTable writes a pipe table surrounded by blank lines. Tables
// with no rows or columns are ignored. Unreadable cells render empty.
func (c *Converter) transcribeTable(b *strings.Builder, doc automation.Document, index int) error {
	t, err := doc.Table(index)
	if err != nil {
		return err
	}
	rows, err := t.RowCount()
	if err != nil {
		return fmt.Errorf("counting rows: %w", err)
	}
	cols, err := t.ColumnCount()
	if err != nil {
		return fmt.Errorf("counting columns: %w", err)
	}
	if rows == 0 || cols == 0 {
		return nil
	}

	var tb strings.Builder
	tb.WriteString("\n")
	for r := 1; r <= rows; r++ {
		cells := make([]string, cols)
		for col := 1; col <= cols; col++ {
			raw, err := t.CellText(r, col)
			if err != nil {
				continue
			}
			cells[col-1] = markdown.CellText(raw)
		}
		tb.WriteString(markdown.TableRow(cells))
		if r == 1 {
			tb.WriteString(markdown.SeparatorRow(cols))
		}
	}
	tb.WriteString("\n")

	b.WriteString(tb.String())
	return nil
}
