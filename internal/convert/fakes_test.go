// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/fatih/color"

	"github.com/pdiddy/doc2md/internal/automation"
	"github.com/pdiddy/doc2md/internal/ui"
	"github.com/pdiddy/doc2md/pkg/types"
)

func init() {
	color.NoColor = true
}

// fakeParagraph implements automation.Paragraph with canned values.
type fakeParagraph struct {
	text     string
	style    string
	shapes   []*fakeShape
	textErr  error
	styleErr error
	countErr error
}

func (p *fakeParagraph) Text() (string, error)      { return p.text, p.textErr }
func (p *fakeParagraph) StyleName() (string, error) { return p.style, p.styleErr }

func (p *fakeParagraph) InlineShapeCount() (int, error) {
	if p.countErr != nil {
		return 0, p.countErr
	}
	return len(p.shapes), nil
}

func (p *fakeParagraph) InlineShape(index int) (automation.InlineShape, error) {
	if index < 1 || index > len(p.shapes) {
		return nil, fmt.Errorf("shape %d out of range", index)
	}
	s := p.shapes[index-1]
	if s == nil {
		return nil, errors.New("shape vanished")
	}
	return s, nil
}

// fakeShape writes a PNG on SaveAsPicture unless saveErr is set.
type fakeShape struct {
	saveErr error
	emf     []byte
	emfErr  error
}

func (s *fakeShape) SaveAsPicture(path string) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	return os.WriteFile(path, []byte("png"), 0o644)
}

func (s *fakeShape) MetafileBits() ([]byte, error) {
	if s.emfErr != nil {
		return nil, s.emfErr
	}
	return s.emf, nil
}

// fakeTable implements automation.Table. cells are indexed [row][col].
type fakeTable struct {
	cells    [][]string
	cellErrs map[[2]int]error
	rowsErr  error
}

func (t *fakeTable) RowCount() (int, error) {
	if t.rowsErr != nil {
		return 0, t.rowsErr
	}
	return len(t.cells), nil
}

func (t *fakeTable) ColumnCount() (int, error) {
	if len(t.cells) == 0 {
		return 0, nil
	}
	return len(t.cells[0]), nil
}

func (t *fakeTable) CellText(row, col int) (string, error) {
	if err := t.cellErrs[[2]int{row, col}]; err != nil {
		return "", err
	}
	return t.cells[row-1][col-1], nil
}

// fakeDoc implements automation.Document and counts Close calls.
type fakeDoc struct {
	paras     []*fakeParagraph
	tables    []*fakeTable
	parasErr  error
	tablesErr error
	paraErrs  map[int]error
	tableErrs map[int]error
	closes    int
}

func (d *fakeDoc) ParagraphCount() (int, error) {
	if d.parasErr != nil {
		return 0, d.parasErr
	}
	return len(d.paras), nil
}

func (d *fakeDoc) Paragraph(index int) (automation.Paragraph, error) {
	if err := d.paraErrs[index]; err != nil {
		return nil, err
	}
	return d.paras[index-1], nil
}

func (d *fakeDoc) TableCount() (int, error) {
	if d.tablesErr != nil {
		return 0, d.tablesErr
	}
	return len(d.tables), nil
}

func (d *fakeDoc) Table(index int) (automation.Table, error) {
	if err := d.tableErrs[index]; err != nil {
		return nil, err
	}
	t := d.tables[index-1]
	if t == nil {
		return nil, errors.New("table reference is stale")
	}
	return t, nil
}

func (d *fakeDoc) Close() error {
	d.closes++
	return nil
}

// fakeApp opens documents through openFunc and counts Quit calls.
type fakeApp struct {
	openFunc func(path string) (automation.Document, error)
	opened   []string
	quits    int
}

func (a *fakeApp) Open(path string) (automation.Document, error) {
	a.opened = append(a.opened, path)
	return a.openFunc(path)
}

func (a *fakeApp) Quit() error {
	a.quits++
	return nil
}

// staticApp returns an app that opens doc for every path.
func staticApp(doc *fakeDoc) *fakeApp {
	return &fakeApp{openFunc: func(string) (automation.Document, error) { return doc, nil }}
}

// sequenceLauncher hands out apps in order, one per launch.
type sequenceLauncher struct {
	apps     []*fakeApp
	launched int
	err      error
}

func (l *sequenceLauncher) launch() (automation.Application, error) {
	if l.err != nil {
		return nil, l.err
	}
	if l.launched >= len(l.apps) {
		return nil, errors.New("no more hosts")
	}
	app := l.apps[l.launched]
	l.launched++
	return app, nil
}

// fakeRasterizer writes dst unless err is set or noOutput is true.
type fakeRasterizer struct {
	err      error
	noOutput bool
	calls    int
}

func (r *fakeRasterizer) Name() string    { return "fake" }
func (r *fakeRasterizer) Available() bool { return true }

func (r *fakeRasterizer) Rasterize(src, dst string) error {
	r.calls++
	if r.err != nil {
		return r.err
	}
	if r.noOutput {
		return nil
	}
	return os.WriteFile(dst, []byte("png"), 0o644)
}

// testConverter returns a Converter reporting into buffers.
func testConverter(t *testing.T, opts Options, v types.Verbosity) (*Converter, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	return New(opts, ui.NewPrinterWithWriters(&out, &errOut, v)), &out, &errOut
}

// writeSource creates an empty source document so OpenDocument finds it.
func writeSource(t *testing.T, path string) string {
	t.Helper()
	if err := os.WriteFile(path, []byte("doc"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func para(style, text string) *fakeParagraph {
	return &fakeParagraph{style: style, text: text + "\r"}
}
