// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

//go:build windows

package automation

import (
	"errors"
	"fmt"
	"runtime"

	ole "github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"
)

const (
	progIDWord = "Word.Application"

	wdDoNotSaveChanges = 0
	wdAlertsNone       = 0

	hresultSFalse = 1
)

// Launch starts a hidden Word instance through COM. COM state is bound to
// the calling OS thread, so the goroutine stays locked to it until Quit.
func Launch() (Application, error) {
	runtime.LockOSThread()

	if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED); err != nil {
		var oe *ole.OleError
		if !errors.As(err, &oe) || oe.Code() != hresultSFalse {
			runtime.UnlockOSThread()
			return nil, fmt.Errorf("%w: initializing COM: %v", ErrHostUnavailable, err)
		}
	}

	unknown, err := oleutil.CreateObject(progIDWord)
	if err != nil {
		ole.CoUninitialize()
		runtime.UnlockOSThread()
		return nil, fmt.Errorf("%w: creating %s: %v", ErrHostUnavailable, progIDWord, err)
	}
	defer unknown.Release()

	word, err := unknown.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		ole.CoUninitialize()
		runtime.UnlockOSThread()
		return nil, fmt.Errorf("%w: querying IDispatch: %v", ErrHostUnavailable, err)
	}

	app := &comApp{word: word}
	if _, err := oleutil.PutProperty(word, "Visible", false); err != nil {
		app.Quit()
		return nil, comFault("Application.Visible", err)
	}
	if _, err := oleutil.PutProperty(word, "DisplayAlerts", wdAlertsNone); err != nil {
		app.Quit()
		return nil, comFault("Application.DisplayAlerts", err)
	}
	return app, nil
}

// comFault converts a go-ole error into a *Fault carrying its HRESULT.
func comFault(op string, err error) error {
	var oe *ole.OleError
	if errors.As(err, &oe) {
		return &Fault{Op: op, Code: int32(uint32(oe.Code())), Err: err}
	}
	return fmt.Errorf("%s: %w", op, err)
}

type comApp struct {
	word *ole.IDispatch
}

func (a *comApp) Open(path string) (Document, error) {
	t := &tracker{}

	docs, err := t.get(a.word, "Application.Documents", "Documents")
	if err != nil {
		t.release()
		return nil, err
	}

	// FileName, ConfirmConversions, ReadOnly, AddToRecentFiles
	v, err := oleutil.CallMethod(docs, "Open", path, false, true, false)
	if err != nil {
		t.release()
		return nil, comFault("Documents.Open", err)
	}
	disp := t.keep(v)
	if disp == nil {
		t.release()
		return nil, fmt.Errorf("Documents.Open: host returned no document for %s", path)
	}
	return &comDoc{disp: disp, t: t}, nil
}

func (a *comApp) Quit() error {
	if a.word == nil {
		return nil
	}
	_, err := oleutil.CallMethod(a.word, "Quit", wdDoNotSaveChanges)
	a.word.Release()
	a.word = nil
	ole.CoUninitialize()
	runtime.UnlockOSThread()
	if err != nil {
		return comFault("Application.Quit", err)
	}
	return nil
}

// tracker collects every dispatch obtained while a document is open so
// Close can release them in one place.
type tracker struct {
	owned []*ole.IDispatch
}

func (t *tracker) keep(v *ole.VARIANT) *ole.IDispatch {
	if v == nil || v.VT != ole.VT_DISPATCH {
		return nil
	}
	disp := v.ToIDispatch()
	if disp != nil {
		t.owned = append(t.owned, disp)
	}
	return disp
}

func (t *tracker) get(disp *ole.IDispatch, op, name string, params ...interface{}) (*ole.IDispatch, error) {
	v, err := oleutil.GetProperty(disp, name, params...)
	if err != nil {
		return nil, comFault(op, err)
	}
	child := t.keep(v)
	if child == nil {
		return nil, fmt.Errorf("%s: expected an object, got variant type %d", op, v.VT)
	}
	return child, nil
}

func (t *tracker) item(disp *ole.IDispatch, op string, params ...interface{}) (*ole.IDispatch, error) {
	v, err := oleutil.CallMethod(disp, "Item", params...)
	if err != nil {
		return nil, comFault(op, err)
	}
	child := t.keep(v)
	if child == nil {
		return nil, fmt.Errorf("%s: expected an object, got variant type %d", op, v.VT)
	}
	return child, nil
}

func (t *tracker) release() {
	for i := len(t.owned) - 1; i >= 0; i-- {
		t.owned[i].Release()
	}
	t.owned = nil
}

func getInt(disp *ole.IDispatch, op, name string) (int, error) {
	v, err := oleutil.GetProperty(disp, name)
	if err != nil {
		return 0, comFault(op, err)
	}
	defer v.Clear()
	return int(v.Val), nil
}

func getString(disp *ole.IDispatch, op, name string) (string, error) {
	v, err := oleutil.GetProperty(disp, name)
	if err != nil {
		return "", comFault(op, err)
	}
	defer v.Clear()
	return v.ToString(), nil
}

type comDoc struct {
	disp   *ole.IDispatch
	t      *tracker
	paras  *ole.IDispatch
	tables *ole.IDispatch
	closed bool
}

func (d *comDoc) ParagraphCount() (int, error) {
	if d.paras == nil {
		paras, err := d.t.get(d.disp, "Document.Paragraphs", "Paragraphs")
		if err != nil {
			return 0, fmt.Errorf("%w: paragraphs: %w", ErrNotEnumerable, err)
		}
		d.paras = paras
	}
	n, err := getInt(d.paras, "Paragraphs.Count", "Count")
	if err != nil {
		return 0, fmt.Errorf("%w: paragraphs: %w", ErrNotEnumerable, err)
	}
	return n, nil
}

func (d *comDoc) Paragraph(index int) (Paragraph, error) {
	if d.paras == nil {
		if _, err := d.ParagraphCount(); err != nil {
			return nil, err
		}
	}
	disp, err := d.t.item(d.paras, "Paragraphs.Item", index)
	if err != nil {
		return nil, err
	}
	return &comParagraph{disp: disp, t: d.t}, nil
}

func (d *comDoc) TableCount() (int, error) {
	if d.tables == nil {
		tables, err := d.t.get(d.disp, "Document.Tables", "Tables")
		if err != nil {
			return 0, fmt.Errorf("%w: tables: %w", ErrNotEnumerable, err)
		}
		d.tables = tables
	}
	n, err := getInt(d.tables, "Tables.Count", "Count")
	if err != nil {
		return 0, fmt.Errorf("%w: tables: %w", ErrNotEnumerable, err)
	}
	return n, nil
}

func (d *comDoc) Table(index int) (Table, error) {
	if d.tables == nil {
		if _, err := d.TableCount(); err != nil {
			return nil, err
		}
	}
	disp, err := d.t.item(d.tables, "Tables.Item", index)
	if err != nil {
		return nil, err
	}
	return &comTable{disp: disp, t: d.t}, nil
}

func (d *comDoc) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true

	_, err := oleutil.CallMethod(d.disp, "Close", wdDoNotSaveChanges)
	d.t.release()
	if err != nil {
		return comFault("Document.Close", err)
	}
	return nil
}

type comParagraph struct {
	disp *ole.IDispatch
	t    *tracker
	rng  *ole.IDispatch
}

func (p *comParagraph) textRange() (*ole.IDispatch, error) {
	if p.rng == nil {
		rng, err := p.t.get(p.disp, "Paragraph.Range", "Range")
		if err != nil {
			return nil, err
		}
		p.rng = rng
	}
	return p.rng, nil
}

func (p *comParagraph) Text() (string, error) {
	rng, err := p.textRange()
	if err != nil {
		return "", err
	}
	return getString(rng, "Range.Text", "Text")
}

func (p *comParagraph) StyleName() (string, error) {
	v, err := oleutil.GetProperty(p.disp, "Style")
	if err != nil {
		return "", comFault("Paragraph.Style", err)
	}
	if v.VT != ole.VT_DISPATCH {
		// Some hosts hand back the style name directly.
		defer v.Clear()
		return v.ToString(), nil
	}
	style := p.t.keep(v)
	return getString(style, "Style.NameLocal", "NameLocal")
}

func (p *comParagraph) InlineShapeCount() (int, error) {
	rng, err := p.textRange()
	if err != nil {
		return 0, err
	}
	shapes, err := p.t.get(rng, "Range.InlineShapes", "InlineShapes")
	if err != nil {
		return 0, err
	}
	return getInt(shapes, "InlineShapes.Count", "Count")
}

func (p *comParagraph) InlineShape(index int) (InlineShape, error) {
	rng, err := p.textRange()
	if err != nil {
		return nil, err
	}
	shapes, err := p.t.get(rng, "Range.InlineShapes", "InlineShapes")
	if err != nil {
		return nil, err
	}
	disp, err := p.t.item(shapes, "InlineShapes.Item", index)
	if err != nil {
		return nil, err
	}
	return &comShape{disp: disp, t: p.t}, nil
}

type comShape struct {
	disp *ole.IDispatch
	t    *tracker
}

func (s *comShape) SaveAsPicture(path string) error {
	if _, err := oleutil.CallMethod(s.disp, "SaveAsPicture", path); err != nil {
		return comFault("InlineShape.SaveAsPicture", err)
	}
	return nil
}

func (s *comShape) MetafileBits() ([]byte, error) {
	rng, err := s.t.get(s.disp, "InlineShape.Range", "Range")
	if err != nil {
		return nil, err
	}
	v, err := oleutil.GetProperty(rng, "EnhMetaFileBits")
	if err != nil {
		return nil, comFault("Range.EnhMetaFileBits", err)
	}
	defer v.Clear()

	if v.VT&ole.VT_ARRAY == 0 {
		return nil, fmt.Errorf("Range.EnhMetaFileBits: expected a byte array, got variant type %d", v.VT)
	}
	data := v.ToArray().ToByteArray()
	if len(data) == 0 {
		return nil, errors.New("Range.EnhMetaFileBits: empty metafile")
	}
	return data, nil
}

type comTable struct {
	disp *ole.IDispatch
	t    *tracker
}

func (tb *comTable) RowCount() (int, error) {
	rows, err := tb.t.get(tb.disp, "Table.Rows", "Rows")
	if err != nil {
		return 0, err
	}
	return getInt(rows, "Rows.Count", "Count")
}

func (tb *comTable) ColumnCount() (int, error) {
	cols, err := tb.t.get(tb.disp, "Table.Columns", "Columns")
	if err != nil {
		return 0, err
	}
	return getInt(cols, "Columns.Count", "Count")
}

func (tb *comTable) CellText(row, col int) (string, error) {
	v, err := oleutil.CallMethod(tb.disp, "Cell", row, col)
	if err != nil {
		return "", comFault("Table.Cell", err)
	}
	cell := tb.t.keep(v)
	if cell == nil {
		return "", fmt.Errorf("Table.Cell(%d, %d): host returned no cell", row, col)
	}
	rng, err := tb.t.get(cell, "Cell.Range", "Range")
	if err != nil {
		return "", err
	}
	return getString(rng, "Range.Text", "Text")
}
