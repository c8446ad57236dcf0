// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/doc2md/internal/automation"
	"github.com/pdiddy/doc2md/internal/markdown"
	"github.com/pdiddy/doc2md/internal/raster"
)

// imageExporter writes a document's inline images to
// "<markdown stem><suffix>/img_<n>.png" (or ".emf") and returns the Markdown
// references. n starts at 1 per document and advances only after an image
// was exported.
type imageExporter struct {
	dir        string
	mdDir      string
	next       int
	rasterizer raster.Rasterizer
	log        Reporter
}

func newImageExporter(mdPath, suffix string, r raster.Rasterizer, log Reporter) (*imageExporter, error) {
	mdDir := filepath.Dir(mdPath)
	stem := strings.TrimSuffix(filepath.Base(mdPath), filepath.Ext(mdPath))
	dir := filepath.Join(mdDir, stem+suffix)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating image directory %s: %w", dir, err)
	}
	return &imageExporter{dir: dir, mdDir: mdDir, next: 1, rasterizer: r, log: log}, nil
}

// count returns the number of images exported so far.
func (e *imageExporter) count() int {
	return e.next - 1
}

// export saves shape and returns its Markdown reference. The host is asked
// for a PNG first; otherwise the metafile is written and rasterized.
func (e *imageExporter) export(shape automation.InlineShape) (string, error) {
	base := fmt.Sprintf("img_%d", e.next)
	pngPath := filepath.Join(e.dir, base+".png")

	imgPath := pngPath
	if err := shape.SaveAsPicture(pngPath); err != nil || !fileExists(pngPath) {
		p, err := e.exportMetafile(shape, base, pngPath)
		if err != nil {
			return "", err
		}
		imgPath = p
	}

	rel, err := filepath.Rel(e.mdDir, imgPath)
	if err != nil {
		return "", fmt.Errorf("relative path for %s: %w", imgPath, err)
	}
	ref := markdown.Image(e.next, filepath.ToSlash(rel))
	e.next++
	return ref, nil
}

// exportMetafile writes the EMF representation and tries to rasterize it.
// It returns the PNG path on success and the EMF path when no rasterizer is
// available or it fails.
func (e *imageExporter) exportMetafile(shape automation.InlineShape, base, pngPath string) (string, error) {
	bits, err := shape.MetafileBits()
	if err != nil {
		return "", fmt.Errorf("reading metafile: %w", err)
	}

	emfPath := filepath.Join(e.dir, base+".emf")
	if err := os.WriteFile(emfPath, bits, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", emfPath, err)
	}

	if e.rasterizer == nil {
		return emfPath, nil
	}
	if err := e.rasterizer.Rasterize(emfPath, pngPath); err != nil {
		e.log.Detailf("keeping %s: %v", filepath.Base(emfPath), err)
		return emfPath, nil
	}
	if !fileExists(pngPath) {
		e.log.Detailf("keeping %s: %s produced no PNG", filepath.Base(emfPath), e.rasterizer.Name())
		return emfPath, nil
	}

	_ = os.Remove(emfPath)
	return pngPath, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
