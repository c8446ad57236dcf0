// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns Word documents into Markdown through an automation
// host. It walks paragraphs and then tables, exports inline images next to
// the Markdown file, and drives single-file and batch runs with the
// host-restart retry policy.
package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/doc2md/internal/automation"
	"github.com/pdiddy/doc2md/internal/markdown"
	"github.com/pdiddy/doc2md/internal/raster"
	"github.com/pdiddy/doc2md/pkg/types"
)

// Reporter receives progress and diagnostics. ui.Printer implements it.
type Reporter interface {
	Progressf(format string, args ...any)
	Detailf(format string, args ...any)
	Successf(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	Separator(ch string)
	Summary(converted, failed int)
	FailureTable(docs []types.Document)
	Result(source string, err error)
}

// Options control a Converter.
type Options struct {
	// Optimize runs markdown.Normalize on the generated text.
	Optimize bool

	// Frontmatter prepends a YAML header to each Markdown file.
	Frontmatter bool

	// ImageDirSuffix is appended to the Markdown file stem to name the
	// image directory.
	ImageDirSuffix string

	// RestartDelay is the wait before re-launching a faulted host.
	RestartDelay time.Duration

	// Rasterizer turns EMF fallbacks into PNG. Nil keeps EMF files.
	Rasterizer raster.Rasterizer
}

// OptionsFromConfig maps configuration onto converter options.
func OptionsFromConfig(cfg types.ConversionConfig, r raster.Rasterizer) Options {
	suffix := cfg.ImageDirSuffix
	if suffix == "" {
		suffix = types.DefaultImageDirSuffix
	}
	return Options{
		Optimize:       cfg.Optimize,
		Frontmatter:    cfg.Frontmatter,
		ImageDirSuffix: suffix,
		RestartDelay:   cfg.RestartDelay,
		Rasterizer:     r,
	}
}

// Converter converts documents one at a time.
type Converter struct {
	opts Options
	log  Reporter
	now  func() time.Time
}

// New creates a Converter.
func New(opts Options, log Reporter) *Converter {
	if opts.ImageDirSuffix == "" {
		opts.ImageDirSuffix = types.DefaultImageDirSuffix
	}
	return &Converter{opts: opts, log: log, now: time.Now}
}

// DefaultOutputPath returns src with its extension replaced by ".md".
func DefaultOutputPath(src string) string {
	if abs, err := filepath.Abs(src); err == nil {
		src = abs
	}
	return strings.TrimSuffix(src, filepath.Ext(src)) + ".md"
}

// ConvertDocument converts src to Markdown at dst using an already running
// host. The document is closed before returning on every path; the host is
// left running. It returns the number of exported images.
func (c *Converter) ConvertDocument(app automation.Application, src, dst string) (int, error) {
	src, err := filepath.Abs(src)
	if err != nil {
		return 0, fmt.Errorf("resolving %s: %w", src, err)
	}
	dst, err = filepath.Abs(dst)
	if err != nil {
		return 0, fmt.Errorf("resolving %s: %w", dst, err)
	}

	c.log.Detailf("source:      %s", src)
	c.log.Detailf("destination: %s", dst)

	doc, err := automation.OpenDocument(app, src)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := doc.Close(); cerr != nil {
			c.log.Warnf("closing %s: %v", src, cerr)
		}
	}()

	images, err := newImageExporter(dst, c.opts.ImageDirSuffix, c.opts.Rasterizer, c.log)
	if err != nil {
		return 0, err
	}

	body, err := c.transcribe(doc, images)
	if err != nil {
		return images.count(), fmt.Errorf("transcribing %s: %w", src, err)
	}

	if c.opts.Optimize {
		body = markdown.Normalize(body)
	}
	if c.opts.Frontmatter {
		body, err = c.addFrontmatter(src, images.count(), body)
		if err != nil {
			return images.count(), err
		}
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return images.count(), fmt.Errorf("creating %s: %w", filepath.Dir(dst), err)
	}
	if err := os.WriteFile(dst, []byte(body), 0o644); err != nil {
		return images.count(), fmt.Errorf("writing %s: %w", dst, err)
	}

	c.log.Successf("converted: %s", dst)
	return images.count(), nil
}

// addFrontmatter prepends YAML frontmatter to the converted Markdown content.
func (c *Converter) addFrontmatter(src string, images int, body string) (string, error) {
	fm := types.Frontmatter{
		Source:      src,
		ConvertedAt: c.now().UTC().Format(time.RFC3339),
		Images:      images,
	}
	data, err := yaml.Marshal(&fm)
	if err != nil {
		return "", fmt.Errorf("encoding frontmatter: %w", err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(data)
	b.WriteString("---\n\n")
	b.WriteString(body)
	return b.String(), nil
}
