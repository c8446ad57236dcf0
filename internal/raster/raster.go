// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package raster detects and runs an external command-line tool that turns
// Enhanced Metafile (EMF) images into PNG files.
package raster

import (
	"errors"
	"fmt"
	"os/exec"
	goruntime "runtime"
)

const (
	binMagick   = "magick"
	binConvert  = "convert"
	binInkscape = "inkscape"

	// NameAuto selects the first available tool.
	NameAuto = "auto"
	// NameNone disables rasterization; images fall back to EMF files.
	NameNone = "none"
)

// ErrNotFound reports that no usable rasterizer is installed.
var ErrNotFound = errors.New("no rasterizer available")

// Rasterizer converts a vector image file to PNG.
type Rasterizer interface {
	// Name returns the tool name ("magick", "convert" or "inkscape").
	Name() string

	// Available reports whether the tool exists on PATH and answers a
	// version probe.
	Available() bool

	// Rasterize writes a PNG rendering of src to dst.
	Rasterize(src, dst string) error
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	RunSilent(name string, args ...string) error
}

// osExecutor is the production executor backed by os/exec. Tool output is
// discarded.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) RunSilent(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

// tool implements Rasterizer for one binary. The tools differ only in the
// binary name, the version probe, and how input and output are passed.
type tool struct {
	bin      string
	probe    []string
	argsFunc func(src, dst string) []string
	exec     executor
}

func (t *tool) Name() string { return t.bin }

func (t *tool) Available() bool {
	if _, err := t.exec.LookPath(t.bin); err != nil {
		return false
	}
	return t.exec.RunSilent(t.bin, t.probe...) == nil
}

func (t *tool) Rasterize(src, dst string) error {
	if err := t.exec.RunSilent(t.bin, t.argsFunc(src, dst)...); err != nil {
		return fmt.Errorf("rasterizing %s with %s: %w", src, t.bin, err)
	}
	return nil
}

func newMagick(exec executor) *tool {
	return &tool{
		bin:      binMagick,
		probe:    []string{"-version"},
		argsFunc: func(src, dst string) []string { return []string{src, dst} },
		exec:     exec,
	}
}

// newConvert covers ImageMagick 6, which ships "convert" instead of "magick".
func newConvert(exec executor) *tool {
	return &tool{
		bin:      binConvert,
		probe:    []string{"-version"},
		argsFunc: func(src, dst string) []string { return []string{src, dst} },
		exec:     exec,
	}
}

func newInkscape(exec executor) *tool {
	return &tool{
		bin:   binInkscape,
		probe: []string{"--version"},
		argsFunc: func(src, dst string) []string {
			return []string{src, "--export-type=png", "--export-filename=" + dst}
		},
		exec: exec,
	}
}

var defaultExec = &osExecutor{}

// Detect returns the rasterizer selected by name. "auto" tries magick,
// then convert, then inkscape. "none" returns a nil Rasterizer and no
// error. When the requested tool is missing Detect returns an error
// wrapping ErrNotFound; callers fall back to EMF output.
func Detect(name string) (Rasterizer, error) {
	return detect(defaultExec, name, goruntime.GOOS)
}

func detect(exec executor, name, goos string) (Rasterizer, error) {
	if name == NameNone {
		return nil, nil
	}

	candidates := candidatesFor(exec, goos)
	if name != NameAuto && name != "" {
		var picked []*tool
		for _, c := range candidates {
			if c.bin == name {
				picked = append(picked, c)
			}
		}
		if len(picked) == 0 {
			return nil, fmt.Errorf("%w: unknown or unsupported rasterizer %q on %s", ErrNotFound, name, goos)
		}
		candidates = picked
	}

	for _, c := range candidates {
		if c.Available() {
			return c, nil
		}
	}

	names := make([]string, len(candidates))
	for i, c := range candidates {
		names[i] = c.bin
	}
	return nil, fmt.Errorf("%w: none of %v found or operational", ErrNotFound, names)
}

// candidatesFor lists tools in preference order. On Windows "convert" is
// the system disk converter, so it is never used there.
func candidatesFor(exec executor, goos string) []*tool {
	if goos == "windows" {
		return []*tool{newMagick(exec), newInkscape(exec)}
	}
	return []*tool{newMagick(exec), newConvert(exec), newInkscape(exec)}
}
