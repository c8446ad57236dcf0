// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// documentExts are the extensions FindDocuments selects, compared
// case-insensitively.
var documentExts = map[string]bool{
	".doc":  true,
	".docx": true,
}

// FindDocuments lists the .doc and .docx files under root. Without
// recursive only the top-level entries are considered. Files whose base
// name matches one of the exclude patterns are skipped. Paths are absolute
// and sorted.
func FindDocuments(root string, recursive bool, exclude []string) ([]string, error) {
	for _, p := range exclude {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid exclude pattern %q", p)
		}
	}

	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", root, err)
	}

	pattern := "*"
	if recursive {
		pattern = "**/*"
	}

	matches, err := doublestar.Glob(os.DirFS(root), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}

	var files []string
	for _, m := range matches {
		if !documentExts[strings.ToLower(path.Ext(m))] {
			continue
		}
		if excluded(path.Base(m), exclude) {
			continue
		}
		files = append(files, filepath.Join(root, filepath.FromSlash(m)))
	}
	sort.Strings(files)
	return files, nil
}

func excluded(name string, patterns []string) bool {
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, name); err == nil && ok {
			return true
		}
	}
	return false
}
