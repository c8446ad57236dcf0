// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package markdown builds the Markdown fragments doc2md emits for headings,
// paragraphs, tables and images, and normalizes the assembled text.
package markdown

import (
	"fmt"
	"strings"
)

// headingMarkers are substrings of style names that mark a heading style in
// the English and Chinese Word locales ("Heading 2", "标题 2").
var headingMarkers = []string{"Heading", "标题"}

// HeadingLevel reports whether styleName names a heading style and, if so,
// its level. The level is the first digit 1-6 in the name, or 1 when the
// name has none.
func HeadingLevel(styleName string) (int, bool) {
	isHeading := false
	for _, m := range headingMarkers {
		if strings.Contains(styleName, m) {
			isHeading = true
			break
		}
	}
	if !isHeading {
		return 0, false
	}

	for _, r := range styleName {
		if r >= '1' && r <= '6' {
			return int(r - '0'), true
		}
	}
	return 1, true
}

// Heading returns an ATX heading followed by a blank line.
func Heading(level int, text string) string {
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	return strings.Repeat("#", level) + " " + text + "\n\n"
}

// Paragraph returns text followed by a blank line.
func Paragraph(text string) string {
	return text + "\n\n"
}

// Image returns an image reference followed by a blank line. path is
// written as given; callers pass forward-slash relative paths.
func Image(index int, path string) string {
	return fmt.Sprintf("![image%d](%s)\n\n", index, path)
}

// TableRow returns one pipe table row.
func TableRow(cells []string) string {
	return "| " + strings.Join(cells, " | ") + " |\n"
}

// SeparatorRow returns the header separator row for a table with cols columns.
func SeparatorRow(cols int) string {
	seps := make([]string, cols)
	for i := range seps {
		seps[i] = "---"
	}
	return TableRow(seps)
}

// CellText cleans raw cell text: the end-of-cell marker is removed, line
// breaks become spaces, and surrounding whitespace is trimmed.
func CellText(raw string) string {
	s := strings.ReplaceAll(raw, "\r\a", "")
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}
