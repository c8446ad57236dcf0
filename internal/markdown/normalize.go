// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package markdown

import (
	"regexp"
	"strings"
)

var (
	blankRunRE       = regexp.MustCompile(`\n{3,}`)
	headingNoSpaceRE = regexp.MustCompile(`(?m)^(#{1,6})([^#\s])`)
)

// Normalize tidies generated Markdown. It drops BEL characters left behind
// by the host's text extraction, collapses runs of three or more newlines
// to a single blank line, and inserts the missing space in headings such as
// "##Title". Normalize(Normalize(s)) == Normalize(s).
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\a", "")
	text = blankRunRE.ReplaceAllString(text, "\n\n")
	text = headingNoSpaceRE.ReplaceAllString(text, "$1 $2")
	return text
}
