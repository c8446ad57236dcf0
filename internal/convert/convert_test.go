// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/doc2md/internal/automation"
	"github.com/pdiddy/doc2md/pkg/types"
)

func defaultOptions() Options {
	return Options{Optimize: true, ImageDirSuffix: "_images"}
}

// convertFake converts doc as dir/report.docx and returns the Markdown.
func convertFake(t *testing.T, conv *Converter, doc *fakeDoc) (string, string) {
	t.Helper()
	dir := t.TempDir()
	src := writeSource(t, filepath.Join(dir, "report.docx"))
	dst := filepath.Join(dir, "report.md")

	_, err := conv.ConvertDocument(staticApp(doc), src, dst)
	require.NoError(t, err)

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	return string(data), dir
}

func TestConvertDocument_HeadingsAndParagraphs(t *testing.T) {
	doc := &fakeDoc{paras: []*fakeParagraph{
		para("Heading 1", "Title"),
		para("Normal", "Body text."),
		para("Normal", ""),
		para("Heading 2", "Section"),
		para("标题 3", "小节"),
		para("Heading", "No level"),
	}}
	conv, _, _ := testConverter(t, defaultOptions(), types.VerbosityQuiet)

	got, _ := convertFake(t, conv, doc)

	want := "# Title\n\nBody text.\n\n## Section\n\n### 小节\n\n# No level\n\n"
	assert.Equal(t, want, got)
	assert.Equal(t, 1, doc.closes)
}

func TestConvertDocument_TablesFollowParagraphs(t *testing.T) {
	doc := &fakeDoc{
		paras: []*fakeParagraph{
			para("Normal", "Before the table"),
			para("Normal", "After the table"),
		},
		tables: []*fakeTable{{cells: [][]string{
			{"Name\r\a", "Qty\r\a", "Note\r\a"},
			{"Apple\r\a", "3\r\a", "red\rround\r\a"},
			{"Pear\r\a", "5\r\a", "\r\a"},
		}}},
	}
	conv, _, _ := testConverter(t, defaultOptions(), types.VerbosityQuiet)

	got, _ := convertFake(t, conv, doc)

	want := "Before the table\n\nAfter the table\n\n" +
		"| Name | Qty | Note |\n" +
		"| --- | --- | --- |\n" +
		"| Apple | 3 | red round |\n" +
		"| Pear | 5 |  |\n\n"
	assert.Equal(t, want, got)

	// Tables land after every paragraph, whatever their original position.
	assert.Greater(t, strings.Index(got, "| Name"), strings.Index(got, "After the table"))

	var tableLines int
	for _, line := range strings.Split(got, "\n") {
		if strings.HasPrefix(line, "|") {
			tableLines++
		}
	}
	assert.Equal(t, 4, tableLines, "R rows plus one separator")
}

func TestConvertDocument_WithoutOptimize(t *testing.T) {
	doc := &fakeDoc{
		paras:  []*fakeParagraph{para("Normal", "Text\a")},
		tables: []*fakeTable{{cells: [][]string{{"a\r\a"}}}},
	}
	conv, _, _ := testConverter(t, Options{Optimize: false}, types.VerbosityQuiet)

	got, _ := convertFake(t, conv, doc)

	assert.Equal(t, "Text\a\n\n\n| a |\n| --- |\n\n", got)
}

func TestConvertDocument_ParagraphErrorsAreSkipped(t *testing.T) {
	doc := &fakeDoc{
		paras: []*fakeParagraph{
			para("Normal", "first"),
			{textErr: errors.New("text unavailable")},
			{text: "styled\r", styleErr: errors.New("style lookup failed")},
			{text: "no shapes\r", style: "Normal", countErr: errors.New("inline shapes unavailable")},
			nil,
			para("Heading 2", "last"),
		},
		paraErrs: map[int]error{5: errors.New("paragraph reference is stale")},
	}
	conv, _, errOut := testConverter(t, defaultOptions(), types.VerbosityQuiet)

	got, _ := convertFake(t, conv, doc)

	assert.Equal(t, "first\n\nstyled\n\nno shapes\n\n## last\n\n", got)
	assert.Contains(t, errOut.String(), "skipped paragraph 2: reading text: text unavailable")
	assert.Contains(t, errOut.String(), "skipped paragraph 5: paragraph reference is stale")
}

func TestConvertDocument_TransientElementFaultFailsDocument(t *testing.T) {
	rpc := &automation.Fault{Op: "Tables.Item", Code: automation.HResultRPCServerUnavailable}
	tests := []struct {
		name string
		doc  *fakeDoc
		want string
	}{
		{
			name: "table",
			doc: &fakeDoc{
				paras:     []*fakeParagraph{para("Normal", "intro")},
				tables:    []*fakeTable{{cells: [][]string{{"a\r\a"}}}},
				tableErrs: map[int]error{1: rpc},
			},
			want: "reading table 1",
		},
		{
			name: "paragraph",
			doc: &fakeDoc{
				paras:    []*fakeParagraph{para("Normal", "intro"), nil},
				paraErrs: map[int]error{2: fmt.Errorf("paragraph 2: %w", rpc)},
			},
			want: "reading paragraph 2",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			src := writeSource(t, filepath.Join(dir, "report.docx"))
			dst := filepath.Join(dir, "report.md")
			conv, _, errOut := testConverter(t, defaultOptions(), types.VerbosityQuiet)

			_, err := conv.ConvertDocument(staticApp(tt.doc), src, dst)
			require.Error(t, err)
			assert.True(t, automation.IsTransient(err))
			assert.Contains(t, err.Error(), tt.want)
			assert.NotContains(t, errOut.String(), "skipped")
			assert.NoFileExists(t, dst)
			assert.Equal(t, 1, tt.doc.closes)
		})
	}
}

func TestConvertDocument_TableErrorsAreSkipped(t *testing.T) {
	doc := &fakeDoc{
		tables: []*fakeTable{
			nil,
			{rowsErr: errors.New("rows unavailable")},
			{cells: [][]string{}},
			{
				cells:    [][]string{{"h1\r\a", "h2\r\a"}, {"x\r\a", "y\r\a"}},
				cellErrs: map[[2]int]error{{2, 1}: errors.New("merged cell")},
			},
		},
	}
	conv, _, errOut := testConverter(t, defaultOptions(), types.VerbosityQuiet)

	got, _ := convertFake(t, conv, doc)

	assert.Equal(t, "\n| h1 | h2 |\n| --- | --- |\n|  | y |\n\n", got)
	assert.Contains(t, errOut.String(), "skipped table 1")
	assert.Contains(t, errOut.String(), "skipped table 2: counting rows")
	assert.NotContains(t, errOut.String(), "skipped table 3")
}

func TestConvertDocument_MissingFile(t *testing.T) {
	dir := t.TempDir()
	doc := &fakeDoc{}
	app := staticApp(doc)
	conv, _, _ := testConverter(t, defaultOptions(), types.VerbosityQuiet)

	_, err := conv.ConvertDocument(app, filepath.Join(dir, "gone.docx"), filepath.Join(dir, "gone.md"))

	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Empty(t, app.opened)
	assert.NoFileExists(t, filepath.Join(dir, "gone.md"))
	assert.NoDirExists(t, filepath.Join(dir, "gone_images"))
}

func TestConvertDocument_ClosesOnFailure(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, filepath.Join(dir, "a.docx"))
	doc := &fakeDoc{parasErr: errors.New("collection does not support enumeration")}
	app := staticApp(doc)
	conv, _, _ := testConverter(t, defaultOptions(), types.VerbosityQuiet)

	_, err := conv.ConvertDocument(app, src, filepath.Join(dir, "a.md"))

	require.Error(t, err)
	assert.Equal(t, 1, doc.closes, "document closed exactly once")
	assert.Zero(t, app.quits, "host left running")
	assert.NoFileExists(t, filepath.Join(dir, "a.md"))
}

func TestConvertDocument_Frontmatter(t *testing.T) {
	doc := &fakeDoc{paras: []*fakeParagraph{para("Heading 1", "Title")}}
	opts := defaultOptions()
	opts.Frontmatter = true
	conv, _, _ := testConverter(t, opts, types.VerbosityQuiet)
	conv.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	got, dir := convertFake(t, conv, doc)

	assert.True(t, strings.HasPrefix(got, "---\n"), "output should start with a frontmatter delimiter")
	assert.Contains(t, got, "source: "+filepath.Join(dir, "report.docx"))
	assert.Contains(t, got, "2026-01-02T03:04:05Z")
	assert.Contains(t, got, "images: 0")
	assert.True(t, strings.HasSuffix(got, "---\n\n# Title\n\n"))
}

func TestConvertDocument_VerboseReportsPaths(t *testing.T) {
	doc := &fakeDoc{paras: []*fakeParagraph{para("Normal", "x")}}
	conv, out, _ := testConverter(t, defaultOptions(), types.VerbosityVerbose)

	_, dir := convertFake(t, conv, doc)

	assert.Contains(t, out.String(), "source:      "+filepath.Join(dir, "report.docx"))
	assert.Contains(t, out.String(), "destination: "+filepath.Join(dir, "report.md"))
	assert.Contains(t, out.String(), "converted: "+filepath.Join(dir, "report.md"))
}

func TestDefaultOutputPath(t *testing.T) {
	assert.Equal(t, filepath.FromSlash("/docs/report.md"), DefaultOutputPath(filepath.FromSlash("/docs/report.docx")))
	assert.Equal(t, filepath.FromSlash("/docs/old.v2.md"), DefaultOutputPath(filepath.FromSlash("/docs/old.v2.DOC")))
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := types.DefaultConversionConfig()
	cfg.ImageDirSuffix = ""
	cfg.Frontmatter = true
	r := &fakeRasterizer{}

	opts := OptionsFromConfig(cfg, r)

	assert.True(t, opts.Optimize)
	assert.True(t, opts.Frontmatter)
	assert.Equal(t, types.DefaultImageDirSuffix, opts.ImageDirSuffix)
	assert.Equal(t, types.DefaultRestartDelay, opts.RestartDelay)
	assert.Same(t, r, opts.Rasterizer)
}
