// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ConversionStatus indicates the outcome of converting one document.
type ConversionStatus string

const (
	ConversionNone      ConversionStatus = "none"
	ConversionConverted ConversionStatus = "converted"
	ConversionFailed    ConversionStatus = "failed"
)

// Document describes one source document and where its Markdown goes.
type Document struct {
	// Source is the absolute path to the .doc or .docx file.
	Source string `json:"source" yaml:"source"`

	// Output is the absolute path of the Markdown file to write.
	Output string `json:"output" yaml:"output"`

	// Status is the outcome of the last conversion attempt.
	Status ConversionStatus `json:"status" yaml:"status"`

	// Attempts counts conversion attempts, including the retry.
	Attempts int `json:"attempts" yaml:"attempts"`

	// Err holds the last error when Status is ConversionFailed.
	Err error `json:"-" yaml:"-"`
}

// Frontmatter is the optional YAML header written above converted Markdown.
type Frontmatter struct {
	Source      string `yaml:"source"`
	ConvertedAt string `yaml:"converted_at"`
	Images      int    `yaml:"images"`
}
