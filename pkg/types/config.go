// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the configuration and result records shared by the
// doc2md packages and its command line.
package types

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/samber/oops"
)

// Verbosity controls how much per-file progress is printed.
type Verbosity int

const (
	// VerbosityQuiet prints only warnings, errors and the final summary.
	VerbosityQuiet Verbosity = iota
	// VerbosityNormal adds per-file progress lines.
	VerbosityNormal
	// VerbosityVerbose adds source/destination paths and per-file confirmation.
	VerbosityVerbose
)

// String returns the name used in config files.
func (v Verbosity) String() string {
	switch v {
	case VerbosityQuiet:
		return "quiet"
	case VerbosityVerbose:
		return "verbose"
	default:
		return "normal"
	}
}

// Rasterizer names accepted by ConversionConfig.Rasterizer.
const (
	RasterizerAuto     = "auto"
	RasterizerMagick   = "magick"
	RasterizerConvert  = "convert"
	RasterizerInkscape = "inkscape"
	RasterizerNone     = "none"
)

const (
	// DefaultImageDirSuffix is appended to the output file stem to name the
	// image directory.
	DefaultImageDirSuffix = "_images"

	// DefaultRestartDelay is the pause between quitting and re-launching the
	// automation host after a transient fault.
	DefaultRestartDelay = 2 * time.Second
)

// DefaultExclude returns the base-name patterns skipped during directory
// scans. Word leaves "~$name.docx" owner files next to open documents.
func DefaultExclude() []string {
	return []string{"~$*"}
}

// ConversionConfig holds settings for document conversion.
type ConversionConfig struct {
	// Optimize runs the Markdown post-processor on the generated text.
	Optimize bool `json:"optimize" yaml:"optimize" mapstructure:"optimize"`

	// Recursive walks subdirectories when the input is a directory.
	Recursive bool `json:"recursive" yaml:"recursive" mapstructure:"recursive"`

	// Frontmatter prepends a YAML header describing the conversion.
	Frontmatter bool `json:"frontmatter" yaml:"frontmatter" mapstructure:"frontmatter"`

	// Exclude lists doublestar patterns matched against file base names
	// during directory scans.
	Exclude []string `json:"exclude" yaml:"exclude" mapstructure:"exclude"`

	// Rasterizer selects the external EMF-to-PNG tool: auto, magick,
	// convert, inkscape, or none.
	Rasterizer string `json:"rasterizer" yaml:"rasterizer" mapstructure:"rasterizer" validate:"required,oneof=auto magick convert inkscape none"`

	// ImageDirSuffix names the per-document image directory.
	ImageDirSuffix string `json:"image_dir_suffix" yaml:"image_dir_suffix" mapstructure:"image_dir_suffix" validate:"required,excludesall=/\\"`

	// RestartDelay is the wait after quitting a faulted automation host.
	RestartDelay time.Duration `json:"restart_delay" yaml:"restart_delay" mapstructure:"restart_delay" validate:"gte=0"`

	// Verbosity controls progress output.
	Verbosity Verbosity `json:"verbosity" yaml:"verbosity" mapstructure:"verbosity" validate:"gte=0,lte=2"`
}

// DefaultConversionConfig returns the settings used when nothing is
// configured.
func DefaultConversionConfig() ConversionConfig {
	return ConversionConfig{
		Optimize:       true,
		Exclude:        DefaultExclude(),
		Rasterizer:     RasterizerAuto,
		ImageDirSuffix: DefaultImageDirSuffix,
		RestartDelay:   DefaultRestartDelay,
		Verbosity:      VerbosityNormal,
	}
}

// Validate checks field constraints and returns the first violation.
func (c ConversionConfig) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())

	err := v.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return oops.
			Code("CONFIG_INVALID").
			Wrapf(err, "validating conversion config")
	}

	fe := fieldErrs[0]
	return oops.
		Code("CONFIG_INVALID").
		With("field", fe.Field()).
		With("value", fe.Value()).
		Hint(configHint(fe.Field())).
		Errorf("invalid %s: failed %q constraint", fe.Field(), fe.Tag())
}

func configHint(field string) string {
	switch field {
	case "Rasterizer":
		return "Use one of: auto, magick, convert, inkscape, none"
	case "ImageDirSuffix":
		return "Use a non-empty suffix without path separators, e.g. _images"
	case "RestartDelay":
		return "Use a non-negative duration such as 2s"
	case "Verbosity":
		return "Use 0 (quiet), 1 (normal) or 2 (verbose)"
	default:
		return "Check the doc2md configuration file"
	}
}
