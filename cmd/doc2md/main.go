// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the doc2md CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/doc2md/internal/automation"
	"github.com/pdiddy/doc2md/internal/convert"
	"github.com/pdiddy/doc2md/internal/raster"
	"github.com/pdiddy/doc2md/internal/ui"
	"github.com/pdiddy/doc2md/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// launch starts the automation host. Tests replace it.
var launch automation.Launcher = automation.Launch

// rootCmd converts a document or a directory of documents.
var rootCmd = &cobra.Command{
	Use:   "doc2md <file-or-directory>",
	Short: "Convert Word documents to Markdown through Microsoft Word",
	Long: `doc2md converts .doc and .docx files to Markdown by driving a locally
installed Microsoft Word. Headings, paragraphs and tables become Markdown;
inline images are exported next to the output file in <name>_images/.

Given a file, doc2md writes <name>.md beside it (or to --output). Given a
directory, it converts every .doc/.docx file in it (add --recursive for
subdirectories) on one shared Word instance, restarting Word and retrying
once when automation faults.`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runConvert,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./doc2md.yaml or ~/.config/doc2md/config.yaml)")

	f := rootCmd.Flags()
	f.StringP("output", "o", "", "output Markdown path (file input only; default: input with .md extension)")
	f.Bool("no-optimize", false, "write the raw export without Markdown cleanup")
	f.BoolP("quiet", "q", false, "print only the summary and errors")
	f.BoolP("verbose", "v", false, "print source/destination paths and per-file confirmation")
	f.BoolP("recursive", "r", false, "scan subdirectories when the input is a directory")
	f.StringSlice("exclude", nil, "base-name glob to skip during directory scans (repeatable)")
	f.Bool("frontmatter", false, "prepend YAML frontmatter to each Markdown file")
	f.String("rasterizer", types.RasterizerAuto, "EMF to PNG tool: auto, magick, convert, inkscape, or none")
	f.String("image-dir-suffix", types.DefaultImageDirSuffix, "suffix of the per-document image directory")
	f.Duration("restart-delay", types.DefaultRestartDelay, "pause before re-launching Word after a fault")
	rootCmd.MarkFlagsMutuallyExclusive("quiet", "verbose")

	bindConfigFlags(rootCmd)
}

// bindConfigFlags ties the flags that mirror config keys to viper.
func bindConfigFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	for key, flag := range map[string]string{
		"recursive":        "recursive",
		"exclude":          "exclude",
		"frontmatter":      "frontmatter",
		"rasterizer":       "rasterizer",
		"image_dir_suffix": "image-dir-suffix",
		"restart_delay":    "restart-delay",
	} {
		_ = viper.BindPFlag(key, f.Lookup(flag))
	}
}

func initConfig() {
	defaults := types.DefaultConversionConfig()
	viper.SetDefault("optimize", defaults.Optimize)
	viper.SetDefault("recursive", defaults.Recursive)
	viper.SetDefault("frontmatter", defaults.Frontmatter)
	viper.SetDefault("exclude", defaults.Exclude)
	viper.SetDefault("rasterizer", defaults.Rasterizer)
	viper.SetDefault("image_dir_suffix", defaults.ImageDirSuffix)
	viper.SetDefault("restart_delay", defaults.RestartDelay)
	viper.SetDefault("verbosity", int(defaults.Verbosity))

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("doc2md")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "doc2md"))
		}
	}

	viper.SetEnvPrefix("DOC2MD")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	printer := ui.NewPrinterWithWriters(cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg.Verbosity)

	rasterizer, err := raster.Detect(cfg.Rasterizer)
	if err != nil {
		if cfg.Rasterizer == types.RasterizerAuto {
			printer.Detailf("%v; vector images will be kept as EMF", err)
		} else {
			printer.Warnf("%v; vector images will be kept as EMF", err)
		}
	}
	conv := convert.New(convert.OptionsFromConfig(cfg, rasterizer), printer)

	input, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolving %s: %w", args[0], err)
	}

	if info, err := os.Stat(input); err == nil && info.IsDir() {
		if cmd.Flags().Changed("output") {
			printer.Warnf("--output is ignored for directory input")
		}
		return runBatch(cmd.Context(), conv, printer, cfg, input)
	}

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = convert.DefaultOutputPath(input)
	}
	if err := conv.ConvertSingle(cmd.Context(), launch, input, output); err != nil {
		return reportedError{err}
	}
	return nil
}

// reportedError marks an error the converter already printed.
type reportedError struct{ error }

func (e reportedError) Unwrap() error { return e.error }

func runBatch(ctx context.Context, conv *convert.Converter, printer *ui.Printer, cfg types.ConversionConfig, dir string) error {
	files, err := convert.FindDocuments(dir, cfg.Recursive, cfg.Exclude)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		printer.Noticef("No .doc/.docx files found in %s", dir)
		return nil
	}

	printer.Progressf("Starting batch conversion of %d file(s) in %s", len(files), dir)

	result, err := conv.ConvertBatch(ctx, launch, files)
	if err != nil {
		return err
	}
	if result.HasFailures() {
		return reportedError{fmt.Errorf("%d document(s) failed conversion", result.Failed)}
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		var reported reportedError
		if !errors.As(err, &reported) {
			ui.NewPrinter(types.VerbosityNormal).Errorf("%v", err)
		}
		stop()
		os.Exit(1)
	}
}
