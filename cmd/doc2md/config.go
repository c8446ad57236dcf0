// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/doc2md/pkg/types"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Long: `Config prints the settings doc2md would use after merging defaults, the
config file, DOC2MD_* environment variables and flags.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		data, err := yaml.Marshal(&cfg)
		if err != nil {
			return oops.Wrapf(err, "encoding configuration")
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}

// loadConfig merges viper settings with the flags that do not map one to
// one onto config keys, then validates the result.
func loadConfig(cmd *cobra.Command) (types.ConversionConfig, error) {
	cfg := types.DefaultConversionConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, oops.
			Code("CONFIG_INVALID").
			Hint("Check the types of values in your doc2md config file").
			Wrapf(err, "decoding configuration")
	}

	flags := cmd.Flags()
	if flags.Changed("no-optimize") {
		if noOpt, err := flags.GetBool("no-optimize"); err == nil && noOpt {
			cfg.Optimize = false
		}
	}
	if quiet, err := flags.GetBool("quiet"); err == nil && quiet {
		cfg.Verbosity = types.VerbosityQuiet
	}
	if verbose, err := flags.GetBool("verbose"); err == nil && verbose {
		cfg.Verbosity = types.VerbosityVerbose
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
