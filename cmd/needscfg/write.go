package main

import (
	"github.com/spf13/cobra"

	"needscfg/internal/writer"
)

var (
	writeOutFlag      string
	writeDefaultsFlag string
)

var writeCmd = &cobra.Command{
	Use:   "write",
	Short: "Write the configuration document",
	Long: `Normalize the project's needs_* configuration, compare it against any
previously written document, and write the result per policy.

The output path, overwrite behavior and diff warnings are controlled by the
needscfg_* options in the project configuration.

Examples:
  needscfg write
  needscfg write -c docs/conf.toml --outdir docs/_build
  needscfg write --out ${srcdir}/ubproject.toml`,
	RunE: runWrite,
}

func init() {
	writeCmd.Flags().StringVar(&writeOutFlag, "out", "",
		"Override the configured output path template")
	writeCmd.Flags().StringVar(&writeDefaultsFlag, "defaults", "",
		"TOML file registering setting defaults (for needscfg_exclude_defaults and write_all)")
	rootCmd.AddCommand(writeCmd)
}

func runWrite(cmd *cobra.Command, args []string) error {
	_, err := writer.Run(writer.Params{
		ConfigFile:      configFlag,
		Outdir:          outdirFlag,
		Srcdir:          srcdirFlag,
		DefaultsFile:    writeDefaultsFlag,
		OutpathOverride: writeOutFlag,
		Logger:          newLogger(),
	})
	return err
}
