package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"needscfg/internal/slogutil"
	"needscfg/internal/version"
)

var (
	configFlag  string
	outdirFlag  string
	srcdirFlag  string
	verboseFlag int
	quietFlag   bool
)

var rootCmd = &cobra.Command{
	Use:   "needscfg",
	Short: "needscfg - deterministic documentation config exporter",
	Long: `needscfg exports a documentation project's resolved needs_* configuration
into a deterministic, human-diffable TOML document (ubproject.toml by default),
so external tools can consume the configuration without running a full build.`,
	Version: version.Version,
}

func init() {
	rootCmd.SetVersionTemplate("needscfg version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "conf.toml",
		"Project configuration file (TOML, YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&outdirFlag, "outdir", "_build",
		"Build output directory, substituted for ${outdir}")
	rootCmd.PersistentFlags().StringVar(&srcdirFlag, "srcdir", ".",
		"Documentation source directory, substituted for ${srcdir}")
	rootCmd.PersistentFlags().CountVarP(&verboseFlag, "verbose", "v",
		"Increase log verbosity")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false,
		"Suppress all log output")
}

// newLogger builds the CLI logger from the verbosity flags.
func newLogger() *slog.Logger {
	return slogutil.NewLogger(os.Stderr, slogutil.LevelFromVerbosity(verboseFlag, quietFlag))
}
