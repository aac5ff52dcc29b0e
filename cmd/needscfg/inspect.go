package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"needscfg/internal/engine"
	"needscfg/internal/writer"
)

var inspectDefaultsFlag string

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show the canonical document without writing it",
	Long: `Normalize and sort the project's needs_* configuration and print the
canonical value tree, the write decision, and all collected diagnostics as
YAML. Nothing is written to disk.

Examples:
  needscfg inspect
  needscfg inspect -c docs/conf.toml`,
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().StringVar(&inspectDefaultsFlag, "defaults", "",
		"TOML file registering setting defaults")
	rootCmd.AddCommand(inspectCmd)
}

// inspectReport is the YAML shape printed by the inspect command.
type inspectReport struct {
	Outpath   string           `yaml:"outpath"`
	Decision  engine.Decision  `yaml:"decision"`
	Canonical map[string]any   `yaml:"canonical"`
	Messages  []engine.Message `yaml:"messages,omitempty"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	result, outpath, err := writer.Build(writer.Params{
		ConfigFile:   configFlag,
		Outdir:       outdirFlag,
		Srcdir:       srcdirFlag,
		DefaultsFile: inspectDefaultsFlag,
		Logger:       newLogger(),
	})
	if err != nil {
		return err
	}

	report := inspectReport{
		Outpath:   outpath,
		Decision:  result.Decision,
		Canonical: result.Tree,
		Messages:  result.Messages,
	}

	out, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	_, err = os.Stdout.Write(out)
	return err
}
