// Package writer orchestrates one export invocation: load the project
// configuration, run the engine, report diagnostics and conditionally write
// the output file. It is the thin adapter between the host-facing CLI and
// the pure engine.
package writer

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"needscfg/internal/engine"
	"needscfg/internal/hostcfg"
	"needscfg/internal/paths"
	"needscfg/internal/slogutil"
	"needscfg/internal/tomldoc"
)

// Params configures one invocation.
type Params struct {
	// ConfigFile is the host project configuration file.
	ConfigFile string
	// Outdir is the build output directory, substituted for ${outdir}.
	Outdir string
	// Srcdir is the documentation source directory, substituted for ${srcdir}.
	Srcdir string
	// DefaultsFile optionally registers setting defaults from a TOML file.
	DefaultsFile string
	// OutpathOverride replaces the configured output path template.
	OutpathOverride string
	// Logger receives diagnostics; nil discards them.
	Logger *slog.Logger
}

// Build loads the configuration and produces the canonical document plus
// the write decision, without touching the output file. Returns the result
// and the resolved output path.
func Build(params Params) (*engine.Result, string, error) {
	project, err := hostcfg.Load(params.ConfigFile)
	if err != nil {
		return nil, "", err
	}

	if params.DefaultsFile != "" {
		defaults, err := tomldoc.DecodeFile(params.DefaultsFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load defaults: %w", err)
		}
		project.RegisterDefaults(defaults)
	}

	template := project.OutpathTemplate
	if params.OutpathOverride != "" {
		template = params.OutpathOverride
	}
	outpath := paths.ResolveTemplate(template, params.Outdir, params.Srcdir, project.ConfDir)

	opts := project.Options
	opts.Outpath = outpath

	mergeDocs, mergeMsgs := loadMergeDocs(project.MergeTemplates, params, project.ConfDir)
	opts.MergeDocs = mergeDocs

	existing, err := os.ReadFile(outpath)
	present := err == nil
	if err != nil && !os.IsNotExist(err) {
		return nil, "", fmt.Errorf("failed to read existing file %q: %w", outpath, err)
	}

	result, err := engine.Export(project.Resolved, existing, present, opts)
	if err != nil {
		return nil, "", err
	}

	result.Messages = append(append(project.Messages, mergeMsgs...), result.Messages...)
	return result, outpath, nil
}

// Run performs a full invocation: build the document, log diagnostics, and
// write the file when the decision calls for it. Only filesystem failures
// abort; everything else degrades to logged messages.
func Run(params Params) (engine.Decision, error) {
	logger := params.Logger
	if logger == nil {
		logger = slogutil.NewDiscardLogger()
	}

	result, outpath, err := Build(params)
	if err != nil {
		return "", err
	}

	logMessages(logger, result.Messages)

	if result.Decision.ShouldWrite() {
		if err := os.MkdirAll(filepath.Dir(outpath), 0o755); err != nil {
			return "", fmt.Errorf("failed to create output directory: %w", err)
		}
		if err := os.WriteFile(outpath, result.Document, 0o644); err != nil {
			return "", fmt.Errorf("failed to write %q: %w", outpath, err)
		}
	}

	switch result.Decision {
	case engine.DecisionCreated:
		logger.Info("needs configuration written", "path", outpath)
	case engine.DecisionOverwritten:
		logger.Info("updated needs configuration written", "path", outpath)
	case engine.DecisionUnchanged:
		logger.Info("needs configuration unchanged - not rewriting", "path", outpath)
	case engine.DecisionSkippedSilently, engine.DecisionSkippedWithWarning:
		logger.Info("needs configuration changed but not overwriting (overwrite=false)", "path", outpath)
	}

	return result.Decision, nil
}

// loadMergeDocs resolves and decodes the configured merge sources. A missing
// or unparsable source is a warning, not a failure.
func loadMergeDocs(templates []string, params Params, confDir string) ([]engine.MergeDoc, []engine.Message) {
	var docs []engine.MergeDoc
	var msgs []engine.Message

	for _, template := range templates {
		path := paths.ResolveTemplate(template, params.Outdir, params.Srcdir, confDir)

		if _, err := os.Stat(path); err != nil {
			msgs = append(msgs, engine.Warningf(engine.SubtypeMergeFailed,
				"TOML file to merge not found: %q (from template %q)", path, template))
			continue
		}

		data, err := tomldoc.DecodeFile(path)
		if err != nil {
			msgs = append(msgs, engine.Warningf(engine.SubtypeMergeFailed,
				"failed to merge TOML file %q: %v", path, err))
			continue
		}
		docs = append(docs, engine.MergeDoc{Source: path, Data: data})
	}
	return docs, msgs
}

// logMessages reports collected diagnostics through the logger.
func logMessages(logger *slog.Logger, msgs []engine.Message) {
	for _, m := range msgs {
		if m.Warning {
			logger.Warn(m.Text, "type", "needscfg", "subtype", string(m.Subtype))
		} else {
			logger.Info(m.Text, "type", "needscfg", "subtype", string(m.Subtype))
		}
	}
}
