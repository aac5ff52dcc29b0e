// Package hostcfg loads the host project's resolved configuration and
// decodes the recognized exporter options from it.
package hostcfg

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"

	"needscfg/internal/engine"
)

// Project is the loaded host configuration: the resolved setting namespace
// plus the exporter's own option surface.
type Project struct {
	// Resolved is the flat setting namespace handed to the engine.
	Resolved engine.Resolved

	// Options are the decoded policy options. Outpath is filled in by the
	// caller after template resolution.
	Options engine.Options

	// OutpathTemplate is the unresolved output path template.
	OutpathTemplate string

	// MergeTemplates are unresolved path templates of documents to merge.
	MergeTemplates []string

	// ConfDir is the directory holding the configuration file; relative
	// paths resolve against it.
	ConfDir string

	// Messages are diagnostics collected while decoding options.
	Messages []engine.Message
}

// Load reads a project configuration file (TOML, YAML or JSON) and decodes
// the resolved settings and exporter options from it.
func Load(configFile string) (*Project, error) {
	v := viper.New()
	v.SetConfigFile(configFile)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read project configuration %q: %w", configFile, err)
	}

	confDir, err := filepath.Abs(filepath.Dir(configFile))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve configuration directory: %w", err)
	}
	return FromViper(v, confDir), nil
}

// FromViper builds a Project from an already configured viper instance.
// Useful for hosts that embed the exporter and manage configuration
// themselves.
func FromViper(v *viper.Viper, confDir string) *Project {
	p := &Project{
		Resolved: engine.Resolved{
			Settings: make(map[string]any),
			Explicit: make(map[string]bool),
			Defaults: make(map[string]any),
		},
		ConfDir: confDir,
	}

	for key, value := range v.AllSettings() {
		p.Resolved.Settings[key] = value
		if v.InConfig(key) {
			p.Resolved.Explicit[key] = true
		}
	}

	p.Options, p.OutpathTemplate, p.MergeTemplates, p.Messages = decodeOptions(v)
	return p
}

// RegisterDefaults merges registered setting defaults into the resolved
// namespace. Settings already present keep their value; the defaults are
// additionally recorded for exclude_defaults comparisons.
func (p *Project) RegisterDefaults(defaults map[string]any) {
	for key, value := range defaults {
		p.Resolved.Defaults[key] = value
		if _, ok := p.Resolved.Settings[key]; !ok {
			p.Resolved.Settings[key] = value
		}
	}
}
