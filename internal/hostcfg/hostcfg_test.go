package hostcfg

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"needscfg/internal/engine"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "conf.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
needs_id_regex = "^[A-Z0-9_]+$"
needs_title = "demo"
needscfg_outpath = "${srcdir}/ubproject.toml"
needscfg_warn_on_diff = true
needscfg_overwrite = false
needscfg_exclude_vars = ["needs_title"]
needscfg_merge_toml_files = ["${srcdir}/shared.toml"]
`)

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if p.Resolved.Settings["needs_id_regex"] != "^[A-Z0-9_]+$" {
		t.Errorf("needs_id_regex = %v", p.Resolved.Settings["needs_id_regex"])
	}
	if !p.Resolved.Explicit["needs_id_regex"] {
		t.Error("needs_id_regex should be marked explicit")
	}
	if p.OutpathTemplate != "${srcdir}/ubproject.toml" {
		t.Errorf("OutpathTemplate = %q", p.OutpathTemplate)
	}
	if !p.Options.WarnOnDiff {
		t.Error("WarnOnDiff should be true")
	}
	if p.Options.Overwrite {
		t.Error("Overwrite should be false")
	}
	if !reflect.DeepEqual(p.Options.ExcludeVars, []string{"needs_title"}) {
		t.Errorf("ExcludeVars = %v", p.Options.ExcludeVars)
	}
	if !reflect.DeepEqual(p.MergeTemplates, []string{"${srcdir}/shared.toml"}) {
		t.Errorf("MergeTemplates = %v", p.MergeTemplates)
	}
	if p.ConfDir != filepath.Dir(path) {
		t.Errorf("ConfDir = %q, want %q", p.ConfDir, filepath.Dir(path))
	}
	if len(p.Messages) != 0 {
		t.Errorf("unexpected messages: %v", p.Messages)
	}
}

func TestLoad_Defaults(t *testing.T) {
	p, err := Load(writeConfig(t, "needs_title = \"demo\"\n"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if p.OutpathTemplate != DefaultOutpath {
		t.Errorf("OutpathTemplate = %q, want %q", p.OutpathTemplate, DefaultOutpath)
	}
	if p.Options.WarnOnDiff {
		t.Error("WarnOnDiff should default to false")
	}
	if !p.Options.Overwrite {
		t.Error("Overwrite should default to true")
	}
	if !p.Options.AddHeader {
		t.Error("AddHeader should default to true")
	}
	if p.Options.WriteAll || p.Options.ExcludeDefaults {
		t.Error("WriteAll and ExcludeDefaults should default to false")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("expected error for missing configuration")
	}
}

func TestDecodeOptions_InvalidValues(t *testing.T) {
	p, err := Load(writeConfig(t, `
needscfg_warn_on_diff = "not a bool"
needscfg_outpath = ""
needscfg_exclude_vars = "not a list either"
`))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Each bad value degrades to its default with a warning.
	if p.Options.WarnOnDiff {
		t.Error("bad bool should keep the default")
	}
	if p.OutpathTemplate != DefaultOutpath {
		t.Errorf("OutpathTemplate = %q, want default", p.OutpathTemplate)
	}

	var configErrors int
	for _, m := range p.Messages {
		if m.Subtype == engine.SubtypeConfigError && m.Warning {
			configErrors++
		}
	}
	if configErrors != 2 {
		t.Errorf("want 2 config_error warnings, got %d: %v", configErrors, p.Messages)
	}

	// cast splits a bare string on whitespace, so the exclude list decodes
	// rather than warns.
	if !reflect.DeepEqual(p.Options.ExcludeVars, []string{"not", "a", "list", "either"}) {
		t.Errorf("ExcludeVars = %v", p.Options.ExcludeVars)
	}
}

func TestDecodeRelativePathFields(t *testing.T) {
	p, err := Load(writeConfig(t, `
needscfg_relative_path_fields = [
    "needs_build_json",
    { field = "needs_external_needs[*].json_path", prefix = "file://" },
    { prefix = "no-field" },
    42,
]
`))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := []engine.RelativePathField{
		{Field: "needs_build_json"},
		{Field: "needs_external_needs[*].json_path", Prefix: "file://"},
	}
	if !reflect.DeepEqual(p.Options.RelativePathFields, want) {
		t.Errorf("RelativePathFields = %v, want %v", p.Options.RelativePathFields, want)
	}

	var configErrors int
	for _, m := range p.Messages {
		if m.Subtype == engine.SubtypeConfigError {
			configErrors++
		}
	}
	if configErrors != 2 {
		t.Errorf("want 2 config_error warnings for bad entries, got %d: %v", configErrors, p.Messages)
	}
}

func TestRegisterDefaults(t *testing.T) {
	p, err := Load(writeConfig(t, "needs_title = \"explicit\"\n"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	p.RegisterDefaults(map[string]any{
		"needs_title":    "default",
		"needs_id_regex": "^[A-Z]+$",
	})

	if p.Resolved.Settings["needs_title"] != "explicit" {
		t.Errorf("explicit value overwritten: %v", p.Resolved.Settings["needs_title"])
	}
	if p.Resolved.Settings["needs_id_regex"] != "^[A-Z]+$" {
		t.Error("missing default not filled in")
	}
	if p.Resolved.Explicit["needs_id_regex"] {
		t.Error("defaulted setting must not be explicit")
	}
	if p.Resolved.Defaults["needs_title"] != "default" {
		t.Error("default value not recorded")
	}
}
