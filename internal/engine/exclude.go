package engine

import "strings"

// SettingPrefix marks the settings that belong to the exported namespace.
// Everything else in the resolved configuration is ignored.
const SettingPrefix = "needs_"

// fixedExcludedVars are settings whose purpose is to load configuration from
// elsewhere rather than to hold resolved values. Writing them back out would
// produce circular or redundant entries.
var fixedExcludedVars = []string{
	"needs_from_toml",
	"needs_from_toml_table",
	"needs_schema_definitions_from_json",
}

// FixedExcludedVars returns a copy of the fixed exclusion set.
func FixedExcludedVars() []string {
	out := make([]string, len(fixedExcludedVars))
	copy(out, fixedExcludedVars)
	return out
}

// ExcludeSettings returns a copy of the settings map without the fixed
// excluded keys, the extra excluded keys, and keys outside the exported
// namespace. Pure; missing keys are simply absent from the result.
func ExcludeSettings(settings map[string]any, extra []string) map[string]any {
	excluded := make(map[string]bool, len(fixedExcludedVars)+len(extra))
	for _, name := range fixedExcludedVars {
		excluded[name] = true
	}
	for _, name := range extra {
		excluded[name] = true
	}

	out := make(map[string]any, len(settings))
	for name, value := range settings {
		if !strings.HasPrefix(name, SettingPrefix) {
			continue
		}
		if excluded[name] {
			continue
		}
		out[name] = value
	}
	return out
}
