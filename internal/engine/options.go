package engine

// RelativePathField selects configuration fields whose absolute path values
// are rewritten relative to the output file before serialization.
//
// Field is a pattern over setting-name form paths, e.g. "needs_build_json"
// or "needs_external_needs[*].json_path" ('*' matches any sequence).
// Prefix and Suffix allow matching paths embedded inside larger strings:
// the wrapping text is stripped before the path check and restored after
// relativization.
type RelativePathField struct {
	Field  string `mapstructure:"field"`
	Prefix string `mapstructure:"prefix"`
	Suffix string `mapstructure:"suffix"`
}

// MergeDoc is a decoded TOML document merged into the output. The caller
// reads and parses merge sources; the engine only sees their content.
type MergeDoc struct {
	// Source names the document's origin for log messages.
	Source string
	// Data is the decoded root table.
	Data map[string]any
}

// Options is the policy surface for one export invocation. Immutable for
// the duration of the invocation.
type Options struct {
	// Outpath is the resolved output file path. Used as the base for path
	// relativization; may be empty, which disables relativization.
	Outpath string

	// WarnOnDiff emits a warning with a content diff when the existing
	// document differs from the new one.
	WarnOnDiff bool

	// Overwrite allows replacing an existing document whose content differs.
	Overwrite bool

	// WriteAll exports every resolved setting instead of only those
	// explicitly present in the configuration sources.
	WriteAll bool

	// ExcludeDefaults skips settings whose resolved value equals the
	// registered default.
	ExcludeDefaults bool

	// AddHeader prepends the generated-file warning comment.
	AddHeader bool

	// ExcludeVars lists setting names excluded in addition to the fixed
	// exclusion set.
	ExcludeVars []string

	// RelativePathFields selects fields for path relativization.
	RelativePathFields []RelativePathField

	// MergeDocs are additional documents shallow-merged into the output.
	MergeDocs []MergeDoc
}

// DefaultOptions returns the option defaults recognized by the engine.
func DefaultOptions() Options {
	return Options{
		Overwrite: true,
		AddHeader: true,
	}
}
