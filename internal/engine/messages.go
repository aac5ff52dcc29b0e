package engine

import "fmt"

// Subtype categorizes a diagnostic message emitted by the engine.
type Subtype string

const (
	// SubtypeConfigError flags a malformed option value.
	SubtypeConfigError Subtype = "config_error"
	// SubtypeContentDiff reports that the existing document differs from the
	// newly produced one.
	SubtypeContentDiff Subtype = "content_diff"
	// SubtypeMergeFailed reports a merge source that could not be read or parsed.
	SubtypeMergeFailed Subtype = "merge_failed"
	// SubtypePathConversion reports a path value converted to its string form.
	SubtypePathConversion Subtype = "path_conversion"
	// SubtypeUnsupportedType reports a value dropped because it cannot be
	// represented in the output document.
	SubtypeUnsupportedType Subtype = "unsupported_type"
	// SubtypePathRelativization reports a path rewritten relative to the
	// output location.
	SubtypePathRelativization Subtype = "path_relativization"
	// SubtypeMerge reports a successfully merged document.
	SubtypeMerge Subtype = "merge"
)

// Message is a diagnostic produced while normalizing or reconciling a
// configuration. Messages are observational: they are reported through the
// host's logging facility and never alter control flow.
type Message struct {
	Warning bool    `json:"warning" yaml:"warning"`
	Subtype Subtype `json:"subtype" yaml:"subtype"`
	Text    string  `json:"text" yaml:"text"`
}

// Warningf builds a warning message.
func Warningf(subtype Subtype, format string, args ...any) Message {
	return Message{Warning: true, Subtype: subtype, Text: fmt.Sprintf(format, args...)}
}

// Infof builds an informational message.
func Infof(subtype Subtype, format string, args ...any) Message {
	return Message{Subtype: subtype, Text: fmt.Sprintf(format, args...)}
}
