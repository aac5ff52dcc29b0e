package engine

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Decision is the outcome of comparing the new document against the
// previously persisted one.
type Decision string

const (
	// DecisionCreated means no file existed; the document will be written.
	DecisionCreated Decision = "created"
	// DecisionUnchanged means the existing file already matches.
	DecisionUnchanged Decision = "unchanged"
	// DecisionOverwritten means the content differs and will be replaced.
	DecisionOverwritten Decision = "overwritten"
	// DecisionSkippedSilently means the content differs but overwriting is
	// disabled and no diff warning was requested.
	DecisionSkippedSilently Decision = "skipped"
	// DecisionSkippedWithWarning means the content differs, a diff warning
	// was emitted, and overwriting is disabled.
	DecisionSkippedWithWarning Decision = "skipped_with_warning"
)

// ShouldWrite reports whether the decision requires writing the document.
func (d Decision) ShouldWrite() bool {
	return d == DecisionCreated || d == DecisionOverwritten
}

// maxDiffLines caps the diff preview embedded in warnings.
const maxDiffLines = 50

// Reconcile compares the freshly serialized document against the existing
// file content and decides what to do. present is false when no file exists
// at the target location. Comparison is exact content equality; a diff is a
// normal outcome, never an error.
func Reconcile(newContent, existing []byte, present bool, warnOnDiff, overwrite bool) (Decision, string, []Message) {
	if !present {
		return DecisionCreated, "", nil
	}
	if bytes.Equal(existing, newContent) {
		return DecisionUnchanged, "", nil
	}

	var diff string
	var msgs []Message
	if warnOnDiff {
		diff = unifiedDiff(existing, newContent)
		msgs = append(msgs, Warningf(SubtypeContentDiff,
			"content of existing file differs from new configuration:\n%s", diffPreview(diff)))
	}

	if overwrite {
		return DecisionOverwritten, diff, msgs
	}
	if warnOnDiff {
		return DecisionSkippedWithWarning, diff, msgs
	}
	return DecisionSkippedSilently, diff, msgs
}

// unifiedDiff renders a unified diff between the existing and new content.
func unifiedDiff(existing, newContent []byte) string {
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(existing)),
		B:        difflib.SplitLines(string(newContent)),
		FromFile: "existing",
		ToFile:   "new",
		Context:  3,
	})
	if err != nil {
		return ""
	}
	return text
}

// diffPreview truncates a diff to maxDiffLines for log output.
func diffPreview(diff string) string {
	lines := strings.SplitAfter(diff, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) <= maxDiffLines {
		return diff
	}
	preview := strings.Join(lines[:maxDiffLines], "")
	return preview + fmt.Sprintf("\n... (%d more lines)", len(lines)-maxDiffLines)
}
