// Package paths resolves output path templates and matches configuration
// field paths against relativization patterns.
package paths

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const (
	// OutdirPlaceholder expands to the build output directory.
	OutdirPlaceholder = "${outdir}"
	// SrcdirPlaceholder expands to the documentation source directory.
	SrcdirPlaceholder = "${srcdir}"
)

// ResolveTemplate resolves a path template with ${outdir} and ${srcdir}
// placeholders. Relative paths are resolved against confdir (the directory
// holding the project configuration file).
func ResolveTemplate(template, outdir, srcdir, confdir string) string {
	path := strings.ReplaceAll(template, OutdirPlaceholder, outdir)
	path = strings.ReplaceAll(path, SrcdirPlaceholder, srcdir)

	if !filepath.IsAbs(path) {
		path = filepath.Join(confdir, path)
	}
	return filepath.Clean(path)
}

// MatchesFieldPattern reports whether a configuration field path matches a
// relativization pattern.
//
// Field paths use the traversal form "needs.external_needs[0].json_path"
// while patterns use the setting-name form "needs_external_needs[*].json_path".
// A '*' in the pattern matches any sequence of characters; everything else,
// including '[' and ']', is literal.
func MatchesFieldPattern(fieldPath, pattern string) bool {
	// Convert the traversal form to the setting-name form for matching.
	if rest, ok := strings.CutPrefix(fieldPath, "needs."); ok {
		fieldPath = "needs_" + rest
	}

	quoted := regexp.QuoteMeta(pattern)
	quoted = strings.ReplaceAll(quoted, `\*`, ".*")

	re, err := regexp.Compile("^" + quoted + "$")
	if err != nil {
		return false
	}
	return re.MatchString(fieldPath)
}

// Relativize converts an absolute path to a path relative to the base
// location (typically the output file). Symlinks are resolved on both sides
// so that paths under build caches compare against their real locations.
// If no relative path can be computed the absolute path is returned as-is.
func Relativize(target, base string) string {
	target = resolveExisting(target)
	base = resolveExisting(base)

	// The base is normally the output file path; relativize against its
	// directory. Only an existing directory is used as-is.
	if fi, err := os.Stat(base); err != nil || !fi.IsDir() {
		base = filepath.Dir(base)
	}

	rel, err := filepath.Rel(base, target)
	if err != nil {
		// No common root (e.g. different volumes); keep the absolute path.
		return filepath.ToSlash(target)
	}
	return filepath.ToSlash(rel)
}

// resolveExisting resolves symlinks for paths that exist and leaves
// not-yet-created paths untouched.
func resolveExisting(path string) string {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return resolved
}
