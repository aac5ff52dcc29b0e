// Package engine normalizes a resolved documentation configuration into a
// deterministic, TOML-serializable canonical document and reconciles it
// against a previously written file.
//
// The engine is host-independent: it consumes the resolved configuration as
// plain data and produces the canonical serialized document plus a write
// decision. All file I/O stays with the caller; Export itself touches no
// files.
package engine

// Path is a filesystem path value inside a resolved configuration. Hosts
// that track path-typed settings use this type so the normalizer can convert
// (or relativize) them instead of dropping them as unsupported.
type Path string

// StringSet is an unordered set of strings in a resolved configuration.
// Sets are always converted to sorted sequences during normalization; their
// iteration order is intentionally non-significant.
type StringSet map[string]struct{}

// NewStringSet builds a StringSet from its members.
func NewStringSet(members ...string) StringSet {
	s := make(StringSet, len(members))
	for _, m := range members {
		s[m] = struct{}{}
	}
	return s
}
