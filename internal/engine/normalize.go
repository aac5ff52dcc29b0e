package engine

import (
	"fmt"
	"math"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"needscfg/internal/paths"
)

// normalizer walks a configuration value and produces its TOML-serializable
// form. Every filtering or conversion decision is recorded as a message;
// normalization never aborts.
type normalizer struct {
	outpath string
	fields  []RelativePathField
	msgs    []Message
}

func (n *normalizer) warn(subtype Subtype, format string, args ...any) {
	n.msgs = append(n.msgs, Warningf(subtype, format, args...))
}

func (n *normalizer) info(subtype Subtype, format string, args ...any) {
	n.msgs = append(n.msgs, Infof(subtype, format, args...))
}

// normalize converts a value into the canonical value model. The second
// return value is false when the value was filtered out entirely.
//
// Canonical scalars are string, int64, float64, bool, time.Time and the
// go-toml local date/time types. Collections normalize to map[string]any
// and []any with filtered entries dropped.
func (n *normalizer) normalize(v any, fieldPath string) (any, bool) {
	if v == nil {
		// The output format has no null; the key disappears instead.
		return nil, false
	}

	switch val := v.(type) {
	case Path:
		return n.normalizePath(string(val), fieldPath), true
	case string:
		return n.normalizeString(val, fieldPath), true
	case bool:
		return val, true
	case int:
		return int64(val), true
	case int8:
		return int64(val), true
	case int16:
		return int64(val), true
	case int32:
		return int64(val), true
	case int64:
		return val, true
	case uint:
		return n.normalizeUint(uint64(val), fieldPath)
	case uint8:
		return int64(val), true
	case uint16:
		return int64(val), true
	case uint32:
		return int64(val), true
	case uint64:
		return n.normalizeUint(val, fieldPath)
	case float32:
		return float64(val), true
	case float64:
		return val, true
	case time.Time:
		return val, true
	case toml.LocalDate, toml.LocalDateTime, toml.LocalTime:
		return val, true
	case map[string]any:
		return n.normalizeMapFast(val, fieldPath)
	case []any:
		return n.normalizeSliceFast(val, fieldPath)
	}

	return n.normalizeReflect(v, fieldPath)
}

// normalizeUint keeps unsigned values that fit the output format's integer
// range and drops the rest.
func (n *normalizer) normalizeUint(val uint64, fieldPath string) (any, bool) {
	if val > math.MaxInt64 {
		n.warn(SubtypeUnsupportedType,
			"unsupported value at %q: %d overflows the integer range - filtering out", fieldPath, val)
		return nil, false
	}
	return int64(val), true
}

// normalizePath converts a path value to its string form. Absolute paths at
// allowlisted fields are rewritten relative to the output file; everything
// else converts with a warning.
func (n *normalizer) normalizePath(p, fieldPath string) string {
	if _, ok := n.matchField(fieldPath); ok && n.outpath != "" && filepath.IsAbs(p) {
		rel := paths.Relativize(p, n.outpath)
		n.info(SubtypePathRelativization, "relativizing path at %q: %s -> %s", fieldPath, p, rel)
		return rel
	}
	n.warn(SubtypePathConversion, "converting path to string at %q: %s", fieldPath, p)
	return p
}

// normalizeString relativizes string values at allowlisted fields that look
// like absolute paths, honoring the field's prefix/suffix wrapping.
func (n *normalizer) normalizeString(s, fieldPath string) string {
	rule, ok := n.matchField(fieldPath)
	if !ok || n.outpath == "" {
		return s
	}

	candidate := s
	if rule.Prefix != "" {
		if !strings.HasPrefix(candidate, rule.Prefix) {
			return s
		}
		candidate = candidate[len(rule.Prefix):]
	}
	if rule.Suffix != "" {
		if !strings.HasSuffix(candidate, rule.Suffix) {
			return s
		}
		candidate = candidate[:len(candidate)-len(rule.Suffix)]
	}

	if !filepath.IsAbs(candidate) || !strings.ContainsAny(candidate, `/\`) {
		return s
	}

	rel := paths.Relativize(candidate, n.outpath)
	result := rule.Prefix + rel + rule.Suffix
	n.info(SubtypePathRelativization, "relativizing string path at %q: %s -> %s", fieldPath, s, result)
	return result
}

// matchField returns the first relativization rule matching the field path.
func (n *normalizer) matchField(fieldPath string) (RelativePathField, bool) {
	for _, f := range n.fields {
		if f.Field == "" {
			continue
		}
		if paths.MatchesFieldPattern(fieldPath, f.Field) {
			return f, true
		}
	}
	return RelativePathField{}, false
}

func (n *normalizer) normalizeMapFast(val map[string]any, fieldPath string) (any, bool) {
	out := make(map[string]any, len(val))
	for key, child := range val {
		safe, ok := n.normalize(child, childPath(fieldPath, key))
		if !ok {
			continue
		}
		out[key] = safe
	}
	return out, true
}

func (n *normalizer) normalizeSliceFast(val []any, fieldPath string) (any, bool) {
	out := make([]any, 0, len(val))
	for i, item := range val {
		safe, ok := n.normalize(item, fmt.Sprintf("%s[%d]", fieldPath, i))
		if !ok {
			continue
		}
		out = append(out, safe)
	}
	return out, true
}

// normalizeReflect handles the remaining collection shapes: typed maps,
// typed slices and arrays, and sets (maps with struct{} values). Anything
// else is dropped with a warning.
func (n *normalizer) normalizeReflect(v any, fieldPath string) (any, bool) {
	rv := reflect.ValueOf(v)

	if rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
			if rv.IsNil() {
				return nil, false
			}
			rv = rv.Elem()
		}
		// Re-enter so the unwrapped value hits the concrete-type cases.
		return n.normalize(rv.Interface(), fieldPath)
	}

	switch rv.Kind() {
	case reflect.Map:
		if isSetType(rv.Type()) {
			return n.normalizeSet(rv, fieldPath)
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			key := stringifyKey(iter.Key())
			safe, ok := n.normalize(iter.Value().Interface(), childPath(fieldPath, key))
			if !ok {
				continue
			}
			out[key] = safe
		}
		return out, true

	case reflect.Slice, reflect.Array:
		out := make([]any, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			safe, ok := n.normalize(rv.Index(i).Interface(), fmt.Sprintf("%s[%d]", fieldPath, i))
			if !ok {
				continue
			}
			out = append(out, safe)
		}
		return out, true

	// Named scalar types normalize like their underlying kind.
	case reflect.String:
		return n.normalizeString(rv.String(), fieldPath), true
	case reflect.Bool:
		return rv.Bool(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return n.normalizeUint(rv.Uint(), fieldPath)
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}

	n.warn(SubtypeUnsupportedType,
		"unsupported type at %q: %s - filtering out", fieldPath, reflect.TypeOf(v).String())
	return nil, false
}

// normalizeSet converts a set to a sequence. The set's iteration order is
// non-significant, so elements are sorted eagerly to keep the canonical
// document independent of it.
func (n *normalizer) normalizeSet(rv reflect.Value, fieldPath string) (any, bool) {
	out := make([]any, 0, rv.Len())
	i := 0
	iter := rv.MapRange()
	for iter.Next() {
		safe, ok := n.normalize(iter.Key().Interface(), fmt.Sprintf("%s[%d]", fieldPath, i))
		i++
		if !ok {
			continue
		}
		out = append(out, safe)
	}
	sortPrimitives(out)
	return out, true
}

// isSetType reports whether a map type represents a set (struct{} values).
func isSetType(t reflect.Type) bool {
	return t.Elem().Kind() == reflect.Struct && t.Elem().NumField() == 0
}

func stringifyKey(key reflect.Value) string {
	if key.Kind() == reflect.String {
		return key.String()
	}
	return fmt.Sprint(key.Interface())
}

func childPath(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}
