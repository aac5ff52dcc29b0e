package engine

import (
	"fmt"
	"reflect"
	"strings"

	"needscfg/internal/tomldoc"
)

// Resolved is the host's fully resolved configuration: the flat namespace of
// settings after all loading, merging and defaulting has completed.
type Resolved struct {
	// Settings maps setting names (with the namespace prefix) to values.
	Settings map[string]any

	// Explicit marks settings that were explicitly present in the
	// configuration sources, as opposed to filled in from defaults.
	Explicit map[string]bool

	// Defaults maps setting names to their registered default values.
	// Consulted only when Options.ExcludeDefaults is set.
	Defaults map[string]any
}

// Result carries the canonical document and the reconciliation outcome of
// one export invocation.
type Result struct {
	// Tree is the canonical value tree, ready for serialization.
	Tree map[string]any
	// Document is the canonical serialized form, header included.
	Document []byte
	// Decision says whether the document should be written.
	Decision Decision
	// Diff is the unified diff against the existing content, when computed.
	Diff string
	// Messages are the diagnostics collected along the way.
	Messages []Message
}

// Export normalizes the resolved configuration into a canonical document and
// reconciles it against the existing file content. It is a pure function of
// its inputs: no file I/O, no hidden state. existing/present describe the
// previously persisted document at the target location.
func Export(resolved Resolved, existing []byte, present bool, opts Options) (*Result, error) {
	n := &normalizer{outpath: opts.Outpath, fields: opts.RelativePathFields}

	attrs := make(map[string]any)
	for name, value := range ExcludeSettings(resolved.Settings, opts.ExcludeVars) {
		short := strings.TrimPrefix(name, SettingPrefix)

		safe, ok := n.normalize(value, "needs."+short)
		if !ok {
			continue
		}

		if opts.ExcludeDefaults {
			if def, registered := resolved.Defaults[name]; registered && reflect.DeepEqual(value, def) {
				continue
			}
		}
		if !opts.WriteAll && !resolved.Explicit[name] {
			continue
		}
		attrs[short] = safe
	}

	msgs := n.msgs

	// Shallow-merge additional documents: their needs table folds into the
	// attributes before sorting, other root tables are carried alongside.
	additional := make(map[string]any)
	for _, doc := range opts.MergeDocs {
		for key, value := range doc.Data {
			if key == rootTableName {
				table, ok := toGeneric(value).(map[string]any)
				if !ok {
					msgs = append(msgs, Warningf(SubtypeConfigError,
						"merge source %q: root key %q is not a table - ignoring", doc.Source, key))
					continue
				}
				for k, v := range table {
					attrs[k] = v
				}
			} else {
				additional[key] = toGeneric(value)
			}
		}
		msgs = append(msgs, Infof(SubtypeMerge, "merged TOML configuration from %q", doc.Source))
	}

	root := make(map[string]any, len(additional)+1)
	root[rootTableName] = sortTree(attrs)
	for key, value := range additional {
		root[key] = value
	}

	document, err := tomldoc.Encode(root, opts.AddHeader)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize canonical document: %w", err)
	}

	decision, diff, reconcileMsgs := Reconcile(document, existing, present, opts.WarnOnDiff, opts.Overwrite)
	msgs = append(msgs, reconcileMsgs...)

	return &Result{
		Tree:     root,
		Document: document,
		Decision: decision,
		Diff:     diff,
		Messages: msgs,
	}, nil
}

// rootTableName is the table holding the exported settings in the output
// document.
const rootTableName = "needs"

// toGeneric coerces decoded TOML values into the canonical collection shapes
// (map[string]any and []any) so sorting and encoding treat merged data the
// same way as normalized data. Scalars pass through unchanged; merge sources
// are TOML documents, so their scalars are already canonical.
func toGeneric(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, child := range val {
			out[k] = toGeneric(child)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = toGeneric(item)
		}
		return out
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[stringifyKey(iter.Key())] = toGeneric(iter.Value().Interface())
		}
		return out
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = toGeneric(rv.Index(i).Interface())
		}
		return out
	}
	return v
}
