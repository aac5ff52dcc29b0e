package engine

import (
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func messagesOfSubtype(msgs []Message, subtype Subtype) []Message {
	var out []Message
	for _, m := range msgs {
		if m.Subtype == subtype {
			out = append(out, m)
		}
	}
	return out
}

func TestNormalize_Scalars(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  any
	}{
		{"string", "hello", "hello"},
		{"bool", true, true},
		{"int", 42, int64(42)},
		{"int32", int32(-7), int64(-7)},
		{"uint16", uint16(9), int64(9)},
		{"int64", int64(1 << 40), int64(1 << 40)},
		{"float32", float32(1.5), float64(1.5)},
		{"float64", 3.25, 3.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &normalizer{}
			got, ok := n.normalize(tt.input, "needs.field")
			if !ok {
				t.Fatal("value was filtered out")
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("normalize(%v) = %v (%T), want %v (%T)", tt.input, got, got, tt.want, tt.want)
			}
			if len(n.msgs) != 0 {
				t.Errorf("unexpected messages: %v", n.msgs)
			}
		})
	}
}

func TestNormalize_TimePassesThrough(t *testing.T) {
	n := &normalizer{}
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	got, ok := n.normalize(now, "needs.build_date")
	if !ok {
		t.Fatal("time value was filtered out")
	}
	if got != now {
		t.Errorf("got %v, want %v", got, now)
	}
}

func TestNormalize_NullElision(t *testing.T) {
	n := &normalizer{}
	input := map[string]any{
		"kept":    "value",
		"dropped": nil,
		"nested": map[string]any{
			"inner": nil,
			"ok":    int64(1),
		},
		"list": []any{"a", nil, "b"},
	}

	got, ok := n.normalize(input, "needs.table")
	if !ok {
		t.Fatal("map was filtered out")
	}

	want := map[string]any{
		"kept": "value",
		"nested": map[string]any{
			"ok": int64(1),
		},
		"list": []any{"a", "b"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if len(n.msgs) != 0 {
		t.Errorf("null elision should be silent, got messages: %v", n.msgs)
	}
}

func TestNormalize_UnsupportedType(t *testing.T) {
	n := &normalizer{}
	input := map[string]any{
		"good": "yes",
		"bad":  func() {},
	}

	got, ok := n.normalize(input, "needs.functions")
	if !ok {
		t.Fatal("map was filtered out")
	}
	m := got.(map[string]any)
	if _, present := m["bad"]; present {
		t.Error("unsupported value should be filtered out")
	}
	if m["good"] != "yes" {
		t.Errorf("sibling value lost: %v", m)
	}

	warnings := messagesOfSubtype(n.msgs, SubtypeUnsupportedType)
	if len(warnings) != 1 {
		t.Fatalf("want exactly one unsupported_type warning, got %d: %v", len(warnings), n.msgs)
	}
	if !warnings[0].Warning {
		t.Error("unsupported_type message should be a warning")
	}
}

func TestNormalize_UintOverflow(t *testing.T) {
	n := &normalizer{}
	_, ok := n.normalize(uint64(1)<<63, "needs.huge")
	if ok {
		t.Fatal("overflowing uint should be filtered out")
	}
	if got := messagesOfSubtype(n.msgs, SubtypeUnsupportedType); len(got) != 1 {
		t.Errorf("want one unsupported_type warning, got %v", n.msgs)
	}
}

func TestNormalize_PathConversionWarns(t *testing.T) {
	n := &normalizer{}
	got, ok := n.normalize(Path("/etc/needs/schema.json"), "needs.schema")
	if !ok {
		t.Fatal("path value was filtered out")
	}
	if got != "/etc/needs/schema.json" {
		t.Errorf("got %v, want plain string form", got)
	}

	warnings := messagesOfSubtype(n.msgs, SubtypePathConversion)
	if len(warnings) != 1 {
		t.Fatalf("want exactly one path_conversion warning, got %v", n.msgs)
	}
	if !warnings[0].Warning {
		t.Error("path_conversion message should be a warning")
	}
}

func TestNormalize_PathRelativization(t *testing.T) {
	dir := t.TempDir()
	outpath := filepath.Join(dir, "_build", "ubproject.toml")
	target := filepath.Join(dir, "schemas", "core.json")

	n := &normalizer{
		outpath: outpath,
		fields:  []RelativePathField{{Field: "needs_build_json"}},
	}

	got, ok := n.normalize(Path(target), "needs.build_json")
	if !ok {
		t.Fatal("path value was filtered out")
	}
	if got != "../schemas/core.json" {
		t.Errorf("got %v, want ../schemas/core.json", got)
	}

	if warnings := messagesOfSubtype(n.msgs, SubtypePathConversion); len(warnings) != 0 {
		t.Errorf("relativized path should not warn about conversion: %v", warnings)
	}
	infos := messagesOfSubtype(n.msgs, SubtypePathRelativization)
	if len(infos) != 1 || infos[0].Warning {
		t.Errorf("want one path_relativization info, got %v", n.msgs)
	}
}

func TestNormalize_StringRelativization(t *testing.T) {
	dir := t.TempDir()
	outpath := filepath.Join(dir, "_build", "ubproject.toml")
	target := filepath.Join(dir, "data", "needs.json")

	tests := []struct {
		name  string
		field RelativePathField
		input string
		want  string
	}{
		{
			name:  "bare path",
			field: RelativePathField{Field: "needs_source"},
			input: target,
			want:  "../data/needs.json",
		},
		{
			name:  "with prefix and suffix",
			field: RelativePathField{Field: "needs_source", Prefix: "file://", Suffix: "#frag"},
			input: "file://" + target + "#frag",
			want:  "file://../data/needs.json#frag",
		},
		{
			name:  "prefix missing leaves value alone",
			field: RelativePathField{Field: "needs_source", Prefix: "file://"},
			input: target,
			want:  target,
		},
		{
			name:  "relative value left alone",
			field: RelativePathField{Field: "needs_source"},
			input: "data/needs.json",
			want:  "data/needs.json",
		},
		{
			name:  "non-matching field left alone",
			field: RelativePathField{Field: "needs_other"},
			input: target,
			want:  target,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &normalizer{outpath: outpath, fields: []RelativePathField{tt.field}}
			got, ok := n.normalize(tt.input, "needs.source")
			if !ok {
				t.Fatal("string value was filtered out")
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalize_SetSortedEagerly(t *testing.T) {
	n := &normalizer{}
	got, ok := n.normalize(NewStringSet("gamma", "alpha", "beta"), "needs.flow_link_types")
	if !ok {
		t.Fatal("set was filtered out")
	}
	want := []any{"alpha", "beta", "gamma"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestNormalize_TypedCollections(t *testing.T) {
	n := &normalizer{}

	t.Run("string slice", func(t *testing.T) {
		got, ok := n.normalize([]string{"a", "b"}, "needs.tags")
		if !ok {
			t.Fatal("slice was filtered out")
		}
		if !reflect.DeepEqual(got, []any{"a", "b"}) {
			t.Errorf("got %v", got)
		}
	})

	t.Run("int-valued map", func(t *testing.T) {
		got, ok := n.normalize(map[string]int{"depth": 3}, "needs.limits")
		if !ok {
			t.Fatal("map was filtered out")
		}
		if !reflect.DeepEqual(got, map[string]any{"depth": int64(3)}) {
			t.Errorf("got %v", got)
		}
	})

	t.Run("non-string keys stringified", func(t *testing.T) {
		got, ok := n.normalize(map[int]string{7: "seven"}, "needs.lookup")
		if !ok {
			t.Fatal("map was filtered out")
		}
		if !reflect.DeepEqual(got, map[string]any{"7": "seven"}) {
			t.Errorf("got %v", got)
		}
	})
}

func TestNormalize_PointersAndNamedTypes(t *testing.T) {
	n := &normalizer{}

	t.Run("pointer unwrapped", func(t *testing.T) {
		s := "pointed"
		got, ok := n.normalize(&s, "needs.title")
		if !ok {
			t.Fatal("pointer was filtered out")
		}
		if got != "pointed" {
			t.Errorf("got %v", got)
		}
	})

	t.Run("nil pointer filtered", func(t *testing.T) {
		var s *string
		if _, ok := n.normalize(s, "needs.title"); ok {
			t.Error("nil pointer should be filtered out")
		}
	})

	t.Run("named string kind", func(t *testing.T) {
		type status string
		got, ok := n.normalize(status("open"), "needs.default_status")
		if !ok {
			t.Fatal("named string was filtered out")
		}
		if got != "open" {
			t.Errorf("got %v", got)
		}
	})
}
