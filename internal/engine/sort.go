package engine

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// SortRule describes how a sequence at a given field path is ordered.
type SortRule int

const (
	// SortPreserveOrder keeps the sequence's original order. Nested values
	// are still sorted recursively.
	SortPreserveOrder SortRule = iota
	// SortAsPrimitives orders elements by a total order over primitives.
	SortAsPrimitives
	// SortByKey orders record elements by the value of a named field.
	SortByKey
)

type listRule struct {
	rule SortRule
	key  string
}

// listSortRules maps field paths inside the needs table to ordering rules.
// Statically known; unlisted paths preserve their order.
var listSortRules = map[string]listRule{
	"external_needs":      {SortByKey, "id_prefix"},
	"extra_links":         {SortByKey, "option"},
	"flow_link_types":     {SortAsPrimitives, ""},
	"json_exclude_fields": {SortAsPrimitives, ""},
	"statuses":            {SortByKey, "name"},
	"tags":                {SortByKey, "name"},
	"types":               {SortByKey, "title"},
	"variant_options":     {SortAsPrimitives, ""},
}

// mixedShapeField holds either plain strings or records; its elements'
// shape decides the ordering at sort time.
const mixedShapeField = "extra_options"

// sortTree returns a copy of the needs table with every sequence ordered by
// its field path's rule. Mapping key order is imposed later by the
// deterministic encoder, which writes map keys alphabetically.
//
// Sorting is idempotent and a pure function of the normalized tree.
func sortTree(attrs map[string]any) map[string]any {
	sorted, _ := sortValue(attrs, "").(map[string]any)
	return sorted
}

func sortValue(v any, path string) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for key, child := range val {
			out[key] = sortValue(child, childPath(path, key))
		}
		return out

	case []any:
		// Recurse first so nested collections are sorted regardless of the
		// sequence's own rule. Elements share one path so array items are
		// not treated as named fields.
		items := make([]any, len(val))
		for i, item := range val {
			items[i] = sortValue(item, path+"[]")
		}

		if path == mixedShapeField {
			return sortMixedShape(items)
		}

		r, ok := listSortRules[path]
		if !ok {
			return items
		}
		switch r.rule {
		case SortAsPrimitives:
			if allPrimitives(items) {
				sortPrimitives(items)
			}
		case SortByKey:
			if allMappings(items) {
				sortByKey(items, r.key)
			}
		}
		return items
	}

	return v
}

// sortMixedShape resolves the element shape of the mixed-format list once
// and applies the matching rule: records sort by their "name" field, plain
// strings sort as primitives, anything else keeps its order.
func sortMixedShape(items []any) []any {
	if len(items) == 0 {
		return items
	}
	if allMappings(items) {
		if allHaveKey(items, "name") {
			sortByKey(items, "name")
		}
		return items
	}
	if allStrings(items) {
		sortPrimitives(items)
	}
	return items
}

// sortByKey orders record elements by the named field. Elements missing the
// field sort first; ties keep their original relative order (stable).
func sortByKey(items []any, key string) {
	sort.SliceStable(items, func(i, j int) bool {
		mi := items[i].(map[string]any)
		mj := items[j].(map[string]any)
		vi, iok := mi[key]
		vj, jok := mj[key]
		if iok != jok {
			return !iok
		}
		if !iok {
			return false
		}
		return comparePrimitives(vi, vj) < 0
	})
}

// sortPrimitives orders elements by (type name, value), giving a total
// order across mixed primitive types.
func sortPrimitives(items []any) {
	sort.SliceStable(items, func(i, j int) bool {
		return comparePrimitives(items[i], items[j]) < 0
	})
}

// comparePrimitives is a total order over canonical scalar values: type
// name first, then the value itself.
func comparePrimitives(a, b any) int {
	at, bt := typeName(a), typeName(b)
	if at != bt {
		return strings.Compare(at, bt)
	}

	switch av := a.(type) {
	case string:
		return strings.Compare(av, b.(string))
	case int64:
		bv := b.(int64)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	case float64:
		bv := b.(float64)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	case bool:
		bv := b.(bool)
		switch {
		case !av && bv:
			return -1
		case av && !bv:
			return 1
		}
		return 0
	}

	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	return reflect.TypeOf(v).String()
}

func allPrimitives(items []any) bool {
	for _, item := range items {
		switch item.(type) {
		case map[string]any, []any:
			return false
		}
	}
	return true
}

func allMappings(items []any) bool {
	if len(items) == 0 {
		return false
	}
	for _, item := range items {
		if _, ok := item.(map[string]any); !ok {
			return false
		}
	}
	return true
}

func allStrings(items []any) bool {
	if len(items) == 0 {
		return false
	}
	for _, item := range items {
		if _, ok := item.(string); !ok {
			return false
		}
	}
	return true
}

func allHaveKey(items []any, key string) bool {
	for _, item := range items {
		m := item.(map[string]any)
		if _, ok := m[key]; !ok {
			return false
		}
	}
	return true
}
