package layer

import (
	"strconv"
	"strings"
)

// Shadow copies every top-level key of src over acc. A section present in
// src hides the whole section of the same name in acc.
func Shadow(acc, src map[string]any) map[string]any {
	if acc == nil {
		acc = map[string]any{}
	}
	for k, v := range src {
		acc[k] = copyValue(v)
	}
	return acc
}

// DeepMerge folds src into acc recursively. Where both sides hold a map
// the maps are merged; anything else in src replaces the value in acc.
func DeepMerge(acc, src map[string]any) map[string]any {
	if acc == nil {
		acc = map[string]any{}
	}
	for k, v := range src {
		sub, isMap := v.(map[string]any)
		prev, prevIsMap := acc[k].(map[string]any)
		if isMap && prevIsMap {
			acc[k] = DeepMerge(prev, sub)
			continue
		}
		acc[k] = copyValue(v)
	}
	return acc
}

// Lookup walks a dotted path such as "bars.0.screen". Numeric segments
// index into lists.
func Lookup(data map[string]any, path string) (any, bool) {
	if data == nil || path == "" {
		return nil, false
	}

	var cur any = data
	for _, seg := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]any:
			v, ok := node[seg]
			if !ok {
				return nil, false
			}
			cur = v
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(node) {
				return nil, false
			}
			cur = node[i]
		default:
			return nil, false
		}
	}
	return cur, true
}

func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return copyMap(t)
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = copyValue(t[i])
		}
		return out
	}
	return v
}

func copyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = copyValue(v)
	}
	return out
}
