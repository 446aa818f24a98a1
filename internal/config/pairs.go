package config

import "sort"

// Pair is one key/value entry of a configuration mapping.
type Pair struct {
	Key   string
	Value any
}

// Pairs returns the entries of a mapping section in a stable order.
//
// Go maps are unordered, so authors who care about order write the
// section as a list of single-entry mappings:
//
//	groups:
//	- main: Tile
//	- web: examples.Stack
//
// A list keeps its order. A plain mapping is returned sorted by key.
func Pairs(section string, v any) ([]Pair, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return sortedPairs(val), nil
	case []any:
		var out []Pair
		for _, item := range val {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, &ShapeError{Section: section, Expected: "list of mappings", Actual: typeName(item)}
			}
			out = append(out, sortedPairs(m)...)
		}
		return out, nil
	default:
		return nil, &ShapeError{Section: section, Expected: "mapping", Actual: typeName(v)}
	}
}

func sortedPairs(m map[string]any) []Pair {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]Pair, 0, len(keys))
	for _, k := range keys {
		out = append(out, Pair{Key: k, Value: m[k]})
	}
	return out
}
