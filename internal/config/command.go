package config

import (
	"fmt"

	"github.com/google/shlex"
)

// Command normalizes a command declaration to a token list. A string is
// split with shell quoting rules; a list is used as is.
func Command(v any) ([]string, error) {
	switch val := v.(type) {
	case string:
		tokens, err := shlex.Split(val)
		if err != nil {
			return nil, fmt.Errorf("splitting command %q: %w", val, err)
		}
		return tokens, nil
	case []string:
		return append([]string(nil), val...), nil
	case []any:
		out := make([]string, len(val))
		for i, item := range val {
			switch item.(type) {
			case map[string]any, []any, nil:
				return nil, &TypeError{Path: "command", Expected: "list of scalars", Actual: typeName(item)}
			}
			out[i] = fmt.Sprint(item)
		}
		return out, nil
	default:
		return nil, &TypeError{Path: "command", Expected: "string or list", Actual: typeName(v)}
	}
}
