package loader

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// decodeFunc turns the bytes of a document into a tree. name is used in
// error messages only.
type decodeFunc func(name string, data []byte) (map[string]any, error)

// decoders maps a lower-case extension to its decoder.
var decoders = map[string]decodeFunc{
	".yaml": decodeYAML,
	".yml":  decodeYAML,
	".json": decodeJSON,
	".toml": decodeTOML,
}

func decodeYAML(name string, data []byte) (map[string]any, error) {
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, &ParseError{Path: name, Message: err.Error(), Err: err}
	}
	return stringKeys(tree), nil
}

// decodeJSON accepts comments and trailing commas. jsonc blanks them in
// place, so syntax error offsets still point into the original text.
func decodeJSON(name string, data []byte) (map[string]any, error) {
	var tree map[string]any
	err := json.Unmarshal(jsonc.ToJSON(data), &tree)
	if err == nil {
		return tree, nil
	}
	perr := &ParseError{Path: name, Message: err.Error(), Err: err}
	var serr *json.SyntaxError
	if errors.As(err, &serr) {
		perr.Line, perr.Column = position(data, serr.Offset)
	}
	return nil, perr
}

func decodeTOML(name string, data []byte) (map[string]any, error) {
	var tree map[string]any
	err := toml.Unmarshal(data, &tree)
	if err == nil {
		return tree, nil
	}
	perr := &ParseError{Path: name, Message: err.Error(), Err: err}
	var derr *toml.DecodeError
	if errors.As(err, &derr) {
		perr.Line, perr.Column = derr.Position()
	}
	return nil, perr
}

// stringKeys rewrites YAML mappings with non-string keys, such as
// `1: Tile`, so every mapping in the tree is a map[string]any.
func stringKeys(tree map[string]any) map[string]any {
	for k, v := range tree {
		tree[k] = stringKeysValue(v)
	}
	return tree
}

func stringKeysValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return stringKeys(t)
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = stringKeysValue(val)
		}
		return out
	case []any:
		for i := range t {
			t[i] = stringKeysValue(t[i])
		}
		return t
	}
	return v
}
