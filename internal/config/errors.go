package config

import (
	"errors"
	"fmt"
)

var (
	ErrSettingNotFound = errors.New("setting not found")
	ErrTypeMismatch    = errors.New("type mismatch")
	ErrNotLoaded       = errors.New("config not loaded")
)

// TypeError is a scalar setting of the wrong type.
type TypeError struct {
	Path     string
	Expected string
	Actual   string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("setting %q: want %s, have %s", e.Path, e.Expected, e.Actual)
}

func (e *TypeError) Is(target error) bool { return target == ErrTypeMismatch }

// ShapeError is a section whose structure is wrong, such as a list where
// a mapping belongs.
type ShapeError struct {
	Section  string
	Expected string
	Actual   string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("config section %q: expected %s, got %s", e.Section, e.Expected, e.Actual)
}

func (e *ShapeError) Is(target error) bool { return target == ErrTypeMismatch }

// typeName names the decoded type of v the way a config author sees it.
func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "bool"
	case int, int64, uint64:
		return "int"
	case float64:
		return "float"
	case []any:
		return "list"
	case map[string]any:
		return "mapping"
	}
	return fmt.Sprintf("%T", v)
}
