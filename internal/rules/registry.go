package rules

import (
	"fmt"
	"sort"

	"github.com/dshills/tilestorm/internal/window"
)

// Args are the arguments derived from a rule value.
type Args struct {
	Positional []any
	Keyword    map[string]any
}

// Condition decides whether a rule applies to a window.
type Condition interface {
	Match(w *window.Window) bool
}

// Action changes how a window is managed.
type Action interface {
	Apply(w *window.Window)
}

// ConditionFunc adapts a function to Condition.
type ConditionFunc func(w *window.Window) bool

func (f ConditionFunc) Match(w *window.Window) bool { return f(w) }

// ActionFunc adapts a function to Action.
type ActionFunc func(w *window.Window)

func (f ActionFunc) Apply(w *window.Window) { f(w) }

// ConditionKind constructs a condition from rule arguments.
type ConditionKind func(args Args) (Condition, error)

// ActionKind constructs an action from rule arguments.
type ActionKind func(args Args) (Action, error)

// Registry holds the condition and action kinds rules may use.
type Registry struct {
	conditions map[string]ConditionKind
	actions    map[string]ActionKind
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		conditions: make(map[string]ConditionKind),
		actions:    make(map[string]ActionKind),
	}
}

// DefaultRegistry creates a registry with the built-in kinds.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	registerBuiltins(r)
	return r
}

// RegisterCondition adds a condition kind.
func (r *Registry) RegisterCondition(name string, k ConditionKind) {
	r.conditions[name] = k
}

// RegisterAction adds an action kind.
func (r *Registry) RegisterAction(name string, k ActionKind) {
	r.actions[name] = k
}

// Conditions returns the condition kind names, sorted.
func (r *Registry) Conditions() []string { return sortedKeys(r.conditions) }

// Actions returns the action kind names, sorted.
func (r *Registry) Actions() []string { return sortedKeys(r.actions) }

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// argsOf derives constructor arguments from a rule value.
func argsOf(v any) Args {
	switch val := v.(type) {
	case []any:
		return Args{Positional: val}
	case map[string]any:
		return Args{Keyword: val}
	default:
		return Args{Positional: []any{val}}
	}
}

// one returns the single argument, given either positionally or as the
// keyword kw.
func (a Args) one(kw string) (any, error) {
	switch {
	case len(a.Positional) == 1 && len(a.Keyword) == 0:
		return a.Positional[0], nil
	case len(a.Positional) == 0 && len(a.Keyword) == 1:
		if v, ok := a.Keyword[kw]; ok {
			return v, nil
		}
	}
	return nil, fmt.Errorf("%w: want one argument %q", ErrBadArguments, kw)
}

func (a Args) str(kw string) (string, error) {
	v, err := a.one(kw)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %q must be a string, got %T", ErrBadArguments, kw, v)
	}
	return s, nil
}

// flag returns a boolean argument; no arguments at all means true.
func (a Args) flag(kw string) (bool, error) {
	if len(a.Positional) == 0 && len(a.Keyword) == 0 {
		return true, nil
	}
	v, err := a.one(kw)
	if err != nil {
		return false, err
	}
	switch b := v.(type) {
	case bool:
		return b, nil
	case nil:
		return true, nil
	default:
		return false, fmt.Errorf("%w: %q must be a boolean, got %T", ErrBadArguments, kw, v)
	}
}
