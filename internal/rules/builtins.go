package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dshills/tilestorm/internal/window"
)

// WindowTypePrefix is prepended to short window type names in has-type.
const WindowTypePrefix = "_NET_WM_WINDOW_TYPE_"

func registerBuiltins(r *Registry) {
	r.RegisterCondition("title", equals("title", func(w *window.Window) string { return w.Title }))
	r.RegisterCondition("class", equals("class", func(w *window.Window) string { return w.Class }))
	r.RegisterCondition("instance", equals("instance", func(w *window.Window) string { return w.Instance }))
	r.RegisterCondition("role", equals("role", func(w *window.Window) string { return w.Role }))
	r.RegisterCondition("match-title", matches("pattern", func(w *window.Window) string { return w.Title }))
	r.RegisterCondition("match-role", matches("pattern", func(w *window.Window) string { return w.Role }))
	r.RegisterCondition("has-type", hasType)

	r.RegisterAction("float", setFlag("float", func(w *window.Window, v bool) { w.Floating = v }))
	r.RegisterAction("ignore-hints", setFlag("ignore-hints", func(w *window.Window, v bool) { w.IgnoreHints = v }))
	r.RegisterAction("move-to-group", moveToGroup)
	r.RegisterAction("layout-properties", layoutProperties)
	r.RegisterAction("border-width", borderWidth)
}

func equals(kw string, get func(*window.Window) string) ConditionKind {
	return func(args Args) (Condition, error) {
		want, err := args.str(kw)
		if err != nil {
			return nil, err
		}
		return ConditionFunc(func(w *window.Window) bool { return get(w) == want }), nil
	}
}

func matches(kw string, get func(*window.Window) string) ConditionKind {
	return func(args Args) (Condition, error) {
		pattern, err := args.str(kw)
		if err != nil {
			return nil, err
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadArguments, err)
		}
		return ConditionFunc(func(w *window.Window) bool { return re.MatchString(get(w)) }), nil
	}
}

func hasType(args Args) (Condition, error) {
	name, err := args.str("type")
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(name, "_") {
		name = WindowTypePrefix + strings.ToUpper(name)
	}
	return ConditionFunc(func(w *window.Window) bool { return w.HasType(name) }), nil
}

func setFlag(kw string, set func(*window.Window, bool)) ActionKind {
	return func(args Args) (Action, error) {
		v, err := args.flag(kw)
		if err != nil {
			return nil, err
		}
		return ActionFunc(func(w *window.Window) { set(w, v) }), nil
	}
}

func moveToGroup(args Args) (Action, error) {
	v, err := args.one("group")
	if err != nil {
		return nil, err
	}
	var group string
	switch g := v.(type) {
	case string:
		group = g
	case int:
		group = fmt.Sprint(g)
	default:
		return nil, fmt.Errorf("%w: group must be a name, got %T", ErrBadArguments, v)
	}
	return ActionFunc(func(w *window.Window) { w.TargetGroup = group }), nil
}

func layoutProperties(args Args) (Action, error) {
	if len(args.Positional) != 0 || len(args.Keyword) == 0 {
		return nil, fmt.Errorf("%w: layout-properties takes a mapping", ErrBadArguments)
	}
	props := make(map[string]any, len(args.Keyword))
	for k, v := range args.Keyword {
		props[k] = v
	}
	return ActionFunc(func(w *window.Window) {
		if w.LayoutProps == nil {
			w.LayoutProps = make(map[string]any, len(props))
		}
		for k, v := range props {
			w.LayoutProps[k] = v
		}
	}), nil
}

func borderWidth(args Args) (Action, error) {
	v, err := args.one("width")
	if err != nil {
		return nil, err
	}
	n, ok := v.(int)
	if !ok || n < 0 {
		return nil, fmt.Errorf("%w: border width must be a non-negative integer, got %v", ErrBadArguments, v)
	}
	return ActionFunc(func(w *window.Window) {
		width := n
		w.Border = &width
	}), nil
}
