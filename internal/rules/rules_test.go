package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/dshills/tilestorm/internal/config"
	"github.com/dshills/tilestorm/internal/window"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func rulesFor(subject string, rules ...map[string]any) []config.Pair {
	list := make([]any, len(rules))
	for i, r := range rules {
		list[i] = r
	}
	return []config.Pair{{Key: subject, Value: list}}
}

func TestCompile_SplitsConditionsAndActions(t *testing.T) {
	got, err := Compile(DefaultRegistry(), rulesFor("global", map[string]any{"title": "Firefox", "float": true}))
	require.NoError(t, err)
	require.Len(t, got, 1)

	r := got[0]
	assert.Nil(t, r.Subject)
	assert.Len(t, r.Conditions, 1)
	assert.Len(t, r.Actions, 1)

	w := &window.Window{Title: "Firefox"}
	assert.True(t, r.Matches(w))
	r.Actions[0].Apply(w)
	assert.True(t, w.Floating)
	assert.False(t, r.Matches(&window.Window{Title: "xterm"}))
}

func TestCompile_UnknownKey(t *testing.T) {
	_, err := Compile(NewRegistry(), rulesFor("global", map[string]any{"title": "Firefox", "float": true}))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownKey)

	var cerr *CompileError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "float", cerr.Key)
	assert.Equal(t, "global", cerr.Subject)
}

func TestCompile_UnknownKeyStopsBeforeLaterRules(t *testing.T) {
	applied := false
	reg := DefaultRegistry()
	reg.RegisterAction("mark", func(Args) (Action, error) {
		return ActionFunc(func(*window.Window) { applied = true }), nil
	})

	got, err := Compile(reg,
		rulesFor("global", map[string]any{"mark": true}),
		rulesFor("xterm", map[string]any{"mark": true, "bogus": 1}),
	)
	assert.ErrorIs(t, err, ErrUnknownKey)
	assert.Nil(t, got)
	assert.False(t, applied)
}

func TestCompile_EmptyActions(t *testing.T) {
	_, err := Compile(DefaultRegistry(), rulesFor("xterm", map[string]any{"title": "x", "role": "y"}))
	assert.ErrorIs(t, err, ErrEmptyActions)

	_, err = Compile(DefaultRegistry(), rulesFor("xterm", map[string]any{}))
	assert.ErrorIs(t, err, ErrEmptyActions)
}

func TestCompile_BadArguments(t *testing.T) {
	tests := []struct {
		name string
		rule map[string]any
	}{
		{"regexp", map[string]any{"match-title": "(", "float": true}},
		{"title type", map[string]any{"title": 3, "float": true}},
		{"float type", map[string]any{"float": "yes"}},
		{"border", map[string]any{"border-width": -1}},
		{"props", map[string]any{"layout-properties": "x"}},
		{"two args", map[string]any{"title": []any{"a", "b"}, "float": true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(DefaultRegistry(), rulesFor("global", tt.rule))
			assert.ErrorIs(t, err, ErrBadArguments)
		})
	}
}

func TestCompile_Malformed(t *testing.T) {
	_, err := Compile(DefaultRegistry(), []config.Pair{{Key: "global", Value: "float"}})
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = Compile(DefaultRegistry(), []config.Pair{{Key: "global", Value: []any{"float"}}})
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestCompile_ArgumentShapes(t *testing.T) {
	var seen []Args
	reg := NewRegistry()
	reg.RegisterAction("record", func(a Args) (Action, error) {
		seen = append(seen, a)
		return ActionFunc(func(*window.Window) {}), nil
	})

	_, err := Compile(reg,
		rulesFor("a", map[string]any{"record": []any{1, 2}}),
		rulesFor("b", map[string]any{"record": map[string]any{"k": "v"}}),
		rulesFor("c", map[string]any{"record": "x"}),
	)
	require.NoError(t, err)
	assert.Equal(t, []Args{
		{Positional: []any{1, 2}},
		{Keyword: map[string]any{"k": "v"}},
		{Positional: []any{"x"}},
	}, seen)
}

func TestCompile_SourceOrder(t *testing.T) {
	got, err := Compile(DefaultRegistry(),
		rulesFor("xterm", map[string]any{"move-to-group": "doc"}),
		rulesFor("xterm", map[string]any{"move-to-group": "inline"}),
	)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "xterm", *got[0].Subject)

	w := &window.Window{Class: "xterm"}
	assert.Equal(t, 2, NewClassifier(nil, got).Apply(w))
	assert.Equal(t, "inline", w.TargetGroup)
}

func TestClassifier_Builtins(t *testing.T) {
	src := []config.Pair{
		{Key: "global", Value: []any{
			map[string]any{"has-type": "DIALOG", "float": true},
			map[string]any{"has-type": "SPLASH", "float": true, "ignore-hints": true},
		}},
		{Key: "Gimp", Value: []any{
			map[string]any{"match-role": "^gimp-toolbox", "float": true, "border-width": 0},
			map[string]any{"instance": "gimp", "layout-properties": map[string]any{"weight": 2}},
		}},
		{Key: "Firefox", Value: []any{
			map[string]any{"match-title": "Mozilla", "move-to-group": 2},
		}},
	}
	rules, err := Compile(DefaultRegistry(), src)
	require.NoError(t, err)
	c := NewClassifier(nil, rules)
	assert.Equal(t, 5, c.Len())

	dialog := &window.Window{Types: []string{"_NET_WM_WINDOW_TYPE_DIALOG"}}
	assert.Equal(t, 1, c.Apply(dialog))
	assert.True(t, dialog.Floating)
	assert.False(t, dialog.IgnoreHints)

	splash := &window.Window{Types: []string{"_NET_WM_WINDOW_TYPE_SPLASH"}}
	c.Apply(splash)
	assert.True(t, splash.Floating)
	assert.True(t, splash.IgnoreHints)

	toolbox := &window.Window{Class: "Gimp", Instance: "gimp", Role: "gimp-toolbox-1"}
	assert.Equal(t, 2, c.Apply(toolbox))
	assert.True(t, toolbox.Floating)
	assert.Equal(t, 0, toolbox.EffectiveBorder(2))
	assert.Equal(t, map[string]any{"weight": 2}, toolbox.LayoutProps)

	ff := &window.Window{Class: "Firefox", Title: "Mozilla Firefox"}
	c.Apply(ff)
	assert.Equal(t, "2", ff.TargetGroup)

	other := &window.Window{Class: "xterm"}
	assert.Equal(t, 0, c.Apply(other))
	assert.Equal(t, &window.Window{Class: "xterm"}, other)
}

func TestRegistry_Names(t *testing.T) {
	reg := DefaultRegistry()
	assert.Equal(t, []string{"class", "has-type", "instance", "match-role", "match-title", "role", "title"}, reg.Conditions())
	assert.Equal(t, []string{"border-width", "float", "ignore-hints", "layout-properties", "move-to-group"}, reg.Actions())
}
