package config

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
)

// Section accessors return fresh values; mutating them does not affect
// the loaded tree.

// separator matches widget entries that stand for a separator.
var separator = regexp.MustCompile(`^[-_]+$`)

// SeparatorClass is the widget class separator entries resolve to.
const SeparatorClass = "Sep"

// DefaultBarPosition is used for bars without a position.
const DefaultBarPosition = "top"

func (c *Config) document(name string) (map[string]any, error) {
	doc, err := c.Document(name)
	if err != nil {
		return nil, err
	}
	return doc.Data, nil
}

func (c *Config) inline(name string) any {
	v, _ := c.Get(name)
	return v
}

// Hotkey binds a key specification to a command.
type Hotkey struct {
	Key     string
	Command []string
}

// Hotkeys returns the hotkeys document merged with the inline hotkeys
// section, inline entries winning. The result is sorted by key.
func (c *Config) Hotkeys() ([]Hotkey, error) {
	doc, err := c.document(DocHotkeys)
	if err != nil {
		return nil, err
	}

	merged := make(map[string]any, len(doc))
	for k, v := range doc {
		merged[k] = v
	}
	if inline := c.inline(DocHotkeys); inline != nil {
		m, ok := inline.(map[string]any)
		if !ok {
			return nil, &ShapeError{Section: DocHotkeys, Expected: "mapping", Actual: typeName(inline)}
		}
		for k, v := range m {
			merged[k] = v
		}
	}

	var out []Hotkey
	for _, p := range sortedPairs(merged) {
		cmd, err := Command(p.Value)
		if err != nil {
			return nil, fmt.Errorf("hotkey %s: %w", p.Key, err)
		}
		out = append(out, Hotkey{Key: p.Key, Command: cmd})
	}
	return out, nil
}

// Buttons returns the inline buttons section binding mouse button
// specifications such as "<W-4>" to commands, sorted by key.
func (c *Config) Buttons() ([]Hotkey, error) {
	raw := c.inline("buttons")
	if raw == nil {
		return nil, nil
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, &ShapeError{Section: "buttons", Expected: "mapping", Actual: typeName(raw)}
	}

	var out []Hotkey
	for _, p := range sortedPairs(m) {
		cmd, err := Command(p.Value)
		if err != nil {
			return nil, fmt.Errorf("button %s: %w", p.Key, err)
		}
		out = append(out, Hotkey{Key: p.Key, Command: cmd})
	}
	return out, nil
}

// GroupSpec declares one group and the name of its layout class.
type GroupSpec struct {
	Name   string
	Layout string
}

// Groups returns the declared groups. The boolean is false when the main
// document has no groups section at all.
func (c *Config) Groups() ([]GroupSpec, bool, error) {
	raw, ok := c.Get("groups")
	if !ok {
		return nil, false, nil
	}

	pairs, err := Pairs("groups", raw)
	if err != nil {
		return nil, true, err
	}

	out := make([]GroupSpec, 0, len(pairs))
	for _, p := range pairs {
		lname, ok := p.Value.(string)
		if !ok {
			return nil, true, &ShapeError{Section: "groups." + p.Key, Expected: "layout name", Actual: typeName(p.Value)}
		}
		out = append(out, GroupSpec{Name: p.Key, Layout: lname})
	}
	return out, true, nil
}

// ExtraLayouts returns layout names that are switchable in every group in
// addition to the configured group layouts.
func (c *Config) ExtraLayouts() ([]string, error) {
	names, err := c.GetStringSlice("extra_layouts")
	if err == ErrSettingNotFound {
		return nil, nil
	}
	return names, err
}

// WidgetSpec declares one widget of a bar.
type WidgetSpec struct {
	Class string
	Args  map[string]any
}

// BarSpec declares one status bar.
type BarSpec struct {
	// Screen is the index of the screen the bar is attached to.
	Screen int
	// Position is "top" or "bottom".
	Position string
	// Widgets are in instantiation order: right-hand widgets from the
	// outermost inwards, flagged with right=true, then left-hand widgets.
	Widgets []WidgetSpec
	// Options holds the remaining bar settings.
	Options map[string]any
}

// Bars returns the bars declared inline, or those of the bars document
// when the main document declares none.
func (c *Config) Bars() ([]BarSpec, error) {
	raw := c.inline("bars")
	if isEmpty(raw) {
		doc, err := c.document(DocBars)
		if err != nil {
			return nil, err
		}
		raw = doc["bars"]
	}
	if raw == nil {
		return nil, nil
	}

	list, ok := raw.([]any)
	if !ok {
		return nil, &ShapeError{Section: "bars", Expected: "list", Actual: typeName(raw)}
	}

	out := make([]BarSpec, 0, len(list))
	for i, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, &ShapeError{Section: fmt.Sprintf("bars[%d]", i), Expected: "mapping", Actual: typeName(item)}
		}
		bar, err := parseBar(fmt.Sprintf("bars[%d]", i), m)
		if err != nil {
			return nil, err
		}
		out = append(out, bar)
	}
	return out, nil
}

func parseBar(section string, m map[string]any) (BarSpec, error) {
	bar := BarSpec{Position: DefaultBarPosition, Options: make(map[string]any)}

	for k, v := range m {
		switch k {
		case "left", "right":
		case "screen":
			n, ok := toInt(v)
			if !ok {
				return bar, &ShapeError{Section: section + ".screen", Expected: "int", Actual: typeName(v)}
			}
			bar.Screen = n
		case "position":
			pos, ok := v.(string)
			if !ok || (pos != "top" && pos != "bottom") {
				return bar, &ShapeError{Section: section + ".position", Expected: "top or bottom", Actual: fmt.Sprint(v)}
			}
			bar.Position = pos
		default:
			bar.Options[k] = v
		}
	}

	right, err := parseWidgets(section+".right", m["right"])
	if err != nil {
		return bar, err
	}
	for i := len(right) - 1; i >= 0; i-- {
		w := right[i]
		w.Args["right"] = true
		bar.Widgets = append(bar.Widgets, w)
	}

	left, err := parseWidgets(section+".left", m["left"])
	if err != nil {
		return bar, err
	}
	bar.Widgets = append(bar.Widgets, left...)
	return bar, nil
}

func parseWidgets(section string, v any) ([]WidgetSpec, error) {
	if v == nil {
		return nil, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, &ShapeError{Section: section, Expected: "list", Actual: typeName(v)}
	}

	out := make([]WidgetSpec, 0, len(list))
	for _, item := range list {
		spec := WidgetSpec{Args: make(map[string]any)}
		switch w := item.(type) {
		case string:
			spec.Class = w
		case map[string]any:
			pairs := sortedPairs(w)
			if len(pairs) == 0 {
				return nil, &ShapeError{Section: section, Expected: "widget", Actual: "empty mapping"}
			}
			spec.Class = pairs[0].Key
			if params, ok := pairs[0].Value.(map[string]any); ok {
				for k, v := range params {
					spec.Args[k] = v
				}
			}
		default:
			return nil, &ShapeError{Section: section, Expected: "widget", Actual: typeName(item)}
		}
		if separator.MatchString(spec.Class) {
			spec.Class = SeparatorClass
		}
		out = append(out, spec)
	}
	return out, nil
}

// RuleSources returns the rule declarations as (subject, rule list) pairs:
// the rules document first, then the inline rules section.
func (c *Config) RuleSources() ([][]Pair, error) {
	doc, err := c.document(DocRules)
	if err != nil {
		return nil, err
	}

	fromDoc, err := Pairs(DocRules, doc)
	if err != nil {
		return nil, err
	}
	inline, err := Pairs(DocRules, c.inline(DocRules))
	if err != nil {
		return nil, err
	}
	return [][]Pair{fromDoc, inline}, nil
}

// GestureSources returns the gestures document, then the inline gestures
// section. Later sources override earlier ones key by key.
func (c *Config) GestureSources() ([]map[string]any, error) {
	doc, err := c.document(DocGestures)
	if err != nil {
		return nil, err
	}

	sources := []map[string]any{doc}
	if inline := c.inline(DocGestures); inline != nil {
		m, ok := inline.(map[string]any)
		if !ok {
			return nil, &ShapeError{Section: DocGestures, Expected: "mapping", Actual: typeName(inline)}
		}
		sources = append(sources, m)
	}
	return sources, nil
}

// GadgetSpec declares one gadget instance.
type GadgetSpec struct {
	Name  string
	Class string
	Args  map[string]any
}

// Gadgets returns the gadgets document entries followed by the inline
// gadgets section. An entry is either `name: Class` or
// `name: {"=": Class, ...arguments}`.
func (c *Config) Gadgets() ([]GadgetSpec, error) {
	doc, err := c.document(DocGadgets)
	if err != nil {
		return nil, err
	}

	fromDoc, err := Pairs(DocGadgets, doc)
	if err != nil {
		return nil, err
	}
	inline, err := Pairs(DocGadgets, c.inline(DocGadgets))
	if err != nil {
		return nil, err
	}

	var out []GadgetSpec
	for _, p := range append(fromDoc, inline...) {
		spec := GadgetSpec{Name: p.Key, Args: make(map[string]any)}
		switch v := p.Value.(type) {
		case string:
			spec.Class = v
		case map[string]any:
			cls, ok := v["="].(string)
			if !ok {
				return nil, &ShapeError{Section: "gadgets." + p.Key, Expected: `mapping with "=" class`, Actual: typeName(v["="])}
			}
			spec.Class = cls
			for k, val := range v {
				if k != "=" {
					spec.Args[k] = val
				}
			}
		default:
			return nil, &ShapeError{Section: "gadgets." + p.Key, Expected: "class name or mapping", Actual: typeName(p.Value)}
		}
		out = append(out, spec)
	}
	return out, nil
}

// ThemeSources returns the theme layers, lowest priority first: the
// named theme document, the theme-customize document, and the inline
// theme-customize section.
func (c *Config) ThemeSources() ([]map[string]any, error) {
	var sources []map[string]any

	if name, err := c.GetString("theme"); err == nil && name != "" {
		doc, err := c.document(docThemePrefix + name)
		if err != nil {
			return nil, err
		}
		sources = append(sources, doc)
	}

	doc, err := c.document(DocThemeCustomize)
	if err != nil {
		return nil, err
	}
	sources = append(sources, doc)

	if inline := c.inline(DocThemeCustomize); inline != nil {
		m, ok := inline.(map[string]any)
		if !ok {
			return nil, &ShapeError{Section: DocThemeCustomize, Expected: "mapping", Actual: typeName(inline)}
		}
		sources = append(sources, m)
	}
	return sources, nil
}

// ExtensionDirs returns the directories searched for script extensions,
// most specific first: the extension-dirs setting, then the ext
// directory of every configuration directory.
func (c *Config) ExtensionDirs() []string {
	var dirs []string
	if extra, err := c.GetStringSlice("extension-dirs"); err == nil {
		dirs = append(dirs, ExpandDirs(extra)...)
	}
	for _, dir := range c.dirs {
		dirs = append(dirs, filepath.Join(dir, "ext"))
	}
	return dedupe(dirs)
}

// AutoRestart reports whether configuration changes restart the window
// manager.
func (c *Config) AutoRestart() bool {
	v, err := c.GetBool("auto-restart")
	return err == nil && v
}

// ScreenDPI returns the configured screen resolution.
func (c *Config) ScreenDPI() int {
	if n, err := c.GetInt("screen-dpi"); err == nil && n > 0 {
		return n
	}
	return 96
}

// AutoScreenConfiguration reports whether screens are taken from the
// multi-head extension.
func (c *Config) AutoScreenConfiguration() bool {
	v, err := c.GetBool("auto-screen-configuration")
	return err != nil || v
}

func isEmpty(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case []any:
		return len(val) == 0
	case map[string]any:
		return len(val) == 0
	default:
		return false
	}
}

// Keys returns the top-level keys of the main document, sorted.
func (c *Config) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, len(c.data))
	for k := range c.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
