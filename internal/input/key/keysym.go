package key

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dshills/tilestorm/internal/xconn"
)

// Table maps key names to keysyms.
type Table struct {
	byName  map[string]xconn.Keysym
	aliases map[string]string
	names   map[xconn.Keysym]string
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{
		byName:  make(map[string]xconn.Keysym),
		aliases: make(map[string]string),
		names:   make(map[xconn.Keysym]string),
	}
}

// Add registers a keysym under its canonical name.
func (t *Table) Add(name string, sym xconn.Keysym) {
	t.byName[name] = sym
	if _, ok := t.names[sym]; !ok {
		t.names[sym] = name
	}
	t.aliases[strings.ToLower(name)] = name
}

// Alias makes alias resolve to the keysym of name. Aliases are matched
// case-insensitively.
func (t *Table) Alias(alias, name string) {
	t.aliases[strings.ToLower(alias)] = name
}

// Lookup returns the keysym for a key name. Exact names win over
// case-insensitive aliases.
func (t *Table) Lookup(name string) (xconn.Keysym, bool) {
	if sym, ok := t.byName[name]; ok {
		return sym, true
	}
	if canonical, ok := t.aliases[strings.ToLower(name)]; ok {
		sym, ok := t.byName[canonical]
		return sym, ok
	}
	return 0, false
}

// Name returns the canonical name of a keysym.
func (t *Table) Name(sym xconn.Keysym) string {
	if name, ok := t.names[sym]; ok {
		return name
	}
	return fmt.Sprintf("0x%x", uint32(sym))
}

// Names returns all canonical key names, sorted.
func (t *Table) Names() []string {
	out := make([]string, 0, len(t.byName))
	for name := range t.byName {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// LoadDefaultTable returns the table of Latin-1 printable keys, function
// and navigation keys, and common multimedia keys.
func LoadDefaultTable() *Table {
	t := NewTable()
	for c := 'a'; c <= 'z'; c++ {
		t.Add(string(c), xconn.Keysym(c))
	}
	for c := '0'; c <= '9'; c++ {
		t.Add(string(c), xconn.Keysym(c))
	}
	for i := 1; i <= 24; i++ {
		t.Add(fmt.Sprintf("F%d", i), xconn.Keysym(0xffbd+i))
	}

	for name, sym := range map[string]xconn.Keysym{
		"space":        0x0020,
		"apostrophe":   0x0027,
		"comma":        0x002c,
		"minus":        0x002d,
		"period":       0x002e,
		"slash":        0x002f,
		"semicolon":    0x003b,
		"equal":        0x003d,
		"bracketleft":  0x005b,
		"backslash":    0x005c,
		"bracketright": 0x005d,
		"grave":        0x0060,
		"BackSpace":    0xff08,
		"Tab":          0xff09,
		"Return":       0xff0d,
		"Pause":        0xff13,
		"Escape":       0xff1b,
		"Home":         0xff50,
		"Left":         0xff51,
		"Up":           0xff52,
		"Right":        0xff53,
		"Down":         0xff54,
		"Prior":        0xff55,
		"Next":         0xff56,
		"End":          0xff57,
		"Print":        0xff61,
		"Insert":       0xff63,
		"Menu":         0xff67,
		"Delete":       0xffff,

		"XF86MonBrightnessUp":   0x1008ff02,
		"XF86MonBrightnessDown": 0x1008ff03,
		"XF86AudioLowerVolume":  0x1008ff11,
		"XF86AudioMute":         0x1008ff12,
		"XF86AudioRaiseVolume":  0x1008ff13,
		"XF86AudioPlay":         0x1008ff14,
		"XF86AudioStop":         0x1008ff15,
		"XF86AudioPrev":         0x1008ff16,
		"XF86AudioNext":         0x1008ff17,
	} {
		t.Add(name, sym)
	}

	for alias, name := range map[string]string{
		"enter":    "Return",
		"cr":       "Return",
		"esc":      "Escape",
		"bs":       "BackSpace",
		"del":      "Delete",
		"ins":      "Insert",
		"pageup":   "Prior",
		"pgup":     "Prior",
		"pagedown": "Next",
		"pgdn":     "Next",
		"lt":       "comma",
		"gt":       "period",
		"bslash":   "backslash",
		"-":        "minus",
		"=":        "equal",
		",":        "comma",
		".":        "period",
		"/":        "slash",
		";":        "semicolon",
		"'":        "apostrophe",
		"`":        "grave",
		"[":        "bracketleft",
		"]":        "bracketright",
		"\\":       "backslash",
	} {
		t.Alias(alias, name)
	}
	return t
}
