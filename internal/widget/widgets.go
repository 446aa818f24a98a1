package widget

import (
	"fmt"
	"strings"

	"github.com/lestrrat-go/strftime"

	"github.com/dshills/tilestorm/internal/ext"
)

// Sep separates groups of widgets.
type Sep struct{ side }

func newSep(args ext.Args) (any, error) { return &Sep{sideOf(args)}, nil }

func (s *Sep) Name() string        { return "Sep" }
func (s *Sep) Text(st State) string { return "|" }

// Text shows a fixed string.
type Text struct {
	side
	Value string
}

func newText(args ext.Args) (any, error) {
	v, err := stringArg(args, "text", "")
	if err != nil {
		return nil, err
	}
	return &Text{side: sideOf(args), Value: v}, nil
}

func (t *Text) Name() string        { return "Text" }
func (t *Text) Text(st State) string { return t.Value }

// Clock shows the current time in a strftime format such as "%a %H:%M".
type Clock struct {
	side
	Format string
	layout *strftime.Strftime
}

func newClock(args ext.Args) (any, error) {
	f, err := stringArg(args, "format", "%H:%M")
	if err != nil {
		return nil, err
	}
	layout, err := strftime.New(f)
	if err != nil {
		return nil, fmt.Errorf("argument \"format\": %w", err)
	}
	return &Clock{side: sideOf(args), Format: f, layout: layout}, nil
}

func (c *Clock) Name() string { return "Clock" }

func (c *Clock) Text(st State) string {
	return c.layout.FormatString(st.Now)
}

// GroupBox lists the groups, bracketing the current one.
type GroupBox struct{ side }

func newGroupBox(args ext.Args) (any, error) { return &GroupBox{sideOf(args)}, nil }

func (g *GroupBox) Name() string { return "GroupBox" }

func (g *GroupBox) Text(st State) string {
	parts := make([]string, len(st.Groups))
	for i, name := range st.Groups {
		if name == st.Group {
			parts[i] = "[" + name + "]"
		} else {
			parts[i] = name
		}
	}
	return strings.Join(parts, " ")
}

// Title shows the focused window title.
type Title struct {
	side
	MaxLength int
}

func newTitle(args ext.Args) (any, error) {
	t := &Title{side: sideOf(args)}
	if n, ok := args["max-length"].(int); ok {
		t.MaxLength = n
	}
	return t, nil
}

func (t *Title) Name() string { return "Title" }

func (t *Title) Text(st State) string {
	r := []rune(st.Title)
	if t.MaxLength > 0 && len(r) > t.MaxLength {
		return string(r[:t.MaxLength]) + "…"
	}
	return st.Title
}

// LayoutName shows the layout of the current group.
type LayoutName struct{ side }

func newLayoutName(args ext.Args) (any, error) { return &LayoutName{sideOf(args)}, nil }

func (l *LayoutName) Name() string        { return "LayoutName" }
func (l *LayoutName) Text(st State) string { return st.Layout }
