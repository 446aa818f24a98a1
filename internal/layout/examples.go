package layout

import (
	"fmt"

	"github.com/dshills/tilestorm/internal/ext"
	"github.com/dshills/tilestorm/internal/geom"
	"github.com/dshills/tilestorm/internal/window"
)

// Tile puts the first window in a master column and stacks the rest in a
// second column.
type Tile struct {
	Ratio float64
}

func newTile(args ext.Args) (any, error) {
	ratio, err := floatArg(args, "ratio", 0.5)
	if err != nil {
		return nil, err
	}
	if ratio <= 0 || ratio >= 1 {
		return nil, fmt.Errorf("argument \"ratio\": %v is not between 0 and 1", ratio)
	}
	return &Tile{Ratio: ratio}, nil
}

func (t *Tile) Name() string { return "Tile" }

func (t *Tile) Arrange(area geom.Rect, windows []*window.Window) []geom.Rect {
	switch len(windows) {
	case 0:
		return nil
	case 1:
		return []geom.Rect{area}
	}

	masterWidth := int(float64(area.Width) * t.Ratio)
	out := []geom.Rect{{X: area.X, Y: area.Y, Width: masterWidth, Height: area.Height}}
	column := geom.Rect{X: area.X + masterWidth, Y: area.Y, Width: area.Width - masterWidth, Height: area.Height}
	return append(out, rows(column, len(windows)-1)...)
}

// Stack gives every window a row of equal height.
type Stack struct{}

func newStack(ext.Args) (any, error) { return &Stack{}, nil }

func (s *Stack) Name() string { return "Stack" }

func (s *Stack) Arrange(area geom.Rect, windows []*window.Window) []geom.Rect {
	return rows(area, len(windows))
}

// Max gives every window the whole area.
type Max struct{}

func newMax(ext.Args) (any, error) { return &Max{}, nil }

func (m *Max) Name() string { return "Max" }

func (m *Max) Arrange(area geom.Rect, windows []*window.Window) []geom.Rect {
	out := make([]geom.Rect, len(windows))
	for i := range out {
		out[i] = area
	}
	return out
}

// rows splits area into n rows; the last row absorbs rounding.
func rows(area geom.Rect, n int) []geom.Rect {
	if n <= 0 {
		return nil
	}
	out := make([]geom.Rect, n)
	h := area.Height / n
	for i := range out {
		out[i] = geom.Rect{X: area.X, Y: area.Y + i*h, Width: area.Width, Height: h}
	}
	out[n-1].Height = area.Bottom() - out[n-1].Y
	return out
}
