// Package geom provides the rectangle type shared by screens, layouts and
// the X transport.
package geom

import "fmt"

// Rect is an axis-aligned rectangle in root-window coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// NewRect creates a rectangle.
func NewRect(x, y, width, height int) Rect {
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Right returns the x coordinate one past the right edge.
func (r Rect) Right() int { return r.X + r.Width }

// Bottom returns the y coordinate one past the bottom edge.
func (r Rect) Bottom() int { return r.Y + r.Height }

// CutTop removes h pixels from the top and returns the removed strip and
// the remainder.
func (r Rect) CutTop(h int) (strip, rest Rect) {
	h = clamp(h, 0, r.Height)
	strip = Rect{X: r.X, Y: r.Y, Width: r.Width, Height: h}
	rest = Rect{X: r.X, Y: r.Y + h, Width: r.Width, Height: r.Height - h}
	return strip, rest
}

// CutBottom removes h pixels from the bottom and returns the removed strip
// and the remainder.
func (r Rect) CutBottom(h int) (strip, rest Rect) {
	h = clamp(h, 0, r.Height)
	strip = Rect{X: r.X, Y: r.Bottom() - h, Width: r.Width, Height: h}
	rest = Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height - h}
	return strip, rest
}

// Shrink insets all four edges by n pixels.
func (r Rect) Shrink(n int) Rect {
	w := r.Width - 2*n
	h := r.Height - 2*n
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return Rect{X: r.X + n, Y: r.Y + n, Width: w, Height: h}
}

// Contains reports whether the point lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
