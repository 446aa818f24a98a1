package gesture

import "sort"

// DirectionFunc reports whether a movement by (dx, dy) goes in a
// direction. Screen coordinates grow downwards.
type DirectionFunc func(dx, dy float64) bool

var directions = map[string]DirectionFunc{
	"up":    func(dx, dy float64) bool { return dy < 0 && -dy > abs(dx) },
	"down":  func(dx, dy float64) bool { return dy > 0 && dy > abs(dx) },
	"left":  func(dx, dy float64) bool { return dx < 0 && -dx > abs(dy) },
	"right": func(dx, dy float64) bool { return dx > 0 && dx > abs(dy) },
}

// Directions returns the supported direction names, sorted.
func Directions() []string {
	names := make([]string, 0, len(directions))
	for name := range directions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Direction returns the predicate registered for name.
func Direction(name string) (DirectionFunc, bool) {
	f, ok := directions[name]
	return f, ok
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
