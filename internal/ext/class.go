package ext

import (
	"sort"
	"strings"
)

// Capability is the kind of object a class can construct.
type Capability uint8

const (
	// CapLayout marks classes constructing layout.Layout values.
	CapLayout Capability = 1 << iota
	// CapWidget marks classes constructing widget.Widget values.
	CapWidget
	// CapGadget marks classes constructing gadget.Gadget values.
	CapGadget
)

// String returns a human-readable list of capabilities.
func (c Capability) String() string {
	var parts []string
	if c&CapLayout != 0 {
		parts = append(parts, "layout")
	}
	if c&CapWidget != 0 {
		parts = append(parts, "widget")
	}
	if c&CapGadget != 0 {
		parts = append(parts, "gadget")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// Args are the keyword arguments a class is constructed with.
type Args map[string]any

// Factory constructs an instance of a class.
type Factory func(args Args) (any, error)

// Class is a named constructor with a set of capabilities.
type Class struct {
	Name     string
	Module   string
	Provides Capability
	New      Factory
}

// Has reports whether the class provides every capability in want.
func (c *Class) Has(want Capability) bool {
	return c != nil && c.Provides&want == want
}

// String returns the qualified class name.
func (c *Class) String() string {
	if c == nil {
		return "<nil>"
	}
	if c.Module == "" {
		return c.Name
	}
	return c.Module + "." + c.Name
}

// Module is a named set of classes.
type Module struct {
	name    string
	classes map[string]*Class
}

// NewModule creates an empty module.
func NewModule(name string) *Module {
	return &Module{name: name, classes: make(map[string]*Class)}
}

// Name returns the module name.
func (m *Module) Name() string {
	return m.name
}

// Add adds classes to the module and returns it for chaining.
func (m *Module) Add(classes ...*Class) *Module {
	for _, c := range classes {
		c.Module = m.name
		m.classes[c.Name] = c
	}
	return m
}

// Lookup returns the class called name.
func (m *Module) Lookup(name string) (*Class, bool) {
	if m == nil {
		return nil, false
	}
	c, ok := m.classes[name]
	return c, ok
}

// Names returns the class names, sorted.
func (m *Module) Names() []string {
	names := make([]string, 0, len(m.classes))
	for name := range m.classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
