// Package layer stacks the places a configuration document can come from.
//
// The main document is built from the embedded defaults, the file found on
// the search path and TILESTORM_* environment variables. A later source
// shadows an earlier one key by key; Stack remembers which source won so
// diagnostics can tell the user where a setting was read.
package layer

import (
	"sort"
	"sync"
)

// Source is where a layer was read from. Sources are ordered: a layer
// with a greater Source shadows one with a smaller Source.
type Source uint8

const (
	SourceBuiltin Source = iota
	SourceFile
	SourceInline
	SourceEnv
)

func (s Source) String() string {
	switch s {
	case SourceBuiltin:
		return "builtin"
	case SourceFile:
		return "file"
	case SourceInline:
		return "inline"
	case SourceEnv:
		return "environment"
	}
	return "unknown"
}

// Layer is one decoded document together with its origin.
type Layer struct {
	Name   string
	Source Source
	Path   string
	Data   map[string]any
}

// NewLayer returns a layer over data. A nil map becomes an empty one.
func NewLayer(name string, source Source, data map[string]any) *Layer {
	if data == nil {
		data = map[string]any{}
	}
	return &Layer{Name: name, Source: source, Data: data}
}

// MergeFunc folds src into acc and returns the result.
type MergeFunc func(acc, src map[string]any) map[string]any

// Stack holds layers ordered by Source. Layers from the same source keep
// the order they were pushed in.
type Stack struct {
	mu     sync.RWMutex
	merge  MergeFunc
	layers []*Layer
	cache  map[string]any
}

// NewStack returns an empty stack combining layers with merge, or with
// DeepMerge when merge is nil.
func NewStack(merge MergeFunc) *Stack {
	if merge == nil {
		merge = DeepMerge
	}
	return &Stack{merge: merge}
}

// Push adds l to the stack.
func (s *Stack) Push(l *Layer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.layers = append(s.layers, l)
	sort.SliceStable(s.layers, func(i, j int) bool {
		return s.layers[i].Source < s.layers[j].Source
	})
	s.cache = nil
}

// Layers returns the layers from weakest to strongest.
func (s *Stack) Layers() []*Layer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*Layer(nil), s.layers...)
}

// Merge returns a private copy of the combined document.
func (s *Stack) Merge() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cache == nil {
		acc := map[string]any{}
		for _, l := range s.layers {
			acc = s.merge(acc, l.Data)
		}
		s.cache = acc
	}
	return copyMap(s.cache)
}

// Origin returns the strongest layer defining path.
func (s *Stack) Origin(path string) (*Layer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.layers) - 1; i >= 0; i-- {
		if _, ok := Lookup(s.layers[i].Data, path); ok {
			return s.layers[i], true
		}
	}
	return nil, false
}
