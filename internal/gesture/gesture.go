// Package gesture compiles touchpad gesture declarations into a lookup
// table.
//
// Gesture keys have the form "<fingers>f-<direction>" with 2 to 5 fingers,
// e.g. "3f-up". A "settings" entry overrides the defaults for every
// gesture; a gesture declared as a mapping overrides them for itself.
package gesture

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/dshills/tilestorm/internal/config"
)

// Setting names.
const (
	SettingDetectDistance = "detect-distance"
	SettingCommitDistance = "commit-distance"
	SettingChar           = "char"
	SettingsKey           = "settings"
)

// Finger counts accepted in gesture keys.
const (
	MinFingers = 2
	MaxFingers = 5
)

// Defaults returns the built-in gesture settings.
func Defaults() map[string]any {
	return map[string]any{
		SettingDetectDistance: 50,
		SettingCommitDistance: 600,
		SettingChar:           "▲",
	}
}

// Record is a compiled gesture.
type Record struct {
	Key            string
	Fingers        int
	Direction      string
	DetectDistance float64
	CommitDistance float64
	Char           string
	Action         []string
	Condition      DirectionFunc
	// Extra holds settings without a dedicated field.
	Extra map[string]any
}

// Table maps gesture keys to records.
type Table map[string]Record

// Keys returns the gesture keys, sorted.
func (t Table) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Match returns the gesture for a movement of fingers by (dx, dy) whose
// commit distance has been reached.
func (t Table) Match(fingers int, dx, dy float64) (Record, bool) {
	return t.find(fingers, dx, dy, func(r Record) float64 { return r.CommitDistance })
}

// Detect returns the gesture for a movement whose detect distance has
// been reached. The caller shows the record's Char as feedback.
func (t Table) Detect(fingers int, dx, dy float64) (Record, bool) {
	return t.find(fingers, dx, dy, func(r Record) float64 { return r.DetectDistance })
}

func (t Table) find(fingers int, dx, dy float64, threshold func(Record) float64) (Record, bool) {
	dist := math.Hypot(dx, dy)
	for _, name := range Directions() {
		r, ok := t[fmt.Sprintf("%df-%s", fingers, name)]
		if ok && r.Condition(dx, dy) && dist >= threshold(r) {
			return r, true
		}
	}
	return Record{}, false
}

// Compile builds the gesture table. Sources are merged key by key, later
// sources winning. Unsupported keys and unusable declarations are logged
// and dropped.
func Compile(log *zap.Logger, sources ...map[string]any) Table {
	if log == nil {
		log = zap.NewNop()
	}

	merged := make(map[string]any)
	for _, src := range sources {
		for k, v := range src {
			merged[k] = v
		}
	}

	settings := Defaults()
	if raw, ok := merged[SettingsKey]; ok {
		m, ok := raw.(map[string]any)
		if ok {
			for k, v := range m {
				settings[k] = v
			}
		} else {
			log.Warn("gesture settings must be a mapping", zap.String("type", fmt.Sprintf("%T", raw)))
		}
	}

	table := make(Table)
	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if key == SettingsKey {
			continue
		}
		fingers, dir, ok := parseKey(key)
		if !ok {
			log.Warn("gesture is not supported", zap.String("gesture", key))
			continue
		}
		rec, err := compileOne(key, merged[key], settings)
		if err != nil {
			log.Warn("invalid gesture", zap.String("gesture", key), zap.Error(err))
			continue
		}
		rec.Fingers = fingers
		rec.Direction = dir
		rec.Condition = directions[dir]
		table[key] = rec
	}
	return table
}

// gestureKey names a finger count and a direction.
type gestureKey struct {
	fingers int
	dir     string
}

// supported is the closed set of gesture keys, spelled exactly as
// Table.find looks them up.
var supported = func() map[string]gestureKey {
	keys := make(map[string]gestureKey)
	for n := MinFingers; n <= MaxFingers; n++ {
		for dir := range directions {
			keys[fmt.Sprintf("%df-%s", n, dir)] = gestureKey{fingers: n, dir: dir}
		}
	}
	return keys
}()

func parseKey(key string) (int, string, bool) {
	k, ok := supported[key]
	return k.fingers, k.dir, ok
}

func compileOne(key string, v any, settings map[string]any) (Record, error) {
	values := make(map[string]any, len(settings)+1)
	for k, s := range settings {
		values[k] = s
	}

	var rawAction any
	switch val := v.(type) {
	case map[string]any:
		action, hasEq := val["="]
		if !hasEq {
			var hasAction bool
			action, hasAction = val["action"]
			if !hasAction {
				return Record{}, errors.New(`mapping needs an "=" or "action" entry`)
			}
		}
		for k, o := range val {
			if k != "=" && k != "action" {
				values[k] = o
			}
		}
		rawAction = action
	default:
		rawAction = val
	}

	action, err := config.Command(rawAction)
	if err != nil {
		return Record{}, err
	}
	if len(action) == 0 {
		return Record{}, errors.New("empty action")
	}

	rec := Record{Key: key, Action: action, Extra: make(map[string]any)}
	for k, val := range values {
		switch k {
		case SettingDetectDistance:
			rec.DetectDistance, err = number(k, val)
		case SettingCommitDistance:
			rec.CommitDistance, err = number(k, val)
		case SettingChar:
			s, ok := val.(string)
			if !ok {
				err = fmt.Errorf("%s: expected string, got %T", k, val)
			}
			rec.Char = s
		default:
			rec.Extra[k] = val
		}
		if err != nil {
			return Record{}, err
		}
	}
	return rec, nil
}

func number(name string, v any) (float64, error) {
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case float64:
		return n, nil
	default:
		return 0, fmt.Errorf("%s: expected number, got %T", name, v)
	}
}
