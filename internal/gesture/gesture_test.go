package gesture

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var ignoreCondition = cmpopts.IgnoreFields(Record{}, "Condition")

func TestCompile_SettingsOverride(t *testing.T) {
	table := Compile(nil, map[string]any{
		"3f-up":    "spawn terminal",
		"settings": map[string]any{"commit-distance": 400},
	})

	want := Table{
		"3f-up": {
			Key:            "3f-up",
			Fingers:        3,
			Direction:      "up",
			DetectDistance: 50,
			CommitDistance: 400,
			Char:           "▲",
			Action:         []string{"spawn", "terminal"},
			Extra:          map[string]any{},
		},
	}
	if diff := cmp.Diff(want, table, ignoreCondition); diff != "" {
		t.Errorf("Compile() mismatch (-want +got):\n%s", diff)
	}
	require.NotNil(t, table["3f-up"].Condition)
	assert.True(t, table["3f-up"].Condition(0, -10))
	assert.False(t, table["3f-up"].Condition(0, 10))
}

func TestCompile_DropsUnsupported(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	table := Compile(zap.New(core), map[string]any{
		"1f-up":       "a",
		"6f-left":     "b",
		"3f-sideways": "c",
		"swipe":       "d",
		"+3f-up":      "e",
		"03f-up":      "f",
		"2f-down":     "groups next",
		"4f-left":     []any{"groups", "prev"},
	})

	assert.Equal(t, []string{"2f-down", "4f-left"}, table.Keys())
	assert.Equal(t, []string{"groups", "prev"}, table["4f-left"].Action)
	assert.Equal(t, 6, logs.FilterMessage("gesture is not supported").Len())
}

func TestCompile_ValueShapes(t *testing.T) {
	table := Compile(nil, map[string]any{
		"2f-up": map[string]any{"=": "wm restart", "char": "↑", "commit-distance": 100},
		"2f-down": map[string]any{
			"action":          []any{"env", "spawn", "xterm"},
			"detect-distance": 10.5,
			"sensitivity":     2,
		},
	})

	up := table["2f-up"]
	assert.Equal(t, []string{"wm", "restart"}, up.Action)
	assert.Equal(t, "↑", up.Char)
	assert.Equal(t, 100.0, up.CommitDistance)
	assert.Equal(t, 50.0, up.DetectDistance)

	down := table["2f-down"]
	assert.Equal(t, []string{"env", "spawn", "xterm"}, down.Action)
	assert.Equal(t, 10.5, down.DetectDistance)
	assert.Equal(t, map[string]any{"sensitivity": 2}, down.Extra)
}

func TestCompile_InvalidDeclarations(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	table := Compile(zap.New(core), map[string]any{
		"2f-up":    map[string]any{"char": "x"},
		"2f-down":  map[string]any{"=": "a", "commit-distance": "far"},
		"2f-left":  "",
		"2f-right": "ok",
	})

	assert.Equal(t, []string{"2f-right"}, table.Keys())
	assert.Equal(t, 3, logs.FilterMessage("invalid gesture").Len())
}

func TestCompile_LaterSourceWins(t *testing.T) {
	table := Compile(nil,
		map[string]any{"3f-up": "from doc", "3f-down": "doc only", "settings": map[string]any{"char": "*"}},
		map[string]any{"3f-up": "from inline"},
	)

	assert.Equal(t, []string{"from", "inline"}, table["3f-up"].Action)
	assert.Equal(t, []string{"doc", "only"}, table["3f-down"].Action)
	assert.Equal(t, "*", table["3f-down"].Char)
}

func TestCompile_BadSettings(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	table := Compile(zap.New(core), map[string]any{"settings": "loud", "3f-up": "x"})

	assert.Equal(t, 600.0, table["3f-up"].CommitDistance)
	assert.Equal(t, 1, logs.FilterMessage("gesture settings must be a mapping").Len())
}

func TestTable_Match(t *testing.T) {
	table := Compile(nil, map[string]any{
		"3f-up":    "up",
		"3f-right": "right",
		"settings": map[string]any{"commit-distance": 100, "detect-distance": 20},
	})

	tests := []struct {
		name    string
		fingers int
		dx, dy  float64
		want    string
	}{
		{"up committed", 3, 5, -150, "3f-up"},
		{"right committed", 3, 120, 10, "3f-right"},
		{"too short", 3, 0, -50, ""},
		{"wrong fingers", 4, 0, -150, ""},
		{"undeclared direction", 3, 0, 150, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, ok := table.Match(tt.fingers, tt.dx, tt.dy)
			if tt.want == "" {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.want, r.Key)
		})
	}

	r, ok := table.Detect(3, 0, -30)
	require.True(t, ok)
	assert.Equal(t, "▲", r.Char)
}

func TestDirections(t *testing.T) {
	assert.Equal(t, []string{"down", "left", "right", "up"}, Directions())
	left, ok := Direction("left")
	require.True(t, ok)
	assert.True(t, left(-10, 3))
	assert.False(t, left(-3, 10))
	_, ok = Direction("diagonal")
	assert.False(t, ok)
}
