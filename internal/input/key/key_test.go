package key

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/tilestorm/internal/xconn"
)

func TestParse(t *testing.T) {
	table := LoadDefaultTable()

	tests := []struct {
		spec string
		mods Modifier
		sym  xconn.Keysym
	}{
		{"<W-Return>", ModSuper, 0xff0d},
		{"<W-S-q>", ModSuper | ModShift, 'q'},
		{"<W-Q>", ModSuper | ModShift, 'q'},
		{"<C-A-Delete>", ModCtrl | ModAlt, 0xffff},
		{"<M-Tab>", ModAlt, 0xff09},
		{"W-1", ModSuper, '1'},
		{"Super+Shift+Return", ModSuper | ModShift, 0xff0d},
		{"<W-enter>", ModSuper, 0xff0d},
		{"<W-F12>", ModSuper, 0xffc9},
		{"<XF86AudioMute>", ModNone, 0x1008ff12},
		{"<W-->", ModSuper, 0x2d},
		{"Print", ModNone, 0xff61},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			combo, err := Parse(tt.spec, table)
			require.NoError(t, err)
			assert.Equal(t, tt.mods, combo.Mods)
			assert.Equal(t, tt.sym, combo.Keysym)
		})
	}
}

func TestParseErrors(t *testing.T) {
	table := LoadDefaultTable()

	tests := []struct {
		spec string
		want error
	}{
		{"", ErrEmptySpec},
		{"<>", ErrInvalidSpec},
		{"<X-a>", ErrInvalidSpec},
		{"<W-nosuchkey>", ErrUnknownKey},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			_, err := Parse(tt.spec, table)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSplitSpec(t *testing.T) {
	mods, last, err := SplitSpec("<W-S-4>")
	require.NoError(t, err)
	assert.Equal(t, ModSuper|ModShift, mods)
	assert.Equal(t, "4", last)
}

func TestModifierMask(t *testing.T) {
	m := ModSuper | ModShift
	assert.Equal(t, xconn.Mod4|xconn.ModShift, m.Mask())
	assert.Equal(t, m, FromMask(m.Mask()|xconn.ModLock|xconn.Mod2))
	assert.Equal(t, "W-S-", m.String())
}

func TestComboString(t *testing.T) {
	combo, err := Parse("Super+Return", LoadDefaultTable())
	require.NoError(t, err)
	assert.Equal(t, "<W-Return>", combo.String())
}

func TestTableNames(t *testing.T) {
	table := LoadDefaultTable()
	assert.Equal(t, "Return", table.Name(0xff0d))
	assert.Equal(t, "0x12345", table.Name(0x12345))
	assert.Contains(t, table.Names(), "XF86AudioPlay")
}
