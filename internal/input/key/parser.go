package key

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/dshills/tilestorm/internal/xconn"
)

// Parse errors.
var (
	ErrEmptySpec   = errors.New("empty key specification")
	ErrInvalidSpec = errors.New("invalid key specification")
	ErrUnknownKey  = errors.New("unknown key name")
)

// Combo is a parsed key specification.
type Combo struct {
	Mods   Modifier
	Keysym xconn.Keysym
	// Key is the key part as written, without modifiers.
	Key string
}

// String returns the combo in angle-bracket notation.
func (c Combo) String() string {
	return "<" + c.Mods.String() + c.Key + ">"
}

// Parse parses a key specification against table.
func Parse(spec string, table *Table) (Combo, error) {
	mods, keyPart, err := SplitSpec(spec)
	if err != nil {
		return Combo{}, err
	}

	if r := []rune(keyPart); len(r) == 1 && unicode.IsUpper(r[0]) {
		mods = mods.With(ModShift)
		keyPart = string(unicode.ToLower(r[0]))
	}

	sym, ok := table.Lookup(keyPart)
	if !ok {
		return Combo{}, fmt.Errorf("%w: %q in %q", ErrUnknownKey, keyPart, spec)
	}
	return Combo{Mods: mods, Keysym: sym, Key: keyPart}, nil
}

// SplitSpec separates the modifiers of a specification from its final
// part, which names a key or a mouse button.
func SplitSpec(spec string) (Modifier, string, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return ModNone, "", ErrEmptySpec
	}

	sep := "-"
	if strings.HasPrefix(spec, "<") && strings.HasSuffix(spec, ">") {
		spec = spec[1 : len(spec)-1]
	} else if strings.Contains(spec, "+") {
		sep = "+"
	}
	if spec == "" {
		return ModNone, "", ErrInvalidSpec
	}

	// A trailing separator names the separator key itself, e.g. "<W-->".
	var parts []string
	if strings.HasSuffix(spec, sep+sep) {
		parts = append(strings.Split(strings.TrimSuffix(spec, sep+sep), sep), sep)
	} else {
		parts = strings.Split(spec, sep)
	}

	var mods Modifier
	for _, p := range parts[:len(parts)-1] {
		mod := ModifierFromName(strings.TrimSpace(p))
		if mod == ModNone {
			return ModNone, "", fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
		}
		mods = mods.With(mod)
	}

	last := strings.TrimSpace(parts[len(parts)-1])
	if last == "" {
		return ModNone, "", fmt.Errorf("%w: %q has no key", ErrInvalidSpec, spec)
	}
	return mods, last, nil
}
