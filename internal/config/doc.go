// Package config loads the tilestorm configuration tree.
//
// The main document, config, is looked up on the XDG configuration search
// path ($XDG_CONFIG_HOME/tilestorm first, then each $XDG_CONFIG_DIRS
// entry). The first file found shadows the embedded defaults per
// top-level key, and TILESTORM_* environment variables shadow both.
//
// Section documents (hotkeys, rules, gestures, bars, gadgets,
// theme-customize and themes/<name>) are found the same way and fall back
// to an embedded default of the same name. Several sections may also be
// given inline in the main document; the accessors in sections.go define
// how the two are combined.
//
// Every document may be written as YAML, JSON (with comments) or TOML.
// After Load the tree is read-only.
package config
