package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/mitchellh/go-homedir"
)

// AppName is the directory name used below each XDG config directory.
const AppName = "tilestorm"

// SiteExtensionDir holds extensions installed system-wide. It is always
// searched last.
const SiteExtensionDir = "/usr/share/tilestorm/site-extensions"

// DefaultDirs returns the configuration search path, most specific first.
func DefaultDirs() []string {
	dirs := make([]string, 0, 1+len(xdg.ConfigDirs))
	dirs = append(dirs, filepath.Join(xdg.ConfigHome, AppName))
	for _, dir := range xdg.ConfigDirs {
		if dir == "" {
			continue
		}
		dirs = append(dirs, filepath.Join(dir, AppName))
	}
	return dedupe(dirs)
}

// ExpandDirs expands a leading ~ in each directory.
// Directories that cannot be expanded are kept unchanged.
func ExpandDirs(dirs []string) []string {
	out := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		if expanded, err := homedir.Expand(dir); err == nil {
			dir = expanded
		}
		out = append(out, filepath.Clean(dir))
	}
	return dedupe(out)
}

func dedupe(dirs []string) []string {
	seen := make(map[string]bool, len(dirs))
	out := dirs[:0]
	for _, dir := range dirs {
		if seen[dir] {
			continue
		}
		seen[dir] = true
		out = append(out, dir)
	}
	return out
}
