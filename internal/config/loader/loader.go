// Package loader reads configuration documents from disk.
//
// A document is addressed by name ("config", "rules", "themes/dark") and
// may be written as YAML, JSON with comments, or TOML. Find walks an
// ordered list of directories and, inside each, tries Extensions in order.
package loader

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Extensions lists the supported file extensions in lookup order.
var Extensions = []string{".yaml", ".yml", ".json", ".toml"}

// ErrUnsupportedFormat is returned for paths with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// Loader produces one document tree. A missing source yields nil, nil.
type Loader interface {
	Load() (map[string]any, error)
}

// FileSystem is the read-only view of the disk the loaders need.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	Stat(path string) (fs.FileInfo, error)
}

// OSFS reads the real file system.
type OSFS struct{}

func (OSFS) ReadFile(path string) ([]byte, error)   { return os.ReadFile(path) }
func (OSFS) Stat(path string) (fs.FileInfo, error) { return os.Stat(path) }

// DefaultFS returns OSFS.
func DefaultFS() FileSystem { return OSFS{} }

// SubFS adapts an fs.FS, such as the embedded defaults, to FileSystem.
type SubFS struct {
	FS fs.FS
}

func (s SubFS) ReadFile(path string) ([]byte, error)   { return fs.ReadFile(s.FS, path) }
func (s SubFS) Stat(path string) (fs.FileInfo, error) { return fs.Stat(s.FS, path) }

// File loads one document file. The format follows the extension.
type File struct {
	fsys   FileSystem
	path   string
	decode decodeFunc
}

// New returns the loader for path.
func New(fsys FileSystem, path string) (*File, error) {
	decode, ok := decoders[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	return &File{fsys: fsys, path: path, decode: decode}, nil
}

// Path returns the file the loader reads.
func (f *File) Path() string { return f.path }

// Load reads and decodes the file. A missing file is not an error.
func (f *File) Load() (map[string]any, error) {
	data, err := f.fsys.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", f.path, err)
	}
	return f.decode(f.path, data)
}

// Decode reads a whole document from r in the format of path's
// extension.
func Decode(path string, r io.Reader) (map[string]any, error) {
	decode, ok := decoders[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return decode(path, data)
}

// Find returns the first existing file named name plus one of Extensions
// in dirs. Directories are searched in order.
func Find(fsys FileSystem, dirs []string, name string) (string, bool) {
	for _, dir := range dirs {
		for _, ext := range Extensions {
			path := name + ext
			if dir != "" && dir != "." {
				path = filepath.Join(dir, path)
			}
			if info, err := fsys.Stat(path); err == nil && !info.IsDir() {
				return path, true
			}
		}
	}
	return "", false
}

// FindAndLoad finds name in dirs and loads it. The returned path is empty
// when no file exists; the map is never nil when a file was found.
func FindAndLoad(fsys FileSystem, dirs []string, name string) (map[string]any, string, error) {
	path, ok := Find(fsys, dirs, name)
	if !ok {
		return nil, "", nil
	}
	f, err := New(fsys, path)
	if err != nil {
		return nil, path, err
	}
	data, err := f.Load()
	if err != nil {
		return nil, path, err
	}
	if data == nil {
		data = map[string]any{}
	}
	return data, path, nil
}
