package ext

import (
	"path/filepath"
	"sync"
)

// SearchPath is the ordered list of directories script modules are loaded
// from. The first directory holding a module wins.
type SearchPath struct {
	mu   sync.Mutex
	once sync.Once
	seed func() []string
	site string
	dirs []string
}

// NewSearchPath creates a search path seeded from seed on first use, with
// site always kept last. Either may be empty.
func NewSearchPath(seed func() []string, site string) *SearchPath {
	return &SearchPath{seed: seed, site: site}
}

// Dirs returns the directories in search order, seeding the path on the
// first call.
func (p *SearchPath) Dirs() []string {
	p.once.Do(func() {
		var dirs []string
		if p.seed != nil {
			dirs = p.seed()
		}
		p.Seed(dirs...)
	})

	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.dirs...)
}

// Seed inserts dirs ahead of the site directory. Directories already on
// the path are skipped, so seeding is idempotent.
func (p *SearchPath) Seed(dirs ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	site := filepath.Clean(p.site)
	present := make(map[string]bool, len(p.dirs))
	var head []string
	for _, dir := range p.dirs {
		present[dir] = true
		if p.site == "" || dir != site {
			head = append(head, dir)
		}
	}

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		dir = filepath.Clean(dir)
		if present[dir] || (p.site != "" && dir == site) {
			continue
		}
		present[dir] = true
		head = append(head, dir)
	}

	if p.site != "" {
		head = append(head, site)
	}
	p.dirs = head
}
