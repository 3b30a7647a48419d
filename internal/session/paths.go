package session

import "sync"

// MemoryPaths is a PathStore kept in memory, seeded from the command line.
type MemoryPaths struct {
	mu       sync.Mutex
	path     string
	onChange func(string)
}

var _ PathStore = (*MemoryPaths)(nil)

// NewMemoryPaths returns a store holding path.
func NewMemoryPaths(path string) *MemoryPaths {
	return &MemoryPaths{path: path}
}

// Path returns the current path.
func (p *MemoryPaths) Path() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.path
}

// SetPath replaces the current path and notifies the change hook, if any.
func (p *MemoryPaths) SetPath(path string) {
	p.mu.Lock()
	changed := p.path != path
	p.path = path
	hook := p.onChange
	p.mu.Unlock()
	if changed && hook != nil {
		hook(path)
	}
}

// OnChange registers fn to run after every change of the path.
func (p *MemoryPaths) OnChange(fn func(string)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onChange = fn
}
