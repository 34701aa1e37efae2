// Package titleindex persists the page-name to page-title mapping recorded
// by the \title metacommand so later runs and other tools can resolve a page
// title from its name.
package titleindex

import (
	"context"
	"maps"
	"sync"
)

// Index stores page titles keyed by page name. Writing a name again replaces
// its title.
type Index interface {
	Put(ctx context.Context, name, title string) error
	Title(ctx context.Context, name string) (string, bool, error)
	All(ctx context.Context) (map[string]string, error)
	Close() error
}

// Open returns a sqlite-backed index at path, or an in-memory index when path
// is empty.
func Open(path string) (Index, error) {
	if path == "" {
		return NewMemoryIndex(), nil
	}
	idx, err := NewSQLiteIndex(path)
	if err != nil {
		return nil, err
	}
	return idx, nil
}

// MemoryIndex is an Index that lives for one process.
type MemoryIndex struct {
	mu     sync.RWMutex
	titles map[string]string
	closed bool
}

// NewMemoryIndex returns an empty in-memory index.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{titles: make(map[string]string)}
}

func (m *MemoryIndex) Put(_ context.Context, name, title string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrIndexClosed
	}
	m.titles[name] = title
	return nil
}

func (m *MemoryIndex) Title(_ context.Context, name string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return "", false, ErrIndexClosed
	}
	t, ok := m.titles[name]
	return t, ok, nil
}

func (m *MemoryIndex) All(context.Context) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrIndexClosed
	}
	return maps.Clone(m.titles), nil
}

func (m *MemoryIndex) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
