// Package notebook is the process-wide store for values actors note down
// during a performance, plus the directions that read them back.
package notebook

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
)

// ErrNotFound indicates no note exists under a key.
var ErrNotFound = errors.New("notebook: not found")

// Notebook maps keys to noted values.
type Notebook struct {
	mu    sync.RWMutex
	notes map[string]any
}

// New creates an empty notebook.
func New() *Notebook {
	return &Notebook{notes: make(map[string]any)}
}

// Notes stores value under key, replacing any earlier note.
func (n *Notebook) Notes(key string, value any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notes[key] = value
}

// LooksUp returns the value noted under key.
func (n *Notebook) LooksUp(key string) (any, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	value, ok := n.notes[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	return value, nil
}

// Keys returns the noted keys, sorted.
func (n *Notebook) Keys() []string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return slices.Sorted(maps.Keys(n.notes))
}

// Clear drops every note.
func (n *Notebook) Clear() {
	n.mu.Lock()
	defer n.mu.Unlock()
	clear(n.notes)
}

var the = New()

// Default returns the process-wide notebook.
func Default() *Notebook {
	return the
}

// Reset clears the process-wide notebook. Call it between test sessions.
func Reset() {
	the.Clear()
}
