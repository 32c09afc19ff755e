// ABOUTME: Set of itinerary items the user pinned before asking for a regeneration
package tripview

import (
	"slices"
	"sync"
)

// LockSet is safe for concurrent use. The zero value is empty and ready.
type LockSet struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

// Toggle flips the lock on id and reports whether it is now locked.
func (l *LockSet) Toggle(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.ids == nil {
		l.ids = make(map[string]struct{})
	}
	if _, locked := l.ids[id]; locked {
		delete(l.ids, id)
		return false
	}
	l.ids[id] = struct{}{}
	return true
}

func (l *LockSet) Locked(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.ids[id]
	return ok
}

func (l *LockSet) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.ids)
}

// IDs returns the locked ids sorted.
func (l *LockSet) IDs() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, 0, len(l.ids))
	for id := range l.ids {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

func (l *LockSet) Clear() {
	l.mu.Lock()
	l.ids = nil
	l.mu.Unlock()
}
