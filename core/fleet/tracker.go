package fleet

import (
	"sort"
	"sync"
)

// Tracker maintains the set of routes whose vehicle is currently running.
type Tracker interface {
	// MarkStarted adds the route. Adding a present route is a no-op.
	MarkStarted(routeKey string)
	// MarkStopped removes the route. Removing an absent route is a no-op.
	MarkStopped(routeKey string)
	// Snapshot returns a sorted copy of the active route keys.
	Snapshot() []string
	// Clear empties the set.
	Clear()
}

// MemoryTracker is the in-process Tracker used by the service.
type MemoryTracker struct {
	mu     sync.RWMutex
	active map[string]struct{}
}

func NewMemoryTracker() *MemoryTracker {
	return &MemoryTracker{active: map[string]struct{}{}}
}

func (t *MemoryTracker) MarkStarted(routeKey string) {
	t.mu.Lock()
	t.active[routeKey] = struct{}{}
	t.mu.Unlock()
}

func (t *MemoryTracker) MarkStopped(routeKey string) {
	t.mu.Lock()
	delete(t.active, routeKey)
	t.mu.Unlock()
}

func (t *MemoryTracker) Snapshot() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	keys := make([]string, 0, len(t.active))
	for k := range t.active {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (t *MemoryTracker) Clear() {
	t.mu.Lock()
	t.active = map[string]struct{}{}
	t.mu.Unlock()
}
