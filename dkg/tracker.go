package dkg

import (
	"sort"
	"sync"
	"time"

	"github.com/taco-network/gtaco/types"
)

// PhaseTracker records which (ritual, phase) submissions are currently in
// flight so a node never posts the same phase twice concurrently. It is
// safe for concurrent use.
type PhaseTracker struct {
	mu     sync.RWMutex
	active map[types.PhaseID]time.Time
}

// NewPhaseTracker creates an empty tracker.
func NewPhaseTracker() *PhaseTracker {
	return &PhaseTracker{active: make(map[types.PhaseID]time.Time)}
}

// Begin marks id as in flight. It returns false if the phase was already
// being worked on.
func (t *PhaseTracker) Begin(id types.PhaseID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.active[id]; ok {
		return false
	}
	t.active[id] = time.Now()
	return true
}

// End clears the in-flight mark for id.
func (t *PhaseTracker) End(id types.PhaseID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.active, id)
}

// Contains reports whether id is in flight.
func (t *PhaseTracker) Contains(id types.PhaseID) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.active[id]
	return ok
}

// StartedAt returns when work on id began.
func (t *PhaseTracker) StartedAt(id types.PhaseID) (time.Time, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	started, ok := t.active[id]
	return started, ok
}

// Len returns the number of in-flight phases.
func (t *PhaseTracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.active)
}

// Active returns the in-flight phase ids, ordered by ritual id then phase.
func (t *PhaseTracker) Active() []types.PhaseID {
	t.mu.RLock()
	ids := make([]types.PhaseID, 0, len(t.active))
	for id := range t.active {
		ids = append(ids, id)
	}
	t.mu.RUnlock()

	sort.Slice(ids, func(i, j int) bool {
		if ids[i].RitualID != ids[j].RitualID {
			return ids[i].RitualID < ids[j].RitualID
		}
		return ids[i].Phase < ids[j].Phase
	})
	return ids
}
