package experiment

import (
	"fmt"
	"sync"
	"time"
)

// GuardStateVersion is written into persisted guard state.
const GuardStateVersion = 1

// GuardEntry holds the cross-session counters of one (user, variant) pair.
type GuardEntry struct {
	ConsecutiveCritical int       `json:"consecutiveCritical"`
	ConsecutiveInvalid  int       `json:"consecutiveInvalid"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// GuardState is the persisted form of a Tracker.
type GuardState struct {
	Version int                   `json:"version"`
	Entries map[string]GuardEntry `json:"entries"`
}

// Tracker counts consecutive unhealthy sessions per (user, variant) and
// decides when a pair is overridden to the baseline variant.
type Tracker struct {
	mu          sync.Mutex
	switchAfter int
	entries     map[string]GuardEntry
}

// NewTracker creates a Tracker overriding a pair after switchAfter
// consecutive unhealthy sessions (default 2).
func NewTracker(switchAfter int) *Tracker {
	if switchAfter <= 0 {
		switchAfter = 2
	}
	return &Tracker{
		switchAfter: switchAfter,
		entries:     make(map[string]GuardEntry),
	}
}

func trackerKey(userID int64, variant string) string {
	return fmt.Sprintf("%d:%s", userID, variant)
}

// Entry returns the counters of (userID, variant).
func (t *Tracker) Entry(userID int64, variant string) GuardEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.entries[trackerKey(userID, variant)]
}

// ObserveSession records the outcome of a finished session. Any non-critical
// result resets the matching counter.
func (t *Tracker) ObserveSession(userID int64, variant string, vibrationCritical, divergenceInvalid bool, at time.Time) GuardEntry {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := trackerKey(userID, variant)
	e := t.entries[key]
	if vibrationCritical {
		e.ConsecutiveCritical++
	} else {
		e.ConsecutiveCritical = 0
	}
	if divergenceInvalid {
		e.ConsecutiveInvalid++
	} else {
		e.ConsecutiveInvalid = 0
	}
	e.UpdatedAt = at
	t.entries[key] = e
	return e
}

// Override reports whether (userID, variant) must run as baseline.
func (t *Tracker) Override(userID int64, variant string) bool {
	if variant == VariantBaseline {
		return false
	}
	e := t.Entry(userID, variant)
	return e.ConsecutiveCritical >= t.switchAfter || e.ConsecutiveInvalid >= t.switchAfter
}

// State returns a copy of the counters for persistence.
func (t *Tracker) State() GuardState {
	t.mu.Lock()
	defer t.mu.Unlock()

	entries := make(map[string]GuardEntry, len(t.entries))
	for k, v := range t.entries {
		entries[k] = v
	}
	return GuardState{Version: GuardStateVersion, Entries: entries}
}

// Restore replaces the counters with s. Unknown versions are rejected.
func (t *Tracker) Restore(s GuardState) error {
	if s.Version != GuardStateVersion {
		return fmt.Errorf("experiment: unsupported guard state version %d", s.Version)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.entries = make(map[string]GuardEntry, len(s.Entries))
	for k, v := range s.Entries {
		t.entries[k] = v
	}
	return nil
}
