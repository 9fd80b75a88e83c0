package tracker

import (
	"sync"
	"time"
)

// ActionRecord is one tracked destructive action. Records live only inside
// their actor's window and are pruned on the next access.
type ActionRecord struct {
	Kind string
	At   time.Time
}

type key struct {
	scope string
	actor string
}

// Tracker counts occurrences per (scope, actor) over a sliding time window.
// All action kinds share one counter per actor. Discordgo dispatches handlers
// on separate goroutines, so the map is mutex-guarded.
type Tracker struct {
	mu      sync.Mutex
	windows map[key][]ActionRecord
}

func NewTracker() *Tracker {
	return &Tracker{windows: make(map[key][]ActionRecord)}
}

// prune drops records older than ts-window, oldest first. Must be called with
// the lock held. Records exactly at the window edge are kept.
func prune(records []ActionRecord, ts time.Time, window time.Duration) []ActionRecord {
	cutoff := ts.Add(-window)
	i := 0
	for i < len(records) && records[i].At.Before(cutoff) {
		i++
	}
	if i == 0 {
		return records
	}
	return append(records[:0], records[i:]...)
}

// Record appends an action, discards everything older than the window and
// returns the resulting in-window count.
func (t *Tracker) Record(scope, actor, kind string, ts time.Time, window time.Duration) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	k := key{scope: scope, actor: actor}
	records := append(t.windows[k], ActionRecord{Kind: kind, At: ts})
	records = prune(records, ts, window)
	t.windows[k] = records
	return len(records)
}

// Peek prunes and counts without recording anything.
func (t *Tracker) Peek(scope, actor string, ts time.Time, window time.Duration) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	k := key{scope: scope, actor: actor}
	records, ok := t.windows[k]
	if !ok {
		return 0
	}
	records = prune(records, ts, window)
	if len(records) == 0 {
		delete(t.windows, k)
		return 0
	}
	t.windows[k] = records
	return len(records)
}

// Reset drops all state for one actor in one scope.
func (t *Tracker) Reset(scope, actor string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.windows, key{scope: scope, actor: actor})
}

// ResetScope drops all actors in a scope. Used when the bot rejoins a guild.
func (t *Tracker) ResetScope(scope string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for k := range t.windows {
		if k.scope == scope {
			delete(t.windows, k)
		}
	}
}
