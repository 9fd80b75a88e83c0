package warnings

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"modguard/internal/enforcer"
	"modguard/internal/logging"
	"modguard/internal/storage"
)

// ErrInvalidAmount rejects clear amounts that are not "all" or a positive
// integer. Nothing is mutated when it is returned.
var ErrInvalidAmount = errors.New("warnings: amount must be a positive number or \"all\"")

// Engine is the warning-accumulation state machine. Counts are keyed by
// (guild, user), never go negative, and are persisted after every mutation.
type Engine struct {
	mu     sync.Mutex
	counts map[string]map[string]int
	store  *storage.Store
	enf    enforcer.Enforcer
}

// Load reads the warnings document. A corrupted document pair starts empty,
// loudly: that is an alertable event, not a clean slate.
func Load(store *storage.Store, enf enforcer.Enforcer) *Engine {
	counts := make(map[string]map[string]int)
	switch err := store.Load(storage.WarningsDocument, &counts); err {
	case nil:
		total := 0
		for _, users := range counts {
			total += len(users)
		}
		logging.Info("Loaded %d user warnings from %d guilds", total, len(counts))
	case storage.ErrNotFound:
		logging.Info("No warnings on disk, starting empty")
	case storage.ErrCorrupted:
		counts = make(map[string]map[string]int)
		logging.Critical("Warnings document and backup unreadable, starting empty")
	}
	return &Engine{counts: counts, store: store, enf: enf}
}

// snapshot deep-copies the counts table for the persistence writer. Must be
// called with the lock held.
func (e *Engine) snapshot() map[string]map[string]int {
	out := make(map[string]map[string]int, len(e.counts))
	for guild, users := range e.counts {
		cp := make(map[string]int, len(users))
		for user, n := range users {
			cp[user] = n
		}
		out[guild] = cp
	}
	return out
}

// Count returns the current warning count for a user.
func (e *Engine) Count(guildID, userID string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.counts[guildID][userID]
}

// Warn increments the user's count, persists before returning and applies the
// escalation tier for the post-increment count. Enforcement failures are
// logged and abandoned; the warning stays recorded either way.
func (e *Engine) Warn(guildID, userID, reason string) (int, error) {
	e.mu.Lock()
	users, ok := e.counts[guildID]
	if !ok {
		users = make(map[string]int)
		e.counts[guildID] = users
	}
	users[userID]++
	count := users[userID]
	doc := e.snapshot()
	e.mu.Unlock()

	if err := e.store.SaveSync(storage.WarningsDocument, doc); err != nil {
		logging.Error("Failed to persist warnings: %v", err)
	}

	e.escalate(guildID, userID, count, reason)
	return count, nil
}

// Clear removes warnings. amount is "all" or a positive integer; the cleared
// amount is clamped to the current count and the result floors at zero.
func (e *Engine) Clear(guildID, userID, amount string) (cleared, remaining int, err error) {
	var toClear int
	all := amount == "all"
	if !all {
		toClear, err = strconv.Atoi(amount)
		if err != nil || toClear <= 0 {
			return 0, 0, ErrInvalidAmount
		}
	}

	e.mu.Lock()
	current := e.counts[guildID][userID]
	if all || toClear > current {
		cleared = current
	} else {
		cleared = toClear
	}
	remaining = current - cleared
	if users, ok := e.counts[guildID]; ok {
		users[userID] = remaining
	}
	doc := e.snapshot()
	e.mu.Unlock()

	if saveErr := e.store.SaveSync(storage.WarningsDocument, doc); saveErr != nil {
		logging.Error("Failed to persist warnings: %v", saveErr)
	}
	return cleared, remaining, nil
}

// Flush writes the current counts synchronously.
func (e *Engine) Flush() error {
	e.mu.Lock()
	doc := e.snapshot()
	e.mu.Unlock()
	return e.store.SaveSync(storage.WarningsDocument, doc)
}

// StartAutoFlush periodically saves warning state as a loss-mitigation
// measure, independent of individual mutations. heartbeat (optional) is
// invoked after every successful flush so a liveness monitor can notice a
// stalled loop. Returns a stop function.
func (e *Engine) StartAutoFlush(interval time.Duration, heartbeat func()) func() {
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := e.Flush(); err != nil {
					logging.Error("Warning auto-save failed: %v", err)
					continue
				}
				logging.Debug("Auto-saved warnings")
				if heartbeat != nil {
					heartbeat()
				}
			case <-done:
				return
			}
		}
	}()
	return func() { close(done) }
}

func (e *Engine) escalate(guildID, userID string, count int, reason string) {
	p := EscalationFor(count)
	if p.Action == enforcer.ActionNone {
		return
	}

	fullReason := fmt.Sprintf("%d warnings reached | Original reason: %s", count, reason)
	if err := enforcer.Apply(e.enf, p.Action, guildID, userID, p.MuteDuration, fullReason); err != nil {
		logging.Error("Warning escalation %s failed for user %s in guild %s: %v", p.Action, userID, guildID, err)
		return
	}
	logging.Warn("WARN-ESCALATION: %s applied to user %s in guild %s (%d warnings)", p.Action, userID, guildID, count)
}
