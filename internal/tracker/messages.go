package tracker

import (
	"sync"
	"time"
)

// MessageRecord is one tracked message. Only a hash of the content is kept.
type MessageRecord struct {
	ContentHash  uint64
	At           time.Time
	MentionCount int
}

// MessageHistory retains per-author message records for twice the detection
// window: the flood check only looks back one window, but duplicate detection
// deliberately looks further, so a repeat just past the window edge still
// counts.
type MessageHistory struct {
	mu       sync.Mutex
	messages map[key][]MessageRecord
}

func NewMessageHistory() *MessageHistory {
	return &MessageHistory{messages: make(map[key][]MessageRecord)}
}

func pruneMessages(records []MessageRecord, ts time.Time, retention time.Duration) []MessageRecord {
	cutoff := ts.Add(-retention)
	i := 0
	for i < len(records) && records[i].At.Before(cutoff) {
		i++
	}
	if i == 0 {
		return records
	}
	return append(records[:0], records[i:]...)
}

// Evaluate prunes the author's history to 2x the window, then returns the
// count of retained messages inside the window (flood) and the count of
// retained messages anywhere in the 2x retention matching contentHash
// (duplicates). The incoming message itself is not counted.
func (h *MessageHistory) Evaluate(scope, actor string, contentHash uint64, ts time.Time, window time.Duration) (recent, duplicates int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	k := key{scope: scope, actor: actor}
	records, ok := h.messages[k]
	if !ok {
		return 0, 0
	}

	records = pruneMessages(records, ts, 2*window)
	h.messages[k] = records

	floodCutoff := ts.Add(-window)
	for _, r := range records {
		if !r.At.Before(floodCutoff) {
			recent++
		}
		if r.ContentHash == contentHash {
			duplicates++
		}
	}
	return recent, duplicates
}

// Append records a non-violating message and prunes to the 2x retention.
func (h *MessageHistory) Append(scope, actor string, rec MessageRecord, window time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()

	k := key{scope: scope, actor: actor}
	records := append(h.messages[k], rec)
	h.messages[k] = pruneMessages(records, rec.At, 2*window)
}

// Reset clears an author's history. No partial credit carries over after a
// violation.
func (h *MessageHistory) Reset(scope, actor string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.messages, key{scope: scope, actor: actor})
}
