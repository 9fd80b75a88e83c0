package tracker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func record(hash uint64, at time.Time) MessageRecord {
	return MessageRecord{ContentHash: hash, At: at}
}

func TestEvaluateCountsFloodInsideWindow(t *testing.T) {
	assert := assert.New(t)
	h := NewMessageHistory()
	base := time.Now()
	window := 5 * time.Second

	for i := 0; i < 4; i++ {
		h.Append("g1", "u1", record(uint64(i), base.Add(time.Duration(i)*time.Second)), window)
	}

	recent, duplicates := h.Evaluate("g1", "u1", 99, base.Add(4*time.Second), window)
	assert.Equal(4, recent)
	assert.Equal(0, duplicates)
}

func TestEvaluateDuplicatesBeyondFloodWindow(t *testing.T) {
	assert := assert.New(t)
	h := NewMessageHistory()
	base := time.Now()
	window := 5 * time.Second

	// Two identical messages at t=0 and t=1, evaluated at t=6: both are
	// outside the flood window but still inside the retention horizon, so
	// they count as duplicates.
	h.Append("g1", "u1", record(42, base), window)
	h.Append("g1", "u1", record(42, base.Add(time.Second)), window)

	recent, duplicates := h.Evaluate("g1", "u1", 42, base.Add(6*time.Second), window)
	assert.Equal(0, recent)
	assert.Equal(2, duplicates)
}

func TestEvaluateDropsBeyondRetention(t *testing.T) {
	assert := assert.New(t)
	h := NewMessageHistory()
	base := time.Now()
	window := 5 * time.Second

	h.Append("g1", "u1", record(42, base), window)

	// Past twice the window nothing survives.
	recent, duplicates := h.Evaluate("g1", "u1", 42, base.Add(11*time.Second), window)
	assert.Equal(0, recent)
	assert.Equal(0, duplicates)
}

func TestEvaluateDoesNotCountIncoming(t *testing.T) {
	assert := assert.New(t)
	h := NewMessageHistory()
	base := time.Now()
	window := 5 * time.Second

	recent, duplicates := h.Evaluate("g1", "u1", 42, base, window)
	assert.Equal(0, recent)
	assert.Equal(0, duplicates)
}

func TestResetClearsAuthorOnly(t *testing.T) {
	assert := assert.New(t)
	h := NewMessageHistory()
	base := time.Now()
	window := 5 * time.Second

	h.Append("g1", "u1", record(1, base), window)
	h.Append("g1", "u2", record(1, base), window)

	h.Reset("g1", "u1")

	recent, _ := h.Evaluate("g1", "u1", 1, base.Add(time.Second), window)
	assert.Equal(0, recent)
	recent, _ = h.Evaluate("g1", "u2", 1, base.Add(time.Second), window)
	assert.Equal(1, recent)
}
