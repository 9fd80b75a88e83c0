package detectors

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"modguard/internal/config"
	"modguard/internal/enforcer"
	"modguard/internal/storage"
)

type appliedAction struct {
	kind     enforcer.ActionKind
	guildID  string
	userID   string
	duration time.Duration
	reason   string
}

type fakeEnforcer struct {
	mu      sync.Mutex
	applied []appliedAction
	deleted []string
	fail    error
}

func (f *fakeEnforcer) record(a appliedAction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	f.applied = append(f.applied, a)
	return nil
}

func (f *fakeEnforcer) Mute(guildID, userID string, duration time.Duration, reason string) error {
	return f.record(appliedAction{kind: enforcer.ActionMute, guildID: guildID, userID: userID, duration: duration, reason: reason})
}

func (f *fakeEnforcer) Kick(guildID, userID, reason string) error {
	return f.record(appliedAction{kind: enforcer.ActionKick, guildID: guildID, userID: userID, reason: reason})
}

func (f *fakeEnforcer) Ban(guildID, userID, reason string) error {
	return f.record(appliedAction{kind: enforcer.ActionBan, guildID: guildID, userID: userID, reason: reason})
}

func (f *fakeEnforcer) DeleteMessage(channelID, messageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, messageID)
	return nil
}

func (f *fakeEnforcer) NotifyUser(userID, message string) error { return nil }

func (f *fakeEnforcer) actions() []appliedAction {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]appliedAction(nil), f.applied...)
}

func (f *fakeEnforcer) deletedIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

type incident struct {
	detector string
	action   string
	userID   string
}

type fakeReporter struct {
	mu        sync.Mutex
	incidents []incident
}

func (r *fakeReporter) ReportIncident(guildID, userID, detector, action, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.incidents = append(r.incidents, incident{detector: detector, action: action, userID: userID})
}

func (r *fakeReporter) all() []incident {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]incident(nil), r.incidents...)
}

func newTestPolicy(t *testing.T) *config.Policy {
	t.Helper()
	store, err := storage.NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(store.Close)
	return config.LoadPolicy(store)
}
