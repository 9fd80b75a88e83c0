package detectors

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modguard/internal/enforcer"
	"modguard/internal/tracker"
)

func nukeEvent(actor, kind string, at time.Time) NukeEvent {
	return NukeEvent{GuildID: "g1", ActorID: actor, Kind: kind, At: at}
}

func newAntiNuke(t *testing.T) (*AntiNuke, *fakeEnforcer, *fakeReporter, *tracker.Tracker) {
	t.Helper()
	enf := &fakeEnforcer{}
	rep := &fakeReporter{}
	track := tracker.NewTracker()
	return NewAntiNuke(newTestPolicy(t), track, enf, rep), enf, rep, track
}

func TestKickAtKickThreshold(t *testing.T) {
	assert := assert.New(t)
	a, enf, rep, track := newAntiNuke(t)
	base := time.Now()

	// Default thresholds: kick at 3, ban at 5.
	a.HandleAction(nukeEvent("u1", "channel_delete", base))
	a.HandleAction(nukeEvent("u1", "channel_delete", base.Add(time.Second)))
	assert.Empty(enf.actions())

	a.HandleAction(nukeEvent("u1", "role_delete", base.Add(2*time.Second)))

	actions := enf.actions()
	require.Len(t, actions, 1)
	assert.Equal(enforcer.ActionKick, actions[0].kind)
	assert.Equal("u1", actions[0].userID)

	incidents := rep.all()
	require.Len(t, incidents, 1)
	assert.Equal("antinuke", incidents[0].detector)
	assert.Equal("kick", incidents[0].action)

	// The window is not cleared by the punishment.
	assert.Equal(3, track.Peek("g1", "u1", base.Add(2*time.Second), 10*time.Second))
}

func TestEscalatesToBanAtFifthAction(t *testing.T) {
	assert := assert.New(t)
	a, enf, _, _ := newAntiNuke(t)
	base := time.Now()

	for i := 0; i < 5; i++ {
		a.HandleAction(nukeEvent("u1", "channel_delete", base.Add(time.Duration(i)*time.Second)))
	}

	// Kicks at the 3rd and 4th action, ban at the 5th.
	actions := enf.actions()
	require.Len(t, actions, 3)
	assert.Equal(enforcer.ActionKick, actions[0].kind)
	assert.Equal(enforcer.ActionKick, actions[1].kind)
	assert.Equal(enforcer.ActionBan, actions[2].kind)
}

func TestBanOutranksKick(t *testing.T) {
	assert := assert.New(t)
	a, enf, _, _ := newAntiNuke(t)
	require.NoError(t, a.policy.SetNukeKickThreshold(5))
	base := time.Now()

	// Both thresholds at 5: the fifth action must ban, not kick.
	for i := 0; i < 5; i++ {
		a.HandleAction(nukeEvent("u1", "ban", base.Add(time.Duration(i)*time.Second)))
	}

	actions := enf.actions()
	require.Len(t, actions, 1)
	assert.Equal(enforcer.ActionBan, actions[0].kind)
}

func TestEnforcementFailureDoesNotRollBack(t *testing.T) {
	assert := assert.New(t)
	a, enf, _, _ := newAntiNuke(t)
	base := time.Now()

	enf.fail = errors.New("missing permissions")
	for i := 0; i < 4; i++ {
		a.HandleAction(nukeEvent("u1", "channel_delete", base.Add(time.Duration(i)*time.Second)))
	}
	// Failed kicks are abandoned without touching the window; the fifth
	// action still crosses the ban threshold.
	enf.fail = nil
	a.HandleAction(nukeEvent("u1", "channel_delete", base.Add(4*time.Second)))

	actions := enf.actions()
	require.Len(t, actions, 1)
	assert.Equal(enforcer.ActionBan, actions[0].kind)
}

func TestAllKindsShareOneCounter(t *testing.T) {
	a, enf, _, _ := newAntiNuke(t)
	base := time.Now()

	a.HandleAction(nukeEvent("u1", "ban", base))
	a.HandleAction(nukeEvent("u1", "kick", base.Add(time.Second)))
	a.HandleAction(nukeEvent("u1", "bulk_delete", base.Add(2*time.Second)))

	require.Len(t, enf.actions(), 1)
}

func TestActionsOutsideWindowDoNotCount(t *testing.T) {
	a, enf, _, _ := newAntiNuke(t)
	base := time.Now()

	a.HandleAction(nukeEvent("u1", "channel_delete", base))
	a.HandleAction(nukeEvent("u1", "channel_delete", base.Add(time.Second)))
	// Default window is 10s; the next two arrive after the first pair expired.
	a.HandleAction(nukeEvent("u1", "channel_delete", base.Add(20*time.Second)))
	a.HandleAction(nukeEvent("u1", "channel_delete", base.Add(21*time.Second)))

	require.Empty(t, enf.actions())
}

func TestDisabledDropsWithoutRecording(t *testing.T) {
	a, enf, _, track := newAntiNuke(t)
	a.policy.SetAntiNukeEnabled(false)
	base := time.Now()

	for i := 0; i < 5; i++ {
		a.HandleAction(nukeEvent("u1", "ban", base.Add(time.Duration(i)*time.Second)))
	}

	require.Empty(t, enf.actions())
	// Re-enabling must not inherit counts from the disabled period.
	assert.Equal(t, 0, track.Peek("g1", "u1", base.Add(5*time.Second), 10*time.Second))
}

func TestWhitelistedActorIgnored(t *testing.T) {
	a, enf, _, track := newAntiNuke(t)
	a.policy.AddWhitelistRole("mod")
	base := time.Now()

	for i := 0; i < 5; i++ {
		ev := nukeEvent("u1", "ban", base.Add(time.Duration(i)*time.Second))
		ev.ActorRoleIDs = []string{"member", "mod"}
		a.HandleAction(ev)
	}

	require.Empty(t, enf.actions())
	assert.Equal(t, 0, track.Peek("g1", "u1", base.Add(5*time.Second), 10*time.Second))
}

func TestActorsTrackedIndependently(t *testing.T) {
	a, enf, _, _ := newAntiNuke(t)
	base := time.Now()

	a.HandleAction(nukeEvent("u1", "channel_delete", base))
	a.HandleAction(nukeEvent("u1", "channel_delete", base.Add(time.Second)))
	a.HandleAction(nukeEvent("u2", "channel_delete", base.Add(time.Second)))

	require.Empty(t, enf.actions())
}
