package detectors

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modguard/internal/enforcer"
	"modguard/internal/tracker"
)

func message(author, content string, at time.Time) MessageEvent {
	return MessageEvent{
		GuildID:   "g1",
		ChannelID: "c1",
		MessageID: fmt.Sprintf("m-%d", at.UnixNano()),
		AuthorID:  author,
		Content:   content,
		At:        at,
	}
}

func newAntiSpam(t *testing.T) (*AntiSpam, *fakeEnforcer, *fakeReporter) {
	t.Helper()
	enf := &fakeEnforcer{}
	rep := &fakeReporter{}
	return NewAntiSpam(newTestPolicy(t), tracker.NewMessageHistory(), enf, rep), enf, rep
}

func TestFloodTriggersAtLimit(t *testing.T) {
	assert := assert.New(t)
	a, enf, rep := newAntiSpam(t)
	base := time.Now()

	// Default limit is 5 per 5s window. The first five distinct messages
	// accumulate; the sixth sees five retained in-window and violates.
	for i := 0; i < 5; i++ {
		a.HandleMessage(message("u1", fmt.Sprintf("msg %d", i), base.Add(time.Duration(i)*500*time.Millisecond)))
	}
	require.Empty(t, enf.actions())

	ev := message("u1", "one more", base.Add(3*time.Second))
	a.HandleMessage(ev)

	actions := enf.actions()
	require.Len(t, actions, 1)
	assert.Equal(enforcer.ActionMute, actions[0].kind)
	assert.Equal(10*time.Minute, actions[0].duration)
	assert.True(strings.HasPrefix(actions[0].reason, "Anti-spam: "))
	assert.Contains(actions[0].reason, "5 messages in 5s")

	// The violating message is deleted and the incident reported.
	assert.Equal([]string{ev.MessageID}, enf.deletedIDs())
	incidents := rep.all()
	require.Len(t, incidents, 1)
	assert.Equal("antispam", incidents[0].detector)
	assert.Equal("mute", incidents[0].action)
}

func TestViolationResetsHistory(t *testing.T) {
	a, enf, _ := newAntiSpam(t)
	base := time.Now()

	for i := 0; i < 6; i++ {
		a.HandleMessage(message("u1", fmt.Sprintf("msg %d", i), base.Add(time.Duration(i)*200*time.Millisecond)))
	}
	require.Len(t, enf.actions(), 1)

	// History was cleared; the next burst needs a full five again.
	for i := 0; i < 5; i++ {
		a.HandleMessage(message("u1", fmt.Sprintf("after %d", i), base.Add(2*time.Second+time.Duration(i)*200*time.Millisecond)))
	}
	require.Len(t, enf.actions(), 1)
}

func TestSlowMessagesNeverTrigger(t *testing.T) {
	a, enf, _ := newAntiSpam(t)
	base := time.Now()

	for i := 0; i < 20; i++ {
		a.HandleMessage(message("u1", fmt.Sprintf("msg %d", i), base.Add(time.Duration(i)*6*time.Second)))
	}
	require.Empty(t, enf.actions())
}

func TestMentionLimitIsStrictlyGreater(t *testing.T) {
	assert := assert.New(t)
	a, enf, _ := newAntiSpam(t)
	base := time.Now()

	// Default limit 5: exactly five mentions is allowed.
	ev := message("u1", "hello @everyone", base)
	ev.MentionCount = 5
	a.HandleMessage(ev)
	require.Empty(t, enf.actions())

	ev = message("u1", "mass ping", base.Add(10*time.Second))
	ev.MentionCount = 6
	a.HandleMessage(ev)

	actions := enf.actions()
	require.Len(t, actions, 1)
	assert.Contains(actions[0].reason, "6 mentions")
}

func TestDuplicateDetectionSpansBeyondFloodWindow(t *testing.T) {
	assert := assert.New(t)
	a, enf, _ := newAntiSpam(t)
	base := time.Now()

	// Three identical messages land inside the window without violating
	// (the third sees only two retained copies, below the limit of 3).
	a.HandleMessage(message("u1", "buy cheap nitro", base))
	a.HandleMessage(message("u1", "buy cheap nitro", base.Add(time.Second)))
	a.HandleMessage(message("u1", "buy cheap nitro", base.Add(2*time.Second)))
	require.Empty(t, enf.actions())

	// The fourth copy arrives past the 5s flood window but inside the 10s
	// retention horizon: all three earlier copies still count.
	a.HandleMessage(message("u1", "buy cheap nitro", base.Add(8*time.Second)))

	actions := enf.actions()
	require.Len(t, actions, 1)
	assert.Contains(actions[0].reason, "3 duplicate messages")
	assert.NotContains(actions[0].reason, "messages in")
}

func TestDuplicatesForgottenPastRetention(t *testing.T) {
	a, enf, _ := newAntiSpam(t)
	base := time.Now()

	a.HandleMessage(message("u1", "same", base))
	a.HandleMessage(message("u1", "same", base.Add(time.Second)))
	a.HandleMessage(message("u1", "same", base.Add(2*time.Second)))
	// Past twice the window the copies have been pruned.
	a.HandleMessage(message("u1", "same", base.Add(30*time.Second)))

	require.Empty(t, enf.actions())
}

func TestConfiguredActionIsApplied(t *testing.T) {
	assert := assert.New(t)
	a, enf, _ := newAntiSpam(t)
	require.NoError(t, a.policy.SetSpamAction("ban"))
	base := time.Now()

	ev := message("u1", "ping wall", base)
	ev.MentionCount = 50
	a.HandleMessage(ev)

	actions := enf.actions()
	require.Len(t, actions, 1)
	assert.Equal(enforcer.ActionBan, actions[0].kind)
}

func TestCombinedReasons(t *testing.T) {
	assert := assert.New(t)
	a, enf, _ := newAntiSpam(t)
	base := time.Now()

	for i := 0; i < 5; i++ {
		a.HandleMessage(message("u1", fmt.Sprintf("msg %d", i), base.Add(time.Duration(i)*200*time.Millisecond)))
	}
	ev := message("u1", "final", base.Add(2*time.Second))
	ev.MentionCount = 10
	a.HandleMessage(ev)

	actions := enf.actions()
	require.Len(t, actions, 1)
	assert.Contains(actions[0].reason, "messages in 5s")
	assert.Contains(actions[0].reason, "10 mentions")
}

func TestBotMessagesIgnored(t *testing.T) {
	a, enf, _ := newAntiSpam(t)
	base := time.Now()

	for i := 0; i < 10; i++ {
		ev := message("b1", "automated output", base.Add(time.Duration(i)*100*time.Millisecond))
		ev.IsBot = true
		a.HandleMessage(ev)
	}
	require.Empty(t, enf.actions())
}

func TestWhitelistedAuthorIgnored(t *testing.T) {
	a, enf, _ := newAntiSpam(t)
	a.policy.AddWhitelistRole("mod")
	base := time.Now()

	for i := 0; i < 10; i++ {
		ev := message("u1", "rapid fire", base.Add(time.Duration(i)*100*time.Millisecond))
		ev.RoleIDs = []string{"mod"}
		a.HandleMessage(ev)
	}
	require.Empty(t, enf.actions())
}

func TestDisabledIgnoresEverything(t *testing.T) {
	a, enf, _ := newAntiSpam(t)
	a.policy.SetAntiSpamEnabled(false)
	base := time.Now()

	for i := 0; i < 10; i++ {
		a.HandleMessage(message("u1", "spam", base.Add(time.Duration(i)*100*time.Millisecond)))
	}
	require.Empty(t, enf.actions())
}

func TestAuthorsTrackedIndependently(t *testing.T) {
	a, enf, _ := newAntiSpam(t)
	base := time.Now()

	for i := 0; i < 4; i++ {
		at := base.Add(time.Duration(i) * 200 * time.Millisecond)
		a.HandleMessage(message("u1", fmt.Sprintf("a %d", i), at))
		a.HandleMessage(message("u2", fmt.Sprintf("b %d", i), at))
	}
	require.Empty(t, enf.actions())
}
