package detectors

import (
	"fmt"
	"strings"
	"time"

	"modguard/internal/config"
	"modguard/internal/enforcer"
	"modguard/internal/logging"
	"modguard/internal/tracker"
	"modguard/pkg/util"
)

// MessageEvent is one inbound user message, reduced to the fields the
// detector needs. Content is hashed before storage; the raw text is never
// retained.
type MessageEvent struct {
	GuildID      string
	ChannelID    string
	MessageID    string
	AuthorID     string
	IsBot        bool
	Content      string
	MentionCount int
	RoleIDs      []string
	At           time.Time
}

// AntiSpam evaluates messages against flood, mention and duplicate limits.
// The three checks run independently against the same history and a single
// violation can carry several reasons.
type AntiSpam struct {
	policy  *config.Policy
	history *tracker.MessageHistory
	enf     enforcer.Enforcer
	rep     Reporter
}

func NewAntiSpam(policy *config.Policy, history *tracker.MessageHistory, enf enforcer.Enforcer, rep Reporter) *AntiSpam {
	return &AntiSpam{policy: policy, history: history, enf: enf, rep: rep}
}

// HandleMessage evaluates one message. The incoming message is only appended
// to history when it does NOT violate: a violating message resets the
// author's history instead, so no partial credit survives the punishment.
func (a *AntiSpam) HandleMessage(ev MessageEvent) {
	if ev.IsBot {
		return
	}
	s := a.policy.Snapshot()
	if !s.AntiSpamEnabled {
		return
	}
	if a.policy.IsWhitelisted(ev.RoleIDs) {
		return
	}

	hash := util.HashContent(ev.Content)
	recent, duplicates := a.history.Evaluate(ev.GuildID, ev.AuthorID, hash, ev.At, s.SpamWindow())

	var reasons []string
	if recent >= s.SpamMessageLimit {
		reasons = append(reasons, fmt.Sprintf("%d messages in %ds", recent, s.SpamTimeWindow))
	}
	if ev.MentionCount > s.SpamMentionLimit {
		reasons = append(reasons, fmt.Sprintf("%d mentions", ev.MentionCount))
	}
	if duplicates >= s.SpamDuplicateLimit {
		reasons = append(reasons, fmt.Sprintf("%d duplicate messages", duplicates))
	}

	if len(reasons) == 0 {
		a.history.Append(ev.GuildID, ev.AuthorID, tracker.MessageRecord{
			ContentHash:  hash,
			At:           ev.At,
			MentionCount: ev.MentionCount,
		}, s.SpamWindow())
		return
	}

	reason := "Anti-spam: " + strings.Join(reasons, ", ")
	action := enforcer.ActionKind(s.SpamAction)
	if err := enforcer.Apply(a.enf, action, ev.GuildID, ev.AuthorID, s.MuteDuration(), reason); err != nil {
		logging.Error("Anti-spam %s of %s in guild %s failed: %v", action, ev.AuthorID, ev.GuildID, err)
	} else {
		logging.Warn("ANTI-SPAM: %s applied to %s in guild %s (%s)", action, ev.AuthorID, ev.GuildID, reason)
		if a.rep != nil {
			a.rep.ReportIncident(ev.GuildID, ev.AuthorID, "antispam", string(action), reason)
		}
	}

	// Best effort: the message may already be gone.
	if err := a.enf.DeleteMessage(ev.ChannelID, ev.MessageID); err != nil {
		logging.Debug("Anti-spam: could not delete message %s: %v", ev.MessageID, err)
	}
	a.history.Reset(ev.GuildID, ev.AuthorID)
}
