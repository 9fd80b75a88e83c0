package detectors

import (
	"fmt"
	"time"

	"modguard/internal/config"
	"modguard/internal/enforcer"
	"modguard/internal/logging"
	"modguard/internal/tracker"
)

// Reporter receives confirmed violations for the audit trail and the alert
// channel. Implementations must not block the event path.
type Reporter interface {
	ReportIncident(guildID, userID, detector, action, reason string)
}

// NukeEvent is one attributed destructive action.
type NukeEvent struct {
	GuildID      string
	ActorID      string
	Kind         string // ban, kick, role_delete, channel_delete, bulk_delete
	ActorRoleIDs []string
	At           time.Time
}

// AntiNuke watches the per-actor rate of destructive actions. All action
// kinds feed one shared counter per actor: three channel deletions plus two
// bans is five destructive actions.
type AntiNuke struct {
	policy *config.Policy
	track  *tracker.Tracker
	enf    enforcer.Enforcer
	rep    Reporter
}

func NewAntiNuke(policy *config.Policy, track *tracker.Tracker, enf enforcer.Enforcer, rep Reporter) *AntiNuke {
	return &AntiNuke{policy: policy, track: track, enf: enf, rep: rep}
}

// HandleAction records an attributed action and escalates when the actor's
// in-window count reaches a threshold. Whitelisted actors and disabled state
// drop the event without recording it.
func (a *AntiNuke) HandleAction(ev NukeEvent) {
	s := a.policy.Snapshot()
	if !s.AntiNukeEnabled {
		return
	}
	if a.policy.IsWhitelisted(ev.ActorRoleIDs) {
		logging.Debug("Anti-nuke: actor %s is whitelisted, ignoring %s", ev.ActorID, ev.Kind)
		return
	}

	count := a.track.Record(ev.GuildID, ev.ActorID, ev.Kind, ev.At, s.NukeWindow())
	logging.Debug("Anti-nuke: actor %s at %d/%d actions in guild %s (%s)",
		ev.ActorID, count, s.NukeBanThreshold, ev.GuildID, ev.Kind)

	// Ban outranks kick when both thresholds are satisfied at once.
	switch {
	case count >= s.NukeBanThreshold:
		a.punish(ev, enforcer.ActionBan, count, s.NukeTimeWindow)
	case count >= s.NukeKickThreshold:
		a.punish(ev, enforcer.ActionKick, count, s.NukeTimeWindow)
	}
}

// punish requests an enforcement action. The actor's window is deliberately
// NOT cleared: if a kick fails to remove them and the burst continues, the
// accumulated count escalates to the ban threshold.
func (a *AntiNuke) punish(ev NukeEvent, action enforcer.ActionKind, count, windowSeconds int) {
	reason := fmt.Sprintf("Anti-nuke: %d destructive actions in %ds", count, windowSeconds)
	if err := enforcer.Apply(a.enf, action, ev.GuildID, ev.ActorID, 0, reason); err != nil {
		logging.Error("Anti-nuke %s of %s in guild %s failed: %v", action, ev.ActorID, ev.GuildID, err)
		return
	}
	logging.Warn("ANTI-NUKE: %s applied to %s in guild %s (%s)", action, ev.ActorID, ev.GuildID, reason)
	if a.rep != nil {
		a.rep.ReportIncident(ev.GuildID, ev.ActorID, "antinuke", string(action), reason)
	}
}
