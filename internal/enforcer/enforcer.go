package enforcer

import (
	"time"
)

// ActionKind names a punishment the bot can apply.
type ActionKind string

const (
	ActionMute ActionKind = "mute"
	ActionKick ActionKind = "kick"
	ActionBan  ActionKind = "ban"
	ActionNone ActionKind = ""
)

// Enforcer is the moderation-platform capability the detection core calls
// into. Failures are transient platform errors: callers log and abandon them,
// never retry, and never roll back tracker or counter state.
type Enforcer interface {
	Mute(guildID, userID string, duration time.Duration, reason string) error
	Kick(guildID, userID, reason string) error
	Ban(guildID, userID, reason string) error
	DeleteMessage(channelID, messageID string) error
	NotifyUser(userID, message string) error
}

// Apply dispatches a configured action keyword. Unknown kinds are a no-op so
// a bad settings document cannot crash the event path.
func Apply(e Enforcer, kind ActionKind, guildID, userID string, muteDuration time.Duration, reason string) error {
	switch kind {
	case ActionMute:
		return e.Mute(guildID, userID, muteDuration, reason)
	case ActionKick:
		return e.Kick(guildID, userID, reason)
	case ActionBan:
		return e.Ban(guildID, userID, reason)
	}
	return nil
}
