package warnings

import (
	"time"

	"modguard/internal/enforcer"
)

// Punishment is the automatic consequence of reaching a warning count.
type Punishment struct {
	Action       enforcer.ActionKind
	MuteDuration time.Duration
}

// EscalationFor maps a post-increment warning count to its punishment tier.
// Counts 1, 2 and 5 are deliberate gaps: the warning itself is the
// consequence.
func EscalationFor(count int) Punishment {
	switch {
	case count == 3:
		return Punishment{Action: enforcer.ActionMute, MuteDuration: 10 * time.Minute}
	case count == 4:
		return Punishment{Action: enforcer.ActionMute, MuteDuration: 60 * time.Minute}
	case count == 6:
		return Punishment{Action: enforcer.ActionKick}
	case count > 6:
		return Punishment{Action: enforcer.ActionBan}
	}
	return Punishment{Action: enforcer.ActionNone}
}
