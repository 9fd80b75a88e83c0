package commands

import (
	"sync"
	"time"

	"modguard/internal/config"
)

// Denial explains why a command was not run. A nil *Denial means proceed.
// Denials are part of normal control flow, not errors: nothing went wrong,
// the invocation simply does not qualify.
type Denial struct {
	Message string
}

// guard performs the checks that happen before any command handler runs:
// owner gating, the enforcement kill switch and the per-user cooldown.
type guard struct {
	ownerID  string
	state    *config.BotState
	cooldown time.Duration

	mu       sync.Mutex
	lastUsed map[string]time.Time
}

var ownerOnly = map[string]bool{
	"work": true,
	"stop": true,
}

// Commands that still work while enforcement is stopped.
var alwaysAvailable = map[string]bool{
	"work": true,
}

func newGuard(ownerID string, state *config.BotState) *guard {
	return &guard{
		ownerID:  ownerID,
		state:    state,
		cooldown: 3 * time.Second,
		lastUsed: make(map[string]time.Time),
	}
}

// check runs every pre-invocation rule in order. The cooldown timestamp is
// only updated for invocations that pass, so a denied attempt does not extend
// the wait.
func (g *guard) check(command, userID string) *Denial {
	if ownerOnly[command] && userID != g.ownerID {
		return &Denial{Message: "Only the bot owner can use this command."}
	}
	if !g.state.Enabled() && !alwaysAvailable[command] {
		return &Denial{Message: "The bot is stopped. The owner can start it with /work."}
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	now := time.Now()
	if last, ok := g.lastUsed[userID]; ok && now.Sub(last) < g.cooldown {
		return &Denial{Message: "Slow down, you are on cooldown."}
	}
	g.lastUsed[userID] = now
	return nil
}
