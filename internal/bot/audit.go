package bot

import (
	"strconv"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"modguard/internal/logging"
)

// auditLogCache stores recent audit log entries so a burst of events does not
// hammer the audit log endpoint. Entries expire after a few seconds; the
// attribution is inherently racy and a short TTL keeps the race window small.
type auditLogCache struct {
	mu      sync.RWMutex
	entries map[string]*auditCacheEntry
}

type auditCacheEntry struct {
	actorID   string
	timestamp time.Time
}

var (
	auditCache = &auditLogCache{
		entries: make(map[string]*auditCacheEntry),
	}
	cacheTTL = 3 * time.Second
)

func (c *auditLogCache) Store(guildID string, action int, actorID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := guildID + ":" + strconv.Itoa(action)
	c.entries[key] = &auditCacheEntry{
		actorID:   actorID,
		timestamp: time.Now(),
	}

	for k, v := range c.entries {
		if time.Since(v.timestamp) > cacheTTL {
			delete(c.entries, k)
		}
	}
}

func (c *auditLogCache) Get(guildID string, action int) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	key := guildID + ":" + strconv.Itoa(action)
	if entry, exists := c.entries[key]; exists {
		if time.Since(entry.timestamp) < cacheTTL {
			return entry.actorID, true
		}
	}
	return "", false
}

// fetchActor resolves who performed an action from the most recent audit log
// entry for that action type. Returns false when the actor cannot be
// determined or was a bot; callers must then skip tracking rather than guess.
func fetchActor(sess *discordgo.Session, guildID string, actionType int) (string, bool) {
	if actorID, found := auditCache.Get(guildID, actionType); found {
		return actorID, true
	}

	audit, err := sess.GuildAuditLog(guildID, "", "", actionType, 1)
	if err != nil {
		logging.Warn("Failed to fetch audit log for guild %s action %d: %v", guildID, actionType, err)
		return "", false
	}

	if len(audit.AuditLogEntries) == 0 {
		return "", false
	}

	entry := audit.AuditLogEntries[0]

	for _, user := range audit.Users {
		if user.ID == entry.UserID && user.Bot {
			logging.Debug("Skipping audit action %d by bot %s", actionType, user.Username)
			return "", false
		}
	}

	auditCache.Store(guildID, actionType, entry.UserID)
	return entry.UserID, true
}
