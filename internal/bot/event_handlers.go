package bot

import (
	"time"

	"github.com/bwmarrin/discordgo"

	"modguard/internal/config"
	"modguard/internal/detectors"
	"modguard/internal/logging"
	"modguard/internal/tracker"
	"modguard/internal/watchdog"
)

// EventDeps wires the detection core into the gateway handlers.
type EventDeps struct {
	State       *config.BotState
	AntiNuke    *detectors.AntiNuke
	AntiSpam    *detectors.AntiSpam
	NukeTracker *tracker.Tracker
	Dog         *watchdog.Watchdog
}

func (d *EventDeps) heartbeat() {
	if d.Dog != nil {
		d.Dog.Heartbeat("gateway")
	}
}

// memberRoles resolves a member's role IDs, preferring the state cache over a
// REST call. A nil slice is fine; it just means no whitelist match.
func memberRoles(sess *discordgo.Session, guildID, userID string) []string {
	if member, err := sess.State.Member(guildID, userID); err == nil {
		return member.Roles
	}
	member, err := sess.GuildMember(guildID, userID)
	if err != nil {
		logging.Debug("Could not resolve roles for %s in guild %s: %v", userID, guildID, err)
		return nil
	}
	return member.Roles
}

// handleDestructive attributes a destructive action through the audit log and
// feeds it to the anti-nuke detector. Unattributable actions are skipped:
// better to miss one than to punish the wrong member.
func (d *EventDeps) handleDestructive(sess *discordgo.Session, guildID, kind string, auditAction int) {
	if !d.State.Enabled() {
		return
	}
	actorID, ok := fetchActor(sess, guildID, auditAction)
	if !ok {
		return
	}
	d.AntiNuke.HandleAction(detectors.NukeEvent{
		GuildID:      guildID,
		ActorID:      actorID,
		Kind:         kind,
		ActorRoleIDs: memberRoles(sess, guildID, actorID),
		At:           time.Now(),
	})
}

// SetupEventHandlers configures the gateway event handlers.
func (s *Session) SetupEventHandlers(deps *EventDeps) {
	logging.Info("Setting up Discord event handlers...")

	s.discord.AddHandler(func(sess *discordgo.Session, r *discordgo.Ready) {
		logging.Info("Bot ready! Connected as %s across %d guilds", r.User.Username, len(r.Guilds))
		deps.heartbeat()
	})

	// Stale action windows from a previous membership must not count against
	// anyone after a rejoin.
	s.discord.AddHandler(func(sess *discordgo.Session, g *discordgo.GuildCreate) {
		logging.Info("Joined/loaded guild: %s (ID: %s)", g.Name, g.ID)
		deps.NukeTracker.ResetScope(g.ID)
	})

	s.discord.AddHandler(func(sess *discordgo.Session, e *discordgo.GuildBanAdd) {
		deps.handleDestructive(sess, e.GuildID, "ban", int(discordgo.AuditLogActionMemberBanAdd))
	})

	s.discord.AddHandler(func(sess *discordgo.Session, e *discordgo.GuildMemberRemove) {
		// Fires for leaves and kicks alike; the audit log lookup tells
		// them apart. A fresh kick entry means this removal was a kick.
		deps.handleDestructive(sess, e.GuildID, "kick", int(discordgo.AuditLogActionMemberKick))
	})

	s.discord.AddHandler(func(sess *discordgo.Session, e *discordgo.GuildRoleDelete) {
		deps.handleDestructive(sess, e.GuildID, "role_delete", int(discordgo.AuditLogActionRoleDelete))
	})

	s.discord.AddHandler(func(sess *discordgo.Session, e *discordgo.ChannelDelete) {
		if e.GuildID == "" {
			return
		}
		deps.handleDestructive(sess, e.GuildID, "channel_delete", int(discordgo.AuditLogActionChannelDelete))
	})

	s.discord.AddHandler(func(sess *discordgo.Session, e *discordgo.MessageDeleteBulk) {
		if e.GuildID == "" {
			return
		}
		deps.handleDestructive(sess, e.GuildID, "bulk_delete", int(discordgo.AuditLogActionMessageBulkDelete))
	})

	s.discord.AddHandler(func(sess *discordgo.Session, m *discordgo.MessageCreate) {
		deps.heartbeat()
		if m.Author == nil || m.Author.Bot || m.GuildID == "" {
			return
		}
		if !deps.State.Enabled() {
			return
		}
		var roleIDs []string
		if m.Member != nil {
			roleIDs = m.Member.Roles
		} else {
			roleIDs = memberRoles(sess, m.GuildID, m.Author.ID)
		}
		deps.AntiSpam.HandleMessage(detectors.MessageEvent{
			GuildID:      m.GuildID,
			ChannelID:    m.ChannelID,
			MessageID:    m.ID,
			AuthorID:     m.Author.ID,
			IsBot:        m.Author.Bot,
			Content:      m.Content,
			MentionCount: len(m.Mentions) + len(m.MentionRoles),
			RoleIDs:      roleIDs,
			At:           time.Now(),
		})
	})
}
