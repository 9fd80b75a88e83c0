package enforcer

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
)

// Discord applies punishments through the Discord REST API. Mute maps onto
// the timeout feature.
type Discord struct {
	session *discordgo.Session
}

func NewDiscord(session *discordgo.Session) *Discord {
	return &Discord{session: session}
}

func (d *Discord) Mute(guildID, userID string, duration time.Duration, reason string) error {
	until := time.Now().Add(duration)
	if err := d.session.GuildMemberTimeout(guildID, userID, &until, discordgo.WithAuditLogReason(reason)); err != nil {
		return fmt.Errorf("failed to mute %s in guild %s: %w", userID, guildID, err)
	}
	return nil
}

func (d *Discord) Kick(guildID, userID, reason string) error {
	if err := d.session.GuildMemberDeleteWithReason(guildID, userID, reason); err != nil {
		return fmt.Errorf("failed to kick %s from guild %s: %w", userID, guildID, err)
	}
	return nil
}

func (d *Discord) Ban(guildID, userID, reason string) error {
	if err := d.session.GuildBanCreateWithReason(guildID, userID, reason, 0); err != nil {
		return fmt.Errorf("failed to ban %s from guild %s: %w", userID, guildID, err)
	}
	return nil
}

func (d *Discord) DeleteMessage(channelID, messageID string) error {
	if err := d.session.ChannelMessageDelete(channelID, messageID); err != nil {
		return fmt.Errorf("failed to delete message %s: %w", messageID, err)
	}
	return nil
}

// NotifyUser opens a DM channel and sends a message. Undeliverable DMs are a
// normal condition (closed DMs); callers treat the error as informational.
func (d *Discord) NotifyUser(userID, message string) error {
	channel, err := d.session.UserChannelCreate(userID)
	if err != nil {
		return fmt.Errorf("failed to open DM with %s: %w", userID, err)
	}
	if _, err := d.session.ChannelMessageSend(channel.ID, message); err != nil {
		return fmt.Errorf("failed to DM %s: %w", userID, err)
	}
	return nil
}
