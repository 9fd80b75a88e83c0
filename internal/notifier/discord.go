package notifier

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
)

var discordSession *discordgo.Session

// SetSession sets the Discord session for the notifier
func SetSession(session *discordgo.Session) {
	discordSession = session
}

var detectorTitles = map[string]string{
	"antinuke": "🛡️ Anti-Nuke Triggered",
	"antispam": "🚨 Anti-Spam Triggered",
	"warnings": "⚠️ Warning Escalation",
	"manual":   "🔨 Moderation Action",
}

// SendSecurityAlert posts an enforcement embed to the configured log channel.
// The send is fire and forget; a dead log channel must never slow the event
// path.
func SendSecurityAlert(channelID, guildID, userID, detector, actionTaken, reason string) {
	if discordSession == nil || channelID == "" {
		return
	}

	title, ok := detectorTitles[detector]
	if !ok {
		title = "🔔 Security Event"
	}

	embed := &discordgo.MessageEmbed{
		Title: title,
		Color: 0xED4245,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "👤 User",
				Value:  fmt.Sprintf("<@%s> (`%s`)", userID, userID),
				Inline: true,
			},
			{
				Name:   "⚖️ Action",
				Value:  actionTaken,
				Inline: true,
			},
			{
				Name:   "📋 Reason",
				Value:  reason,
				Inline: false,
			},
			{
				Name:   "🕐 Timestamp",
				Value:  fmt.Sprintf("<t:%d:F>", time.Now().Unix()),
				Inline: false,
			},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Server Security",
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}

	go discordSession.ChannelMessageSendEmbed(channelID, embed)
}
