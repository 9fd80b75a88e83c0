package commands

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"modguard/internal/config"
)

func enabledLabel(enabled bool) string {
	if enabled {
		return "✅ Enabled"
	}
	return "❌ Disabled"
}

func (h *Handler) handleAntiNuke(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	sub, opts := subcommand(i)
	switch sub {
	case "status":
		st := h.deps.Policy.Snapshot()
		embed := &discordgo.MessageEmbed{
			Title: "🛡️ Anti-Nuke Configuration",
			Color: 0x5865F2,
			Fields: []*discordgo.MessageEmbedField{
				{Name: "State", Value: enabledLabel(st.AntiNukeEnabled), Inline: true},
				{Name: "Ban Threshold", Value: fmt.Sprintf("%d actions", st.NukeBanThreshold), Inline: true},
				{Name: "Kick Threshold", Value: fmt.Sprintf("%d actions", st.NukeKickThreshold), Inline: true},
				{Name: "Time Window", Value: fmt.Sprintf("%d seconds", st.NukeTimeWindow), Inline: true},
			},
		}
		return respondEmbed(s, i, embed)
	case "enable":
		h.deps.Policy.SetAntiNukeEnabled(true)
		return respond(s, i, "🛡️ Anti-nuke protection **enabled**.")
	case "disable":
		h.deps.Policy.SetAntiNukeEnabled(false)
		return respond(s, i, "🛡️ Anti-nuke protection **disabled**.")
	case "banthreshold":
		value := int(optionMap(opts)["value"].IntValue())
		if err := h.deps.Policy.SetNukeBanThreshold(value); err != nil {
			return err
		}
		return respond(s, i, fmt.Sprintf("🛡️ Ban threshold set to **%d** actions.", value))
	case "kickthreshold":
		value := int(optionMap(opts)["value"].IntValue())
		if err := h.deps.Policy.SetNukeKickThreshold(value); err != nil {
			return err
		}
		return respond(s, i, fmt.Sprintf("🛡️ Kick threshold set to **%d** actions.", value))
	case "timewindow":
		value := int(optionMap(opts)["value"].IntValue())
		if err := h.deps.Policy.SetNukeTimeWindow(value); err != nil {
			return err
		}
		return respond(s, i, fmt.Sprintf("🛡️ Tracking window set to **%d** seconds.", value))
	}
	return fmt.Errorf("unknown antinuke subcommand: %s", sub)
}

func (h *Handler) handleAntiSpam(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	sub, opts := subcommand(i)
	switch sub {
	case "status":
		st := h.deps.Policy.Snapshot()
		embed := &discordgo.MessageEmbed{
			Title: "🚨 Anti-Spam Configuration",
			Color: 0x5865F2,
			Fields: []*discordgo.MessageEmbedField{
				{Name: "State", Value: enabledLabel(st.AntiSpamEnabled), Inline: true},
				{Name: "Message Limit", Value: fmt.Sprintf("%d / %ds", st.SpamMessageLimit, st.SpamTimeWindow), Inline: true},
				{Name: "Mention Limit", Value: fmt.Sprintf("%d per message", st.SpamMentionLimit), Inline: true},
				{Name: "Duplicate Limit", Value: fmt.Sprintf("%d messages", st.SpamDuplicateLimit), Inline: true},
				{Name: "Action", Value: st.SpamAction, Inline: true},
				{Name: "Mute Duration", Value: fmt.Sprintf("%d minutes", st.SpamMuteDuration), Inline: true},
			},
		}
		return respondEmbed(s, i, embed)
	case "enable":
		h.deps.Policy.SetAntiSpamEnabled(true)
		return respond(s, i, "🚨 Anti-spam protection **enabled**.")
	case "disable":
		h.deps.Policy.SetAntiSpamEnabled(false)
		return respond(s, i, "🚨 Anti-spam protection **disabled**.")
	case "messagelimit":
		value := int(optionMap(opts)["value"].IntValue())
		if err := h.deps.Policy.SetSpamMessageLimit(value); err != nil {
			return err
		}
		return respond(s, i, fmt.Sprintf("🚨 Message limit set to **%d** per window.", value))
	case "mentionlimit":
		value := int(optionMap(opts)["value"].IntValue())
		if err := h.deps.Policy.SetSpamMentionLimit(value); err != nil {
			return err
		}
		return respond(s, i, fmt.Sprintf("🚨 Mention limit set to **%d** per message.", value))
	case "duplicatelimit":
		value := int(optionMap(opts)["value"].IntValue())
		if err := h.deps.Policy.SetSpamDuplicateLimit(value); err != nil {
			return err
		}
		return respond(s, i, fmt.Sprintf("🚨 Duplicate limit set to **%d** messages.", value))
	case "action":
		value := optionMap(opts)["value"].StringValue()
		if err := h.deps.Policy.SetSpamAction(value); err != nil {
			return err
		}
		return respond(s, i, fmt.Sprintf("🚨 Spam action set to **%s**.", value))
	case "muteduration":
		value := int(optionMap(opts)["value"].IntValue())
		if err := h.deps.Policy.SetSpamMuteDuration(value); err != nil {
			return err
		}
		return respond(s, i, fmt.Sprintf("🚨 Spam mute duration set to **%d** minutes.", value))
	}
	return fmt.Errorf("unknown antispam subcommand: %s", sub)
}

func (h *Handler) handleWhitelist(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	sub, opts := subcommand(i)
	switch sub {
	case "add":
		role := optionMap(opts)["role"].RoleValue(s, i.GuildID)
		if !h.deps.Policy.AddWhitelistRole(role.ID) {
			return respondEphemeral(s, i, fmt.Sprintf("Role **%s** is already whitelisted.", role.Name))
		}
		return respond(s, i, fmt.Sprintf("✅ Role **%s** is now exempt from security checks.", role.Name))
	case "remove":
		role := optionMap(opts)["role"].RoleValue(s, i.GuildID)
		if !h.deps.Policy.RemoveWhitelistRole(role.ID) {
			return respondEphemeral(s, i, fmt.Sprintf("Role **%s** is not whitelisted.", role.Name))
		}
		return respond(s, i, fmt.Sprintf("✅ Role **%s** is no longer exempt.", role.Name))
	case "view":
		st := h.deps.Policy.Snapshot()
		if len(st.WhitelistedRoles) == 0 {
			return respond(s, i, "No roles are whitelisted.")
		}
		mentions := make([]string, 0, len(st.WhitelistedRoles))
		for _, id := range st.WhitelistedRoles {
			mentions = append(mentions, fmt.Sprintf("<@&%s>", id))
		}
		return respond(s, i, "Whitelisted roles: "+strings.Join(mentions, ", "))
	}
	return fmt.Errorf("unknown whitelist subcommand: %s", sub)
}

func (h *Handler) handleLogChannel(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	data := i.ApplicationCommandData()
	channel := data.Options[0].ChannelValue(s)
	if channel.Type != discordgo.ChannelTypeGuildText {
		return config.ErrInvalidValue
	}
	h.deps.Policy.SetLogChannel(channel.ID)
	return respond(s, i, fmt.Sprintf("📋 Security alerts will be posted in <#%s>.", channel.ID))
}
