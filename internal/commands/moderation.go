package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"modguard/internal/warnings"
)

func optionalReason(opts map[string]*discordgo.ApplicationCommandInteractionDataOption) string {
	if opt, ok := opts["reason"]; ok {
		return opt.StringValue()
	}
	return "No reason provided"
}

func (h *Handler) handleWarn(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	opts := optionMap(i.ApplicationCommandData().Options)
	user := opts["user"].UserValue(s)
	reason := opts["reason"].StringValue()

	count, err := h.deps.Warnings.Warn(i.GuildID, user.ID, reason)
	if err != nil {
		return err
	}

	// Best effort; closed DMs are normal.
	h.deps.Enforcer.NotifyUser(user.ID, fmt.Sprintf(
		"You have been warned in the server: %s (warning %d)", reason, count))

	punishment := warnings.EscalationFor(count)
	consequence := "No automatic punishment."
	switch {
	case punishment.Action != "" && punishment.MuteDuration > 0:
		consequence = fmt.Sprintf("Automatic %s for %s.", punishment.Action, punishment.MuteDuration)
	case punishment.Action != "":
		consequence = fmt.Sprintf("Automatic %s.", punishment.Action)
	}
	if punishment.Action != "" && h.deps.Reporter != nil {
		h.deps.Reporter.ReportIncident(i.GuildID, user.ID, "warnings", string(punishment.Action),
			fmt.Sprintf("%d warnings reached | Original reason: %s", count, reason))
	}

	embed := &discordgo.MessageEmbed{
		Title: "⚠️ Warning Issued",
		Color: 0xFEE75C,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "User", Value: fmt.Sprintf("<@%s>", user.ID), Inline: true},
			{Name: "Warnings", Value: fmt.Sprintf("%d", count), Inline: true},
			{Name: "Reason", Value: reason, Inline: false},
			{Name: "Consequence", Value: consequence, Inline: false},
		},
	}
	return respondEmbed(s, i, embed)
}

func (h *Handler) handleClearWarns(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	opts := optionMap(i.ApplicationCommandData().Options)
	user := opts["user"].UserValue(s)
	amount := opts["amount"].StringValue()

	cleared, remaining, err := h.deps.Warnings.Clear(i.GuildID, user.ID, amount)
	if errors.Is(err, warnings.ErrInvalidAmount) {
		return respondEphemeral(s, i, "Amount must be a positive number or `all`.")
	}
	if err != nil {
		return err
	}
	return respond(s, i, fmt.Sprintf(
		"🧹 Cleared **%d** warnings for <@%s>. **%d** remaining.", cleared, user.ID, remaining))
}

func (h *Handler) handleWarnings(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	opts := optionMap(i.ApplicationCommandData().Options)
	user := opts["user"].UserValue(s)
	count := h.deps.Warnings.Count(i.GuildID, user.ID)
	return respond(s, i, fmt.Sprintf("<@%s> has **%d** warnings.", user.ID, count))
}

func (h *Handler) handleKick(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	opts := optionMap(i.ApplicationCommandData().Options)
	user := opts["user"].UserValue(s)
	reason := optionalReason(opts)

	if err := h.deps.Enforcer.Kick(i.GuildID, user.ID, reason); err != nil {
		return err
	}
	if h.deps.Reporter != nil {
		h.deps.Reporter.ReportIncident(i.GuildID, user.ID, "manual", "kick", reason)
	}
	return respond(s, i, fmt.Sprintf("👢 Kicked <@%s>: %s", user.ID, reason))
}

func (h *Handler) handleBan(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	opts := optionMap(i.ApplicationCommandData().Options)
	user := opts["user"].UserValue(s)
	reason := optionalReason(opts)

	if err := h.deps.Enforcer.Ban(i.GuildID, user.ID, reason); err != nil {
		return err
	}
	if h.deps.Reporter != nil {
		h.deps.Reporter.ReportIncident(i.GuildID, user.ID, "manual", "ban", reason)
	}
	return respond(s, i, fmt.Sprintf("🔨 Banned <@%s>: %s", user.ID, reason))
}

func (h *Handler) handleUnban(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	opts := optionMap(i.ApplicationCommandData().Options)
	userID := opts["userid"].StringValue()

	if err := s.GuildBanDelete(i.GuildID, userID); err != nil {
		return fmt.Errorf("failed to unban %s: %w", userID, err)
	}
	return respond(s, i, fmt.Sprintf("🔓 Unbanned <@%s>.", userID))
}

func (h *Handler) handleMute(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	opts := optionMap(i.ApplicationCommandData().Options)
	user := opts["user"].UserValue(s)
	minutes := opts["minutes"].IntValue()
	reason := optionalReason(opts)

	duration := time.Duration(minutes) * time.Minute
	if err := h.deps.Enforcer.Mute(i.GuildID, user.ID, duration, reason); err != nil {
		return err
	}
	if h.deps.Reporter != nil {
		h.deps.Reporter.ReportIncident(i.GuildID, user.ID, "manual", "mute", reason)
	}
	return respond(s, i, fmt.Sprintf("🔇 Muted <@%s> for %d minutes: %s", user.ID, minutes, reason))
}

func (h *Handler) handleUnmute(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	opts := optionMap(i.ApplicationCommandData().Options)
	user := opts["user"].UserValue(s)

	if err := s.GuildMemberTimeout(i.GuildID, user.ID, nil); err != nil {
		return fmt.Errorf("failed to unmute %s: %w", user.ID, err)
	}
	return respond(s, i, fmt.Sprintf("🔊 Unmuted <@%s>.", user.ID))
}

func (h *Handler) handlePurge(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	opts := optionMap(i.ApplicationCommandData().Options)
	count := int(opts["count"].IntValue())
	if count > 100 {
		count = 100
	}

	messages, err := s.ChannelMessages(i.ChannelID, count, "", "", "")
	if err != nil {
		return fmt.Errorf("failed to fetch messages: %w", err)
	}
	ids := make([]string, 0, len(messages))
	for _, msg := range messages {
		ids = append(ids, msg.ID)
	}
	if err := s.ChannelMessagesBulkDelete(i.ChannelID, ids); err != nil {
		return fmt.Errorf("failed to bulk delete: %w", err)
	}
	return respondEphemeral(s, i, fmt.Sprintf("🧹 Deleted %d messages.", len(ids)))
}
