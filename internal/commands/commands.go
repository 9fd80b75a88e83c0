package commands

import (
	"github.com/bwmarrin/discordgo"
)

func intOption(name, description string) *discordgo.ApplicationCommandOption {
	minValue := 1.0
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        name,
		Description: description,
		Required:    true,
		MinValue:    &minValue,
	}
}

func userOption(required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        "user",
		Description: "Target user",
		Required:    required,
	}
}

func reasonOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "reason",
		Description: "Reason for the action",
		Required:    false,
	}
}

// GetAllCommands returns every slash command the bot registers.
func GetAllCommands() []*discordgo.ApplicationCommand {
	adminOnly := int64(discordgo.PermissionAdministrator)
	moderateMembers := int64(discordgo.PermissionModerateMembers)

	return []*discordgo.ApplicationCommand{
		{
			Name:                     "antinuke",
			Description:              "Configure anti-nuke protection",
			DefaultMemberPermissions: &adminOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "status",
					Description: "Show the current anti-nuke configuration",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "enable",
					Description: "Enable anti-nuke protection",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "disable",
					Description: "Disable anti-nuke protection",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "banthreshold",
					Description: "Set the destructive-action count that triggers a ban",
					Options:     []*discordgo.ApplicationCommandOption{intOption("value", "Actions within the window")},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "kickthreshold",
					Description: "Set the destructive-action count that triggers a kick",
					Options:     []*discordgo.ApplicationCommandOption{intOption("value", "Actions within the window")},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "timewindow",
					Description: "Set the anti-nuke tracking window in seconds",
					Options:     []*discordgo.ApplicationCommandOption{intOption("value", "Window length in seconds")},
				},
			},
		},
		{
			Name:                     "antispam",
			Description:              "Configure anti-spam protection",
			DefaultMemberPermissions: &adminOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "status",
					Description: "Show the current anti-spam configuration",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "enable",
					Description: "Enable anti-spam protection",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "disable",
					Description: "Disable anti-spam protection",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "messagelimit",
					Description: "Set the flood message limit per window",
					Options:     []*discordgo.ApplicationCommandOption{intOption("value", "Messages within the window")},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "mentionlimit",
					Description: "Set the per-message mention limit",
					Options:     []*discordgo.ApplicationCommandOption{intOption("value", "Mentions per message")},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "duplicatelimit",
					Description: "Set the duplicate message limit",
					Options:     []*discordgo.ApplicationCommandOption{intOption("value", "Identical messages")},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "action",
					Description: "Set the punishment applied to spammers",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "value",
							Description: "Punishment",
							Required:    true,
							Choices: []*discordgo.ApplicationCommandOptionChoice{
								{Name: "mute", Value: "mute"},
								{Name: "kick", Value: "kick"},
								{Name: "ban", Value: "ban"},
							},
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "muteduration",
					Description: "Set the spam mute duration in minutes",
					Options:     []*discordgo.ApplicationCommandOption{intOption("value", "Duration in minutes")},
				},
			},
		},
		{
			Name:                     "securitywhitelist",
			Description:              "Manage roles exempt from security checks",
			DefaultMemberPermissions: &adminOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "add",
					Description: "Exempt a role from security checks",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionRole,
							Name:        "role",
							Description: "Role to exempt",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "remove",
					Description: "Remove a role's exemption",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionRole,
							Name:        "role",
							Description: "Role to remove",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "view",
					Description: "List whitelisted roles",
				},
			},
		},
		{
			Name:                     "logchannel",
			Description:              "Set the channel for security alerts",
			DefaultMemberPermissions: &adminOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionChannel,
					Name:        "channel",
					Description: "Alert channel",
					Required:    true,
				},
			},
		},
		{
			Name:                     "warn",
			Description:              "Warn a user",
			DefaultMemberPermissions: &moderateMembers,
			Options: []*discordgo.ApplicationCommandOption{
				userOption(true),
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "reason",
					Description: "Reason for the warning",
					Required:    true,
				},
			},
		},
		{
			Name:                     "clearwarns",
			Description:              "Clear a user's warnings",
			DefaultMemberPermissions: &moderateMembers,
			Options: []*discordgo.ApplicationCommandOption{
				userOption(true),
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "amount",
					Description: "Number of warnings to clear, or \"all\"",
					Required:    true,
				},
			},
		},
		{
			Name:                     "warnings",
			Description:              "Show a user's warning count",
			DefaultMemberPermissions: &moderateMembers,
			Options:                  []*discordgo.ApplicationCommandOption{userOption(true)},
		},
		{
			Name:                     "kick",
			Description:              "Kick a user",
			DefaultMemberPermissions: &moderateMembers,
			Options:                  []*discordgo.ApplicationCommandOption{userOption(true), reasonOption()},
		},
		{
			Name:                     "ban",
			Description:              "Ban a user",
			DefaultMemberPermissions: &moderateMembers,
			Options:                  []*discordgo.ApplicationCommandOption{userOption(true), reasonOption()},
		},
		{
			Name:                     "unban",
			Description:              "Unban a user by ID",
			DefaultMemberPermissions: &moderateMembers,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "userid",
					Description: "User ID to unban",
					Required:    true,
				},
			},
		},
		{
			Name:                     "mute",
			Description:              "Timeout a user",
			DefaultMemberPermissions: &moderateMembers,
			Options: []*discordgo.ApplicationCommandOption{
				userOption(true),
				intOption("minutes", "Timeout length in minutes"),
				reasonOption(),
			},
		},
		{
			Name:                     "unmute",
			Description:              "Remove a user's timeout",
			DefaultMemberPermissions: &moderateMembers,
			Options:                  []*discordgo.ApplicationCommandOption{userOption(true)},
		},
		{
			Name:                     "purge",
			Description:              "Bulk delete recent messages in this channel",
			DefaultMemberPermissions: &moderateMembers,
			Options: []*discordgo.ApplicationCommandOption{
				intOption("count", "Number of messages to delete (max 100)"),
			},
		},
		{
			Name:        "status",
			Description: "Show bot status and security summary",
		},
		{
			Name:        "ping",
			Description: "Check gateway latency",
		},
		{
			Name:        "work",
			Description: "Enable security enforcement (owner only)",
		},
		{
			Name:        "stop",
			Description: "Disable security enforcement (owner only)",
		},
	}
}
