package commands

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"modguard/internal/bot"
	"modguard/internal/config"
	"modguard/internal/database"
	"modguard/internal/detectors"
	"modguard/internal/enforcer"
	"modguard/internal/logging"
	"modguard/internal/warnings"
)

// Deps carries everything the command surface needs.
type Deps struct {
	Session  *bot.Session
	Policy   *config.Policy
	State    *config.BotState
	Warnings *warnings.Engine
	Enforcer enforcer.Enforcer
	Reporter detectors.Reporter
	DB       *database.Database
	OwnerID  string
}

// Handler manages all command interactions
type Handler struct {
	deps      Deps
	guard     *guard
	startedAt time.Time
}

var globalHandler *Handler

// Initialize creates the command handler and registers the slash commands.
func Initialize(deps Deps) error {
	globalHandler = &Handler{
		deps:      deps,
		guard:     newGuard(deps.OwnerID, deps.State),
		startedAt: time.Now(),
	}

	deps.Session.AddHandler(globalHandler.handleInteraction)

	commands := GetAllCommands()
	if err := deps.Session.RegisterCommands(commands); err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	logging.Info("Command handler initialized with %d commands", len(commands))
	return nil
}

// GetHandler returns the global command handler
func GetHandler() *Handler {
	return globalHandler
}

func invokerID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

func (h *Handler) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	h.handleCommand(s, i)
}

// handleCommand routes slash commands to their handlers
func (h *Handler) handleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()

	if denial := h.guard.check(data.Name, invokerID(i)); denial != nil {
		respondEphemeral(s, i, denial.Message)
		return
	}

	var err error
	switch data.Name {
	case "antinuke":
		err = h.handleAntiNuke(s, i)
	case "antispam":
		err = h.handleAntiSpam(s, i)
	case "securitywhitelist":
		err = h.handleWhitelist(s, i)
	case "logchannel":
		err = h.handleLogChannel(s, i)
	case "warn":
		err = h.handleWarn(s, i)
	case "clearwarns":
		err = h.handleClearWarns(s, i)
	case "warnings":
		err = h.handleWarnings(s, i)
	case "kick":
		err = h.handleKick(s, i)
	case "ban":
		err = h.handleBan(s, i)
	case "unban":
		err = h.handleUnban(s, i)
	case "mute":
		err = h.handleMute(s, i)
	case "unmute":
		err = h.handleUnmute(s, i)
	case "purge":
		err = h.handlePurge(s, i)
	case "status":
		err = h.handleStatus(s, i)
	case "ping":
		err = h.handlePing(s, i)
	case "work":
		err = h.handleWork(s, i)
	case "stop":
		err = h.handleStop(s, i)
	default:
		err = fmt.Errorf("unknown command: %s", data.Name)
	}

	if err != nil {
		logging.Error("Command error [%s]: %v", data.Name, err)
		respondError(s, i, err.Error())
	}
}

// subcommand returns the first subcommand name and its options.
func subcommand(i *discordgo.InteractionCreate) (string, []*discordgo.ApplicationCommandInteractionDataOption) {
	data := i.ApplicationCommandData()
	if len(data.Options) == 0 {
		return "", nil
	}
	return data.Options[0].Name, data.Options[0].Options
}

func optionMap(options []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		m[opt.Name] = opt
	}
	return m
}

func respond(s *discordgo.Session, i *discordgo.InteractionCreate, content string) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
		},
	})
}

func respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

func respondEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	})
}

// respondError sends an ephemeral error message
func respondError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("❌ Error: %s", message),
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}
