package commands

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/process"

	"modguard/internal/logging"
)

func (h *Handler) handleStatus(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	st := h.deps.Policy.Snapshot()
	uptime := time.Since(h.startedAt).Round(time.Second)

	memValue := "n/a"
	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if mem, err := proc.MemoryInfo(); err == nil {
			memValue = fmt.Sprintf("%.1f MB", float64(mem.RSS)/1024/1024)
		}
	}
	cpuValue := "n/a"
	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		cpuValue = fmt.Sprintf("%.1f%%", percents[0])
	}

	incidents := "n/a"
	recent := "None"
	if h.deps.DB != nil {
		if n, err := h.deps.DB.CountIncidents(); err == nil {
			incidents = fmt.Sprintf("%d", n)
		} else {
			logging.Debug("Could not count incidents: %v", err)
		}
		if rows, err := h.deps.DB.RecentIncidents(i.GuildID, 5); err == nil && len(rows) > 0 {
			lines := make([]string, 0, len(rows))
			for _, in := range rows {
				lines = append(lines, fmt.Sprintf("<t:%d:R> %s → **%s** <@%s>",
					in.Timestamp, in.Detector, in.ActionTaken, in.UserID))
			}
			recent = strings.Join(lines, "\n")
		}
	}

	embed := &discordgo.MessageEmbed{
		Title: "📊 Bot Status",
		Color: 0x57F287,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Enforcement", Value: enabledLabel(h.deps.State.Enabled()), Inline: true},
			{Name: "Uptime", Value: uptime.String(), Inline: true},
			{Name: "Latency", Value: s.HeartbeatLatency().Round(time.Millisecond).String(), Inline: true},
			{Name: "Memory", Value: memValue, Inline: true},
			{Name: "CPU", Value: cpuValue, Inline: true},
			{Name: "Incidents Logged", Value: incidents, Inline: true},
			{Name: "Anti-Nuke", Value: enabledLabel(st.AntiNukeEnabled), Inline: true},
			{Name: "Anti-Spam", Value: enabledLabel(st.AntiSpamEnabled), Inline: true},
			{Name: "Recent Incidents", Value: recent, Inline: false},
		},
	}
	return respondEmbed(s, i, embed)
}

func (h *Handler) handlePing(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	return respond(s, i, fmt.Sprintf("🏓 Pong! Gateway latency: %s",
		s.HeartbeatLatency().Round(time.Millisecond)))
}

func (h *Handler) handleWork(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if h.deps.State.Enabled() {
		return respondEphemeral(s, i, "Already running.")
	}
	h.deps.State.SetEnabled(true)
	logging.Info("Enforcement enabled by owner")
	return respond(s, i, "✅ Security enforcement is now **active**.")
}

func (h *Handler) handleStop(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if !h.deps.State.Enabled() {
		return respondEphemeral(s, i, "Already stopped.")
	}
	h.deps.State.SetEnabled(false)
	logging.Info("Enforcement disabled by owner")
	return respond(s, i, "🛑 Security enforcement is now **stopped**. Use /work to resume.")
}
