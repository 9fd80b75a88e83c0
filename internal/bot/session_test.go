package bot

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeSetsRequiredIntents(t *testing.T) {
	assert := assert.New(t)

	require.NoError(t, Initialize("test-token"))
	dg := GetSession().GetDiscord()

	// Every gateway event the detectors consume needs its intent flagged,
	// moderation (ban add) and message content included.
	for _, intent := range []discordgo.Intent{
		discordgo.IntentGuilds,
		discordgo.IntentGuildMembers,
		discordgo.IntentGuildModeration,
		discordgo.IntentGuildMessages,
		discordgo.IntentMessageContent,
	} {
		assert.NotZero(dg.Identify.Intents&intent, "missing intent %d", intent)
	}
}
