package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncidentRoundTrip(t *testing.T) {
	assert := assert.New(t)

	require.NoError(t, Initialize(filepath.Join(t.TempDir(), "test.db")))
	t.Cleanup(func() { Close() })
	require.True(t, IsConnected())

	db := GetDB()
	require.NoError(t, db.RecordIncident("g1", "u1", "antispam", "mute", "Anti-spam: 5 messages in 5s"))
	require.NoError(t, db.RecordIncident("g1", "u2", "antinuke", "ban", "Anti-nuke: 5 destructive actions in 10s"))
	require.NoError(t, db.RecordIncident("g2", "u3", "manual", "kick", "rude"))

	incidents, err := db.RecentIncidents("g1", 10)
	require.NoError(t, err)
	require.Len(t, incidents, 2)
	for _, in := range incidents {
		assert.Equal("g1", in.GuildID)
		assert.NotZero(in.Timestamp)
	}

	count, err := db.CountIncidents()
	require.NoError(t, err)
	assert.Equal(3, count)

	limited, err := db.RecentIncidents("g1", 1)
	require.NoError(t, err)
	assert.Len(limited, 1)
}
