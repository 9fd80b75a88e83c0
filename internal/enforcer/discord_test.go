package enforcer

import (
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capturingTransport records outbound REST requests and answers each with an
// empty success body, so no real API is ever contacted.
type capturingTransport struct {
	mu       sync.Mutex
	requests []*http.Request
}

func (c *capturingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	c.mu.Lock()
	c.requests = append(c.requests, req)
	c.mu.Unlock()
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader("{}")),
		Request:    req,
	}, nil
}

func (c *capturingTransport) last(t *testing.T) *http.Request {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	require.NotEmpty(t, c.requests)
	return c.requests[len(c.requests)-1]
}

func newCapturedDiscord(t *testing.T) (*Discord, *capturingTransport) {
	t.Helper()
	dg, err := discordgo.New("Bot test-token")
	require.NoError(t, err)
	ct := &capturingTransport{}
	dg.Client = &http.Client{Transport: ct}
	return NewDiscord(dg), ct
}

func TestMuteSendsAuditLogReason(t *testing.T) {
	assert := assert.New(t)
	d, ct := newCapturedDiscord(t)

	require.NoError(t, d.Mute("g1", "u1", 10*time.Minute, "Anti-spam: 6 messages in 5s"))

	req := ct.last(t)
	assert.Equal(http.MethodPatch, req.Method)
	assert.Contains(req.URL.Path, "/guilds/g1/members/u1")
	assert.Equal("Anti-spam: 6 messages in 5s", req.Header.Get("X-Audit-Log-Reason"))
}

func TestKickAndBanCarryReason(t *testing.T) {
	assert := assert.New(t)
	d, ct := newCapturedDiscord(t)

	// The WithReason endpoints send the reason as a query parameter.
	require.NoError(t, d.Kick("g1", "u1", "repeated flooding"))
	assert.Equal("repeated flooding", ct.last(t).URL.Query().Get("reason"))

	require.NoError(t, d.Ban("g1", "u2", "nuke attempt"))
	assert.Equal("nuke attempt", ct.last(t).URL.Query().Get("reason"))
}
