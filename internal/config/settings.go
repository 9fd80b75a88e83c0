package config

import (
	"errors"
	"sync"
	"time"

	"modguard/internal/logging"
	"modguard/internal/storage"
)

// ErrInvalidValue rejects admin input before any mutation happens. State is
// unchanged when a setter returns it.
var ErrInvalidValue = errors.New("config: invalid value")

// SecuritySettings is the single process-wide policy record consumed by both
// detectors. It is not guild-scoped; that is a known limitation of this
// design, preserved deliberately.
type SecuritySettings struct {
	AntiNukeEnabled    bool     `json:"antinuke_enabled"`
	AntiSpamEnabled    bool     `json:"antispam_enabled"`
	NukeBanThreshold   int      `json:"antinuke_ban_threshold"`
	NukeKickThreshold  int      `json:"antinuke_kick_threshold"`
	NukeTimeWindow     int      `json:"antinuke_time_window"` // seconds
	SpamMessageLimit   int      `json:"antispam_message_limit"`
	SpamTimeWindow     int      `json:"antispam_time_window"` // seconds
	SpamMentionLimit   int      `json:"antispam_mention_limit"`
	SpamDuplicateLimit int      `json:"antispam_duplicate_limit"`
	SpamAction         string   `json:"antispam_action"` // mute, kick or ban
	SpamMuteDuration   int      `json:"antispam_mute_duration"` // minutes
	WhitelistedRoles   []string `json:"whitelisted_roles"`
	LogChannel         string   `json:"log_channel"`
}

func DefaultSettings() SecuritySettings {
	return SecuritySettings{
		AntiNukeEnabled:    true,
		AntiSpamEnabled:    true,
		NukeBanThreshold:   5,
		NukeKickThreshold:  3,
		NukeTimeWindow:     10,
		SpamMessageLimit:   5,
		SpamTimeWindow:     5,
		SpamMentionLimit:   5,
		SpamDuplicateLimit: 3,
		SpamAction:         "mute",
		SpamMuteDuration:   10,
		WhitelistedRoles:   []string{},
		LogChannel:         "",
	}
}

// NukeWindow returns the anti-nuke tracking window as a duration.
func (s SecuritySettings) NukeWindow() time.Duration {
	return time.Duration(s.NukeTimeWindow) * time.Second
}

// SpamWindow returns the anti-spam detection window as a duration.
func (s SecuritySettings) SpamWindow() time.Duration {
	return time.Duration(s.SpamTimeWindow) * time.Second
}

// MuteDuration returns the spam mute duration as a duration.
func (s SecuritySettings) MuteDuration() time.Duration {
	return time.Duration(s.SpamMuteDuration) * time.Minute
}

// Policy owns the mutable settings record. Reads see the latest in-memory
// value; every mutation is followed by a persistence write. There is no
// read-through to disk on the hot path.
type Policy struct {
	mu    sync.RWMutex
	s     SecuritySettings
	store *storage.Store
}

// LoadPolicy reads the settings document, filling absent fields from
// defaults. A corrupted document pair falls back to defaults loudly.
func LoadPolicy(store *storage.Store) *Policy {
	s := DefaultSettings()
	switch err := store.Load(storage.SettingsDocument, &s); err {
	case nil:
		logging.Info("Security settings loaded")
	case storage.ErrNotFound:
		logging.Info("No security settings on disk, using defaults")
	case storage.ErrCorrupted:
		s = DefaultSettings()
		logging.Critical("Security settings and backup unreadable, running on defaults")
	}
	return &Policy{s: s, store: store}
}

// Snapshot returns a copy of the current settings. The whitelist slice is
// copied so callers cannot alias internal state.
func (p *Policy) Snapshot() SecuritySettings {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s := p.s
	s.WhitelistedRoles = append([]string(nil), p.s.WhitelistedRoles...)
	return s
}

// persist must be called with the lock held.
func (p *Policy) persist() {
	s := p.s
	s.WhitelistedRoles = append([]string(nil), p.s.WhitelistedRoles...)
	p.store.Save(storage.SettingsDocument, s)
}

func (p *Policy) SetAntiNukeEnabled(enabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.s.AntiNukeEnabled = enabled
	p.persist()
}

func (p *Policy) SetAntiSpamEnabled(enabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.s.AntiSpamEnabled = enabled
	p.persist()
}

func (p *Policy) SetNukeBanThreshold(n int) error {
	if n < 1 {
		return ErrInvalidValue
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.s.NukeBanThreshold = n
	p.persist()
	return nil
}

func (p *Policy) SetNukeKickThreshold(n int) error {
	if n < 1 {
		return ErrInvalidValue
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.s.NukeKickThreshold = n
	p.persist()
	return nil
}

func (p *Policy) SetNukeTimeWindow(seconds int) error {
	if seconds < 1 {
		return ErrInvalidValue
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.s.NukeTimeWindow = seconds
	p.persist()
	return nil
}

func (p *Policy) SetSpamMessageLimit(n int) error {
	if n < 1 {
		return ErrInvalidValue
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.s.SpamMessageLimit = n
	p.persist()
	return nil
}

func (p *Policy) SetSpamMentionLimit(n int) error {
	if n < 1 {
		return ErrInvalidValue
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.s.SpamMentionLimit = n
	p.persist()
	return nil
}

func (p *Policy) SetSpamDuplicateLimit(n int) error {
	if n < 1 {
		return ErrInvalidValue
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.s.SpamDuplicateLimit = n
	p.persist()
	return nil
}

func (p *Policy) SetSpamAction(action string) error {
	switch action {
	case "mute", "kick", "ban":
	default:
		return ErrInvalidValue
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.s.SpamAction = action
	p.persist()
	return nil
}

func (p *Policy) SetSpamMuteDuration(minutes int) error {
	if minutes < 1 {
		return ErrInvalidValue
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.s.SpamMuteDuration = minutes
	p.persist()
	return nil
}

func (p *Policy) SetLogChannel(channelID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.s.LogChannel = channelID
	p.persist()
}

// AddWhitelistRole returns false if the role was already whitelisted.
func (p *Policy) AddWhitelistRole(roleID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, id := range p.s.WhitelistedRoles {
		if id == roleID {
			return false
		}
	}
	p.s.WhitelistedRoles = append(p.s.WhitelistedRoles, roleID)
	p.persist()
	return true
}

// RemoveWhitelistRole returns false if the role was not whitelisted.
func (p *Policy) RemoveWhitelistRole(roleID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, id := range p.s.WhitelistedRoles {
		if id == roleID {
			p.s.WhitelistedRoles = append(p.s.WhitelistedRoles[:i], p.s.WhitelistedRoles[i+1:]...)
			p.persist()
			return true
		}
	}
	return false
}

// IsWhitelisted reports whether any of the member's roles is exempt from
// security checks.
func (p *Policy) IsWhitelisted(roleIDs []string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if len(p.s.WhitelistedRoles) == 0 {
		return false
	}
	for _, have := range roleIDs {
		for _, want := range p.s.WhitelistedRoles {
			if have == want {
				return true
			}
		}
	}
	return false
}
