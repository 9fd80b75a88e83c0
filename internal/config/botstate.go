package config

import (
	"sync"

	"modguard/internal/logging"
	"modguard/internal/storage"
)

type botStateDoc struct {
	Enabled bool `json:"enabled"`
}

// BotState is the owner-controlled master switch. The bot starts disabled on
// first run and remembers its state across restarts.
type BotState struct {
	mu      sync.RWMutex
	enabled bool
	store   *storage.Store
}

func LoadBotState(store *storage.Store) *BotState {
	doc := botStateDoc{Enabled: false}
	switch err := store.Load(storage.BotStateDocument, &doc); err {
	case nil:
	case storage.ErrNotFound:
		logging.Info("No bot state on disk, starting disabled")
	case storage.ErrCorrupted:
		doc.Enabled = false
		logging.Critical("Bot state and backup unreadable, starting disabled")
	}
	return &BotState{enabled: doc.Enabled, store: store}
}

func (b *BotState) Enabled() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.enabled
}

func (b *BotState) SetEnabled(enabled bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.enabled = enabled
	b.store.Save(storage.BotStateDocument, botStateDoc{Enabled: enabled})
}
