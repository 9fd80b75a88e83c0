package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"modguard/internal/logging"

	"github.com/goccy/go-json"
)

// Document names used by the rest of the bot. Each has a ".backup" sibling of
// identical shape next to it.
const (
	WarningsDocument = "warnings.json"
	SettingsDocument = "security_settings.json"
	BotStateDocument = "bot_state.json"

	backupSuffix = ".backup"
)

var (
	// ErrNotFound means neither the primary nor the backup exists. Normal on
	// first run; callers start from defaults.
	ErrNotFound = errors.New("storage: document not found")

	// ErrCorrupted means files existed but neither could be parsed. The caller
	// gets the default document and must treat this as an alertable event, not
	// a silent clean start.
	ErrCorrupted = errors.New("storage: document and backup unreadable")
)

// Store persists JSON documents with atomic replace semantics. A reader of the
// target file observes either the fully-previous or fully-new content, never a
// partial write.
type Store struct {
	dir  string
	jobs chan writeJob
	done chan struct{}
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	s := &Store{
		dir:  dir,
		jobs: make(chan writeJob, 256),
		done: make(chan struct{}),
	}

	go s.writer()

	return s, nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name)
}

// writeAtomic serializes doc to a temp file in the target directory and
// renames it over the target. Rename on the same filesystem is atomic.
func (s *Store) writeAtomic(target string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, filepath.Base(target)+".tmp-*")
	if err != nil {
		return fmt.Errorf("temp file create failed: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("temp file write failed: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("temp file close failed: %w", err)
	}

	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("atomic replace failed: %w", err)
	}
	return nil
}

func (s *Store) write(name string, data []byte) error {
	if err := s.writeAtomic(s.path(name), data); err != nil {
		return err
	}

	// Backup mirror is best-effort: log and swallow.
	if err := s.writeAtomic(s.path(name)+backupSuffix, data); err != nil {
		logging.Warn("Backup write failed for %s: %v", name, err)
	}
	return nil
}

// Load parses the named document into out. out should arrive pre-populated
// with defaults: present keys overlay, absent keys keep their default, which
// gives forward-compatible schema upgrades for free.
func (s *Store) Load(name string, out interface{}) error {
	primary := s.path(name)
	backup := primary + backupSuffix

	data, err := os.ReadFile(primary)
	if err == nil {
		if jsonErr := json.Unmarshal(data, out); jsonErr == nil {
			// Opportunistically refresh the backup from a good primary.
			if bkErr := s.writeAtomic(backup, data); bkErr != nil {
				logging.Warn("Backup refresh failed for %s: %v", name, bkErr)
			}
			return nil
		}
		logging.Warn("Primary document %s corrupted, trying backup", name)
	}

	primaryMissing := err != nil && os.IsNotExist(err)

	bdata, berr := os.ReadFile(backup)
	if berr == nil {
		if jsonErr := json.Unmarshal(bdata, out); jsonErr == nil {
			logging.Warn("Loaded %s from backup", name)
			return nil
		}
	}

	if primaryMissing && berr != nil && os.IsNotExist(berr) {
		return ErrNotFound
	}
	return ErrCorrupted
}
