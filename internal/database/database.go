package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

type Database struct {
	db *sql.DB
}

var globalDB *Database

// Initialize opens the SQLite incident database and creates the schema.
func Initialize(dbPath string) error {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	_, err = db.Exec("PRAGMA journal_mode=WAL")
	if err != nil {
		return fmt.Errorf("failed to enable WAL: %w", err)
	}

	_, err = db.Exec("PRAGMA synchronous=NORMAL")
	if err != nil {
		return fmt.Errorf("failed to set synchronous mode: %w", err)
	}

	globalDB = &Database{db: db}

	if err := globalDB.createTables(); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	return nil
}

// GetDB returns the global database instance
func GetDB() *Database {
	return globalDB
}

// IsConnected checks if database connection is alive
func IsConnected() bool {
	if globalDB == nil || globalDB.db == nil {
		return false
	}
	return globalDB.db.Ping() == nil
}

// Close closes the database connection
func Close() error {
	if globalDB != nil && globalDB.db != nil {
		return globalDB.db.Close()
	}
	return nil
}

func (d *Database) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS incidents (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		guild_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		detector TEXT NOT NULL,
		action_taken TEXT NOT NULL,
		reason TEXT NOT NULL,
		timestamp INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_incidents_guild ON incidents(guild_id);
	CREATE INDEX IF NOT EXISTS idx_incidents_timestamp ON incidents(timestamp);
	`

	_, err := d.db.Exec(schema)
	return err
}

// Incident is one enforcement the bot carried out automatically or on
// command.
type Incident struct {
	ID          int64
	GuildID     string
	UserID      string
	Detector    string // antinuke, antispam, warnings or manual
	ActionTaken string
	Reason      string
	Timestamp   int64
}

// RecordIncident appends an enforcement record to the audit trail.
func (d *Database) RecordIncident(guildID, userID, detector, action, reason string) error {
	_, err := d.db.Exec(
		`INSERT INTO incidents (guild_id, user_id, detector, action_taken, reason, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		guildID, userID, detector, action, reason, time.Now().Unix(),
	)
	return err
}

// RecentIncidents retrieves the newest incidents for a guild.
func (d *Database) RecentIncidents(guildID string, limit int) ([]*Incident, error) {
	rows, err := d.db.Query(
		`SELECT id, guild_id, user_id, detector, action_taken, reason, timestamp
		 FROM incidents WHERE guild_id = ? ORDER BY timestamp DESC LIMIT ?`,
		guildID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var incidents []*Incident
	for rows.Next() {
		var in Incident
		if err := rows.Scan(&in.ID, &in.GuildID, &in.UserID, &in.Detector, &in.ActionTaken, &in.Reason, &in.Timestamp); err != nil {
			return nil, err
		}
		incidents = append(incidents, &in)
	}

	return incidents, rows.Err()
}

// CountIncidents returns the total number of recorded incidents.
func (d *Database) CountIncidents() (int, error) {
	var count int
	err := d.db.QueryRow(`SELECT COUNT(*) FROM incidents`).Scan(&count)
	return count, err
}
