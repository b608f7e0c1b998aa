package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// InitSQLite initializes the local SQLite database and creates the necessary
// schemas for persisting game headers, round history, and the event log.
func InitSQLite(dbPath string) (*sql.DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	// Create tables
	if err := createSchemas(db); err != nil {
		return nil, fmt.Errorf("failed to create schemas: %w", err)
	}

	return db, nil
}

func createSchemas(db *sql.DB) error {
	schemas := []string{
		`CREATE TABLE IF NOT EXISTS games (
			id TEXT PRIMARY KEY,
			seed INTEGER NOT NULL,
			greed REAL NOT NULL,
			deceptiveness REAL NOT NULL,
			adaptiveness REAL NOT NULL,
			final_score INTEGER NOT NULL DEFAULT 0,
			final_trust REAL NOT NULL DEFAULT 0.5,
			rounds_played INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			completed_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS rounds (
			game_id TEXT NOT NULL,
			round INTEGER NOT NULL,
			smuggler_action TEXT NOT NULL,
			inspector_action TEXT NOT NULL,
			quantity INTEGER NOT NULL DEFAULT 1,
			payoff INTEGER NOT NULL,
			score INTEGER NOT NULL,
			was_trap BOOLEAN NOT NULL DEFAULT 0,
			PRIMARY KEY (game_id, round),
			FOREIGN KEY (game_id) REFERENCES games(id)
		);`,
		`CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			game_id TEXT NOT NULL,
			round INTEGER NOT NULL,
			timestamp DATETIME NOT NULL,
			event_type TEXT NOT NULL,
			payload TEXT NOT NULL,
			FOREIGN KEY (game_id) REFERENCES games(id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_rounds_game_id ON rounds(game_id);`,
		`CREATE INDEX IF NOT EXISTS idx_events_game_id ON events(game_id);`,
		`CREATE INDEX IF NOT EXISTS idx_events_event_type ON events(event_type);`,
	}

	for _, query := range schemas {
		if _, err := db.Exec(query); err != nil {
			return err
		}
	}

	return nil
}
