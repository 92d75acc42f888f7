// Package sqlite provides SQLite-based persistent storage for FitCoach.
// Uses WAL mode for concurrent reads and crash-safe writes.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)
)

// DB wraps a SQLite connection with WAL mode and migrations.
type DB struct {
	db *sql.DB
}

// Open creates or opens the SQLite database at dir/state.db.
// Enables WAL mode, foreign keys, and a 5-second busy timeout.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dir, "state.db")
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	// SQLite is single-writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	d := &DB{db: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return d, nil
}

// Close cleanly shuts down the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Ping checks database connectivity.
func (d *DB) Ping() error {
	return d.db.Ping()
}

// migrate runs idempotent schema migrations.
func (d *DB) migrate() error {
	migrations := []string{
		// Scalar activity-ledger fields (streak, xp, counters)
		`CREATE TABLE IF NOT EXISTS activity (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		// Unlocked badges, rowid preserves unlock order
		`CREATE TABLE IF NOT EXISTS badges (
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			description TEXT NOT NULL,
			icon        TEXT NOT NULL,
			unlocked_at INTEGER NOT NULL
		)`,

		// Weekly goals, rewritten whole on every save
		`CREATE TABLE IF NOT EXISTS weekly_goals (
			id       TEXT PRIMARY KEY,
			name     TEXT NOT NULL,
			target   INTEGER NOT NULL,
			current  INTEGER NOT NULL DEFAULT 0,
			position INTEGER NOT NULL
		)`,

		// Chat history, trimmed to the most recent window
		`CREATE TABLE IF NOT EXISTS messages (
			id         TEXT PRIMARY KEY,
			role       TEXT NOT NULL,
			content    TEXT NOT NULL,
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_created ON messages(created_at)`,

		// Session id and other app-level keys
		`CREATE TABLE IF NOT EXISTS app_state (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		// Append-only XP grant history with running balance
		`CREATE TABLE IF NOT EXISTS xp_ledger (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			source    TEXT NOT NULL,
			amount    INTEGER NOT NULL,
			balance   INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_xp_ts ON xp_ledger(timestamp)`,

		// Reward notification log (daily cap, quiet hours)
		`CREATE TABLE IF NOT EXISTS notifications (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			type       TEXT NOT NULL,
			title      TEXT NOT NULL,
			body       TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			shown      BOOLEAN DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_notif_created ON notifications(created_at)`,
	}

	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}

// ─── App State ──────────────────────────────────────────────────────────────

// SetAppState stores a key-value pair in app_state.
func (d *DB) SetAppState(key, value string) error {
	_, err := d.db.Exec(
		`INSERT INTO app_state (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value=excluded.value`,
		key, value,
	)
	return err
}

// GetAppState retrieves a value from app_state. Missing keys return "".
func (d *DB) GetAppState(key string) (string, error) {
	var value string
	err := d.db.QueryRow(`SELECT value FROM app_state WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

