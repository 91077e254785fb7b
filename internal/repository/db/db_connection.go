package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const sqliteDriverName = "sqlite"

var pragmas = []string{
	"PRAGMA journal_mode = WAL;",
	"PRAGMA foreign_keys = ON;",
	"PRAGMA busy_timeout = 5000;",
}

// InitDB opens/creates a SQLite DB file and ensures tables exist.
func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open(sqliteDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}

	// single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set %s: %w", p, err)
		}
	}

	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return db, nil
}

const schemaRadioStatus = `
CREATE TABLE IF NOT EXISTS radio_status (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    fake_ap_running BOOLEAN NOT NULL,
    fake_ap_name TEXT NOT NULL DEFAULT '',
    portal_running BOOLEAN NOT NULL,
    portal_name TEXT NOT NULL DEFAULT '',
    portal_visitors INTEGER NOT NULL DEFAULT 0,
    transfer_running BOOLEAN NOT NULL,
    connected_clients INTEGER NOT NULL DEFAULT 0,
    updated_at TIMESTAMP NOT NULL
);
`

const schemaRadioEvents = `
CREATE TABLE IF NOT EXISTS radio_events (
    id TEXT PRIMARY KEY,
    occurred_at TIMESTAMP NOT NULL,
    type TEXT NOT NULL,
    mode TEXT,
    message TEXT NOT NULL,
    actor TEXT,
    meta TEXT
);
`

const indexRadioEventsOccurredAt = `
CREATE INDEX IF NOT EXISTS idx_radio_events_occurred_at ON radio_events (occurred_at);
`

const schemaOperators = `
CREATE TABLE IF NOT EXISTS operators (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// radio_events files written before operators existed have no actor column.
const addRadioEventsActor = `ALTER TABLE radio_events ADD COLUMN actor TEXT`

func ensureSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for i, stmt := range []string{
		schemaRadioStatus,
		schemaRadioEvents,
		indexRadioEventsOccurredAt,
		schemaOperators,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}

	has, err := hasColumn(tx, "radio_events", "actor")
	if err != nil {
		return err
	}
	if !has {
		if _, err := tx.Exec(addRadioEventsActor); err != nil {
			return fmt.Errorf("add radio_events.actor: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema transaction: %w", err)
	}
	return nil
}

func hasColumn(tx *sql.Tx, table, column string) (bool, error) {
	rows, err := tx.Query(`SELECT name FROM pragma_table_info(?)`, table)
	if err != nil {
		return false, fmt.Errorf("inspect %s columns: %w", table, err)
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return false, err
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}
