package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS messages (
	id          TEXT PRIMARY KEY,
	created_at  INTEGER NOT NULL,
	updated_at  INTEGER NOT NULL,
	user_id     TEXT NOT NULL,
	user_name   TEXT NOT NULL DEFAULT '',
	body        TEXT NOT NULL DEFAULT '',
	attachments TEXT NOT NULL DEFAULT '[]',
	mentions    TEXT NOT NULL DEFAULT '[]',
	deleted_at  INTEGER,
	status      TEXT NOT NULL DEFAULT 'received',
	kind        TEXT NOT NULL DEFAULT 'regular'
);
CREATE INDEX IF NOT EXISTS idx_messages_created ON messages(created_at, id);

CREATE TABLE IF NOT EXISTS channel_events (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	bucket     TEXT NOT NULL,
	kind       TEXT NOT NULL,
	user_id    TEXT NOT NULL DEFAULT '',
	user_name  TEXT NOT NULL DEFAULT '',
	text       TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_events_bucket ON channel_events(bucket, created_at);

CREATE TABLE IF NOT EXISTS read_state (
	user_id   TEXT PRIMARY KEY,
	user_name TEXT NOT NULL DEFAULT '',
	last_read INTEGER
);
`

// Open opens (creating if needed) the channel store at path.
func Open(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := conn.Exec(pragma); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("apply %s: %w", pragma, err)
		}
	}

	if _, err := conn.Exec(schema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return conn, nil
}

// OpenMemory opens a throwaway in-memory store. Test helper.
func OpenMemory() (*sql.DB, error) {
	return Open(":memory:")
}
