package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/kestrelchat/kestrel/internal/types"
)

// AddEvent records a channel event under bucket (a message id, or
// types.FirstEventBucket for events preceding the first message).
func AddEvent(conn *sql.DB, bucket string, ev types.ChannelEvent) error {
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now()
	}
	_, err := conn.Exec(`INSERT INTO channel_events (bucket, kind, user_id, user_name, text, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		bucket, ev.Kind, ev.User.ID, ev.User.Name, ev.Text, ev.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// GetEventHistory loads the full event-history mapping, each bucket ordered
// by event time.
func GetEventHistory(conn *sql.DB) (types.EventHistory, error) {
	rows, err := conn.Query(`SELECT bucket, kind, user_id, user_name, text, created_at
		FROM channel_events ORDER BY bucket, created_at`)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	history := make(types.EventHistory)
	for rows.Next() {
		var (
			bucket    string
			ev        types.ChannelEvent
			createdAt int64
		)
		if err := rows.Scan(&bucket, &ev.Kind, &ev.User.ID, &ev.User.Name, &ev.Text, &createdAt); err != nil {
			return nil, err
		}
		ev.CreatedAt = time.UnixMilli(createdAt)
		history[bucket] = append(history[bucket], ev)
	}
	return history, rows.Err()
}

// EventVersion is a cheap change signal over the event history. Row count
// and highest rowid move together on append and diverge on prune, so any
// mutation the store supports changes the pair. Events are never rewritten
// in place.
type EventVersion struct {
	Count    int64
	MaxRowID int64
}

// EventsVersion reads the current event-history version. The chat model
// compares versions across poll cycles to decide whether the event history
// changed and a scroll anchor is needed.
func EventsVersion(conn *sql.DB) (EventVersion, error) {
	var v EventVersion
	err := conn.QueryRow(`SELECT COUNT(*), COALESCE(MAX(rowid), 0) FROM channel_events`).
		Scan(&v.Count, &v.MaxRowID)
	if err != nil {
		return EventVersion{}, fmt.Errorf("events version: %w", err)
	}
	return v, nil
}
