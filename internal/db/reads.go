package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/kestrelchat/kestrel/internal/types"
)

// GetReadState loads every user's read record. LastRead stays nil for users
// who have never read the channel.
func GetReadState(conn *sql.DB) (types.ReadState, error) {
	rows, err := conn.Query(`SELECT user_id, user_name, last_read FROM read_state`)
	if err != nil {
		return nil, fmt.Errorf("query read state: %w", err)
	}
	defer rows.Close()

	state := make(types.ReadState)
	for rows.Next() {
		var (
			record   types.ReadRecord
			lastRead sql.NullInt64
		)
		if err := rows.Scan(&record.User.ID, &record.User.Name, &lastRead); err != nil {
			return nil, err
		}
		if lastRead.Valid {
			t := time.UnixMilli(lastRead.Int64)
			record.LastRead = &t
		}
		state[record.User.ID] = record
	}
	return state, rows.Err()
}

// SetLastRead advances (or initializes) a user's read pointer.
func SetLastRead(conn *sql.DB, user types.User, lastRead time.Time) error {
	_, err := conn.Exec(`INSERT INTO read_state (user_id, user_name, last_read) VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET user_name = excluded.user_name, last_read = excluded.last_read`,
		user.ID, user.Name, lastRead.UnixMilli())
	if err != nil {
		return fmt.Errorf("set last read: %w", err)
	}
	return nil
}
