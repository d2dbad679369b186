package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kestrelchat/kestrel/internal/types"
)

// MessageQuery narrows GetMessages. Since returns messages strictly after
// the cursor; Before returns messages strictly before it (history paging).
type MessageQuery struct {
	Since  *types.MessageCursor
	Before *types.MessageCursor
	Limit  int
}

// GetMessages returns messages in ascending creation order. With Before set
// it returns the Limit messages immediately preceding the cursor, still in
// ascending order, which is what the infinite-scroll prepend wants.
func GetMessages(conn *sql.DB, q MessageQuery) ([]types.Message, error) {
	query := `SELECT id, created_at, updated_at, user_id, user_name, body,
		attachments, mentions, deleted_at, status, kind FROM messages`
	var args []any

	switch {
	case q.Before != nil:
		query += ` WHERE (created_at, id) < (?, ?) ORDER BY created_at DESC, id DESC`
		args = append(args, q.Before.TS.UnixMilli(), q.Before.ID)
	case q.Since != nil:
		query += ` WHERE (created_at, id) > (?, ?) ORDER BY created_at ASC, id ASC`
		args = append(args, q.Since.TS.UnixMilli(), q.Since.ID)
	default:
		query += ` ORDER BY created_at DESC, id DESC`
	}
	if q.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, q.Limit)
	}

	rows, err := conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var out []types.Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Descending queries page from the tail; flip back to render order.
	if q.Since == nil {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out, nil
}

// GetMessage fetches one message by id, nil when absent.
func GetMessage(conn *sql.DB, id string) (*types.Message, error) {
	row := conn.QueryRow(`SELECT id, created_at, updated_at, user_id, user_name, body,
		attachments, mentions, deleted_at, status, kind FROM messages WHERE id = ?`, id)
	msg, err := scanMessage(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// CreateMessage inserts msg, filling CreatedAt/UpdatedAt when zero.
func CreateMessage(conn *sql.DB, msg types.Message) (types.Message, error) {
	now := time.Now()
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = now
	}
	if msg.UpdatedAt.IsZero() {
		msg.UpdatedAt = msg.CreatedAt
	}
	if msg.Status == "" {
		msg.Status = types.StatusReceived
	}
	if msg.Kind == "" {
		msg.Kind = types.KindRegular
	}

	attachments, err := json.Marshal(msg.Attachments)
	if err != nil {
		return types.Message{}, fmt.Errorf("encode attachments: %w", err)
	}
	mentions, err := json.Marshal(msg.Mentions)
	if err != nil {
		return types.Message{}, fmt.Errorf("encode mentions: %w", err)
	}

	var deletedAt *int64
	if msg.DeletedAt != nil {
		ms := msg.DeletedAt.UnixMilli()
		deletedAt = &ms
	}

	_, err = conn.Exec(`INSERT INTO messages
		(id, created_at, updated_at, user_id, user_name, body, attachments, mentions, deleted_at, status, kind)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		msg.ID, msg.CreatedAt.UnixMilli(), msg.UpdatedAt.UnixMilli(),
		msg.User.ID, msg.User.Name, msg.Body, string(attachments), string(mentions),
		deletedAt, string(msg.Status), string(msg.Kind))
	if err != nil {
		return types.Message{}, fmt.Errorf("insert message: %w", err)
	}
	return msg, nil
}

// UpdateMessage replaces the body of an existing message and bumps
// UpdatedAt.
func UpdateMessage(conn *sql.DB, id, body string) error {
	res, err := conn.Exec(`UPDATE messages SET body = ?, updated_at = ? WHERE id = ?`,
		body, time.Now().UnixMilli(), id)
	if err != nil {
		return fmt.Errorf("update message: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("message %s not found", id)
	}
	return nil
}

// RemoveMessage soft-deletes a message. The row stays so the timeline can
// render a deleted placeholder.
func RemoveMessage(conn *sql.DB, id string) error {
	now := time.Now().UnixMilli()
	res, err := conn.Exec(`UPDATE messages SET deleted_at = ?, updated_at = ? WHERE id = ?`,
		now, now, id)
	if err != nil {
		return fmt.Errorf("remove message: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("message %s not found", id)
	}
	return nil
}

// SetMessageStatus flips the delivery status (retry flow: failed -> pending
// -> received).
func SetMessageStatus(conn *sql.DB, id string, status types.MessageStatus) error {
	_, err := conn.Exec(`UPDATE messages SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("set message status: %w", err)
	}
	return nil
}

// CountMessages returns the total message count, soft-deleted included.
func CountMessages(conn *sql.DB) (int, error) {
	var count int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM messages`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count messages: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMessage(row rowScanner) (types.Message, error) {
	var (
		msg                   types.Message
		createdAt, updatedAt  int64
		attachments, mentions string
		deletedAt             sql.NullInt64
		status, kind          string
	)
	err := row.Scan(&msg.ID, &createdAt, &updatedAt, &msg.User.ID, &msg.User.Name,
		&msg.Body, &attachments, &mentions, &deletedAt, &status, &kind)
	if err != nil {
		return types.Message{}, err
	}
	msg.CreatedAt = time.UnixMilli(createdAt)
	msg.UpdatedAt = time.UnixMilli(updatedAt)
	msg.Status = types.MessageStatus(status)
	msg.Kind = types.MessageKind(kind)
	if deletedAt.Valid {
		t := time.UnixMilli(deletedAt.Int64)
		msg.DeletedAt = &t
	}
	if err := json.Unmarshal([]byte(attachments), &msg.Attachments); err != nil {
		return types.Message{}, fmt.Errorf("decode attachments: %w", err)
	}
	if err := json.Unmarshal([]byte(mentions), &msg.Mentions); err != nil {
		return types.Message{}, fmt.Errorf("decode mentions: %w", err)
	}
	return msg, nil
}
