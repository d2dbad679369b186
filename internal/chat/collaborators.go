package chat

import (
	"database/sql"

	"github.com/kestrelchat/kestrel/internal/db"
	"github.com/kestrelchat/kestrel/internal/types"
)

// ChannelOps is the capability set the channel collaborator hands the
// timeline: everything the view may ask the channel to do. The view only
// forwards these; it never interprets results beyond surfacing errors on
// the status line.
type ChannelOps interface {
	UpdateMessage(id, body string) error
	RemoveMessage(id string) error
	RetrySendMessage(id string) error
	OpenThread(id string) error
	OnMentionsClick(msg types.Message, user types.User)
	OnMentionsHover(msg types.Message, user types.User)
}

// StoreOps is the default ChannelOps backed by the local sqlite store.
type StoreOps struct {
	conn *sql.DB

	// MentionsClick/MentionsHover are optional hooks; nil hooks make the
	// corresponding notification a no-op.
	MentionsClick func(msg types.Message, user types.User)
	MentionsHover func(msg types.Message, user types.User)
}

// NewStoreOps wraps a store connection in the ChannelOps interface.
func NewStoreOps(conn *sql.DB) *StoreOps {
	return &StoreOps{conn: conn}
}

func (s *StoreOps) UpdateMessage(id, body string) error {
	return db.UpdateMessage(s.conn, id, body)
}

func (s *StoreOps) RemoveMessage(id string) error {
	return db.RemoveMessage(s.conn, id)
}

// RetrySendMessage re-queues a failed message. The local store has no real
// transport, so retrying flips the message back to pending and lets the
// next poll pick it up as received.
func (s *StoreOps) RetrySendMessage(id string) error {
	if err := db.SetMessageStatus(s.conn, id, types.StatusPending); err != nil {
		return err
	}
	return db.SetMessageStatus(s.conn, id, types.StatusReceived)
}

func (s *StoreOps) OpenThread(id string) error { return nil }

func (s *StoreOps) OnMentionsClick(msg types.Message, user types.User) {
	if s.MentionsClick != nil {
		s.MentionsClick(msg, user)
	}
}

func (s *StoreOps) OnMentionsHover(msg types.Message, user types.User) {
	if s.MentionsHover != nil {
		s.MentionsHover(msg, user)
	}
}
