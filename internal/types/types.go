package types

import "time"

// MessageStatus tracks delivery state of a message.
type MessageStatus string

const (
	StatusPending  MessageStatus = "pending"
	StatusReceived MessageStatus = "received"
	StatusFailed   MessageStatus = "failed"
)

// MessageKind classifies how a message participates in the timeline.
type MessageKind string

const (
	KindRegular    MessageKind = "regular"
	KindSystem     MessageKind = "system"
	KindError      MessageKind = "error"
	KindReadMarker MessageKind = "read-marker"
)

// User is a channel participant.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// Attachment is an opaque payload attached to a message. The timeline core
// only cares whether a message has any; rendering is the caller's problem.
type Attachment struct {
	Type  string `json:"type"`
	Title string `json:"title,omitempty"`
	URL   string `json:"url,omitempty"`
}

// Message is one channel message. ID is empty while a locally-composed
// message is still pending send.
type Message struct {
	ID          string        `json:"id,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	User        User          `json:"user"`
	Body        string        `json:"body"`
	Attachments []Attachment  `json:"attachments,omitempty"`
	Mentions    []User        `json:"mentions,omitempty"`
	DeletedAt   *time.Time    `json:"deleted_at,omitempty"`
	Status      MessageStatus `json:"status,omitempty"`
	Kind        MessageKind   `json:"kind,omitempty"`
}

// Deleted reports whether the message has been soft-deleted.
func (m Message) Deleted() bool {
	return m.DeletedAt != nil
}

// Edited reports whether the message body changed after creation.
func (m Message) Edited() bool {
	return m.UpdatedAt.After(m.CreatedAt)
}

// ChannelEvent is an out-of-band channel event (member joined, channel
// renamed, ...) anchored next to a specific message in the timeline.
type ChannelEvent struct {
	Kind      string    `json:"kind"`
	User      User      `json:"user"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// FirstEventBucket keys events that occurred before the first message.
const FirstEventBucket = "first"

// EventHistory maps a message id (or FirstEventBucket) to the events that
// should render next to that message.
type EventHistory map[string][]ChannelEvent

// ReadRecord is one user's read pointer. A nil LastRead means the user has
// never read the channel.
type ReadRecord struct {
	User     User       `json:"user"`
	LastRead *time.Time `json:"last_read,omitempty"`
}

// ReadState maps user id to that user's read record.
type ReadState map[string]ReadRecord

// Channel identifies the channel whose timeline is being rendered.
type Channel struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// MessageCursor marks a position in the message stream for paging.
type MessageCursor struct {
	ID string
	TS time.Time
}
