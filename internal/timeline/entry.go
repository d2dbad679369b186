package timeline

import (
	"time"

	"github.com/kestrelchat/kestrel/internal/types"
)

// GroupStyle is the visual grouping classification of a message entry
// relative to its neighbors.
type GroupStyle string

const (
	GroupTop    GroupStyle = "top"
	GroupMiddle GroupStyle = "middle"
	GroupBottom GroupStyle = "bottom"
	GroupSingle GroupStyle = "single"
	// GroupNone renders with no grouping chrome at all. Used as the safe
	// default when a style was never computed.
	GroupNone GroupStyle = ""
)

// Entry is one renderable unit in the timeline: a message, a date
// separator, or a wrapped channel event.
type Entry interface {
	// Timestamp is the entry's sort key in the final render order.
	Timestamp() time.Time
}

// MessageEntry wraps a message plus the per-cycle annotations computed for
// it. Group and ReadBy are filled in after the entry sequence is built.
type MessageEntry struct {
	Message types.Message
	Group   GroupStyle
	ReadBy  []types.User
}

func (e *MessageEntry) Timestamp() time.Time { return e.Message.CreatedAt }

// DateMarker separates messages from different calendar days.
type DateMarker struct {
	Date time.Time
}

func (e *DateMarker) Timestamp() time.Time { return e.Date }

// EventEntry wraps an out-of-band channel event.
type EventEntry struct {
	Event types.ChannelEvent
}

func (e *EventEntry) Timestamp() time.Time { return e.Event.CreatedAt }
