package timeline

import "github.com/kestrelchat/kestrel/internal/types"

// ApplyGroupStyles assigns a GroupStyle to every message entry in place.
// Date markers and event entries get no style and act as group boundaries
// for their neighbors. When noGroupByUser is set every message renders as
// its own single-message group.
//
// Styles are recomputed from scratch each cycle; nothing is cached.
func ApplyGroupStyles(entries []Entry, noGroupByUser bool) {
	for i, entry := range entries {
		me, ok := entry.(*MessageEntry)
		if !ok {
			continue
		}
		if noGroupByUser {
			me.Group = GroupSingle
			continue
		}
		me.Group = groupStyle(me.Message, neighborMessage(entries, i-1), neighborMessage(entries, i+1))
	}
}

// neighborMessage returns the message at index i, or nil when i is out of
// range or the entry there is not a message. A non-message neighbor counts
// as a boundary, which is exactly what nil signals to groupStyle.
func neighborMessage(entries []Entry, i int) *types.Message {
	if i < 0 || i >= len(entries) {
		return nil
	}
	me, ok := entries[i].(*MessageEntry)
	if !ok {
		return nil
	}
	return &me.Message
}

func groupStyle(msg types.Message, prev, next *types.Message) GroupStyle {
	isTop := prev == nil ||
		prev.Kind == types.KindSystem || prev.Kind == types.KindError ||
		len(prev.Attachments) != 0 ||
		prev.User.ID != msg.User.ID ||
		prev.Deleted()
	isBottom := next == nil ||
		next.Kind == types.KindSystem || next.Kind == types.KindError ||
		len(next.Attachments) != 0 ||
		next.User.ID != msg.User.ID ||
		next.Deleted()

	style := GroupNone
	if isTop {
		style = GroupTop
	}
	if isBottom {
		if isTop || msg.Deleted() || msg.Kind == types.KindError {
			style = GroupSingle
		} else {
			style = GroupBottom
		}
	}
	if !isTop && !isBottom {
		if msg.Deleted() || msg.Kind == types.KindError {
			style = GroupSingle
		} else {
			style = GroupMiddle
		}
	}
	if len(msg.Attachments) != 0 {
		style = GroupSingle
	}
	return style
}
