// Package timeline is the reconciliation core of the chat view: it merges a
// raw message stream, out-of-band channel events, and read-receipt state
// into one ordered, annotated entry sequence. Everything here is pure and
// recomputed from scratch on every update cycle; the stateful scroll and
// notification machinery lives in internal/chat.
package timeline

import "github.com/kestrelchat/kestrel/internal/types"

// Inputs is everything one build cycle consumes. All fields are read-only
// for the duration of the cycle.
type Inputs struct {
	Messages []types.Message
	Events   types.EventHistory
	Read     types.ReadState

	// NoGroupByUser forces every message to render as a single-message group.
	NoGroupByUser bool
	// ThreadView suppresses date markers (sub-conversation views).
	ThreadView bool
}

// RenderModel is the output of one build cycle, ready to hand to the
// per-entry renderer.
type RenderModel struct {
	Entries []Entry
	// ReadIndex keys are exactly the ids of the message entries present in
	// Entries this cycle.
	ReadIndex map[string][]types.User
}

// Build runs one full reconciliation cycle: entry construction, grouping,
// read indexing. Annotations land directly on the message entries.
func Build(in Inputs) RenderModel {
	entries := BuildEntries(in.Messages, in.Events, BuildOptions{NoDateMarkers: in.ThreadView})
	ApplyGroupStyles(entries, in.NoGroupByUser)

	built := make([]types.Message, 0, len(entries))
	for _, entry := range entries {
		if me, ok := entry.(*MessageEntry); ok {
			built = append(built, me.Message)
		}
	}
	index := BuildReadIndex(built, in.Read)

	for _, entry := range entries {
		me, ok := entry.(*MessageEntry)
		if !ok || me.Message.ID == "" {
			continue
		}
		me.ReadBy = index[me.Message.ID]
	}
	return RenderModel{Entries: entries, ReadIndex: index}
}

// LastMessage returns the final message entry of the sequence, or nil when
// there is none.
func LastMessage(entries []Entry) *types.Message {
	for i := len(entries) - 1; i >= 0; i-- {
		if me, ok := entries[i].(*MessageEntry); ok {
			return &me.Message
		}
	}
	return nil
}
